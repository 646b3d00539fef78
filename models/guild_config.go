package models

import "time"

// GuildConfig represents the per-guild channel and role configuration written by !setconfig
type GuildConfig struct {
	GuildID               int64     `db:"guild_id"`
	RegistrationChannelID int64     `db:"registration_channel"`
	ManualChannelID       int64     `db:"manual_channel"`
	AdminChannelID        int64     `db:"admin_channel"`
	AdminRoleID           int64     `db:"admin_role"`
	AdvancedRoleID        int64     `db:"advanced_role"`
	UpdatedAt             time.Time `db:"updated_at"`
}

// Route identifies which form flow a guild message belongs to
type Route int

const (
	RouteUnmatched Route = iota
	RouteRegistration
	RouteManualReview
)

// String returns the route name used in logs and metrics
func (r Route) String() string {
	switch r {
	case RouteRegistration:
		return "registration"
	case RouteManualReview:
		return "manual_review"
	default:
		return "unmatched"
	}
}

// RouteFor resolves the route for a message posted in channelID.
// The registration channel wins if both configured channels are the same.
func (c *GuildConfig) RouteFor(channelID int64) Route {
	switch channelID {
	case c.RegistrationChannelID:
		return RouteRegistration
	case c.ManualChannelID:
		return RouteManualReview
	default:
		return RouteUnmatched
	}
}
