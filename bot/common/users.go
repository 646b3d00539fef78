package common

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// ParseID converts a Discord snowflake string to int64
func ParseID(id string) (int64, error) {
	parsed, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid discord id %q: %w", id, err)
	}
	return parsed, nil
}

// FormatID converts an int64 snowflake back to its string form
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// IsUserAdmin checks whether a member owns the guild or holds the administrator permission.
// Roles and guild ownership come from the session state when cached and from the API otherwise.
func IsUserAdmin(ctx context.Context, s *discordgo.Session, guildID, userID string) (bool, error) {
	member, err := s.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to get guild member: %w", err)
	}

	guild, err := s.State.Guild(guildID)
	if err != nil {
		guild, err = s.Guild(guildID, discordgo.WithContext(ctx))
		if err != nil {
			return false, fmt.Errorf("failed to get guild: %w", err)
		}
	}

	roles := guild.Roles
	if len(roles) == 0 {
		roles, err = s.GuildRoles(guildID, discordgo.WithContext(ctx))
		if err != nil {
			return false, fmt.Errorf("failed to get guild roles: %w", err)
		}
	}

	return HasAdministrator(guildID, guild.OwnerID, member, roles), nil
}

// HasAdministrator reports whether member is the owner or has a role granting
// the administrator permission. The @everyone role shares the guild's id.
func HasAdministrator(guildID, ownerID string, member *discordgo.Member, roles []*discordgo.Role) bool {
	if member == nil {
		return false
	}
	if member.User != nil && ownerID != "" && member.User.ID == ownerID {
		return true
	}

	held := make(map[string]bool, len(member.Roles)+1)
	held[guildID] = true
	for _, roleID := range member.Roles {
		held[roleID] = true
	}

	for _, role := range roles {
		if held[role.ID] && role.Permissions&discordgo.PermissionAdministrator != 0 {
			return true
		}
	}

	return false
}
