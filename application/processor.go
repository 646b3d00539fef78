package application

import (
	"context"
	"fmt"
	"time"

	"registrar/events"
	"registrar/models"
	"registrar/observability"
	"registrar/service"

	log "github.com/sirupsen/logrus"
)

// Outcome describes what processing did with a queued message
type Outcome string

const (
	OutcomeNoConfig              Outcome = "no_config"
	OutcomeIgnored               Outcome = "ignored"
	OutcomeParseFailed           Outcome = "parse_failed"
	OutcomeStorageFailed         Outcome = "storage_failed"
	OutcomeRoleGrantFailed       Outcome = "role_grant_failed"
	OutcomeRegistered            Outcome = "registered"
	OutcomeAlertFailed           Outcome = "alert_failed"
	OutcomeManualReviewSubmitted Outcome = "manual_review_submitted"
)

// User-facing replies
const (
	ReplyStorageError         = "An error occurred while saving your data."
	ReplyRegistered           = "Registration complete, you have been given the advanced role."
	ReplyManualReviewReceived = "Your application has been submitted, please wait for an administrator to review it."
	ReplyGenericError         = "Something went wrong, please try again later."
)

// Processor handles queued guild messages posted in the registration and manual review channels
type Processor struct {
	configs       service.GuildConfigService
	registrations service.RegistrationService
	chat          ChatClient
	events        EventPublisher
	metrics       *observability.Metrics
}

// NewProcessor creates a new message processor
func NewProcessor(
	configs service.GuildConfigService,
	registrations service.RegistrationService,
	chat ChatClient,
	events EventPublisher,
	metrics *observability.Metrics,
) *Processor {
	return &Processor{
		configs:       configs,
		registrations: registrations,
		chat:          chat,
		events:        events,
		metrics:       metrics,
	}
}

// Process routes one message by its channel and runs the matching form flow
func (p *Processor) Process(ctx context.Context, msg models.QueuedMessage) Outcome {
	start := time.Now()
	outcome, err := p.process(ctx, msg)

	p.metrics.IncProcessed(string(outcome))
	p.metrics.ObserveProcessLatency(time.Since(start))

	entry := log.WithFields(log.Fields{
		"guild_id":   msg.GuildID,
		"channel_id": msg.ChannelID,
		"author_id":  msg.AuthorID,
		"message_id": msg.MessageID,
		"outcome":    outcome,
	})
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Debug("Processed queued message")

	return outcome
}

// process returns the outcome together with the error that ended the flow early, if any
func (p *Processor) process(ctx context.Context, msg models.QueuedMessage) (Outcome, error) {
	config, err := p.configs.GetConfig(ctx, msg.GuildID)
	if err != nil {
		log.WithError(err).WithField("guild_id", msg.GuildID).Warn("Failed to load guild config, dropping message")
		return OutcomeNoConfig, fmt.Errorf("%w: %w", ErrConfigNotFound, err)
	}
	if config == nil {
		return OutcomeNoConfig, ErrConfigNotFound
	}

	switch config.RouteFor(msg.ChannelID) {
	case models.RouteRegistration:
		return p.processRegistration(ctx, msg, config)
	case models.RouteManualReview:
		return p.processManualReview(ctx, msg, config)
	default:
		return OutcomeIgnored, nil
	}
}

func (p *Processor) processRegistration(ctx context.Context, msg models.QueuedMessage, config *models.GuildConfig) (Outcome, error) {
	form, ok := ParseRegistration(msg.Content)
	if !ok {
		return OutcomeParseFailed, ErrParseFailure
	}

	registration, err := p.registrations.Register(ctx, msg.GuildID, msg.AuthorID, form.Name, form.Age)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"guild_id":  msg.GuildID,
			"author_id": msg.AuthorID,
		}).Error("Failed to save registration")
		p.reply(ctx, msg, ReplyStorageError)
		return OutcomeStorageFailed, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	if err := p.chat.AddRole(ctx, msg.GuildID, msg.AuthorID, config.AdvancedRoleID); err != nil {
		// The registration stays stored; the user is not told about the partial success
		log.WithError(err).WithFields(log.Fields{
			"guild_id":        msg.GuildID,
			"author_id":       msg.AuthorID,
			"role_id":         config.AdvancedRoleID,
			"registration_id": registration.ID,
		}).Error("Failed to grant advanced role")
		return OutcomeRoleGrantFailed, fmt.Errorf("failed to grant advanced role: %w", err)
	}

	p.reply(ctx, msg, ReplyRegistered)

	p.events.Emit(ctx, events.RegistrationCompletedEvent{
		RegistrationID: registration.ID,
		GuildID:        registration.GuildID,
		UserID:         registration.UserID,
		Name:           registration.Name,
		Age:            registration.Age,
		RoleID:         config.AdvancedRoleID,
	})

	log.WithFields(log.Fields{
		"guild_id":        msg.GuildID,
		"author_id":       msg.AuthorID,
		"registration_id": registration.ID,
	}).Info("Registration completed")

	return OutcomeRegistered, nil
}

func (p *Processor) processManualReview(ctx context.Context, msg models.QueuedMessage, config *models.GuildConfig) (Outcome, error) {
	data, ok := ParseManualReview(msg.Content)
	if !ok {
		return OutcomeParseFailed, ErrParseFailure
	}

	alert := FormatManualReviewAlert(config.AdminRoleID, msg.AuthorID, data)
	if err := p.chat.SendMessage(ctx, config.AdminChannelID, alert); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"guild_id":         msg.GuildID,
			"admin_channel_id": config.AdminChannelID,
		}).Error("Failed to post manual review alert")
		p.reply(ctx, msg, ReplyGenericError)
		return OutcomeAlertFailed, fmt.Errorf("failed to post manual review alert: %w", err)
	}

	p.reply(ctx, msg, ReplyManualReviewReceived)

	p.events.Emit(ctx, events.ManualReviewSubmittedEvent{
		GuildID:        msg.GuildID,
		UserID:         msg.AuthorID,
		Content:        data,
		AdminChannelID: config.AdminChannelID,
	})

	return OutcomeManualReviewSubmitted, nil
}

// reply sends a reply and only logs failures
func (p *Processor) reply(ctx context.Context, msg models.QueuedMessage, content string) {
	if err := p.chat.Reply(ctx, msg, content); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"guild_id":   msg.GuildID,
			"channel_id": msg.ChannelID,
			"message_id": msg.MessageID,
		}).Warn("Failed to reply to message")
	}
}

// FormatManualReviewAlert builds the admin channel notice for a manual review request
func FormatManualReviewAlert(adminRoleID, userID int64, data string) string {
	return fmt.Sprintf("<@&%d> New manual review request from <@%d>: %s", adminRoleID, userID, data)
}
