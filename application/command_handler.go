package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"registrar/events"
	"registrar/models"
	"registrar/observability"
	"registrar/service"

	log "github.com/sirupsen/logrus"
)

// SetConfigCommand is the prefix of the guild configuration command
const SetConfigCommand = "!setconfig"

const (
	ReplyPermissionDenied = "You do not have permission to run this command."
	ReplySetConfigUsage   = "Usage: !setconfig <registration_channel> <manual_channel> <admin_channel> <admin_role> <advanced_role> (each a non-zero Discord id)"
)

// SetConfigArgs are the identifiers passed to !setconfig
type SetConfigArgs struct {
	RegistrationChannelID int64
	ManualChannelID       int64
	AdminChannelID        int64
	AdminRoleID           int64
	AdvancedRoleID        int64
}

// IsSetConfigCommand reports whether content should be handled as a config command
func IsSetConfigCommand(content string) bool {
	return strings.HasPrefix(content, SetConfigCommand)
}

// ParseSetConfigArgs parses "!setconfig <reg> <manual> <admin channel> <admin role> <advanced role>".
// Every identifier must be a positive integer that fits a Discord snowflake.
func ParseSetConfigArgs(content string) (*SetConfigArgs, error) {
	parts := strings.Fields(content)
	if len(parts) != 6 {
		return nil, &ValidationError{Reason: fmt.Sprintf("expected 5 arguments, got %d", max(len(parts)-1, 0))}
	}
	if parts[0] != SetConfigCommand {
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown command %q", parts[0])}
	}

	ids := make([]int64, 0, 5)
	for _, part := range parts[1:] {
		id, err := parseSnowflake(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return &SetConfigArgs{
		RegistrationChannelID: ids[0],
		ManualChannelID:       ids[1],
		AdminChannelID:        ids[2],
		AdminRoleID:           ids[3],
		AdvancedRoleID:        ids[4],
	}, nil
}

func parseSnowflake(s string) (int64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, &ValidationError{Reason: fmt.Sprintf("%q is not a valid id", s)}
	}
	if id == 0 || id > math.MaxInt64 {
		return 0, &ValidationError{Reason: fmt.Sprintf("id %s is out of range", s)}
	}
	return int64(id), nil
}

// CommandHandler handles the administrator configuration command
type CommandHandler struct {
	configs service.GuildConfigService
	chat    ChatClient
	events  EventPublisher
	metrics *observability.Metrics
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(configs service.GuildConfigService, chat ChatClient, events EventPublisher, metrics *observability.Metrics) *CommandHandler {
	return &CommandHandler{
		configs: configs,
		chat:    chat,
		events:  events,
		metrics: metrics,
	}
}

// HandleSetConfig checks the author's permission, parses the arguments and replaces the guild config
func (h *CommandHandler) HandleSetConfig(ctx context.Context, msg models.QueuedMessage) error {
	err := h.handleSetConfig(ctx, msg)

	result := "ok"
	var validationErr *ValidationError
	switch {
	case err == nil:
	case errors.Is(err, ErrPermissionDenied):
		result = "denied"
	case errors.As(err, &validationErr):
		result = "invalid"
	default:
		result = "error"
	}
	h.metrics.IncCommand(result)

	return err
}

func (h *CommandHandler) handleSetConfig(ctx context.Context, msg models.QueuedMessage) error {
	logger := log.WithFields(log.Fields{
		"guild_id":  msg.GuildID,
		"author_id": msg.AuthorID,
	})

	isAdmin, err := h.chat.IsAdministrator(ctx, msg.GuildID, msg.AuthorID)
	if err != nil {
		logger.WithError(err).Error("Failed to check administrator permission")
		h.reply(ctx, msg, ReplyGenericError)
		return fmt.Errorf("failed to check administrator permission: %w", err)
	}
	if !isAdmin {
		logger.Info("Rejected config command from non-administrator")
		h.reply(ctx, msg, ReplyPermissionDenied)
		return ErrPermissionDenied
	}

	args, err := ParseSetConfigArgs(msg.Content)
	if err != nil {
		logger.WithError(err).Info("Rejected malformed config command")
		h.reply(ctx, msg, ReplySetConfigUsage)
		return err
	}

	config := &models.GuildConfig{
		GuildID:               msg.GuildID,
		RegistrationChannelID: args.RegistrationChannelID,
		ManualChannelID:       args.ManualChannelID,
		AdminChannelID:        args.AdminChannelID,
		AdminRoleID:           args.AdminRoleID,
		AdvancedRoleID:        args.AdvancedRoleID,
	}

	if err := h.configs.UpdateConfig(ctx, config); err != nil {
		if errors.Is(err, service.ErrInvalidConfig) {
			h.reply(ctx, msg, ReplySetConfigUsage)
			return &ValidationError{Reason: err.Error()}
		}
		logger.WithError(err).Error("Failed to store guild config")
		h.reply(ctx, msg, ReplyGenericError)
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	h.reply(ctx, msg, FormatConfigSaved(config))

	h.events.Emit(ctx, events.GuildConfigUpdatedEvent{
		GuildID:               config.GuildID,
		UpdatedBy:             msg.AuthorID,
		RegistrationChannelID: config.RegistrationChannelID,
		ManualChannelID:       config.ManualChannelID,
		AdminChannelID:        config.AdminChannelID,
		AdminRoleID:           config.AdminRoleID,
		AdvancedRoleID:        config.AdvancedRoleID,
	})

	logger.Info("Guild config updated")
	return nil
}

func (h *CommandHandler) reply(ctx context.Context, msg models.QueuedMessage, content string) {
	if err := h.chat.Reply(ctx, msg, content); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"guild_id":   msg.GuildID,
			"message_id": msg.MessageID,
		}).Warn("Failed to reply to config command")
	}
}

// FormatConfigSaved builds the confirmation listing the configured channels and roles
func FormatConfigSaved(config *models.GuildConfig) string {
	var b strings.Builder
	b.WriteString("Configuration saved!\n")
	fmt.Fprintf(&b, "Registration channel: <#%d>\n", config.RegistrationChannelID)
	fmt.Fprintf(&b, "Manual review channel: <#%d>\n", config.ManualChannelID)
	fmt.Fprintf(&b, "Admin channel: <#%d>\n", config.AdminChannelID)
	fmt.Fprintf(&b, "Admin role: <@&%d>\n", config.AdminRoleID)
	fmt.Fprintf(&b, "Advanced role: <@&%d>", config.AdvancedRoleID)
	return b.String()
}
