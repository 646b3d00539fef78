package bot

import (
	"context"
	"fmt"

	"registrar/bot/common"
	"registrar/models"

	"github.com/bwmarrin/discordgo"
)

// DiscordChatClient performs outbound calls on a Discord session
type DiscordChatClient struct {
	session *discordgo.Session
}

// NewDiscordChatClient creates a chat client for session
func NewDiscordChatClient(session *discordgo.Session) *DiscordChatClient {
	return &DiscordChatClient{session: session}
}

// SendMessage posts text to a channel
func (c *DiscordChatClient) SendMessage(ctx context.Context, channelID int64, content string) error {
	_, err := c.session.ChannelMessageSendComplex(common.FormatID(channelID), &discordgo.MessageSend{
		Content:         content,
		AllowedMentions: &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeRoles, discordgo.AllowedMentionTypeUsers}},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send message to channel %d: %w", channelID, err)
	}
	return nil
}

// Reply answers msg in its channel with a message reference
func (c *DiscordChatClient) Reply(ctx context.Context, msg models.QueuedMessage, content string) error {
	ref := &discordgo.MessageReference{
		MessageID: common.FormatID(msg.MessageID),
		ChannelID: common.FormatID(msg.ChannelID),
		GuildID:   common.FormatID(msg.GuildID),
	}
	_, err := c.session.ChannelMessageSendReply(common.FormatID(msg.ChannelID), content, ref, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to reply to message %d: %w", msg.MessageID, err)
	}
	return nil
}

// AddRole grants roleID to a guild member
func (c *DiscordChatClient) AddRole(ctx context.Context, guildID, userID, roleID int64) error {
	err := c.session.GuildMemberRoleAdd(
		common.FormatID(guildID),
		common.FormatID(userID),
		common.FormatID(roleID),
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to add role %d to user %d in guild %d: %w", roleID, userID, guildID, err)
	}
	return nil
}

// IsAdministrator reports whether the member owns the guild or holds a role with the administrator permission
func (c *DiscordChatClient) IsAdministrator(ctx context.Context, guildID, userID int64) (bool, error) {
	return common.IsUserAdmin(ctx, c.session, common.FormatID(guildID), common.FormatID(userID))
}
