package bot

import (
	"context"
	"fmt"
	"sync"

	"registrar/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token string
}

// MessageHandler receives every guild message the bot accepts
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg models.QueuedMessage)
}

// Bot owns the Discord session and feeds guild messages to a MessageHandler
type Bot struct {
	config  Config
	session *discordgo.Session
	chat    *DiscordChatClient

	mu      sync.RWMutex
	handler MessageHandler
}

// New creates the Discord session without connecting.
// Call Start once the message handler has been built.
func New(config Config) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	return &Bot{
		config:  config,
		session: dg,
		chat:    NewDiscordChatClient(dg),
	}, nil
}

// ChatClient returns the outbound client bound to this bot's session
func (b *Bot) ChatClient() *DiscordChatClient {
	return b.chat
}

// Start registers the gateway handlers and opens the websocket connection
func (b *Bot) Start(handler MessageHandler) error {
	b.mu.Lock()
	b.handler = handler
	b.mu.Unlock()

	b.session.AddHandler(b.handleReady)
	b.session.AddHandler(b.handleGuildCreate)
	b.session.AddHandler(b.handleMessageCreate)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	return nil
}

// Close closes the Discord session
func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.WithFields(log.Fields{
		"user":   r.User.Username,
		"guilds": len(r.Guilds),
	}).Info("Connected to Discord gateway")
}

func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.WithFields(log.Fields{
		"guild_id":   g.ID,
		"guild_name": g.Name,
		"members":    g.MemberCount,
	}).Info("Guild available")
}

// handleMessageCreate converts gateway messages and hands them to the message handler
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	selfID := ""
	if s.State != nil && s.State.User != nil {
		selfID = s.State.User.ID
	}

	msg, ok := ConvertMessage(m.Message, selfID)
	if !ok {
		return
	}

	b.mu.RLock()
	handler := b.handler
	b.mu.RUnlock()
	if handler == nil {
		log.WithField("message_id", m.ID).Warn("Message received before handler was set")
		return
	}

	handler.HandleMessage(context.Background(), msg)
}

// ReplayMessage fetches a message and replays it as if just received
func (b *Bot) ReplayMessage(channelID, messageID string) error {
	msg, err := b.session.ChannelMessage(channelID, messageID)
	if err != nil {
		return fmt.Errorf("failed to fetch message %s from channel %s: %w", messageID, channelID, err)
	}

	// ChannelMessage does not populate the guild ID
	channel, err := b.session.Channel(channelID)
	if err != nil {
		return fmt.Errorf("failed to fetch channel %s: %w", channelID, err)
	}
	msg.GuildID = channel.GuildID

	log.WithFields(log.Fields{
		"channel_id": channelID,
		"message_id": messageID,
		"guild_id":   msg.GuildID,
		"source":     "debug_replay",
	}).Info("Replaying Discord message")

	b.handleMessageCreate(b.session, &discordgo.MessageCreate{Message: msg})
	return nil
}

// guildsFromState copies the cached guilds under the state read lock
func guildsFromState(state *discordgo.State) []GuildInfo {
	guilds := make([]GuildInfo, 0)
	if state == nil {
		return guilds
	}

	state.RLock()
	defer state.RUnlock()

	for _, guild := range state.Guilds {
		guilds = append(guilds, GuildInfo{
			ID:   guild.ID,
			Name: guild.Name,
		})
	}
	return guilds
}

// GetGuilds returns the guilds the bot is connected to
func (b *Bot) GetGuilds() []GuildInfo {
	guilds := guildsFromState(b.session.State)

	if len(guilds) == 0 {
		log.Warn("No guilds in session state, attempting to fetch user guilds")
		userGuilds, err := b.session.UserGuilds(100, "", "", false)
		if err != nil {
			log.Errorf("Failed to fetch user guilds: %v", err)
			return guilds
		}
		for _, guild := range userGuilds {
			guilds = append(guilds, GuildInfo{
				ID:   guild.ID,
				Name: guild.Name,
			})
		}
	}

	return guilds
}
