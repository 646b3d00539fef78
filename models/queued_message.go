package models

import "time"

// QueuedMessage is the platform-independent view of an inbound guild text message.
// It is built by the bot from a gateway event and consumed once by the processor.
type QueuedMessage struct {
	MessageID  int64
	GuildID    int64
	ChannelID  int64
	AuthorID   int64
	Content    string
	ReceivedAt time.Time
}
