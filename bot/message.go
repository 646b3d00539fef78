package bot

import (
	"time"

	"registrar/bot/common"
	"registrar/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// ConvertMessage turns a gateway message into a QueuedMessage.
// Messages from bots (including selfID), direct messages and messages with
// unparseable ids are rejected.
func ConvertMessage(m *discordgo.Message, selfID string) (models.QueuedMessage, bool) {
	if m == nil || m.Author == nil {
		return models.QueuedMessage{}, false
	}
	if m.Author.Bot || m.Author.ID == selfID {
		return models.QueuedMessage{}, false
	}
	if m.GuildID == "" {
		log.Debugf("Skipping message %s - not from a guild (possibly a DM)", m.ID)
		return models.QueuedMessage{}, false
	}

	ids := make([]int64, 0, 4)
	for _, raw := range []string{m.ID, m.GuildID, m.ChannelID, m.Author.ID} {
		id, err := common.ParseID(raw)
		if err != nil {
			log.WithError(err).WithField("message_id", m.ID).Warn("Skipping message with invalid id")
			return models.QueuedMessage{}, false
		}
		ids = append(ids, id)
	}

	receivedAt := m.Timestamp
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	return models.QueuedMessage{
		MessageID:  ids[0],
		GuildID:    ids[1],
		ChannelID:  ids[2],
		AuthorID:   ids[3],
		Content:    m.Content,
		ReceivedAt: receivedAt.UTC(),
	}, true
}
