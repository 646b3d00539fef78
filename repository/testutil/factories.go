package testutil

import "registrar/models"

// CreateTestGuildConfig creates a guild config whose ids are derived from guildID
func CreateTestGuildConfig(guildID int64) *models.GuildConfig {
	return &models.GuildConfig{
		GuildID:               guildID,
		RegistrationChannelID: guildID*10 + 1,
		ManualChannelID:       guildID*10 + 2,
		AdminChannelID:        guildID*10 + 3,
		AdminRoleID:           guildID*10 + 4,
		AdvancedRoleID:        guildID*10 + 5,
	}
}

// CreateTestRegistration creates a registration with the given form values
func CreateTestRegistration(guildID, userID int64, name, age string) *models.Registration {
	return &models.Registration{
		GuildID: guildID,
		UserID:  userID,
		Name:    name,
		Age:     age,
	}
}
