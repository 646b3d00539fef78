package models

import "time"

// Registration represents one accepted registration form submission
type Registration struct {
	ID        int64     `db:"id"`
	GuildID   int64     `db:"guild_id"`
	UserID    int64     `db:"user_id"`
	Name      string    `db:"name"`
	Age       string    `db:"age"`
	CreatedAt time.Time `db:"created_at"`
}
