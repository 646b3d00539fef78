package repository

import "time"

// nullableTime maps the zero time to NULL so the database default applies
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
