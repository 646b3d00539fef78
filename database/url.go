package database

import (
	"fmt"
	"strings"
)

// Driver identifies the storage backend selected by a database URL
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// DriverFor returns the storage backend for a database URL.
// postgres:// and postgresql:// select Postgres; sqlite://, file: and *.db paths select SQLite.
func DriverFor(databaseURL string) (Driver, error) {
	url := strings.TrimSpace(databaseURL)
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres, nil
	case strings.HasPrefix(url, "sqlite://"), strings.HasPrefix(url, "sqlite3://"),
		strings.HasPrefix(url, "file:"), strings.HasSuffix(url, ".db"), url == ":memory:":
		return DriverSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database URL %q", databaseURL)
	}
}

// SQLitePath strips the sqlite:// scheme, leaving a path go-sqlite3 accepts.
// sqlite:////data/bot.db yields /data/bot.db.
func SQLitePath(databaseURL string) string {
	url := strings.TrimSpace(databaseURL)
	for _, scheme := range []string{"sqlite3://", "sqlite://"} {
		if strings.HasPrefix(url, scheme) {
			path := strings.TrimPrefix(url, scheme)
			if strings.HasPrefix(path, "//") {
				path = path[1:]
			}
			return path
		}
	}
	return url
}

// ConstructDatabaseURL constructs a complete database URL from base URL and database name
// This function:
// - Combines a Postgres base URL with database name
// - Automatically adds sslmode=disable if not present
// - Handles existing query parameters correctly
// SQLite URLs already name their file and are returned unchanged.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	// If DATABASE_NAME is not set, return the base URL as-is
	if databaseName == "" {
		return baseURL
	}
	if driver, err := DriverFor(baseURL); err != nil || driver != DriverPostgres {
		return baseURL
	}

	baseURL = strings.TrimRight(baseURL, "/")
	var databaseURL string

	if strings.Contains(baseURL, "?") {
		// Insert database name before the query parameters
		parts := strings.SplitN(baseURL, "?", 2)
		databaseURL = fmt.Sprintf("%s/%s?%s", parts[0], databaseName, parts[1])
	} else {
		databaseURL = fmt.Sprintf("%s/%s", baseURL, databaseName)
	}

	if !strings.Contains(databaseURL, "sslmode=") {
		separator := "&"
		if !strings.Contains(databaseURL, "?") {
			separator = "?"
		}
		databaseURL = fmt.Sprintf("%s%ssslmode=disable", databaseURL, separator)
	}

	return databaseURL
}
