package clients

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"time"

	"contractormatching/lib/config"
	"contractormatching/lib/constants"

	_ "github.com/lib/pq"
)

// ConnectionString builds a postgres:// URL with escaped credentials
func ConnectionString(settings config.Database) string {
	query := url.Values{}
	if settings.SSLMode != "" {
		query.Set("sslmode", settings.SSLMode)
	}
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(settings.User, settings.Password),
		Host:     net.JoinHostPort(settings.Host, settings.Port),
		Path:     "/" + settings.Name,
		RawQuery: query.Encode(),
	}
	return dsn.String()
}

// NewPostgresSQLClient creates a new PostgreSQL client with connection pooling optimized for Lambda
func NewPostgresSQLClient(ctx context.Context, settings config.Database) (*sql.DB, error) {
	db, err := sql.Open(constants.DRIVER_NAME, ConnectionString(settings))
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	// Lambda-optimized connection settings
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database %s:%s/%s: %w", settings.Host, settings.Port, settings.Name, err)
	}

	return db, nil
}
