// Package config turns the SSM parameter map into the settings every component is built from.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"contractormatching/lib/constants"
)

var (
	ErrMissingTokenSecret = errors.New("missing action token secret")
	ErrMissingDatabase    = errors.New("missing database connection settings")
	ErrMissingEmailSender = errors.New("missing email sender address")
)

// Database holds the PostgreSQL connection settings
type Database struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// Config is built once at cold start and passed to constructors
type Config struct {
	Database         Database
	TokenSecret      string
	BaseURL          string
	EmailFrom        string
	SMSSenderID      string
	DeliveryMode     string
	InvitationBucket string
	MaxContractors   int
	SendInterval     time.Duration
}

// Load validates the parameters and applies defaults
func Load(params map[string]string) (*Config, error) {
	cfg := &Config{
		Database: Database{
			Host:     get(params, constants.DATABASE_RDS_ENDPOINT, ""),
			Port:     get(params, constants.DATABASE_PORT, "5432"),
			Name:     get(params, constants.DATABASE_NAME, ""),
			User:     get(params, constants.DATABASE_USERNAME, ""),
			Password: get(params, constants.DATABASE_PASSWORD, ""),
			SSLMode:  get(params, constants.SSL_MODE, "require"),
		},
		TokenSecret:      get(params, constants.ACTION_TOKEN_SECRET, ""),
		BaseURL:          strings.TrimRight(get(params, constants.APP_BASE_URL, constants.DEFAULT_APP_BASE_URL), "/"),
		EmailFrom:        get(params, constants.EMAIL_FROM_ADDRESS, ""),
		SMSSenderID:      get(params, constants.SMS_SENDER_ID, ""),
		DeliveryMode:     strings.ToLower(get(params, constants.DELIVERY_MODE, constants.DELIVERY_MODE_LIVE)),
		InvitationBucket: get(params, constants.INVITATION_BUCKET, ""),
		MaxContractors:   constants.DEFAULT_MAX_CONTRACTORS,
		SendInterval:     constants.NOTIFICATION_INTERVAL,
	}

	if raw := get(params, constants.MAX_MATCHED_CONTRACTOR, ""); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid %s: %q", constants.MAX_MATCHED_CONTRACTOR, raw)
		}
		cfg.MaxContractors = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports configuration errors that must stop the process
func (c *Config) Validate() error {
	if c.TokenSecret == "" {
		return ErrMissingTokenSecret
	}
	if c.Database.Host == "" || c.Database.Name == "" || c.Database.User == "" {
		return ErrMissingDatabase
	}
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("invalid app base url %q: %w", c.BaseURL, err)
	}

	switch c.DeliveryMode {
	case constants.DELIVERY_MODE_LIVE, constants.DELIVERY_MODE_SIMULATED:
	default:
		return fmt.Errorf("unknown delivery mode %q", c.DeliveryMode)
	}
	return nil
}

// ValidateDelivery is checked only by processes that send invitations
func (c *Config) ValidateDelivery() error {
	if !c.Simulated() && c.EmailFrom == "" {
		return fmt.Errorf("%w: required in %s delivery mode", ErrMissingEmailSender, c.DeliveryMode)
	}
	return nil
}

// Simulated reports whether notifications are logged instead of sent
func (c *Config) Simulated() bool {
	return c.DeliveryMode == constants.DELIVERY_MODE_SIMULATED
}

// ParseOrigins splits the comma separated ALLOWED_ORIGINS value
func ParseOrigins(raw string) []string {
	origins := []string{}
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimRight(strings.TrimSpace(origin), "/"); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func get(params map[string]string, key, def string) string {
	if v := strings.TrimSpace(params[key]); v != "" {
		return v
	}
	return def
}
