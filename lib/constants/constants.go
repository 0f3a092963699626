package constants

import "time"

// SSM parameter names, all stored under /contractor-matching
const (
	SSM_PATH               = "/contractor-matching"
	ALLOWED_ORIGINS        = "/contractor-matching/ALLOWED_ORIGINS"
	DATABASE_RDS_ENDPOINT  = "/contractor-matching/DATABASE_RDS_ENDPOINT"
	DATABASE_PORT          = "/contractor-matching/DATABASE_PORT"
	DATABASE_NAME          = "/contractor-matching/DATABASE_NAME"
	DATABASE_USERNAME      = "/contractor-matching/DATABASE_USERNAME"
	DATABASE_PASSWORD      = "/contractor-matching/DATABASE_PASSWORD"
	SSL_MODE               = "/contractor-matching/SSL_MODE"
	ACTION_TOKEN_SECRET    = "/contractor-matching/ACTION_TOKEN_SECRET"
	APP_BASE_URL           = "/contractor-matching/APP_BASE_URL"
	EMAIL_FROM_ADDRESS     = "/contractor-matching/EMAIL_FROM_ADDRESS"
	SMS_SENDER_ID          = "/contractor-matching/SMS_SENDER_ID"
	DELIVERY_MODE          = "/contractor-matching/DELIVERY_MODE"
	INVITATION_BUCKET      = "/contractor-matching/INVITATION_BUCKET"
	MAX_MATCHED_CONTRACTOR = "/contractor-matching/MAX_MATCHED_CONTRACTORS"
	DRIVER_NAME            = "postgres"
)

const (
	AWS_REGION           = "us-east-2"
	LOCALSTACK_ENDPOINT  = "http://docker.for.mac.host.internal:4566"
	DEFAULT_APP_BASE_URL = "https://app.restorationmatch.com"
)

const (
	DEFAULT_MAX_CONTRACTORS = 3
	ACTION_TOKEN_TTL        = 48 * time.Hour
	NOTIFICATION_INTERVAL   = 2 * time.Second
)

// Delivery modes
const (
	DELIVERY_MODE_LIVE      = "live"
	DELIVERY_MODE_SIMULATED = "simulated"
)
