// Package token issues and verifies the signed links contractors use to accept or decline a job.
//
// A token is base64url(payload JSON) + "." + base64url(HMAC-SHA256(secret, payload JSON)).
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"contractormatching/lib/models"
)

const separator = "."

// DefaultTTL is how long an accept/decline link stays valid
const DefaultTTL = 48 * time.Hour

// ErrMissingSecret is returned when the signing secret is not configured
var ErrMissingSecret = errors.New("action token secret is not configured")

// Trailing bits must be zero so each token has exactly one accepted encoding.
var encoding = base64.RawURLEncoding.Strict()

// Service signs and verifies action tokens. It holds no mutable state.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option customizes a Service
type Option func(*Service)

// WithTTL overrides the token lifetime
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the time source, used by tests
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a token service. An empty secret is a configuration error.
func NewService(secret string, opts ...Option) (*Service, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}

	s := &Service{
		secret: []byte(secret),
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the lifetime applied to issued tokens
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue creates a token binding the project, contractor and action
func (s *Service) Issue(projectID, contractorID string, action models.JobAction) (string, error) {
	if !action.Valid() {
		return "", fmt.Errorf("invalid job action %q", action)
	}
	if projectID == "" || contractorID == "" {
		return "", fmt.Errorf("project id and contractor id are required")
	}

	payload := models.ActionTokenPayload{
		ProjectID:    projectID,
		ContractorID: contractorID,
		Action:       action,
		Exp:          s.now().Add(s.ttl).Unix(),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode token payload: %w", err)
	}

	return encoding.EncodeToString(raw) + separator + encoding.EncodeToString(s.sign(raw)), nil
}

// Verify returns the payload of a valid, unexpired token.
// Bad signatures, malformed input and expired tokens all yield ok == false.
func (s *Service) Verify(token string) (*models.ActionTokenPayload, bool) {
	payloadSegment, signatureSegment, found := strings.Cut(token, separator)
	if !found || payloadSegment == "" || signatureSegment == "" {
		return nil, false
	}

	raw, err := encoding.DecodeString(payloadSegment)
	if err != nil {
		return nil, false
	}
	signature, err := encoding.DecodeString(signatureSegment)
	if err != nil {
		return nil, false
	}

	if !hmac.Equal(signature, s.sign(raw)) {
		return nil, false
	}

	var payload models.ActionTokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, false
	}
	if !payload.Action.Valid() || payload.ProjectID == "" || payload.ContractorID == "" {
		return nil, false
	}

	if s.now().Unix() > payload.Exp {
		return nil, false
	}

	return &payload, true
}

// VerifyAction verifies the token and also requires it to carry the given action
func (s *Service) VerifyAction(token string, action models.JobAction) (*models.ActionTokenPayload, bool) {
	payload, ok := s.Verify(token)
	if !ok || payload.Action != action {
		return nil, false
	}
	return payload, true
}

func (s *Service) sign(raw []byte) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(raw)
	return mac.Sum(nil)
}
