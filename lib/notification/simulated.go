package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SimulatedTransport logs messages instead of sending them. Only wired when
// the delivery mode is "simulated".
type SimulatedTransport struct {
	Logger *logrus.Logger
}

func (t *SimulatedTransport) SendEmail(ctx context.Context, to, subject, html, text string) (string, error) {
	id := "simulated-" + uuid.NewString()
	t.Logger.WithFields(logrus.Fields{
		"to":         to,
		"subject":    subject,
		"message_id": id,
		"text_bytes": len(text),
	}).Info("Simulated email delivery")
	return id, nil
}

func (t *SimulatedTransport) SendSMS(ctx context.Context, phoneNumber, body string) (string, error) {
	id := "simulated-" + uuid.NewString()
	t.Logger.WithFields(logrus.Fields{
		"to":         phoneNumber,
		"message_id": id,
		"body_bytes": len(body),
	}).Info("Simulated SMS delivery")
	return id, nil
}
