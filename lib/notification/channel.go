package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contractormatching/lib/models"

	"github.com/sirupsen/logrus"
)

// EmailTransport delivers a rendered email and returns the provider message id
type EmailTransport interface {
	SendEmail(ctx context.Context, to, subject, html, text string) (string, error)
}

// SMSTransport delivers a text message and returns the provider message id
type SMSTransport interface {
	SendSMS(ctx context.Context, phoneNumber, body string) (string, error)
}

// Archiver keeps a copy of a rendered invitation for operators
type Archiver interface {
	ArchiveInvitation(ctx context.Context, projectID, contractorID, html string) error
}

// Channel sends an invitation over one transport. Send never panics and
// reports failures through the returned delivery.
type Channel interface {
	Name() models.NotificationChannel
	Reachable(contractor models.Contractor) bool
	Send(ctx context.Context, inv Invitation) models.ChannelDelivery
}

var errNoAddress = errors.New("contractor has no address for this channel")

// EmailChannel sends HTML + plaintext invitations
type EmailChannel struct {
	Transport EmailTransport
	Archiver  Archiver
	Logger    *logrus.Logger
}

func (c *EmailChannel) Name() models.NotificationChannel { return models.ChannelEmail }

func (c *EmailChannel) Reachable(contractor models.Contractor) bool {
	return strings.TrimSpace(contractor.Email) != ""
}

func (c *EmailChannel) Send(ctx context.Context, inv Invitation) (delivery models.ChannelDelivery) {
	delivery = models.ChannelDelivery{Channel: c.Name()}
	defer recoverDelivery(c.Logger, inv, &delivery)

	if !c.Reachable(inv.Contractor) {
		return failed(c.Logger, inv, delivery, errNoAddress)
	}

	html, text, err := RenderEmail(inv)
	if err != nil {
		return failed(c.Logger, inv, delivery, err)
	}

	messageID, err := c.Transport.SendEmail(ctx, inv.Contractor.Email, inv.Subject(), html, text)
	if c.Archiver != nil {
		if archiveErr := c.Archiver.ArchiveInvitation(ctx, inv.Project.ProjectID, inv.Contractor.ContractorID, html); archiveErr != nil {
			c.Logger.WithFields(logrus.Fields{
				"project_id":    inv.Project.ProjectID,
				"contractor_id": inv.Contractor.ContractorID,
				"error":         archiveErr.Error(),
			}).Warn("Failed to archive invitation")
		}
	}
	if err != nil {
		return failed(c.Logger, inv, delivery, err)
	}

	delivery.Delivered = true
	delivery.MessageID = messageID
	return delivery
}

// SMSChannel sends a single text message per invitation
type SMSChannel struct {
	Transport SMSTransport
	Logger    *logrus.Logger
}

func (c *SMSChannel) Name() models.NotificationChannel { return models.ChannelSMS }

func (c *SMSChannel) Reachable(contractor models.Contractor) bool {
	return strings.TrimSpace(contractor.Phone) != ""
}

func (c *SMSChannel) Send(ctx context.Context, inv Invitation) (delivery models.ChannelDelivery) {
	delivery = models.ChannelDelivery{Channel: c.Name()}
	defer recoverDelivery(c.Logger, inv, &delivery)

	if !c.Reachable(inv.Contractor) {
		return failed(c.Logger, inv, delivery, errNoAddress)
	}

	body, err := RenderSMS(inv)
	if err != nil {
		return failed(c.Logger, inv, delivery, err)
	}

	messageID, err := c.Transport.SendSMS(ctx, inv.Contractor.Phone, body)
	if err != nil {
		return failed(c.Logger, inv, delivery, err)
	}

	delivery.Delivered = true
	delivery.MessageID = messageID
	return delivery
}

func failed(logger *logrus.Logger, inv Invitation, delivery models.ChannelDelivery, err error) models.ChannelDelivery {
	logger.WithFields(logrus.Fields{
		"project_id":    inv.Project.ProjectID,
		"contractor_id": inv.Contractor.ContractorID,
		"channel":       delivery.Channel,
		"error":         err.Error(),
	}).Error("Failed to send invitation")

	delivery.Delivered = false
	delivery.Error = err.Error()
	return delivery
}

func recoverDelivery(logger *logrus.Logger, inv Invitation, delivery *models.ChannelDelivery) {
	if r := recover(); r != nil {
		*delivery = failed(logger, inv, *delivery, fmt.Errorf("transport panic: %v", r))
	}
}
