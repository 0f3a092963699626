package notification

import (
	"context"

	"contractormatching/lib/models"

	"github.com/sirupsen/logrus"
)

// Dispatcher fans an invitation out to every channel the contractor can be reached on
type Dispatcher struct {
	Channels []Channel
	Logger   *logrus.Logger
}

// NewDispatcher creates a dispatcher over the given channels, tried in order
func NewDispatcher(logger *logrus.Logger, channels ...Channel) *Dispatcher {
	return &Dispatcher{
		Channels: channels,
		Logger:   logger,
	}
}

// Notify attempts every reachable channel. The contractor counts as notified
// when at least one channel delivered.
func (d *Dispatcher) Notify(ctx context.Context, inv Invitation) models.NotificationOutcome {
	outcome := models.NotificationOutcome{
		ContractorID: inv.Contractor.ContractorID,
		Deliveries:   []models.ChannelDelivery{},
	}

	for _, channel := range d.Channels {
		if !channel.Reachable(inv.Contractor) {
			continue
		}

		delivery := channel.Send(ctx, inv)
		outcome.Deliveries = append(outcome.Deliveries, delivery)
		if delivery.Delivered {
			outcome.Notified = true
		}
	}

	d.Logger.WithFields(logrus.Fields{
		"project_id":    inv.Project.ProjectID,
		"contractor_id": inv.Contractor.ContractorID,
		"attempts":      len(outcome.Deliveries),
		"notified":      outcome.Notified,
		"operation":     "Notify",
	}).Info("Invitation dispatched")

	return outcome
}
