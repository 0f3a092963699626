// Package workflow runs contractor matching for a project: fetch, score, select,
// persist match requests, send invitations and mark the project matched.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"contractormatching/lib/data"
	"contractormatching/lib/matching"
	"contractormatching/lib/models"
	"contractormatching/lib/notification"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ContractorSource lists contractors that may be invited
type ContractorSource interface {
	GetActiveContractors(ctx context.Context) ([]models.Contractor, error)
}

// MatchStore persists match requests idempotently
type MatchStore interface {
	UpsertMatchRequests(ctx context.Context, requests []models.MatchRequest) ([]models.MatchRequest, error)
	GetMatchRequestsByProject(ctx context.Context, projectID string) ([]models.MatchRequest, error)
}

// ProjectStatusUpdater moves a project through its lifecycle
type ProjectStatusUpdater interface {
	UpdateProjectStatus(ctx context.Context, projectID string, status models.ProjectStatus) error
}

// TokenIssuer mints accept/decline tokens
type TokenIssuer interface {
	Issue(projectID, contractorID string, action models.JobAction) (string, error)
	TTL() time.Duration
}

// Notifier delivers one invitation over whatever channels reach the contractor
type Notifier interface {
	Notify(ctx context.Context, inv notification.Invitation) models.NotificationOutcome
}

// Dependencies are the collaborators a run talks to
type Dependencies struct {
	Contractors ContractorSource
	Matches     MatchStore
	Projects    ProjectStatusUpdater
	Tokens      TokenIssuer
	Notifier    Notifier
}

// Settings tune a run. Zero values fall back to production defaults.
type Settings struct {
	BaseURL        string
	MaxContractors int
	SendInterval   time.Duration
	// Clock and Wait are replaced in tests
	Clock func() time.Time
	Wait  func(ctx context.Context, d time.Duration) error
}

// Orchestrator runs the matching workflow. A run holds no state between invocations.
type Orchestrator struct {
	deps     Dependencies
	settings Settings
	logger   *logrus.Logger
}

// NewOrchestrator creates an orchestrator
func NewOrchestrator(deps Dependencies, settings Settings, logger *logrus.Logger) *Orchestrator {
	if settings.MaxContractors <= 0 {
		settings.MaxContractors = matching.DefaultMaxContractors
	}
	if settings.SendInterval < 0 {
		settings.SendInterval = 0
	}
	if settings.Clock == nil {
		settings.Clock = time.Now
	}
	if settings.Wait == nil {
		settings.Wait = sleepContext
	}
	settings.BaseURL = strings.TrimRight(settings.BaseURL, "/")

	return &Orchestrator{
		deps:     deps,
		settings: settings,
		logger:   logger,
	}
}

// Run matches contractors to the project. Failures are reported in the result,
// never returned as errors. Re-running for the same project is safe.
func (o *Orchestrator) Run(ctx context.Context, project models.Project) *models.WorkflowResult {
	result := &models.WorkflowResult{
		RunID:         uuid.NewString(),
		ProjectID:     project.ProjectID,
		MatchRequests: []models.MatchRequest{},
		Notifications: []models.NotificationOutcome{},
		Errors:        []string{},
	}
	log := o.logger.WithFields(logrus.Fields{
		"run_id":     result.RunID,
		"project_id": project.ProjectID,
		"peril":      project.Peril,
		"operation":  "RunMatchingWorkflow",
	})

	contractors, err := o.deps.Contractors.GetActiveContractors(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to fetch contractors")
		return fail(result, models.OutcomeFailedNoContractors, fmt.Sprintf("Failed to fetch contractors: %v", err))
	}
	if len(contractors) == 0 {
		log.Warn("No active contractors available")
		return fail(result, models.OutcomeFailedNoContractors, "No active contractors available")
	}

	now := o.settings.Clock()
	scored := matching.Score(project, contractors, now)
	limit := o.settings.MaxContractors
	if len(contractors) < limit {
		limit = len(contractors)
	}
	selected := matching.SelectTop(uniqueContractors(scored), limit)
	log.WithFields(logrus.Fields{
		"available": len(contractors),
		"scored":    len(scored),
		"selected":  len(selected),
	}).Info("Scored contractors")

	if len(selected) == 0 {
		return fail(result, models.OutcomeFailedNoMatch, fmt.Sprintf(
			"No suitable contractors found: %d contractor(s) available, none matched %s damage",
			len(contractors), project.Peril))
	}

	persisted, diagnostic := o.persist(ctx, log, project, selected)
	if diagnostic != "" {
		return fail(result, models.OutcomeFailedPersistence, diagnostic)
	}
	selected = persistedOnly(selected, persisted)
	result.MatchRequests = persisted
	result.MatchedContractors = len(selected)
	if len(selected) == 0 {
		log.Warn("No selected contractor has a saved match request")
		return fail(result, models.OutcomeFailedPersistence, "Failed to save match requests: none of the selected contractors have a saved match request")
	}

	o.notifyAll(ctx, log, project, selected, now, result)

	if err := o.deps.Projects.UpdateProjectStatus(ctx, project.ProjectID, models.ProjectStatusMatched); err != nil {
		log.WithError(err).Warn("Failed to mark project as matched")
	}

	result.Success = true
	result.Outcome = models.OutcomeSucceeded
	log.WithFields(logrus.Fields{
		"matched":            result.MatchedContractors,
		"notifications_sent": result.NotificationsSent,
		"errors":             len(result.Errors),
	}).Info("Matching workflow completed")

	return result
}

// persist upserts one match request per selected contractor. A non-empty
// diagnostic means the run must stop.
func (o *Orchestrator) persist(ctx context.Context, log *logrus.Entry, project models.Project, selected []models.ScoredContractor) ([]models.MatchRequest, string) {
	requests := make([]models.MatchRequest, 0, len(selected))
	for _, candidate := range selected {
		requests = append(requests, models.MatchRequest{
			MatchRequestID: uuid.NewString(),
			ProjectID:      project.ProjectID,
			ContractorID:   candidate.ContractorID,
			Status:         models.MatchRequestSent,
		})
	}

	persisted, err := o.deps.Matches.UpsertMatchRequests(ctx, requests)
	switch {
	case err == nil:
		return persisted, ""

	case errors.Is(err, data.ErrDuplicateMatch):
		log.WithError(err).Warn("Match requests already exist, reloading")
		existing, readErr := o.deps.Matches.GetMatchRequestsByProject(ctx, project.ProjectID)
		if readErr != nil {
			log.WithError(readErr).Error("Failed to reload existing match requests")
			return nil, fmt.Sprintf("Failed to save match requests: %v", readErr)
		}
		return existing, ""

	case errors.Is(err, data.ErrPermissionDenied):
		log.WithError(err).Error("Database role cannot write match requests")
		return nil, "Permission denied saving match requests: grant INSERT and UPDATE on matching.match_requests to the service database role"

	default:
		log.WithError(err).Error("Failed to save match requests")
		return nil, fmt.Sprintf("Failed to save match requests: %v", err)
	}
}

// notifyAll invites contractors one at a time with a pause between sends
func (o *Orchestrator) notifyAll(ctx context.Context, log *logrus.Entry, project models.Project, selected []models.ScoredContractor, now time.Time, result *models.WorkflowResult) {
	for i, candidate := range selected {
		if i > 0 {
			if err := o.settings.Wait(ctx, o.settings.SendInterval); err != nil {
				log.WithError(err).Warn("Notification loop interrupted")
				result.Errors = append(result.Errors, fmt.Sprintf(
					"Stopped notifying after %d of %d contractors: %v", i, len(selected), err))
				break
			}
		}

		outcome := o.notify(ctx, project, candidate, now)
		result.Notifications = append(result.Notifications, outcome)

		for _, delivery := range outcome.Deliveries {
			if !delivery.Delivered {
				continue
			}
			switch delivery.Channel {
			case models.ChannelEmail:
				result.EmailsSent++
			case models.ChannelSMS:
				result.SMSSent++
			}
		}

		if outcome.Notified {
			result.NotificationsSent++
			continue
		}
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to notify %s (%s): %s",
			candidate.CompanyName, candidate.ContractorID, failureSummary(outcome)))
	}

	if len(result.Notifications) > 0 && result.NotificationsSent == 0 {
		result.Errors = append(result.Errors, fmt.Sprintf(
			"All %d contractor notifications failed; match requests were saved and the workflow can be re-run",
			len(result.Notifications)))
	}
}

func (o *Orchestrator) notify(ctx context.Context, project models.Project, candidate models.ScoredContractor, now time.Time) models.NotificationOutcome {
	acceptToken, err := o.deps.Tokens.Issue(project.ProjectID, candidate.ContractorID, models.JobActionAccept)
	if err == nil {
		var declineToken string
		declineToken, err = o.deps.Tokens.Issue(project.ProjectID, candidate.ContractorID, models.JobActionDecline)
		if err == nil {
			return o.deps.Notifier.Notify(ctx, notification.Invitation{
				Project:    project,
				Contractor: candidate.Contractor,
				AcceptURL:  AcceptURL(o.settings.BaseURL, acceptToken),
				DeclineURL: DeclineURL(o.settings.BaseURL, declineToken),
				Reasons:    candidate.Reasons,
				ExpiresIn:  o.deps.Tokens.TTL(),
				SentAt:     now,
			})
		}
	}

	o.logger.WithFields(logrus.Fields{
		"project_id":    project.ProjectID,
		"contractor_id": candidate.ContractorID,
		"error":         err.Error(),
	}).Error("Failed to issue response tokens")
	return models.NotificationOutcome{
		ContractorID: candidate.ContractorID,
		Deliveries: []models.ChannelDelivery{{
			Error: fmt.Sprintf("failed to create response links: %v", err),
		}},
	}
}

// AcceptURL is the link a contractor follows to take the job
func AcceptURL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/accept-job/" + token
}

// DeclineURL is the link a contractor follows to pass on the job
func DeclineURL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/decline-job/" + token
}

func fail(result *models.WorkflowResult, outcome models.WorkflowOutcome, diagnostic string) *models.WorkflowResult {
	result.Success = false
	result.Outcome = outcome
	result.Errors = append(result.Errors, diagnostic)
	return result
}

func failureSummary(outcome models.NotificationOutcome) string {
	if len(outcome.Deliveries) == 0 {
		return "no email address or phone number on file"
	}
	parts := make([]string, 0, len(outcome.Deliveries))
	for _, delivery := range outcome.Deliveries {
		label := string(delivery.Channel)
		if label == "" {
			label = "setup"
		}
		parts = append(parts, label+": "+delivery.Error)
	}
	return strings.Join(parts, "; ")
}

// persistedOnly keeps the selected contractors that have a saved match request, in rank order
func persistedOnly(selected []models.ScoredContractor, persisted []models.MatchRequest) []models.ScoredContractor {
	saved := make(map[string]struct{}, len(persisted))
	for _, request := range persisted {
		saved[request.ContractorID] = struct{}{}
	}
	kept := make([]models.ScoredContractor, 0, len(selected))
	for _, candidate := range selected {
		if _, ok := saved[candidate.ContractorID]; ok {
			kept = append(kept, candidate)
		}
	}
	return kept
}

// uniqueContractors keeps the first (highest ranked) entry per contractor id
func uniqueContractors(scored []models.ScoredContractor) []models.ScoredContractor {
	seen := make(map[string]struct{}, len(scored))
	unique := make([]models.ScoredContractor, 0, len(scored))
	for _, candidate := range scored {
		if _, ok := seen[candidate.ContractorID]; ok {
			continue
		}
		seen[candidate.ContractorID] = struct{}{}
		unique = append(unique, candidate)
	}
	return unique
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
