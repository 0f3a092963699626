package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"contractormatching/lib/data"
	"contractormatching/lib/models"
	"contractormatching/lib/notification"
	"contractormatching/lib/token"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "https://app.restorationmatch.com"

var runAt = time.Date(2026, 8, 20, 14, 0, 0, 0, time.UTC)

type stubContractorSource struct {
	contractors []models.Contractor
	err         error
}

func (s *stubContractorSource) GetActiveContractors(context.Context) ([]models.Contractor, error) {
	return s.contractors, s.err
}

// memoryMatchStore keeps one row per (project, contractor) like the real upsert
type memoryMatchStore struct {
	mu        sync.Mutex
	rows      map[string]models.MatchRequest
	order     []string
	upsertErr error
	readErr   error
	upserts   int
}

func newMemoryMatchStore() *memoryMatchStore {
	return &memoryMatchStore{rows: map[string]models.MatchRequest{}}
}

func (m *memoryMatchStore) UpsertMatchRequests(_ context.Context, requests []models.MatchRequest) ([]models.MatchRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}

	persisted := make([]models.MatchRequest, 0, len(requests))
	for _, request := range requests {
		key := request.ProjectID + "/" + request.ContractorID
		existing, ok := m.rows[key]
		if !ok {
			request.CreatedAt = runAt
			m.rows[key] = request
			m.order = append(m.order, key)
			existing = request
		}
		existing.UpdatedAt = runAt
		m.rows[key] = existing
		persisted = append(persisted, existing)
	}
	return persisted, nil
}

func (m *memoryMatchStore) GetMatchRequestsByProject(_ context.Context, projectID string) ([]models.MatchRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	requests := []models.MatchRequest{}
	for _, key := range m.order {
		if strings.HasPrefix(key, projectID+"/") {
			requests = append(requests, m.rows[key])
		}
	}
	return requests, nil
}

type stubProjectUpdater struct {
	err     error
	updates []models.ProjectStatus
}

func (s *stubProjectUpdater) UpdateProjectStatus(_ context.Context, _ string, status models.ProjectStatus) error {
	s.updates = append(s.updates, status)
	return s.err
}

// recordingEmailTransport fails for the listed addresses
type recordingEmailTransport struct {
	failFor map[string]bool
	sent    []string
	html    map[string]string
}

func (r *recordingEmailTransport) SendEmail(_ context.Context, to, _, html, _ string) (string, error) {
	if r.html == nil {
		r.html = map[string]string{}
	}
	r.html[to] = html
	if r.failFor[to] {
		return "", fmt.Errorf("mailbox %s rejected", to)
	}
	r.sent = append(r.sent, to)
	return "msg-" + to, nil
}

type harness struct {
	contractors *stubContractorSource
	matches     *memoryMatchStore
	projects    *stubProjectUpdater
	tokens      *token.Service
	email       *recordingEmailTransport
	waits       []time.Duration
	settings    Settings
}

func newHarness(t *testing.T, contractors ...models.Contractor) *harness {
	t.Helper()
	tokens, err := token.NewService("workflow-secret", token.WithClock(func() time.Time { return runAt }))
	require.NoError(t, err)

	h := &harness{
		contractors: &stubContractorSource{contractors: contractors},
		matches:     newMemoryMatchStore(),
		projects:    &stubProjectUpdater{},
		tokens:      tokens,
		email:       &recordingEmailTransport{failFor: map[string]bool{}},
	}
	h.settings = Settings{
		BaseURL:      baseURL + "/",
		SendInterval: 2 * time.Second,
		Clock:        func() time.Time { return runAt },
		Wait: func(ctx context.Context, d time.Duration) error {
			h.waits = append(h.waits, d)
			return ctx.Err()
		},
	}
	return h
}

func (h *harness) orchestrator() *Orchestrator {
	logger := logrus.New()
	dispatcher := notification.NewDispatcher(logger,
		&notification.EmailChannel{Transport: h.email, Logger: logger},
	)
	return NewOrchestrator(Dependencies{
		Contractors: h.contractors,
		Matches:     h.matches,
		Projects:    h.projects,
		Tokens:      h.tokens,
		Notifier:    dispatcher,
	}, h.settings, logger)
}

func floodProject() models.Project {
	return models.Project{
		ProjectID:   "proj-42",
		City:        "Tampa",
		State:       "FL",
		ZipCode:     "33601",
		Peril:       models.PerilFlood,
		ContactName: "Sam Owner",
		Status:      models.ProjectStatusSubmitted,
	}
}

func activeContractor(id string, trades, areas []string) models.Contractor {
	return models.Contractor{
		ContractorID: id,
		CompanyName:  "Company " + id,
		Email:        id + "@pros.example",
		Capacity:     models.CapacityActive,
		Trades:       trades,
		ServiceAreas: areas,
	}
}

func threeContractors() []models.Contractor {
	return []models.Contractor{
		activeContractor("c1", []string{"water_mitigation"}, []string{"33601"}),
		activeContractor("c2", []string{"rebuild"}, []string{"Tampa"}),
		activeContractor("c3", nil, []string{"FL"}),
	}
}

func Test_Run_Success(t *testing.T) {
	//Arrange
	h := newHarness(t, threeContractors()...)

	//Act
	result := h.orchestrator().Run(context.Background(), floodProject())

	//Assert
	require.True(t, result.Success)
	assert.Equal(t, models.OutcomeSucceeded, result.Outcome)
	assert.Equal(t, 3, result.MatchedContractors)
	assert.Equal(t, 3, result.NotificationsSent)
	assert.Equal(t, 3, result.EmailsSent)
	assert.Equal(t, 0, result.SMSSent)
	assert.Empty(t, result.Errors)
	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.MatchRequests, 3)
	for _, request := range result.MatchRequests {
		assert.Equal(t, models.MatchRequestSent, request.Status)
		assert.Equal(t, "proj-42", request.ProjectID)
	}
	assert.Equal(t, []string{"c1@pros.example", "c2@pros.example", "c3@pros.example"}, h.email.sent)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, h.waits)
	assert.Equal(t, []models.ProjectStatus{models.ProjectStatusMatched}, h.projects.updates)
}

func Test_Run_InvitationLinksCarryVerifiableTokens(t *testing.T) {
	h := newHarness(t, activeContractor("c1", []string{"rebuild"}, []string{"33601"}))

	result := h.orchestrator().Run(context.Background(), floodProject())
	require.True(t, result.Success)

	html := h.email.html["c1@pros.example"]
	for _, action := range []models.JobAction{models.JobActionAccept, models.JobActionDecline} {
		prefix := baseURL + "/" + string(action) + "-job/"
		start := strings.Index(html, prefix)
		require.GreaterOrEqual(t, start, 0, "missing %s link", action)
		rest := html[start+len(prefix):]
		tokenValue := rest[:strings.IndexByte(rest, '"')]

		payload, ok := h.tokens.VerifyAction(tokenValue, action)
		require.True(t, ok)
		assert.Equal(t, "proj-42", payload.ProjectID)
		assert.Equal(t, "c1", payload.ContractorID)
	}
	assert.Empty(t, h.waits, "no pause after the last send")
}

func Test_Run_PartialNotificationFailure(t *testing.T) {
	//Arrange
	h := newHarness(t, threeContractors()...)
	h.email.failFor["c1@pros.example"] = true
	h.email.failFor["c3@pros.example"] = true

	//Act
	result := h.orchestrator().Run(context.Background(), floodProject())

	//Assert
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.EmailsSent)
	assert.Equal(t, 1, result.NotificationsSent)
	assert.Equal(t, 3, result.MatchedContractors)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "c1")
	assert.Contains(t, result.Errors[1], "c3")
	assert.Equal(t, []string{"c2@pros.example"}, h.email.sent)
}

func Test_Run_AllNotificationsFail(t *testing.T) {
	h := newHarness(t, threeContractors()...)
	for _, c := range threeContractors() {
		h.email.failFor[c.Email] = true
	}

	result := h.orchestrator().Run(context.Background(), floodProject())

	assert.True(t, result.Success)
	assert.Equal(t, models.OutcomeSucceeded, result.Outcome)
	assert.Equal(t, 0, result.NotificationsSent)
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[3], "All 3 contractor notifications failed")
	assert.Len(t, result.MatchRequests, 3)
}

func Test_Run_ContractorWithoutContactChannels(t *testing.T) {
	unreachable := activeContractor("c1", []string{"rebuild"}, []string{"33601"})
	unreachable.Email = ""
	h := newHarness(t, unreachable)

	result := h.orchestrator().Run(context.Background(), floodProject())

	assert.True(t, result.Success)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "no email address or phone number on file")
}

func Test_Run_IsIdempotent(t *testing.T) {
	h := newHarness(t, threeContractors()...)
	orchestrator := h.orchestrator()

	first := orchestrator.Run(context.Background(), floodProject())
	second := orchestrator.Run(context.Background(), floodProject())

	require.True(t, first.Success)
	require.True(t, second.Success)
	assert.Len(t, h.matches.rows, 3)
	assert.Equal(t, 2, h.matches.upserts)
	for i := range first.MatchRequests {
		assert.Equal(t, first.MatchRequests[i].MatchRequestID, second.MatchRequests[i].MatchRequestID)
	}
	assert.NotEqual(t, first.RunID, second.RunID)
}

func Test_Run_DuplicateConflictRecovers(t *testing.T) {
	//Arrange
	h := newHarness(t, threeContractors()...)
	_, err := h.matches.UpsertMatchRequests(context.Background(), []models.MatchRequest{
		{MatchRequestID: "old-1", ProjectID: "proj-42", ContractorID: "c1", Status: models.MatchRequestAccepted},
		{MatchRequestID: "old-2", ProjectID: "proj-42", ContractorID: "c2", Status: models.MatchRequestSent},
		{MatchRequestID: "old-3", ProjectID: "proj-42", ContractorID: "c3", Status: models.MatchRequestSent},
	})
	require.NoError(t, err)
	h.matches.upsertErr = fmt.Errorf("failed to upsert match requests: %w", data.ErrDuplicateMatch)

	//Act
	result := h.orchestrator().Run(context.Background(), floodProject())

	//Assert
	assert.True(t, result.Success)
	require.Len(t, result.MatchRequests, 3)
	assert.Equal(t, "old-1", result.MatchRequests[0].MatchRequestID)
	assert.Equal(t, 3, result.MatchedContractors)
	assert.Equal(t, 3, result.NotificationsSent)
	assert.Empty(t, result.Errors)
}

func Test_Run_DuplicateConflictNotifiesOnlySavedContractors(t *testing.T) {
	//Arrange
	h := newHarness(t, threeContractors()...)
	_, err := h.matches.UpsertMatchRequests(context.Background(), []models.MatchRequest{
		{MatchRequestID: "old", ProjectID: "proj-42", ContractorID: "c1", Status: models.MatchRequestAccepted},
	})
	require.NoError(t, err)
	h.matches.upsertErr = fmt.Errorf("failed to upsert match requests: %w", data.ErrDuplicateMatch)

	//Act
	result := h.orchestrator().Run(context.Background(), floodProject())

	//Assert
	assert.True(t, result.Success)
	require.Len(t, result.MatchRequests, 1)
	assert.Equal(t, "old", result.MatchRequests[0].MatchRequestID)
	assert.Equal(t, 1, result.MatchedContractors)
	assert.Equal(t, 1, result.NotificationsSent)
	assert.Equal(t, []string{"c1@pros.example"}, h.email.sent)
	assert.Empty(t, h.waits)
	assert.Empty(t, result.Errors)
}

func Test_Run_DuplicateConflictWithNoSavedRows(t *testing.T) {
	h := newHarness(t, threeContractors()...)
	h.matches.upsertErr = data.ErrDuplicateMatch

	result := h.orchestrator().Run(context.Background(), floodProject())

	assert.False(t, result.Success)
	assert.Equal(t, models.OutcomeFailedPersistence, result.Outcome)
	assert.Equal(t, 0, result.MatchedContractors)
	assert.Empty(t, h.email.sent)
	assert.Empty(t, h.projects.updates)
}

func Test_Run_DuplicateConflictReloadFails(t *testing.T) {
	h := newHarness(t, threeContractors()...)
	h.matches.upsertErr = data.ErrDuplicateMatch
	h.matches.readErr = errors.New("read timeout")

	result := h.orchestrator().Run(context.Background(), floodProject())

	assert.False(t, result.Success)
	assert.Equal(t, models.OutcomeFailedPersistence, result.Outcome)
	assert.Empty(t, h.email.sent)
}

func Test_Run_PermissionDenied(t *testing.T) {
	h := newHarness(t, threeContractors()...)
	h.matches.upsertErr = fmt.Errorf("failed to upsert match requests: %w", data.ErrPermissionDenied)

	result := h.orchestrator().Run(context.Background(), floodProject())

	assert.False(t, result.Success)
	assert.Equal(t, models.OutcomeFailedPersistence, result.Outcome)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Permission denied")
	assert.Contains(t, result.Errors[0], "grant INSERT and UPDATE")
	assert.Empty(t, h.email.sent)
	assert.Empty(t, h.projects.updates)
	assert.Empty(t, result.MatchRequests)
}

func Test_Run_PersistenceError(t *testing.T) {
	h := newHarness(t, threeContractors()...)
	h.matches.upsertErr = errors.New("connection refused")

	result := h.orchestrator().Run(context.Background(), floodProject())

	assert.False(t, result.Success)
	assert.Equal(t, models.OutcomeFailedPersistence, result.Outcome)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "connection refused")
	assert.Empty(t, h.email.sent)
}

func Test_Run_ContractorFetchFails(t *testing.T) {
	h := newHarness(t)
	h.contractors.err = errors.New("db down")

	result := h.orchestrator().Run(context.Background(), floodProject())

	assert.False(t, result.Success)
	assert.Equal(t, models.OutcomeFailedNoContractors, result.Outcome)
	assert.Equal(t, 0, result.MatchedContractors)
	assert.Empty(t, result.MatchRequests)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "db down")
	assert.Equal(t, 0, h.matches.upserts)
}

func Test_Run_NoActiveContractors(t *testing.T) {
	h := newHarness(t)

	result := h.orchestrator().Run(context.Background(), floodProject())

	assert.False(t, result.Success)
	assert.Equal(t, models.OutcomeFailedNoContractors, result.Outcome)
	assert.Equal(t, []string{"No active contractors available"}, result.Errors)
}

func Test_Run_NoMatch(t *testing.T) {
	paused := activeContractor("p1", []string{"rebuild"}, []string{"33601"})
	paused.Capacity = models.CapacityPaused
	other := paused
	other.ContractorID = "p2"
	h := newHarness(t, paused, other)

	result := h.orchestrator().Run(context.Background(), floodProject())

	assert.False(t, result.Success)
	assert.Equal(t, models.OutcomeFailedNoMatch, result.Outcome)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "2 contractor(s) available")
	assert.Contains(t, result.Errors[0], "flood")
	assert.Equal(t, 0, h.matches.upserts)
}

func Test_Run_SelectsAtMostMaxContractors(t *testing.T) {
	contractors := append(threeContractors(),
		activeContractor("c4", nil, nil),
		activeContractor("c5", []string{"water_mitigation"}, []string{"33601"}),
	)
	h := newHarness(t, contractors...)

	result := h.orchestrator().Run(context.Background(), floodProject())

	require.True(t, result.Success)
	assert.Equal(t, 3, result.MatchedContractors)
	ids := []string{}
	for _, request := range result.MatchRequests {
		ids = append(ids, request.ContractorID)
	}
	assert.Equal(t, []string{"c1", "c5", "c2"}, ids)

	h2 := newHarness(t, contractors...)
	h2.settings.MaxContractors = 1
	single := h2.orchestrator().Run(context.Background(), floodProject())
	require.True(t, single.Success)
	assert.Equal(t, 1, single.MatchedContractors)
	assert.Equal(t, "c1", single.MatchRequests[0].ContractorID)
}

func Test_Run_DuplicateContractorRowsInvitedOnce(t *testing.T) {
	c1 := activeContractor("c1", []string{"rebuild"}, []string{"33601"})
	h := newHarness(t, c1, c1)

	result := h.orchestrator().Run(context.Background(), floodProject())

	require.True(t, result.Success)
	assert.Equal(t, 1, result.MatchedContractors)
	assert.Equal(t, []string{"c1@pros.example"}, h.email.sent)
}

func Test_Run_ProjectStatusFailureIsNotFatal(t *testing.T) {
	h := newHarness(t, threeContractors()...)
	h.projects.err = errors.New("row locked")

	result := h.orchestrator().Run(context.Background(), floodProject())

	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []models.ProjectStatus{models.ProjectStatusMatched}, h.projects.updates)
}

func Test_Run_CancelledWhileWaiting(t *testing.T) {
	h := newHarness(t, threeContractors()...)
	ctx, cancel := context.WithCancel(context.Background())
	h.settings.Wait = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	result := h.orchestrator().Run(ctx, floodProject())

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.NotificationsSent)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Stopped notifying after 1 of 3 contractors")
}

func Test_sleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), 0))
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}

func Test_ResponseURLs(t *testing.T) {
	assert.Equal(t, baseURL+"/accept-job/abc.def", AcceptURL(baseURL+"/", "abc.def"))
	assert.Equal(t, baseURL+"/decline-job/abc.def", DeclineURL(baseURL, "abc.def"))
}
