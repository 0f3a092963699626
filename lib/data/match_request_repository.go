package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"contractormatching/lib/models"

	"github.com/sirupsen/logrus"
)

// MatchRequestRepository defines the interface for match request data operations
type MatchRequestRepository interface {
	// UpsertMatchRequests inserts or refreshes one row per (project_id, contractor_id)
	UpsertMatchRequests(ctx context.Context, requests []models.MatchRequest) ([]models.MatchRequest, error)

	// GetMatchRequestsByProject returns every match request recorded for a project
	GetMatchRequestsByProject(ctx context.Context, projectID string) ([]models.MatchRequest, error)

	// UpdateMatchRequestStatus records a contractor's response to an invitation
	UpdateMatchRequestStatus(ctx context.Context, projectID, contractorID string, status models.MatchRequestStatus) (*models.MatchRequest, error)
}

// MatchRequestDao implements MatchRequestRepository interface using PostgreSQL
type MatchRequestDao struct {
	DB     *sql.DB
	Logger *logrus.Logger
}

// NewMatchRequestRepository creates a new MatchRequestRepository instance
func NewMatchRequestRepository(db *sql.DB, logger *logrus.Logger) MatchRequestRepository {
	return &MatchRequestDao{
		DB:     db,
		Logger: logger,
	}
}

const matchRequestColumns = "id, project_id, contractor_id, status, created_at, updated_at"

// UpsertMatchRequests writes all requests in one statement. Existing rows keep their
// status so a re-run never resets an accepted or declined response.
func (dao *MatchRequestDao) UpsertMatchRequests(ctx context.Context, requests []models.MatchRequest) ([]models.MatchRequest, error) {
	if len(requests) == 0 {
		return []models.MatchRequest{}, nil
	}

	values := make([]string, 0, len(requests))
	args := make([]interface{}, 0, len(requests)*4)
	for i, request := range requests {
		base := i * 4
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4))
		args = append(args, request.MatchRequestID, request.ProjectID, request.ContractorID, string(request.Status))
	}

	query := `
		INSERT INTO matching.match_requests (id, project_id, contractor_id, status)
		VALUES ` + strings.Join(values, ", ") + `
		ON CONFLICT (project_id, contractor_id) DO UPDATE SET updated_at = NOW()
		RETURNING ` + matchRequestColumns

	rows, err := dao.DB.QueryContext(ctx, query, args...)
	if err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"project_id": requests[0].ProjectID,
			"count":      len(requests),
			"operation":  "UpsertMatchRequests",
			"error":      err.Error(),
		}).Error("Failed to upsert match requests")
		if sentinel := classifyError(err); sentinel != nil {
			return nil, fmt.Errorf("failed to upsert match requests: %w: %w", sentinel, err)
		}
		return nil, fmt.Errorf("failed to upsert match requests: %w", err)
	}
	defer rows.Close()

	persisted, err := dao.scanMatchRequests(rows)
	if err != nil {
		return nil, err
	}

	dao.Logger.WithFields(logrus.Fields{
		"project_id": requests[0].ProjectID,
		"count":      len(persisted),
	}).Info("Successfully upserted match requests")

	return persisted, nil
}

// GetMatchRequestsByProject retrieves a project's match requests in creation order
func (dao *MatchRequestDao) GetMatchRequestsByProject(ctx context.Context, projectID string) ([]models.MatchRequest, error) {
	query := `
		SELECT ` + matchRequestColumns + `
		FROM matching.match_requests
		WHERE project_id = $1
		ORDER BY created_at ASC
	`

	rows, err := dao.DB.QueryContext(ctx, query, projectID)
	if err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"project_id": projectID,
			"operation":  "GetMatchRequestsByProject",
			"error":      err.Error(),
		}).Error("Failed to query match requests")
		if sentinel := classifyError(err); sentinel != nil {
			return nil, fmt.Errorf("failed to query match requests: %w: %w", sentinel, err)
		}
		return nil, fmt.Errorf("failed to query match requests: %w", err)
	}
	defer rows.Close()

	return dao.scanMatchRequests(rows)
}

// UpdateMatchRequestStatus sets the status of the request for a project and contractor
func (dao *MatchRequestDao) UpdateMatchRequestStatus(ctx context.Context, projectID, contractorID string, status models.MatchRequestStatus) (*models.MatchRequest, error) {
	query := `
		UPDATE matching.match_requests
		SET status = $1, updated_at = NOW()
		WHERE project_id = $2 AND contractor_id = $3
		RETURNING ` + matchRequestColumns

	var request models.MatchRequest
	var stored string
	err := dao.DB.QueryRowContext(ctx, query, string(status), projectID, contractorID).Scan(
		&request.MatchRequestID, &request.ProjectID, &request.ContractorID,
		&stored, &request.CreatedAt, &request.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		dao.Logger.WithFields(logrus.Fields{
			"project_id":    projectID,
			"contractor_id": contractorID,
		}).Warn("Match request not found")
		return nil, ErrNotFound
	}

	if err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"project_id":    projectID,
			"contractor_id": contractorID,
			"status":        status,
			"error":         err.Error(),
		}).Error("Failed to update match request status")
		if sentinel := classifyError(err); sentinel != nil {
			return nil, fmt.Errorf("failed to update match request: %w: %w", sentinel, err)
		}
		return nil, fmt.Errorf("failed to update match request: %w", err)
	}

	request.Status = models.MatchRequestStatus(stored)
	return &request, nil
}

func (dao *MatchRequestDao) scanMatchRequests(rows *sql.Rows) ([]models.MatchRequest, error) {
	requests := []models.MatchRequest{}
	for rows.Next() {
		var request models.MatchRequest
		var status string
		if err := rows.Scan(
			&request.MatchRequestID, &request.ProjectID, &request.ContractorID,
			&status, &request.CreatedAt, &request.UpdatedAt,
		); err != nil {
			dao.Logger.WithError(err).Error("Failed to scan match request row")
			return nil, fmt.Errorf("failed to scan match request: %w", err)
		}
		request.Status = models.MatchRequestStatus(status)
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		dao.Logger.WithError(err).Error("Error iterating match request rows")
		return nil, fmt.Errorf("error iterating match requests: %w", err)
	}

	return requests, nil
}
