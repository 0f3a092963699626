package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"contractormatching/lib/models"

	"github.com/sirupsen/logrus"
)

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	GetProjectByID(ctx context.Context, projectID string) (*models.Project, error)
	UpdateProjectStatus(ctx context.Context, projectID string, status models.ProjectStatus) error
}

// ProjectDao implements ProjectRepository interface using PostgreSQL
type ProjectDao struct {
	DB     *sql.DB
	Logger *logrus.Logger
}

// NewProjectRepository creates a new ProjectRepository instance
func NewProjectRepository(db *sql.DB, logger *logrus.Logger) ProjectRepository {
	return &ProjectDao{
		DB:     db,
		Logger: logger,
	}
}

// GetProjectByID retrieves a single damage claim
func (dao *ProjectDao) GetProjectByID(ctx context.Context, projectID string) (*models.Project, error) {
	query := `
		SELECT id, address, city, state, zip_code, peril, incident_at,
		       preferred_date, preferred_window, contact_name, contact_email, contact_phone,
		       description, status, created_at, updated_at
		FROM matching.projects
		WHERE id = $1
	`

	var (
		project                                         models.Project
		address, city, state, zipCode, window           sql.NullString
		contactName, contactEmail, contactPhone, detail sql.NullString
		peril, status                                   string
		incidentAt, preferredDate                       sql.NullTime
	)

	err := dao.DB.QueryRowContext(ctx, query, projectID).Scan(
		&project.ProjectID, &address, &city, &state, &zipCode, &peril, &incidentAt,
		&preferredDate, &window, &contactName, &contactEmail, &contactPhone,
		&detail, &status, &project.CreatedAt, &project.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		dao.Logger.WithFields(logrus.Fields{
			"project_id": projectID,
			"operation":  "GetProjectByID",
		}).Warn("Project not found")
		return nil, ErrNotFound
	}

	if err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"project_id": projectID,
			"operation":  "GetProjectByID",
			"error":      err.Error(),
		}).Error("Failed to get project")
		if sentinel := classifyError(err); sentinel != nil {
			return nil, fmt.Errorf("failed to get project: %w: %w", sentinel, err)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	project.Address = address.String
	project.City = city.String
	project.State = state.String
	project.ZipCode = zipCode.String
	project.Peril = models.ParsePeril(peril)
	project.PreferredWindow = window.String
	project.ContactName = contactName.String
	project.ContactEmail = contactEmail.String
	project.ContactPhone = contactPhone.String
	project.Description = detail.String
	project.Status = models.ProjectStatus(status)
	if incidentAt.Valid {
		project.IncidentAt = &incidentAt.Time
	}
	if preferredDate.Valid {
		project.PreferredDate = &preferredDate.Time
	}

	return &project, nil
}

// UpdateProjectStatus moves a project to a new lifecycle state
func (dao *ProjectDao) UpdateProjectStatus(ctx context.Context, projectID string, status models.ProjectStatus) error {
	result, err := dao.DB.ExecContext(ctx, `
		UPDATE matching.projects
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, string(status), projectID)

	if err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"project_id": projectID,
			"status":     status,
			"operation":  "UpdateProjectStatus",
			"error":      err.Error(),
		}).Error("Failed to update project status")
		if sentinel := classifyError(err); sentinel != nil {
			return fmt.Errorf("failed to update project status: %w: %w", sentinel, err)
		}
		return fmt.Errorf("failed to update project status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	dao.Logger.WithFields(logrus.Fields{
		"project_id": projectID,
		"status":     status,
	}).Info("Successfully updated project status")

	return nil
}
