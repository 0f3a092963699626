package data

import (
	"context"
	"database/sql"
	"fmt"

	"contractormatching/lib/models"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// ContractorRepository defines the interface for contractor data operations
type ContractorRepository interface {
	// GetActiveContractors returns every contractor currently accepting work
	GetActiveContractors(ctx context.Context) ([]models.Contractor, error)
}

// ContractorDao implements ContractorRepository interface using PostgreSQL
type ContractorDao struct {
	DB     *sql.DB
	Logger *logrus.Logger
}

// NewContractorRepository creates a new ContractorRepository instance
func NewContractorRepository(db *sql.DB, logger *logrus.Logger) ContractorRepository {
	return &ContractorDao{
		DB:     db,
		Logger: logger,
	}
}

// GetActiveContractors retrieves contractors whose capacity is active, oldest first
func (dao *ContractorDao) GetActiveContractors(ctx context.Context) ([]models.Contractor, error) {
	query := `
		SELECT id, company_name, contact_name, email, phone, service_areas, trades,
		       capacity, scheduling_link, created_at, updated_at
		FROM matching.contractors
		WHERE capacity = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := dao.DB.QueryContext(ctx, query, string(models.CapacityActive))
	if err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"operation": "GetActiveContractors",
			"error":     err.Error(),
		}).Error("Failed to query contractors")
		if sentinel := classifyError(err); sentinel != nil {
			return nil, fmt.Errorf("failed to query contractors: %w: %w", sentinel, err)
		}
		return nil, fmt.Errorf("failed to query contractors: %w", err)
	}
	defer rows.Close()

	contractors := []models.Contractor{}
	for rows.Next() {
		var (
			contractor                         models.Contractor
			contactName, email, phone, booking sql.NullString
			serviceAreas, trades               pq.StringArray
			capacity                           string
		)
		err := rows.Scan(
			&contractor.ContractorID, &contractor.CompanyName, &contactName, &email, &phone,
			&serviceAreas, &trades, &capacity, &booking, &contractor.CreatedAt, &contractor.UpdatedAt,
		)
		if err != nil {
			dao.Logger.WithError(err).Error("Failed to scan contractor row")
			return nil, fmt.Errorf("failed to scan contractor: %w", err)
		}

		contractor.ContactName = contactName.String
		contractor.Email = email.String
		contractor.Phone = phone.String
		contractor.SchedulingLink = booking.String
		contractor.ServiceAreas = []string(serviceAreas)
		contractor.Trades = []string(trades)
		contractor.Capacity = models.Capacity(capacity)
		contractors = append(contractors, contractor)
	}

	if err = rows.Err(); err != nil {
		dao.Logger.WithError(err).Error("Error iterating contractor rows")
		return nil, fmt.Errorf("error iterating contractors: %w", err)
	}

	dao.Logger.WithFields(logrus.Fields{
		"count":     len(contractors),
		"operation": "GetActiveContractors",
	}).Debug("Successfully retrieved active contractors")

	return contractors, nil
}
