package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/internal/infrastructure/database"
	"github.com/Lumbe/lcrm-app/pkg/constants"
)

var opportunityColumns = []string{
	"id", "user_id", "campaign_id", "account_id", "assigned_to", "name", "access", "source",
	"stage", "probability", "amount", "discount", "closes_on", "background_info",
	"created_at", "updated_at",
}

// OpportunityRepository handles database operations for opportunities
type OpportunityRepository struct {
	db *sql.DB
}

// NewOpportunityRepository creates a new OpportunityRepository
func NewOpportunityRepository(conn *database.Connection) *OpportunityRepository {
	return &OpportunityRepository{db: conn.DB()}
}

// Insert creates an opportunity
func (r *OpportunityRepository) Insert(ctx context.Context, o *models.Opportunity, exec Executor) error {
	ts := now()
	o.CreatedAt, o.UpdatedAt = ts, ts

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		constants.TableOpportunities, strings.Join(opportunityColumns, ", "), placeholders(len(opportunityColumns)))
	_, err := pick(r.db, exec).ExecContext(ctx, query,
		o.ID, o.UserID, models.NewNullString(o.CampaignID), models.NewNullString(o.AccountID),
		models.NewNullString(o.AssignedTo), o.Name, o.Access, o.Source, o.Stage, o.Probability,
		o.Amount, o.Discount, timeArg(o.ClosesOn), o.BackgroundInfo, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert opportunity: %w", err)
	}
	return nil
}

// FindByID returns an opportunity or nil
func (r *OpportunityRepository) FindByID(ctx context.Context, id string, exec Executor) (*models.Opportunity, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ? LIMIT 1", strings.Join(opportunityColumns, ", "), constants.TableOpportunities)

	var o models.Opportunity
	var campaignID, accountID, assignedTo, background sql.NullString
	var closesOn, createdAt, updatedAt nullTime
	err := pick(r.db, exec).QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.UserID, &campaignID, &accountID, &assignedTo, &o.Name, &o.Access, &o.Source,
		&o.Stage, &o.Probability, &o.Amount, &o.Discount, &closesOn, &background, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	o.CampaignID = models.NullStringToPtr(campaignID)
	o.AccountID = models.NullStringToPtr(accountID)
	o.AssignedTo = models.NullStringToPtr(assignedTo)
	o.ClosesOn = closesOn.Ptr()
	o.BackgroundInfo = background.String
	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time
	return &o, nil
}
