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

var campaignColumns = []string{
	"id", "user_id", "assigned_to", "name", "access", "status",
	"leads_count", "opportunities_count", "created_at", "updated_at",
}

// CampaignRepository handles database operations for campaigns
type CampaignRepository struct {
	db *sql.DB
}

// NewCampaignRepository creates a new CampaignRepository
func NewCampaignRepository(conn *database.Connection) *CampaignRepository {
	return &CampaignRepository{db: conn.DB()}
}

func selectCampaigns() string {
	cols := make([]string, len(campaignColumns))
	for i, c := range campaignColumns {
		cols[i] = constants.TableCampaigns + "." + c
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), constants.TableCampaigns)
}

func scanCampaign(row Scannable) (*models.Campaign, error) {
	var c models.Campaign
	var assignedTo sql.NullString
	var createdAt, updatedAt nullTime

	if err := row.Scan(&c.ID, &c.UserID, &assignedTo, &c.Name, &c.Access, &c.Status,
		&c.LeadsCount, &c.OpportunitiesCount, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c.AssignedTo = models.NullStringToPtr(assignedTo)
	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time
	return &c, nil
}

// Insert creates a campaign
func (r *CampaignRepository) Insert(ctx context.Context, c *models.Campaign, exec Executor) error {
	ts := now()
	c.CreatedAt, c.UpdatedAt = ts, ts

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		constants.TableCampaigns, strings.Join(campaignColumns, ", "), placeholders(len(campaignColumns)))
	_, err := pick(r.db, exec).ExecContext(ctx, query,
		c.ID, c.UserID, models.NewNullString(c.AssignedTo), c.Name, c.Access, c.Status,
		c.LeadsCount, c.OpportunitiesCount, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert campaign: %w", err)
	}
	return nil
}

// FindVisible returns the campaign if the scope admits it, nil otherwise
func (r *CampaignRepository) FindVisible(ctx context.Context, scope Scope, id string, exec Executor) (*models.Campaign, error) {
	scope = scope.And(constants.TableCampaigns+".id = ?", id)
	query := fmt.Sprintf("%s WHERE %s LIMIT 1", selectCampaigns(), scope.Clause)

	c, err := scanCampaign(pick(r.db, exec).QueryRowContext(ctx, query, scope.Args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// FindByID returns a campaign regardless of visibility
func (r *CampaignRepository) FindByID(ctx context.Context, id string, exec Executor) (*models.Campaign, error) {
	return r.FindVisible(ctx, Unrestricted, id, exec)
}

// List returns visible campaigns ordered by name
func (r *CampaignRepository) List(ctx context.Context, scope Scope) ([]*models.Campaign, error) {
	query := fmt.Sprintf("%s WHERE %s ORDER BY %s.name", selectCampaigns(), scope.Clause, constants.TableCampaigns)
	rows, err := r.db.QueryContext(ctx, query, scope.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	campaigns := make([]*models.Campaign, 0)
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// AdjustLeadsCount moves the denormalized leads counter by delta
func (r *CampaignRepository) AdjustLeadsCount(ctx context.Context, id string, delta int, exec Executor) error {
	return r.adjust(ctx, "leads_count", id, delta, exec)
}

// AdjustOpportunitiesCount moves the denormalized opportunities counter by delta
func (r *CampaignRepository) AdjustOpportunitiesCount(ctx context.Context, id string, delta int, exec Executor) error {
	return r.adjust(ctx, "opportunities_count", id, delta, exec)
}

func (r *CampaignRepository) adjust(ctx context.Context, column, id string, delta int, exec Executor) error {
	if id == "" || delta == 0 {
		return nil
	}
	query := fmt.Sprintf("UPDATE %[1]s SET %[2]s = CASE WHEN %[2]s + ? < 0 THEN 0 ELSE %[2]s + ? END WHERE id = ?",
		constants.TableCampaigns, column)
	if _, err := pick(r.db, exec).ExecContext(ctx, query, delta, delta, id); err != nil {
		return fmt.Errorf("failed to adjust campaign %s: %w", column, err)
	}
	return nil
}
