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

var contactColumns = []string{
	"id", "user_id", "lead_id", "account_id", "assigned_to", "first_name", "last_name", "access",
	"title", "department", "source", "email", "alt_email", "phone", "mobile", "blog",
	"linkedin", "facebook", "twitter", "do_not_call", "background_info", "created_at", "updated_at",
}

// ContactRepository handles database operations for contacts
type ContactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(conn *database.Connection) *ContactRepository {
	return &ContactRepository{db: conn.DB()}
}

func scanContact(row Scannable) (*models.Contact, error) {
	var c models.Contact
	var leadID, accountID, assignedTo, background sql.NullString
	var createdAt, updatedAt nullTime

	if err := row.Scan(&c.ID, &c.UserID, &leadID, &accountID, &assignedTo, &c.FirstName, &c.LastName,
		&c.Access, &c.Title, &c.Department, &c.Source, &c.Email, &c.AltEmail, &c.Phone, &c.Mobile,
		&c.Blog, &c.LinkedIn, &c.Facebook, &c.Twitter, &c.DoNotCall, &background,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c.LeadID = models.NullStringToPtr(leadID)
	c.AccountID = models.NullStringToPtr(accountID)
	c.AssignedTo = models.NullStringToPtr(assignedTo)
	c.BackgroundInfo = background.String
	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time
	return &c, nil
}

// Insert creates a contact
func (r *ContactRepository) Insert(ctx context.Context, c *models.Contact, exec Executor) error {
	ts := now()
	c.CreatedAt, c.UpdatedAt = ts, ts

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		constants.TableContacts, strings.Join(contactColumns, ", "), placeholders(len(contactColumns)))
	_, err := pick(r.db, exec).ExecContext(ctx, query,
		c.ID, c.UserID, models.NewNullString(c.LeadID), models.NewNullString(c.AccountID),
		models.NewNullString(c.AssignedTo), c.FirstName, c.LastName, c.Access, c.Title, c.Department,
		c.Source, c.Email, c.AltEmail, c.Phone, c.Mobile, c.Blog, c.LinkedIn, c.Facebook, c.Twitter,
		c.DoNotCall, c.BackgroundInfo, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}
	return nil
}

// LinkOpportunity records that the contact takes part in an opportunity
func (r *ContactRepository) LinkOpportunity(ctx context.Context, contactID, opportunityID string, exec Executor) error {
	query := fmt.Sprintf("INSERT INTO %s (contact_id, opportunity_id, created_at) VALUES (?, ?, ?)", constants.TableContactOpportunities)
	_, err := pick(r.db, exec).ExecContext(ctx, query, contactID, opportunityID, now())
	return err
}

// FindByLead returns the contact promoted from a lead, or nil
func (r *ContactRepository) FindByLead(ctx context.Context, leadID string, exec Executor) (*models.Contact, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE lead_id = ? LIMIT 1", strings.Join(contactColumns, ", "), constants.TableContacts)
	c, err := scanContact(pick(r.db, exec).QueryRowContext(ctx, query, leadID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// OpportunityIDs lists the opportunities linked to a contact
func (r *ContactRepository) OpportunityIDs(ctx context.Context, contactID string, exec Executor) ([]string, error) {
	query := fmt.Sprintf("SELECT opportunity_id FROM %s WHERE contact_id = ?", constants.TableContactOpportunities)
	return queryStrings(ctx, pick(r.db, exec), query, contactID)
}

// queryStrings collects a single string column
func queryStrings(ctx context.Context, exec Executor, query string, args ...interface{}) ([]string, error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
