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

var leadColumns = []string{
	"id", "user_id", "campaign_id", "assigned_to", "first_name", "last_name", "access",
	"title", "company", "source", "status", "referred_by", "email", "alt_email",
	"phone", "mobile", "blog", "linkedin", "facebook", "twitter", "rating",
	"do_not_call", "background_info", "created_at", "updated_at",
}

// LeadSortColumns are the columns a stored sort preference may name
var LeadSortColumns = []string{"first_name", "last_name", "company", "rating", "created_at", "updated_at"}

// LeadQuery selects a page of leads
type LeadQuery struct {
	Scope Scope
	// Statuses restricts the result; empty means no status filter.
	Statuses []string
	// OtherThan, when non-nil, also admits leads whose status is blank or
	// not in the list.
	OtherThan []string
	Text      string
	OrderBy   string
	Limit     int
	Offset    int
}

// LeadRepository handles database operations for leads
type LeadRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewLeadRepository creates a new LeadRepository
func NewLeadRepository(conn *database.Connection) *LeadRepository {
	return &LeadRepository{db: conn.DB(), dialect: conn.Dialect()}
}

func selectLeads() string {
	cols := make([]string, len(leadColumns))
	for i, c := range leadColumns {
		cols[i] = constants.TableLeads + "." + c
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), constants.TableLeads)
}

func scanLead(row Scannable) (*models.Lead, error) {
	var l models.Lead
	var campaignID, assignedTo, background sql.NullString
	var createdAt, updatedAt nullTime

	err := row.Scan(
		&l.ID, &l.UserID, &campaignID, &assignedTo, &l.FirstName, &l.LastName, &l.Access,
		&l.Title, &l.Company, &l.Source, &l.Status, &l.ReferredBy, &l.Email, &l.AltEmail,
		&l.Phone, &l.Mobile, &l.Blog, &l.LinkedIn, &l.Facebook, &l.Twitter, &l.Rating,
		&l.DoNotCall, &background, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.CampaignID = models.NullStringToPtr(campaignID)
	l.AssignedTo = models.NullStringToPtr(assignedTo)
	l.BackgroundInfo = background.String
	l.CreatedAt = createdAt.Time
	l.UpdatedAt = updatedAt.Time
	return &l, nil
}

func leadValues(l *models.Lead) []interface{} {
	return []interface{}{
		l.ID, l.UserID, models.NewNullString(l.CampaignID), models.NewNullString(l.AssignedTo),
		l.FirstName, l.LastName, l.Access, l.Title, l.Company, l.Source, l.Status, l.ReferredBy,
		l.Email, l.AltEmail, l.Phone, l.Mobile, l.Blog, l.LinkedIn, l.Facebook, l.Twitter,
		l.Rating, l.DoNotCall, l.BackgroundInfo, l.CreatedAt, l.UpdatedAt,
	}
}

// Insert creates a lead, stamping its timestamps
func (r *LeadRepository) Insert(ctx context.Context, l *models.Lead, exec Executor) error {
	ts := now()
	l.CreatedAt, l.UpdatedAt = ts, ts

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		constants.TableLeads, strings.Join(leadColumns, ", "), placeholders(len(leadColumns)))
	if _, err := pick(r.db, exec).ExecContext(ctx, query, leadValues(l)...); err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}
	return nil
}

// Update writes every column of the lead
func (r *LeadRepository) Update(ctx context.Context, l *models.Lead, exec Executor) error {
	l.UpdatedAt = now()

	sets := make([]string, 0, len(leadColumns)-2)
	args := make([]interface{}, 0, len(leadColumns))
	values := leadValues(l)
	for i, c := range leadColumns {
		if c == "id" || c == "created_at" {
			continue
		}
		sets = append(sets, c+" = ?")
		args = append(args, values[i])
	}
	args = append(args, l.ID)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", constants.TableLeads, strings.Join(sets, ", "))
	if _, err := pick(r.db, exec).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}
	return nil
}

// UpdateStatus changes only the status column
func (r *LeadRepository) UpdateStatus(ctx context.Context, id, status string, exec Executor) error {
	query := fmt.Sprintf("UPDATE %s SET status = ?, updated_at = ? WHERE id = ?", constants.TableLeads)
	_, err := pick(r.db, exec).ExecContext(ctx, query, status, now(), id)
	return err
}

// Delete removes a lead row
func (r *LeadRepository) Delete(ctx context.Context, id string, exec Executor) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", constants.TableLeads)
	_, err := pick(r.db, exec).ExecContext(ctx, query, id)
	return err
}

// FindVisible returns the lead if the scope admits it, nil otherwise
func (r *LeadRepository) FindVisible(ctx context.Context, scope Scope, id string, exec Executor) (*models.Lead, error) {
	scope = scope.And(constants.TableLeads+".id = ?", id)
	query := fmt.Sprintf("%s WHERE %s LIMIT 1", selectLeads(), scope.Clause)

	lead, err := scanLead(pick(r.db, exec).QueryRowContext(ctx, query, scope.Args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return lead, err
}

func (r *LeadRepository) where(q LeadQuery) (string, []interface{}) {
	scope := q.Scope

	if len(q.Statuses) > 0 || q.OtherThan != nil {
		var ors []string
		var args []interface{}
		if len(q.Statuses) > 0 {
			ors = append(ors, fmt.Sprintf("%s.status IN (%s)", constants.TableLeads, placeholders(len(q.Statuses))))
			args = append(args, stringArgs(q.Statuses)...)
		}
		if q.OtherThan != nil {
			other := fmt.Sprintf("%[1]s.status IS NULL OR %[1]s.status = ''", constants.TableLeads)
			if len(q.OtherThan) > 0 {
				other += fmt.Sprintf(" OR %s.status NOT IN (%s)", constants.TableLeads, placeholders(len(q.OtherThan)))
				args = append(args, stringArgs(q.OtherThan)...)
			}
			ors = append(ors, other)
		}
		scope = scope.And(strings.Join(ors, " OR "), args...)
	}

	for _, word := range strings.Fields(q.Text) {
		pattern := likePattern(word)
		var ors []string
		var args []interface{}
		for _, col := range []string{"first_name", "last_name", "company", "email"} {
			ors = append(ors, r.dialect.CaseInsensitiveLike(constants.TableLeads+"."+col))
			args = append(args, pattern)
		}
		scope = scope.And(strings.Join(ors, " OR "), args...)
	}

	return scope.Clause, scope.Args
}

// List returns one page of leads matching the query
func (r *LeadRepository) List(ctx context.Context, q LeadQuery) ([]*models.Lead, error) {
	clause, args := r.where(q)
	orderBy := q.OrderBy
	if orderBy == "" {
		orderBy = constants.DefaultLeadsSortBy
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY %s, %s.id", selectLeads(), clause, orderBy, constants.TableLeads)
	if q.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, q.Limit, q.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	leads := make([]*models.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// Count returns the number of leads matching the query, ignoring paging
func (r *LeadRepository) Count(ctx context.Context, q LeadQuery) (int, error) {
	clause, args := r.where(q)
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", constants.TableLeads, clause)

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count leads: %w", err)
	}
	return n, nil
}

// CountByStatus groups the visible leads by status. Blank statuses are
// reported under "".
func (r *LeadRepository) CountByStatus(ctx context.Context, scope Scope) (map[string]int, error) {
	query := fmt.Sprintf("SELECT COALESCE(%[1]s.status, ''), COUNT(*) FROM %[1]s WHERE %[2]s GROUP BY COALESCE(%[1]s.status, '')",
		constants.TableLeads, scope.Clause)

	rows, err := r.db.QueryContext(ctx, query, scope.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count leads by status: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] += n
	}
	return counts, rows.Err()
}

// CountForCampaign counts leads pointing at a campaign
func (r *LeadRepository) CountForCampaign(ctx context.Context, campaignID string, exec Executor) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE campaign_id = ?", constants.TableLeads)
	var n int
	err := pick(r.db, exec).QueryRowContext(ctx, query, campaignID).Scan(&n)
	return n, err
}
