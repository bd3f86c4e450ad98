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

var accountColumns = []string{
	"id", "user_id", "assigned_to", "name", "access", "website", "phone", "email",
	"category", "rating", "background_info", "created_at", "updated_at",
}

// AccountRepository handles database operations for accounts
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(conn *database.Connection) *AccountRepository {
	return &AccountRepository{db: conn.DB()}
}

func selectAccounts() string {
	cols := make([]string, len(accountColumns))
	for i, c := range accountColumns {
		cols[i] = constants.TableAccounts + "." + c
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), constants.TableAccounts)
}

func scanAccount(row Scannable) (*models.Account, error) {
	var a models.Account
	var assignedTo, background sql.NullString
	var createdAt, updatedAt nullTime

	if err := row.Scan(&a.ID, &a.UserID, &assignedTo, &a.Name, &a.Access, &a.Website, &a.Phone,
		&a.Email, &a.Category, &a.Rating, &background, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	a.AssignedTo = models.NullStringToPtr(assignedTo)
	a.BackgroundInfo = background.String
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return &a, nil
}

// Insert creates an account
func (r *AccountRepository) Insert(ctx context.Context, a *models.Account, exec Executor) error {
	ts := now()
	a.CreatedAt, a.UpdatedAt = ts, ts

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		constants.TableAccounts, strings.Join(accountColumns, ", "), placeholders(len(accountColumns)))
	_, err := pick(r.db, exec).ExecContext(ctx, query,
		a.ID, a.UserID, models.NewNullString(a.AssignedTo), a.Name, a.Access, a.Website, a.Phone,
		a.Email, a.Category, a.Rating, a.BackgroundInfo, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// FindVisible returns the account if the scope admits it, nil otherwise
func (r *AccountRepository) FindVisible(ctx context.Context, scope Scope, id string, exec Executor) (*models.Account, error) {
	scope = scope.And(constants.TableAccounts+".id = ?", id)
	query := fmt.Sprintf("%s WHERE %s LIMIT 1", selectAccounts(), scope.Clause)

	a, err := scanAccount(pick(r.db, exec).QueryRowContext(ctx, query, scope.Args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// List returns visible accounts ordered by name
func (r *AccountRepository) List(ctx context.Context, scope Scope, exec Executor) ([]*models.Account, error) {
	query := fmt.Sprintf("%s WHERE %s ORDER BY %s.name", selectAccounts(), scope.Clause, constants.TableAccounts)
	rows, err := pick(r.db, exec).QueryContext(ctx, query, scope.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	accounts := make([]*models.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
