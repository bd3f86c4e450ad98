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

var userColumns = []string{"id", "username", "email", "password_hash", "first_name", "last_name", "admin", "created_at", "updated_at"}

// UserRepository handles database operations for users
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(conn *database.Connection) *UserRepository {
	return &UserRepository{db: conn.DB()}
}

func scanUser(row Scannable) (*models.User, error) {
	var u models.User
	var createdAt, updatedAt nullTime
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Admin, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	u.CreatedAt = createdAt.Time
	u.UpdatedAt = updatedAt.Time
	return &u, nil
}

// Insert creates a user
func (r *UserRepository) Insert(ctx context.Context, u *models.User, exec Executor) error {
	ts := now()
	u.CreatedAt, u.UpdatedAt = ts, ts
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		constants.TableUsers, strings.Join(userColumns, ", "), placeholders(len(userColumns)))
	_, err := pick(r.db, exec).ExecContext(ctx, query,
		u.ID, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Admin, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, column, value string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? LIMIT 1", strings.Join(userColumns, ", "), constants.TableUsers, column)
	u, err := scanUser(r.db.QueryRowContext(ctx, query, value))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

// FindByID returns a user or nil
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, "id", id)
}

// FindByEmail returns a user or nil. Emails compare case-insensitively.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

// List returns every user ordered by name
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY first_name, last_name, username", strings.Join(userColumns, ", "), constants.TableUsers)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	users := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ExistingIDs filters ids down to those that belong to a user
func (r *UserRepository) ExistingIDs(ctx context.Context, ids []string, exec Executor) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT id FROM %s WHERE id IN (%s)", constants.TableUsers, placeholders(len(ids)))
	return queryStrings(ctx, pick(r.db, exec), query, stringArgs(ids)...)
}
