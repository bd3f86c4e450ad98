package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Lumbe/lcrm-app/internal/infrastructure/database"
	"github.com/Lumbe/lcrm-app/pkg/constants"
)

// PreferenceRepository stores per-user string preferences
type PreferenceRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewPreferenceRepository creates a new PreferenceRepository
func NewPreferenceRepository(conn *database.Connection) *PreferenceRepository {
	return &PreferenceRepository{db: conn.DB(), dialect: conn.Dialect()}
}

// All returns every preference of a user
func (r *PreferenceRepository) All(ctx context.Context, userID string) (map[string]string, error) {
	query := fmt.Sprintf("SELECT name, value FROM %s WHERE user_id = ?", constants.TablePreferences)
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	defer func() { _ = rows.Close() }()

	prefs := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		prefs[name] = value
	}
	return prefs, rows.Err()
}

// Get returns a single preference and whether it is set
func (r *PreferenceRepository) Get(ctx context.Context, userID, name string, exec Executor) (string, bool, error) {
	query := fmt.Sprintf("SELECT value FROM %s WHERE user_id = ? AND name = ?", constants.TablePreferences)
	var value string
	err := pick(r.db, exec).QueryRowContext(ctx, query, userID, name).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores a preference, replacing any previous value
func (r *PreferenceRepository) Set(ctx context.Context, userID, name, value string, exec Executor) error {
	query := r.dialect.UpsertSQL(constants.TablePreferences, []string{"user_id", "name"}, []string{"value", "updated_at"})
	if _, err := pick(r.db, exec).ExecContext(ctx, query, userID, name, value, now()); err != nil {
		return fmt.Errorf("failed to save preference %s: %w", name, err)
	}
	return nil
}
