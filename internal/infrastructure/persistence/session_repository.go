package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/internal/infrastructure/database"
	"github.com/Lumbe/lcrm-app/pkg/constants"
)

// SessionRepository handles database operations for auth sessions and the
// UI state stored against them
type SessionRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(conn *database.Connection) *SessionRepository {
	return &SessionRepository{db: conn.DB(), dialect: conn.Dialect()}
}

// InsertSession creates a new session in the database
func (r *SessionRepository) InsertSession(ctx context.Context, s *models.AuthSession) error {
	ts := now()
	s.CreatedAt, s.LastActivity = ts, ts
	query := fmt.Sprintf("INSERT INTO %s (id, user_id, expires_at, revoked, last_activity, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		constants.TableSessions)
	_, err := r.db.ExecContext(ctx, query, s.ID, s.UserID, s.ExpiresAt.UTC(), s.Revoked, s.LastActivity, s.CreatedAt)
	return err
}

// GetSession retrieves a session by its ID (from JWT claim)
func (r *SessionRepository) GetSession(ctx context.Context, sessionID string) (*models.AuthSession, error) {
	query := fmt.Sprintf("SELECT id, user_id, expires_at, revoked, last_activity, created_at FROM %s WHERE id = ? LIMIT 1",
		constants.TableSessions)

	var s models.AuthSession
	var expiresAt, lastActivity, createdAt nullTime
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&s.ID, &s.UserID, &expiresAt, &s.Revoked, &lastActivity, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.ExpiresAt = expiresAt.Time
	s.LastActivity = lastActivity.Time
	s.CreatedAt = createdAt.Time
	return &s, nil
}

// RevokeSession marks a session as revoked
func (r *SessionRepository) RevokeSession(ctx context.Context, sessionID string) error {
	query := fmt.Sprintf("UPDATE %s SET revoked = ? WHERE id = ?", constants.TableSessions)
	_, err := r.db.ExecContext(ctx, query, true, sessionID)
	return err
}

// UpdateLastActivity updates the last activity timestamp
func (r *SessionRepository) UpdateLastActivity(ctx context.Context, sessionID string) error {
	query := fmt.Sprintf("UPDATE %s SET last_activity = ? WHERE id = ?", constants.TableSessions)
	_, err := r.db.ExecContext(ctx, query, now(), sessionID)
	return err
}

// DeleteStale removes expired or revoked sessions together with their
// stored values and reports how many sessions went.
func (r *SessionRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	stale := fmt.Sprintf("SELECT id FROM %s WHERE expires_at < ? OR revoked = ?", constants.TableSessions)

	valuesQuery := fmt.Sprintf("DELETE FROM %s WHERE session_id IN (%s)", constants.TableSessionValues, stale)
	if _, err := r.db.ExecContext(ctx, valuesQuery, cutoff.UTC(), true); err != nil {
		return 0, fmt.Errorf("failed to delete stale session values: %w", err)
	}

	res, err := r.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE expires_at < ? OR revoked = ?", constants.TableSessions), cutoff.UTC(), true)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale sessions: %w", err)
	}
	return res.RowsAffected()
}

// LoadValues returns the UI state stored for a session
func (r *SessionRepository) LoadValues(ctx context.Context, sessionID string) (map[string]string, error) {
	query := fmt.Sprintf("SELECT name, value FROM %s WHERE session_id = ?", constants.TableSessionValues)
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session values: %w", err)
	}
	defer func() { _ = rows.Close() }()

	values := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		values[name] = value
	}
	return values, rows.Err()
}

// SaveValues writes changed keys and deletes removed ones
func (r *SessionRepository) SaveValues(ctx context.Context, sessionID string, set map[string]string, deleted []string) error {
	if len(set) == 0 && len(deleted) == 0 {
		return nil
	}

	upsert := r.dialect.UpsertSQL(constants.TableSessionValues, []string{"session_id", "name"}, []string{"value", "updated_at"})
	ts := now()
	for name, value := range set {
		if _, err := r.db.ExecContext(ctx, upsert, sessionID, name, value, ts); err != nil {
			return fmt.Errorf("failed to save session value %s: %w", name, err)
		}
	}

	if len(deleted) > 0 {
		query := fmt.Sprintf("DELETE FROM %s WHERE session_id = ? AND name IN (%s)", constants.TableSessionValues, placeholders(len(deleted)))
		args := append([]interface{}{sessionID}, stringArgs(deleted)...)
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to delete session values: %w", err)
		}
	}
	return nil
}
