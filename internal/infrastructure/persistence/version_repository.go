package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/internal/infrastructure/database"
	"github.com/Lumbe/lcrm-app/pkg/constants"
	"github.com/Lumbe/lcrm-app/pkg/utils"
)

// VersionRepository stores the audit trail
type VersionRepository struct {
	db *sql.DB
}

// NewVersionRepository creates a new VersionRepository
func NewVersionRepository(conn *database.Connection) *VersionRepository {
	return &VersionRepository{db: conn.DB()}
}

// Record appends an event for an item
func (r *VersionRepository) Record(ctx context.Context, itemType, itemID, event, whodunnit string, exec Executor) error {
	query := fmt.Sprintf("INSERT INTO %s (id, item_type, item_id, event, whodunnit, created_at) VALUES (?, ?, ?, ?, ?, ?)", constants.TableVersions)
	if _, err := pick(r.db, exec).ExecContext(ctx, query, utils.GenerateID(), itemType, itemID, event, whodunnit, now()); err != nil {
		return fmt.Errorf("failed to record %s version: %w", event, err)
	}
	return nil
}

// ListFor returns the history of an item, oldest first
func (r *VersionRepository) ListFor(ctx context.Context, itemType, itemID string) ([]*models.Version, error) {
	query := fmt.Sprintf("SELECT id, item_type, item_id, event, whodunnit, created_at FROM %s WHERE item_type = ? AND item_id = ? ORDER BY created_at, id",
		constants.TableVersions)
	rows, err := r.db.QueryContext(ctx, query, itemType, itemID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	versions := make([]*models.Version, 0)
	for rows.Next() {
		var v models.Version
		var createdAt nullTime
		if err := rows.Scan(&v.ID, &v.ItemType, &v.ItemID, &v.Event, &v.Whodunnit, &createdAt); err != nil {
			return nil, err
		}
		v.CreatedAt = createdAt.Time
		versions = append(versions, &v)
	}
	return versions, rows.Err()
}

// DeleteFor removes the history of an item except the given events
func (r *VersionRepository) DeleteFor(ctx context.Context, itemType, itemID string, keep []string, exec Executor) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE item_type = ? AND item_id = ?", constants.TableVersions)
	args := []interface{}{itemType, itemID}
	if len(keep) > 0 {
		query += fmt.Sprintf(" AND event NOT IN (%s)", placeholders(len(keep)))
		args = append(args, stringArgs(keep)...)
	}
	_, err := pick(r.db, exec).ExecContext(ctx, query, args...)
	return err
}
