package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Lumbe/lcrm-app/internal/infrastructure/database"
	"github.com/Lumbe/lcrm-app/pkg/constants"
	"github.com/Lumbe/lcrm-app/pkg/utils"
)

// PermissionRepository manages the user grants of Shared assets
type PermissionRepository struct {
	db *sql.DB
}

// NewPermissionRepository creates a new PermissionRepository
func NewPermissionRepository(conn *database.Connection) *PermissionRepository {
	return &PermissionRepository{db: conn.DB()}
}

// UserIDs lists the users granted access to an asset
func (r *PermissionRepository) UserIDs(ctx context.Context, assetType, assetID string, exec Executor) ([]string, error) {
	query := fmt.Sprintf("SELECT user_id FROM %s WHERE asset_type = ? AND asset_id = ? ORDER BY user_id", constants.TablePermissions)
	return queryStrings(ctx, pick(r.db, exec), query, assetType, assetID)
}

// Replace sets the grants of an asset to exactly userIDs
func (r *PermissionRepository) Replace(ctx context.Context, assetType, assetID string, userIDs []string, exec Executor) error {
	if err := r.DeleteForAsset(ctx, assetType, assetID, exec); err != nil {
		return err
	}

	seen := make(map[string]bool, len(userIDs))
	query := fmt.Sprintf("INSERT INTO %s (id, user_id, asset_id, asset_type, created_at) VALUES (?, ?, ?, ?, ?)", constants.TablePermissions)
	for _, userID := range userIDs {
		if seen[userID] {
			continue
		}
		seen[userID] = true
		if _, err := pick(r.db, exec).ExecContext(ctx, query, utils.GenerateID(), userID, assetID, assetType, now()); err != nil {
			return fmt.Errorf("failed to grant %s %s to user %s: %w", assetType, assetID, userID, err)
		}
	}
	return nil
}

// DeleteForAsset removes every grant of an asset
func (r *PermissionRepository) DeleteForAsset(ctx context.Context, assetType, assetID string, exec Executor) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE asset_type = ? AND asset_id = ?", constants.TablePermissions)
	_, err := pick(r.db, exec).ExecContext(ctx, query, assetType, assetID)
	return err
}
