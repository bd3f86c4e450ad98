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

var taskColumns = []string{
	"id", "user_id", "assigned_to", "asset_id", "asset_type", "name", "category", "bucket",
	"due_at", "completed_at", "created_at", "updated_at",
}

// TaskRepository handles database operations for tasks
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(conn *database.Connection) *TaskRepository {
	return &TaskRepository{db: conn.DB()}
}

func scanTask(row Scannable) (*models.Task, error) {
	var t models.Task
	var assignedTo, assetID, assetType sql.NullString
	var dueAt, completedAt, createdAt, updatedAt nullTime

	if err := row.Scan(&t.ID, &t.UserID, &assignedTo, &assetID, &assetType, &t.Name, &t.Category,
		&t.Bucket, &dueAt, &completedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	t.AssignedTo = models.NullStringToPtr(assignedTo)
	t.AssetID = models.NullStringToPtr(assetID)
	t.AssetType = models.NullStringToPtr(assetType)
	t.DueAt = dueAt.Ptr()
	t.CompletedAt = completedAt.Ptr()
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time
	return &t, nil
}

// Insert creates a task
func (r *TaskRepository) Insert(ctx context.Context, t *models.Task, exec Executor) error {
	ts := now()
	t.CreatedAt, t.UpdatedAt = ts, ts

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		constants.TableTasks, strings.Join(taskColumns, ", "), placeholders(len(taskColumns)))
	_, err := pick(r.db, exec).ExecContext(ctx, query,
		t.ID, t.UserID, models.NewNullString(t.AssignedTo), models.NewNullString(t.AssetID),
		models.NewNullString(t.AssetType), t.Name, t.Category, t.Bucket, timeArg(t.DueAt),
		timeArg(t.CompletedAt), t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// FindVisible returns the task if the scope admits it, nil otherwise
func (r *TaskRepository) FindVisible(ctx context.Context, scope Scope, id string, exec Executor) (*models.Task, error) {
	scope = scope.And(constants.TableTasks+".id = ?", id)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s LIMIT 1",
		strings.Join(taskColumns, ", "), constants.TableTasks, scope.Clause)
	t, err := scanTask(pick(r.db, exec).QueryRowContext(ctx, query, scope.Args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

// FindByID returns a task regardless of visibility
func (r *TaskRepository) FindByID(ctx context.Context, id string, exec Executor) (*models.Task, error) {
	return r.FindVisible(ctx, Unrestricted, id, exec)
}

// ListFor returns the tasks attached to an asset
func (r *TaskRepository) ListFor(ctx context.Context, assetType, assetID string) ([]*models.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE asset_type = ? AND asset_id = ? ORDER BY created_at, id",
		strings.Join(taskColumns, ", "), constants.TableTasks)
	rows, err := r.db.QueryContext(ctx, query, assetType, assetID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Attach points a task at an asset
func (r *TaskRepository) Attach(ctx context.Context, taskID, assetType, assetID string, exec Executor) error {
	query := fmt.Sprintf("UPDATE %s SET asset_type = ?, asset_id = ?, updated_at = ? WHERE id = ?", constants.TableTasks)
	_, err := pick(r.db, exec).ExecContext(ctx, query, assetType, assetID, now(), taskID)
	return err
}

// Detach clears the asset of a task if it currently points at the given one
func (r *TaskRepository) Detach(ctx context.Context, taskID, assetType, assetID string, exec Executor) (bool, error) {
	query := fmt.Sprintf("UPDATE %s SET asset_type = NULL, asset_id = NULL, updated_at = ? WHERE id = ? AND asset_type = ? AND asset_id = ?",
		constants.TableTasks)
	res, err := pick(r.db, exec).ExecContext(ctx, query, now(), taskID, assetType, assetID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DetachAll clears every task pointing at an asset
func (r *TaskRepository) DetachAll(ctx context.Context, assetType, assetID string, exec Executor) error {
	query := fmt.Sprintf("UPDATE %s SET asset_type = NULL, asset_id = NULL, updated_at = ? WHERE asset_type = ? AND asset_id = ?",
		constants.TableTasks)
	_, err := pick(r.db, exec).ExecContext(ctx, query, now(), assetType, assetID)
	return err
}
