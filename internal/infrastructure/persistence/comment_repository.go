package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/internal/infrastructure/database"
	"github.com/Lumbe/lcrm-app/pkg/constants"
)

// CommentRepository handles database operations for comments
type CommentRepository struct {
	db *sql.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(conn *database.Connection) *CommentRepository {
	return &CommentRepository{db: conn.DB()}
}

// Insert creates a comment
func (r *CommentRepository) Insert(ctx context.Context, c *models.Comment, exec Executor) error {
	c.CreatedAt = now()
	query := fmt.Sprintf("INSERT INTO %s (id, user_id, commentable_id, commentable_type, comment, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		constants.TableComments)
	_, err := pick(r.db, exec).ExecContext(ctx, query, c.ID, c.UserID, c.CommentableID, c.CommentableType, c.Comment, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

// ListFor returns the comments of an asset, oldest first
func (r *CommentRepository) ListFor(ctx context.Context, commentableType, commentableID string) ([]*models.Comment, error) {
	query := fmt.Sprintf("SELECT id, user_id, commentable_id, commentable_type, comment, created_at FROM %s WHERE commentable_type = ? AND commentable_id = ? ORDER BY created_at, id",
		constants.TableComments)
	rows, err := r.db.QueryContext(ctx, query, commentableType, commentableID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		var c models.Comment
		var createdAt nullTime
		if err := rows.Scan(&c.ID, &c.UserID, &c.CommentableID, &c.CommentableType, &c.Comment, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt = createdAt.Time
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}

// DeleteFor removes the comments of an asset
func (r *CommentRepository) DeleteFor(ctx context.Context, commentableType, commentableID string, exec Executor) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE commentable_type = ? AND commentable_id = ?", constants.TableComments)
	_, err := pick(r.db, exec).ExecContext(ctx, query, commentableType, commentableID)
	return err
}
