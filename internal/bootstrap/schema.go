package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Lumbe/lcrm-app/internal/infrastructure/database"
	"github.com/Lumbe/lcrm-app/internal/infrastructure/persistence"
)

// InitializeSchema creates every table from the declarative definitions.
// Tables are created parents first; existing tables are left alone.
func InitializeSchema(ctx context.Context, conn *database.Connection, logger *zap.Logger) error {
	logger.Info("initializing schema", zap.String("dialect", string(conn.Dialect())))

	repo := persistence.NewSchemaRepository(conn, logger)
	for _, def := range GetTableDefinitions() {
		if err := repo.CreateTable(ctx, def); err != nil {
			return fmt.Errorf("schema initialization failed: %w", err)
		}
	}

	logger.Info("schema initialized", zap.Int("tables", len(GetTableDefinitions())))
	return nil
}

// DropSchema drops every table of the service, children first
func DropSchema(ctx context.Context, conn *database.Connection, logger *zap.Logger) error {
	repo := persistence.NewSchemaRepository(conn, logger)
	if err := repo.DisableForeignKeys(ctx); err != nil {
		logger.Warn("failed to disable foreign key checks", zap.Error(err))
	}

	defs := GetTableDefinitions()
	for i := len(defs) - 1; i >= 0; i-- {
		if err := repo.DropTable(ctx, defs[i].TableName); err != nil {
			return err
		}
	}
	return nil
}
