package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/internal/infrastructure/database"
	"github.com/Lumbe/lcrm-app/internal/infrastructure/persistence"
	"github.com/Lumbe/lcrm-app/pkg/auth"
	"github.com/Lumbe/lcrm-app/pkg/utils"
)

// SeedAdmin creates the administrator account on first start. Nothing
// happens when the email is taken or no password is configured.
func SeedAdmin(ctx context.Context, conn *database.Connection, email, password string, logger *zap.Logger) error {
	if password == "" {
		logger.Info("ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	users := persistence.NewUserRepository(conn)
	existing, err := users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up admin: %w", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		ID:           utils.GenerateID(),
		Username:     "admin",
		Email:        email,
		PasswordHash: hash,
		FirstName:    "System",
		LastName:     "Administrator",
		Admin:        true,
	}
	if err := users.Insert(ctx, admin, nil); err != nil {
		return err
	}

	logger.Info("admin user created", zap.String("email", admin.Email))
	return nil
}
