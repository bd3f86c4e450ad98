// Package testsupport builds throwaway databases and fixtures for tests.
package testsupport

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Lumbe/lcrm-app/internal/bootstrap"
	"github.com/Lumbe/lcrm-app/internal/config"
	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/internal/infrastructure/database"
	"github.com/Lumbe/lcrm-app/internal/infrastructure/persistence"
	"github.com/Lumbe/lcrm-app/pkg/auth"
	"github.com/Lumbe/lcrm-app/pkg/constants"
	"github.com/Lumbe/lcrm-app/pkg/utils"
)

// TestPassword is the password of every factory user
const TestPassword = "secret-password"

// OpenDB creates a migrated SQLite database under t.TempDir
func OpenDB(t testing.TB) *database.Connection {
	t.Helper()

	ctx := context.Background()
	conn, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, bootstrap.InitializeSchema(ctx, conn, zap.NewNop()))
	return conn
}

// Config returns a configuration with the default settings
func Config(t testing.TB) *config.Config {
	t.Helper()

	settings, err := config.DefaultSettings()
	require.NoError(t, err)
	return &config.Config{
		Env:                    "test",
		JWTSecret:              "test-secret",
		TokenTTL:               time.Hour,
		SessionCleanupSchedule: "@hourly",
		Database:               config.DatabaseConfig{Driver: config.DriverSQLite},
		Settings:               settings,
	}
}

// Factory inserts fixtures directly through the repositories
type Factory struct {
	t   testing.TB
	ctx context.Context

	users       *persistence.UserRepository
	campaigns   *persistence.CampaignRepository
	leads       *persistence.LeadRepository
	accounts    *persistence.AccountRepository
	tasks       *persistence.TaskRepository
	permissions *persistence.PermissionRepository
	sessions    *persistence.SessionRepository
	prefs       *persistence.PreferenceRepository
}

// NewFactory creates a Factory over conn
func NewFactory(t testing.TB, conn *database.Connection) *Factory {
	return &Factory{
		t:           t,
		ctx:         context.Background(),
		users:       persistence.NewUserRepository(conn),
		campaigns:   persistence.NewCampaignRepository(conn),
		leads:       persistence.NewLeadRepository(conn),
		accounts:    persistence.NewAccountRepository(conn),
		tasks:       persistence.NewTaskRepository(conn),
		permissions: persistence.NewPermissionRepository(conn),
		sessions:    persistence.NewSessionRepository(conn),
		prefs:       persistence.NewPreferenceRepository(conn),
	}
}

// User creates a user with TestPassword
func (f *Factory) User(mutators ...func(*models.User)) *models.User {
	f.t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	require.NoError(f.t, err)

	id := utils.GenerateID()
	u := &models.User{
		ID:           id,
		Username:     "user-" + id[:8],
		Email:        "user-" + id[:8] + "@example.com",
		PasswordHash: hash,
		FirstName:    "Test",
		LastName:     "User",
	}
	for _, m := range mutators {
		m(u)
	}
	require.NoError(f.t, f.users.Insert(f.ctx, u, nil))
	return u
}

// Session opens an auth session for u and returns the request identity
func (f *Factory) Session(u *models.User) *models.UserSession {
	f.t.Helper()

	s := &models.AuthSession{
		ID:        utils.GenerateID(),
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(f.t, f.sessions.InsertSession(f.ctx, s))
	return &models.UserSession{
		ID:        u.ID,
		Name:      u.FullName(),
		Email:     u.Email,
		Admin:     u.Admin,
		SessionID: s.ID,
	}
}

// Campaign creates a campaign owned by owner
func (f *Factory) Campaign(owner *models.User, mutators ...func(*models.Campaign)) *models.Campaign {
	f.t.Helper()

	c := &models.Campaign{
		ID:     utils.GenerateID(),
		UserID: owner.ID,
		Name:   "Campaign " + utils.GenerateID()[:8],
		Access: constants.AccessPublic,
		Status: "planned",
	}
	for _, m := range mutators {
		m(c)
	}
	require.NoError(f.t, f.campaigns.Insert(f.ctx, c, nil))
	f.grant(constants.AssetCampaign, c.ID, c.UserIDs)
	return c
}

// Lead creates a lead owned by owner, counting it on its campaign
func (f *Factory) Lead(owner *models.User, mutators ...func(*models.Lead)) *models.Lead {
	f.t.Helper()

	l := &models.Lead{
		ID:        utils.GenerateID(),
		UserID:    owner.ID,
		FirstName: "Billy",
		LastName:  "Bones",
		Company:   "Treasure Island",
		Access:    constants.AccessPublic,
		Status:    constants.LeadStatusNew,
	}
	for _, m := range mutators {
		m(l)
	}
	require.NoError(f.t, f.leads.Insert(f.ctx, l, nil))
	require.NoError(f.t, f.campaigns.AdjustLeadsCount(f.ctx, models.StringValue(l.CampaignID), 1, nil))
	f.grant(constants.AssetLead, l.ID, l.UserIDs)
	return l
}

// Account creates an account owned by owner
func (f *Factory) Account(owner *models.User, mutators ...func(*models.Account)) *models.Account {
	f.t.Helper()

	a := &models.Account{
		ID:     utils.GenerateID(),
		UserID: owner.ID,
		Name:   "Account " + utils.GenerateID()[:8],
		Access: constants.AccessPublic,
	}
	for _, m := range mutators {
		m(a)
	}
	require.NoError(f.t, f.accounts.Insert(f.ctx, a, nil))
	f.grant(constants.AssetAccount, a.ID, a.UserIDs)
	return a
}

// Task creates an unattached task owned by owner
func (f *Factory) Task(owner *models.User, mutators ...func(*models.Task)) *models.Task {
	f.t.Helper()

	task := &models.Task{
		ID:       utils.GenerateID(),
		UserID:   owner.ID,
		Name:     "Call back",
		Category: "call",
		Bucket:   "due_asap",
	}
	for _, m := range mutators {
		m(task)
	}
	require.NoError(f.t, f.tasks.Insert(f.ctx, task, nil))
	return task
}

// Preference stores a user preference
func (f *Factory) Preference(u *models.User, name, value string) {
	f.t.Helper()
	require.NoError(f.t, f.prefs.Set(f.ctx, u.ID, name, value, nil))
}

func (f *Factory) grant(assetType, assetID string, userIDs []string) {
	f.t.Helper()
	if len(userIDs) == 0 {
		return
	}
	require.NoError(f.t, f.permissions.Replace(f.ctx, assetType, assetID, userIDs, nil))
}
