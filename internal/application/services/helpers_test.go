package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Lumbe/lcrm-app/internal/application/services"
	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/internal/testsupport"
	"github.com/Lumbe/lcrm-app/pkg/auth"
)

type fixture struct {
	ctx     context.Context
	sm      *services.ServiceManager
	factory *testsupport.Factory
	owner   *models.User
	me      *models.UserSession
	sess    *services.Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn := testsupport.OpenDB(t)
	cfg := testsupport.Config(t)
	sm := services.NewServiceManager(conn, cfg, auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL), zap.NewNop())
	factory := testsupport.NewFactory(t, conn)

	owner := factory.User()
	me := factory.Session(owner)
	sess, err := sm.Sessions.Load(context.Background(), me.SessionID)
	require.NoError(t, err)

	return &fixture{
		ctx:     context.Background(),
		sm:      sm,
		factory: factory,
		owner:   owner,
		me:      me,
		sess:    sess,
	}
}

func intPtr(n int) *int {
	return &n
}

func strPtr(s string) *string {
	return &s
}

func leadIDs(leads []*models.Lead) []string {
	ids := make([]string, len(leads))
	for i, l := range leads {
		ids[i] = l.ID
	}
	return ids
}
