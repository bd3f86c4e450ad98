package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Lumbe/lcrm-app/internal/application/services"
	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/internal/testsupport"
	"github.com/Lumbe/lcrm-app/pkg/errors"
)

func TestAuthService_LoginAndValidate(t *testing.T) {
	fx := newFixture(t)

	result, err := fx.sm.Auth.Login(fx.ctx, fx.owner.Email, testsupport.TestPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, fx.owner.ID, result.User.ID)

	user, err := fx.sm.Auth.ValidateSession(fx.ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, fx.owner.ID, user.ID)
	assert.Equal(t, result.SessionID, user.SessionID)
}

func TestAuthService_Login_Rejected(t *testing.T) {
	fx := newFixture(t)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "unknown email", email: "nobody@example.com", password: testsupport.TestPassword},
		{name: "wrong password", email: fx.owner.Email, password: "wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.sm.Auth.Login(fx.ctx, tt.email, tt.password)
			assert.True(t, errors.IsUnauthorized(err))
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	fx := newFixture(t)

	result, err := fx.sm.Auth.Login(fx.ctx, fx.owner.Email, testsupport.TestPassword)
	require.NoError(t, err)
	require.NoError(t, fx.sm.Auth.Logout(fx.ctx, result.SessionID))

	_, err = fx.sm.Auth.ValidateSession(fx.ctx, result.Token)
	assert.True(t, errors.IsUnauthorized(err))

	assert.True(t, errors.IsValidation(fx.sm.Auth.Logout(fx.ctx, "")))
}

func TestAuthService_ValidateSession_BadToken(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.sm.Auth.ValidateSession(fx.ctx, "not-a-token")
	assert.True(t, errors.IsUnauthorized(err))
}

func TestSchedulerService_CleanupSessions(t *testing.T) {
	fx := newFixture(t)

	result, err := fx.sm.Auth.Login(fx.ctx, fx.owner.Email, testsupport.TestPassword)
	require.NoError(t, err)
	require.NoError(t, fx.sm.Auth.Logout(fx.ctx, result.SessionID))

	n, err := fx.sm.Scheduler.CleanupSessions(fx.ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = fx.sm.Scheduler.CleanupSessions(fx.ctx, time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "the fixture session expires after an hour")

	user, err := fx.sm.Auth.ValidateSession(fx.ctx, result.Token)
	assert.Nil(t, user)
	assert.True(t, errors.IsUnauthorized(err))
}

func TestSchedulerService_StartStop(t *testing.T) {
	fx := newFixture(t)

	bad := services.NewSchedulerService(fx.sm.Repos.Sessions, "every now and then", zap.NewNop())
	assert.Error(t, bad.Start())

	good := services.NewSchedulerService(fx.sm.Repos.Sessions, "@hourly", zap.NewNop())
	require.NoError(t, good.Start())
	good.Stop()
	good.Stop()
}

func TestCampaignService_Create(t *testing.T) {
	fx := newFixture(t)

	campaign, err := fx.sm.Campaigns.Create(fx.ctx, fx.me, models.Attributes{"name": "Spring"})
	require.NoError(t, err)
	assert.Equal(t, fx.sm.Settings.CampaignStatus[0], campaign.Status)

	found, err := fx.sm.Campaigns.Find(fx.ctx, fx.me, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spring", found.Name)

	lead := fx.factory.Lead(fx.owner, func(l *models.Lead) { l.CampaignID = models.StringPtr(campaign.ID) })
	leads, err := fx.sm.Campaigns.Leads(fx.ctx, fx.me, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{lead.ID}, leadIDs(leads))

	_, err = fx.sm.Campaigns.Create(fx.ctx, fx.me, models.Attributes{"name": ""})
	_, ok := errors.AsRecordInvalid(err)
	assert.True(t, ok)
}
