package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumbe/lcrm-app/internal/application/services"
	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/pkg/constants"
)

func TestAccessService_Scope(t *testing.T) {
	access := services.NewAccessService()

	tests := []struct {
		name     string
		user     *models.UserSession
		clause   string
		argCount int
	}{
		{name: "anonymous sees nothing", user: nil, clause: "1=0"},
		{name: "admin sees everything", user: &models.UserSession{ID: "a", Admin: true}, clause: "1=1"},
		{name: "user is restricted", user: &models.UserSession{ID: "u"}, argCount: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope := access.LeadScope(tt.user)
			if tt.clause != "" {
				assert.Equal(t, tt.clause, scope.Clause)
				return
			}
			assert.Contains(t, scope.Clause, "leads.access = ?")
			assert.Contains(t, scope.Clause, "EXISTS (SELECT 1 FROM permissions p")
			assert.Len(t, scope.Args, tt.argCount)
			assert.Equal(t, constants.AssetLead, scope.Args[4])
		})
	}
}

func TestAccessService_TaskScope(t *testing.T) {
	access := services.NewAccessService()

	assert.Equal(t, "1=0", access.TaskScope(nil).Clause)
	assert.Equal(t, "1=1", access.TaskScope(&models.UserSession{ID: "a", Admin: true}).Clause)

	scope := access.TaskScope(&models.UserSession{ID: "u"})
	assert.Equal(t, "(tasks.user_id = ? OR tasks.assigned_to = ?)", scope.Clause)
	assert.Equal(t, []interface{}{"u", "u"}, scope.Args)
}

func TestAccessService_Visibility(t *testing.T) {
	fx := newFixture(t)
	other := fx.factory.User()

	public := fx.factory.Lead(other)
	private := fx.factory.Lead(other, func(l *models.Lead) { l.Access = constants.AccessPrivate })
	assigned := fx.factory.Lead(other, func(l *models.Lead) {
		l.Access = constants.AccessPrivate
		l.AssignedTo = models.StringPtr(fx.owner.ID)
	})
	sharedWithMe := fx.factory.Lead(other, func(l *models.Lead) {
		l.Access = constants.AccessShared
		l.UserIDs = []string{fx.owner.ID}
	})
	sharedWithOthers := fx.factory.Lead(other, func(l *models.Lead) {
		l.Access = constants.AccessShared
		l.UserIDs = []string{other.ID}
	})

	visible := func(id string) bool {
		lead, err := fx.sm.Leads.FindOptional(fx.ctx, fx.me, id)
		require.NoError(t, err)
		return lead != nil
	}

	assert.True(t, visible(public.ID))
	assert.False(t, visible(private.ID))
	assert.True(t, visible(assigned.ID))
	assert.True(t, visible(sharedWithMe.ID))
	assert.False(t, visible(sharedWithOthers.ID))

	admin := fx.factory.Session(fx.factory.User(func(u *models.User) { u.Admin = true }))
	lead, err := fx.sm.Leads.Find(fx.ctx, admin, private.ID)
	require.NoError(t, err)
	assert.Equal(t, private.ID, lead.ID)
}

func TestIsStoredAccess(t *testing.T) {
	assert.True(t, services.IsStoredAccess(constants.AccessShared))
	assert.False(t, services.IsStoredAccess(constants.AccessCampaign))
	assert.False(t, services.IsStoredAccess(""))
}
