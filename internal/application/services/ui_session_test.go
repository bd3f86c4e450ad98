package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumbe/lcrm-app/internal/application/services"
	"github.com/Lumbe/lcrm-app/pkg/constants"
)

func TestSession_Values(t *testing.T) {
	sess := services.NewSession("s1", nil)
	assert.False(t, sess.Dirty())

	sess.SetInt(constants.SessionLeadsCurrentPage, 3)
	assert.Equal(t, 3, sess.GetInt(constants.SessionLeadsCurrentPage))
	assert.True(t, sess.Dirty())

	sess.Set(constants.SessionLeadsCurrentPage, "three")
	assert.Equal(t, 0, sess.GetInt(constants.SessionLeadsCurrentPage))
	assert.Equal(t, 0, sess.GetInt("missing"))
}

func TestSession_Flash(t *testing.T) {
	sess := services.NewSession("s1", map[string]string{"other": "x"})
	sess.Flash(constants.FlashNotice, "Billy Bones has been deleted.")

	msg, ok := sess.PeekFlash(constants.FlashNotice)
	require.True(t, ok)
	assert.Equal(t, "Billy Bones has been deleted.", msg)

	assert.Equal(t, map[string]string{constants.FlashNotice: "Billy Bones has been deleted."}, sess.TakeFlash())
	assert.Empty(t, sess.TakeFlash())

	other, ok := sess.Get("other")
	assert.True(t, ok)
	assert.Equal(t, "x", other)
}

func TestSessionService_SaveAndLoad(t *testing.T) {
	fx := newFixture(t)
	svc := fx.sm.Sessions

	fx.sess.SetInt(constants.SessionLeadsCurrentPage, 7)
	fx.sess.Set(constants.SessionLeadsCurrentQuery, "bill")
	require.NoError(t, svc.Save(fx.ctx, fx.sess))
	assert.False(t, fx.sess.Dirty())

	loaded, err := svc.Load(fx.ctx, fx.me.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.GetInt(constants.SessionLeadsCurrentPage))

	loaded.Delete(constants.SessionLeadsCurrentQuery)
	loaded.SetInt(constants.SessionLeadsCurrentPage, 8)
	require.NoError(t, svc.Save(fx.ctx, loaded))

	reloaded, err := svc.Load(fx.ctx, fx.me.SessionID)
	require.NoError(t, err)
	_, ok := reloaded.Get(constants.SessionLeadsCurrentQuery)
	assert.False(t, ok)
	assert.Equal(t, 8, reloaded.GetInt(constants.SessionLeadsCurrentPage))
}

func TestSessionService_SessionsAreIsolated(t *testing.T) {
	fx := newFixture(t)
	other := fx.factory.Session(fx.owner)

	fx.sess.Set(constants.SessionLeadsFilter, "new")
	require.NoError(t, fx.sm.Sessions.Save(fx.ctx, fx.sess))

	loaded, err := fx.sm.Sessions.Load(fx.ctx, other.SessionID)
	require.NoError(t, err)
	_, ok := loaded.Get(constants.SessionLeadsFilter)
	assert.False(t, ok)
}
