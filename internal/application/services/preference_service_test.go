package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumbe/lcrm-app/internal/application/services"
	"github.com/Lumbe/lcrm-app/pkg/constants"
)

func TestPreferenceService_Defaults(t *testing.T) {
	fx := newFixture(t)
	prefs := fx.sm.Preferences

	perPage, err := prefs.LeadsPerPage(fx.ctx, fx.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, fx.sm.Settings.PerPage, perPage)

	order, err := prefs.LeadsOrder(fx.ctx, fx.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultLeadsSortBy, order)

	naming, err := prefs.LeadsNaming(fx.ctx, fx.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.NamingBefore, naming)

	view, err := prefs.LeadsView(fx.ctx, fx.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ViewBrief, view)
}

func TestPreferenceService_Redraw(t *testing.T) {
	fx := newFixture(t)
	prefs := fx.sm.Preferences

	err := prefs.Redraw(fx.ctx, fx.owner.ID, services.RedrawOptions{
		PerPage: "42",
		View:    constants.ViewLong,
		SortBy:  "first_name",
		Naming:  constants.NamingAfter,
	})
	require.NoError(t, err)

	all, err := prefs.All(fx.ctx, fx.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "42", all[constants.PrefLeadsPerPage])
	assert.Equal(t, constants.ViewLong, all[constants.PrefLeadsIndexView])
	assert.Equal(t, "leads.first_name ASC", all[constants.PrefLeadsSortBy])
	assert.Equal(t, constants.NamingAfter, all[constants.PrefLeadsNaming])
	assert.Equal(t, "contacts.first_name ASC", all[constants.PrefContactsSortBy])
	assert.Equal(t, constants.NamingAfter, all[constants.PrefContactsNaming])

	perPage, err := prefs.LeadsPerPage(fx.ctx, fx.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, perPage)
}

func TestPreferenceService_Redraw_KeepsContactChoices(t *testing.T) {
	fx := newFixture(t)
	fx.factory.Preference(fx.owner, constants.PrefContactsSortBy, "contacts.last_name ASC")
	fx.factory.Preference(fx.owner, constants.PrefContactsNaming, constants.NamingBefore)

	err := fx.sm.Preferences.Redraw(fx.ctx, fx.owner.ID, services.RedrawOptions{
		SortBy: "first_name",
		Naming: constants.NamingAfter,
	})
	require.NoError(t, err)

	sortBy, err := fx.sm.Preferences.Get(fx.ctx, fx.owner.ID, constants.PrefContactsSortBy)
	require.NoError(t, err)
	assert.Equal(t, "contacts.last_name ASC", sortBy)

	naming, err := fx.sm.Preferences.Get(fx.ctx, fx.owner.ID, constants.PrefContactsNaming)
	require.NoError(t, err)
	assert.Equal(t, constants.NamingBefore, naming)
}

func TestPreferenceService_Redraw_IgnoresUnknownSort(t *testing.T) {
	fx := newFixture(t)

	require.NoError(t, fx.sm.Preferences.Redraw(fx.ctx, fx.owner.ID, services.RedrawOptions{SortBy: "email"}))

	sortBy, err := fx.sm.Preferences.Get(fx.ctx, fx.owner.ID, constants.PrefLeadsSortBy)
	require.NoError(t, err)
	assert.Empty(t, sortBy)
}
