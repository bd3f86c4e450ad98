package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumbe/lcrm-app/internal/application/services"
	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/pkg/constants"
	"github.com/Lumbe/lcrm-app/pkg/errors"
)

func TestLeadService_Attach(t *testing.T) {
	fx := newFixture(t)
	lead := fx.factory.Lead(fx.owner)
	task := fx.factory.Task(fx.owner)

	result, err := fx.sm.Leads.Attach(fx.ctx, fx.me, lead.ID, services.AssetsTasks, task.ID)
	require.NoError(t, err)
	assert.True(t, result.Attached)
	assert.Equal(t, lead.ID, models.StringValue(result.Attachment.AssetID))

	stored, err := fx.sm.Repos.Tasks.FindByID(fx.ctx, task.ID, nil)
	require.NoError(t, err)
	assert.True(t, stored.AttachedTo(constants.AssetLead, lead.ID))

	again, err := fx.sm.Leads.Attach(fx.ctx, fx.me, lead.ID, services.AssetsTasks, task.ID)
	require.NoError(t, err)
	assert.False(t, again.Attached)
}

func TestLeadService_Attach_Missing(t *testing.T) {
	fx := newFixture(t)
	lead := fx.factory.Lead(fx.owner)
	task := fx.factory.Task(fx.owner)

	_, err := fx.sm.Leads.Attach(fx.ctx, fx.me, "missing", services.AssetsTasks, task.ID)
	assert.True(t, errors.IsNotFound(err))

	_, err = fx.sm.Leads.Attach(fx.ctx, fx.me, lead.ID, services.AssetsTasks, "missing")
	assert.True(t, errors.IsNotFound(err))

	_, err = fx.sm.Leads.Attach(fx.ctx, fx.me, lead.ID, "accounts", task.ID)
	assert.True(t, errors.IsValidation(err))
}

func TestLeadService_Discard(t *testing.T) {
	fx := newFixture(t)
	lead := fx.factory.Lead(fx.owner)
	task := fx.factory.Task(fx.owner, func(task *models.Task) {
		task.AssetType = models.StringPtr(constants.AssetLead)
		task.AssetID = models.StringPtr(lead.ID)
	})

	gotLead, gotTask, err := fx.sm.Leads.Discard(fx.ctx, fx.me, lead.ID, constants.AssetTask, task.ID)
	require.NoError(t, err)
	assert.Equal(t, lead.ID, gotLead.ID)
	assert.Nil(t, gotTask.AssetID)

	stored, err := fx.sm.Repos.Tasks.FindByID(fx.ctx, task.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Nil(t, stored.AssetID)
}

func TestLeadService_Discard_Missing(t *testing.T) {
	fx := newFixture(t)
	lead := fx.factory.Lead(fx.owner)

	_, _, err := fx.sm.Leads.Discard(fx.ctx, fx.me, lead.ID, constants.AssetTask, "missing")
	assert.True(t, errors.IsNotFound(err))

	_, _, err = fx.sm.Leads.Discard(fx.ctx, fx.me, lead.ID, constants.AssetAccount, "missing")
	assert.True(t, errors.IsValidation(err))
}

func TestLeadService_Attach_TaskNotVisible(t *testing.T) {
	fx := newFixture(t)
	lead := fx.factory.Lead(fx.owner)
	stranger := fx.factory.User()
	task := fx.factory.Task(stranger)

	_, err := fx.sm.Leads.Attach(fx.ctx, fx.me, lead.ID, services.AssetsTasks, task.ID)
	assert.True(t, errors.IsNotFound(err))

	stored, err := fx.sm.Repos.Tasks.FindByID(fx.ctx, task.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, stored.AssetID)

	// assigned tasks are visible to the assignee
	assigned := fx.factory.Task(stranger, func(task *models.Task) {
		task.AssignedTo = models.StringPtr(fx.owner.ID)
	})
	result, err := fx.sm.Leads.Attach(fx.ctx, fx.me, lead.ID, services.AssetsTasks, assigned.ID)
	require.NoError(t, err)
	assert.True(t, result.Attached)
}

func TestLeadService_Discard_TaskNotVisible(t *testing.T) {
	fx := newFixture(t)
	lead := fx.factory.Lead(fx.owner)
	task := fx.factory.Task(fx.factory.User(), func(task *models.Task) {
		task.AssetType = models.StringPtr(constants.AssetLead)
		task.AssetID = models.StringPtr(lead.ID)
	})

	_, _, err := fx.sm.Leads.Discard(fx.ctx, fx.me, lead.ID, constants.AssetTask, task.ID)
	assert.True(t, errors.IsNotFound(err))

	stored, err := fx.sm.Repos.Tasks.FindByID(fx.ctx, task.ID, nil)
	require.NoError(t, err)
	assert.True(t, stored.AttachedTo(constants.AssetLead, lead.ID))
}
