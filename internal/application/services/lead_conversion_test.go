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

func TestLeadService_Convert(t *testing.T) {
	fx := newFixture(t)
	campaign := fx.factory.Campaign(fx.owner)
	lead := fx.factory.Lead(fx.owner, func(l *models.Lead) {
		l.CampaignID = models.StringPtr(campaign.ID)
		l.Source = "cold_call"
	})
	account := fx.factory.Account(fx.owner)

	form, err := fx.sm.Leads.Convert(fx.ctx, fx.me, lead.ID)
	require.NoError(t, err)

	assert.Equal(t, lead.ID, form.Lead.ID)
	require.Len(t, form.Accounts, 1)
	assert.Equal(t, account.ID, form.Accounts[0].ID)
	assert.Equal(t, "Treasure Island", form.Account.Name)
	assert.Equal(t, constants.AccessLead, form.Account.Access)
	assert.Equal(t, constants.OpportunityStageProspecting, form.Opportunity.Stage)
	assert.Equal(t, campaign.ID, models.StringValue(form.Opportunity.CampaignID))
	assert.Equal(t, "cold_call", form.Opportunity.Source)
}

func TestLeadService_Promote(t *testing.T) {
	fx := newFixture(t)
	lead := fx.factory.Lead(fx.owner)

	result, err := fx.sm.Leads.Promote(fx.ctx, fx.me, lead.ID, services.PromoteInput{
		Access:      constants.AccessLead,
		Account:     models.Attributes{"name": "Hello", "access": constants.AccessLead},
		Opportunity: models.Attributes{"name": "World", "access": constants.AccessLead},
	})
	require.NoError(t, err)
	require.True(t, result.Succeeded())

	assert.Equal(t, constants.LeadStatusConverted, result.Lead.Status)
	assert.Equal(t, "Hello", result.Account.Name)
	assert.Equal(t, "World", result.Opportunity.Name)
	assert.Equal(t, result.Account.ID, models.StringValue(result.Opportunity.AccountID))
	assert.Equal(t, result.Account.ID, models.StringValue(result.Contact.AccountID))
	assert.Equal(t, constants.AccessPublic, result.Contact.Access)
	assert.Equal(t, fx.sm.Settings.OpportunityStage, result.Stages)

	reloaded, err := fx.sm.Leads.Find(fx.ctx, fx.me, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.LeadStatusConverted, reloaded.Status)

	contact, err := fx.sm.Repos.Contacts.FindByLead(fx.ctx, lead.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, contact)
	assert.Equal(t, "Billy", contact.FirstName)
	assert.Equal(t, "Bones", contact.LastName)

	opps, err := fx.sm.Repos.Contacts.OpportunityIDs(fx.ctx, contact.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{result.Opportunity.ID}, opps)
}

func TestLeadService_Promote_ExistingAccount(t *testing.T) {
	fx := newFixture(t)
	lead := fx.factory.Lead(fx.owner)
	account := fx.factory.Account(fx.owner)

	result, err := fx.sm.Leads.Promote(fx.ctx, fx.me, lead.ID, services.PromoteInput{
		Account: models.Attributes{"id": account.ID},
	})
	require.NoError(t, err)
	require.True(t, result.Succeeded())
	assert.Equal(t, account.ID, result.Account.ID)
	assert.Equal(t, account.ID, models.StringValue(result.Contact.AccountID))
}

func TestLeadService_Promote_WithoutOpportunity(t *testing.T) {
	fx := newFixture(t)
	lead := fx.factory.Lead(fx.owner)

	result, err := fx.sm.Leads.Promote(fx.ctx, fx.me, lead.ID, services.PromoteInput{
		Account:     models.Attributes{"name": "Hello"},
		Opportunity: models.Attributes{},
	})
	require.NoError(t, err)
	require.True(t, result.Succeeded())
	assert.Empty(t, result.Opportunity.Name)

	contact, err := fx.sm.Repos.Contacts.FindByLead(fx.ctx, lead.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, contact)
	opps, err := fx.sm.Repos.Contacts.OpportunityIDs(fx.ctx, contact.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, opps)
}

func TestLeadService_Promote_CopiesLeadPermissions(t *testing.T) {
	fx := newFixture(t)
	he := fx.factory.User()
	she := fx.factory.User()
	lead := fx.factory.Lead(fx.owner, func(l *models.Lead) {
		l.Access = constants.AccessShared
		l.UserIDs = []string{he.ID, she.ID}
	})

	result, err := fx.sm.Leads.Promote(fx.ctx, fx.me, lead.ID, services.PromoteInput{
		Access:      constants.AccessLead,
		Account:     models.Attributes{"name": "Hello", "access": constants.AccessLead},
		Opportunity: models.Attributes{"name": "World", "access": constants.AccessLead},
	})
	require.NoError(t, err)
	require.True(t, result.Succeeded())

	for _, grant := range []struct {
		assetType, id, access string
		userIDs               []string
	}{
		{constants.AssetAccount, result.Account.ID, result.Account.Access, result.Account.UserIDs},
		{constants.AssetOpportunity, result.Opportunity.ID, result.Opportunity.Access, result.Opportunity.UserIDs},
		{constants.AssetContact, result.Contact.ID, result.Contact.Access, result.Contact.UserIDs},
	} {
		assert.Equal(t, constants.AccessShared, grant.access, grant.assetType)
		assert.ElementsMatch(t, []string{he.ID, she.ID}, grant.userIDs, grant.assetType)

		stored, err := fx.sm.Repos.Permissions.UserIDs(fx.ctx, grant.assetType, grant.id, nil)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{he.ID, she.ID}, stored, grant.assetType)
	}
}

func TestLeadService_Promote_CampaignAndSource(t *testing.T) {
	fx := newFixture(t)
	campaign := fx.factory.Campaign(fx.owner)
	other := fx.factory.Campaign(fx.owner)
	lead := fx.factory.Lead(fx.owner, func(l *models.Lead) {
		l.CampaignID = models.StringPtr(campaign.ID)
		l.Source = "campaign"
	})

	result, err := fx.sm.Leads.Promote(fx.ctx, fx.me, lead.ID, services.PromoteInput{
		Account:     models.Attributes{"name": "Hello"},
		Opportunity: models.Attributes{"name": "World", "campaign_id": other.ID},
	})
	require.NoError(t, err)
	require.True(t, result.Succeeded())

	opp, err := fx.sm.Repos.Opportunities.FindByID(fx.ctx, result.Opportunity.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, other.ID, models.StringValue(opp.CampaignID))
	assert.Equal(t, "campaign", opp.Source)

	reloaded, err := fx.sm.Repos.Campaigns.FindByID(fx.ctx, other.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.OpportunitiesCount)
}

func TestLeadService_Promote_Invalid(t *testing.T) {
	fx := newFixture(t)
	lead := fx.factory.Lead(fx.owner)

	result, err := fx.sm.Leads.Promote(fx.ctx, fx.me, lead.ID, services.PromoteInput{
		Account:     models.Attributes{"name": ""},
		Opportunity: models.Attributes{"name": "World"},
	})
	require.NoError(t, err)
	require.False(t, result.Succeeded())
	assert.NotEmpty(t, result.AccountErrors.On("name"))
	assert.NotEmpty(t, result.Errors().On("name"))

	reloaded, err := fx.sm.Leads.Find(fx.ctx, fx.me, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.LeadStatusNew, reloaded.Status)

	contact, err := fx.sm.Repos.Contacts.FindByLead(fx.ctx, lead.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, contact)
}

func TestLeadService_Promote_UnknownAccount(t *testing.T) {
	fx := newFixture(t)
	lead := fx.factory.Lead(fx.owner)

	result, err := fx.sm.Leads.Promote(fx.ctx, fx.me, lead.ID, services.PromoteInput{
		Account: models.Attributes{"id": "missing"},
	})
	require.NoError(t, err)
	assert.False(t, result.Succeeded())
	assert.Equal(t, []string{"can't be found"}, result.AccountErrors.On("id"))
}

func TestLeadService_Promote_NotVisible(t *testing.T) {
	fx := newFixture(t)
	lead := fx.factory.Lead(fx.factory.User(), func(l *models.Lead) { l.Access = constants.AccessPrivate })

	_, err := fx.sm.Leads.Promote(fx.ctx, fx.me, lead.ID, services.PromoteInput{})
	assert.True(t, errors.IsNotFound(err))
}
