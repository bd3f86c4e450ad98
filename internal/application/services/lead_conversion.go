package services

import (
	"context"
	"database/sql"
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/pkg/constants"
	"github.com/Lumbe/lcrm-app/pkg/errors"
	"github.com/Lumbe/lcrm-app/pkg/utils"
)

// errPromotionInvalid aborts the promote transaction when a part of the
// conversion failed validation
var errPromotionInvalid = stderrors.New("promotion has invalid records")

// ConvertForm is the data behind the convert form
type ConvertForm struct {
	Lead        *models.Lead
	Accounts    []*models.Account
	Account     *models.Account
	Opportunity *models.Opportunity
}

// PromoteInput is a submitted conversion
type PromoteInput struct {
	// Access of the new contact; "Lead" copies the lead's
	Access      string
	Account     models.Attributes
	Opportunity models.Attributes
}

// PromoteResult carries the records built by a conversion and their errors
type PromoteResult struct {
	Lead        *models.Lead
	Account     *models.Account
	Opportunity *models.Opportunity
	Contact     *models.Contact
	Accounts    []*models.Account
	Stages      []string

	AccountErrors     errors.FieldErrors
	OpportunityErrors errors.FieldErrors
	ContactErrors     errors.FieldErrors
}

// Succeeded reports whether every record was saved
func (r *PromoteResult) Succeeded() bool {
	return r.AccountErrors.Empty() && r.OpportunityErrors.Empty() && r.ContactErrors.Empty()
}

// Errors merges the error sets of all records
func (r *PromoteResult) Errors() errors.FieldErrors {
	all := errors.FieldErrors{}
	all.Merge(r.AccountErrors)
	all.Merge(r.OpportunityErrors)
	all.Merge(r.ContactErrors)
	return all
}

// Convert prepares the conversion of a visible lead: the accounts the user
// may pick from and unsaved account and opportunity templates.
func (s *LeadService) Convert(ctx context.Context, user *models.UserSession, id string) (*ConvertForm, error) {
	lead, err := s.Find(ctx, user, id)
	if err != nil {
		return nil, err
	}
	accounts, err := s.repos.Accounts.List(ctx, s.access.AccountScope(user), nil)
	if err != nil {
		return nil, err
	}

	return &ConvertForm{
		Lead:     lead,
		Accounts: accounts,
		Account: &models.Account{
			UserID: user.ID,
			Name:   lead.Company,
			Access: constants.AccessLead,
		},
		Opportunity: &models.Opportunity{
			UserID:     user.ID,
			Access:     constants.AccessLead,
			Stage:      constants.OpportunityStageProspecting,
			CampaignID: lead.CampaignID,
			Source:     lead.Source,
		},
	}, nil
}

// Promote converts a visible lead into a contact with an account and,
// when named, an opportunity. Either every record is saved and the lead is
// marked converted, or nothing changes and the result carries the errors.
func (s *LeadService) Promote(ctx context.Context, user *models.UserSession, id string, input PromoteInput) (*PromoteResult, error) {
	var result *PromoteResult

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		lead, err := s.find(ctx, user, id, tx)
		if err != nil {
			return err
		}
		if lead == nil {
			return errors.NewNotFoundError(constants.AssetLead, id)
		}
		result = &PromoteResult{
			Lead:              lead,
			AccountErrors:     errors.FieldErrors{},
			OpportunityErrors: errors.FieldErrors{},
			ContactErrors:     errors.FieldErrors{},
		}

		if err := s.promoteAccount(ctx, user, lead, input.Account, result, tx); err != nil {
			return err
		}
		if err := s.promoteOpportunity(ctx, user, lead, input.Opportunity, result, tx); err != nil {
			return err
		}
		if err := s.promoteContact(ctx, user, lead, input.Access, result, tx); err != nil {
			return err
		}
		if !result.Succeeded() {
			return errPromotionInvalid
		}

		if err := s.repos.Leads.UpdateStatus(ctx, lead.ID, constants.LeadStatusConverted, tx); err != nil {
			return err
		}
		lead.Status = constants.LeadStatusConverted
		return s.repos.Versions.Record(ctx, constants.AssetLead, lead.ID, constants.EventUpdate, user.ID, tx)
	})
	if err != nil && !stderrors.Is(err, errPromotionInvalid) {
		return nil, err
	}

	accounts, listErr := s.repos.Accounts.List(ctx, s.access.AccountScope(user), nil)
	if listErr != nil {
		return nil, listErr
	}
	result.Accounts = accounts
	result.Stages = s.settings.OpportunityStage

	if result.Succeeded() {
		s.logger.Info("lead promoted",
			zap.String("lead_id", result.Lead.ID),
			zap.String("account_id", result.Account.ID),
			zap.String("contact_id", result.Contact.ID))
	}
	return result, nil
}

// promoteAccount selects the account named by attrs["id"] or creates one
func (s *LeadService) promoteAccount(ctx context.Context, user *models.UserSession, lead *models.Lead, attrs models.Attributes, result *PromoteResult, tx *sql.Tx) error {
	if accountID := attrs.String("id"); accountID != "" {
		account, err := s.repos.Accounts.FindVisible(ctx, s.access.AccountScope(user), accountID, tx)
		if err != nil {
			return err
		}
		if account == nil {
			result.Account = &models.Account{ID: accountID}
			result.AccountErrors.Add("id", "can't be found")
			return nil
		}
		result.Account = account
		return nil
	}

	account := &models.Account{
		ID:     utils.GenerateID(),
		UserID: user.ID,
		Access: s.settings.DefaultAccess,
	}
	account.Assign(attrs)
	result.Account = account
	copyLeadAccess(lead, &account.Access, &account.UserIDs)

	errs, err := s.validation.ValidateAccount(account)
	if err != nil {
		return errors.NewInternalError("failed to validate account", err)
	}
	if err := s.checkUsers(ctx, errs, account.Access, account.UserIDs, tx); err != nil {
		return err
	}
	if !errs.Empty() {
		result.AccountErrors = errs
		return nil
	}

	if err := s.repos.Accounts.Insert(ctx, account, tx); err != nil {
		return err
	}
	if err := s.savePermissions(ctx, constants.AssetAccount, account.ID, account.Access, account.UserIDs, tx); err != nil {
		return err
	}
	return s.repos.Versions.Record(ctx, constants.AssetAccount, account.ID, constants.EventCreate, user.ID, tx)
}

// promoteOpportunity creates an opportunity when one is named. Campaign and
// source default to the lead's.
func (s *LeadService) promoteOpportunity(ctx context.Context, user *models.UserSession, lead *models.Lead, attrs models.Attributes, result *PromoteResult, tx *sql.Tx) error {
	opp := &models.Opportunity{
		ID:         utils.GenerateID(),
		UserID:     user.ID,
		Access:     s.settings.DefaultAccess,
		Stage:      constants.OpportunityStageProspecting,
		CampaignID: lead.CampaignID,
		Source:     lead.Source,
	}
	opp.Assign(attrs)
	if attrs.Has("campaign_id") {
		opp.CampaignID = nil
		if campaignID := attrs.String("campaign_id"); campaignID != "" {
			opp.CampaignID = models.StringPtr(campaignID)
		}
	}
	if opp.Stage == "" {
		opp.Stage = constants.OpportunityStageProspecting
	}
	copyLeadAccess(lead, &opp.Access, &opp.UserIDs)
	result.Opportunity = opp

	if opp.Name == "" || !result.AccountErrors.Empty() {
		return nil
	}
	opp.AccountID = models.StringPtr(result.Account.ID)

	errs, err := s.validation.ValidateOpportunity(opp)
	if err != nil {
		return errors.NewInternalError("failed to validate opportunity", err)
	}
	if err := s.checkUsers(ctx, errs, opp.Access, opp.UserIDs, tx); err != nil {
		return err
	}
	if !errs.Empty() {
		result.OpportunityErrors = errs
		return nil
	}

	if err := s.repos.Opportunities.Insert(ctx, opp, tx); err != nil {
		return err
	}
	if err := s.savePermissions(ctx, constants.AssetOpportunity, opp.ID, opp.Access, opp.UserIDs, tx); err != nil {
		return err
	}
	if err := s.repos.Campaigns.AdjustOpportunitiesCount(ctx, models.StringValue(opp.CampaignID), 1, tx); err != nil {
		return err
	}
	return s.repos.Versions.Record(ctx, constants.AssetOpportunity, opp.ID, constants.EventCreate, user.ID, tx)
}

// promoteContact copies the lead's personal details into a new contact
func (s *LeadService) promoteContact(ctx context.Context, user *models.UserSession, lead *models.Lead, access string, result *PromoteResult, tx *sql.Tx) error {
	contact := models.NewContactFromLead(lead)
	contact.ID = utils.GenerateID()
	contact.UserID = user.ID
	contact.UserIDs = lead.UserIDs
	if access != "" {
		contact.Access = access
	}
	copyLeadAccess(lead, &contact.Access, &contact.UserIDs)
	if result.Account != nil && result.Account.ID != "" {
		contact.AccountID = models.StringPtr(result.Account.ID)
	}
	result.Contact = contact

	errs, err := s.validation.ValidateContact(contact)
	if err != nil {
		return errors.NewInternalError("failed to validate contact", err)
	}
	if !errs.Empty() {
		result.ContactErrors = errs
		return nil
	}
	if !result.AccountErrors.Empty() || !result.OpportunityErrors.Empty() {
		return nil
	}

	if err := s.repos.Contacts.Insert(ctx, contact, tx); err != nil {
		return err
	}
	if err := s.savePermissions(ctx, constants.AssetContact, contact.ID, contact.Access, contact.UserIDs, tx); err != nil {
		return err
	}
	if opp := result.Opportunity; opp != nil && opp.Name != "" {
		if err := s.repos.Contacts.LinkOpportunity(ctx, contact.ID, opp.ID, tx); err != nil {
			return err
		}
	}
	return s.repos.Versions.Record(ctx, constants.AssetContact, contact.ID, constants.EventCreate, user.ID, tx)
}

// copyLeadAccess expands the Lead access directive into the lead's own
// access and grants.
func copyLeadAccess(lead *models.Lead, access *string, userIDs *[]string) {
	if *access != constants.AccessLead {
		return
	}
	*access = lead.Access
	*userIDs = nil
	if lead.Access == constants.AccessShared {
		*userIDs = append([]string{}, lead.UserIDs...)
	}
}
