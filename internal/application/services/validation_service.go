package services

import (
	"fmt"
	"slices"

	"github.com/Lumbe/lcrm-app/internal/config"
	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/pkg/auth"
	"github.com/Lumbe/lcrm-app/pkg/constants"
	"github.com/Lumbe/lcrm-app/pkg/errors"
	"github.com/Lumbe/lcrm-app/pkg/expression"
)

// Validation messages
const (
	msgBlank      = "can't be blank"
	msgInvalid    = "is invalid"
	msgNotInList  = "is not included in the list"
	msgShareUsers = "requires at least one user to share with"
	msgRating     = "must be between 0 and 5"
)

// Rule entities
const (
	RuleEntityLead        = "lead"
	RuleEntityAccount     = "account"
	RuleEntityOpportunity = "opportunity"
	RuleEntityContact     = "contact"
	RuleEntityCampaign    = "campaign"
)

// ValidationService checks records before they are written. Built-in checks
// run first, then the configured expression rules of the entity.
type ValidationService struct {
	engine   *expression.Engine
	settings *config.Settings
}

// NewValidationService creates a new ValidationService and registers the
// rule helpers on engine
func NewValidationService(engine *expression.Engine, settings *config.Settings) *ValidationService {
	engine.RegisterFunction("IS_EMAIL", func(params ...interface{}) (interface{}, error) {
		if len(params) != 1 {
			return nil, fmt.Errorf("IS_EMAIL expects 1 argument, got %d", len(params))
		}
		s, ok := params[0].(string)
		return ok && auth.IsValidEmail(s), nil
	})
	return &ValidationService{engine: engine, settings: settings}
}

// ValidateLead returns the field errors of a lead. The error is non-nil only
// when a configured rule cannot be evaluated.
func (vs *ValidationService) ValidateLead(lead *models.Lead) (errors.FieldErrors, error) {
	errs := errors.FieldErrors{}

	requirePresent(errs, "first_name", lead.FirstName)
	requirePresent(errs, "last_name", lead.LastName)
	checkEmail(errs, "email", lead.Email)
	checkEmail(errs, "alt_email", lead.AltEmail)

	if lead.Status != "" && !vs.settings.IsLeadStatus(lead.Status) {
		errs.Add("status", msgNotInList)
	}
	if lead.Rating < 0 || lead.Rating > 5 {
		errs.Add("rating", msgRating)
	}
	checkAccess(errs, lead.Access, lead.UserIDs)

	if err := vs.applyRules(RuleEntityLead, lead.RuleEnv(), errs); err != nil {
		return errs, err
	}
	return errs, nil
}

// ValidateAccount returns the field errors of an account
func (vs *ValidationService) ValidateAccount(account *models.Account) (errors.FieldErrors, error) {
	errs := errors.FieldErrors{}

	requirePresent(errs, "name", account.Name)
	checkEmail(errs, "email", account.Email)
	checkAccess(errs, account.Access, account.UserIDs)

	env := map[string]interface{}{
		"name":     account.Name,
		"access":   account.Access,
		"website":  account.Website,
		"phone":    account.Phone,
		"email":    account.Email,
		"category": account.Category,
		"rating":   account.Rating,
	}
	if err := vs.applyRules(RuleEntityAccount, env, errs); err != nil {
		return errs, err
	}
	return errs, nil
}

// ValidateOpportunity returns the field errors of an opportunity
func (vs *ValidationService) ValidateOpportunity(opp *models.Opportunity) (errors.FieldErrors, error) {
	errs := errors.FieldErrors{}

	requirePresent(errs, "name", opp.Name)
	if opp.Stage != "" && !slices.Contains(vs.settings.OpportunityStage, opp.Stage) {
		errs.Add("stage", msgNotInList)
	}
	if opp.Probability < 0 || opp.Probability > 100 {
		errs.Add("probability", "must be between 0 and 100")
	}
	checkAccess(errs, opp.Access, opp.UserIDs)

	env := map[string]interface{}{
		"name":        opp.Name,
		"access":      opp.Access,
		"source":      opp.Source,
		"stage":       opp.Stage,
		"probability": opp.Probability,
		"amount":      opp.Amount,
		"discount":    opp.Discount,
	}
	if err := vs.applyRules(RuleEntityOpportunity, env, errs); err != nil {
		return errs, err
	}
	return errs, nil
}

// ValidateContact returns the field errors of a contact
func (vs *ValidationService) ValidateContact(contact *models.Contact) (errors.FieldErrors, error) {
	errs := errors.FieldErrors{}

	requirePresent(errs, "first_name", contact.FirstName)
	requirePresent(errs, "last_name", contact.LastName)
	checkEmail(errs, "email", contact.Email)
	checkEmail(errs, "alt_email", contact.AltEmail)
	checkAccess(errs, contact.Access, contact.UserIDs)

	env := map[string]interface{}{
		"first_name": contact.FirstName,
		"last_name":  contact.LastName,
		"access":     contact.Access,
		"title":      contact.Title,
		"department": contact.Department,
		"email":      contact.Email,
	}
	if err := vs.applyRules(RuleEntityContact, env, errs); err != nil {
		return errs, err
	}
	return errs, nil
}

// ValidateCampaign returns the field errors of a campaign
func (vs *ValidationService) ValidateCampaign(campaign *models.Campaign) (errors.FieldErrors, error) {
	errs := errors.FieldErrors{}

	requirePresent(errs, "name", campaign.Name)
	if campaign.Status != "" && !slices.Contains(vs.settings.CampaignStatus, campaign.Status) {
		errs.Add("status", msgNotInList)
	}
	checkAccess(errs, campaign.Access, campaign.UserIDs)

	env := map[string]interface{}{
		"name":   campaign.Name,
		"access": campaign.Access,
		"status": campaign.Status,
	}
	if err := vs.applyRules(RuleEntityCampaign, env, errs); err != nil {
		return errs, err
	}
	return errs, nil
}

// applyRules evaluates the configured rules. A rule whose condition is true
// adds its message to the rule's field.
func (vs *ValidationService) applyRules(entity string, env map[string]interface{}, errs errors.FieldErrors) error {
	for _, rule := range vs.settings.RulesFor(entity) {
		failed, err := vs.engine.EvaluateBool(rule.Condition, env)
		if err != nil {
			return fmt.Errorf("validation rule on %s.%s: %w", entity, rule.Field, err)
		}
		if failed {
			errs.Add(rule.Field, rule.Message)
		}
	}
	return nil
}

func requirePresent(errs errors.FieldErrors, field, value string) {
	if value == "" {
		errs.Add(field, msgBlank)
	}
}

func checkEmail(errs errors.FieldErrors, field, value string) {
	if value != "" && !auth.IsValidEmail(value) {
		errs.Add(field, msgInvalid)
	}
}

func checkAccess(errs errors.FieldErrors, access string, userIDs []string) {
	if !IsStoredAccess(access) {
		errs.Add("access", msgNotInList)
		return
	}
	if access == constants.AccessShared && len(userIDs) == 0 {
		errs.Add("access", msgShareUsers)
	}
}
