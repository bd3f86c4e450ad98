package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Lumbe/lcrm-app/internal/config"
	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/internal/infrastructure/persistence"
	"github.com/Lumbe/lcrm-app/pkg/constants"
	"github.com/Lumbe/lcrm-app/pkg/errors"
	"github.com/Lumbe/lcrm-app/pkg/utils"
)

const maxTxRetries = 3

// ListRequest carries the paging inputs of a leads index request
type ListRequest struct {
	// Page is the explicit page parameter, nil when absent
	Page *int
	// Query is the explicit query parameter, nil when absent
	Query *string
	// KeepQuery reuses the stored query when Query is nil. Lists rebuilt
	// after a mutation set it so that the user's search survives.
	KeepQuery bool
	// PerPage overrides the page size preference when positive
	PerPage int
}

// LeadPage is one page of the leads index
type LeadPage struct {
	Leads   []*models.Lead
	Page    int
	PerPage int
	Total   int
	Query   string
	Filter  []string
	Naming  string
	View    string
}

// Pages returns the number of pages, at least one
func (p *LeadPage) Pages() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 1
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

// LeadDetail is a lead with its activity, as shown on its landing page
type LeadDetail struct {
	Lead     *models.Lead
	Campaign *models.Campaign
	Comments []*models.Comment
	Tasks    []*models.Task
}

// LeadForm is the data behind the new and edit forms
type LeadForm struct {
	Lead      *models.Lead
	Campaign  *models.Campaign
	Campaigns []*models.Campaign
}

// CreateLeadInput is a submitted lead
type CreateLeadInput struct {
	Attributes  models.Attributes
	CampaignID  string
	CommentBody string
}

// LeadService implements queries and mutations of leads
type LeadService struct {
	repos      *Repositories
	txMgr      *persistence.TransactionManager
	access     *AccessService
	validation *ValidationService
	prefs      *PreferenceService
	settings   *config.Settings
	logger     *zap.Logger
}

// NewLeadService creates a new LeadService
func NewLeadService(
	repos *Repositories,
	txMgr *persistence.TransactionManager,
	access *AccessService,
	validation *ValidationService,
	prefs *PreferenceService,
	settings *config.Settings,
	logger *zap.Logger,
) *LeadService {
	return &LeadService{
		repos:      repos,
		txMgr:      txMgr,
		access:     access,
		validation: validation,
		prefs:      prefs,
		settings:   settings,
		logger:     logger,
	}
}

// Find returns a lead visible to user, or a NotFoundError
func (s *LeadService) Find(ctx context.Context, user *models.UserSession, id string) (*models.Lead, error) {
	lead, err := s.find(ctx, user, id, nil)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, errors.NewNotFoundError(constants.AssetLead, id)
	}
	return lead, nil
}

// FindOptional returns a visible lead or nil. Used for the previously
// opened lead of a form, whose absence is not an error.
func (s *LeadService) FindOptional(ctx context.Context, user *models.UserSession, id string) (*models.Lead, error) {
	if id == "" {
		return nil, nil
	}
	return s.find(ctx, user, id, nil)
}

func (s *LeadService) find(ctx context.Context, user *models.UserSession, id string, exec persistence.Executor) (*models.Lead, error) {
	lead, err := s.repos.Leads.FindVisible(ctx, s.access.LeadScope(user), id, exec)
	if err != nil || lead == nil {
		return nil, err
	}
	if lead.UserIDs, err = s.repos.Permissions.UserIDs(ctx, constants.AssetLead, lead.ID, exec); err != nil {
		return nil, err
	}
	return lead, nil
}

// Show returns a lead with its comments and tasks and records the view
func (s *LeadService) Show(ctx context.Context, user *models.UserSession, id string) (*LeadDetail, error) {
	lead, err := s.Find(ctx, user, id)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Versions.Record(ctx, constants.AssetLead, lead.ID, constants.EventView, user.ID, nil); err != nil {
		return nil, err
	}

	detail := &LeadDetail{Lead: lead}
	if lead.CampaignID != nil {
		if detail.Campaign, err = s.repos.Campaigns.FindVisible(ctx, s.access.CampaignScope(user), *lead.CampaignID, nil); err != nil {
			return nil, err
		}
	}
	if detail.Comments, err = s.repos.Comments.ListFor(ctx, constants.AssetLead, lead.ID); err != nil {
		return nil, err
	}
	if detail.Tasks, err = s.repos.Tasks.ListFor(ctx, constants.AssetLead, lead.ID); err != nil {
		return nil, err
	}
	return detail, nil
}

// List returns the current page of the leads index, updating the paging
// state kept in the session.
func (s *LeadService) List(ctx context.Context, user *models.UserSession, sess *Session, req ListRequest) (*LeadPage, error) {
	if req.Page != nil {
		page := *req.Page
		if page <= 0 {
			page = 1
		}
		sess.SetInt(constants.SessionLeadsCurrentPage, page)
	}

	stored, _ := sess.Get(constants.SessionLeadsCurrentQuery)
	query := ""
	switch {
	case req.Query != nil:
		query = strings.TrimSpace(*req.Query)
	case req.KeepQuery:
		query = stored
	}
	if query != stored {
		page := 1
		if req.Page != nil && *req.Page > 0 {
			page = *req.Page
		}
		sess.SetInt(constants.SessionLeadsCurrentPage, page)
	}
	sess.Set(constants.SessionLeadsCurrentQuery, query)

	page := sess.GetInt(constants.SessionLeadsCurrentPage)
	if page <= 0 {
		page = 1
	}

	perPage := req.PerPage
	if perPage <= 0 {
		var err error
		if perPage, err = s.prefs.LeadsPerPage(ctx, user.ID); err != nil {
			return nil, err
		}
	}
	orderBy, err := s.prefs.LeadsOrder(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	naming, err := s.prefs.LeadsNaming(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	view, err := s.prefs.LeadsView(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	q := persistence.LeadQuery{
		Scope:   s.access.LeadScope(user),
		Text:    query,
		OrderBy: orderBy,
		Limit:   perPage,
		Offset:  (page - 1) * perPage,
	}
	filter := s.Filter(sess)
	for _, status := range filter {
		if status == constants.StatusOther {
			q.OtherThan = s.settings.LeadStatus
			continue
		}
		q.Statuses = append(q.Statuses, status)
	}

	leads, err := s.repos.Leads.List(ctx, q)
	if err != nil {
		return nil, err
	}
	total, err := s.repos.Leads.Count(ctx, q)
	if err != nil {
		return nil, err
	}

	return &LeadPage{
		Leads:   leads,
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Query:   query,
		Filter:  filter,
		Naming:  naming,
		View:    view,
	}, nil
}

// Filter returns the status filter stored in the session
func (s *LeadService) Filter(sess *Session) []string {
	raw, _ := sess.Get(constants.SessionLeadsFilter)
	var filter []string
	for _, status := range strings.Split(raw, ",") {
		if status = strings.TrimSpace(status); status != "" {
			filter = append(filter, status)
		}
	}
	return filter
}

// SetFilter stores the status filter and rewinds to the first page
func (s *LeadService) SetFilter(sess *Session, statuses string) {
	sess.Set(constants.SessionLeadsFilter, statuses)
	sess.SetInt(constants.SessionLeadsCurrentPage, 1)
}

// ResetPage rewinds the index to its first page
func (s *LeadService) ResetPage(sess *Session) {
	sess.SetInt(constants.SessionLeadsCurrentPage, 1)
}

// StatusTotals counts the visible leads per configured status, plus "all"
// and "other" for everything outside the configured list.
func (s *LeadService) StatusTotals(ctx context.Context, user *models.UserSession) (map[string]int, error) {
	counts, err := s.repos.Leads.CountByStatus(ctx, s.access.LeadScope(user))
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int, len(s.settings.LeadStatus)+2)
	all := 0
	for _, n := range counts {
		all += n
	}
	known := 0
	for _, status := range s.settings.LeadStatus {
		totals[status] = counts[status]
		known += counts[status]
	}
	totals[constants.StatusAll] = all
	totals[constants.StatusOther] = all - known
	return totals, nil
}

// Campaigns lists the campaigns user may file a lead under
func (s *LeadService) Campaigns(ctx context.Context, user *models.UserSession) ([]*models.Campaign, error) {
	return s.repos.Campaigns.List(ctx, s.access.CampaignScope(user))
}

// New prepares a blank lead. related names a parent asset as
// "campaign_<id>"; a parent that is gone or hidden is a NotFoundError.
func (s *LeadService) New(ctx context.Context, user *models.UserSession, related string) (*LeadForm, error) {
	form := &LeadForm{
		Lead: &models.Lead{
			UserID: user.ID,
			Access: s.settings.DefaultAccess,
			Status: constants.LeadStatusNew,
		},
	}

	if related != "" {
		assetType, assetID, ok := strings.Cut(related, "_")
		if !ok || assetType != strings.ToLower(constants.AssetCampaign) {
			return nil, errors.NewValidationError(constants.ParamRelated, "is not a campaign")
		}
		campaign, err := s.repos.Campaigns.FindVisible(ctx, s.access.CampaignScope(user), assetID, nil)
		if err != nil {
			return nil, err
		}
		if campaign == nil {
			return nil, errors.NewNotFoundError(constants.AssetCampaign, assetID)
		}
		form.Campaign = campaign
		form.Lead.CampaignID = models.StringPtr(campaign.ID)
	}

	campaigns, err := s.Campaigns(ctx, user)
	if err != nil {
		return nil, err
	}
	form.Campaigns = campaigns
	return form, nil
}

// Edit prepares the edit form of a visible lead
func (s *LeadService) Edit(ctx context.Context, user *models.UserSession, id string) (*LeadForm, error) {
	lead, err := s.Find(ctx, user, id)
	if err != nil {
		return nil, err
	}
	campaigns, err := s.Campaigns(ctx, user)
	if err != nil {
		return nil, err
	}
	return &LeadForm{Lead: lead, Campaigns: campaigns}, nil
}

// Create validates and stores a new lead owned by user. On validation
// failure the unsaved lead is returned with a RecordInvalidError.
func (s *LeadService) Create(ctx context.Context, user *models.UserSession, input CreateLeadInput) (*models.Lead, error) {
	lead := &models.Lead{
		ID:     utils.GenerateID(),
		UserID: user.ID,
		Access: s.settings.DefaultAccess,
		Status: constants.LeadStatusNew,
	}
	lead.Assign(input.Attributes)
	if lead.Status == "" {
		lead.Status = constants.LeadStatusNew
	}
	if input.CampaignID != "" {
		lead.CampaignID = models.StringPtr(input.CampaignID)
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.resolveAccess(ctx, lead, tx); err != nil {
			return err
		}
		if err := s.validateLead(ctx, lead, tx); err != nil {
			return err
		}

		if err := s.repos.Leads.Insert(ctx, lead, tx); err != nil {
			return err
		}
		if err := s.savePermissions(ctx, constants.AssetLead, lead.ID, lead.Access, lead.UserIDs, tx); err != nil {
			return err
		}
		if err := s.repos.Campaigns.AdjustLeadsCount(ctx, models.StringValue(lead.CampaignID), 1, tx); err != nil {
			return err
		}
		if body := strings.TrimSpace(input.CommentBody); body != "" {
			comment := &models.Comment{
				ID:              utils.GenerateID(),
				UserID:          user.ID,
				CommentableID:   lead.ID,
				CommentableType: constants.AssetLead,
				Comment:         body,
			}
			if err := s.repos.Comments.Insert(ctx, comment, tx); err != nil {
				return err
			}
		}
		return s.repos.Versions.Record(ctx, constants.AssetLead, lead.ID, constants.EventCreate, user.ID, tx)
	})
	if err != nil {
		return lead, err
	}

	s.logger.Info("lead created", zap.String("lead_id", lead.ID), zap.String("user_id", user.ID))
	return lead, nil
}

// Update applies the submitted attributes to a visible lead. Moving the
// lead between campaigns moves it between their counters.
func (s *LeadService) Update(ctx context.Context, user *models.UserSession, id string, attrs models.Attributes) (*models.Lead, error) {
	var lead *models.Lead
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if lead, err = s.find(ctx, user, id, tx); err != nil {
			return err
		}
		if lead == nil {
			return errors.NewNotFoundError(constants.AssetLead, id)
		}

		previousCampaign := lead.CampaignID
		lead.Assign(attrs)
		if err := s.resolveAccess(ctx, lead, tx); err != nil {
			return err
		}
		if err := s.validateLead(ctx, lead, tx); err != nil {
			return err
		}

		if err := s.repos.Leads.Update(ctx, lead, tx); err != nil {
			return err
		}
		if !models.SameString(previousCampaign, lead.CampaignID) {
			if err := s.repos.Campaigns.AdjustLeadsCount(ctx, models.StringValue(previousCampaign), -1, tx); err != nil {
				return err
			}
			if err := s.repos.Campaigns.AdjustLeadsCount(ctx, models.StringValue(lead.CampaignID), 1, tx); err != nil {
				return err
			}
		}
		if err := s.savePermissions(ctx, constants.AssetLead, lead.ID, lead.Access, lead.UserIDs, tx); err != nil {
			return err
		}
		return s.repos.Versions.Record(ctx, constants.AssetLead, lead.ID, constants.EventUpdate, user.ID, tx)
	})
	if err != nil {
		return lead, err
	}
	return lead, nil
}

// Destroy removes a visible lead with its grants, comments and history.
// Attached tasks survive, detached.
func (s *LeadService) Destroy(ctx context.Context, user *models.UserSession, id string) (*models.Lead, error) {
	var lead *models.Lead
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if lead, err = s.find(ctx, user, id, tx); err != nil {
			return err
		}
		if lead == nil {
			return errors.NewNotFoundError(constants.AssetLead, id)
		}

		if err := s.repos.Permissions.DeleteForAsset(ctx, constants.AssetLead, lead.ID, tx); err != nil {
			return err
		}
		if err := s.repos.Comments.DeleteFor(ctx, constants.AssetLead, lead.ID, tx); err != nil {
			return err
		}
		if err := s.repos.Tasks.DetachAll(ctx, constants.AssetLead, lead.ID, tx); err != nil {
			return err
		}
		if err := s.repos.Versions.DeleteFor(ctx, constants.AssetLead, lead.ID, nil, tx); err != nil {
			return err
		}
		if err := s.repos.Leads.Delete(ctx, lead.ID, tx); err != nil {
			return err
		}
		if err := s.repos.Campaigns.AdjustLeadsCount(ctx, models.StringValue(lead.CampaignID), -1, tx); err != nil {
			return err
		}
		return s.repos.Versions.Record(ctx, constants.AssetLead, lead.ID, constants.EventDestroy, user.ID, tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("lead destroyed", zap.String("lead_id", lead.ID), zap.String("user_id", user.ID))
	return lead, nil
}

// Reject marks a visible lead as rejected
func (s *LeadService) Reject(ctx context.Context, user *models.UserSession, id string) (*models.Lead, error) {
	var lead *models.Lead
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if lead, err = s.find(ctx, user, id, tx); err != nil {
			return err
		}
		if lead == nil {
			return errors.NewNotFoundError(constants.AssetLead, id)
		}
		if err := s.repos.Leads.UpdateStatus(ctx, lead.ID, constants.LeadStatusRejected, tx); err != nil {
			return err
		}
		if err := s.repos.Versions.Record(ctx, constants.AssetLead, lead.ID, constants.EventUpdate, user.ID, tx); err != nil {
			return err
		}
		lead, err = s.find(ctx, user, id, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return lead, nil
}

// CampaignOf loads the campaign a lead belongs to, nil when it has none
func (s *LeadService) CampaignOf(ctx context.Context, lead *models.Lead) (*models.Campaign, error) {
	if lead == nil || lead.CampaignID == nil {
		return nil, nil
	}
	return s.repos.Campaigns.FindByID(ctx, *lead.CampaignID, nil)
}

// inTx runs fn in a transaction, retrying deadlocks
func (s *LeadService) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return s.txMgr.WithRetry(ctx, fn, maxTxRetries)
}

// resolveAccess expands the Campaign access directive into the campaign's
// own access and grants.
func (s *LeadService) resolveAccess(ctx context.Context, lead *models.Lead, tx *sql.Tx) error {
	if lead.Access != constants.AccessCampaign {
		return nil
	}
	if lead.CampaignID == nil {
		lead.Access = s.settings.DefaultAccess
		return nil
	}

	campaign, err := s.repos.Campaigns.FindByID(ctx, *lead.CampaignID, tx)
	if err != nil {
		return err
	}
	if campaign == nil {
		lead.Access = s.settings.DefaultAccess
		return nil
	}

	lead.Access = campaign.Access
	lead.UserIDs = nil
	if campaign.Access == constants.AccessShared {
		if lead.UserIDs, err = s.repos.Permissions.UserIDs(ctx, constants.AssetCampaign, campaign.ID, tx); err != nil {
			return err
		}
	}
	return nil
}

// validateLead runs the record checks and verifies references
func (s *LeadService) validateLead(ctx context.Context, lead *models.Lead, tx *sql.Tx) error {
	errs, err := s.validation.ValidateLead(lead)
	if err != nil {
		return errors.NewInternalError("failed to validate lead", err)
	}

	if lead.CampaignID != nil {
		campaign, err := s.repos.Campaigns.FindByID(ctx, *lead.CampaignID, tx)
		if err != nil {
			return err
		}
		if campaign == nil {
			errs.Add("campaign_id", msgInvalid)
		}
	}
	if err := s.checkUsers(ctx, errs, lead.Access, lead.UserIDs, tx); err != nil {
		return err
	}

	if !errs.Empty() {
		return errors.NewRecordInvalidError(constants.AssetLead, errs)
	}
	return nil
}

// checkUsers rejects grants to unknown users
func (s *LeadService) checkUsers(ctx context.Context, errs errors.FieldErrors, access string, userIDs []string, tx *sql.Tx) error {
	if access != constants.AccessShared || len(userIDs) == 0 {
		return nil
	}
	existing, err := s.repos.Users.ExistingIDs(ctx, userIDs, tx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}
	for _, id := range userIDs {
		if !known[id] {
			errs.Add("user_ids", fmt.Sprintf("contains unknown user %s", id))
		}
	}
	return nil
}

// savePermissions keeps the grants of an asset in step with its access
func (s *LeadService) savePermissions(ctx context.Context, assetType, assetID, access string, userIDs []string, tx *sql.Tx) error {
	if access == constants.AccessShared {
		return s.repos.Permissions.Replace(ctx, assetType, assetID, userIDs, tx)
	}
	return s.repos.Permissions.DeleteForAsset(ctx, assetType, assetID, tx)
}
