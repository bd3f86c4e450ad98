package services

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/Lumbe/lcrm-app/internal/config"
	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/internal/infrastructure/persistence"
	"github.com/Lumbe/lcrm-app/pkg/constants"
	"github.com/Lumbe/lcrm-app/pkg/errors"
	"github.com/Lumbe/lcrm-app/pkg/utils"
)

// CampaignService serves the campaign pages the leads area links to
type CampaignService struct {
	repos      *Repositories
	txMgr      *persistence.TransactionManager
	access     *AccessService
	validation *ValidationService
	settings   *config.Settings
	logger     *zap.Logger
}

// NewCampaignService creates a new CampaignService
func NewCampaignService(repos *Repositories, txMgr *persistence.TransactionManager, access *AccessService, validation *ValidationService, settings *config.Settings, logger *zap.Logger) *CampaignService {
	return &CampaignService{
		repos:      repos,
		txMgr:      txMgr,
		access:     access,
		validation: validation,
		settings:   settings,
		logger:     logger,
	}
}

// List returns the campaigns visible to user
func (s *CampaignService) List(ctx context.Context, user *models.UserSession) ([]*models.Campaign, error) {
	return s.repos.Campaigns.List(ctx, s.access.CampaignScope(user))
}

// Find returns a visible campaign or a NotFoundError
func (s *CampaignService) Find(ctx context.Context, user *models.UserSession, id string) (*models.Campaign, error) {
	campaign, err := s.repos.Campaigns.FindVisible(ctx, s.access.CampaignScope(user), id, nil)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, errors.NewNotFoundError(constants.AssetCampaign, id)
	}
	if campaign.UserIDs, err = s.repos.Permissions.UserIDs(ctx, constants.AssetCampaign, campaign.ID, nil); err != nil {
		return nil, err
	}
	return campaign, nil
}

// Leads returns the leads of a campaign visible to user
func (s *CampaignService) Leads(ctx context.Context, user *models.UserSession, campaignID string) ([]*models.Lead, error) {
	scope := s.access.LeadScope(user).And(constants.TableLeads+".campaign_id = ?", campaignID)
	return s.repos.Leads.List(ctx, persistence.LeadQuery{Scope: scope})
}

// Create stores a new campaign owned by user
func (s *CampaignService) Create(ctx context.Context, user *models.UserSession, attrs models.Attributes) (*models.Campaign, error) {
	campaign := &models.Campaign{
		ID:     utils.GenerateID(),
		UserID: user.ID,
		Access: s.settings.DefaultAccess,
	}
	campaign.Assign(attrs)
	if campaign.Status == "" && len(s.settings.CampaignStatus) > 0 {
		campaign.Status = s.settings.CampaignStatus[0]
	}

	errs, err := s.validation.ValidateCampaign(campaign)
	if err != nil {
		return campaign, errors.NewInternalError("failed to validate campaign", err)
	}
	if !errs.Empty() {
		return campaign, errors.NewRecordInvalidError(constants.AssetCampaign, errs)
	}

	err = s.txMgr.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := s.repos.Campaigns.Insert(ctx, campaign, tx); err != nil {
			return err
		}
		if campaign.Access == constants.AccessShared {
			if err := s.repos.Permissions.Replace(ctx, constants.AssetCampaign, campaign.ID, campaign.UserIDs, tx); err != nil {
				return err
			}
		}
		return s.repos.Versions.Record(ctx, constants.AssetCampaign, campaign.ID, constants.EventCreate, user.ID, tx)
	})
	if err != nil {
		return campaign, err
	}

	s.logger.Info("campaign created", zap.String("campaign_id", campaign.ID), zap.String("user_id", user.ID))
	return campaign, nil
}
