package services

import (
	"fmt"
	"slices"

	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/internal/infrastructure/persistence"
	"github.com/Lumbe/lcrm-app/pkg/constants"
)

// AccessService decides which assets a user may see.
//
// A user sees an asset when they are an admin, the asset is Public, they
// own it or it is assigned to them, or it is Shared with them through a
// permission row. Anything else is reported as missing.
type AccessService struct{}

// NewAccessService creates a new AccessService
func NewAccessService() *AccessService {
	return &AccessService{}
}

// Scope returns the visibility predicate of table for user
func (s *AccessService) Scope(user *models.UserSession, table, assetType string) persistence.Scope {
	if user == nil {
		return persistence.Scope{Clause: "1=0"}
	}
	if user.Admin {
		return persistence.Unrestricted
	}

	clause := fmt.Sprintf(
		"(%[1]s.access = ? OR %[1]s.user_id = ? OR %[1]s.assigned_to = ? OR "+
			"(%[1]s.access = ? AND EXISTS (SELECT 1 FROM %[2]s p WHERE p.asset_type = ? AND p.asset_id = %[1]s.id AND p.user_id = ?)))",
		table, constants.TablePermissions)

	return persistence.Scope{
		Clause: clause,
		Args: []interface{}{
			constants.AccessPublic, user.ID, user.ID,
			constants.AccessShared, assetType, user.ID,
		},
	}
}

// LeadScope is the visibility predicate over leads
func (s *AccessService) LeadScope(user *models.UserSession) persistence.Scope {
	return s.Scope(user, constants.TableLeads, constants.AssetLead)
}

// CampaignScope is the visibility predicate over campaigns
func (s *AccessService) CampaignScope(user *models.UserSession) persistence.Scope {
	return s.Scope(user, constants.TableCampaigns, constants.AssetCampaign)
}

// AccountScope is the visibility predicate over accounts
func (s *AccessService) AccountScope(user *models.UserSession) persistence.Scope {
	return s.Scope(user, constants.TableAccounts, constants.AssetAccount)
}

// TaskScope is the visibility predicate over tasks. Tasks carry no access
// level, so only their owner, their assignee and admins see them.
func (s *AccessService) TaskScope(user *models.UserSession) persistence.Scope {
	if user == nil {
		return persistence.Scope{Clause: "1=0"}
	}
	if user.Admin {
		return persistence.Unrestricted
	}
	return persistence.Scope{
		Clause: fmt.Sprintf("(%[1]s.user_id = ? OR %[1]s.assigned_to = ?)", constants.TableTasks),
		Args:   []interface{}{user.ID, user.ID},
	}
}

// IsStoredAccess reports whether access may be persisted as is
func IsStoredAccess(access string) bool {
	return slices.Contains(constants.StoredAccessLevels, access)
}
