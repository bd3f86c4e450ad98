package services

import (
	"github.com/Lumbe/lcrm-app/internal/infrastructure/database"
	"github.com/Lumbe/lcrm-app/internal/infrastructure/persistence"
)

// Repositories bundles the persistence layer handed to services
type Repositories struct {
	Users         *persistence.UserRepository
	Preferences   *persistence.PreferenceRepository
	Sessions      *persistence.SessionRepository
	Campaigns     *persistence.CampaignRepository
	Leads         *persistence.LeadRepository
	Accounts      *persistence.AccountRepository
	Opportunities *persistence.OpportunityRepository
	Contacts      *persistence.ContactRepository
	Permissions   *persistence.PermissionRepository
	Comments      *persistence.CommentRepository
	Tasks         *persistence.TaskRepository
	Versions      *persistence.VersionRepository
}

// NewRepositories creates every repository over one connection
func NewRepositories(conn *database.Connection) *Repositories {
	return &Repositories{
		Users:         persistence.NewUserRepository(conn),
		Preferences:   persistence.NewPreferenceRepository(conn),
		Sessions:      persistence.NewSessionRepository(conn),
		Campaigns:     persistence.NewCampaignRepository(conn),
		Leads:         persistence.NewLeadRepository(conn),
		Accounts:      persistence.NewAccountRepository(conn),
		Opportunities: persistence.NewOpportunityRepository(conn),
		Contacts:      persistence.NewContactRepository(conn),
		Permissions:   persistence.NewPermissionRepository(conn),
		Comments:      persistence.NewCommentRepository(conn),
		Tasks:         persistence.NewTaskRepository(conn),
		Versions:      persistence.NewVersionRepository(conn),
	}
}
