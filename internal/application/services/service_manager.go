package services

import (
	"go.uber.org/zap"

	"github.com/Lumbe/lcrm-app/internal/config"
	"github.com/Lumbe/lcrm-app/internal/infrastructure/database"
	"github.com/Lumbe/lcrm-app/internal/infrastructure/persistence"
	"github.com/Lumbe/lcrm-app/pkg/auth"
	"github.com/Lumbe/lcrm-app/pkg/expression"
)

// ServiceManager orchestrates all services with dependency injection
type ServiceManager struct {
	conn *database.Connection

	Repos       *Repositories
	TxManager   *persistence.TransactionManager
	Access      *AccessService
	Validation  *ValidationService
	Preferences *PreferenceService
	Sessions    *SessionService
	Leads       *LeadService
	Campaigns   *CampaignService
	Auth        *AuthService
	Scheduler   *SchedulerService
	Settings    *config.Settings
	Logger      *zap.Logger
}

// NewServiceManager creates a new service manager with all dependencies wired
func NewServiceManager(conn *database.Connection, cfg *config.Config, tokens *auth.TokenManager, logger *zap.Logger) *ServiceManager {
	sm := &ServiceManager{
		conn:     conn,
		Settings: cfg.Settings,
		Logger:   logger,
	}

	// Initialize services in dependency order
	sm.Repos = NewRepositories(conn)
	sm.TxManager = persistence.NewTransactionManager(conn)
	sm.Access = NewAccessService()
	sm.Validation = NewValidationService(expression.NewEngine(), cfg.Settings)
	sm.Preferences = NewPreferenceService(sm.Repos.Preferences, sm.TxManager, cfg.Settings, logger)
	sm.Sessions = NewSessionService(sm.Repos.Sessions)

	sm.Leads = NewLeadService(sm.Repos, sm.TxManager, sm.Access, sm.Validation, sm.Preferences, cfg.Settings, logger)
	sm.Campaigns = NewCampaignService(sm.Repos, sm.TxManager, sm.Access, sm.Validation, cfg.Settings, logger)

	sm.Auth = NewAuthService(sm.Repos.Users, sm.Repos.Sessions, tokens, logger)
	sm.Scheduler = NewSchedulerService(sm.Repos.Sessions, cfg.SessionCleanupSchedule, logger)

	return sm
}

// Connection returns the database connection the services share
func (sm *ServiceManager) Connection() *database.Connection {
	return sm.conn
}
