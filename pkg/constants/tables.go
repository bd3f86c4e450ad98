package constants

// Table names used throughout the persistence layer.
const (
	TableUsers                = "users"
	TablePreferences          = "preferences"
	TableSessions             = "sessions"
	TableSessionValues        = "session_values"
	TableCampaigns            = "campaigns"
	TableLeads                = "leads"
	TableAccounts             = "accounts"
	TableOpportunities        = "opportunities"
	TableContacts             = "contacts"
	TableContactOpportunities = "contact_opportunities"
	TablePermissions          = "permissions"
	TableComments             = "comments"
	TableTasks                = "tasks"
	TableVersions             = "versions"
)

// AllTables lists every table owned by the service, parents first.
func AllTables() []string {
	return []string{
		TableUsers,
		TablePreferences,
		TableSessions,
		TableSessionValues,
		TableCampaigns,
		TableLeads,
		TableAccounts,
		TableOpportunities,
		TableContacts,
		TableContactOpportunities,
		TablePermissions,
		TableComments,
		TableTasks,
		TableVersions,
	}
}
