package constants

// Access levels. Campaign and Lead are directives that copy access from a
// related asset; only Public, Private and Shared are ever stored.
const (
	AccessPublic   = "Public"
	AccessPrivate  = "Private"
	AccessShared   = "Shared"
	AccessCampaign = "Campaign"
	AccessLead     = "Lead"
)

// StoredAccessLevels are the access values a persisted asset may carry.
var StoredAccessLevels = []string{AccessPublic, AccessPrivate, AccessShared}

// Asset types as recorded in polymorphic columns.
const (
	AssetLead        = "Lead"
	AssetAccount     = "Account"
	AssetOpportunity = "Opportunity"
	AssetContact     = "Contact"
	AssetCampaign    = "Campaign"
	AssetTask        = "Task"
)

// Lead statuses shipped in the default settings.
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusConverted = "converted"
	LeadStatusRejected  = "rejected"
)

// Pseudo statuses used by the sidebar totals and the status filter.
const (
	StatusAll   = "all"
	StatusOther = "other"
)

const OpportunityStageProspecting = "prospecting"

// Version events
const (
	EventCreate  = "create"
	EventUpdate  = "update"
	EventDestroy = "destroy"
	EventView    = "view"
)

// Name ordering for person records.
const (
	NamingBefore = "before"
	NamingAfter  = "after"
)

// Index views
const (
	ViewBrief = "brief"
	ViewLong  = "long"
)

// Paths used for redirects and landing page detection.
const (
	PathLeads     = "/leads"
	PathCampaigns = "/campaigns"
	PathLogin     = "/login"
)

// Defaults
const (
	DefaultPerPage       = 20
	DefaultLeadsSortBy   = "leads.created_at DESC"
	AutoCompleteLimit    = 10
	SessionTokenTTLHours = 24
)
