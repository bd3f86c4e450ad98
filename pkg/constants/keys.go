package constants

// Context Keys
const (
	ContextKeyUser    = "user"
	ContextKeyToken   = "token"
	ContextKeySession = "ui_session"
)

// HTTP headers, cookies and content types
const (
	HeaderAuthorization = "Authorization"
	HeaderRequestedWith = "X-Requested-With"
	HeaderAccept        = "Accept"
	HeaderReferer       = "Referer"
	HeaderXRequestID    = "X-Request-ID"
	XMLHttpRequest      = "XMLHttpRequest"
	BearerPrefix        = "Bearer "
	CookieAuthToken     = "auth_token"
	ContentTypeJSON     = "application/json"
	ContentTypeXML      = "application/xml"
	ContentTypeHTML     = "text/html; charset=utf-8"
	ContentTypeJS       = "text/javascript; charset=utf-8"
	ContentTypeCSV      = "text/csv; charset=utf-8"
	ResponseError       = "error"
	ResponseErrors      = "errors"
	FieldMessage        = "message"
	ParamFormat         = "format"
	ParamPage           = "page"
	ParamQuery          = "query"
	ParamPrevious       = "previous"
	ParamRelated        = "related"
	ParamCampaign       = "campaign"
	ParamCommentBody    = "comment_body"
	ParamAutoComplete   = "auto_complete_query"
	ParamTerm           = "term"
	ParamAssets         = "assets"
	ParamAssetID        = "asset_id"
	ParamAttachment     = "attachment"
	ParamAttachmentID   = "attachment_id"
	ParamPerPage        = "per_page"
	ParamView           = "view"
	ParamSortBy         = "sort_by"
	ParamNaming         = "naming"
	ParamStatus         = "status"
	ParamAccess         = "access"
	ParamUserIDs        = "user_ids"
	ParamLead           = "lead"
	ParamAccount        = "account"
	ParamOpportunity    = "opportunity"
)

// UI session keys. Leads controller state is namespaced by controller name.
const (
	SessionLeadsCurrentPage  = "leads_current_page"
	SessionLeadsCurrentQuery = "leads_current_query"
	SessionLeadsFilter       = "leads_filter"
	SessionAutoComplete      = "auto_complete"
	SessionFlashPrefix       = "flash."
)

// Flash kinds
const (
	FlashNotice  = "notice"
	FlashWarning = "warning"
)

// User preference keys
const (
	PrefLeadsPerPage   = "leads_per_page"
	PrefLeadsIndexView = "leads_index_view"
	PrefLeadsSortBy    = "leads_sort_by"
	PrefLeadsNaming    = "leads_naming"
	PrefContactsSortBy = "contacts_sort_by"
	PrefContactsNaming = "contacts_naming"
)
