package bootstrap

import (
	"github.com/Lumbe/lcrm-app/internal/domain/schema"
	"github.com/Lumbe/lcrm-app/pkg/constants"
)

func withTimestamps(cols ...schema.ColumnDefinition) []schema.ColumnDefinition {
	return append(cols, schema.Timestamps()...)
}

// GetTableDefinitions returns every table of the service in creation order
func GetTableDefinitions() []schema.TableDefinition {
	return []schema.TableDefinition{
		{
			TableName:   constants.TableUsers,
			Description: "CRM users",
			Columns: withTimestamps(
				schema.ID("id"),
				schema.String("username", 64),
				schema.ColumnDefinition{Name: "email", Type: schema.TypeString, Size: 254, Unique: true},
				schema.String("password_hash", 255),
				schema.String("first_name", 64),
				schema.String("last_name", 64),
				schema.Bool("admin"),
			),
		},
		{
			TableName:   constants.TablePreferences,
			Description: "Per-user UI preferences",
			Columns: []schema.ColumnDefinition{
				{Name: "user_id", Type: schema.TypeID, PrimaryKey: true},
				{Name: "name", Type: schema.TypeString, Size: 64, PrimaryKey: true},
				schema.String("value", 255),
				schema.DateTime("updated_at", false),
			},
			ForeignKeys: []schema.ForeignKeyDefinition{
				{Column: "user_id", References: constants.TableUsers + "(id)", OnDelete: "CASCADE"},
			},
		},
		{
			TableName:   constants.TableSessions,
			Description: "Issued authentication sessions",
			Columns: []schema.ColumnDefinition{
				schema.ID("id"),
				schema.Ref("user_id", false),
				schema.DateTime("expires_at", false),
				schema.Bool("revoked"),
				schema.DateTime("last_activity", false),
				schema.DateTime("created_at", false),
			},
			Indices: []schema.IndexDefinition{{Columns: []string{"expires_at"}}},
			ForeignKeys: []schema.ForeignKeyDefinition{
				{Column: "user_id", References: constants.TableUsers + "(id)", OnDelete: "CASCADE"},
			},
		},
		{
			TableName:   constants.TableSessionValues,
			Description: "UI state stored per session",
			Columns: []schema.ColumnDefinition{
				{Name: "session_id", Type: schema.TypeID, PrimaryKey: true},
				{Name: "name", Type: schema.TypeString, Size: 64, PrimaryKey: true},
				schema.String("value", 1024),
				schema.DateTime("updated_at", false),
			},
			ForeignKeys: []schema.ForeignKeyDefinition{
				{Column: "session_id", References: constants.TableSessions + "(id)", OnDelete: "CASCADE"},
			},
		},
		{
			TableName:   constants.TableCampaigns,
			Description: "Marketing campaigns",
			Columns: withTimestamps(
				schema.ID("id"),
				schema.Ref("user_id", false),
				schema.Ref("assigned_to", true),
				schema.String("name", 64),
				schema.String("access", 8),
				schema.String("status", 64),
				schema.Int("leads_count"),
				schema.Int("opportunities_count"),
			),
			Indices: []schema.IndexDefinition{{Columns: []string{"user_id"}}, {Columns: []string{"assigned_to"}}},
		},
		{
			TableName:   constants.TableLeads,
			Description: "Prospects",
			Columns: withTimestamps(
				schema.ID("id"),
				schema.Ref("user_id", false),
				schema.Ref("campaign_id", true),
				schema.Ref("assigned_to", true),
				schema.String("first_name", 64),
				schema.String("last_name", 64),
				schema.String("access", 8),
				schema.String("title", 64),
				schema.String("company", 64),
				schema.String("source", 32),
				schema.String("status", 32),
				schema.String("referred_by", 64),
				schema.String("email", 254),
				schema.String("alt_email", 254),
				schema.String("phone", 32),
				schema.String("mobile", 32),
				schema.String("blog", 128),
				schema.String("linkedin", 128),
				schema.String("facebook", 128),
				schema.String("twitter", 128),
				schema.Int("rating"),
				schema.Bool("do_not_call"),
				schema.Text("background_info"),
			),
			Indices: []schema.IndexDefinition{
				{Columns: []string{"user_id"}},
				{Columns: []string{"assigned_to"}},
				{Columns: []string{"campaign_id"}},
				{Columns: []string{"status"}},
			},
		},
		{
			TableName:   constants.TableAccounts,
			Description: "Companies",
			Columns: withTimestamps(
				schema.ID("id"),
				schema.Ref("user_id", false),
				schema.Ref("assigned_to", true),
				schema.String("name", 64),
				schema.String("access", 8),
				schema.String("website", 128),
				schema.String("phone", 32),
				schema.String("email", 254),
				schema.String("category", 32),
				schema.Int("rating"),
				schema.Text("background_info"),
			),
			Indices: []schema.IndexDefinition{{Columns: []string{"user_id"}}, {Columns: []string{"name"}}},
		},
		{
			TableName:   constants.TableOpportunities,
			Description: "Deals",
			Columns: withTimestamps(
				schema.ID("id"),
				schema.Ref("user_id", false),
				schema.Ref("campaign_id", true),
				schema.Ref("account_id", true),
				schema.Ref("assigned_to", true),
				schema.String("name", 64),
				schema.String("access", 8),
				schema.String("source", 32),
				schema.String("stage", 32),
				schema.Int("probability"),
				schema.Decimal("amount"),
				schema.Decimal("discount"),
				schema.Date("closes_on"),
				schema.Text("background_info"),
			),
			Indices: []schema.IndexDefinition{{Columns: []string{"account_id"}}, {Columns: []string{"campaign_id"}}},
		},
		{
			TableName:   constants.TableContacts,
			Description: "People at accounts",
			Columns: withTimestamps(
				schema.ID("id"),
				schema.Ref("user_id", false),
				schema.Ref("lead_id", true),
				schema.Ref("account_id", true),
				schema.Ref("assigned_to", true),
				schema.String("first_name", 64),
				schema.String("last_name", 64),
				schema.String("access", 8),
				schema.String("title", 64),
				schema.String("department", 64),
				schema.String("source", 32),
				schema.String("email", 254),
				schema.String("alt_email", 254),
				schema.String("phone", 32),
				schema.String("mobile", 32),
				schema.String("blog", 128),
				schema.String("linkedin", 128),
				schema.String("facebook", 128),
				schema.String("twitter", 128),
				schema.Bool("do_not_call"),
				schema.Text("background_info"),
			),
			Indices: []schema.IndexDefinition{{Columns: []string{"lead_id"}}, {Columns: []string{"account_id"}}},
		},
		{
			TableName:   constants.TableContactOpportunities,
			Description: "Contacts taking part in opportunities",
			Columns: []schema.ColumnDefinition{
				{Name: "contact_id", Type: schema.TypeID, PrimaryKey: true},
				{Name: "opportunity_id", Type: schema.TypeID, PrimaryKey: true},
				schema.DateTime("created_at", false),
			},
		},
		{
			TableName:   constants.TablePermissions,
			Description: "User grants on Shared assets",
			Columns: []schema.ColumnDefinition{
				schema.ID("id"),
				schema.Ref("user_id", false),
				schema.Ref("asset_id", false),
				schema.String("asset_type", 32),
				schema.DateTime("created_at", false),
			},
			Indices: []schema.IndexDefinition{
				{Columns: []string{"asset_type", "asset_id"}},
				{Columns: []string{"user_id", "asset_type", "asset_id"}, Unique: true},
			},
		},
		{
			TableName:   constants.TableComments,
			Description: "Notes on assets",
			Columns: []schema.ColumnDefinition{
				schema.ID("id"),
				schema.Ref("user_id", false),
				schema.Ref("commentable_id", false),
				schema.String("commentable_type", 32),
				schema.Text("comment"),
				schema.DateTime("created_at", false),
			},
			Indices: []schema.IndexDefinition{{Columns: []string{"commentable_type", "commentable_id"}}},
		},
		{
			TableName:   constants.TableTasks,
			Description: "To-do items",
			Columns: withTimestamps(
				schema.ID("id"),
				schema.Ref("user_id", false),
				schema.Ref("assigned_to", true),
				schema.Ref("asset_id", true),
				schema.ColumnDefinition{Name: "asset_type", Type: schema.TypeString, Size: 32, Nullable: true},
				schema.String("name", 255),
				schema.String("category", 32),
				schema.String("bucket", 32),
				schema.DateTime("due_at", true),
				schema.DateTime("completed_at", true),
			),
			Indices: []schema.IndexDefinition{{Columns: []string{"asset_type", "asset_id"}}},
		},
		{
			TableName:   constants.TableVersions,
			Description: "Audit trail",
			Columns: []schema.ColumnDefinition{
				schema.ID("id"),
				schema.String("item_type", 32),
				schema.Ref("item_id", false),
				schema.String("event", 16),
				schema.String("whodunnit", 36),
				schema.DateTime("created_at", false),
			},
			Indices: []schema.IndexDefinition{{Columns: []string{"item_type", "item_id"}}},
		},
	}
}
