package persistence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Lumbe/lcrm-app/internal/domain/schema"
	"github.com/Lumbe/lcrm-app/internal/infrastructure/database"
)

var prefsTable = schema.TableDefinition{
	TableName: "preferences",
	Columns: []schema.ColumnDefinition{
		{Name: "user_id", Type: schema.TypeID, PrimaryKey: true},
		{Name: "name", Type: schema.TypeString, Size: 64, PrimaryKey: true},
		schema.Text("value"),
		schema.DateTime("updated_at", false),
	},
	Indices:     []schema.IndexDefinition{{Columns: []string{"name"}}},
	ForeignKeys: []schema.ForeignKeyDefinition{{Column: "user_id", References: "users(id)", OnDelete: "CASCADE"}},
}

func TestBuildDDL_MySQL(t *testing.T) {
	repo := NewSchemaRepository(database.NewConnection(nil, database.DialectMySQL), zap.NewNop())
	stmts, err := repo.BuildDDL(prefsTable)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	ddl := stmts[0]
	assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS `preferences`")
	assert.Contains(t, ddl, "`name` VARCHAR(64) NOT NULL")
	assert.Contains(t, ddl, "`value` TEXT NULL")
	assert.Contains(t, ddl, "`updated_at` DATETIME(6) NOT NULL")
	assert.Contains(t, ddl, "PRIMARY KEY (`user_id`, `name`)")
	assert.Contains(t, ddl, "KEY `idx_preferences_name` (`name`)")
	assert.Contains(t, ddl, "FOREIGN KEY (`user_id`) REFERENCES users(id) ON DELETE CASCADE")
	assert.True(t, strings.HasSuffix(ddl, "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci"))
}

func TestBuildDDL_SQLite(t *testing.T) {
	repo := NewSchemaRepository(database.NewConnection(nil, database.DialectSQLite), zap.NewNop())
	stmts, err := repo.BuildDDL(prefsTable)
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	assert.Contains(t, stmts[0], `"name" TEXT NOT NULL`)
	assert.NotContains(t, stmts[0], "ENGINE")
	assert.Equal(t, `CREATE INDEX IF NOT EXISTS "idx_preferences_name" ON "preferences" ("name")`, stmts[1])
}

func TestBuildDDL_RejectsBadNames(t *testing.T) {
	repo := NewSchemaRepository(database.NewConnection(nil, database.DialectSQLite), zap.NewNop())
	_, err := repo.BuildDDL(schema.TableDefinition{TableName: "Leads", Columns: []schema.ColumnDefinition{schema.ID("id")}})
	assert.Error(t, err)

	_, err = repo.BuildDDL(schema.TableDefinition{TableName: "x", Columns: []schema.ColumnDefinition{{Name: "a", Type: "blob"}}})
	assert.Error(t, err)
}
