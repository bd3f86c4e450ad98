package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/Lumbe/lcrm-app/internal/domain/schema"
	"github.com/Lumbe/lcrm-app/internal/infrastructure/database"
)

var validTableName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// SchemaRepository creates and drops physical tables
type SchemaRepository struct {
	db      *sql.DB
	dialect database.Dialect
	logger  *zap.Logger
}

// NewSchemaRepository creates a new SchemaRepository
func NewSchemaRepository(conn *database.Connection, logger *zap.Logger) *SchemaRepository {
	return &SchemaRepository{db: conn.DB(), dialect: conn.Dialect(), logger: logger}
}

// CreateTable creates the table and its indexes if they do not exist yet
func (r *SchemaRepository) CreateTable(ctx context.Context, def schema.TableDefinition) error {
	stmts, err := r.BuildDDL(def)
	if err != nil {
		return err
	}

	for _, stmt := range stmts {
		r.logger.Debug("executing DDL", zap.String("table", def.TableName), zap.String("sql", stmt))
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table %s: %w", def.TableName, err)
		}
	}
	return nil
}

// BuildDDL renders the CREATE statements of a table for the dialect
func (r *SchemaRepository) BuildDDL(def schema.TableDefinition) ([]string, error) {
	if !validTableName.MatchString(def.TableName) {
		return nil, fmt.Errorf("table name '%s' must be snake_case (lowercase, alphanumeric, underscores)", def.TableName)
	}
	if len(def.Columns) == 0 {
		return nil, fmt.Errorf("table %s has no columns", def.TableName)
	}

	var lines []string
	for _, col := range def.Columns {
		colDDL, err := r.buildColumnDDL(col)
		if err != nil {
			return nil, fmt.Errorf("invalid column definition for '%s': %w", col.Name, err)
		}
		lines = append(lines, colDDL)
	}

	if keys := def.PrimaryKeys(); len(keys) > 0 {
		lines = append(lines, fmt.Sprintf("PRIMARY KEY (%s)", r.quoteList(keys)))
	}

	if r.dialect == database.DialectMySQL {
		for _, idx := range def.Indices {
			kind := "KEY"
			if idx.Unique {
				kind = "UNIQUE KEY"
			}
			lines = append(lines, fmt.Sprintf("%s %s (%s)", kind, r.dialect.Quote(indexName(def.TableName, idx)), r.quoteList(idx.Columns)))
		}
	}

	for _, fk := range def.ForeignKeys {
		line := fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s", r.dialect.Quote(fk.Column), fk.References)
		if fk.OnDelete != "" {
			line += " ON DELETE " + fk.OnDelete
		}
		lines = append(lines, line)
	}

	var ddl strings.Builder
	ddl.WriteString(fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  ", r.dialect.Quote(def.TableName)))
	ddl.WriteString(strings.Join(lines, ",\n  "))
	ddl.WriteString("\n)")
	if r.dialect == database.DialectMySQL {
		ddl.WriteString(" ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci")
	}

	stmts := []string{ddl.String()}
	if r.dialect == database.DialectSQLite {
		for _, idx := range def.Indices {
			unique := ""
			if idx.Unique {
				unique = "UNIQUE "
			}
			stmts = append(stmts, fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)",
				unique, r.dialect.Quote(indexName(def.TableName, idx)), r.dialect.Quote(def.TableName), r.quoteList(idx.Columns)))
		}
	}
	return stmts, nil
}

func (r *SchemaRepository) buildColumnDDL(col schema.ColumnDefinition) (string, error) {
	sqlType, err := r.sqlType(col)
	if err != nil {
		return "", err
	}

	parts := []string{r.dialect.Quote(col.Name), sqlType}
	if col.Nullable && !col.PrimaryKey {
		parts = append(parts, "NULL")
	} else {
		parts = append(parts, "NOT NULL")
	}
	if col.Default != "" {
		parts = append(parts, "DEFAULT "+col.Default)
	}
	if col.Unique && !col.PrimaryKey {
		parts = append(parts, "UNIQUE")
	}
	return strings.Join(parts, " "), nil
}

func (r *SchemaRepository) sqlType(col schema.ColumnDefinition) (string, error) {
	sqlite := r.dialect == database.DialectSQLite
	switch col.Type {
	case schema.TypeID:
		if sqlite {
			return "TEXT", nil
		}
		return "VARCHAR(36)", nil
	case schema.TypeString:
		if sqlite {
			return "TEXT", nil
		}
		size := col.Size
		if size <= 0 {
			size = 255
		}
		return fmt.Sprintf("VARCHAR(%d)", size), nil
	case schema.TypeText:
		return "TEXT", nil
	case schema.TypeInt:
		if sqlite {
			return "INTEGER", nil
		}
		return "INT", nil
	case schema.TypeBool:
		if sqlite {
			return "BOOLEAN", nil
		}
		return "TINYINT(1)", nil
	case schema.TypeDecimal:
		if sqlite {
			return "REAL", nil
		}
		return "DECIMAL(18,2)", nil
	case schema.TypeDate:
		return "DATE", nil
	case schema.TypeDateTime:
		if sqlite {
			return "DATETIME", nil
		}
		return "DATETIME(6)", nil
	}
	return "", fmt.Errorf("unknown column type %q", col.Type)
}

func (r *SchemaRepository) quoteList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = r.dialect.Quote(c)
	}
	return strings.Join(quoted, ", ")
}

func indexName(table string, idx schema.IndexDefinition) string {
	if idx.Name != "" {
		return idx.Name
	}
	return fmt.Sprintf("idx_%s_%s", table, strings.Join(idx.Columns, "_"))
}

// DropTable drops a table if it exists
func (r *SchemaRepository) DropTable(ctx context.Context, tableName string) error {
	r.logger.Info("dropping table", zap.String("table", tableName))
	if _, err := r.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", r.dialect.Quote(tableName))); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}

// DisableForeignKeys turns off FK enforcement for bulk drops
func (r *SchemaRepository) DisableForeignKeys(ctx context.Context) error {
	stmt := "SET FOREIGN_KEY_CHECKS=0"
	if r.dialect == database.DialectSQLite {
		stmt = "PRAGMA foreign_keys = OFF"
	}
	_, err := r.db.ExecContext(ctx, stmt)
	return err
}
