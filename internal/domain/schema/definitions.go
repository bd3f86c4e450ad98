package schema

// Column types. The DDL builder maps them onto each SQL dialect.
const (
	TypeID       = "id"
	TypeString   = "string"
	TypeText     = "text"
	TypeInt      = "int"
	TypeBool     = "bool"
	TypeDecimal  = "decimal"
	TypeDate     = "date"
	TypeDateTime = "datetime"
)

// ColumnDefinition represents a single column in a table
type ColumnDefinition struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Size       int    `json:"size,omitempty"`
	PrimaryKey bool   `json:"primary_key,omitempty"`
	Unique     bool   `json:"unique,omitempty"`
	Nullable   bool   `json:"nullable,omitempty"`
	Default    string `json:"default,omitempty"`
}

// IndexDefinition represents an index on a table
type IndexDefinition struct {
	Name    string   `json:"name,omitempty"`
	Columns []string `json:"columns"`
	Unique  bool     `json:"unique,omitempty"`
}

// ForeignKeyDefinition represents a foreign key constraint
type ForeignKeyDefinition struct {
	Column     string `json:"column"`
	References string `json:"references"` // format: "tableName(columnName)"
	OnDelete   string `json:"on_delete,omitempty"`
}

// TableDefinition represents a complete table schema
type TableDefinition struct {
	TableName   string                 `json:"table_name"`
	Description string                 `json:"description"`
	Columns     []ColumnDefinition     `json:"columns"`
	Indices     []IndexDefinition      `json:"indices,omitempty"`
	ForeignKeys []ForeignKeyDefinition `json:"foreign_keys,omitempty"`
}

// PrimaryKeys returns the primary key column names in declaration order
func (t TableDefinition) PrimaryKeys() []string {
	var keys []string
	for _, c := range t.Columns {
		if c.PrimaryKey {
			keys = append(keys, c.Name)
		}
	}
	return keys
}

// Column helpers keep table declarations short.

func ID(name string) ColumnDefinition {
	return ColumnDefinition{Name: name, Type: TypeID, PrimaryKey: true}
}

func Ref(name string, nullable bool) ColumnDefinition {
	return ColumnDefinition{Name: name, Type: TypeID, Nullable: nullable}
}

func String(name string, size int) ColumnDefinition {
	return ColumnDefinition{Name: name, Type: TypeString, Size: size, Default: "''"}
}

func Text(name string) ColumnDefinition {
	return ColumnDefinition{Name: name, Type: TypeText, Nullable: true}
}

func Int(name string) ColumnDefinition {
	return ColumnDefinition{Name: name, Type: TypeInt, Default: "0"}
}

func Bool(name string) ColumnDefinition {
	return ColumnDefinition{Name: name, Type: TypeBool, Default: "0"}
}

func Decimal(name string) ColumnDefinition {
	return ColumnDefinition{Name: name, Type: TypeDecimal, Default: "0"}
}

func Date(name string) ColumnDefinition {
	return ColumnDefinition{Name: name, Type: TypeDate, Nullable: true}
}

func DateTime(name string, nullable bool) ColumnDefinition {
	return ColumnDefinition{Name: name, Type: TypeDateTime, Nullable: nullable}
}

// Timestamps returns created_at and updated_at
func Timestamps() []ColumnDefinition {
	return []ColumnDefinition{DateTime("created_at", false), DateTime("updated_at", false)}
}
