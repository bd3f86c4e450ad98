package database

import (
	"fmt"
	"strings"
)

// Quote quotes an identifier for the dialect
func (d Dialect) Quote(ident string) string {
	if d == DialectSQLite {
		return `"` + ident + `"`
	}
	return "`" + ident + "`"
}

// UpsertSQL builds an insert that overwrites updateCols when a row with the
// same keyCols already exists.
func (d Dialect) UpsertSQL(table string, keyCols, updateCols []string) string {
	cols := append(append([]string{}, keyCols...), updateCols...)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), placeholders)

	sets := make([]string, len(updateCols))
	if d == DialectSQLite {
		for i, c := range updateCols {
			sets[i] = fmt.Sprintf("%s = excluded.%s", c, c)
		}
		return fmt.Sprintf("%s ON CONFLICT(%s) DO UPDATE SET %s", insert, strings.Join(keyCols, ", "), strings.Join(sets, ", "))
	}

	for i, c := range updateCols {
		sets[i] = fmt.Sprintf("%s = VALUES(%s)", c, c)
	}
	return fmt.Sprintf("%s ON DUPLICATE KEY UPDATE %s", insert, strings.Join(sets, ", "))
}

// CaseInsensitiveLike returns a predicate matching column against a
// lowercase LIKE pattern bound to the next placeholder. Patterns escape
// wildcards with a backslash.
func (d Dialect) CaseInsensitiveLike(column string) string {
	if d == DialectSQLite {
		return fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, column)
	}
	return fmt.Sprintf("LOWER(%s) LIKE ?", column)
}
