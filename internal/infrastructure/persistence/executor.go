package persistence

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Executor is satisfied by both *sql.DB and *sql.Tx. Repository methods take
// one so that callers can enlist them in a transaction; nil means the pool.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Scannable is satisfied by *sql.Row and *sql.Rows
type Scannable interface {
	Scan(dest ...interface{}) error
}

// Scope is a visibility predicate over a table alias, with its arguments
type Scope struct {
	Clause string
	Args   []interface{}
}

// Unrestricted matches every row
var Unrestricted = Scope{Clause: "1=1"}

// And combines the scope with an extra predicate
func (s Scope) And(clause string, args ...interface{}) Scope {
	return Scope{
		Clause: fmt.Sprintf("(%s) AND (%s)", s.Clause, clause),
		Args:   append(append([]interface{}{}, s.Args...), args...),
	}
}

func pick(db *sql.DB, exec Executor) Executor {
	if exec != nil {
		return exec
	}
	return db
}

// now is the write timestamp. Times are stored in UTC.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// likePattern builds a case-insensitive substring pattern
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}

func stringArgs(values []string) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

// nullTime scans DATETIME values from either driver. The MySQL driver
// yields time.Time with parseTime, SQLite may yield text.
type nullTime struct {
	Time  time.Time
	Valid bool
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02",
}

func (nt *nullTime) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		nt.Time, nt.Valid = time.Time{}, false
		return nil
	case time.Time:
		nt.Time, nt.Valid = v.UTC(), true
		return nil
	case []byte:
		return nt.parse(string(v))
	case string:
		return nt.parse(v)
	}
	return fmt.Errorf("cannot scan %T into time", value)
}

func (nt *nullTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			nt.Time, nt.Valid = t.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("unrecognized time format %q", s)
}

// Value lets nullTime be used as a query argument too
func (nt nullTime) Value() (driver.Value, error) {
	if !nt.Valid {
		return nil, nil
	}
	return nt.Time, nil
}

func (nt nullTime) Ptr() *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func timeArg(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}
