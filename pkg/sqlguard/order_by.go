// Package sqlguard validates user-controlled SQL fragments before they are
// spliced into queries.
package sqlguard

import (
	"fmt"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"
)

// OrderBy checks a stored sort preference such as "leads.first_name ASC"
// and returns it in canonical form. Only plain column references from the
// allowlist are accepted, optionally qualified with table.
func OrderBy(clause, table string, allowed []string) (string, error) {
	clause = strings.TrimSpace(clause)
	if clause == "" {
		return "", fmt.Errorf("empty order clause")
	}

	stmt, err := parser.New().ParseOneStmt(fmt.Sprintf("SELECT * FROM %s ORDER BY %s", table, clause), "", "")
	if err != nil {
		return "", fmt.Errorf("order clause parse error: %v", err)
	}

	sel, ok := stmt.(*ast.SelectStmt)
	if !ok || sel.OrderBy == nil || sel.Limit != nil || sel.Where != nil {
		return "", fmt.Errorf("invalid order clause %q", clause)
	}

	allow := make(map[string]bool, len(allowed))
	for _, c := range allowed {
		allow[strings.ToLower(c)] = true
	}

	parts := make([]string, 0, len(sel.OrderBy.Items))
	for _, item := range sel.OrderBy.Items {
		col, ok := item.Expr.(*ast.ColumnNameExpr)
		if !ok {
			return "", fmt.Errorf("order clause may only reference columns")
		}
		if col.Name.Schema.L != "" {
			return "", fmt.Errorf("schema qualifiers are not allowed")
		}
		if col.Name.Table.L != "" && col.Name.Table.L != strings.ToLower(table) {
			return "", fmt.Errorf("column %s.%s does not belong to %s", col.Name.Table.O, col.Name.Name.O, table)
		}
		name := col.Name.Name.L
		if !allow[name] {
			return "", fmt.Errorf("column %s is not sortable", name)
		}
		dir := "ASC"
		if item.Desc {
			dir = "DESC"
		}
		parts = append(parts, fmt.Sprintf("%s.%s %s", table, name, dir))
	}

	return strings.Join(parts, ", "), nil
}
