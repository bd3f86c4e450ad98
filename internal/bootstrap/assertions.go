package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Lumbe/lcrm-app/internal/infrastructure/database"
	"github.com/Lumbe/lcrm-app/pkg/constants"
)

// AssertionViolation represents a single consistency violation
type AssertionViolation struct {
	Category    string
	Severity    string // "error" or "warning"
	Object      string
	Description string
}

// AssertionResult contains all violations found during assertion checks
type AssertionResult struct {
	Violations []AssertionViolation
	Passed     bool
}

// RunAssertions checks the database for drift from the service's invariants.
// Violations are logged; strictMode turns them into an error.
func RunAssertions(ctx context.Context, conn *database.Connection, logger *zap.Logger, strictMode bool) (*AssertionResult, error) {
	logger.Info("running startup assertions")

	result := &AssertionResult{Violations: []AssertionViolation{}, Passed: true}

	assertTablesExist(ctx, conn, result)
	assertAdminExists(ctx, conn, result)
	assertCampaignLeadCounts(ctx, conn, result)

	if len(result.Violations) == 0 {
		logger.Info("all assertions passed")
		return result, nil
	}

	result.Passed = false
	for _, v := range result.Violations {
		logger.Warn("assertion violation",
			zap.String("severity", v.Severity),
			zap.String("category", v.Category),
			zap.String("object", v.Object),
			zap.String("description", v.Description))
	}

	if strictMode {
		return result, fmt.Errorf("assertion failures in strict mode: %d violation(s)", len(result.Violations))
	}
	return result, nil
}

func assertTablesExist(ctx context.Context, conn *database.Connection, result *AssertionResult) {
	for _, t := range constants.AllTables() {
		rows, err := conn.DB().QueryContext(ctx, "SELECT 1 FROM "+t+" LIMIT 1")
		if err != nil {
			result.Violations = append(result.Violations, AssertionViolation{
				Category:    "MissingTable",
				Severity:    "error",
				Object:      t,
				Description: fmt.Sprintf("table '%s' is missing from the database", t),
			})
			continue
		}
		_ = rows.Close()
	}
}

func assertAdminExists(ctx context.Context, conn *database.Connection, result *AssertionResult) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE admin = ?", constants.TableUsers)
	if err := conn.DB().QueryRowContext(ctx, query, true).Scan(&count); err != nil || count > 0 {
		return
	}
	result.Violations = append(result.Violations, AssertionViolation{
		Category:    "MissingData",
		Severity:    "warning",
		Object:      constants.TableUsers,
		Description: "no admin users found; set ADMIN_PASSWORD to seed one",
	})
}

// assertCampaignLeadCounts verifies the denormalized leads_count column
func assertCampaignLeadCounts(ctx context.Context, conn *database.Connection, result *AssertionResult) {
	query := fmt.Sprintf(`
		SELECT c.id, c.leads_count, COUNT(l.id)
		FROM %s c LEFT JOIN %s l ON l.campaign_id = c.id
		GROUP BY c.id, c.leads_count
		HAVING c.leads_count <> COUNT(l.id)`,
		constants.TableCampaigns, constants.TableLeads)

	rows, err := conn.DB().QueryContext(ctx, query)
	if err != nil {
		return
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id string
		var stored, actual int
		if err := rows.Scan(&id, &stored, &actual); err != nil {
			return
		}
		result.Violations = append(result.Violations, AssertionViolation{
			Category:    "CounterDrift",
			Severity:    "error",
			Object:      constants.TableCampaigns,
			Description: fmt.Sprintf("campaign %s has leads_count %d but %d leads", id, stored, actual),
		})
	}
}
