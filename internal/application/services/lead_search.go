package services

import (
	"context"
	"strings"

	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/internal/infrastructure/persistence"
	"github.com/Lumbe/lcrm-app/pkg/constants"
)

// AutoComplete finds visible leads whose name, company or email matches
// query and remembers leads as the last auto complete target.
func (s *LeadService) AutoComplete(ctx context.Context, user *models.UserSession, sess *Session, query string) ([]*models.Lead, error) {
	sess.Set(constants.SessionAutoComplete, constants.TableLeads)

	query = strings.TrimSpace(query)
	if query == "" {
		return []*models.Lead{}, nil
	}
	return s.repos.Leads.List(ctx, persistence.LeadQuery{
		Scope:   s.access.LeadScope(user),
		Text:    query,
		OrderBy: "leads.first_name ASC, leads.last_name ASC",
		Limit:   constants.AutoCompleteLimit,
	})
}
