package services

import (
	"context"
	"database/sql"
	"strconv"

	"go.uber.org/zap"

	"github.com/Lumbe/lcrm-app/internal/config"
	"github.com/Lumbe/lcrm-app/internal/infrastructure/persistence"
	"github.com/Lumbe/lcrm-app/pkg/constants"
	"github.com/Lumbe/lcrm-app/pkg/sqlguard"
)

// leadSortOptions maps a sort_by option to the stored ORDER BY clause
var leadSortOptions = map[string]string{
	"first_name": "leads.first_name ASC",
	"last_name":  "leads.last_name ASC",
	"company":    "leads.company ASC",
	"rating":     "leads.rating DESC",
	"created_at": "leads.created_at DESC",
	"updated_at": "leads.updated_at DESC",
}

// contactSortOptions covers the options contacts share with leads
var contactSortOptions = map[string]string{
	"first_name": "contacts.first_name ASC",
	"last_name":  "contacts.last_name ASC",
}

// RedrawOptions are the display preferences submitted by redraw. Empty
// fields are left unchanged.
type RedrawOptions struct {
	PerPage string
	View    string
	SortBy  string
	Naming  string
}

// PreferenceService reads and writes per-user display preferences
type PreferenceService struct {
	repo     *persistence.PreferenceRepository
	txMgr    *persistence.TransactionManager
	settings *config.Settings
	logger   *zap.Logger
}

// NewPreferenceService creates a new PreferenceService
func NewPreferenceService(repo *persistence.PreferenceRepository, txMgr *persistence.TransactionManager, settings *config.Settings, logger *zap.Logger) *PreferenceService {
	return &PreferenceService{repo: repo, txMgr: txMgr, settings: settings, logger: logger}
}

// All returns every preference of a user
func (s *PreferenceService) All(ctx context.Context, userID string) (map[string]string, error) {
	return s.repo.All(ctx, userID)
}

// Get returns one preference, "" when unset
func (s *PreferenceService) Get(ctx context.Context, userID, name string) (string, error) {
	v, _, err := s.repo.Get(ctx, userID, name, nil)
	return v, err
}

// LeadsPerPage is the page size of the leads index
func (s *PreferenceService) LeadsPerPage(ctx context.Context, userID string) (int, error) {
	v, ok, err := s.repo.Get(ctx, userID, constants.PrefLeadsPerPage, nil)
	if err != nil {
		return 0, err
	}
	if ok {
		if n, convErr := strconv.Atoi(v); convErr == nil && n > 0 {
			return n, nil
		}
	}
	return s.settings.PerPage, nil
}

// LeadsOrder returns the ORDER BY clause of the leads index. A stored value
// that does not pass the guard falls back to the default.
func (s *PreferenceService) LeadsOrder(ctx context.Context, userID string) (string, error) {
	v, ok, err := s.repo.Get(ctx, userID, constants.PrefLeadsSortBy, nil)
	if err != nil {
		return "", err
	}
	if !ok || v == "" {
		return constants.DefaultLeadsSortBy, nil
	}

	clause, guardErr := sqlguard.OrderBy(v, constants.TableLeads, persistence.LeadSortColumns)
	if guardErr != nil {
		s.logger.Warn("ignoring stored sort preference",
			zap.String("user_id", userID), zap.String("value", v), zap.Error(guardErr))
		return constants.DefaultLeadsSortBy, nil
	}
	return clause, nil
}

// LeadsNaming returns the name ordering of leads
func (s *PreferenceService) LeadsNaming(ctx context.Context, userID string) (string, error) {
	v, _, err := s.repo.Get(ctx, userID, constants.PrefLeadsNaming, nil)
	if err != nil || v == "" {
		return constants.NamingBefore, err
	}
	return v, nil
}

// LeadsView returns the index view, brief by default
func (s *PreferenceService) LeadsView(ctx context.Context, userID string) (string, error) {
	v, _, err := s.repo.Get(ctx, userID, constants.PrefLeadsIndexView, nil)
	if err != nil || v == "" {
		return constants.ViewBrief, err
	}
	return v, nil
}

// Redraw stores the submitted leads display options. Sorting and naming are
// carried over to contacts unless the user already chose them there.
func (s *PreferenceService) Redraw(ctx context.Context, userID string, opts RedrawOptions) error {
	return s.txMgr.WithTransaction(ctx, func(tx *sql.Tx) error {
		set := func(name, value string) error {
			return s.repo.Set(ctx, userID, name, value, tx)
		}
		setIfUnset := func(name, value string) error {
			_, ok, err := s.repo.Get(ctx, userID, name, tx)
			if err != nil || ok {
				return err
			}
			return set(name, value)
		}

		if opts.PerPage != "" {
			if err := set(constants.PrefLeadsPerPage, opts.PerPage); err != nil {
				return err
			}
		}
		if opts.View != "" {
			if err := set(constants.PrefLeadsIndexView, opts.View); err != nil {
				return err
			}
		}
		if clause, ok := leadSortOptions[opts.SortBy]; ok {
			if err := set(constants.PrefLeadsSortBy, clause); err != nil {
				return err
			}
			if contactClause, ok := contactSortOptions[opts.SortBy]; ok {
				if err := setIfUnset(constants.PrefContactsSortBy, contactClause); err != nil {
					return err
				}
			}
		}
		if opts.Naming != "" {
			if err := set(constants.PrefLeadsNaming, opts.Naming); err != nil {
				return err
			}
			if err := setIfUnset(constants.PrefContactsNaming, opts.Naming); err != nil {
				return err
			}
		}
		return nil
	})
}
