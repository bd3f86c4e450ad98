package services

import (
	"context"
	"database/sql"

	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/pkg/constants"
	"github.com/Lumbe/lcrm-app/pkg/errors"
)

// Attachable asset collections
const (
	AssetsTasks = "tasks"
)

// AttachResult reports the outcome of an attach request
type AttachResult struct {
	Lead       *models.Lead
	Attachment *models.Task
	// Attached is false when the task already belonged to the lead
	Attached bool
}

// Attach points a visible task at a visible lead. Attaching a task twice is a no-op.
func (s *LeadService) Attach(ctx context.Context, user *models.UserSession, leadID, assets, assetID string) (*AttachResult, error) {
	if assets != AssetsTasks {
		return nil, errors.NewValidationError(constants.ParamAssets, "cannot be attached to a lead")
	}

	var result *AttachResult
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		lead, err := s.find(ctx, user, leadID, tx)
		if err != nil {
			return err
		}
		if lead == nil {
			return errors.NewNotFoundError(constants.AssetLead, leadID)
		}
		task, err := s.repos.Tasks.FindVisible(ctx, s.access.TaskScope(user), assetID, tx)
		if err != nil {
			return err
		}
		if task == nil {
			return errors.NewNotFoundError(constants.AssetTask, assetID)
		}

		result = &AttachResult{Lead: lead, Attachment: task}
		if task.AttachedTo(constants.AssetLead, lead.ID) {
			return nil
		}
		if err := s.repos.Tasks.Attach(ctx, task.ID, constants.AssetLead, lead.ID, tx); err != nil {
			return err
		}
		task.AssetType = models.StringPtr(constants.AssetLead)
		task.AssetID = models.StringPtr(lead.ID)
		result.Attached = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Discard detaches a task from a visible lead without deleting it
func (s *LeadService) Discard(ctx context.Context, user *models.UserSession, leadID, attachment, attachmentID string) (*models.Lead, *models.Task, error) {
	if attachment != constants.AssetTask {
		return nil, nil, errors.NewValidationError(constants.ParamAttachment, "cannot be discarded from a lead")
	}

	var lead *models.Lead
	var task *models.Task
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if lead, err = s.find(ctx, user, leadID, tx); err != nil {
			return err
		}
		if lead == nil {
			return errors.NewNotFoundError(constants.AssetLead, leadID)
		}
		if task, err = s.repos.Tasks.FindVisible(ctx, s.access.TaskScope(user), attachmentID, tx); err != nil {
			return err
		}
		if task == nil {
			return errors.NewNotFoundError(constants.AssetTask, attachmentID)
		}

		detached, err := s.repos.Tasks.Detach(ctx, task.ID, constants.AssetLead, lead.ID, tx)
		if err != nil {
			return err
		}
		if detached {
			task.AssetType, task.AssetID = nil, nil
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return lead, task, nil
}
