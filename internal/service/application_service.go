package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/certtrack/certtrack-api/internal/models"
	appErrors "github.com/certtrack/certtrack-api/pkg/errors"
)

type applicationAdminRepository interface {
	ListByStatus(ctx context.Context, status models.ApplicationStatus) ([]models.AdminApplication, error)
	FindByID(ctx context.Context, id string) (*models.FundingApplication, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error
}

type auditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// ApplicationService drives the admin funding application review queue.
type ApplicationService struct {
	repo   applicationAdminRepository
	audit  auditRecorder
	logger *zap.Logger
}

// NewApplicationService constructs an ApplicationService instance.
func NewApplicationService(repo applicationAdminRepository, audit auditRecorder, logger *zap.Logger) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{repo: repo, audit: audit, logger: logger}
}

// ListByStatus returns the review queue for one lifecycle state.
func (s *ApplicationService) ListByStatus(ctx context.Context, status models.ApplicationStatus) ([]models.AdminApplication, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown application status")
	}
	apps, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	return apps, nil
}

// Review transitions an application to a new lifecycle state. Pending
// applications may be approved or rejected; approved ones may be reversed
// back to pending or rejected; rejected is terminal.
func (s *ApplicationService) Review(ctx context.Context, adminID, applicationID string, target models.ApplicationStatus) (*models.FundingApplication, error) {
	if !target.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown application status")
	}

	app, err := s.repo.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}

	if !transitionAllowed(app.Status, target) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "transition from "+string(app.Status)+" to "+string(target)+" is not allowed")
	}

	if err := s.repo.UpdateStatus(ctx, applicationID, target); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update application")
	}

	payload, _ := json.Marshal(map[string]string{"from": string(app.Status), "to": string(target)})
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &adminID,
		Action:     models.AuditActionApplicationReview,
		Resource:   "funding_application",
		ResourceID: &applicationID,
		NewValues:  payload,
	}); err != nil {
		s.logger.Warn("failed to record application review audit log", zap.Error(err))
	}

	app.Status = target
	return app, nil
}

func transitionAllowed(from, to models.ApplicationStatus) bool {
	if from == to {
		return false
	}
	switch from {
	case models.ApplicationPending:
		return to == models.ApplicationApproved || to == models.ApplicationRejected
	case models.ApplicationApproved:
		return to == models.ApplicationPending || to == models.ApplicationRejected
	}
	return false
}
