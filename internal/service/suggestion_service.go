package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/certtrack/certtrack-api/internal/dto"
	"github.com/certtrack/certtrack-api/internal/models"
	appErrors "github.com/certtrack/certtrack-api/pkg/errors"
)

type suggestionRepository interface {
	Create(ctx context.Context, s *models.CertificationSuggestion) error
	ListByUser(ctx context.Context, userID string) ([]models.CertificationSuggestion, error)
	ListByStatus(ctx context.Context, status models.SuggestionStatus) ([]models.CertificationSuggestion, error)
	FindByID(ctx context.Context, id string) (*models.CertificationSuggestion, error)
	UpdateStatus(ctx context.Context, id string, status models.SuggestionStatus, adminNotes *string) error
}

type suggestionCatalogWriter interface {
	Upsert(ctx context.Context, row *models.CertificationRow) (bool, error)
}

type catalogInvalidator interface {
	InvalidateCache(ctx context.Context)
}

// SuggestionService handles user-submitted catalog suggestions and their
// admin review. Approval materialises the suggestion as a catalog row.
type SuggestionService struct {
	repo      suggestionRepository
	catalog   suggestionCatalogWriter
	cache     catalogInvalidator
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSuggestionService constructs a SuggestionService instance.
func NewSuggestionService(repo suggestionRepository, catalog suggestionCatalogWriter, cache catalogInvalidator, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *SuggestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SuggestionService{repo: repo, catalog: catalog, cache: cache, audit: audit, validator: validate, logger: logger}
}

// Submit creates a pending suggestion for the user.
func (s *SuggestionService) Submit(ctx context.Context, userID string, req dto.SuggestionRequest) (*models.CertificationSuggestion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid suggestion payload")
	}

	suggestion := &models.CertificationSuggestion{
		UserID:            userID,
		CertificationName: req.CertificationName,
		Provider:          req.Provider,
		Reason:            req.Reason,
		URL:               req.URL,
		Status:            models.SuggestionPending,
	}
	if err := s.repo.Create(ctx, suggestion); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create suggestion")
	}
	return suggestion, nil
}

// ListMine returns the user's own suggestions.
func (s *SuggestionService) ListMine(ctx context.Context, userID string) ([]models.CertificationSuggestion, error) {
	out, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list suggestions")
	}
	return out, nil
}

// ListByStatus returns the admin review queue for one state.
func (s *SuggestionService) ListByStatus(ctx context.Context, status models.SuggestionStatus) ([]models.CertificationSuggestion, error) {
	switch status {
	case models.SuggestionPending, models.SuggestionApproved, models.SuggestionRejected:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown suggestion status")
	}
	out, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list suggestions")
	}
	return out, nil
}

// Review approves or rejects a pending suggestion. Approval upserts a
// minimal catalog row named after the suggestion and drops the cached
// catalog so the new entry is visible immediately.
func (s *SuggestionService) Review(ctx context.Context, adminID, suggestionID string, req dto.SuggestionReviewRequest) (*models.CertificationSuggestion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}

	suggestion, err := s.repo.FindByID(ctx, suggestionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "suggestion not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load suggestion")
	}
	if suggestion.Status != models.SuggestionPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "suggestion has already been reviewed")
	}

	target := models.SuggestionRejected
	if req.Approve {
		target = models.SuggestionApproved
		row := &models.CertificationRow{
			CertificationName: suggestion.CertificationName,
			Domain:            "Other",
			Provider:          suggestion.Provider,
			URL:               suggestion.URL,
			Currency:          "USD",
			ExperienceLevel:   "intermediate",
			LastChecked:       time.Now().UTC(),
		}
		if _, err := s.catalog.Upsert(ctx, row); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add suggested certification to catalog")
		}
		if s.cache != nil {
			s.cache.InvalidateCache(ctx)
		}
	}

	if err := s.repo.UpdateStatus(ctx, suggestionID, target, req.AdminNotes); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update suggestion")
	}

	payload, _ := json.Marshal(map[string]string{"from": string(suggestion.Status), "to": string(target)})
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &adminID,
		Action:     models.AuditActionSuggestionReview,
		Resource:   "certification_suggestion",
		ResourceID: &suggestionID,
		NewValues:  payload,
	}); err != nil {
		s.logger.Warn("failed to record suggestion review audit log", zap.Error(err))
	}

	suggestion.Status = target
	suggestion.AdminNotes = req.AdminNotes
	return suggestion, nil
}
