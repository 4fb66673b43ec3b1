package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/certtrack/certtrack-api/internal/dto"
	"github.com/certtrack/certtrack-api/internal/models"
	appErrors "github.com/certtrack/certtrack-api/pkg/errors"
)

type userStateFileStore interface {
	Load(userID string) (models.UserState, error)
	Mutate(userID string, fn func(*models.UserState) (bool, error)) error
}

// FileUserStateService is the file-backed UserStateManager used when
// USER_STATE_DRIVER selects the local store. It keeps the whole per-user
// snapshot in one JSON document, so every operation is a load-modify-save.
type FileUserStateService struct {
	store     userStateFileStore
	catalog   catalogLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFileUserStateService constructs a FileUserStateService instance.
func NewFileUserStateService(store userStateFileStore, catalog catalogLookup, validate *validator.Validate, logger *zap.Logger) *FileUserStateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &FileUserStateService{store: store, catalog: catalog, validator: validate, logger: logger}
}

// State returns the user's snapshot.
func (s *FileUserStateService) State(ctx context.Context, userID string) (models.UserState, error) {
	state, err := s.store.Load(userID)
	if err != nil {
		return state, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user state")
	}
	return state, nil
}

// AddFavorite marks the certification as favorite. Adding twice is a no-op.
func (s *FileUserStateService) AddFavorite(ctx context.Context, userID, certID string) error {
	if _, err := s.lookupCatalog(ctx, certID); err != nil {
		return err
	}
	return s.mutate(userID, func(state *models.UserState) (bool, error) {
		if state.IsFavorite(certID) {
			return false, nil
		}
		state.Favorites = append(state.Favorites, certID)
		return true, nil
	})
}

// RemoveFavorite clears the favorite marker.
func (s *FileUserStateService) RemoveFavorite(ctx context.Context, userID, certID string) error {
	return s.mutate(userID, func(state *models.UserState) (bool, error) {
		for i, id := range state.Favorites {
			if id == certID {
				state.Favorites = append(state.Favorites[:i], state.Favorites[i+1:]...)
				return true, nil
			}
		}
		return false, nil
	})
}

// Apply submits a funding application, rejecting duplicates while one is
// still pending for the same certification.
func (s *FileUserStateService) Apply(ctx context.Context, userID string, req dto.ApplyRequest) (*models.FundingApplication, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}
	cert, err := s.lookupCatalog(ctx, req.CertificationID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	app := models.FundingApplication{
		ID:                uuid.NewString(),
		UserID:            userID,
		CertificationID:   req.CertificationID,
		CertificationName: cert.CertificationName,
		Status:            models.ApplicationPending,
		Reason:            req.Reason,
		EstimatedCost:     req.EstimatedCost,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	err = s.mutate(userID, func(state *models.UserState) (bool, error) {
		if state.ApplicationStatus(req.CertificationID) == models.ApplicationPending {
			return false, appErrors.Clone(appErrors.ErrConflict, "a pending application already exists for this certification")
		}
		state.Applications = append(state.Applications, app)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ListApplications returns the user's applications, most recent first.
func (s *FileUserStateService) ListApplications(ctx context.Context, userID string) ([]models.FundingApplication, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return nil, err
	}
	apps := append([]models.FundingApplication{}, state.Applications...)
	sortApplicationsDesc(apps)
	return apps, nil
}

// CompleteCatalog records the completion of a catalog certification.
func (s *FileUserStateService) CompleteCatalog(ctx context.Context, userID string, req dto.CompleteCatalogRequest) (*models.CompletedCertification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid completion payload")
	}
	cert, err := s.lookupCatalog(ctx, req.CertificationID)
	if err != nil {
		return nil, err
	}

	completedAt := time.Now().UTC()
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}
	normalized := cert.Normalize()
	entry := models.CompletedCertification{
		ID:                uuid.NewString(),
		CertificationID:   req.CertificationID,
		CertificationName: normalized.CertificationName,
		Provider:          joinProviders(normalized.Provider),
		CompletedAt:       completedAt,
		CredentialURL:     req.CredentialURL,
		ExpiresAt:         req.ExpiresAt,
		IsExternal:        false,
	}
	err = s.mutate(userID, func(state *models.UserState) (bool, error) {
		if state.IsCompleted(req.CertificationID) {
			return false, appErrors.Clone(appErrors.ErrConflict, "certification is already marked as completed")
		}
		state.Completed = append(state.Completed, entry)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// CompleteExternal records a self-reported completion with no catalog row.
func (s *FileUserStateService) CompleteExternal(ctx context.Context, userID string, req dto.CompleteExternalRequest) (*models.CompletedCertification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid external completion payload")
	}

	completedAt := time.Now().UTC()
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}
	entry := models.CompletedCertification{
		ID:                uuid.NewString(),
		CertificationName: req.CertificationName,
		Provider:          req.Provider,
		CompletedAt:       completedAt,
		CredentialURL:     req.CredentialURL,
		ExpiresAt:         req.ExpiresAt,
		IsExternal:        true,
	}
	err := s.mutate(userID, func(state *models.UserState) (bool, error) {
		state.Completed = append(state.Completed, entry)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListCompleted returns all completions, most recent first.
func (s *FileUserStateService) ListCompleted(ctx context.Context, userID string) ([]models.CompletedCertification, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := append([]models.CompletedCertification{}, state.Completed...)
	sortCompletedDesc(out)
	return out, nil
}

// FindCompleted returns one completion owned by the user.
func (s *FileUserStateService) FindCompleted(ctx context.Context, userID, id string, external bool) (*models.CompletedCertification, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, e := range state.Completed {
		if e.ID == id && e.IsExternal == external {
			entry := e
			return &entry, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "completion not found")
}

// DeleteCompleted removes a completion record.
func (s *FileUserStateService) DeleteCompleted(ctx context.Context, userID, id string, external bool) error {
	found := false
	err := s.mutate(userID, func(state *models.UserState) (bool, error) {
		for i, e := range state.Completed {
			if e.ID == id && e.IsExternal == external {
				state.Completed = append(state.Completed[:i], state.Completed[i+1:]...)
				found = true
				return true, nil
			}
		}
		return false, nil
	})
	if err != nil {
		return err
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "completion not found")
	}
	return nil
}

// SetProof attaches or clears the stored proof path.
func (s *FileUserStateService) SetProof(ctx context.Context, userID, id string, external bool, proofFile *string) error {
	found := false
	err := s.mutate(userID, func(state *models.UserState) (bool, error) {
		for i := range state.Completed {
			if state.Completed[i].ID == id && state.Completed[i].IsExternal == external {
				state.Completed[i].ProofFile = proofFile
				found = true
				return true, nil
			}
		}
		return false, nil
	})
	if err != nil {
		return err
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "completion not found")
	}
	return nil
}

func (s *FileUserStateService) mutate(userID string, fn func(*models.UserState) (bool, error)) error {
	if err := s.store.Mutate(userID, fn); err != nil {
		if appErr, ok := err.(*appErrors.Error); ok {
			return appErr
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user state")
	}
	return nil
}

func (s *FileUserStateService) lookupCatalog(ctx context.Context, certID string) (*models.CertificationRow, error) {
	cert, err := s.catalog.FindByID(ctx, certID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "certification not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load certification")
	}
	return cert, nil
}

func sortApplicationsDesc(apps []models.FundingApplication) {
	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})
}
