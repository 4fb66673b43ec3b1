package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/certtrack/certtrack-api/internal/dto"
	"github.com/certtrack/certtrack-api/internal/models"
	appErrors "github.com/certtrack/certtrack-api/pkg/errors"
)

// UserStateManager is the per-user state surface consumed by handlers:
// favorites, funding applications and completed certifications. Two
// implementations exist, the Postgres-backed UserStateService and the
// file-backed FileUserStateService.
type UserStateManager interface {
	State(ctx context.Context, userID string) (models.UserState, error)
	AddFavorite(ctx context.Context, userID, certID string) error
	RemoveFavorite(ctx context.Context, userID, certID string) error
	Apply(ctx context.Context, userID string, req dto.ApplyRequest) (*models.FundingApplication, error)
	ListApplications(ctx context.Context, userID string) ([]models.FundingApplication, error)
	CompleteCatalog(ctx context.Context, userID string, req dto.CompleteCatalogRequest) (*models.CompletedCertification, error)
	CompleteExternal(ctx context.Context, userID string, req dto.CompleteExternalRequest) (*models.CompletedCertification, error)
	ListCompleted(ctx context.Context, userID string) ([]models.CompletedCertification, error)
	FindCompleted(ctx context.Context, userID, id string, external bool) (*models.CompletedCertification, error)
	DeleteCompleted(ctx context.Context, userID, id string, external bool) error
	SetProof(ctx context.Context, userID, id string, external bool, proofFile *string) error
}

type favoriteRepository interface {
	ListFavoriteIDs(ctx context.Context, userID string) ([]string, error)
	IsFavorite(ctx context.Context, userID, certID string) (bool, error)
	AddFavorite(ctx context.Context, userID, certID string) error
	RemoveFavorite(ctx context.Context, userID, certID string) error
}

type completionRepository interface {
	CreateCompleted(ctx context.Context, entry *models.UserCertification) error
	ListCompleted(ctx context.Context, userID string) ([]models.UserCertification, error)
	FindCompleted(ctx context.Context, userID, id string) (*models.UserCertification, error)
	HasCompleted(ctx context.Context, userID, certID string) (bool, error)
	DeleteCompleted(ctx context.Context, userID, id string) error
	SetProofFile(ctx context.Context, userID, id string, proofFile *string) error
}

type externalCompletionRepository interface {
	Create(ctx context.Context, entry *models.ExternalCertification) error
	ListByUser(ctx context.Context, userID string) ([]models.ExternalCertification, error)
	FindByID(ctx context.Context, userID, id string) (*models.ExternalCertification, error)
	Delete(ctx context.Context, userID, id string) error
	SetProofFile(ctx context.Context, userID, id string, proofFile *string) error
}

type userApplicationRepository interface {
	Create(ctx context.Context, app *models.FundingApplication) error
	ListByUser(ctx context.Context, userID string) ([]models.FundingApplication, error)
	HasPending(ctx context.Context, userID, certID string) (bool, error)
}

type catalogLookup interface {
	FindByID(ctx context.Context, id string) (*models.CertificationRow, error)
}

// UserStateService is the Postgres-backed UserStateManager.
type UserStateService struct {
	favorites    favoriteRepository
	completions  completionRepository
	external     externalCompletionRepository
	applications userApplicationRepository
	catalog      catalogLookup
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewUserStateService constructs a UserStateService instance.
func NewUserStateService(favorites favoriteRepository, completions completionRepository, external externalCompletionRepository, applications userApplicationRepository, catalog catalogLookup, validate *validator.Validate, logger *zap.Logger) *UserStateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserStateService{
		favorites:    favorites,
		completions:  completions,
		external:     external,
		applications: applications,
		catalog:      catalog,
		validator:    validate,
		logger:       logger,
	}
}

// State assembles the full per-user snapshot.
func (s *UserStateService) State(ctx context.Context, userID string) (models.UserState, error) {
	state := models.UserState{
		Favorites:    []string{},
		Applications: []models.FundingApplication{},
		Completed:    []models.CompletedCertification{},
	}

	favorites, err := s.favorites.ListFavoriteIDs(ctx, userID)
	if err != nil {
		return state, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load favorites")
	}
	state.Favorites = favorites

	apps, err := s.applications.ListByUser(ctx, userID)
	if err != nil {
		return state, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load applications")
	}
	state.Applications = apps

	completed, err := s.ListCompleted(ctx, userID)
	if err != nil {
		return state, err
	}
	state.Completed = completed

	return state, nil
}

// AddFavorite marks the certification as favorite. Adding twice is a no-op.
func (s *UserStateService) AddFavorite(ctx context.Context, userID, certID string) error {
	if _, err := s.lookupCatalog(ctx, certID); err != nil {
		return err
	}
	already, err := s.favorites.IsFavorite(ctx, userID, certID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check favorite")
	}
	if already {
		return nil
	}
	if err := s.favorites.AddFavorite(ctx, userID, certID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add favorite")
	}
	return nil
}

// RemoveFavorite clears the favorite marker. Removing a non-favorite is a no-op.
func (s *UserStateService) RemoveFavorite(ctx context.Context, userID, certID string) error {
	if err := s.favorites.RemoveFavorite(ctx, userID, certID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove favorite")
	}
	return nil
}

// Apply submits a funding application. A second application while one is
// still pending for the same certification is rejected.
func (s *UserStateService) Apply(ctx context.Context, userID string, req dto.ApplyRequest) (*models.FundingApplication, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}

	cert, err := s.lookupCatalog(ctx, req.CertificationID)
	if err != nil {
		return nil, err
	}

	pending, err := s.applications.HasPending(ctx, userID, req.CertificationID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check pending applications")
	}
	if pending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a pending application already exists for this certification")
	}

	app := &models.FundingApplication{
		UserID:            userID,
		CertificationID:   req.CertificationID,
		CertificationName: cert.CertificationName,
		Status:            models.ApplicationPending,
		Reason:            req.Reason,
		EstimatedCost:     req.EstimatedCost,
	}
	if err := s.applications.Create(ctx, app); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create application")
	}
	return app, nil
}

// ListApplications returns the user's applications, most recent first.
func (s *UserStateService) ListApplications(ctx context.Context, userID string) ([]models.FundingApplication, error) {
	apps, err := s.applications.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	return apps, nil
}

// CompleteCatalog records the completion of a catalog certification.
func (s *UserStateService) CompleteCatalog(ctx context.Context, userID string, req dto.CompleteCatalogRequest) (*models.CompletedCertification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid completion payload")
	}

	cert, err := s.lookupCatalog(ctx, req.CertificationID)
	if err != nil {
		return nil, err
	}

	already, err := s.completions.HasCompleted(ctx, userID, req.CertificationID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check completions")
	}
	if already {
		return nil, appErrors.Clone(appErrors.ErrConflict, "certification is already marked as completed")
	}

	completedAt := time.Now().UTC()
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}
	entry := &models.UserCertification{
		UserID:          userID,
		CertificationID: req.CertificationID,
		Status:          models.UserCertificationCompleted,
		CompletedAt:     &completedAt,
		CredentialURL:   req.CredentialURL,
		ExpiresAt:       req.ExpiresAt,
	}
	if err := s.completions.CreateCompleted(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record completion")
	}

	normalized := cert.Normalize()
	return &models.CompletedCertification{
		ID:                entry.ID,
		CertificationID:   entry.CertificationID,
		CertificationName: normalized.CertificationName,
		Provider:          joinProviders(normalized.Provider),
		CompletedAt:       completedAt,
		CredentialURL:     entry.CredentialURL,
		ExpiresAt:         entry.ExpiresAt,
		IsExternal:        false,
	}, nil
}

// CompleteExternal records a self-reported completion with no catalog row.
func (s *UserStateService) CompleteExternal(ctx context.Context, userID string, req dto.CompleteExternalRequest) (*models.CompletedCertification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid external completion payload")
	}

	completedAt := time.Now().UTC()
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}
	entry := &models.ExternalCertification{
		UserID:            userID,
		CertificationName: req.CertificationName,
		Provider:          req.Provider,
		CompletedAt:       completedAt,
		CredentialURL:     req.CredentialURL,
		ExpiresAt:         req.ExpiresAt,
	}
	if err := s.external.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record external completion")
	}

	return &models.CompletedCertification{
		ID:                entry.ID,
		CertificationName: entry.CertificationName,
		Provider:          entry.Provider,
		CompletedAt:       entry.CompletedAt,
		CredentialURL:     entry.CredentialURL,
		ExpiresAt:         entry.ExpiresAt,
		IsExternal:        true,
	}, nil
}

// ListCompleted merges catalog-backed and external completions, most
// recent first.
func (s *UserStateService) ListCompleted(ctx context.Context, userID string) ([]models.CompletedCertification, error) {
	catalogEntries, err := s.completions.ListCompleted(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list completions")
	}
	externalEntries, err := s.external.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list external completions")
	}

	out := make([]models.CompletedCertification, 0, len(catalogEntries)+len(externalEntries))
	for _, e := range catalogEntries {
		completedAt := e.CreatedAt
		if e.CompletedAt != nil {
			completedAt = *e.CompletedAt
		}
		out = append(out, models.CompletedCertification{
			ID:                e.ID,
			CertificationID:   e.CertificationID,
			CertificationName: e.CertificationName,
			Provider:          e.Provider,
			CompletedAt:       completedAt,
			CredentialURL:     e.CredentialURL,
			ExpiresAt:         e.ExpiresAt,
			ProofFile:         e.ProofFile,
			IsExternal:        false,
		})
	}
	for _, e := range externalEntries {
		out = append(out, models.CompletedCertification{
			ID:                e.ID,
			CertificationName: e.CertificationName,
			Provider:          e.Provider,
			CompletedAt:       e.CompletedAt,
			CredentialURL:     e.CredentialURL,
			ExpiresAt:         e.ExpiresAt,
			ProofFile:         e.ProofFile,
			IsExternal:        true,
		})
	}
	sortCompletedDesc(out)
	return out, nil
}

// FindCompleted returns one completion owned by the user.
func (s *UserStateService) FindCompleted(ctx context.Context, userID, id string, external bool) (*models.CompletedCertification, error) {
	if external {
		e, err := s.external.FindByID(ctx, userID, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "completion not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load completion")
		}
		return &models.CompletedCertification{
			ID:                e.ID,
			CertificationName: e.CertificationName,
			Provider:          e.Provider,
			CompletedAt:       e.CompletedAt,
			CredentialURL:     e.CredentialURL,
			ExpiresAt:         e.ExpiresAt,
			ProofFile:         e.ProofFile,
			IsExternal:        true,
		}, nil
	}

	e, err := s.completions.FindCompleted(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "completion not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load completion")
	}
	completedAt := e.CreatedAt
	if e.CompletedAt != nil {
		completedAt = *e.CompletedAt
	}
	return &models.CompletedCertification{
		ID:                e.ID,
		CertificationID:   e.CertificationID,
		CertificationName: e.CertificationName,
		Provider:          e.Provider,
		CompletedAt:       completedAt,
		CredentialURL:     e.CredentialURL,
		ExpiresAt:         e.ExpiresAt,
		ProofFile:         e.ProofFile,
		IsExternal:        false,
	}, nil
}

// DeleteCompleted removes a completion record owned by the user.
func (s *UserStateService) DeleteCompleted(ctx context.Context, userID, id string, external bool) error {
	if _, err := s.FindCompleted(ctx, userID, id, external); err != nil {
		return err
	}
	var err error
	if external {
		err = s.external.Delete(ctx, userID, id)
	} else {
		err = s.completions.DeleteCompleted(ctx, userID, id)
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete completion")
	}
	return nil
}

// SetProof attaches or clears the stored proof path.
func (s *UserStateService) SetProof(ctx context.Context, userID, id string, external bool, proofFile *string) error {
	if _, err := s.FindCompleted(ctx, userID, id, external); err != nil {
		return err
	}
	var err error
	if external {
		err = s.external.SetProofFile(ctx, userID, id, proofFile)
	} else {
		err = s.completions.SetProofFile(ctx, userID, id, proofFile)
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update proof")
	}
	return nil
}

func (s *UserStateService) lookupCatalog(ctx context.Context, certID string) (*models.CertificationRow, error) {
	cert, err := s.catalog.FindByID(ctx, certID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "certification not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load certification")
	}
	return cert, nil
}

func joinProviders(providers []string) string {
	if len(providers) == 0 {
		return ""
	}
	out := providers[0]
	for _, p := range providers[1:] {
		out += ", " + p
	}
	return out
}

func sortCompletedDesc(entries []models.CompletedCertification) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CompletedAt.After(entries[j].CompletedAt)
	})
}
