package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/certtrack/certtrack-api/pkg/errors"
	"github.com/certtrack/certtrack-api/pkg/storage"
)

type proofStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

// ProofConfig tunes proof upload handling.
type ProofConfig struct {
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
}

// SignedProofURL is a time-limited download grant for one proof file.
type SignedProofURL struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ProofService stores certification proof files and hands out signed
// download tokens, so the files themselves are never served by path.
type ProofService struct {
	storage proofStorage
	signer  *storage.SignedURLSigner
	states  UserStateManager
	config  ProofConfig
	logger  *zap.Logger
}

// NewProofService constructs a ProofService instance.
func NewProofService(store proofStorage, signer *storage.SignedURLSigner, states UserStateManager, config ProofConfig, logger *zap.Logger) *ProofService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxFileSizeBytes <= 0 {
		config.MaxFileSizeBytes = 10 << 20
	}
	if len(config.AllowedMIMEs) == 0 {
		config.AllowedMIMEs = []string{"application/pdf", "image/png", "image/jpeg"}
	}
	return &ProofService{storage: store, signer: signer, states: states, config: config, logger: logger}
}

// Upload stores the file and attaches it to the completion. Any
// previously attached proof for the completion is removed first.
func (s *ProofService) Upload(ctx context.Context, userID, completionID string, external bool, filename, contentType string, size int64, r io.Reader) (string, error) {
	if size > s.config.MaxFileSizeBytes {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("proof file exceeds the %d byte limit", s.config.MaxFileSizeBytes))
	}
	if !s.mimeAllowed(contentType) {
		return "", appErrors.Clone(appErrors.ErrValidation, "unsupported proof file type")
	}

	completion, err := s.states.FindCompleted(ctx, userID, completionID, external)
	if err != nil {
		return "", err
	}

	stored := uuid.NewString() + sanitizeExt(filename)
	if _, err := s.storage.SaveStream(stored, io.LimitReader(r, s.config.MaxFileSizeBytes)); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store proof file")
	}

	if err := s.states.SetProof(ctx, userID, completionID, external, &stored); err != nil {
		if delErr := s.storage.Delete(stored); delErr != nil {
			s.logger.Warn("failed to clean up orphaned proof file", zap.String("file", stored), zap.Error(delErr))
		}
		return "", err
	}

	if completion.ProofFile != nil && *completion.ProofFile != "" {
		if err := s.storage.Delete(*completion.ProofFile); err != nil {
			s.logger.Warn("failed to delete replaced proof file", zap.String("file", *completion.ProofFile), zap.Error(err))
		}
	}
	return stored, nil
}

// Remove detaches and deletes the proof file for a completion.
func (s *ProofService) Remove(ctx context.Context, userID, completionID string, external bool) error {
	completion, err := s.states.FindCompleted(ctx, userID, completionID, external)
	if err != nil {
		return err
	}
	if completion.ProofFile == nil || *completion.ProofFile == "" {
		return appErrors.Clone(appErrors.ErrNotFound, "completion has no proof attached")
	}

	if err := s.states.SetProof(ctx, userID, completionID, external, nil); err != nil {
		return err
	}
	if err := s.storage.Delete(*completion.ProofFile); err != nil {
		s.logger.Warn("failed to delete proof file", zap.String("file", *completion.ProofFile), zap.Error(err))
	}
	return nil
}

// SignedURL issues a download token for the completion's proof file.
func (s *ProofService) SignedURL(ctx context.Context, userID, completionID string, external bool) (*SignedProofURL, error) {
	completion, err := s.states.FindCompleted(ctx, userID, completionID, external)
	if err != nil {
		return nil, err
	}
	if completion.ProofFile == nil || *completion.ProofFile == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "completion has no proof attached")
	}

	token, expiresAt, err := s.signer.Generate(completionID, *completion.ProofFile)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign proof url")
	}
	return &SignedProofURL{Token: token, ExpiresAt: expiresAt}, nil
}

// OpenByToken validates a signed token and opens the referenced file.
func (s *ProofService) OpenByToken(token string) (*os.File, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "proof file not found")
	}
	return file, nil
}

func (s *ProofService) mimeAllowed(contentType string) bool {
	base := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	for _, allowed := range s.config.AllowedMIMEs {
		if strings.EqualFold(base, allowed) {
			return true
		}
	}
	return false
}

func sanitizeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf", ".png", ".jpg", ".jpeg":
		return ext
	}
	return ""
}
