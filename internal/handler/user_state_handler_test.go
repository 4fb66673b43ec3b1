package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certtrack/certtrack-api/internal/dto"
	"github.com/certtrack/certtrack-api/internal/middleware"
	"github.com/certtrack/certtrack-api/internal/models"
	appErrors "github.com/certtrack/certtrack-api/pkg/errors"
)

type userStateMock struct {
	state        models.UserState
	applyResp    *models.FundingApplication
	applyErr     error
	favoriteErr  error
	addedFav     string
	removedFav   string
	applyCalled  bool
	deleteCalled bool
	deletedExt   bool
}

func (m *userStateMock) State(ctx context.Context, userID string) (models.UserState, error) {
	return m.state, nil
}

func (m *userStateMock) AddFavorite(ctx context.Context, userID, certID string) error {
	m.addedFav = certID
	return m.favoriteErr
}

func (m *userStateMock) RemoveFavorite(ctx context.Context, userID, certID string) error {
	m.removedFav = certID
	return m.favoriteErr
}

func (m *userStateMock) Apply(ctx context.Context, userID string, req dto.ApplyRequest) (*models.FundingApplication, error) {
	m.applyCalled = true
	return m.applyResp, m.applyErr
}

func (m *userStateMock) ListApplications(ctx context.Context, userID string) ([]models.FundingApplication, error) {
	return m.state.Applications, nil
}

func (m *userStateMock) CompleteCatalog(ctx context.Context, userID string, req dto.CompleteCatalogRequest) (*models.CompletedCertification, error) {
	return &models.CompletedCertification{ID: "x1", CertificationID: req.CertificationID}, nil
}

func (m *userStateMock) CompleteExternal(ctx context.Context, userID string, req dto.CompleteExternalRequest) (*models.CompletedCertification, error) {
	return &models.CompletedCertification{ID: "x2", IsExternal: true}, nil
}

func (m *userStateMock) ListCompleted(ctx context.Context, userID string) ([]models.CompletedCertification, error) {
	return m.state.Completed, nil
}

func (m *userStateMock) FindCompleted(ctx context.Context, userID, id string, external bool) (*models.CompletedCertification, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "completion not found")
}

func (m *userStateMock) DeleteCompleted(ctx context.Context, userID, id string, external bool) error {
	m.deleteCalled = true
	m.deletedExt = external
	return nil
}

func (m *userStateMock) SetProof(ctx context.Context, userID, id string, external bool, proofFile *string) error {
	return nil
}

func testContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	c.Request = req
	return c, w
}

func asUser(c *gin.Context) {
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Role: models.RoleUser})
}

func TestAddFavoriteHandler(t *testing.T) {
	mockSvc := &userStateMock{}
	h := NewUserStateHandler(mockSvc)

	c, w := testContext(t, http.MethodPut, "/me/favorites/c1", nil)
	c.Params = gin.Params{{Key: "id", Value: "c1"}}
	asUser(c)

	h.AddFavorite(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "c1", mockSvc.addedFav)
}

func TestAddFavoriteRequiresAuth(t *testing.T) {
	h := NewUserStateHandler(&userStateMock{})
	c, w := testContext(t, http.MethodPut, "/me/favorites/c1", nil)
	c.Params = gin.Params{{Key: "id", Value: "c1"}}

	h.AddFavorite(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAddFavoriteUnknownCert(t *testing.T) {
	mockSvc := &userStateMock{favoriteErr: appErrors.Clone(appErrors.ErrNotFound, "certification not found")}
	h := NewUserStateHandler(mockSvc)

	c, w := testContext(t, http.MethodPut, "/me/favorites/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	asUser(c)

	h.AddFavorite(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestApplyHandler(t *testing.T) {
	mockSvc := &userStateMock{applyResp: &models.FundingApplication{ID: "a1", Status: models.ApplicationPending}}
	h := NewUserStateHandler(mockSvc)

	body, _ := json.Marshal(dto.ApplyRequest{CertificationID: "c1", Reason: "growth", EstimatedCost: 100})
	c, w := testContext(t, http.MethodPost, "/me/applications", body)
	asUser(c)

	h.Apply(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.applyCalled)
}

func TestApplyHandlerInvalidBody(t *testing.T) {
	h := NewUserStateHandler(&userStateMock{})
	c, w := testContext(t, http.MethodPost, "/me/applications", []byte(`{"certification_id":`))
	asUser(c)

	h.Apply(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApplyHandlerConflict(t *testing.T) {
	mockSvc := &userStateMock{applyErr: appErrors.Clone(appErrors.ErrConflict, "a pending application already exists for this certification")}
	h := NewUserStateHandler(mockSvc)

	body, _ := json.Marshal(dto.ApplyRequest{CertificationID: "c1", Reason: "growth"})
	c, w := testContext(t, http.MethodPost, "/me/applications", body)
	asUser(c)

	h.Apply(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteCompletedPassesExternalFlag(t *testing.T) {
	mockSvc := &userStateMock{}
	h := NewUserStateHandler(mockSvc)

	c, w := testContext(t, http.MethodDelete, "/me/completions/x1?external=true", nil)
	c.Params = gin.Params{{Key: "id", Value: "x1"}}
	asUser(c)

	h.DeleteCompleted(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, mockSvc.deleteCalled)
	assert.True(t, mockSvc.deletedExt)
}
