package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/certtrack/certtrack-api/internal/dto"
	"github.com/certtrack/certtrack-api/internal/models"
	appErrors "github.com/certtrack/certtrack-api/pkg/errors"
	"github.com/certtrack/certtrack-api/pkg/response"
)

type catalogImporter interface {
	ImportFrom(ctx context.Context, adminID, spreadsheetID, tabIdentifier, accessToken string) (*dto.ImportResult, error)
}

type applicationReviewer interface {
	ListByStatus(ctx context.Context, status models.ApplicationStatus) ([]models.AdminApplication, error)
	Review(ctx context.Context, adminID, applicationID string, target models.ApplicationStatus) (*models.FundingApplication, error)
}

type adminAnalytics interface {
	Dashboard(ctx context.Context) (*dto.AdminDashboard, error)
	Invalidate(ctx context.Context)
}

type settingsManager interface {
	List(ctx context.Context) ([]models.AdminSetting, error)
	Value(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, adminID string, req dto.SettingRequest) (*models.AdminSetting, error)
}

// AdminHandler exposes the admin surface: spreadsheet sync, application
// review, analytics and settings.
type AdminHandler struct {
	importer     catalogImporter
	applications applicationReviewer
	analytics    adminAnalytics
	settings     settingsManager
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(importer catalogImporter, applications applicationReviewer, analytics adminAnalytics, settings settingsManager) *AdminHandler {
	return &AdminHandler{importer: importer, applications: applications, analytics: analytics, settings: settings}
}

// Sync godoc
// @Summary Import the catalog from a Google Sheet
// @Description Spreadsheet and tab fall back to the stored admin settings when omitted.
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.SyncRequest true "Sync payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/sync [post]
func (h *AdminHandler) Sync(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid sync payload"))
		return
	}

	ctx := c.Request.Context()
	if req.SpreadsheetID == "" {
		stored, err := h.settings.Value(ctx, models.SettingSheetID)
		if err != nil {
			response.Error(c, err)
			return
		}
		req.SpreadsheetID = stored
	}
	if req.Tab == "" {
		stored, err := h.settings.Value(ctx, models.SettingSheetTab)
		if err != nil {
			response.Error(c, err)
			return
		}
		req.Tab = stored
	}

	// The resolved sheet id/tab are persisted on every sync attempt so the
	// next sync can omit them.
	if req.SpreadsheetID != "" {
		if _, err := h.settings.Set(ctx, claims.UserID, dto.SettingRequest{Key: models.SettingSheetID, Value: req.SpreadsheetID}); err != nil {
			response.Error(c, err)
			return
		}
	}
	if req.Tab != "" {
		if _, err := h.settings.Set(ctx, claims.UserID, dto.SettingRequest{Key: models.SettingSheetTab, Value: req.Tab}); err != nil {
			response.Error(c, err)
			return
		}
	}

	result, err := h.importer.ImportFrom(ctx, claims.UserID, req.SpreadsheetID, req.Tab, req.AccessToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.analytics.Invalidate(ctx)
	response.JSON(c, http.StatusOK, result, nil)
}

// ListApplications godoc
// @Summary List funding applications for review
// @Tags Admin
// @Produce json
// @Param status query string false "Application status" default(pending)
// @Success 200 {object} response.Envelope
// @Router /admin/applications [get]
func (h *AdminHandler) ListApplications(c *gin.Context) {
	status := models.ApplicationStatus(c.DefaultQuery("status", string(models.ApplicationPending)))
	apps, err := h.applications.ListByStatus(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apps, nil)
}

// ReviewApplication godoc
// @Summary Transition a funding application
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body object true "Target status"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/applications/{id}/review [post]
func (h *AdminHandler) ReviewApplication(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var payload struct {
		Status models.ApplicationStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "status required"))
		return
	}
	app, err := h.applications.Review(c.Request.Context(), claims.UserID, c.Param("id"), payload.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.analytics.Invalidate(c.Request.Context())
	response.JSON(c, http.StatusOK, app, nil)
}

// Dashboard godoc
// @Summary Admin analytics dashboard
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.analytics.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}

// ListSettings godoc
// @Summary List admin settings
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/settings [get]
func (h *AdminHandler) ListSettings(c *gin.Context) {
	settings, err := h.settings.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// SetSetting godoc
// @Summary Create or update an admin setting
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.SettingRequest true "Setting payload"
// @Success 200 {object} response.Envelope
// @Router /admin/settings [put]
func (h *AdminHandler) SetSetting(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid setting payload"))
		return
	}
	setting, err := h.settings.Set(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, setting, nil)
}
