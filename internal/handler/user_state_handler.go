package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/certtrack/certtrack-api/internal/dto"
	"github.com/certtrack/certtrack-api/internal/service"
	appErrors "github.com/certtrack/certtrack-api/pkg/errors"
	"github.com/certtrack/certtrack-api/pkg/response"
)

// UserStateHandler exposes the per-user favorites, applications and
// completions endpoints.
type UserStateHandler struct {
	states service.UserStateManager
}

// NewUserStateHandler constructs UserStateHandler.
func NewUserStateHandler(states service.UserStateManager) *UserStateHandler {
	return &UserStateHandler{states: states}
}

// State godoc
// @Summary Get the current user's catalog state
// @Tags UserState
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /me/state [get]
func (h *UserStateHandler) State(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	state, err := h.states.State(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// AddFavorite godoc
// @Summary Mark a certification as favorite
// @Tags UserState
// @Produce json
// @Param id path string true "Certification ID"
// @Success 204 {object} response.Envelope
// @Router /me/favorites/{id} [put]
func (h *UserStateHandler) AddFavorite(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.states.AddFavorite(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RemoveFavorite godoc
// @Summary Remove a favorite marker
// @Tags UserState
// @Produce json
// @Param id path string true "Certification ID"
// @Success 204 {object} response.Envelope
// @Router /me/favorites/{id} [delete]
func (h *UserStateHandler) RemoveFavorite(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.states.RemoveFavorite(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Apply godoc
// @Summary Submit a funding application
// @Tags UserState
// @Accept json
// @Produce json
// @Param payload body dto.ApplyRequest true "Application payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /me/applications [post]
func (h *UserStateHandler) Apply(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid application payload"))
		return
	}
	app, err := h.states.Apply(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, app)
}

// ListApplications godoc
// @Summary List the current user's funding applications
// @Tags UserState
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /me/applications [get]
func (h *UserStateHandler) ListApplications(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	apps, err := h.states.ListApplications(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apps, nil)
}

// CompleteCatalog godoc
// @Summary Record completion of a catalog certification
// @Tags UserState
// @Accept json
// @Produce json
// @Param payload body dto.CompleteCatalogRequest true "Completion payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /me/completions [post]
func (h *UserStateHandler) CompleteCatalog(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CompleteCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid completion payload"))
		return
	}
	entry, err := h.states.CompleteCatalog(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// CompleteExternal godoc
// @Summary Record a completion outside the catalog
// @Tags UserState
// @Accept json
// @Produce json
// @Param payload body dto.CompleteExternalRequest true "External completion payload"
// @Success 201 {object} response.Envelope
// @Router /me/completions/external [post]
func (h *UserStateHandler) CompleteExternal(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CompleteExternalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid external completion payload"))
		return
	}
	entry, err := h.states.CompleteExternal(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// ListCompleted godoc
// @Summary List the current user's completed certifications
// @Tags UserState
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /me/completions [get]
func (h *UserStateHandler) ListCompleted(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	list, err := h.states.ListCompleted(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}

// DeleteCompleted godoc
// @Summary Delete a completion record
// @Tags UserState
// @Produce json
// @Param id path string true "Completion ID"
// @Param external query bool false "External completion"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /me/completions/{id} [delete]
func (h *UserStateHandler) DeleteCompleted(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	external := c.Query("external") == "true"
	if err := h.states.DeleteCompleted(c.Request.Context(), claims.UserID, c.Param("id"), external); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
