package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/certtrack/certtrack-api/internal/dto"
	"github.com/certtrack/certtrack-api/internal/models"
	"github.com/certtrack/certtrack-api/internal/service"
	appErrors "github.com/certtrack/certtrack-api/pkg/errors"
	"github.com/certtrack/certtrack-api/pkg/response"
)

// SuggestionHandler exposes suggestion submission and review endpoints.
type SuggestionHandler struct {
	suggestions *service.SuggestionService
}

// NewSuggestionHandler constructs SuggestionHandler.
func NewSuggestionHandler(suggestions *service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions}
}

// Submit godoc
// @Summary Suggest a certification for the catalog
// @Tags Suggestions
// @Accept json
// @Produce json
// @Param payload body dto.SuggestionRequest true "Suggestion payload"
// @Success 201 {object} response.Envelope
// @Router /suggestions [post]
func (h *SuggestionHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid suggestion payload"))
		return
	}
	suggestion, err := h.suggestions.Submit(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, suggestion)
}

// ListMine godoc
// @Summary List the current user's suggestions
// @Tags Suggestions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /suggestions [get]
func (h *SuggestionHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	list, err := h.suggestions.ListMine(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}

// ListQueue godoc
// @Summary List suggestions for admin review
// @Tags Admin
// @Produce json
// @Param status query string false "Suggestion status" default(pending)
// @Success 200 {object} response.Envelope
// @Router /admin/suggestions [get]
func (h *SuggestionHandler) ListQueue(c *gin.Context) {
	status := models.SuggestionStatus(c.DefaultQuery("status", string(models.SuggestionPending)))
	list, err := h.suggestions.ListByStatus(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}

// Review godoc
// @Summary Approve or reject a suggestion
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Suggestion ID"
// @Param payload body dto.SuggestionReviewRequest true "Review payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/suggestions/{id}/review [post]
func (h *SuggestionHandler) Review(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SuggestionReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid review payload"))
		return
	}
	suggestion, err := h.suggestions.Review(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, suggestion, nil)
}
