package handler

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/certtrack/certtrack-api/internal/service"
	appErrors "github.com/certtrack/certtrack-api/pkg/errors"
	"github.com/certtrack/certtrack-api/pkg/response"
)

// ProofHandler manages completion proof uploads and signed downloads.
type ProofHandler struct {
	proofs *service.ProofService
}

// NewProofHandler constructs ProofHandler.
func NewProofHandler(proofs *service.ProofService) *ProofHandler {
	return &ProofHandler{proofs: proofs}
}

// Upload godoc
// @Summary Attach a proof document to a completion
// @Tags Proofs
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Completion ID"
// @Param external query bool false "External completion"
// @Param file formData file true "Proof document"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /me/completions/{id}/proof [post]
func (h *ProofHandler) Upload(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "proof file required"))
		return
	}
	src, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer src.Close()

	external := c.Query("external") == "true"
	stored, err := h.proofs.Upload(
		c.Request.Context(),
		claims.UserID,
		c.Param("id"),
		external,
		header.Filename,
		header.Header.Get("Content-Type"),
		header.Size,
		src,
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"proof_file": stored})
}

// Remove godoc
// @Summary Delete the proof attached to a completion
// @Tags Proofs
// @Produce json
// @Param id path string true "Completion ID"
// @Param external query bool false "External completion"
// @Success 204 {object} response.Envelope
// @Router /me/completions/{id}/proof [delete]
func (h *ProofHandler) Remove(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	external := c.Query("external") == "true"
	if err := h.proofs.Remove(c.Request.Context(), claims.UserID, c.Param("id"), external); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SignedURL godoc
// @Summary Issue a short-lived download token for a proof
// @Tags Proofs
// @Produce json
// @Param id path string true "Completion ID"
// @Param external query bool false "External completion"
// @Success 200 {object} response.Envelope
// @Router /me/completions/{id}/proof/signed-url [get]
func (h *ProofHandler) SignedURL(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	external := c.Query("external") == "true"
	signed, err := h.proofs.SignedURL(c.Request.Context(), claims.UserID, c.Param("id"), external)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, signed, nil)
}

// Download godoc
// @Summary Download a proof by signed token
// @Tags Proofs
// @Produce octet-stream
// @Param token query string true "Signed token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Router /proofs/download [get]
func (h *ProofHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token required"))
		return
	}
	file, err := h.proofs.OpenByToken(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read proof file"))
		return
	}
	http.ServeContent(c.Writer, c.Request, filepath.Base(file.Name()), info.ModTime(), file)
}
