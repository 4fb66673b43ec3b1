package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/certtrack/certtrack-api/internal/service"
	appErrors "github.com/certtrack/certtrack-api/pkg/errors"
	"github.com/certtrack/certtrack-api/pkg/response"
)

// ExportHandler streams catalog and completion exports as downloads.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Catalog godoc
// @Summary Export the filtered catalog
// @Description Applies the same filter and sort parameters as the listing, without pagination.
// @Tags Exports
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /exports/catalog [get]
func (h *ExportHandler) Catalog(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	filter := parseCatalogFilter(c)
	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportCSV)))

	file, err := h.exports.Catalog(c.Request.Context(), claims.UserID, filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeDownload(c, file)
}

// Completions godoc
// @Summary Export the current user's completed certifications
// @Tags Exports
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /exports/completions [get]
func (h *ExportHandler) Completions(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportCSV)))

	file, err := h.exports.Completions(c.Request.Context(), claims.UserID, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeDownload(c, file)
}

func writeDownload(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(200, file.ContentType, file.Data)
}
