package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ChemReg-Ledger/internal/application/export"
)

const csvContentType = "text/csv; charset=utf-8"

// ExportHandler renders the ledger in its regulatory CSV layout.
type ExportHandler struct {
	svc export.Service
}

func NewExportHandler(svc export.Service) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// Export handles POST /api/v1/exports/ledger: store the export in object
// storage and hand back a presigned download link.
func (h *ExportHandler) Export(c *gin.Context) {
	result, err := h.svc.ExportLedger(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Download handles GET /api/v1/exports/ledger: stream the CSV directly, for
// deployments without object storage.
func (h *ExportHandler) Download(c *gin.Context) {
	payload, err := h.svc.RenderLedger(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="inventory-ledger.csv"`)
	c.Data(http.StatusOK, csvContentType, payload)
}
