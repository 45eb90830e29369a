package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ChemReg-Ledger/internal/application/batch"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

// BatchHandler accepts bulk registration jobs and reports their progress.
type BatchHandler struct {
	svc batch.Service
}

func NewBatchHandler(svc batch.Service) *BatchHandler {
	return &BatchHandler{svc: svc}
}

// SubmitRequest is the body of a batch submission.
type SubmitRequest struct {
	Items []chem.BatchItem `json:"items"`
}

// SubmitResponse acknowledges an accepted job without echoing the items.
type SubmitResponse struct {
	JobID       string    `json:"job_id"`
	Status      string    `json:"status"`
	Total       int       `json:"total"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Submit handles POST /api/v1/inventory/batch. The job runs asynchronously
// on the worker; poll the progress endpoint with the returned job ID.
func (h *BatchHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	job, err := h.svc.Submit(c.Request.Context(), req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, SubmitResponse{
		JobID:       string(job.ID),
		Status:      string(job.Status),
		Total:       len(job.Items),
		SubmittedAt: job.SubmittedAt,
	})
}

// Progress handles GET /api/v1/inventory/batch/:jobID. An expired or unknown
// job is a 404.
func (h *BatchHandler) Progress(c *gin.Context) {
	progress, err := h.svc.Progress(c.Request.Context(), c.Param("jobID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}
