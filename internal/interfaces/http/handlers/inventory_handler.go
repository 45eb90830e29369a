package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ChemReg-Ledger/internal/application/inventory"
	"github.com/turtacn/ChemReg-Ledger/pkg/errors"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

// InventoryHandler exposes the inventory ledger: register, list, remove,
// summarize, name-search, and per-row emission estimation.
type InventoryHandler struct {
	svc inventory.Service
}

func NewInventoryHandler(svc inventory.Service) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// Add handles POST /api/v1/inventory. A duplicate CAS is a 409.
func (h *InventoryHandler) Add(c *gin.Context) {
	var input inventory.AddInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	row, err := h.svc.Add(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

// ListResponse wraps the rows with a count for convenience.
type ListResponse struct {
	Items []*chem.InventoryRow `json:"items"`
	Total int                  `json:"total"`
}

// List handles GET /api/v1/inventory.
func (h *InventoryHandler) List(c *gin.Context) {
	rows, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Items: rows, Total: len(rows)})
}

// Get handles GET /api/v1/inventory/:cas.
func (h *InventoryHandler) Get(c *gin.Context) {
	row, err := h.svc.Get(c.Request.Context(), chem.CASNumber(c.Param("cas")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

// Delete handles DELETE /api/v1/inventory/:cas.
func (h *InventoryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), chem.CASNumber(c.Param("cas"))); err != nil {
		respondError(c, err)
		return
	}
	noContent(c)
}

// Summary handles GET /api/v1/inventory/summary.
func (h *InventoryHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Search handles GET /api/v1/inventory/search?q=...&limit=...
func (h *InventoryHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondError(c, errors.New(errors.ErrCodeBadRequest, "query parameter q is required"))
		return
	}
	limit := queryInt(c, "limit", 0)

	hits, err := h.svc.Search(c.Request.Context(), query, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hits": hits, "total": len(hits)})
}

// CalculateEmission handles POST /api/v1/inventory/:cas/emission. The body
// selects a tier and carries that tier's readings; recomputation overwrites
// the stored estimate.
func (h *InventoryHandler) CalculateEmission(c *gin.Context) {
	var input inventory.EmissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	estimate, err := h.svc.CalculateEmission(c.Request.Context(), chem.CASNumber(c.Param("cas")), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, estimate)
}
