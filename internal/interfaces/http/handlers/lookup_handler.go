package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ChemReg-Ledger/internal/application/lookup"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

// LookupHandler resolves a CAS number against the registries without
// touching the inventory.
type LookupHandler struct {
	lookups lookup.Service
}

func NewLookupHandler(lookups lookup.Service) *LookupHandler {
	return &LookupHandler{lookups: lookups}
}

// LookupResponse wraps the merged record with an overall found flag so
// clients do not have to scan the per-source statuses.
type LookupResponse struct {
	Found  bool           `json:"found"`
	Result *lookup.Result `json:"result"`
}

// Lookup handles POST /api/v1/lookups/:cas. A substance unknown to both
// registries is still a 200; the response says which sources missed.
func (h *LookupHandler) Lookup(c *gin.Context) {
	cas := chem.CASNumber(c.Param("cas"))

	result, err := h.lookups.Lookup(c.Request.Context(), cas)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, LookupResponse{Found: result.AnyFound(), Result: result})
}
