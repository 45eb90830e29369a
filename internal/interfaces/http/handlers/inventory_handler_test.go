package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemReg-Ledger/internal/application/inventory"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/search/opensearch"
	pkgerrors "github.com/turtacn/ChemReg-Ledger/pkg/errors"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

// fakeInventoryService returns canned values per method; err wins when set.
type fakeInventoryService struct {
	row      *chem.InventoryRow
	rows     []*chem.InventoryRow
	summary  chem.InventorySummary
	hits     []opensearch.NameHit
	estimate *chem.EmissionEstimate
	err      error

	gotAdd      *inventory.AddInput
	gotEmission *inventory.EmissionInput
}

func (f *fakeInventoryService) Add(_ context.Context, input *inventory.AddInput) (*chem.InventoryRow, error) {
	f.gotAdd = input
	return f.row, f.err
}

func (f *fakeInventoryService) Get(_ context.Context, _ chem.CASNumber) (*chem.InventoryRow, error) {
	return f.row, f.err
}

func (f *fakeInventoryService) List(_ context.Context) ([]*chem.InventoryRow, error) {
	return f.rows, f.err
}

func (f *fakeInventoryService) Delete(_ context.Context, _ chem.CASNumber) error {
	return f.err
}

func (f *fakeInventoryService) Summary(_ context.Context) (chem.InventorySummary, error) {
	return f.summary, f.err
}

func (f *fakeInventoryService) Search(_ context.Context, _ string, _ int) ([]opensearch.NameHit, error) {
	return f.hits, f.err
}

func (f *fakeInventoryService) CalculateEmission(_ context.Context, _ chem.CASNumber, input *inventory.EmissionInput) (*chem.EmissionEstimate, error) {
	f.gotEmission = input
	return f.estimate, f.err
}

func inventoryRouter(svc inventory.Service) *gin.Engine {
	r := gin.New()
	h := NewInventoryHandler(svc)
	r.POST("/api/v1/inventory", h.Add)
	r.GET("/api/v1/inventory", h.List)
	r.GET("/api/v1/inventory/summary", h.Summary)
	r.GET("/api/v1/inventory/search", h.Search)
	r.GET("/api/v1/inventory/:cas", h.Get)
	r.DELETE("/api/v1/inventory/:cas", h.Delete)
	r.POST("/api/v1/inventory/:cas/emission", h.CalculateEmission)
	return r
}

func sampleRow() *chem.InventoryRow {
	rec := chem.NewComplianceRecord()
	rec.ToxicSubstance = chem.Applicable
	return &chem.InventoryRow{
		ID:          "row-1",
		ProcessName: "도장",
		Identity:    chem.Identity{CAS: "108-88-3", NameKo: "톨루엔"},
		Compliance:  rec,
	}
}

func TestInventoryAdd(t *testing.T) {
	svc := &fakeInventoryService{row: sampleRow()}
	body := `{"cas":"108-88-3","process_name":"도장","content_percent":"85"}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	inventoryRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.gotAdd)
	assert.Equal(t, chem.CASNumber("108-88-3"), svc.gotAdd.CAS)
	assert.Equal(t, "85", svc.gotAdd.ContentPercent)
	assert.Contains(t, w.Body.String(), "톨루엔")
}

func TestInventoryAddDuplicate(t *testing.T) {
	svc := &fakeInventoryService{err: pkgerrors.New(pkgerrors.ErrCodeInventoryDuplicateCAS, "CAS number already registered in inventory")}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory", strings.NewReader(`{"cas":"108-88-3"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	inventoryRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "INV_001")
}

func TestInventoryAddMalformedBody(t *testing.T) {
	svc := &fakeInventoryService{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	inventoryRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.gotAdd)
}

func TestInventoryList(t *testing.T) {
	svc := &fakeInventoryService{rows: []*chem.InventoryRow{sampleRow()}}

	w := httptest.NewRecorder()
	inventoryRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/inventory", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, chem.CASNumber("108-88-3"), resp.Items[0].Identity.CAS)
}

func TestInventoryGetNotFound(t *testing.T) {
	svc := &fakeInventoryService{err: pkgerrors.New(pkgerrors.ErrCodeInventoryRowNotFound, "inventory row not found")}

	w := httptest.NewRecorder()
	inventoryRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/inventory/0-00-0", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "INV_002")
}

func TestInventoryDelete(t *testing.T) {
	svc := &fakeInventoryService{}

	w := httptest.NewRecorder()
	inventoryRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/inventory/108-88-3", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestInventorySummary(t *testing.T) {
	svc := &fakeInventoryService{summary: chem.InventorySummary{Total: 12, Hazardous: 4, PRTRApplicable: 2, WithEmission: 1}}

	w := httptest.NewRecorder()
	inventoryRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/inventory/summary", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var got chem.InventorySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, svc.summary, got)
}

func TestInventorySearch(t *testing.T) {
	svc := &fakeInventoryService{hits: []opensearch.NameHit{
		{Document: opensearch.InventoryDocument{CAS: "108-88-3", NameKo: "톨루엔"}, Score: 2.4},
	}}

	w := httptest.NewRecorder()
	inventoryRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/inventory/search?q=%ED%86%A8%EB%A3%A8%EC%97%94", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "108-88-3")
}

func TestInventorySearchMissingQuery(t *testing.T) {
	svc := &fakeInventoryService{}

	w := httptest.NewRecorder()
	inventoryRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/inventory/search", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInventoryCalculateEmission(t *testing.T) {
	svc := &fakeInventoryService{estimate: &chem.EmissionEstimate{
		AmountKg:     100,
		Method:       chem.TierMassBalance,
		CalculatedAt: time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC),
	}}
	body := `{"method":"TIER3_MASS_BALANCE","mass_balance":[{"input":1000,"recovered":400,"destroyed":500}]}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/108-88-3/emission", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	inventoryRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.gotEmission)
	assert.Equal(t, chem.TierMassBalance, svc.gotEmission.Method)
	assert.Contains(t, w.Body.String(), "TIER3_MASS_BALANCE")
}

func TestInventoryCalculateEmissionUnknownTier(t *testing.T) {
	svc := &fakeInventoryService{err: pkgerrors.New(pkgerrors.ErrCodeEmissionUnknownTier, "unknown emission estimation tier")}
	body := `{"method":"TIER9"}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/108-88-3/emission", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	inventoryRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CALC_001")
}
