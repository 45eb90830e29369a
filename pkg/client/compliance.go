package client

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

// SourceStatus reports the outcome of one registry query within a lookup.
type SourceStatus struct {
	Source chem.Source `json:"source"`
	Found  bool        `json:"found"`
	Reason string      `json:"reason,omitempty"`
}

// LookupResult is the merged registry reply for one CAS number.
type LookupResult struct {
	CAS        chem.CASNumber        `json:"cas"`
	Identity   chem.Identity         `json:"identity"`
	Compliance chem.ComplianceRecord `json:"compliance"`
	Sources    []SourceStatus        `json:"sources"`
}

// LookupResponse wraps the result with an overall found flag.
type LookupResponse struct {
	Found  bool          `json:"found"`
	Result *LookupResult `json:"result"`
}

// Lookup resolves one CAS number against both registries without touching
// the inventory.
func (c *Client) Lookup(ctx context.Context, cas string) (*LookupResponse, error) {
	var resp LookupResponse
	if err := c.post(ctx, "/api/v1/lookups/"+url.PathEscape(cas), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddInventoryRequest registers one substance in the inventory.
type AddInventoryRequest struct {
	CAS            string `json:"cas"`
	ProcessName    string `json:"process_name,omitempty"`
	Workplace      string `json:"workplace,omitempty"`
	ProductName    string `json:"product_name,omitempty"`
	Alias          string `json:"alias,omitempty"`
	ContentPercent string `json:"content_percent,omitempty"`
}

// AddInventory registers a substance; the server resolves its compliance
// profile from the registries. A duplicate CAS is an *APIError with 409.
func (c *Client) AddInventory(ctx context.Context, req AddInventoryRequest) (*chem.InventoryRow, error) {
	var row chem.InventoryRow
	if err := c.post(ctx, "/api/v1/inventory", req, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// InventoryList is the full ledger with a row count.
type InventoryList struct {
	Items []*chem.InventoryRow `json:"items"`
	Total int                  `json:"total"`
}

// ListInventory returns every ledger row.
func (c *Client) ListInventory(ctx context.Context) (*InventoryList, error) {
	var list InventoryList
	if err := c.get(ctx, "/api/v1/inventory", &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetInventory returns one ledger row by CAS number.
func (c *Client) GetInventory(ctx context.Context, cas string) (*chem.InventoryRow, error) {
	var row chem.InventoryRow
	if err := c.get(ctx, "/api/v1/inventory/"+url.PathEscape(cas), &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// DeleteInventory removes one ledger row by CAS number.
func (c *Client) DeleteInventory(ctx context.Context, cas string) error {
	return c.delete(ctx, "/api/v1/inventory/"+url.PathEscape(cas))
}

// InventorySummary returns the aggregate ledger counts.
func (c *Client) InventorySummary(ctx context.Context) (*chem.InventorySummary, error) {
	var summary chem.InventorySummary
	if err := c.get(ctx, "/api/v1/inventory/summary", &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// SearchHit is one name-search match.
type SearchHit struct {
	Document struct {
		CAS         string `json:"cas"`
		NameKo      string `json:"name_ko"`
		NameEn      string `json:"name_en"`
		Alias       string `json:"alias"`
		ProductName string `json:"product_name"`
	} `json:"document"`
	Score float64 `json:"score"`
}

// SearchResponse is the name-search reply.
type SearchResponse struct {
	Hits  []SearchHit `json:"hits"`
	Total int         `json:"total"`
}

// SearchInventory finds ledger rows by Korean or English name fragments.
func (c *Client) SearchInventory(ctx context.Context, query string, limit int) (*SearchResponse, error) {
	path := "/api/v1/inventory/search?q=" + url.QueryEscape(query)
	if limit > 0 {
		path += fmt.Sprintf("&limit=%d", limit)
	}
	var resp SearchResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EmissionRequest selects an estimation tier and carries its readings.
// Field shapes follow the server's emission input.
type EmissionRequest struct {
	Method      chem.Tier                `json:"method"`
	StandardO2  *float64                 `json:"standard_o2,omitempty"`
	Continuous  []map[string]interface{} `json:"continuous,omitempty"`
	Periodic    []map[string]interface{} `json:"periodic,omitempty"`
	MassBalance []map[string]interface{} `json:"mass_balance,omitempty"`
	Factors     []map[string]interface{} `json:"factors,omitempty"`
}

// CalculateEmission runs one tiered emission estimate for a ledger row and
// stores the result on the row.
func (c *Client) CalculateEmission(ctx context.Context, cas string, req EmissionRequest) (*chem.EmissionEstimate, error) {
	var estimate chem.EmissionEstimate
	if err := c.post(ctx, "/api/v1/inventory/"+url.PathEscape(cas)+"/emission", req, &estimate); err != nil {
		return nil, err
	}
	return &estimate, nil
}

// BatchSubmitResponse acknowledges an accepted batch job.
type BatchSubmitResponse struct {
	JobID       string    `json:"job_id"`
	Status      string    `json:"status"`
	Total       int       `json:"total"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// SubmitBatch enqueues a bulk registration job and returns its ID for
// progress polling.
func (c *Client) SubmitBatch(ctx context.Context, items []chem.BatchItem) (*BatchSubmitResponse, error) {
	var resp BatchSubmitResponse
	body := map[string]interface{}{"items": items}
	if err := c.post(ctx, "/api/v1/inventory/batch", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BatchProgress is the live tally of one batch job.
type BatchProgress struct {
	JobID      string `json:"job_id"`
	Status     string `json:"status"`
	Total      int    `json:"total"`
	Processed  int    `json:"processed"`
	Succeeded  int    `json:"succeeded"`
	Skipped    int    `json:"skipped"`
	Duplicates int    `json:"duplicates"`
	Failed     int    `json:"failed"`
	Hazmat     int    `json:"hazmat"`
}

// GetBatchProgress polls the progress of a batch job.
func (c *Client) GetBatchProgress(ctx context.Context, jobID string) (*BatchProgress, error) {
	var progress BatchProgress
	if err := c.get(ctx, "/api/v1/inventory/batch/"+url.PathEscape(jobID), &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}

// ExportResult describes one stored ledger export.
type ExportResult struct {
	ObjectName  string    `json:"object_name"`
	SizeBytes   int64     `json:"size_bytes"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ExportLedger stores a ledger export in object storage and returns a
// presigned download link.
func (c *Client) ExportLedger(ctx context.Context) (*ExportResult, error) {
	var result ExportResult
	if err := c.post(ctx, "/api/v1/exports/ledger", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DownloadLedger streams the ledger CSV directly.
func (c *Client) DownloadLedger(ctx context.Context) ([]byte, error) {
	return c.doRaw(ctx, "/api/v1/exports/ledger")
}
