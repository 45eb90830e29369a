// Package kosha implements the occupational-safety MSDS registry client.
// The registry answers XML with repeated item elements; a chemlist search
// resolves the CAS number to an internal chemical ID, then per-section
// detail endpoints return label/value pairs.
package kosha

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/turtacn/ChemReg-Ledger/internal/config"
	"github.com/turtacn/ChemReg-Ledger/internal/extraction"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/registry"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

const reasonNotRegistered = "미등록 물질"

// detailSections lists the MSDS sections fetched after a successful search,
// in the order they are appended to the raw record.
var detailSections = []string{
	extraction.SectionKOSHAHazard,
	extraction.SectionKOSHAExposure,
	extraction.SectionKOSHAPhysical,
	extraction.SectionKOSHAToxicity,
	extraction.SectionKOSHAEcology,
	extraction.SectionKOSHALegal,
}

// Client talks to the KOSHA MSDS open API.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	// delay is the courtesy pause between the per-section detail calls.
	delay  time.Duration
	logger logging.Logger
}

// NewClient builds a KOSHA client from the registry endpoint configuration.
func NewClient(cfg config.RegistryEndpointConfig, delay time.Duration, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		delay:      delay,
		logger:     logger,
	}
}

func (c *Client) Source() chem.Source {
	return chem.SourceKOSHA
}

// Lookup resolves a CAS number to its MSDS raw record. Any failure along the
// way degrades to a not-found result; the batch pipeline must keep going.
func (c *Client) Lookup(ctx context.Context, cas chem.CASNumber) registry.Result {
	cas = cas.Normalize()

	identity, chemID, err := c.search(ctx, cas)
	if err != nil {
		c.logger.Warn("kosha search failed",
			logging.String("cas", string(cas)),
			logging.Err(err))
		return registry.NotFound(chem.SourceKOSHA, cas, reasonNotRegistered)
	}

	raw := &chem.RawRecord{}
	for i, section := range detailSections {
		if i > 0 && c.delay > 0 {
			select {
			case <-time.After(c.delay):
			case <-ctx.Done():
				c.logger.Warn("kosha lookup cancelled",
					logging.String("cas", string(cas)),
					logging.Err(ctx.Err()))
				return registry.NotFound(chem.SourceKOSHA, cas, reasonNotRegistered)
			}
		}
		if err := c.fetchSection(ctx, chemID, section, raw); err != nil {
			// A single missing section degrades those fields to unknown.
			c.logger.Warn("kosha section fetch failed",
				logging.String("cas", string(cas)),
				logging.String("section", section),
				logging.Err(err))
		}
	}

	return registry.Result{
		Found:    true,
		Source:   chem.SourceKOSHA,
		Identity: identity,
		Raw:      raw,
	}
}

// search queries the chemlist endpoint and takes the first item.
func (c *Client) search(ctx context.Context, cas chem.CASNumber) (chem.Identity, string, error) {
	params := url.Values{
		"serviceKey": {c.serviceKey},
		"searchWrd":  {string(cas)},
		"searchCnd":  {"1"},
		"numOfRows":  {"10"},
		"pageNo":     {"1"},
	}

	items, err := c.fetchItems(ctx, "/chemlist", params)
	if err != nil {
		return chem.Identity{}, "", err
	}
	if len(items) == 0 {
		return chem.Identity{}, "", errNoResults
	}

	first := items[0]
	identity := chem.Identity{
		CAS:      cas,
		NameKo:   first["chemNameKor"],
		NameEn:   first["chemNameEng"],
		KENumber: first["keNo"],
		UNNumber: first["unNo"],
	}
	return identity, first["chemId"], nil
}

// fetchSection pulls one detail endpoint and appends its label/value pairs.
func (c *Client) fetchSection(ctx context.Context, chemID, section string, raw *chem.RawRecord) error {
	params := url.Values{
		"serviceKey": {c.serviceKey},
		"chemId":     {chemID},
	}

	items, err := c.fetchItems(ctx, "/"+section, params)
	if err != nil {
		return err
	}
	for _, item := range items {
		raw.Append(section, item["msdsItemNameKor"], item["itemDetail"])
	}
	return nil
}

func (c *Client) fetchItems(ctx context.Context, path string, params url.Values) ([]map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errBadStatus(resp.StatusCode)
	}
	return decodeItems(resp.Body)
}
