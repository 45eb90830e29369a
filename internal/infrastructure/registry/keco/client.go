// Package keco implements the environmental substance-registry client. The
// registry answers JSON; one search call returns the substance identity and
// its classification list in the same reply, so no follow-up calls are made.
package keco

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/turtacn/ChemReg-Ledger/internal/config"
	"github.com/turtacn/ChemReg-Ledger/internal/extraction"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/registry"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

const (
	reasonNotRegistered = "미등록 물질"

	// searchByCAS is the searchGubun discriminator for CAS-number queries.
	searchByCAS = "2"

	resultOK = "200"

	// unqNoPlaceholder marks classification entries that carry no real
	// registry number.
	unqNoPlaceholder = "V"
)

type searchResponse struct {
	Header struct {
		ResultCode string `json:"resultCode"`
		ResultMsg  string `json:"resultMsg"`
	} `json:"header"`
	Body struct {
		Items []searchItem `json:"items"`
	} `json:"body"`
}

type searchItem struct {
	CASNo    string              `json:"casNo"`
	KorExst  string              `json:"korexst"`
	NameKor  string              `json:"sbstnNmKor"`
	NameEng  string              `json:"sbstnNmEng"`
	TypeList []classificationRow `json:"typeList"`
}

type classificationRow struct {
	TypeName    string `json:"sbstnClsfTypeNm"`
	UniqueNo    string `json:"unqNo"`
	ContentInfo string `json:"contInfo"`
	ExceptInfo  string `json:"excpInfo"`
}

// Client talks to the KECO chemical-registration open API.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     logging.Logger
}

// NewClient builds a KECO client from the registry endpoint configuration.
func NewClient(cfg config.RegistryEndpointConfig, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

func (c *Client) Source() chem.Source {
	return chem.SourceKECO
}

// Lookup resolves a CAS number to its classification raw record. Any failure
// degrades to a not-found result.
func (c *Client) Lookup(ctx context.Context, cas chem.CASNumber) registry.Result {
	cas = cas.Normalize()

	item, err := c.search(ctx, cas)
	if err != nil {
		c.logger.Warn("keco search failed",
			logging.String("cas", string(cas)),
			logging.Err(err))
		return registry.NotFound(chem.SourceKECO, cas, reasonNotRegistered)
	}

	identity := chem.Identity{
		CAS:      cas,
		NameKo:   item.NameKor,
		NameEn:   item.NameEng,
		KENumber: item.KorExst,
	}
	if echoed := chem.CASNumber(item.CASNo).Normalize(); echoed != "" {
		identity.CAS = echoed
	}

	raw := &chem.RawRecord{}
	for _, row := range item.TypeList {
		if row.TypeName == "" {
			continue
		}
		raw.Append(extraction.SectionKECOClassification, row.TypeName, row.ContentInfo)
		if row.ContentInfo != "" {
			raw.Append(extraction.SectionKECODetail, row.TypeName+" 함량정보", row.ContentInfo)
		}
		if row.ExceptInfo != "" {
			raw.Append(extraction.SectionKECODetail, row.TypeName+" 예외정보", row.ExceptInfo)
		}
		if row.UniqueNo != "" && row.UniqueNo != unqNoPlaceholder {
			raw.Append(extraction.SectionKECODetail, row.TypeName+" 번호", row.UniqueNo)
		}
	}

	return registry.Result{
		Found:    true,
		Source:   chem.SourceKECO,
		Identity: identity,
		Raw:      raw,
	}
}

func (c *Client) search(ctx context.Context, cas chem.CASNumber) (searchItem, error) {
	params := url.Values{
		"serviceKey":  {c.serviceKey},
		"pageNo":      {"1"},
		"numOfRows":   {"10"},
		"searchGubun": {searchByCAS},
		"searchNm":    {string(cas)},
		"returnType":  {"JSON"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return searchItem{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return searchItem{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return searchItem{}, fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return searchItem{}, fmt.Errorf("malformed JSON body: %w", err)
	}
	if decoded.Header.ResultCode != resultOK {
		return searchItem{}, fmt.Errorf("registry result %s: %s",
			decoded.Header.ResultCode, decoded.Header.ResultMsg)
	}
	if len(decoded.Body.Items) == 0 {
		return searchItem{}, fmt.Errorf("no items in reply")
	}
	return decoded.Body.Items[0], nil
}
