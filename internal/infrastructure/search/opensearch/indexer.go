package opensearch

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemReg-Ledger/pkg/errors"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

const inventoryIndexSuffix = "inventory"

var (
	ErrIndexCreationFailed = errors.New(errors.ErrCodeInternal, "index creation failed")
	ErrDocumentIndexFailed = errors.New(errors.ErrCodeInternal, "document index failed")
)

// InventoryDocument is the search projection of one ledger row.
// The document ID is the normalized CAS number, so re-indexing a row
// overwrites its previous version.
type InventoryDocument struct {
	CAS            string `json:"cas"`
	NameKo         string `json:"name_ko"`
	NameEn         string `json:"name_en"`
	Alias          string `json:"alias"`
	ProductName    string `json:"product_name"`
	ProcessName    string `json:"process_name"`
	Workplace      string `json:"workplace"`
	Hazardous      bool   `json:"hazardous"`
	PRTRApplicable bool   `json:"prtr_applicable"`
}

// DocumentFromRow projects a ledger row into its search document.
func DocumentFromRow(row *chem.InventoryRow) InventoryDocument {
	return InventoryDocument{
		CAS:            row.Identity.CAS.Normalize().String(),
		NameKo:         row.Identity.NameKo,
		NameEn:         row.Identity.NameEn,
		Alias:          row.Alias,
		ProductName:    row.ProductName,
		ProcessName:    row.ProcessName,
		Workplace:      row.Workplace,
		Hazardous:      row.Compliance.IsHazardous(),
		PRTRApplicable: !chem.IsUnknown(row.Compliance.PRTRApplicable),
	}
}

// Indexer maintains the inventory search index.
type Indexer struct {
	client *Client
	logger logging.Logger
}

func NewIndexer(client *Client, log logging.Logger) *Indexer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Indexer{client: client, logger: log}
}

// EnsureIndex creates the inventory index if it does not exist yet.
func (i *Indexer) EnsureIndex(ctx context.Context) error {
	indexName := i.client.IndexName(inventoryIndexSuffix)

	existsReq := opensearchapi.IndicesExistsRequest{Index: []string{indexName}}
	resp, err := existsReq.Do(ctx, i.client.GetClient())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to check index existence")
	}
	resp.Body.Close()
	if resp.StatusCode == 200 {
		return nil
	}

	body, err := json.Marshal(inventoryMapping())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal index mapping")
	}

	createReq := opensearchapi.IndicesCreateRequest{
		Index: indexName,
		Body:  bytes.NewReader(body),
	}
	resp, err = createReq.Do(ctx, i.client.GetClient())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create index request")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return decodeError(resp, ErrIndexCreationFailed.Error())
	}

	i.logger.Info("inventory index created", logging.String("index", indexName))
	return nil
}

// IndexRow upserts the search document for one ledger row.
func (i *Indexer) IndexRow(ctx context.Context, row *chem.InventoryRow) error {
	doc := DocumentFromRow(row)
	if doc.CAS == "" {
		return errors.New(errors.ErrCodeInventoryMissingCAS, "inventory row has no CAS number")
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal inventory document")
	}

	req := opensearchapi.IndexRequest{
		Index:      i.client.IndexName(inventoryIndexSuffix),
		DocumentID: doc.CAS,
		Body:       bytes.NewReader(body),
		Refresh:    "true",
	}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to index inventory document")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return decodeError(resp, ErrDocumentIndexFailed.Error())
	}

	return nil
}

// DeleteRow removes the search document for a CAS number. A missing
// document is not an error so deletes stay idempotent with the ledger.
func (i *Indexer) DeleteRow(ctx context.Context, cas chem.CASNumber) error {
	req := opensearchapi.DeleteRequest{
		Index:      i.client.IndexName(inventoryIndexSuffix),
		DocumentID: cas.Normalize().String(),
		Refresh:    "true",
	}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to delete inventory document")
	}
	defer resp.Body.Close()

	if resp.StatusCode == 404 {
		return nil
	}
	if resp.IsError() {
		return decodeError(resp, "delete inventory document failed")
	}

	return nil
}

// inventoryMapping keeps CAS and flag fields as keywords and analyzes
// the name fields with the nori tokenizer for Korean substance names.
// Requires the analysis-nori plugin on the cluster.
func inventoryMapping() map[string]interface{} {
	koreanText := map[string]interface{}{
		"type":     "text",
		"analyzer": "korean",
	}

	return map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 1,
			"analysis": map[string]interface{}{
				"analyzer": map[string]interface{}{
					"korean": map[string]interface{}{
						"type":      "custom",
						"tokenizer": "nori_tokenizer",
					},
				},
			},
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"cas":             map[string]interface{}{"type": "keyword"},
				"name_ko":         koreanText,
				"name_en":         map[string]interface{}{"type": "text"},
				"alias":           koreanText,
				"product_name":    koreanText,
				"process_name":    koreanText,
				"workplace":       map[string]interface{}{"type": "keyword"},
				"hazardous":       map[string]interface{}{"type": "boolean"},
				"prtr_applicable": map[string]interface{}{"type": "boolean"},
			},
		},
	}
}
