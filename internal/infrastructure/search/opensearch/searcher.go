package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemReg-Ledger/pkg/errors"
)

const (
	defaultSearchSize = 20
	maxSearchSize     = 100
)

// NameHit is one inventory match with its relevance score.
type NameHit struct {
	Document InventoryDocument `json:"document"`
	Score    float64           `json:"score"`
}

// Searcher runs name queries against the inventory index.
type Searcher struct {
	client *Client
	logger logging.Logger
}

func NewSearcher(client *Client, log logging.Logger) *Searcher {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Searcher{client: client, logger: log}
}

// SearchByName matches query text against the Korean and English names,
// aliases and product names in the inventory. limit is clamped to
// [1, maxSearchSize]; zero means the default page size.
func (s *Searcher) SearchByName(ctx context.Context, query string, limit int) ([]NameHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New(errors.ErrCodeValidation, "search query must not be empty")
	}
	if limit <= 0 {
		limit = defaultSearchSize
	}
	if limit > maxSearchSize {
		limit = maxSearchSize
	}

	dsl := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name_ko^2", "name_en", "alias", "product_name"},
			},
		},
	}

	body, err := json.Marshal(dsl)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal search query")
	}

	req := opensearchapi.SearchRequest{
		Index: []string{s.client.IndexName(inventoryIndexSuffix)},
		Body:  bytes.NewReader(body),
	}

	start := time.Now()
	resp, err := req.Do(ctx, s.client.GetClient())
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.New(errors.ErrCodeTimeout, "search request timed out")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "search request failed")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, decodeError(resp, "inventory search failed")
	}

	var searchResp struct {
		Hits struct {
			Hits []struct {
				Score  float64           `json:"_score"`
				Source InventoryDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode search response")
	}

	hits := make([]NameHit, 0, len(searchResp.Hits.Hits))
	for _, h := range searchResp.Hits.Hits {
		hits = append(hits, NameHit{Document: h.Source, Score: h.Score})
	}

	s.logger.Debug("inventory name search executed",
		logging.String("query", query),
		logging.Int("hits", len(hits)),
		logging.Int64("took_ms", time.Since(start).Milliseconds()))

	return hits, nil
}
