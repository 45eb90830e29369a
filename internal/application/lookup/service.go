// Package lookup resolves one CAS number against both government registries
// and folds the replies into a single canonical compliance record.
package lookup

import (
	"context"
	"time"

	"github.com/turtacn/ChemReg-Ledger/internal/domain/merge"
	"github.com/turtacn/ChemReg-Ledger/internal/domain/prtr"
	"github.com/turtacn/ChemReg-Ledger/internal/extraction"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/registry"
	"github.com/turtacn/ChemReg-Ledger/pkg/errors"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

// SourceStatus reports the outcome of one registry query within a lookup.
type SourceStatus struct {
	Source chem.Source `json:"source"`
	Found  bool        `json:"found"`
	Reason string      `json:"reason,omitempty"`
}

// Result is the merged outcome of querying every configured registry for one
// CAS number. Compliance carries the first-non-unknown-wins merge of all
// per-source extractions plus the PRTR table classification.
type Result struct {
	CAS        chem.CASNumber        `json:"cas"`
	Identity   chem.Identity         `json:"identity"`
	Compliance chem.ComplianceRecord `json:"compliance"`
	Sources    []SourceStatus        `json:"sources"`
}

// AnyFound reports whether at least one registry knew the substance.
func (r *Result) AnyFound() bool {
	for _, s := range r.Sources {
		if s.Found {
			return true
		}
	}
	return false
}

// Service resolves CAS numbers through the registries.
type Service interface {
	Lookup(ctx context.Context, cas chem.CASNumber) (*Result, error)
}

type service struct {
	clients    []registry.Client
	extractors map[chem.Source]*extraction.Extractor
	metrics    *prometheus.AppMetrics
	logger     logging.Logger
}

// NewService builds a lookup service over the given registry clients,
// queried in order. Clients are expected to be KOSHA and KECO; a client
// whose source has no extractor contributes identity only.
func NewService(clients []registry.Client, metrics *prometheus.AppMetrics, log logging.Logger) Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &service{
		clients: clients,
		extractors: map[chem.Source]*extraction.Extractor{
			chem.SourceKOSHA: extraction.NewKOSHAExtractor(),
			chem.SourceKECO:  extraction.NewKECOExtractor(),
		},
		metrics: metrics,
		logger:  log,
	}
}

func (s *service) Lookup(ctx context.Context, cas chem.CASNumber) (*Result, error) {
	cas = cas.Normalize()
	if cas == "" {
		return nil, errors.New(errors.ErrCodeInventoryMissingCAS, "CAS number is required")
	}

	result := &Result{CAS: cas, Identity: chem.Identity{CAS: cas}}
	var records []chem.ComplianceRecord

	for _, client := range s.clients {
		start := time.Now()
		res := client.Lookup(ctx, cas)
		s.metrics.RecordRegistryLookup(string(client.Source()), outcome(res), time.Since(start))

		result.Sources = append(result.Sources, SourceStatus{
			Source: res.Source,
			Found:  res.Found,
			Reason: res.Reason,
		})
		if !res.Found {
			s.logger.Info("registry lookup negative",
				logging.String("cas", cas.String()),
				logging.String("source", string(client.Source())),
				logging.String("reason", res.Reason))
			continue
		}

		mergeIdentity(&result.Identity, res.Identity)
		if extractor, ok := s.extractors[res.Source]; ok && res.Raw != nil {
			records = append(records, extractor.Extract(res.Raw))
		}
	}

	result.Compliance = merge.Records(prtr.Classify(cas), records...)
	return result, nil
}

func outcome(res registry.Result) string {
	if res.Found {
		return "found"
	}
	return "not_found"
}

// mergeIdentity fills empty identity fields from src; an already resolved
// field is never overwritten.
func mergeIdentity(dst *chem.Identity, src chem.Identity) {
	if dst.NameKo == "" {
		dst.NameKo = src.NameKo
	}
	if dst.NameEn == "" {
		dst.NameEn = src.NameEn
	}
	if dst.KENumber == "" {
		dst.KENumber = src.KENumber
	}
	if dst.UNNumber == "" {
		dst.UNNumber = src.UNNumber
	}
}
