// Package inventory is the application service for the company ledger: one
// row per CAS number, populated from the registry lookup pipeline.
package inventory

import (
	"context"
	"time"

	"github.com/turtacn/ChemReg-Ledger/internal/application/lookup"
	"github.com/turtacn/ChemReg-Ledger/internal/domain/emission"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/search/opensearch"
	"github.com/turtacn/ChemReg-Ledger/pkg/errors"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

// Repository is the persistence contract the service depends on.
type Repository interface {
	Save(ctx context.Context, row *chem.InventoryRow) error
	ExistsByCAS(ctx context.Context, cas chem.CASNumber) (bool, error)
	FindByCAS(ctx context.Context, cas chem.CASNumber) (*chem.InventoryRow, error)
	List(ctx context.Context) ([]*chem.InventoryRow, error)
	DeleteByCAS(ctx context.Context, cas chem.CASNumber) error
	SaveEmission(ctx context.Context, cas chem.CASNumber, estimate *chem.EmissionEstimate) error
	Summary(ctx context.Context) (chem.InventorySummary, error)
}

// SearchIndex mirrors ledger rows into the name-search index. Indexing is
// best-effort: the ledger row is the source of truth and an index failure
// must not fail the write.
type SearchIndex interface {
	IndexRow(ctx context.Context, row *chem.InventoryRow) error
	DeleteRow(ctx context.Context, cas chem.CASNumber) error
}

// NameSearcher answers free-text name queries over the index.
type NameSearcher interface {
	SearchByName(ctx context.Context, query string, limit int) ([]opensearch.NameHit, error)
}

// AddInput is one row to add: a CAS number plus user-supplied context.
type AddInput struct {
	CAS            chem.CASNumber `json:"cas"`
	ProcessName    string         `json:"process_name"`
	Workplace      string         `json:"workplace"`
	ProductName    string         `json:"product_name"`
	Alias          string         `json:"alias"`
	ContentPercent string         `json:"content_percent"`
}

// EmissionInput selects a tier and carries that tier's readings.
type EmissionInput struct {
	Method      chem.Tier                    `json:"method"`
	StandardO2  *float64                     `json:"standard_o2,omitempty"`
	Continuous  []emission.ContinuousReading `json:"continuous,omitempty"`
	Periodic    []emission.PeriodicReading   `json:"periodic,omitempty"`
	MassBalance []emission.MassBalanceRow    `json:"mass_balance,omitempty"`
	Factors     []emission.FactorRow         `json:"factors,omitempty"`
}

// Service exposes the ledger operations.
type Service interface {
	Add(ctx context.Context, input *AddInput) (*chem.InventoryRow, error)
	Get(ctx context.Context, cas chem.CASNumber) (*chem.InventoryRow, error)
	List(ctx context.Context) ([]*chem.InventoryRow, error)
	Delete(ctx context.Context, cas chem.CASNumber) error
	Summary(ctx context.Context) (chem.InventorySummary, error)
	Search(ctx context.Context, query string, limit int) ([]opensearch.NameHit, error)
	CalculateEmission(ctx context.Context, cas chem.CASNumber, input *EmissionInput) (*chem.EmissionEstimate, error)
}

type service struct {
	repo     Repository
	lookups  lookup.Service
	index    SearchIndex
	searcher NameSearcher
	metrics  *prometheus.AppMetrics
	logger   logging.Logger
	now      func() time.Time
}

// NewService wires the ledger service. index and searcher may be nil when
// the search cluster is not deployed; Search then reports unavailability.
func NewService(repo Repository, lookups lookup.Service, index SearchIndex, searcher NameSearcher, metrics *prometheus.AppMetrics, log logging.Logger) Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &service{
		repo:     repo,
		lookups:  lookups,
		index:    index,
		searcher: searcher,
		metrics:  metrics,
		logger:   log,
		now:      time.Now,
	}
}

// Add resolves the CAS number through the registries and inserts one ledger
// row. A second row for the same CAS is rejected before any registry call is
// made: at most one row per CAS per inventory.
func (s *service) Add(ctx context.Context, input *AddInput) (*chem.InventoryRow, error) {
	cas := input.CAS.Normalize()
	if cas == "" {
		return nil, errors.New(errors.ErrCodeInventoryMissingCAS, "CAS number is required")
	}

	exists, err := s.repo.ExistsByCAS(ctx, cas)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Newf(errors.ErrCodeInventoryDuplicateCAS, "CAS %s is already in the inventory", cas)
	}

	resolved, err := s.lookups.Lookup(ctx, cas)
	if err != nil {
		return nil, err
	}

	row := &chem.InventoryRow{
		ProcessName:    input.ProcessName,
		Workplace:      input.Workplace,
		ProductName:    input.ProductName,
		Alias:          input.Alias,
		Identity:       resolved.Identity,
		ContentPercent: input.ContentPercent,
		Compliance:     resolved.Compliance,
	}

	if err := s.repo.Save(ctx, row); err != nil {
		return nil, err
	}

	s.indexRow(ctx, row)

	s.logger.Info("inventory row added",
		logging.String("cas", cas.String()),
		logging.String("name_ko", row.Identity.NameKo),
		logging.Bool("hazardous", row.Compliance.IsHazardous()))
	return row, nil
}

func (s *service) Get(ctx context.Context, cas chem.CASNumber) (*chem.InventoryRow, error) {
	return s.repo.FindByCAS(ctx, cas.Normalize())
}

func (s *service) List(ctx context.Context) ([]*chem.InventoryRow, error) {
	return s.repo.List(ctx)
}

func (s *service) Delete(ctx context.Context, cas chem.CASNumber) error {
	cas = cas.Normalize()
	if err := s.repo.DeleteByCAS(ctx, cas); err != nil {
		return err
	}
	if s.index != nil {
		if err := s.index.DeleteRow(ctx, cas); err != nil {
			s.logger.Warn("failed to remove row from search index",
				logging.String("cas", cas.String()), logging.Err(err))
		}
	}
	return nil
}

func (s *service) Summary(ctx context.Context) (chem.InventorySummary, error) {
	return s.repo.Summary(ctx)
}

func (s *service) Search(ctx context.Context, query string, limit int) ([]opensearch.NameHit, error) {
	if s.searcher == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "name search is not configured")
	}
	return s.searcher.SearchByName(ctx, query, limit)
}

// CalculateEmission runs the selected tier over the supplied readings and
// attaches the estimate to the row, overwriting any previous estimate.
func (s *service) CalculateEmission(ctx context.Context, cas chem.CASNumber, input *EmissionInput) (*chem.EmissionEstimate, error) {
	cas = cas.Normalize()
	if _, err := s.repo.FindByCAS(ctx, cas); err != nil {
		return nil, err
	}

	var amount float64
	switch input.Method {
	case chem.TierContinuous:
		amount = emission.Tier1Continuous(input.Continuous, input.StandardO2)
	case chem.TierPeriodic:
		amount = emission.Tier2Periodic(input.Periodic)
	case chem.TierMassBalance:
		amount = emission.Tier3MassBalance(input.MassBalance)
	case chem.TierEmissionFactor:
		amount = emission.Tier4EmissionFactor(input.Factors)
	default:
		return nil, errors.Newf(errors.ErrCodeEmissionUnknownTier, "unknown emission tier %q", input.Method)
	}

	estimate := &chem.EmissionEstimate{
		AmountKg:     amount,
		Method:       input.Method,
		CalculatedAt: s.now().UTC(),
	}
	if err := s.repo.SaveEmission(ctx, cas, estimate); err != nil {
		return nil, err
	}

	s.metrics.RecordEmissionCalculation(string(input.Method))
	return estimate, nil
}

func (s *service) indexRow(ctx context.Context, row *chem.InventoryRow) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexRow(ctx, row); err != nil {
		s.logger.Warn("failed to index inventory row",
			logging.String("cas", row.Identity.CAS.String()), logging.Err(err))
	}
}
