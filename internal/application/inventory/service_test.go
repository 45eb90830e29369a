package inventory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemReg-Ledger/internal/application/lookup"
	"github.com/turtacn/ChemReg-Ledger/internal/domain/emission"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/search/opensearch"
	pkgerrors "github.com/turtacn/ChemReg-Ledger/pkg/errors"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/common"
)

type fakeRepo struct {
	rows      map[chem.CASNumber]*chem.InventoryRow
	saveErr   error
	existsErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[chem.CASNumber]*chem.InventoryRow{}}
}

func (f *fakeRepo) Save(_ context.Context, row *chem.InventoryRow) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	cas := row.Identity.CAS
	if _, ok := f.rows[cas]; ok {
		return pkgerrors.Newf(pkgerrors.ErrCodeInventoryDuplicateCAS, "CAS %s already present", cas)
	}
	if row.ID == "" {
		row.ID = common.NewID()
	}
	f.rows[cas] = row
	return nil
}

func (f *fakeRepo) ExistsByCAS(_ context.Context, cas chem.CASNumber) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.rows[cas]
	return ok, nil
}

func (f *fakeRepo) FindByCAS(_ context.Context, cas chem.CASNumber) (*chem.InventoryRow, error) {
	row, ok := f.rows[cas]
	if !ok {
		return nil, pkgerrors.Newf(pkgerrors.ErrCodeInventoryRowNotFound, "no row for CAS %s", cas)
	}
	return row, nil
}

func (f *fakeRepo) List(_ context.Context) ([]*chem.InventoryRow, error) {
	out := make([]*chem.InventoryRow, 0, len(f.rows))
	for _, row := range f.rows {
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeRepo) DeleteByCAS(_ context.Context, cas chem.CASNumber) error {
	if _, ok := f.rows[cas]; !ok {
		return pkgerrors.Newf(pkgerrors.ErrCodeInventoryRowNotFound, "no row for CAS %s", cas)
	}
	delete(f.rows, cas)
	return nil
}

func (f *fakeRepo) SaveEmission(_ context.Context, cas chem.CASNumber, estimate *chem.EmissionEstimate) error {
	row, ok := f.rows[cas]
	if !ok {
		return pkgerrors.Newf(pkgerrors.ErrCodeInventoryRowNotFound, "no row for CAS %s", cas)
	}
	row.Emission = estimate
	return nil
}

func (f *fakeRepo) Summary(_ context.Context) (chem.InventorySummary, error) {
	s := chem.InventorySummary{Total: len(f.rows)}
	for _, row := range f.rows {
		if row.Compliance.IsHazardous() {
			s.Hazardous++
		}
		if !chem.IsUnknown(row.Compliance.PRTRApplicable) {
			s.PRTRApplicable++
		}
		if row.Emission != nil {
			s.WithEmission++
		}
	}
	return s, nil
}

type fakeLookup struct {
	results map[chem.CASNumber]*lookup.Result
	calls   int
}

func (f *fakeLookup) Lookup(_ context.Context, cas chem.CASNumber) (*lookup.Result, error) {
	f.calls++
	cas = cas.Normalize()
	if res, ok := f.results[cas]; ok {
		return res, nil
	}
	rec := chem.NewComplianceRecord()
	return &lookup.Result{
		CAS:        cas,
		Identity:   chem.Identity{CAS: cas},
		Compliance: rec,
		Sources: []lookup.SourceStatus{
			{Source: chem.SourceKOSHA, Found: false, Reason: "미등록 물질"},
		},
	}, nil
}

type fakeIndex struct {
	indexed []chem.CASNumber
	deleted []chem.CASNumber
	err     error
}

func (f *fakeIndex) IndexRow(_ context.Context, row *chem.InventoryRow) error {
	if f.err != nil {
		return f.err
	}
	f.indexed = append(f.indexed, row.Identity.CAS)
	return nil
}

func (f *fakeIndex) DeleteRow(_ context.Context, cas chem.CASNumber) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, cas)
	return nil
}

func tolueneLookup() *fakeLookup {
	rec := chem.NewComplianceRecord()
	rec.ToxicSubstance = chem.Applicable
	rec.PRTRApplicable = chem.Applicable
	return &fakeLookup{results: map[chem.CASNumber]*lookup.Result{
		"108-88-3": {
			CAS: "108-88-3",
			Identity: chem.Identity{
				CAS:    "108-88-3",
				NameKo: "톨루엔",
				NameEn: "Toluene",
			},
			Compliance: rec,
			Sources: []lookup.SourceStatus{
				{Source: chem.SourceKOSHA, Found: true},
				{Source: chem.SourceKECO, Found: true},
			},
		},
	}}
}

func newFixture() (Service, *fakeRepo, *fakeLookup, *fakeIndex) {
	repo := newFakeRepo()
	lookups := tolueneLookup()
	index := &fakeIndex{}
	svc := NewService(repo, lookups, index, nil, nil, nil)
	return svc, repo, lookups, index
}

func TestAddResolvesAndStores(t *testing.T) {
	svc, repo, _, index := newFixture()

	row, err := svc.Add(context.Background(), &AddInput{
		CAS:            " 108-88-3 ",
		ProcessName:    "도장",
		ProductName:    "신너",
		ContentPercent: "85",
	})
	require.NoError(t, err)

	assert.Equal(t, "톨루엔", row.Identity.NameKo)
	assert.Equal(t, chem.Applicable, row.Compliance.ToxicSubstance)
	assert.Contains(t, repo.rows, chem.CASNumber("108-88-3"))
	assert.Equal(t, []chem.CASNumber{"108-88-3"}, index.indexed)
}

func TestAddDuplicateRejectedBeforeLookup(t *testing.T) {
	svc, _, lookups, _ := newFixture()

	_, err := svc.Add(context.Background(), &AddInput{CAS: "108-88-3"})
	require.NoError(t, err)
	require.Equal(t, 1, lookups.calls)

	_, err = svc.Add(context.Background(), &AddInput{CAS: "108-88-3"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeInventoryDuplicateCAS))
	assert.Equal(t, 1, lookups.calls)
}

func TestAddMissingCAS(t *testing.T) {
	svc, _, _, _ := newFixture()

	_, err := svc.Add(context.Background(), &AddInput{CAS: "  "})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeInventoryMissingCAS))
}

func TestAddUnregisteredSubstanceStillStored(t *testing.T) {
	// A substance neither registry knows degrades to unknown fields, it is
	// not rejected.
	svc, repo, _, _ := newFixture()

	row, err := svc.Add(context.Background(), &AddInput{CAS: "0-00-0", ProcessName: "세척"})
	require.NoError(t, err)

	assert.Equal(t, chem.Unknown, row.Compliance.ToxicSubstance)
	assert.Contains(t, repo.rows, chem.CASNumber("0-00-0"))
}

func TestAddIndexFailureDoesNotFailWrite(t *testing.T) {
	repo := newFakeRepo()
	index := &fakeIndex{err: fmt.Errorf("cluster down")}
	svc := NewService(repo, tolueneLookup(), index, nil, nil, nil)

	_, err := svc.Add(context.Background(), &AddInput{CAS: "108-88-3"})
	assert.NoError(t, err)
	assert.Contains(t, repo.rows, chem.CASNumber("108-88-3"))
}

func TestDeleteRemovesRowAndIndexEntry(t *testing.T) {
	svc, repo, _, index := newFixture()

	_, err := svc.Add(context.Background(), &AddInput{CAS: "108-88-3"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "108-88-3"))
	assert.Empty(t, repo.rows)
	assert.Equal(t, []chem.CASNumber{"108-88-3"}, index.deleted)

	err = svc.Delete(context.Background(), "108-88-3")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeInventoryRowNotFound))
}

func TestCalculateEmissionMassBalance(t *testing.T) {
	svc, repo, _, _ := newFixture()

	_, err := svc.Add(context.Background(), &AddInput{CAS: "108-88-3"})
	require.NoError(t, err)

	estimate, err := svc.CalculateEmission(context.Background(), "108-88-3", &EmissionInput{
		Method: chem.TierMassBalance,
		MassBalance: []emission.MassBalanceRow{
			{Input: 1000, Recovered: 400, Destroyed: 500},
			{Input: 100, Recovered: 150, Destroyed: 0},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 100.0, estimate.AmountKg)
	assert.Equal(t, chem.TierMassBalance, estimate.Method)
	assert.False(t, estimate.CalculatedAt.IsZero())
	assert.Same(t, estimate, repo.rows["108-88-3"].Emission)
}

func TestCalculateEmissionOverwritesPrevious(t *testing.T) {
	svc, repo, _, _ := newFixture()

	_, err := svc.Add(context.Background(), &AddInput{CAS: "108-88-3"})
	require.NoError(t, err)

	_, err = svc.CalculateEmission(context.Background(), "108-88-3", &EmissionInput{
		Method:      chem.TierMassBalance,
		MassBalance: []emission.MassBalanceRow{{Input: 1000, Recovered: 400, Destroyed: 500}},
	})
	require.NoError(t, err)

	second, err := svc.CalculateEmission(context.Background(), "108-88-3", &EmissionInput{
		Method:  chem.TierEmissionFactor,
		Factors: []emission.FactorRow{{Activity: 15000, Factor: 0.002, ControlEfficiency: 90}},
	})
	require.NoError(t, err)

	assert.InDelta(t, 3.0, second.AmountKg, 1e-9)
	assert.Equal(t, chem.TierEmissionFactor, repo.rows["108-88-3"].Emission.Method)
}

func TestCalculateEmissionUnknownTier(t *testing.T) {
	svc, _, _, _ := newFixture()

	_, err := svc.Add(context.Background(), &AddInput{CAS: "108-88-3"})
	require.NoError(t, err)

	_, err = svc.CalculateEmission(context.Background(), "108-88-3", &EmissionInput{Method: "TIER9"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeEmissionUnknownTier))
}

func TestCalculateEmissionRowNotFound(t *testing.T) {
	svc, _, _, _ := newFixture()

	_, err := svc.CalculateEmission(context.Background(), "64-17-5", &EmissionInput{Method: chem.TierPeriodic})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeInventoryRowNotFound))
}

func TestSummaryCounts(t *testing.T) {
	svc, _, _, _ := newFixture()

	_, err := svc.Add(context.Background(), &AddInput{CAS: "108-88-3"})
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), &AddInput{CAS: "0-00-0"})
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, chem.InventorySummary{Total: 2, Hazardous: 1, PRTRApplicable: 1}, summary)
}

func TestSearchWithoutClusterConfigured(t *testing.T) {
	svc := NewService(newFakeRepo(), tolueneLookup(), nil, nil, nil, nil)

	_, err := svc.Search(context.Background(), "톨루엔", 10)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeServiceUnavailable))
}

func TestSearchDelegatesToSearcher(t *testing.T) {
	hits := []opensearch.NameHit{{Document: opensearch.InventoryDocument{CAS: "108-88-3"}, Score: 1.5}}
	svc := NewService(newFakeRepo(), tolueneLookup(), nil, stubSearcher{hits: hits}, nil, nil)

	got, err := svc.Search(context.Background(), "톨루엔", 10)
	require.NoError(t, err)
	assert.Equal(t, hits, got)
}

type stubSearcher struct {
	hits []opensearch.NameHit
}

func (s stubSearcher) SearchByName(_ context.Context, _ string, _ int) ([]opensearch.NameHit, error) {
	return s.hits, nil
}
