package batch

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemReg-Ledger/internal/application/inventory"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/database/redis"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/ChemReg-Ledger/pkg/errors"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

// fakeAdder maps CAS numbers to canned outcomes. Safe for concurrent use
// because Run fans items out to workers.
type fakeAdder struct {
	mu       sync.Mutex
	hazmat   map[chem.CASNumber]bool
	failures map[chem.CASNumber]error
	added    []chem.CASNumber
}

func (f *fakeAdder) Add(_ context.Context, input *inventory.AddInput) (*chem.InventoryRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failures[input.CAS]; ok {
		return nil, err
	}
	f.added = append(f.added, input.CAS)

	rec := chem.NewComplianceRecord()
	if f.hazmat[input.CAS] {
		rec.ToxicSubstance = chem.Applicable
	}
	return &chem.InventoryRow{
		Identity:   chem.Identity{CAS: input.CAS},
		Compliance: rec,
	}, nil
}

type fakeProducer struct {
	jobs []*chem.BatchJob
	err  error
}

func (f *fakeProducer) Submit(_ context.Context, job *chem.BatchJob) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

type fakeTracker struct {
	mu         sync.Mutex
	started    map[string]int
	succeeded  int
	hazmat     int
	skipped    int
	duplicates int
	failed     int
	finished   []string
	progress   redis.Progress
	getErr     error
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{started: map[string]int{}}
}

func (f *fakeTracker) Start(_ context.Context, jobID string, total int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started[jobID] = total
	return nil
}

func (f *fakeTracker) RecordSuccess(_ context.Context, _ string, hazmat bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.succeeded++
	if hazmat {
		f.hazmat++
	}
	return nil
}

func (f *fakeTracker) RecordSkip(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.skipped++
	return nil
}

func (f *fakeTracker) RecordDuplicate(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.duplicates++
	return nil
}

func (f *fakeTracker) RecordFailure(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed++
	return nil
}

func (f *fakeTracker) Finish(_ context.Context, jobID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finished = append(f.finished, jobID)
	return nil
}

func (f *fakeTracker) Get(_ context.Context, jobID string) (redis.Progress, error) {
	if f.getErr != nil {
		return redis.Progress{}, f.getErr
	}
	p := f.progress
	p.JobID = jobID
	return p, nil
}

func TestSubmitEnqueuesJob(t *testing.T) {
	producer := &fakeProducer{}
	svc := NewService(&fakeAdder{}, producer, newFakeTracker(), nil, logging.NewNopLogger())

	job, err := svc.Submit(context.Background(), []chem.BatchItem{
		{CAS: "108-88-3", ProcessName: "도장"},
		{CAS: "71-43-2"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, chem.JobPending, job.Status)
	assert.False(t, job.SubmittedAt.IsZero())
	require.Len(t, producer.jobs, 1)
	assert.Equal(t, job, producer.jobs[0])
}

func TestSubmitRejectsEmptyJob(t *testing.T) {
	svc := NewService(&fakeAdder{}, &fakeProducer{}, newFakeTracker(), nil, logging.NewNopLogger())

	_, err := svc.Submit(context.Background(), nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeBatchJobMalformed))
}

func TestSubmitRejectsOversizedJob(t *testing.T) {
	svc := NewService(&fakeAdder{}, &fakeProducer{}, newFakeTracker(), nil, logging.NewNopLogger())

	items := make([]chem.BatchItem, maxBatchItems+1)
	for i := range items {
		items[i] = chem.BatchItem{CAS: "108-88-3"}
	}
	_, err := svc.Submit(context.Background(), items)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeBatchJobMalformed))
}

func TestSubmitProducerFailure(t *testing.T) {
	producer := &fakeProducer{err: pkgerrors.New(pkgerrors.ErrCodeInternal, "broker down")}
	svc := NewService(&fakeAdder{}, producer, newFakeTracker(), nil, logging.NewNopLogger())

	_, err := svc.Submit(context.Background(), []chem.BatchItem{{CAS: "108-88-3"}})
	assert.Error(t, err)
}

func TestRunTalliesOutcomes(t *testing.T) {
	adder := &fakeAdder{
		hazmat: map[chem.CASNumber]bool{"108-88-3": true},
		failures: map[chem.CASNumber]error{
			"67-64-1": pkgerrors.New(pkgerrors.ErrCodeInventoryDuplicateCAS, "already listed"),
			"75-09-2": pkgerrors.New(pkgerrors.ErrCodeRegistryUnavailable, "kosha down"),
		},
	}
	tracker := newFakeTracker()
	svc := NewService(adder, nil, tracker, nil, logging.NewNopLogger())

	job := &chem.BatchJob{
		ID: "job-1",
		Items: []chem.BatchItem{
			{CAS: "108-88-3"},
			{CAS: " 71-43-2 "},
			{CAS: "   "},
			{CAS: "67-64-1"},
			{CAS: "75-09-2"},
		},
		Status: chem.JobPending,
	}
	summary, err := svc.Run(context.Background(), job)
	require.NoError(t, err)

	assert.Equal(t, chem.BatchSummary{
		Total:      5,
		Succeeded:  2,
		Skipped:    1,
		Duplicates: 1,
		Failed:     1,
		Hazardous:  1,
	}, summary)

	assert.Equal(t, chem.JobCompleted, job.Status)
	assert.Equal(t, summary, job.Summary)
	require.NotNil(t, job.CompletedAt)

	// Padded CAS numbers are normalized before registration.
	assert.Contains(t, adder.added, chem.CASNumber("71-43-2"))

	assert.Equal(t, 5, tracker.started["job-1"])
	assert.Equal(t, 2, tracker.succeeded)
	assert.Equal(t, 1, tracker.hazmat)
	assert.Equal(t, 1, tracker.skipped)
	assert.Equal(t, 1, tracker.duplicates)
	assert.Equal(t, 1, tracker.failed)
	assert.Equal(t, []string{"job-1"}, tracker.finished)
}

func TestRunWithoutTracker(t *testing.T) {
	svc := NewService(&fakeAdder{}, nil, nil, nil, logging.NewNopLogger())

	job := &chem.BatchJob{ID: "job-2", Items: []chem.BatchItem{{CAS: "108-88-3"}}}
	summary, err := svc.Run(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)
}

func TestRunAbortsOnCancelledContext(t *testing.T) {
	adder := &fakeAdder{}
	svc := NewService(adder, nil, newFakeTracker(), nil, logging.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job := &chem.BatchJob{ID: "job-3", Items: []chem.BatchItem{{CAS: "108-88-3"}, {CAS: "71-43-2"}}}
	summary, err := svc.Run(ctx, job)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeTimeout))
	assert.Equal(t, chem.JobFailed, job.Status)
	assert.Zero(t, summary.Succeeded)
	assert.Empty(t, adder.added)
}

func TestProgressDelegatesToTracker(t *testing.T) {
	tracker := newFakeTracker()
	tracker.progress = redis.Progress{Status: "running", Total: 10, Processed: 4}
	svc := NewService(&fakeAdder{}, nil, tracker, nil, logging.NewNopLogger())

	p, err := svc.Progress(context.Background(), "job-4")
	require.NoError(t, err)
	assert.Equal(t, "job-4", p.JobID)
	assert.Equal(t, 4, p.Processed)
}

func TestProgressWithoutTracker(t *testing.T) {
	svc := NewService(&fakeAdder{}, nil, nil, nil, logging.NewNopLogger())

	_, err := svc.Progress(context.Background(), "job-5")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeServiceUnavailable))
}
