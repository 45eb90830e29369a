// Package batch runs bulk inventory registration: a list of CAS numbers is
// accepted as one job, queued, and later executed item by item against the
// inventory service. One bad item never aborts the rest of the job.
package batch

import (
	"context"
	"sync"
	"time"

	"github.com/turtacn/ChemReg-Ledger/internal/application/inventory"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/database/redis"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ChemReg-Ledger/pkg/errors"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/common"
)

// defaultConcurrency bounds how many items one job resolves in parallel.
// Both registries rate-limit aggressively, so this stays small.
const defaultConcurrency = 5

// maxBatchItems caps one job's size so a single upload cannot occupy the
// worker for hours.
const maxBatchItems = 1000

// Adder is the slice of the inventory service a batch run needs.
type Adder interface {
	Add(ctx context.Context, input *inventory.AddInput) (*chem.InventoryRow, error)
}

// Producer publishes accepted jobs to the queue.
type Producer interface {
	Submit(ctx context.Context, job *chem.BatchJob) error
}

// Tracker records per-item outcomes so progress is queryable while the job
// runs.
type Tracker interface {
	Start(ctx context.Context, jobID string, total int) error
	RecordSuccess(ctx context.Context, jobID string, hazmat bool) error
	RecordSkip(ctx context.Context, jobID string) error
	RecordDuplicate(ctx context.Context, jobID string) error
	RecordFailure(ctx context.Context, jobID string) error
	Finish(ctx context.Context, jobID string) error
	Get(ctx context.Context, jobID string) (redis.Progress, error)
}

// Service accepts, executes, and reports on batch jobs. Submit runs on the
// API side; Run runs on the queue consumer side.
type Service interface {
	Submit(ctx context.Context, items []chem.BatchItem) (*chem.BatchJob, error)
	Run(ctx context.Context, job *chem.BatchJob) (chem.BatchSummary, error)
	Progress(ctx context.Context, jobID string) (redis.Progress, error)
}

type service struct {
	adder       Adder
	producer    Producer
	tracker     Tracker
	metrics     *prometheus.AppMetrics
	logger      logging.Logger
	concurrency int
	now         func() time.Time
}

// Option tunes the batch service.
type Option func(*service)

// WithWorkers overrides the worker pool size. Values below one are ignored.
func WithWorkers(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewService wires the batch pipeline. The producer may be nil when jobs are
// executed inline instead of queued.
func NewService(adder Adder, producer Producer, tracker Tracker, metrics *prometheus.AppMetrics, log logging.Logger, opts ...Option) Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	s := &service{
		adder:       adder,
		producer:    producer,
		tracker:     tracker,
		metrics:     metrics,
		logger:      log,
		concurrency: defaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates the item list, assigns a job ID, and enqueues the job.
func (s *service) Submit(ctx context.Context, items []chem.BatchItem) (*chem.BatchJob, error) {
	if len(items) == 0 {
		return nil, errors.New(errors.ErrCodeBatchJobMalformed, "batch job has no items")
	}
	if len(items) > maxBatchItems {
		return nil, errors.Newf(errors.ErrCodeBatchJobMalformed, "batch job exceeds %d items", maxBatchItems)
	}

	job := &chem.BatchJob{
		ID:          common.NewID(),
		Items:       items,
		Status:      chem.JobPending,
		SubmittedAt: s.now().UTC(),
	}
	if s.producer != nil {
		if err := s.producer.Submit(ctx, job); err != nil {
			return nil, err
		}
	}
	s.logger.Info("Batch job accepted",
		logging.String("job_id", string(job.ID)),
		logging.Int("items", len(items)))
	return job, nil
}

// Run executes every item of a job with a bounded worker pool and returns the
// outcome tally. Item failures are counted, not propagated; only context
// cancellation aborts the run.
func (s *service) Run(ctx context.Context, job *chem.BatchJob) (chem.BatchSummary, error) {
	jobID := string(job.ID)
	job.Status = chem.JobRunning
	s.trackerStart(ctx, jobID, len(job.Items))

	var (
		mu      sync.Mutex
		summary = chem.BatchSummary{Total: len(job.Items)}
		wg      sync.WaitGroup
		sem     = make(chan struct{}, s.concurrency)
	)

	cancelled := false
	for _, item := range job.Items {
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		select {
		case <-ctx.Done():
			cancelled = true
		case sem <- struct{}{}:
		}
		if cancelled {
			break
		}

		wg.Add(1)
		go func(item chem.BatchItem) {
			defer wg.Done()
			defer func() { <-sem }()

			outcome, hazmat := s.processItem(ctx, jobID, item)
			mu.Lock()
			switch outcome {
			case "succeeded":
				summary.Succeeded++
				if hazmat {
					summary.Hazardous++
				}
			case "skipped":
				summary.Skipped++
			case "duplicate":
				summary.Duplicates++
			default:
				summary.Failed++
			}
			mu.Unlock()
			s.metrics.RecordBatchItem(outcome)
		}(item)
	}
	wg.Wait()

	if cancelled {
		job.Status = chem.JobFailed
		job.Summary = summary
		s.metrics.RecordBatchJob(string(chem.JobFailed))
		return summary, errors.Wrap(ctx.Err(), errors.ErrCodeTimeout, "batch job aborted")
	}

	completedAt := s.now().UTC()
	job.Status = chem.JobCompleted
	job.Summary = summary
	job.CompletedAt = &completedAt
	s.trackerFinish(ctx, jobID)
	s.metrics.RecordBatchJob(string(chem.JobCompleted))

	s.logger.Info("Batch job completed",
		logging.String("job_id", jobID),
		logging.Int("total", summary.Total),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("skipped", summary.Skipped),
		logging.Int("duplicates", summary.Duplicates),
		logging.Int("failed", summary.Failed),
		logging.Int("hazardous", summary.Hazardous))
	return summary, nil
}

// Progress reports the live tally of a running or finished job.
func (s *service) Progress(ctx context.Context, jobID string) (redis.Progress, error) {
	if s.tracker == nil {
		return redis.Progress{}, errors.New(errors.ErrCodeServiceUnavailable, "progress tracking is not configured")
	}
	return s.tracker.Get(ctx, jobID)
}

// processItem registers one item and reports its outcome label. Tracker
// writes are best effort; the summary is the authoritative tally.
func (s *service) processItem(ctx context.Context, jobID string, item chem.BatchItem) (outcome string, hazmat bool) {
	cas := item.CAS.Normalize()
	if cas == "" {
		s.trackerRecord(ctx, jobID, func(t Tracker) error { return t.RecordSkip(ctx, jobID) })
		return "skipped", false
	}

	row, err := s.adder.Add(ctx, &inventory.AddInput{
		CAS:            cas,
		ProcessName:    item.ProcessName,
		Workplace:      item.Workplace,
		ProductName:    item.ProductName,
		Alias:          item.Alias,
		ContentPercent: item.ContentPercent,
	})
	switch {
	case err == nil:
		hazmat = row.Compliance.IsHazardous()
		s.trackerRecord(ctx, jobID, func(t Tracker) error { return t.RecordSuccess(ctx, jobID, hazmat) })
		return "succeeded", hazmat
	case errors.IsCode(err, errors.ErrCodeInventoryDuplicateCAS):
		s.trackerRecord(ctx, jobID, func(t Tracker) error { return t.RecordDuplicate(ctx, jobID) })
		return "duplicate", false
	default:
		s.logger.Warn("Batch item failed",
			logging.String("job_id", jobID),
			logging.String("cas", string(cas)),
			logging.Err(err))
		s.trackerRecord(ctx, jobID, func(t Tracker) error { return t.RecordFailure(ctx, jobID) })
		return "failed", false
	}
}

func (s *service) trackerStart(ctx context.Context, jobID string, total int) {
	if s.tracker == nil {
		return
	}
	if err := s.tracker.Start(ctx, jobID, total); err != nil {
		s.logger.Warn("Failed to start progress tracking",
			logging.String("job_id", jobID), logging.Err(err))
	}
}

func (s *service) trackerFinish(ctx context.Context, jobID string) {
	if s.tracker == nil {
		return
	}
	if err := s.tracker.Finish(ctx, jobID); err != nil {
		s.logger.Warn("Failed to finish progress tracking",
			logging.String("job_id", jobID), logging.Err(err))
	}
}

func (s *service) trackerRecord(ctx context.Context, jobID string, record func(Tracker) error) {
	if s.tracker == nil {
		return
	}
	if err := record(s.tracker); err != nil {
		s.logger.Warn("Failed to record batch progress",
			logging.String("job_id", jobID), logging.Err(err))
	}
}
