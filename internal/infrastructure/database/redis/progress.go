package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/turtacn/ChemReg-Ledger/pkg/errors"
)

// Batch job states as stored in the progress hash.
const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
)

const (
	fieldStatus     = "status"
	fieldTotal      = "total"
	fieldProcessed  = "processed"
	fieldSucceeded  = "succeeded"
	fieldSkipped    = "skipped"
	fieldDuplicates = "duplicates"
	fieldFailed     = "failed"
	fieldHazmat     = "hazmat"
)

// Progress is the live state of one batch lookup job.
type Progress struct {
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

// ProgressTracker keeps batch job progress in a Redis hash so the API can
// answer status queries while the worker chews through the job.
type ProgressTracker struct {
	client *Client
	ttl    time.Duration
}

// NewProgressTracker builds a tracker; ttl bounds how long finished job
// state stays queryable.
func NewProgressTracker(client *Client, ttl time.Duration) *ProgressTracker {
	return &ProgressTracker{client: client, ttl: ttl}
}

func (t *ProgressTracker) key(jobID string) string {
	return t.client.Key("batch", jobID)
}

// Start registers a job with its item count.
func (t *ProgressTracker) Start(ctx context.Context, jobID string, total int) error {
	key := t.key(jobID)
	err := t.client.HSet(ctx, key,
		fieldStatus, JobStatusRunning,
		fieldTotal, total,
		fieldProcessed, 0,
		fieldSucceeded, 0,
		fieldSkipped, 0,
		fieldDuplicates, 0,
		fieldFailed, 0,
		fieldHazmat, 0,
	).Err()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to start job progress")
	}
	return t.client.Expire(ctx, key, t.ttl).Err()
}

// RecordSuccess counts one stored row, flagging hazmat rows separately.
func (t *ProgressTracker) RecordSuccess(ctx context.Context, jobID string, hazmat bool) error {
	if hazmat {
		if err := t.client.HIncrBy(ctx, t.key(jobID), fieldHazmat, 1).Err(); err != nil {
			return err
		}
	}
	return t.advance(ctx, jobID, fieldSucceeded)
}

// RecordSkip counts one item skipped for a missing CAS number.
func (t *ProgressTracker) RecordSkip(ctx context.Context, jobID string) error {
	return t.advance(ctx, jobID, fieldSkipped)
}

// RecordDuplicate counts one item rejected by the dedup check.
func (t *ProgressTracker) RecordDuplicate(ctx context.Context, jobID string) error {
	return t.advance(ctx, jobID, fieldDuplicates)
}

// RecordFailure counts one item that errored out. Failures never abort the
// batch; they surface in this count only.
func (t *ProgressTracker) RecordFailure(ctx context.Context, jobID string) error {
	return t.advance(ctx, jobID, fieldFailed)
}

func (t *ProgressTracker) advance(ctx context.Context, jobID, outcomeField string) error {
	key := t.key(jobID)
	if err := t.client.HIncrBy(ctx, key, outcomeField, 1).Err(); err != nil {
		return err
	}
	return t.client.HIncrBy(ctx, key, fieldProcessed, 1).Err()
}

// Finish marks a job completed.
func (t *ProgressTracker) Finish(ctx context.Context, jobID string) error {
	return t.client.HSet(ctx, t.key(jobID), fieldStatus, JobStatusCompleted).Err()
}

// Get loads the progress of a job. A job Redis no longer knows about is
// reported as not found.
func (t *ProgressTracker) Get(ctx context.Context, jobID string) (Progress, error) {
	fields, err := t.client.HGetAll(ctx, t.key(jobID)).Result()
	if err != nil {
		return Progress{}, errors.Wrap(err, errors.ErrCodeCacheError, "failed to read job progress")
	}
	if len(fields) == 0 {
		return Progress{}, errors.New(errors.ErrCodeBatchJobNotFound, "batch job not found")
	}
	return Progress{
		JobID:      jobID,
		Status:     fields[fieldStatus],
		Total:      atoi(fields[fieldTotal]),
		Processed:  atoi(fields[fieldProcessed]),
		Succeeded:  atoi(fields[fieldSucceeded]),
		Skipped:    atoi(fields[fieldSkipped]),
		Duplicates: atoi(fields[fieldDuplicates]),
		Failed:     atoi(fields[fieldFailed]),
		Hazmat:     atoi(fields[fieldHazmat]),
	}, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
