package kafka

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/turtacn/ChemReg-Ledger/internal/config"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemReg-Ledger/pkg/errors"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

var ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer already running")

// JobHandler processes one batch job. Its error is recorded, never retried:
// per-item failures are already absorbed into the job summary, so a handler
// error here means the job itself could not run.
type JobHandler func(ctx context.Context, job *chem.BatchJob) error

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// JobConsumer pulls batch jobs off the queue and hands them to the worker.
// Every fetched message is committed, success or not, so a poison message
// cannot wedge the partition.
type JobConsumer struct {
	reader  ReaderInterface
	handler JobHandler
	logger  logging.Logger

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewJobConsumer builds a consumer in the configured group.
func NewJobConsumer(cfg config.KafkaConfig, handler JobHandler, logger logging.Logger) (*JobConsumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "brokers required")
	}
	if cfg.GroupID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "group_id required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	startOffset := kafkago.FirstOffset
	if cfg.AutoOffsetReset == "latest" {
		startOffset = kafkago.LastOffset
	}
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.BatchTopic,
		StartOffset: startOffset,
	})
	return &JobConsumer{reader: reader, handler: handler, logger: logger}, nil
}

// NewJobConsumerWithReader wraps an existing reader. Used by tests.
func NewJobConsumerWithReader(r ReaderInterface, handler JobHandler, logger logging.Logger) *JobConsumer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &JobConsumer{reader: r, handler: handler, logger: logger}
}

// Start launches the consume loop.
func (c *JobConsumer) Start(ctx context.Context) error {
	if c.running.Swap(true) {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go c.consumeLoop(ctx)

	c.logger.Info("Batch job consumer started")
	return nil
}

func (c *JobConsumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("Fetch failed", logging.Err(err))
			time.Sleep(time.Second)
			continue
		}

		job, err := DecodeJob(msg.Value)
		if err != nil {
			c.logger.Warn("Dropping malformed batch job",
				logging.Int64("offset", msg.Offset),
				logging.Err(err))
		} else if err := c.handler(ctx, job); err != nil {
			c.logger.Error("Batch job failed",
				logging.String("job_id", string(job.ID)),
				logging.Err(err))
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.logger.Error("Commit failed", logging.Err(err))
		}
	}
}

// Stop cancels the loop and waits for the in-flight job to finish.
func (c *JobConsumer) Stop() error {
	if !c.running.Swap(false) {
		return nil
	}
	c.cancel()
	c.wg.Wait()
	return c.reader.Close()
}
