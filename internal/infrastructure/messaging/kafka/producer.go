package kafka

import (
	"context"
	"sync/atomic"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/turtacn/ChemReg-Ledger/internal/config"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemReg-Ledger/pkg/errors"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

var ErrProducerClosed = errors.New(errors.ErrCodeInternal, "producer closed")

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// JobProducer submits batch jobs to the queue. Messages are keyed by job ID
// so one job's lifecycle stays on one partition.
type JobProducer struct {
	writer WriterInterface
	topic  string
	logger logging.Logger
	closed atomic.Bool
}

// NewJobProducer builds a producer for the configured batch topic.
func NewJobProducer(cfg config.KafkaConfig, logger logging.Logger) (*JobProducer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "brokers required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	maxAttempts := cfg.ProducerRetries + 1
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.BatchTopic,
		Balancer:     &kafkago.Hash{},
		MaxAttempts:  maxAttempts,
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &JobProducer{writer: writer, topic: cfg.BatchTopic, logger: logger}, nil
}

// NewJobProducerWithWriter wraps an existing writer. Used by tests.
func NewJobProducerWithWriter(w WriterInterface, topic string, logger logging.Logger) *JobProducer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &JobProducer{writer: w, topic: topic, logger: logger}
}

// Submit publishes one batch job.
func (p *JobProducer) Submit(ctx context.Context, job *chem.BatchJob) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	payload, err := EncodeJob(job)
	if err != nil {
		return err
	}

	msg := kafkago.Message{
		Key:   []byte(job.ID),
		Value: payload,
		Time:  time.Now().UTC(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to publish batch job")
	}

	p.logger.Info("Batch job submitted",
		logging.String("job_id", string(job.ID)),
		logging.Int("items", len(job.Items)))
	return nil
}

// Close shuts the producer down. Idempotent.
func (p *JobProducer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}
