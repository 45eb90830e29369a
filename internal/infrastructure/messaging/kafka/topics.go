// Package kafka carries asynchronous batch lookup jobs between the API
// server (producer) and the worker (consumer).
package kafka

import (
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemReg-Ledger/pkg/errors"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

// EncodeJob serializes a batch job for the queue.
func EncodeJob(job *chem.BatchJob) ([]byte, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal batch job")
	}
	return payload, nil
}

// DecodeJob deserializes a queue message back into a batch job.
func DecodeJob(payload []byte) (*chem.BatchJob, error) {
	if len(payload) == 0 {
		return nil, errors.New(errors.ErrCodeBatchJobMalformed, "empty batch job payload")
	}
	var job chem.BatchJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBatchJobMalformed, "malformed batch job payload")
	}
	if job.ID == "" {
		return nil, errors.New(errors.ErrCodeBatchJobMalformed, "batch job missing ID")
	}
	return &job, nil
}

// ConnInterface abstracts kafka.Conn for testing.
type ConnInterface interface {
	CreateTopics(topics ...kafkago.TopicConfig) error
	ReadPartitions(topics ...string) ([]kafkago.Partition, error)
	Close() error
}

// TopicManager creates the batch topic on startup.
type TopicManager struct {
	conn   ConnInterface
	logger logging.Logger
}

// NewTopicManager dials the first broker.
func NewTopicManager(brokers []string, logger logging.Logger) (*TopicManager, error) {
	if len(brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "brokers required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	conn, err := kafkago.Dial("tcp", brokers[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to dial kafka")
	}
	return &TopicManager{conn: conn, logger: logger}, nil
}

// NewTopicManagerWithConn wraps an existing connection. Used by tests.
func NewTopicManagerWithConn(conn ConnInterface, logger logging.Logger) *TopicManager {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &TopicManager{conn: conn, logger: logger}
}

// EnsureTopic creates the topic if it does not exist yet.
func (m *TopicManager) EnsureTopic(name string, partitions, replicationFactor int) error {
	if name == "" {
		return errors.New(errors.ErrCodeValidation, "topic name required")
	}
	if partitions <= 0 {
		partitions = 3
	}
	if replicationFactor <= 0 {
		replicationFactor = 1
	}

	err := m.conn.CreateTopics(kafkago.TopicConfig{
		Topic:             name,
		NumPartitions:     partitions,
		ReplicationFactor: replicationFactor,
	})
	if err != nil {
		if exists, _ := m.TopicExists(name); exists {
			return nil
		}
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create topic")
	}
	m.logger.Info("Topic created", logging.String("topic", name))
	return nil
}

// TopicExists reports whether the topic has at least one partition.
func (m *TopicManager) TopicExists(name string) (bool, error) {
	partitions, err := m.conn.ReadPartitions(name)
	if err != nil {
		return false, nil
	}
	return len(partitions) > 0, nil
}

func (m *TopicManager) Close() error {
	return m.conn.Close()
}
