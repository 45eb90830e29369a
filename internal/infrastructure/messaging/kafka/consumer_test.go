package kafka

import (
	"context"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemReg-Ledger/internal/config"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemReg-Ledger/pkg/errors"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

// fakeReader feeds a fixed message list, then blocks until the context ends.
type fakeReader struct {
	mu        sync.Mutex
	pending   []kafkago.Message
	committed []kafkago.Message
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	if len(r.pending) > 0 {
		msg := r.pending[0]
		r.pending = r.pending[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) committedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

func runConsumer(t *testing.T, reader *fakeReader, handler JobHandler, wantCommits int) {
	t.Helper()
	c := NewJobConsumerWithReader(reader, handler, logging.NewNopLogger())
	require.NoError(t, c.Start(context.Background()))

	deadline := time.After(2 * time.Second)
	for reader.committedCount() < wantCommits {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %d commits, got %d", wantCommits, reader.committedCount())
		case <-time.After(5 * time.Millisecond):
		}
	}
	require.NoError(t, c.Stop())
	assert.True(t, reader.closed)
}

func TestConsumerProcessesAndCommits(t *testing.T) {
	payload, err := EncodeJob(sampleJob())
	require.NoError(t, err)
	reader := &fakeReader{pending: []kafkago.Message{{Value: payload, Offset: 7}}}

	var mu sync.Mutex
	var seen []*chem.BatchJob
	handler := func(_ context.Context, job *chem.BatchJob) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, job)
		return nil
	}

	runConsumer(t, reader, handler, 1)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 1)
	assert.Equal(t, "job-42", string(seen[0].ID))
}

func TestConsumerCommitsMalformedMessage(t *testing.T) {
	reader := &fakeReader{pending: []kafkago.Message{
		{Value: []byte("{broken"), Offset: 1},
	}}

	handler := func(_ context.Context, _ *chem.BatchJob) error {
		t.Fatal("handler must not run for a malformed message")
		return nil
	}

	runConsumer(t, reader, handler, 1)
}

func TestConsumerCommitsFailedJob(t *testing.T) {
	payload, err := EncodeJob(sampleJob())
	require.NoError(t, err)
	reader := &fakeReader{pending: []kafkago.Message{{Value: payload}}}

	handler := func(_ context.Context, _ *chem.BatchJob) error {
		return errors.New(errors.ErrCodeInternal, "boom")
	}

	// A failed job is still committed so the partition keeps moving.
	runConsumer(t, reader, handler, 1)
}

func TestConsumerStartTwice(t *testing.T) {
	reader := &fakeReader{}
	c := NewJobConsumerWithReader(reader, func(context.Context, *chem.BatchJob) error { return nil }, logging.NewNopLogger())

	require.NoError(t, c.Start(context.Background()))
	assert.ErrorIs(t, c.Start(context.Background()), ErrAlreadyRunning)
	require.NoError(t, c.Stop())
	assert.NoError(t, c.Stop())
}

func TestNewJobConsumerValidation(t *testing.T) {
	_, err := NewJobConsumer(config.KafkaConfig{}, nil, logging.NewNopLogger())
	assert.Error(t, err)

	_, err = NewJobConsumer(config.KafkaConfig{Brokers: []string{"localhost:9092"}}, nil, logging.NewNopLogger())
	assert.ErrorContains(t, err, "group_id")
}
