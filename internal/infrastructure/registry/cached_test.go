package registry

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/database/redis"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

type stubClient struct {
	source chem.Source
	result Result
	calls  int
}

func (s *stubClient) Source() chem.Source { return s.source }

func (s *stubClient) Lookup(_ context.Context, _ chem.CASNumber) Result {
	s.calls++
	return s.result
}

func newCachedFixture(t *testing.T, inner Client) (*CachedClient, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	keys := redis.NewClientFromRDB(db, "test", logging.NewNopLogger())
	cache := redis.NewCache(keys, time.Hour, logging.NewNopLogger())
	return NewCachedClient(inner, cache, keys, nil), mock
}

func foundResult() Result {
	raw := &chem.RawRecord{}
	raw.Append("chemlist", "명칭", "톨루엔")
	return Result{
		Found:    true,
		Source:   chem.SourceKOSHA,
		Identity: chem.Identity{CAS: "108-88-3", NameKo: "톨루엔"},
		Raw:      raw,
	}
}

func TestCachedLookupHitSkipsInner(t *testing.T) {
	inner := &stubClient{source: chem.SourceKOSHA}
	client, mock := newCachedFixture(t, inner)

	payload, _ := json.Marshal(foundResult())
	mock.ExpectGet("test:registry:kosha:108-88-3").SetVal(string(payload))

	result := client.Lookup(context.Background(), "108-88-3")

	require.True(t, result.Found)
	assert.Equal(t, "톨루엔", result.Identity.NameKo)
	assert.Equal(t, 0, inner.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedLookupMissStoresPositiveResult(t *testing.T) {
	inner := &stubClient{source: chem.SourceKOSHA, result: foundResult()}
	client, mock := newCachedFixture(t, inner)

	key := "test:registry:kosha:108-88-3"
	payload, _ := json.Marshal(foundResult())
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, payload, time.Hour).SetVal("OK")

	result := client.Lookup(context.Background(), "108-88-3")

	require.True(t, result.Found)
	assert.Equal(t, 1, inner.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedLookupNegativeResultNotCached(t *testing.T) {
	inner := &stubClient{
		source: chem.SourceKECO,
		result: NotFound(chem.SourceKECO, "0000-00-0", "미등록 물질"),
	}
	client, mock := newCachedFixture(t, inner)

	mock.ExpectGet("test:registry:keco:0000-00-0").RedisNil()

	result := client.Lookup(context.Background(), "0000-00-0")

	assert.False(t, result.Found)
	assert.Equal(t, 1, inner.calls)
	// No Set expectation: a negative reply must stay retryable.
	assert.NoError(t, mock.ExpectationsWereMet())
}
