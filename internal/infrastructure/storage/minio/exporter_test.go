package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"testing"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemReg-Ledger/internal/config"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/ChemReg-Ledger/pkg/errors"
)

type fakeObjectStore struct {
	bucketExists bool
	madeBuckets  []string
	putObjects   map[string][]byte
	putErr       error
	presignErr   error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{bucketExists: true, putObjects: map[string][]byte{}}
}

func (f *fakeObjectStore) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, nil
}

func (f *fakeObjectStore) MakeBucket(_ context.Context, name string, _ miniogo.MakeBucketOptions) error {
	f.madeBuckets = append(f.madeBuckets, name)
	return nil
}

func (f *fakeObjectStore) PutObject(_ context.Context, _, objectName string, reader io.Reader, size int64, opts miniogo.PutObjectOptions) (miniogo.UploadInfo, error) {
	if f.putErr != nil {
		return miniogo.UploadInfo{}, f.putErr
	}
	payload, err := io.ReadAll(reader)
	if err != nil {
		return miniogo.UploadInfo{}, err
	}
	f.putObjects[objectName] = payload
	return miniogo.UploadInfo{Key: objectName, Size: size}, nil
}

func (f *fakeObjectStore) PresignedGetObject(_ context.Context, bucket, objectName string, _ time.Duration, _ url.Values) (*url.URL, error) {
	if f.presignErr != nil {
		return nil, f.presignErr
	}
	return url.Parse("https://storage.local/" + bucket + "/" + objectName + "?sig=abc")
}

func testConfig() config.MinIOConfig {
	return config.MinIOConfig{
		Bucket:        "chemreg-exports",
		PresignExpiry: 30 * time.Minute,
	}
}

func TestUploadLedgerCSV(t *testing.T) {
	store := newFakeObjectStore()
	client := NewClientWithAPI(store, testConfig(), logging.NewNopLogger())

	payload := []byte("\ufeff공정명,제품명\n도장,신너\n")
	result, err := client.UploadLedgerCSV(context.Background(), payload)
	require.NoError(t, err)

	assert.Regexp(t, `^ledger/\d{4}/\d{2}/inventory-\d{8}-\d{6}\.csv$`, result.ObjectName)
	assert.Equal(t, int64(len(payload)), result.SizeBytes)
	assert.Contains(t, result.DownloadURL, result.ObjectName)
	assert.Equal(t, payload, store.putObjects[result.ObjectName])
}

func TestUploadLedgerCSVPutFailure(t *testing.T) {
	store := newFakeObjectStore()
	store.putErr = fmt.Errorf("connection reset")
	client := NewClientWithAPI(store, testConfig(), logging.NewNopLogger())

	_, err := client.UploadLedgerCSV(context.Background(), []byte("data"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeExportUploadFailed))
}

func TestUploadLedgerCSVPresignFailure(t *testing.T) {
	store := newFakeObjectStore()
	store.presignErr = fmt.Errorf("denied")
	client := NewClientWithAPI(store, testConfig(), logging.NewNopLogger())

	_, err := client.UploadLedgerCSV(context.Background(), []byte("data"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeExportUploadFailed))
}

func TestEnsureBucketCreatesMissingBucket(t *testing.T) {
	store := newFakeObjectStore()
	store.bucketExists = false
	client := NewClientWithAPI(store, testConfig(), logging.NewNopLogger())

	require.NoError(t, client.ensureBucket(context.Background()))
	assert.Equal(t, []string{"chemreg-exports"}, store.madeBuckets)
}
