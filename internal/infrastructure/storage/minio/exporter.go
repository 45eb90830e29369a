package minio

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemReg-Ledger/pkg/errors"
)

const csvContentType = "text/csv; charset=utf-8"

// ExportResult describes one stored ledger export.
type ExportResult struct {
	ObjectName  string    `json:"object_name"`
	SizeBytes   int64     `json:"size_bytes"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// UploadLedgerCSV stores one rendered ledger export and returns a presigned
// download link.
func (c *Client) UploadLedgerCSV(ctx context.Context, payload []byte) (*ExportResult, error) {
	objectName := ledgerObjectName(time.Now().UTC())

	info, err := c.api.PutObject(ctx, c.bucket, objectName,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: csvContentType})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExportUploadFailed, "failed to upload ledger export")
	}

	downloadURL, err := c.api.PresignedGetObject(ctx, c.bucket, objectName, c.presignExpiry, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExportUploadFailed, "failed to presign ledger export")
	}

	c.logger.Info("Ledger export stored",
		logging.String("object", objectName),
		logging.Int64("bytes", info.Size))

	return &ExportResult{
		ObjectName:  objectName,
		SizeBytes:   info.Size,
		DownloadURL: downloadURL.String(),
		ExpiresAt:   time.Now().UTC().Add(c.presignExpiry),
	}, nil
}

// ledgerObjectName partitions exports by month so bucket listings stay
// navigable.
func ledgerObjectName(now time.Time) string {
	return fmt.Sprintf("ledger/%04d/%02d/inventory-%s.csv",
		now.Year(), now.Month(), now.Format("20060102-150405"))
}
