// Package export renders the inventory ledger in its regulatory CSV layout
// and either streams it to the caller or stores it in object storage behind
// a presigned download link.
package export

import (
	"bytes"
	"context"

	"github.com/turtacn/ChemReg-Ledger/internal/domain/ledger"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/storage/minio"
	"github.com/turtacn/ChemReg-Ledger/pkg/errors"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

// Lister is the slice of the inventory repository an export needs.
type Lister interface {
	List(ctx context.Context) ([]*chem.InventoryRow, error)
}

// ObjectStore uploads a rendered export. Implemented by the MinIO client.
type ObjectStore interface {
	UploadLedgerCSV(ctx context.Context, payload []byte) (*minio.ExportResult, error)
}

// Service renders and stores ledger exports.
type Service interface {
	// RenderLedger returns the full ledger as CSV bytes, header rows included.
	RenderLedger(ctx context.Context) ([]byte, error)
	// ExportLedger renders the ledger and stores it, returning a download link.
	ExportLedger(ctx context.Context) (*minio.ExportResult, error)
}

type service struct {
	lister Lister
	store  ObjectStore
	logger logging.Logger
}

// NewService wires a ledger export pipeline. The store may be nil when only
// inline rendering is needed.
func NewService(lister Lister, store ObjectStore, log logging.Logger) Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &service{lister: lister, store: store, logger: log}
}

func (s *service) RenderLedger(ctx context.Context) ([]byte, error) {
	rows, err := s.lister.List(ctx)
	if err != nil {
		return nil, err
	}

	flat := make([]chem.InventoryRow, 0, len(rows))
	for _, r := range rows {
		flat = append(flat, *r)
	}

	var buf bytes.Buffer
	if err := ledger.WriteCSV(&buf, flat); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExportRenderFailed, "failed to render ledger")
	}
	return buf.Bytes(), nil
}

func (s *service) ExportLedger(ctx context.Context) (*minio.ExportResult, error) {
	if s.store == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "object storage is not configured")
	}

	payload, err := s.RenderLedger(ctx)
	if err != nil {
		return nil, err
	}
	result, err := s.store.UploadLedgerCSV(ctx, payload)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Ledger exported",
		logging.String("object", result.ObjectName),
		logging.Int64("bytes", result.SizeBytes))
	return result, nil
}
