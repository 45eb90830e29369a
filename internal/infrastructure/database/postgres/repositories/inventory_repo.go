// Package repositories holds the PostgreSQL persistence layer for the
// inventory ledger.
package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
	appErrors "github.com/turtacn/ChemReg-Ledger/pkg/errors"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/common"
)

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

const inventoryColumns = `
	id, cas, process_name, workplace, product_name, alias,
	name_ko, name_en, ke_number, un_number, content_percent,
	compliance, emission, hazardous, prtr_applicable,
	created_at, updated_at`

// InventoryRepository persists inventory rows. One row per CAS number,
// enforced both here (pre-insert check in the service layer) and by the
// unique index on cas.
type InventoryRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewInventoryRepository constructs a ready-to-use InventoryRepository.
func NewInventoryRepository(pool *pgxpool.Pool, logger logging.Logger) *InventoryRepository {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &InventoryRepository{pool: pool, logger: logger}
}

// Save inserts one row. A second row for the same CAS number fails with
// ErrCodeInventoryDuplicateCAS.
func (r *InventoryRepository) Save(ctx context.Context, row *chem.InventoryRow) error {
	if row.ID == "" {
		row.ID = common.NewID()
	}
	now := time.Now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now

	complianceJSON, err := json.Marshal(row.Compliance)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrCodeSerialization, "failed to serialize compliance record")
	}
	emissionJSON, err := marshalEmission(row.Emission)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO inventory_rows (
			id, cas, process_name, workplace, product_name, alias,
			name_ko, name_en, ke_number, un_number, content_percent,
			compliance, emission, hazardous, prtr_applicable,
			created_at, updated_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,
			$7,$8,$9,$10,$11,
			$12,$13,$14,$15,
			$16,$17
		)`,
		row.ID, string(row.Identity.CAS.Normalize()), row.ProcessName, row.Workplace,
		row.ProductName, row.Alias,
		row.Identity.NameKo, row.Identity.NameEn, row.Identity.KENumber, row.Identity.UNNumber,
		row.ContentPercent,
		complianceJSON, emissionJSON,
		row.Compliance.IsHazardous(), !chem.IsUnknown(row.Compliance.PRTRApplicable),
		row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return appErrors.New(appErrors.ErrCodeInventoryDuplicateCAS,
				"CAS number already registered in inventory")
		}
		r.logger.Error("inventory insert failed", logging.Err(err))
		return appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to insert inventory row")
	}
	return nil
}

// ExistsByCAS reports whether a row for the CAS number is already stored.
func (r *InventoryRepository) ExistsByCAS(ctx context.Context, cas chem.CASNumber) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM inventory_rows WHERE cas = $1)`,
		string(cas.Normalize()),
	).Scan(&exists)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to check CAS existence")
	}
	return exists, nil
}

// FindByCAS loads the row for one CAS number.
func (r *InventoryRepository) FindByCAS(ctx context.Context, cas chem.CASNumber) (*chem.InventoryRow, error) {
	row, err := scanInventoryRow(r.pool.QueryRow(ctx,
		`SELECT `+inventoryColumns+` FROM inventory_rows WHERE cas = $1`,
		string(cas.Normalize()),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, appErrors.New(appErrors.ErrCodeInventoryRowNotFound, "inventory row not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to load inventory row")
	}
	return row, nil
}

// List returns every row ordered by creation time.
func (r *InventoryRepository) List(ctx context.Context) ([]*chem.InventoryRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+inventoryColumns+` FROM inventory_rows ORDER BY created_at, cas`)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to list inventory")
	}
	defer rows.Close()

	var out []*chem.InventoryRow
	for rows.Next() {
		row, err := scanInventoryRow(rows)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to scan inventory row")
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to iterate inventory rows")
	}
	return out, nil
}

// DeleteByCAS removes the row for one CAS number.
func (r *InventoryRepository) DeleteByCAS(ctx context.Context, cas chem.CASNumber) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM inventory_rows WHERE cas = $1`, string(cas.Normalize()))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to delete inventory row")
	}
	if tag.RowsAffected() == 0 {
		return appErrors.New(appErrors.ErrCodeInventoryRowNotFound, "inventory row not found")
	}
	return nil
}

// SaveEmission overwrites the emission estimate of one row.
func (r *InventoryRepository) SaveEmission(ctx context.Context, cas chem.CASNumber, estimate *chem.EmissionEstimate) error {
	emissionJSON, err := marshalEmission(estimate)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE inventory_rows SET emission = $2, updated_at = $3 WHERE cas = $1`,
		string(cas.Normalize()), emissionJSON, time.Now().UTC())
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to update emission estimate")
	}
	if tag.RowsAffected() == 0 {
		return appErrors.New(appErrors.ErrCodeInventoryRowNotFound, "inventory row not found")
	}
	return nil
}

// Summary aggregates inventory counts in a single scan.
func (r *InventoryRepository) Summary(ctx context.Context) (chem.InventorySummary, error) {
	var s chem.InventorySummary
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE hazardous),
		       COUNT(*) FILTER (WHERE prtr_applicable),
		       COUNT(*) FILTER (WHERE emission IS NOT NULL)
		FROM inventory_rows`,
	).Scan(&s.Total, &s.Hazardous, &s.PRTRApplicable, &s.WithEmission)
	if err != nil {
		return chem.InventorySummary{}, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to aggregate inventory summary")
	}
	return s, nil
}

func marshalEmission(e *chem.EmissionEstimate) ([]byte, error) {
	if e == nil {
		return nil, nil
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeSerialization, "failed to serialize emission estimate")
	}
	return payload, nil
}

// rowScanner abstracts pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInventoryRow(s rowScanner) (*chem.InventoryRow, error) {
	var (
		row            chem.InventoryRow
		cas            string
		complianceJSON []byte
		emissionJSON   []byte
		hazardous      bool
		prtrApplicable bool
	)
	err := s.Scan(
		&row.ID, &cas, &row.ProcessName, &row.Workplace, &row.ProductName, &row.Alias,
		&row.Identity.NameKo, &row.Identity.NameEn, &row.Identity.KENumber, &row.Identity.UNNumber,
		&row.ContentPercent,
		&complianceJSON, &emissionJSON, &hazardous, &prtrApplicable,
		&row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	row.Identity.CAS = chem.CASNumber(cas)
	if err := json.Unmarshal(complianceJSON, &row.Compliance); err != nil {
		return nil, err
	}
	if len(emissionJSON) > 0 {
		row.Emission = &chem.EmissionEstimate{}
		if err := json.Unmarshal(emissionJSON, row.Emission); err != nil {
			return nil, err
		}
	}
	return &row, nil
}
