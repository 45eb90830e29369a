//go:build integration

package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
	appErrors "github.com/turtacn/ChemReg-Ledger/pkg/errors"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

// startPostgres launches a PostgreSQL 16 container and returns a connected pool.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "chemreg_test",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/chemreg_test?sslmode=disable", host, port.Port())
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	applyInventorySchema(t, pool)
	return pool
}

func applyInventorySchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	ddl := `
	CREATE TABLE IF NOT EXISTS inventory_rows (
		id              TEXT PRIMARY KEY,
		cas             TEXT NOT NULL,
		process_name    TEXT NOT NULL DEFAULT '',
		workplace       TEXT NOT NULL DEFAULT '',
		product_name    TEXT NOT NULL DEFAULT '',
		alias           TEXT NOT NULL DEFAULT '',
		name_ko         TEXT NOT NULL DEFAULT '',
		name_en         TEXT NOT NULL DEFAULT '',
		ke_number       TEXT NOT NULL DEFAULT '',
		un_number       TEXT NOT NULL DEFAULT '',
		content_percent TEXT NOT NULL DEFAULT '',
		compliance      JSONB NOT NULL,
		emission        JSONB,
		hazardous       BOOLEAN NOT NULL DEFAULT FALSE,
		prtr_applicable BOOLEAN NOT NULL DEFAULT FALSE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_inventory_rows_cas ON inventory_rows (cas);`
	_, err := pool.Exec(ctx, ddl)
	require.NoError(t, err)
}

func tolueneRow() *chem.InventoryRow {
	compliance := chem.NewComplianceRecord()
	compliance.ToxicSubstance = "O"
	compliance.PRTRApplicable = "O"
	compliance.ExposureTWA = "50 ppm"
	return &chem.InventoryRow{
		ProcessName: "도장",
		ProductName: "신너",
		Identity: chem.Identity{
			CAS:    "108-88-3",
			NameKo: "톨루엔",
			NameEn: "Toluene",
		},
		ContentPercent: "30",
		Compliance:     compliance,
	}
}

func TestInventoryRoundTrip(t *testing.T) {
	pool := startPostgres(t)
	repo := NewInventoryRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	row := tolueneRow()
	require.NoError(t, repo.Save(ctx, row))
	assert.NotEmpty(t, row.ID)

	exists, err := repo.ExistsByCAS(ctx, "108-88-3")
	require.NoError(t, err)
	assert.True(t, exists)

	loaded, err := repo.FindByCAS(ctx, "108-88-3")
	require.NoError(t, err)
	assert.Equal(t, "톨루엔", loaded.Identity.NameKo)
	assert.Equal(t, "O", loaded.Compliance.ToxicSubstance)
	assert.Equal(t, "50 ppm", loaded.Compliance.ExposureTWA)
	assert.Nil(t, loaded.Emission)
}

func TestInventoryDuplicateCAS(t *testing.T) {
	pool := startPostgres(t)
	repo := NewInventoryRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, tolueneRow()))

	err := repo.Save(ctx, tolueneRow())
	assert.True(t, appErrors.IsCode(err, appErrors.ErrCodeInventoryDuplicateCAS))
}

func TestInventoryEmissionOverwrite(t *testing.T) {
	pool := startPostgres(t)
	repo := NewInventoryRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, tolueneRow()))

	first := &chem.EmissionEstimate{AmountKg: 12.5, Method: chem.TierMassBalance, CalculatedAt: time.Now().UTC()}
	require.NoError(t, repo.SaveEmission(ctx, "108-88-3", first))

	second := &chem.EmissionEstimate{AmountKg: 9.1, Method: chem.TierContinuous, CalculatedAt: time.Now().UTC()}
	require.NoError(t, repo.SaveEmission(ctx, "108-88-3", second))

	loaded, err := repo.FindByCAS(ctx, "108-88-3")
	require.NoError(t, err)
	require.NotNil(t, loaded.Emission)
	assert.Equal(t, 9.1, loaded.Emission.AmountKg)
	assert.Equal(t, chem.TierContinuous, loaded.Emission.Method)
}

func TestInventorySummaryAndDelete(t *testing.T) {
	pool := startPostgres(t)
	repo := NewInventoryRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, tolueneRow()))

	benign := &chem.InventoryRow{
		Identity:   chem.Identity{CAS: "7732-18-5", NameKo: "물"},
		Compliance: chem.NewComplianceRecord(),
	}
	require.NoError(t, repo.Save(ctx, benign))

	summary, err := repo.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, chem.InventorySummary{Total: 2, Hazardous: 1, PRTRApplicable: 1}, summary)

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	require.NoError(t, repo.DeleteByCAS(ctx, "7732-18-5"))
	err = repo.DeleteByCAS(ctx, "7732-18-5")
	assert.True(t, appErrors.IsCode(err, appErrors.ErrCodeInventoryRowNotFound))

	_, err = repo.FindByCAS(ctx, "7732-18-5")
	assert.True(t, appErrors.IsCode(err, appErrors.ErrCodeInventoryRowNotFound))
}
