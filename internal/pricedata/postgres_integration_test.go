package pricedata

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
)

// setupIntegrationTestDB starts a throwaway Postgres container with the
// stores/product_prices schema applied.
func setupIntegrationTestDB(ctx context.Context, t testing.TB) (*pgxpool.Pool, func(), error) {
	if testing.Short() {
		return nil, func() {}, fmt.Errorf("skipping integration test in short mode")
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx)
		return nil, nil, fmt.Errorf("get host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		container.Terminate(ctx)
		return nil, nil, fmt.Errorf("get port: %w", err)
	}

	connString := fmt.Sprintf("postgres://test:test@%s:%s/test?sslmode=disable", host, port.Port())

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		container.Terminate(ctx)
		return nil, nil, fmt.Errorf("connect: %w", err)
	}

	if err := runTestMigrations(ctx, pool); err != nil {
		pool.Close()
		container.Terminate(ctx)
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	cleanup := func() {
		pool.Close()
		container.Terminate(ctx)
	}

	return pool, cleanup, nil
}

func runTestMigrations(ctx context.Context, db *pgxpool.Pool) error {
	schema := `
		CREATE TABLE IF NOT EXISTS stores (
			id TEXT PRIMARY KEY,
			osm_id BIGINT,
			name TEXT NOT NULL,
			address TEXT,
			city TEXT,
			postal_code TEXT,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			price_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			quality_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			opening_hours TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS product_prices (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			store_id TEXT NOT NULL REFERENCES stores(id),
			product_name TEXT NOT NULL,
			normalized_name TEXT NOT NULL,
			price DOUBLE PRECISION NOT NULL,
			currency TEXT NOT NULL DEFAULT 'USD',
			unit TEXT,
			date_recorded TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			source TEXT NOT NULL DEFAULT 'manual',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_product_prices_lookup
			ON product_prices (store_id, normalized_name, date_recorded DESC);
	`
	_, err := db.Exec(ctx, schema)
	return err
}

func seedStores(ctx context.Context, t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	_, err := db.Exec(ctx, `
		INSERT INTO stores (id, name, address, latitude, longitude, price_score, quality_score, opening_hours)
		VALUES
			('downtown', 'Downtown Market', '1 Main St', 40.7128, -74.0060, 85, 90, 'Mo-Fr 08:00-20:00'),
			('uptown',   'Uptown Grocer',   '99 North Ave', 40.7528, -74.0060, 70, 95, '24/7'),
			('faraway',  'Faraway Foods',   '1 Far Rd', 41.5000, -74.0060, 99, 99, NULL);
	`)
	require.NoError(t, err)
}

func TestFindStoresNearFiltersRadius(t *testing.T) {
	ctx := context.Background()
	db, cleanup, err := setupIntegrationTestDB(ctx, t)
	if err != nil {
		t.Skipf("Skipping integration test: %v", err)
		return
	}
	defer cleanup()

	seedStores(ctx, t, db)
	source := New(db, 5*time.Second)

	// Downtown is at the origin; uptown is ~4.4 km north; faraway ~87 km.
	stores, err := source.FindStoresNear(ctx, 40.7128, -74.0060, 5)
	require.NoError(t, err)
	require.Len(t, stores, 2)

	ids := []string{stores[0].ID, stores[1].ID}
	assert.Contains(t, ids, "downtown")
	assert.Contains(t, ids, "uptown")
}

func TestFindStoresNearEmptyResult(t *testing.T) {
	ctx := context.Background()
	db, cleanup, err := setupIntegrationTestDB(ctx, t)
	if err != nil {
		t.Skipf("Skipping integration test: %v", err)
		return
	}
	defer cleanup()

	seedStores(ctx, t, db)
	source := New(db, 5*time.Second)

	stores, err := source.FindStoresNear(ctx, -33.8688, 151.2093, 10)
	require.NoError(t, err)
	assert.Empty(t, stores)
}

func TestFindPricesMatchingAndOrder(t *testing.T) {
	ctx := context.Background()
	db, cleanup, err := setupIntegrationTestDB(ctx, t)
	if err != nil {
		t.Skipf("Skipping integration test: %v", err)
		return
	}
	defer cleanup()

	seedStores(ctx, t, db)
	source := New(db, 5*time.Second)

	_, err = db.Exec(ctx, `
		INSERT INTO product_prices (store_id, product_name, normalized_name, price, date_recorded)
		VALUES
			('downtown', 'Whole Milk 1L',   'whole milk 1l',   3.99, NOW() - INTERVAL '10 days'),
			('downtown', 'Whole Milk 1L',   'whole milk 1l',   3.49, NOW() - INTERVAL '1 day'),
			('uptown',   'Skim Milk 1L',    'skim milk 1l',    2.99, NOW()),
			('downtown', 'Sourdough Bread', 'sourdough bread', 4.50, NOW());
	`)
	require.NoError(t, err)

	// Store-scoped lookup matches on substring, most recent first.
	records, err := source.FindPrices(ctx, "downtown", "Milk", 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 3.49, records[0].Price)
	assert.Equal(t, 3.99, records[1].Price)

	// Cross-store lookup sees every store.
	records, err = source.FindPrices(ctx, "", "milk", 10)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	// Diacritics in the query fold before matching.
	records, err = source.FindPrices(ctx, "", "mílk", 10)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestRecordPriceNormalizes(t *testing.T) {
	ctx := context.Background()
	db, cleanup, err := setupIntegrationTestDB(ctx, t)
	if err != nil {
		t.Skipf("Skipping integration test: %v", err)
		return
	}
	defer cleanup()

	seedStores(ctx, t, db)
	source := New(db, 5*time.Second)

	err = source.RecordPrice(ctx, "downtown", "Café Lungo", 7.25, "", "ea", "manual")
	require.NoError(t, err)

	records, err := source.FindPrices(ctx, "downtown", "cafe", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Café Lungo", records[0].ProductName)
	assert.Equal(t, 7.25, records[0].Price)
	assert.Equal(t, "USD", records[0].Currency)
	assert.Equal(t, "ea", records[0].Unit)

	// Unit aliases canonicalize on write so recorded units compare equal.
	err = source.RecordPrice(ctx, "downtown", "Olive Oil", 12.49, "", "ltr", "manual")
	require.NoError(t, err)

	records, err = source.FindPrices(ctx, "downtown", "olive oil", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "l", records[0].Unit)
}
