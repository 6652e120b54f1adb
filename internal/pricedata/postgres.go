// Package pricedata implements the recommender's store and price sources
// on Postgres.
package pricedata

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cartwise/store-service/internal/matching"
	"github.com/cartwise/store-service/internal/recommender"
)

// Postgres serves store and price lookups from a pgx pool. It implements
// both recommender.StoreSource and recommender.PriceSource.
type Postgres struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
	logger       zerolog.Logger
}

// New creates a Postgres source backed by the given pool.
func New(pool *pgxpool.Pool, queryTimeout time.Duration) *Postgres {
	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Second
	}
	return &Postgres{
		pool:         pool,
		queryTimeout: queryTimeout,
		logger:       log.With().Str("component", "pricedata").Logger(),
	}
}

// FindPrices returns price records whose normalized product name contains
// the normalized query substring, most recent first. A non-empty storeID
// scopes the search to that store.
func (p *Postgres) FindPrices(ctx context.Context, storeID, product string, limit int) ([]recommender.PriceRecord, error) {
	normalized := matching.NormalizeProductName(product)
	if normalized == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	ctx, cancel := context.WithTimeout(ctx, p.queryTimeout)
	defer cancel()

	query := `
		SELECT store_id, product_name, price, currency, COALESCE(unit, ''), date_recorded, source
		FROM product_prices
		WHERE normalized_name LIKE '%' || $1 || '%'
	`
	args := []any{normalized}
	if storeID != "" {
		query += ` AND store_id = $2`
		args = append(args, storeID)
	}
	query += ` ORDER BY date_recorded DESC LIMIT $` + strconv.Itoa(len(args)+1)
	args = append(args, limit)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying prices: %w", err)
	}
	defer rows.Close()

	var records []recommender.PriceRecord
	for rows.Next() {
		var rec recommender.PriceRecord
		err := rows.Scan(
			&rec.StoreID, &rec.ProductName, &rec.Price,
			&rec.Currency, &rec.Unit, &rec.DateRecorded, &rec.Source,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning price row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating price rows: %w", err)
	}
	return records, nil
}

// FindStoresNear returns stores within radiusKm of the given point. A
// bounding box narrows the candidates in SQL; the exact distance check
// happens in Go since the schema has no PostGIS extension.
func (p *Postgres) FindStoresNear(ctx context.Context, lat, lng, radiusKm float64) ([]recommender.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, p.queryTimeout)
	defer cancel()

	latDelta, lngDelta := boundingBox(lat, radiusKm)

	rows, err := p.pool.Query(ctx, `
		SELECT id, name, COALESCE(address, ''), latitude, longitude,
		       price_score, quality_score, COALESCE(opening_hours, '')
		FROM stores
		WHERE latitude BETWEEN $1 AND $2
		  AND longitude BETWEEN $3 AND $4
		ORDER BY price_score DESC
		LIMIT 200
	`, lat-latDelta, lat+latDelta, lng-lngDelta, lng+lngDelta)
	if err != nil {
		return nil, fmt.Errorf("querying stores: %w", err)
	}
	defer rows.Close()

	origin := recommender.Coordinate{Latitude: lat, Longitude: lng}
	var stores []recommender.Store
	for rows.Next() {
		var s recommender.Store
		err := rows.Scan(
			&s.ID, &s.Name, &s.Address,
			&s.Coordinate.Latitude, &s.Coordinate.Longitude,
			&s.PriceScore, &s.QualityScore, &s.OpeningHours,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning store row: %w", err)
		}
		if recommender.HaversineKm(origin, s.Coordinate) <= radiusKm {
			stores = append(stores, s)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating store rows: %w", err)
	}

	p.logger.Debug().
		Float64("lat", lat).
		Float64("lng", lng).
		Float64("radius_km", radiusKm).
		Int("stores", len(stores)).
		Msg("Store proximity lookup")

	return stores, nil
}

// RecordPrice inserts a price observation. The normalized name and
// canonical unit are derived here so every writer stores the same form.
func (p *Postgres) RecordPrice(ctx context.Context, storeID, productName string, price float64, currency, unit, source string) error {
	ctx, cancel := context.WithTimeout(ctx, p.queryTimeout)
	defer cancel()

	if currency == "" {
		currency = "USD"
	}

	_, err := p.pool.Exec(ctx, `
		INSERT INTO product_prices (store_id, product_name, normalized_name, price, currency, unit, date_recorded, source)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NOW(), $7)
	`, storeID, productName, matching.NormalizeProductName(productName), price, currency,
		matching.NormalizeUnit(unit, ""), source)
	if err != nil {
		return fmt.Errorf("inserting price: %w", err)
	}
	return nil
}

// boundingBox returns latitude/longitude half-widths, in degrees, of a box
// that contains the radius. One degree of latitude is ~111 km; longitude
// degrees shrink with the cosine of the latitude.
func boundingBox(lat, radiusKm float64) (latDelta, lngDelta float64) {
	const kmPerDegree = 111.0
	latDelta = radiusKm / kmPerDegree
	cos := cosDeg(lat)
	if cos < 0.01 {
		cos = 0.01 // near the poles every longitude is close
	}
	lngDelta = radiusKm / (kmPerDegree * cos)
	return latDelta, lngDelta
}

func cosDeg(deg float64) float64 {
	return math.Cos(deg * math.Pi / 180)
}
