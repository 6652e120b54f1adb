package handlers

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/cartwise/store-service/internal/database"
	"github.com/cartwise/store-service/internal/hours"
	"github.com/cartwise/store-service/internal/recommender"
)

// GetStoresRequest represents query parameters for the store search
type GetStoresRequest struct {
	Latitude  float64 `form:"lat" binding:"required,min=-90,max=90"`
	Longitude float64 `form:"lng" binding:"required,min=-180,max=180"`
	RadiusKm  float64 `form:"radius"`
}

// StoreResponse is a store row plus its current open status.
type StoreResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Address      *string `json:"address"`
	City         *string `json:"city"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	PriceScore   float64 `json:"priceScore"`
	QualityScore float64 `json:"qualityScore"`
	OpeningHours *string `json:"openingHours"`
	IsOpen       bool    `json:"isOpen"`
	NextOpen     string  `json:"nextOpen,omitempty"`
}

func storeResponse(s database.Store, now time.Time) StoreResponse {
	raw := ""
	if s.OpeningHours != nil {
		raw = *s.OpeningHours
	}
	status := hours.Status(hours.Parse(raw), now)

	return StoreResponse{
		ID:           s.ID,
		Name:         s.Name,
		Address:      s.Address,
		City:         s.City,
		Latitude:     s.Latitude,
		Longitude:    s.Longitude,
		PriceScore:   s.PriceScore,
		QualityScore: s.QualityScore,
		OpeningHours: s.OpeningHours,
		IsOpen:       status.IsOpen,
		NextOpen:     status.NextOpen,
	}
}

// withinRadius reports whether a store is inside the exact great-circle
// radius. The bounding box alone admits corner stores up to radius*sqrt(2)
// away.
func withinRadius(lat, lng float64, s database.Store, radiusKm float64) bool {
	d := recommender.HaversineKm(
		recommender.Coordinate{Latitude: lat, Longitude: lng},
		recommender.Coordinate{Latitude: s.Latitude, Longitude: s.Longitude},
	)
	return d <= radiusKm
}

// GetStores returns stores near a location
// GET /api/stores?lat=&lng=&radius=5
func GetStores(c *gin.Context) {
	var req GetStoresRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.RadiusKm <= 0 {
		req.RadiusKm = 5
	}

	pool := database.Pool()
	ctx := c.Request.Context()

	// Bounding-box prefilter: 1 degree of latitude is ~111 km.
	latDelta := req.RadiusKm / 111
	cos := math.Cos(req.Latitude * math.Pi / 180)
	if cos < 0.01 {
		cos = 0.01 // near the poles every longitude is close
	}
	lngDelta := req.RadiusKm / (111 * cos)

	rows, err := pool.Query(ctx, `
		SELECT id, name, address, city, latitude, longitude,
		       price_score, quality_score, opening_hours
		FROM stores
		WHERE latitude BETWEEN $1 AND $2
		  AND longitude BETWEEN $3 AND $4
		ORDER BY price_score DESC
		LIMIT 50
	`, req.Latitude-latDelta, req.Latitude+latDelta,
		req.Longitude-lngDelta, req.Longitude+lngDelta)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stores"})
		return
	}
	defer rows.Close()

	now := time.Now()
	stores := []StoreResponse{}
	for rows.Next() {
		var s database.Store
		err := rows.Scan(
			&s.ID, &s.Name, &s.Address, &s.City,
			&s.Latitude, &s.Longitude,
			&s.PriceScore, &s.QualityScore, &s.OpeningHours,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan store"})
			return
		}
		if !withinRadius(req.Latitude, req.Longitude, s, req.RadiusKm) {
			continue
		}

		stores = append(stores, storeResponse(s, now))
	}
	if rows.Err() != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating stores"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stores": stores})
}

// UpsertStoreRequest creates or updates a store, keyed by OSM id when one
// is present.
type UpsertStoreRequest struct {
	OSMID        *int64  `json:"osmId"`
	Name         string  `json:"name" binding:"required"`
	Address      *string `json:"address"`
	City         *string `json:"city"`
	PostalCode   *string `json:"postalCode"`
	Latitude     float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude    float64 `json:"longitude" binding:"required,min=-180,max=180"`
	PriceScore   float64 `json:"priceScore" binding:"min=0,max=100"`
	QualityScore float64 `json:"qualityScore" binding:"min=0,max=100"`
	OpeningHours *string `json:"openingHours"`
}

// UpsertStore creates or updates a store
// POST /api/admin/stores
func UpsertStore(c *gin.Context) {
	var req UpsertStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pool := database.Pool()
	ctx := c.Request.Context()

	// Existing OSM imports update in place.
	var existingID string
	if req.OSMID != nil {
		err := pool.QueryRow(ctx,
			`SELECT id FROM stores WHERE osm_id = $1`, *req.OSMID,
		).Scan(&existingID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up store"})
			return
		}
	}

	if existingID != "" {
		_, err := pool.Exec(ctx, `
			UPDATE stores
			SET name = $1, address = $2, city = $3, postal_code = $4,
			    latitude = $5, longitude = $6,
			    price_score = $7, quality_score = $8,
			    opening_hours = $9, updated_at = NOW()
			WHERE id = $10
		`, req.Name, req.Address, req.City, req.PostalCode,
			req.Latitude, req.Longitude,
			req.PriceScore, req.QualityScore,
			req.OpeningHours, existingID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update store"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": existingID})
		return
	}

	var id string
	err := pool.QueryRow(ctx, `
		INSERT INTO stores (id, osm_id, name, address, city, postal_code,
		                    latitude, longitude, price_score, quality_score, opening_hours)
		VALUES (gen_random_uuid()::text, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, req.OSMID, req.Name, req.Address, req.City, req.PostalCode,
		req.Latitude, req.Longitude, req.PriceScore, req.QualityScore,
		req.OpeningHours).Scan(&id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create store"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}
