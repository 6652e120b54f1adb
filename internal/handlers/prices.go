package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cartwise/store-service/internal/database"
	"github.com/cartwise/store-service/internal/matching"
)

// GetPricesRequest represents query parameters for the price listing
type GetPricesRequest struct {
	Product string `form:"product"`
	Limit   int    `form:"limit" binding:"min=0,max=500"`
}

// PriceEntry is one recorded price in API responses.
type PriceEntry struct {
	ID           string    `json:"id"`
	StoreID      string    `json:"storeId"`
	ProductName  string    `json:"productName"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	Unit         *string   `json:"unit"`
	DateRecorded time.Time `json:"dateRecorded"`
	Source       string    `json:"source"`
}

func priceEntry(p database.ProductPrice) PriceEntry {
	return PriceEntry{
		ID:           p.ID,
		StoreID:      p.StoreID,
		ProductName:  p.ProductName,
		Price:        p.Price,
		Currency:     p.Currency,
		Unit:         p.Unit,
		DateRecorded: p.DateRecorded,
		Source:       p.Source,
	}
}

// GetStorePrices returns recorded prices for a store
// GET /api/prices/:storeId?product=&limit=100
func GetStorePrices(c *gin.Context) {
	storeID := c.Param("storeId")

	var req GetPricesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Limit == 0 {
		req.Limit = 100
	}

	pool := database.Pool()
	ctx := c.Request.Context()

	query := `
		SELECT id::text, store_id, product_name, price, currency, unit, date_recorded, source
		FROM product_prices
		WHERE store_id = $1
	`
	args := []any{storeID}
	if req.Product != "" {
		query += ` AND normalized_name LIKE '%' || $2 || '%'`
		args = append(args, matching.NormalizeProductName(req.Product))
	}
	query += ` ORDER BY date_recorded DESC LIMIT $` + strconv.Itoa(len(args)+1)
	args = append(args, req.Limit)

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prices"})
		return
	}
	defer rows.Close()

	prices := []PriceEntry{}
	for rows.Next() {
		var p database.ProductPrice
		err := rows.Scan(
			&p.ID, &p.StoreID, &p.ProductName, &p.Price,
			&p.Currency, &p.Unit, &p.DateRecorded, &p.Source,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan price"})
			return
		}
		prices = append(prices, priceEntry(p))
	}
	if rows.Err() != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating prices"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"prices": prices})
}

// AddPriceRequest records a price observation for a store.
type AddPriceRequest struct {
	ProductName  string  `json:"productName" binding:"required"`
	Price        float64 `json:"price" binding:"required,gt=0"`
	Currency     string  `json:"currency"`
	Unit         string  `json:"unit"`
	DateRecorded string  `json:"dateRecorded"` // YYYY-MM-DD, defaults to today
	Source       string  `json:"source"`
}

// AddPrice records a price for a store
// POST /api/admin/prices/:storeId
func AddPrice(c *gin.Context) {
	storeID := c.Param("storeId")

	var req AddPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Currency == "" {
		req.Currency = "USD"
	}
	if req.Source == "" {
		req.Source = "manual"
	}

	recorded := time.Now()
	if req.DateRecorded != "" {
		parsed, err := time.Parse("2006-01-02", req.DateRecorded)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dateRecorded must be YYYY-MM-DD"})
			return
		}
		recorded = parsed
	}

	pool := database.Pool()
	ctx := c.Request.Context()

	_, err := pool.Exec(ctx, `
		INSERT INTO product_prices (store_id, product_name, normalized_name, price, currency, unit, date_recorded, source)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)
	`, storeID, req.ProductName, matching.NormalizeProductName(req.ProductName),
		req.Price, req.Currency, matching.NormalizeUnit(req.Unit, ""), recorded, req.Source)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save price"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}
