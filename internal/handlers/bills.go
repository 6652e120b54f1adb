package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/cartwise/store-service/internal/database"
	"github.com/cartwise/store-service/internal/matching"
	"github.com/cartwise/store-service/internal/receipts"
)

// ScanBillRequest carries OCR'd receipt text. When a storeId is given the
// extracted line items are recorded as price observations.
type ScanBillRequest struct {
	Text    string `json:"text" binding:"required"`
	StoreID string `json:"storeId"`
}

// ScanBillResponse is the parsed receipt plus how many prices were saved.
type ScanBillResponse struct {
	Receipt     receipts.Receipt `json:"receipt"`
	PricesSaved int              `json:"pricesSaved"`
	BillID      string           `json:"billId,omitempty"`
}

// ScanBill parses receipt text and records the extracted prices
// POST /api/bills/scan
func ScanBill(c *gin.Context) {
	var req ScanBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	receipt := receipts.Parse(req.Text)

	pool := database.Pool()
	ctx := c.Request.Context()

	recorded := time.Now()
	if t, ok := receipts.ParseDate(receipt.Date); ok {
		recorded = t
	}

	// The parser's sentinel becomes a NULL store name in storage.
	storeName := receipt.Store
	if storeName == receipts.UnknownStore {
		storeName = ""
	}

	var billID string
	err := pool.QueryRow(ctx, `
		INSERT INTO bills (id, store_id, store_name, total, currency, bill_date, raw_text)
		VALUES (gen_random_uuid()::text, NULLIF($1, ''), NULLIF($2, ''), $3, 'USD', $4, $5)
		RETURNING id
	`, req.StoreID, storeName, receipt.Total, recorded, req.Text).Scan(&billID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save bill"})
		return
	}

	saved := 0
	for _, item := range receipt.Items {
		row := database.BillItem{
			BillID:      billID,
			ProductName: item.Name,
			Price:       item.Price,
		}
		_, err := pool.Exec(ctx, `
			INSERT INTO bill_items (id, bill_id, product_name, price)
			VALUES (gen_random_uuid()::text, $1, $2, $3)
		`, row.BillID, row.ProductName, row.Price)
		if err != nil {
			log.Warn().Err(err).Str("bill_id", billID).Msg("Failed to save bill item")
			continue
		}

		// Line items become price records only when the receipt is tied
		// to a known store.
		if req.StoreID != "" {
			_, err := pool.Exec(ctx, `
				INSERT INTO product_prices (store_id, product_name, normalized_name, price, currency, date_recorded, source)
				VALUES ($1, $2, $3, $4, 'USD', $5, 'receipt')
			`, req.StoreID, row.ProductName, matching.NormalizeProductName(row.ProductName), row.Price, recorded)
			if err != nil {
				log.Warn().Err(err).Str("bill_id", billID).Msg("Failed to record receipt price")
				continue
			}
			saved++
		}
	}

	c.JSON(http.StatusCreated, ScanBillResponse{
		Receipt:     receipt,
		PricesSaved: saved,
		BillID:      billID,
	})
}

// BillSummary is one saved bill in the listing.
type BillSummary struct {
	ID        string     `json:"id"`
	StoreID   *string    `json:"storeId"`
	StoreName *string    `json:"storeName"`
	Total     *float64   `json:"total"`
	BillDate  *time.Time `json:"billDate"`
	CreatedAt time.Time  `json:"createdAt"`
}

func billSummary(b database.Bill) BillSummary {
	return BillSummary{
		ID:        b.ID,
		StoreID:   b.StoreID,
		StoreName: b.StoreName,
		Total:     b.Total,
		BillDate:  b.BillDate,
		CreatedAt: b.CreatedAt,
	}
}

// GetBills lists recent bills, newest first
// GET /api/bills
func GetBills(c *gin.Context) {
	pool := database.Pool()
	ctx := c.Request.Context()

	rows, err := pool.Query(ctx, `
		SELECT id, store_id, store_name, total, bill_date, created_at
		FROM bills
		ORDER BY created_at DESC
		LIMIT 100
	`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bills"})
		return
	}
	defer rows.Close()

	bills := []BillSummary{}
	for rows.Next() {
		var b database.Bill
		if err := rows.Scan(&b.ID, &b.StoreID, &b.StoreName, &b.Total, &b.BillDate, &b.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan bill"})
			return
		}
		bills = append(bills, billSummary(b))
	}
	if rows.Err() != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating bills"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bills": bills})
}
