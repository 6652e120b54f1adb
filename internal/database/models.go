package database

import (
	"time"
)

// Store represents a grocery store location with its ranking signals.
type Store struct {
	ID           string    `json:"id"`
	OSMID        *int64    `json:"osm_id"`        // OpenStreetMap node/way id, if imported
	Name         string    `json:"name"`
	Address      *string   `json:"address"`
	City         *string   `json:"city"`
	PostalCode   *string   `json:"postal_code"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	PriceScore   float64   `json:"price_score"`   // 0-100, 0 = unknown
	QualityScore float64   `json:"quality_score"` // 0-100, 0 = unknown
	OpeningHours *string   `json:"opening_hours"` // raw opening-hours string
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductPrice is a single recorded price observation for a product at a
// store. Observations are append-only; lookups take the most recent.
type ProductPrice struct {
	ID             string    `json:"id"`
	StoreID        string    `json:"store_id"`
	ProductName    string    `json:"product_name"`
	NormalizedName string    `json:"normalized_name"` // lowercased, diacritic-folded
	Price          float64   `json:"price"`
	Currency       string    `json:"currency"`
	Unit           *string   `json:"unit"`
	DateRecorded   time.Time `json:"date_recorded"`
	Source         string    `json:"source"` // 'manual' | 'receipt' | 'feed'
	CreatedAt      time.Time `json:"created_at"`
}

// Bill is a scanned receipt whose parsed line items feed price records.
type Bill struct {
	ID        string     `json:"id"`
	StoreID   *string    `json:"store_id"`   // matched store, if any
	StoreName *string    `json:"store_name"` // name as printed on the receipt
	Total     *float64   `json:"total"`
	Currency  string     `json:"currency"`
	BillDate  *time.Time `json:"bill_date"`
	RawText   string     `json:"raw_text"`
	CreatedAt time.Time  `json:"created_at"`
}

// BillItem is a parsed line item from a bill.
type BillItem struct {
	ID          string  `json:"id"`
	BillID      string  `json:"bill_id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
}

// Feedback is a user rating for a store, optionally tagged with the
// aspect the comment is about.
type Feedback struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id"`
	Rating    int       `json:"rating"` // 1-5
	Comment   *string   `json:"comment"`
	Category  *string   `json:"category"` // 'price' | 'quality' | 'distance' | 'other'
	CreatedAt time.Time `json:"created_at"`
}
