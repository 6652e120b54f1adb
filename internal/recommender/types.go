package recommender

import (
	"context"
	"fmt"
	"time"
)

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Weights are the user's ranking preferences, expressed as percentages.
// Each weight is divided by 100 independently; callers that want totals
// capped at 100 are responsible for making the weights sum to 100.
type Weights struct {
	Price    float64
	Quality  float64
	Distance float64
}

// DefaultWeights balances price slightly above quality and distance.
func DefaultWeights() Weights {
	return Weights{Price: 40, Quality: 30, Distance: 30}
}

// Store is a store row as returned by a StoreSource.
type Store struct {
	ID           string
	Name         string
	Address      string
	Coordinate   Coordinate
	PriceScore   float64 // 0..100, 0 = unknown
	QualityScore float64 // 0..100, 0 = unknown
	OpeningHours string  // raw opening-hours string, may be empty
}

// PriceRecord is a recorded price for a product at a store.
type PriceRecord struct {
	StoreID      string
	ProductName  string
	Price        float64
	Currency     string
	Unit         string
	DateRecorded time.Time
	Source       string
}

// PriceSource provides read access to recorded product prices.
type PriceSource interface {
	// FindPrices returns records whose product name contains the given
	// substring (case-insensitive), most recent first. A non-empty
	// storeID scopes the search to that store.
	FindPrices(ctx context.Context, storeID, product string, limit int) ([]PriceRecord, error)
}

// StoreSource provides read access to store locations.
type StoreSource interface {
	// FindStoresNear returns stores within radiusKm of the given point.
	FindStoresNear(ctx context.Context, lat, lng, radiusKm float64) ([]Store, error)
}

// Resolution tags how an item's price was obtained during basket
// estimation. A price can be present even when the store itself had no
// matching record; the tag keeps that distinction explicit.
type Resolution int

const (
	// ResolutionUnavailable means no price record matched anywhere.
	ResolutionUnavailable Resolution = iota

	// ResolutionFound means a store-scoped record matched.
	ResolutionFound

	// ResolutionAveraged means the price is a cross-store average.
	ResolutionAveraged
)

func (r Resolution) String() string {
	switch r {
	case ResolutionFound:
		return "found"
	case ResolutionAveraged:
		return "averaged"
	default:
		return "unavailable"
	}
}

// ItemPrice is the per-item outcome of a basket estimation.
type ItemPrice struct {
	Name       string
	Price      float64
	Resolution Resolution
}

// Found reports store-specific availability. An averaged price still
// counts as not found.
func (ip ItemPrice) Found() bool {
	return ip.Resolution == ResolutionFound
}

// BasketEstimate is the outcome of estimating a grocery list at a store.
type BasketEstimate struct {
	Total      float64
	Items      []ItemPrice
	ItemsFound int
	ItemsTotal int
}

// StoreCandidate carries a store's signals through scoring. TotalScore
// and EstimatedTotal are derived; everything else is input.
type StoreCandidate struct {
	ID           string
	Name         string
	Address      string
	Coordinate   Coordinate
	PriceScore   float64
	QualityScore float64
	DistanceKm   float64
	Weights      Weights

	TotalScore     int
	EstimatedTotal float64
}

// Request is a recommendation query: what to buy, from where, and how to
// weigh the trade-offs.
type Request struct {
	Items    []string
	Location Coordinate
	Weights  Weights
	RadiusKm float64 // 0 = recommender default
}

// ErrInvalidRequest is returned when a recommendation request is invalid.
type ErrInvalidRequest struct {
	Field  string
	Reason string
}

func (e ErrInvalidRequest) Error() string {
	return e.Field + ": " + e.Reason
}

// Validate checks the request and returns an error describing the first
// problem found.
func (r *Request) Validate() error {
	if len(r.Items) == 0 {
		return ErrInvalidRequest{Field: "items", Reason: "must have at least one item"}
	}
	for i, item := range r.Items {
		if item == "" {
			return ErrInvalidRequest{Field: "items", Reason: fmt.Sprintf("item at index %d is empty", i)}
		}
	}
	if r.Location.Latitude < -90 || r.Location.Latitude > 90 {
		return ErrInvalidRequest{Field: "location.latitude", Reason: "must be between -90 and 90"}
	}
	if r.Location.Longitude < -180 || r.Location.Longitude > 180 {
		return ErrInvalidRequest{Field: "location.longitude", Reason: "must be between -180 and 180"}
	}
	if r.Weights.Price < 0 || r.Weights.Quality < 0 || r.Weights.Distance < 0 {
		return ErrInvalidRequest{Field: "weights", Reason: "must be non-negative"}
	}
	if r.RadiusKm < 0 {
		return ErrInvalidRequest{Field: "radiusKm", Reason: "must be non-negative"}
	}
	return nil
}

// Recommendation is a ranked store with everything the caller needs to
// render it.
type Recommendation struct {
	StoreCandidate

	DistanceScore int
	IsOpen        bool
	NextOpen      string
	ClosingTime   string
	Estimate      BasketEstimate
}

// Config holds tuning knobs for the recommender.
type Config struct {
	// RadiusKm is the default store search radius.
	RadiusKm float64

	// MaxResults caps the number of ranked stores returned.
	MaxResults int

	// DefaultScore substitutes for unknown price/quality signals.
	DefaultScore float64

	// ItemLookupTimeout bounds each per-item price lookup.
	ItemLookupTimeout time.Duration

	// LookupConcurrency bounds parallel per-item lookups.
	LookupConcurrency int

	// CrossStoreSample is how many recent cross-store records feed the
	// average-price fallback.
	CrossStoreSample int
}

// DefaultConfig returns the default recommender configuration.
func DefaultConfig() *Config {
	return &Config{
		RadiusKm:          5.0,
		MaxResults:        50,
		DefaultScore:      50,
		ItemLookupTimeout: 2 * time.Second,
		LookupConcurrency: 4,
		CrossStoreSample:  10,
	}
}
