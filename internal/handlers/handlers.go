// Package handlers wires the HTTP API. Store and price CRUD talk to the
// database pool directly; recommendation and basket endpoints go through
// the recommender core.
package handlers

import (
	"github.com/cartwise/store-service/internal/geoip"
	"github.com/cartwise/store-service/internal/recommender"
)

// Global instances (initialized by the application)
var (
	storeRecommender *recommender.Recommender
	basketEstimator  *recommender.Estimator
	geoResolver      *geoip.Client
)

// Init initializes handler dependencies. Must be called during
// application startup, before routes are served.
func Init(rec *recommender.Recommender, geo *geoip.Client) {
	storeRecommender = rec
	if rec != nil {
		basketEstimator = rec.Estimator()
	}
	geoResolver = geo
}
