// Package recommender ranks nearby grocery stores for a shopping list by
// blending price, quality and proximity signals with user weights.
package recommender

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cartwise/store-service/internal/hours"
)

// Recommender turns a grocery list and a location into a ranked list of
// store recommendations. It is stateless between calls; all data comes
// from the injected sources.
type Recommender struct {
	stores    StoreSource
	estimator *Estimator
	config    *Config
	metrics   *MetricsRecorder
	logger    zerolog.Logger
	now       func() time.Time
}

// New creates a recommender over the given store and price sources.
func New(stores StoreSource, prices PriceSource, config *Config) *Recommender {
	if config == nil {
		config = DefaultConfig()
	}
	return &Recommender{
		stores:    stores,
		estimator: NewEstimator(prices, config),
		config:    config,
		metrics:   NewMetricsRecorder(),
		logger:    log.With().Str("component", "recommender").Logger(),
		now:       time.Now,
	}
}

// Estimator exposes the basket estimator sharing this recommender's
// configuration.
func (r *Recommender) Estimator() *Estimator {
	return r.estimator
}

// Recommend ranks stores near the request's location for its grocery
// list. A store whose price or quality signal is unknown is kept with
// both defaulted rather than dropped; a store whose basket estimate
// fails keeps a zero estimate. Only the store search itself is fatal.
func (r *Recommender) Recommend(ctx context.Context, req *Request) ([]*Recommendation, error) {
	startTime := time.Now()
	defer func() {
		r.metrics.RecordRecommendationDuration(time.Since(startTime))
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	r.metrics.RecordBasketSize(len(req.Items))

	radius := req.RadiusKm
	if radius == 0 {
		radius = r.config.RadiusKm
	}

	stores, err := r.stores.FindStoresNear(ctx, req.Location.Latitude, req.Location.Longitude, radius)
	if err != nil {
		return nil, fmt.Errorf("finding stores near location: %w", err)
	}
	r.metrics.RecordCandidateCount(len(stores))

	now := r.now()
	recommendations := make([]*Recommendation, 0, len(stores))

	for _, store := range stores {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		recommendations = append(recommendations, r.evaluateStore(ctx, req, store, now))
	}

	ranked := recommendations
	Rank(ranked)

	if len(ranked) > r.config.MaxResults {
		ranked = ranked[:r.config.MaxResults]
	}

	if len(ranked) > 0 {
		r.metrics.RecordTopScore(ranked[0].TotalScore)
		r.metrics.RecordNearestStoreDistance(ranked[0].DistanceKm)
	}

	return ranked, nil
}

// evaluateStore scores one store for the request. Missing signals default
// rather than disqualify.
func (r *Recommender) evaluateStore(ctx context.Context, req *Request, store Store, now time.Time) *Recommendation {
	candidate := StoreCandidate{
		ID:           store.ID,
		Name:         store.Name,
		Address:      store.Address,
		Coordinate:   store.Coordinate,
		PriceScore:   store.PriceScore,
		QualityScore: store.QualityScore,
		DistanceKm:   HaversineKm(req.Location, store.Coordinate),
		Weights:      req.Weights,
	}
	if candidate.PriceScore <= 0 {
		candidate.PriceScore = r.config.DefaultScore
	}
	if candidate.QualityScore <= 0 {
		candidate.QualityScore = r.config.DefaultScore
	}

	estimate, err := r.estimator.EstimateTotal(ctx, store.ID, req.Items)
	if err != nil {
		r.logger.Warn().Err(err).Str("store_id", store.ID).
			Msg("Basket estimation failed, keeping store with empty estimate")
		estimate = BasketEstimate{ItemsTotal: len(req.Items)}
	}

	candidate.EstimatedTotal = estimate.Total
	candidate.TotalScore = Score(candidate)

	week := hours.Parse(store.OpeningHours)
	status := hours.Status(week, now)
	closing, _ := hours.ClosingTimeToday(week, now)

	return &Recommendation{
		StoreCandidate: candidate,
		DistanceScore:  int(math.Round(DistanceScore(candidate.DistanceKm))),
		IsOpen:         status.IsOpen,
		NextOpen:       status.NextOpen,
		ClosingTime:    closing,
		Estimate:       estimate,
	}
}
