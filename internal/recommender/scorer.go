package recommender

import (
	"context"
	"math"
	"sort"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Score combines a candidate's price, quality and proximity signals with
// its weights into a single ranking score, rounded to the nearest integer.
// The result is not clamped: weights summing above 100 can push it past
// 100, which is the caller's responsibility.
func Score(c StoreCandidate) int {
	distScore := DistanceScore(c.DistanceKm)
	total := c.PriceScore*c.Weights.Price/100 +
		c.QualityScore*c.Weights.Quality/100 +
		distScore*c.Weights.Distance/100
	return int(math.Round(total))
}

// Rank sorts recommendations in place by total score, best first. The
// sort is stable so entries with equal scores keep their input order.
func Rank(recs []*Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].TotalScore > recs[j].TotalScore
	})
}

// Estimator prices a grocery list against a store's recorded prices,
// falling back to cross-store averages for items the store lacks.
type Estimator struct {
	prices  PriceSource
	config  *Config
	metrics *MetricsRecorder
	logger  zerolog.Logger
}

// NewEstimator creates a basket estimator backed by the given price source.
func NewEstimator(prices PriceSource, config *Config) *Estimator {
	if config == nil {
		config = DefaultConfig()
	}
	return &Estimator{
		prices:  prices,
		config:  config,
		metrics: NewMetricsRecorder(),
		logger:  log.With().Str("component", "estimator").Logger(),
	}
}

// EstimateTotal prices each requested item at the given store. Items the
// store has no record for are priced from a cross-store average of the
// most recent matches; items with no record anywhere contribute zero.
// Item lookups are independent and run concurrently, each under its own
// timeout. A failed lookup degrades that single item to a miss rather
// than aborting the estimate.
func (e *Estimator) EstimateTotal(ctx context.Context, storeID string, items []string) (BasketEstimate, error) {
	results := make([]ItemPrice, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.LookupConcurrency)

	for i, name := range items {
		i, name := i, name
		g.Go(func() error {
			ictx, cancel := context.WithTimeout(gctx, e.config.ItemLookupTimeout)
			defer cancel()
			results[i] = e.resolveItem(ictx, storeID, name)
			return nil
		})
	}

	// Goroutines never return errors; Wait only surfaces ctx problems.
	if err := g.Wait(); err != nil {
		return BasketEstimate{}, err
	}
	if err := ctx.Err(); err != nil {
		return BasketEstimate{}, err
	}

	estimate := BasketEstimate{
		Items:      results,
		ItemsTotal: len(items),
	}
	for _, ip := range results {
		estimate.Total += ip.Price
		if ip.Found() {
			estimate.ItemsFound++
		}
	}
	estimate.Total = round2(estimate.Total)

	return estimate, nil
}

// resolveItem runs the fallback chain for one item: store-scoped match,
// then cross-store average, then unavailable.
func (e *Estimator) resolveItem(ctx context.Context, storeID, name string) ItemPrice {
	records, err := e.prices.FindPrices(ctx, storeID, name, 1)
	if err != nil {
		e.metrics.RecordLookupError("store_scoped")
		e.logger.Warn().Err(err).Str("store_id", storeID).Str("item", name).
			Msg("Store-scoped price lookup failed, treating as miss")
	} else if len(records) > 0 {
		return ItemPrice{Name: name, Price: records[0].Price, Resolution: ResolutionFound}
	}

	records, err = e.prices.FindPrices(ctx, "", name, e.config.CrossStoreSample)
	if err != nil {
		e.metrics.RecordLookupError("cross_store")
		e.logger.Warn().Err(err).Str("item", name).
			Msg("Cross-store price lookup failed, treating as miss")
	} else if len(records) > 0 {
		var sum float64
		for _, r := range records {
			sum += r.Price
		}
		return ItemPrice{Name: name, Price: sum / float64(len(records)), Resolution: ResolutionAveraged}
	}

	return ItemPrice{Name: name, Resolution: ResolutionUnavailable}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
