package recommender

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// recommendationDuration tracks the time for a full ranking pass.
	recommendationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommender_duration_seconds",
		Help:    "Time taken to rank stores for a request",
		Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1, 2, 5},
	})

	// basketSize tracks the distribution of grocery-list sizes.
	basketSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommender_basket_items_count",
		Help:    "Number of items in recommendation requests",
		Buckets: []float64{1, 5, 10, 20, 50, 100},
	})

	// candidateCount tracks how many stores a search radius yields.
	candidateCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommender_candidate_stores_count",
		Help:    "Number of candidate stores considered per request",
		Buckets: []float64{1, 5, 10, 20, 50, 100},
	})

	// topScore tracks the winning score of each request.
	topScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommender_top_score",
		Help:    "Total score of the best-ranked store",
		Buckets: []float64{20, 40, 60, 70, 80, 90, 100},
	})

	// nearestStoreDistance tracks the distance to the top-ranked store.
	nearestStoreDistance = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommender_top_store_distance_km",
		Help:    "Distance to the best-ranked store in kilometers",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 50},
	})

	// lookupErrors counts degraded price lookups by stage.
	lookupErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recommender_price_lookup_errors_total",
		Help: "Price lookups that failed and degraded to a miss, by stage",
	}, []string{"stage"}) // stage: store_scoped, cross_store
)

// MetricsRecorder provides methods to record recommender metrics.
type MetricsRecorder struct{}

// NewMetricsRecorder creates a new metrics recorder.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// RecordRecommendationDuration records the duration of a ranking pass.
func (m *MetricsRecorder) RecordRecommendationDuration(d time.Duration) {
	recommendationDuration.Observe(d.Seconds())
}

// RecordBasketSize records the size of a request's grocery list.
func (m *MetricsRecorder) RecordBasketSize(size int) {
	basketSize.Observe(float64(size))
}

// RecordCandidateCount records how many stores were considered.
func (m *MetricsRecorder) RecordCandidateCount(count int) {
	candidateCount.Observe(float64(count))
}

// RecordTopScore records the winning score of a request.
func (m *MetricsRecorder) RecordTopScore(score int) {
	topScore.Observe(float64(score))
}

// RecordNearestStoreDistance records the distance to the winning store.
func (m *MetricsRecorder) RecordNearestStoreDistance(km float64) {
	nearestStoreDistance.Observe(km)
}

// RecordLookupError records a degraded price lookup.
func (m *MetricsRecorder) RecordLookupError(stage string) {
	lookupErrors.WithLabelValues(stage).Inc()
}
