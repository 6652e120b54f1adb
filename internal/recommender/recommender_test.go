package recommender

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStoreSource struct {
	stores []Store
	err    error
}

func (m *mockStoreSource) FindStoresNear(ctx context.Context, lat, lng, radiusKm float64) ([]Store, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.stores, nil
}

// fixedNow pins the clock to a Monday morning so open-status assertions
// are deterministic.
var fixedNow = time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)

func newTestRecommender(stores *mockStoreSource, prices PriceSource) *Recommender {
	r := New(stores, prices, DefaultConfig())
	r.now = func() time.Time { return fixedNow }
	return r
}

func testRequest() *Request {
	return &Request{
		Items:    []string{"milk"},
		Location: Coordinate{Latitude: 40.7128, Longitude: -74.0060},
		Weights:  Weights{Price: 40, Quality: 30, Distance: 30},
	}
}

func nearbyStore(id string, priceScore, qualityScore float64) Store {
	return Store{
		ID:           id,
		Name:         "Store " + id,
		Coordinate:   Coordinate{Latitude: 40.7128, Longitude: -74.0060},
		PriceScore:   priceScore,
		QualityScore: qualityScore,
		OpeningHours: "Mo-Fr 08:00-20:00",
	}
}

func TestRecommendRanksByScore(t *testing.T) {
	stores := &mockStoreSource{stores: []Store{
		nearbyStore("budget", 95, 70),
		nearbyStore("premium", 60, 95),
		nearbyStore("fresh", 85, 90),
	}}
	r := newTestRecommender(stores, &mockPriceSource{})

	recs, err := r.Recommend(context.Background(), testRequest())
	require.NoError(t, err)
	require.Len(t, recs, 3)

	// All candidates are at distance 0, so distanceScore=100 for each:
	// fresh  = 85*.4 + 90*.3 + 100*.3 = 91
	// budget = 95*.4 + 70*.3 + 100*.3 = 89
	// premium= 60*.4 + 95*.3 + 100*.3 = 82.5 -> 83
	assert.Equal(t, "fresh", recs[0].ID)
	assert.Equal(t, 91, recs[0].TotalScore)
	assert.Equal(t, "budget", recs[1].ID)
	assert.Equal(t, 89, recs[1].TotalScore)
	assert.Equal(t, "premium", recs[2].ID)
	assert.Equal(t, 83, recs[2].TotalScore)
}

func TestRecommendStableOnTies(t *testing.T) {
	stores := &mockStoreSource{stores: []Store{
		nearbyStore("first", 80, 80),
		nearbyStore("second", 80, 80),
	}}
	r := newTestRecommender(stores, &mockPriceSource{})

	recs, err := r.Recommend(context.Background(), testRequest())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, recs[0].TotalScore, recs[1].TotalScore)
	assert.Equal(t, "first", recs[0].ID)
	assert.Equal(t, "second", recs[1].ID)
}

func TestRecommendDefaultsUnknownSignals(t *testing.T) {
	stores := &mockStoreSource{stores: []Store{nearbyStore("blank", 0, 0)}}
	r := newTestRecommender(stores, &mockPriceSource{})

	recs, err := r.Recommend(context.Background(), testRequest())
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Equal(t, 50.0, recs[0].PriceScore)
	assert.Equal(t, 50.0, recs[0].QualityScore)
	// 50*.4 + 50*.3 + 100*.3 = 65
	assert.Equal(t, 65, recs[0].TotalScore)
}

func TestRecommendPopulatesOpenStatus(t *testing.T) {
	open := nearbyStore("open", 80, 80)
	closed := nearbyStore("closed", 80, 80)
	closed.OpeningHours = "off"

	r := newTestRecommender(&mockStoreSource{stores: []Store{open, closed}}, &mockPriceSource{})

	recs, err := r.Recommend(context.Background(), testRequest())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	byID := map[string]*Recommendation{}
	for _, rec := range recs {
		byID[rec.ID] = rec
	}

	require.Contains(t, byID, "open")
	assert.True(t, byID["open"].IsOpen)
	assert.Equal(t, "20:00", byID["open"].ClosingTime)

	require.Contains(t, byID, "closed")
	assert.False(t, byID["closed"].IsOpen)
	assert.Empty(t, byID["closed"].ClosingTime)
}

func TestRecommendAttachesBasketEstimate(t *testing.T) {
	prices := &mockPriceSource{records: []PriceRecord{
		record("near", "Whole Milk", 3.50, 0),
	}}
	stores := &mockStoreSource{stores: []Store{nearbyStore("near", 80, 80)}}
	r := newTestRecommender(stores, prices)

	recs, err := r.Recommend(context.Background(), testRequest())
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Equal(t, 3.50, recs[0].EstimatedTotal)
	assert.Equal(t, 1, recs[0].Estimate.ItemsFound)
}

func TestRecommendEstimateFailureKeepsStore(t *testing.T) {
	stores := &mockStoreSource{stores: []Store{nearbyStore("flaky", 80, 80)}}
	r := newTestRecommender(stores, &mockPriceSource{err: errors.New("boom")})

	recs, err := r.Recommend(context.Background(), testRequest())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 0.0, recs[0].EstimatedTotal)
	assert.Equal(t, 1, recs[0].Estimate.ItemsTotal)
}

func TestRecommendStoreLookupFailureIsFatal(t *testing.T) {
	r := newTestRecommender(&mockStoreSource{err: errors.New("db down")}, &mockPriceSource{})

	_, err := r.Recommend(context.Background(), testRequest())
	assert.Error(t, err)
}

func TestRecommendDistanceAffectsRanking(t *testing.T) {
	far := nearbyStore("far", 85, 90)
	far.Coordinate = Coordinate{Latitude: 40.7128 + 0.05, Longitude: -74.0060}

	stores := &mockStoreSource{stores: []Store{far, nearbyStore("near", 85, 90)}}
	r := newTestRecommender(stores, &mockPriceSource{})

	recs, err := r.Recommend(context.Background(), testRequest())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "near", recs[0].ID)
	assert.Greater(t, recs[1].DistanceKm, recs[0].DistanceKm)
}

func TestRecommendValidation(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Request)
	}{
		{"no items", func(r *Request) { r.Items = nil }},
		{"empty item", func(r *Request) { r.Items = []string{""} }},
		{"bad latitude", func(r *Request) { r.Location.Latitude = 91 }},
		{"bad longitude", func(r *Request) { r.Location.Longitude = -200 }},
		{"negative weight", func(r *Request) { r.Weights.Price = -1 }},
		{"negative radius", func(r *Request) { r.RadiusKm = -1 }},
	}

	r := newTestRecommender(&mockStoreSource{}, &mockPriceSource{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testRequest()
			tt.mod(req)
			_, err := r.Recommend(context.Background(), req)
			var invalid ErrInvalidRequest
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestRecommendMaxResults(t *testing.T) {
	config := DefaultConfig()
	config.MaxResults = 2

	var all []Store
	for _, id := range []string{"a", "b", "c", "d"} {
		all = append(all, nearbyStore(id, 80, 80))
	}
	r := New(&mockStoreSource{stores: all}, &mockPriceSource{}, config)
	r.now = func() time.Time { return fixedNow }

	recs, err := r.Recommend(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}
