package handlers

import (
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cartwise/store-service/internal/recommender"
)

// RecommendationItem is one entry of the grocery list.
type RecommendationItem struct {
	Name     string `json:"name" binding:"required"`
	Quantity string `json:"quantity,omitempty"`
}

// Location represents a geographic location
type Location struct {
	Latitude  float64 `json:"lat" binding:"min=-90,max=90"`
	Longitude float64 `json:"lng" binding:"min=-180,max=180"`
}

// Preferences are the user's ranking weights, as percentages.
type Preferences struct {
	PriceWeight    float64 `json:"priceWeight" binding:"min=0"`
	QualityWeight  float64 `json:"qualityWeight" binding:"min=0"`
	DistanceWeight float64 `json:"distanceWeight" binding:"min=0"`
}

// RecommendationRequest is the ranked-stores query body.
type RecommendationRequest struct {
	Items       []RecommendationItem `json:"items" binding:"required,min=1,max=100"`
	Location    Location             `json:"location" binding:"required"`
	Preferences *Preferences         `json:"preferences,omitempty"`
	RadiusKm    float64              `json:"radiusKm,omitempty"`
}

// ItemPriceInfo is the per-item outcome inside a basket estimate.
type ItemPriceInfo struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Found bool    `json:"found"`
}

// StoreRecommendation is one ranked store in the response.
type StoreRecommendation struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Address        string          `json:"address,omitempty"`
	Distance       float64         `json:"distance"`
	IsOpen         bool            `json:"isOpen"`
	NextOpen       string          `json:"nextOpen,omitempty"`
	ClosingTime    string          `json:"closingTime,omitempty"`
	PriceScore     float64         `json:"priceScore"`
	QualityScore   float64         `json:"qualityScore"`
	DistanceScore  int             `json:"distanceScore"`
	TotalScore     int             `json:"totalScore"`
	EstimatedTotal float64         `json:"estimatedTotal"`
	ItemPrices     []ItemPriceInfo `json:"itemPrices,omitempty"`
}

// GetRecommendations ranks nearby stores for a grocery list
// POST /api/recommendations
func GetRecommendations(c *gin.Context) {
	var req RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if storeRecommender == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Recommender not initialized"})
		return
	}

	weights := recommender.DefaultWeights()
	if req.Preferences != nil {
		weights = recommender.Weights{
			Price:    req.Preferences.PriceWeight,
			Quality:  req.Preferences.QualityWeight,
			Distance: req.Preferences.DistanceWeight,
		}
	}

	items := make([]string, len(req.Items))
	for i, item := range req.Items {
		items[i] = item.Name
	}

	recs, err := storeRecommender.Recommend(c.Request.Context(), &recommender.Request{
		Items: items,
		Location: recommender.Coordinate{
			Latitude:  req.Location.Latitude,
			Longitude: req.Location.Longitude,
		},
		Weights:  weights,
		RadiusKm: req.RadiusKm,
	})
	if err != nil {
		var invalid recommender.ErrInvalidRequest
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate recommendations"})
		return
	}

	response := make([]*StoreRecommendation, len(recs))
	for i, r := range recs {
		itemPrices := make([]ItemPriceInfo, len(r.Estimate.Items))
		for j, ip := range r.Estimate.Items {
			itemPrices[j] = ItemPriceInfo{
				Name:  ip.Name,
				Price: ip.Price,
				Found: ip.Found(),
			}
		}

		response[i] = &StoreRecommendation{
			ID:             r.ID,
			Name:           r.Name,
			Address:        r.Address,
			Distance:       math.Round(r.DistanceKm*10) / 10,
			IsOpen:         r.IsOpen,
			NextOpen:       r.NextOpen,
			ClosingTime:    r.ClosingTime,
			PriceScore:     r.PriceScore,
			QualityScore:   r.QualityScore,
			DistanceScore:  r.DistanceScore,
			TotalScore:     r.TotalScore,
			EstimatedTotal: r.EstimatedTotal,
			ItemPrices:     itemPrices,
		}
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": response})
}
