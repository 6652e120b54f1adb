package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// BasketItem is a grocery-list entry. It unmarshals from either a bare
// string or an object with a name field, matching what clients send.
type BasketItem struct {
	Name string `json:"name"`
}

func (b *BasketItem) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &b.Name)
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	b.Name = obj.Name
	return nil
}

// CalculateTotalRequest asks for a grocery list priced at one store.
type CalculateTotalRequest struct {
	StoreID string       `json:"storeId" binding:"required"`
	Items   []BasketItem `json:"items" binding:"required,min=1,max=100"`
}

// CalculateTotalResponse is the estimated basket cost.
type CalculateTotalResponse struct {
	Total      float64         `json:"total"`
	ItemPrices []ItemPriceInfo `json:"itemPrices"`
	ItemsFound int             `json:"itemsFound"`
	ItemsTotal int             `json:"itemsTotal"`
}

// CalculateTotal estimates the cost of a grocery list at a store
// POST /api/stores/calculate-total
func CalculateTotal(c *gin.Context) {
	var req CalculateTotalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if basketEstimator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Estimator not initialized"})
		return
	}

	items := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Name != "" {
			items = append(items, item.Name)
		}
	}
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Items must have names"})
		return
	}

	estimate, err := basketEstimator.EstimateTotal(c.Request.Context(), req.StoreID, items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate total"})
		return
	}

	itemPrices := make([]ItemPriceInfo, len(estimate.Items))
	for i, ip := range estimate.Items {
		itemPrices[i] = ItemPriceInfo{
			Name:  ip.Name,
			Price: ip.Price,
			Found: ip.Found(),
		}
	}

	c.JSON(http.StatusOK, CalculateTotalResponse{
		Total:      estimate.Total,
		ItemPrices: itemPrices,
		ItemsFound: estimate.ItemsFound,
		ItemsTotal: estimate.ItemsTotal,
	})
}
