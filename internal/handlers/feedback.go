package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cartwise/store-service/internal/database"
)

// FeedbackRequest is a store rating with an optional comment.
type FeedbackRequest struct {
	StoreID  string `json:"storeId" binding:"required"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Comment  string `json:"comment"`
	Category string `json:"category" binding:"omitempty,oneof=price quality distance other"`
}

// SubmitFeedback stores a rating and returns a follow-up suggestion
// POST /api/feedback
func SubmitFeedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	suggestion := analyzeFeedback(req.Comment, req.Rating)

	pool := database.Pool()
	ctx := c.Request.Context()

	var id string
	err := pool.QueryRow(ctx, `
		INSERT INTO feedback (id, store_id, rating, comment, category)
		VALUES (gen_random_uuid()::text, $1, $2, NULLIF($3, ''), NULLIF($4, ''))
		RETURNING id
	`, req.StoreID, req.Rating, req.Comment, req.Category).Scan(&id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save feedback"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         id,
		"suggestion": suggestion,
	})
}

// analyzeFeedback returns a rule-based follow-up suggestion for low
// ratings.
func analyzeFeedback(comment string, rating int) string {
	lower := strings.ToLower(comment)

	if rating <= 2 {
		switch {
		case strings.Contains(lower, "price") || strings.Contains(lower, "expensive"):
			return "Consider adding price comparison filters and budget alerts"
		case strings.Contains(lower, "quality") || strings.Contains(lower, "fresh"):
			return "Implement quality rating system based on user reviews"
		case strings.Contains(lower, "distance") || strings.Contains(lower, "far"):
			return "Add route optimization and delivery options"
		}
	}

	return "Review feedback for patterns and trends"
}

// FeedbackEntry is one saved feedback row in the listing.
type FeedbackEntry struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"storeId"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	Category  *string   `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

func feedbackEntry(f database.Feedback) FeedbackEntry {
	return FeedbackEntry{
		ID:        f.ID,
		StoreID:   f.StoreID,
		Rating:    f.Rating,
		Comment:   f.Comment,
		Category:  f.Category,
		CreatedAt: f.CreatedAt,
	}
}

// GetFeedback lists recent feedback, newest first
// GET /api/feedback
func GetFeedback(c *gin.Context) {
	pool := database.Pool()
	ctx := c.Request.Context()

	rows, err := pool.Query(ctx, `
		SELECT id, store_id, rating, comment, category, created_at
		FROM feedback
		ORDER BY created_at DESC
		LIMIT 100
	`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feedback"})
		return
	}
	defer rows.Close()

	entries := []FeedbackEntry{}
	for rows.Next() {
		var f database.Feedback
		if err := rows.Scan(&f.ID, &f.StoreID, &f.Rating, &f.Comment, &f.Category, &f.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan feedback"})
			return
		}
		entries = append(entries, feedbackEntry(f))
	}
	if rows.Err() != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"feedback": entries})
}
