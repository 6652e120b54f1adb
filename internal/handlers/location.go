package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetLocation resolves the caller's approximate location from their IP
// GET /api/location
func GetLocation(c *gin.Context) {
	if geoResolver == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Geolocation not initialized"})
		return
	}

	ip := c.ClientIP()
	// Local and private addresses can't be geolocated; let the provider
	// resolve the service's own egress address instead.
	if ip == "127.0.0.1" || ip == "::1" {
		ip = ""
	}

	loc, err := geoResolver.Resolve(c.Request.Context(), ip)
	if err != nil {
		// The default location still renders a usable map.
		c.JSON(http.StatusOK, gin.H{"location": loc, "resolved": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"location": loc, "resolved": true})
}
