package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports service health.
type HealthHandler struct {
	databaseEnabled bool
}

func NewHealthHandler(databaseEnabled bool) *HealthHandler {
	return &HealthHandler{databaseEnabled: databaseEnabled}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	storeStatus := "memory"
	if h.databaseEnabled {
		storeStatus = "database"
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"store": gin.H{
			"backend": storeStatus,
		},
	})
}
