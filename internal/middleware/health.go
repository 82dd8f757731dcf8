package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthStatus struct {
	Status      string    `json:"status"`
	LastChecked time.Time `json:"last_checked"`
	Uptime      string    `json:"uptime"`
	Version     string    `json:"version"`
}

var (
	healthMutex  sync.RWMutex
	healthState  = "ok"
	buildVersion = "1.0.0"
	startTime    = time.Now()
)

// HealthCheckMiddleware serves the liveness endpoint.
func HealthCheckMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		healthMutex.RLock()
		status := HealthStatus{
			Status:      healthState,
			LastChecked: time.Now(),
			Uptime:      time.Since(startTime).String(),
			Version:     buildVersion,
		}
		healthMutex.RUnlock()

		c.JSON(http.StatusOK, status)
	}
}

// UpdateHealthStatus flips the reported status, e.g. when the database
// connection is lost.
func UpdateHealthStatus(status string) {
	healthMutex.Lock()
	defer healthMutex.Unlock()
	healthState = status
}

func SetVersion(version string) {
	healthMutex.Lock()
	defer healthMutex.Unlock()
	buildVersion = version
}
