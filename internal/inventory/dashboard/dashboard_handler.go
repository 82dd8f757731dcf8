package dashboard

import (
	"net/http"
	"strconv"
	"time"

	"github.com/GThiruAishwarya/kristaball/pkg/roles"
	"github.com/GThiruAishwarya/kristaball/pkg/security"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	service *MetricsService
}

func NewDashboardHandler(service *MetricsService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.GET("/dashboard-metrics", security.Authorize(roles.BaseCommander), h.GetDashboardMetrics)
	}
}

func (h *DashboardHandler) GetDashboardMetrics(c *gin.Context) {
	var baseID *int
	if v := c.Query("base_id"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "base_id must be an integer"})
			return
		}
		baseID = &parsed
	}

	var from, to time.Time
	if v := c.Query("start_date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
			return
		}
		from = parsed
	}
	if v := c.Query("end_date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
			return
		}
		// end_date is inclusive for callers
		to = parsed.AddDate(0, 0, 1)
	}
	if from.IsZero() != to.IsZero() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "start_date and end_date must be provided together"})
		return
	}
	if !from.IsZero() && !to.After(from) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "end_date must not be before start_date"})
		return
	}

	metrics, err := h.service.ComputeDashboard(baseID, from, to)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to compute dashboard metrics", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, metrics)
}
