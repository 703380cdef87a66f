package dashboard

import (
	"context"
	"log"
	"net/http"

	"github.com/annisazulfa99/inventaris/pkg/roles"
	"github.com/annisazulfa99/inventaris/pkg/security"

	"github.com/gin-gonic/gin"
)

type statsCache interface {
	Load(ctx context.Context) (*Stats, error)
	Save(ctx context.Context, stats *Stats) error
}

type DashboardHandler struct {
	Source statsSource
	Cache  statsCache
}

func NewDashboardHandler(source statsSource, cache statsCache) *DashboardHandler {
	return &DashboardHandler{Source: source, Cache: cache}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard/stats", security.Authorize(roles.Admin), h.GetStats)
}

func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.Cache.Load(c.Request.Context())
	if err != nil {
		log.Printf("dashboard cache read failed: %v", err)
	}

	if stats == nil {
		stats, err = h.Source.GetStats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute dashboard stats"})
			return
		}

		if err := h.Cache.Save(c.Request.Context(), stats); err != nil {
			log.Printf("dashboard cache write failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, stats)
}
