package activitylog

import (
	"net/http"

	"github.com/annisazulfa99/inventaris/internal/repository"
	"github.com/annisazulfa99/inventaris/pkg/roles"
	"github.com/annisazulfa99/inventaris/pkg/security"

	"github.com/gin-gonic/gin"
)

type ActivityLogHandler struct {
	Repository *ActivityLogRepository
}

func NewHandler(r *ActivityLogRepository) *ActivityLogHandler {
	return &ActivityLogHandler{Repository: r}
}

func (h *ActivityLogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/activity-logs", security.Authorize(roles.Admin), h.GetEntries)
}

func (h *ActivityLogHandler) GetEntries(c *gin.Context) {
	conditions := repository.NewQueryBuilder()
	if username := c.Query("username"); username != "" {
		conditions.AddCondition("username", username)
	}
	if action := c.Query("aktifitas"); action != "" {
		conditions.AddCondition("aktifitas", action)
	}

	entries, err := h.Repository.GetEntries(conditions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity logs", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}
