package reports

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/annisazulfa99/inventaris/internal/borrows"
	"github.com/annisazulfa99/inventaris/pkg/activity"
	"github.com/annisazulfa99/inventaris/pkg/metadata"
	"github.com/annisazulfa99/inventaris/pkg/models"
	"github.com/annisazulfa99/inventaris/pkg/roles"
	"github.com/annisazulfa99/inventaris/pkg/security"

	"github.com/gin-gonic/gin"
)

type borrowLookup interface {
	GetBorrow(borrowID int) (*models.Borrow, error)
}

type itemOwnerLookup interface {
	GetItemOwner(code string) (*int, error)
}

type ReportHandler struct {
	Repository  ReportRepository
	Borrows     borrowLookup
	Items       itemOwnerLookup
	ActivityLog *activity.Logger
}

func NewHandler(repo ReportRepository, borrowRepo borrowLookup, itemRepo itemOwnerLookup, activityLog *activity.Logger) *ReportHandler {
	return &ReportHandler{
		Repository:  repo,
		Borrows:     borrowRepo,
		Items:       itemRepo,
		ActivityLog: activityLog,
	}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/reports", h.GetReports)
	router.GET("/reports/:id", h.GetReport)
	router.POST("/reports", security.Authorize(roles.Peminjam), h.CreateReport)
	router.PATCH("/reports/:id/status", security.Authorize(roles.Admin), h.UpdateStatus)
}

func (h *ReportHandler) GetReports(c *gin.Context) {
	caps := security.CapabilitiesFromContext(c)

	var reports []models.Report
	var err error
	if status := c.Query("status"); status != "" {
		if _, err := metadata.NewReportStatus(status); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		reports, err = h.Repository.GetReportsByStatus(status, caps.Scope)
	} else {
		reports, err = h.Repository.GetReports(caps.Scope)
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reports", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, reports)
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	reportID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	report, err := h.Repository.GetReport(reportID)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found", "code": "REPORT_NOT_FOUND"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch report", "details": err.Error()})
		return
	}

	// same visibility overlay the list endpoints apply through their
	// scope joins: a borrower sees its own reports, an institution the
	// reports on items it owns
	caps := security.CapabilitiesFromContext(c)
	switch caps.Scope.Role {
	case roles.Peminjam:
		borrow, err := h.Borrows.GetBorrow(report.PeminjamanID)
		if err != nil || borrow.PeminjamID != caps.Scope.RoleID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "details": "You are not allowed to access this report"})
			return
		}
	case roles.Instansi:
		owner, err := h.Items.GetItemOwner(report.KodeBarang)
		if err != nil || owner == nil || *owner != caps.Scope.RoleID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "details": "You are not allowed to access this report"})
			return
		}
	}

	c.JSON(http.StatusOK, report)
}

// CreateReport files a loss/damage report against the caller's own
// active borrow record.
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req models.CreateReportRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	borrow, err := h.Borrows.GetBorrow(req.PeminjamanID)
	if err != nil {
		if errors.Is(err, borrows.ErrBorrowNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Borrow not found", "code": "BORROW_NOT_FOUND"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch borrow", "details": err.Error()})
		return
	}

	caps := security.CapabilitiesFromContext(c)
	if borrow.PeminjamID != caps.Scope.RoleID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "details": "You may only report your own borrows"})
		return
	}
	if borrow.StatusBarang != models.BorrowStatusActive {
		c.JSON(http.StatusConflict, gin.H{"error": "Borrow is not active", "code": "NOT_ACTIVE"})
		return
	}

	report, err := h.Repository.PersistReport(borrow.ID, borrow.KodeBarang)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create report", "details": err.Error()})
		return
	}

	username, role := security.ActorFromContext(c)
	h.ActivityLog.LogCreate(username, role, "LAPORAN", report.NoLaporan)

	c.JSON(http.StatusCreated, report)
}

func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	reportID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if _, err := metadata.NewReportStatus(req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Repository.UpdateStatus(reportID, req.Status); err != nil {
		if errors.Is(err, ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found", "code": "REPORT_NOT_FOUND"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update report", "details": err.Error()})
		return
	}

	username, role := security.ActorFromContext(c)
	h.ActivityLog.LogUpdate(username, role, "LAPORAN", req.Status)

	c.JSON(http.StatusOK, gin.H{"id": reportID, "status": req.Status})
}
