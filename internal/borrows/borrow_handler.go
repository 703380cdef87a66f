package borrows

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/annisazulfa99/inventaris/internal/items"
	"github.com/annisazulfa99/inventaris/pkg/activity"
	"github.com/annisazulfa99/inventaris/pkg/metadata"
	"github.com/annisazulfa99/inventaris/pkg/models"
	"github.com/annisazulfa99/inventaris/pkg/roles"
	"github.com/annisazulfa99/inventaris/pkg/security"

	"github.com/gin-gonic/gin"
)

type BorrowHandler struct {
	Service     *BorrowService
	Repository  BorrowRepository
	Items       *items.ItemRepository
	ActivityLog *activity.Logger
}

func NewHandler(service *BorrowService, repo BorrowRepository, itemRepo *items.ItemRepository, activityLog *activity.Logger) *BorrowHandler {
	return &BorrowHandler{
		Service:     service,
		Repository:  repo,
		Items:       itemRepo,
		ActivityLog: activityLog,
	}
}

func (h *BorrowHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/borrows", h.GetBorrows)
	router.GET("/borrows/pending", security.Authorize(roles.Admin), h.GetPendingBorrows)
	router.GET("/borrows/active", h.GetActiveBorrows)
	router.GET("/borrows/overdue", h.GetOverdueBorrows)
	router.GET("/borrows/:id", h.GetBorrow)
	router.POST("/borrows", security.Authorize(roles.Admin, roles.Peminjam), h.RequestBorrow)
	router.POST("/borrows/:id/approve", security.Authorize(roles.Admin), h.ApproveBorrow)
	router.POST("/borrows/:id/reject", security.Authorize(roles.Admin), h.RejectBorrow)
	router.POST("/borrows/:id/return", h.ReturnBorrow)
}

func (h *BorrowHandler) GetBorrows(c *gin.Context) {
	caps := security.CapabilitiesFromContext(c)

	borrows, err := h.Repository.GetBorrows(caps.Scope)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch borrows", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, borrows)
}

func (h *BorrowHandler) GetPendingBorrows(c *gin.Context) {
	borrows, err := h.Repository.GetPendingBorrows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch borrows", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, borrows)
}

func (h *BorrowHandler) GetActiveBorrows(c *gin.Context) {
	caps := security.CapabilitiesFromContext(c)

	borrows, err := h.Repository.GetActiveBorrows(caps.Scope)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch borrows", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, borrows)
}

func (h *BorrowHandler) GetOverdueBorrows(c *gin.Context) {
	caps := security.CapabilitiesFromContext(c)

	borrows, err := h.Repository.GetOverdueBorrows(caps.Scope)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch borrows", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, borrows)
}

func (h *BorrowHandler) GetBorrow(c *gin.Context) {
	borrowID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid borrow ID"})
		return
	}

	borrow, ok := h.fetchAuthorized(c, borrowID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, borrow)
}

func (h *BorrowHandler) RequestBorrow(c *gin.Context) {
	var req models.BorrowRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	caps := security.CapabilitiesFromContext(c)
	if caps.Scope.Role == roles.Peminjam {
		// borrowers always request for themselves
		req.PeminjamID = caps.Scope.RoleID
	} else if req.PeminjamID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_peminjam is required"})
		return
	}

	borrowID, err := h.Service.Request(req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{"error": "Not enough stock available", "code": "INSUFFICIENT_STOCK"})
		case errors.Is(err, ErrDeadlineBeforeStart):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create borrow request", "details": err.Error()})
		}
		return
	}

	username, role := security.ActorFromContext(c)
	h.ActivityLog.LogCreate(username, role, "PEMINJAMAN", req.KodeBarang)

	c.JSON(http.StatusCreated, gin.H{"id": borrowID, "status": models.BorrowStatusPending})
}

func (h *BorrowHandler) ApproveBorrow(c *gin.Context) {
	borrowID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid borrow ID"})
		return
	}

	caps := security.CapabilitiesFromContext(c)
	if err := h.Service.Approve(borrowID, caps.Scope.RoleID); err != nil {
		if errors.Is(err, ErrInvalidState) {
			c.JSON(http.StatusConflict, gin.H{"error": "Borrow is not pending", "code": "NOT_PENDING"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve borrow", "details": err.Error()})
		return
	}

	username, role := security.ActorFromContext(c)
	h.ActivityLog.LogUpdate(username, role, "PEMINJAMAN", fmt.Sprintf("approve #%d", borrowID))

	c.JSON(http.StatusOK, gin.H{"id": borrowID, "status": models.BorrowStatusActive})
}

func (h *BorrowHandler) RejectBorrow(c *gin.Context) {
	borrowID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid borrow ID"})
		return
	}

	if err := h.Service.Reject(borrowID); err != nil {
		switch {
		case errors.Is(err, ErrBorrowNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Borrow not found", "code": "BORROW_NOT_FOUND"})
		case errors.Is(err, ErrInvalidState):
			c.JSON(http.StatusConflict, gin.H{"error": "Borrow is not pending", "code": "NOT_PENDING"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject borrow", "details": err.Error()})
		}
		return
	}

	username, role := security.ActorFromContext(c)
	h.ActivityLog.LogDelete(username, role, "PEMINJAMAN", fmt.Sprintf("reject #%d", borrowID))

	c.JSON(http.StatusOK, gin.H{"id": borrowID, "status": "rejected"})
}

func (h *BorrowHandler) ReturnBorrow(c *gin.Context) {
	borrowID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid borrow ID"})
		return
	}

	var req models.ReturnRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if _, err := metadata.NewCondition(req.KondisiBarang); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, ok := h.fetchAuthorized(c, borrowID); !ok {
		return
	}

	if err := h.Service.Return(borrowID, req.KondisiBarang, req.Foto); err != nil {
		switch {
		case errors.Is(err, ErrBorrowNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Borrow not found", "code": "BORROW_NOT_FOUND"})
		case errors.Is(err, ErrInvalidState):
			c.JSON(http.StatusConflict, gin.H{"error": "Borrow is not active", "code": "NOT_ACTIVE"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to return borrow", "details": err.Error()})
		}
		return
	}

	username, role := security.ActorFromContext(c)
	h.ActivityLog.LogUpdate(username, role, "PEMINJAMAN", fmt.Sprintf("return #%d (%s)", borrowID, req.KondisiBarang))

	c.JSON(http.StatusOK, gin.H{"id": borrowID, "status": models.BorrowStatusReturned})
}

// fetchAuthorized loads the record and enforces the visibility
// overlay: admin sees all, a borrower its own records, an institution
// the records of items it owns. It writes the error response itself.
func (h *BorrowHandler) fetchAuthorized(c *gin.Context, borrowID int) (*models.Borrow, bool) {
	borrow, err := h.Repository.GetBorrow(borrowID)
	if err != nil {
		if errors.Is(err, ErrBorrowNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Borrow not found", "code": "BORROW_NOT_FOUND"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch borrow", "details": err.Error()})
		}
		return nil, false
	}

	caps := security.CapabilitiesFromContext(c)
	switch caps.Scope.Role {
	case roles.Admin:
		return borrow, true
	case roles.Peminjam:
		if borrow.PeminjamID == caps.Scope.RoleID {
			return borrow, true
		}
	case roles.Instansi:
		owner, err := h.Items.GetItemOwner(borrow.KodeBarang)
		if err == nil && owner != nil && *owner == caps.Scope.RoleID {
			return borrow, true
		}
	}

	c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "details": "You are not allowed to access this record"})
	return nil, false
}
