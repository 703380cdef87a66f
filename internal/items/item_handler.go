package items

import (
	"errors"
	"net/http"

	"github.com/annisazulfa99/inventaris/pkg/activity"
	custom_error "github.com/annisazulfa99/inventaris/pkg/errors"
	"github.com/annisazulfa99/inventaris/pkg/roles"
	"github.com/annisazulfa99/inventaris/pkg/security"

	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	Repository  *ItemRepository
	ActivityLog *activity.Logger
}

func NewItemHandler(r *ItemRepository, activityLog *activity.Logger) *ItemHandler {
	return &ItemHandler{
		Repository:  r,
		ActivityLog: activityLog,
	}
}

func (h *ItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/items", h.GetItems)
	router.GET("/items/available", h.GetAvailableItems)
	router.GET("/items/low-stock", security.Authorize(roles.Admin), h.GetLowStockItems)
	router.GET("/items/search", h.SearchItems)
	router.GET("/items/:code", h.GetItem)
	router.POST("/items", security.Authorize(roles.Admin, roles.Instansi), h.CreateItem)
	router.PATCH("/items/:code", security.Authorize(roles.Admin, roles.Instansi), h.UpdateItem)
	router.DELETE("/items/:code", security.Authorize(roles.Admin, roles.Instansi), h.DeleteItem)
}

func (h *ItemHandler) GetItems(c *gin.Context) {
	caps := security.CapabilitiesFromContext(c)

	items, err := h.Repository.GetItems(caps.Scope)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) GetAvailableItems(c *gin.Context) {
	items, err := h.Repository.GetAvailableItems()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) GetLowStockItems(c *gin.Context) {
	items, err := h.Repository.GetLowStockItems()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) SearchItems(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing search keyword"})
		return
	}

	caps := security.CapabilitiesFromContext(c)
	items, err := h.Repository.SearchItems(keyword, caps.Scope)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search items", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) GetItem(c *gin.Context) {
	item, err := h.Repository.GetItemByCode(c.Param("code"))
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found", "code": "ITEM_NOT_FOUND"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caps := security.CapabilitiesFromContext(c)
	if caps.Scope.Role == roles.Instansi {
		// institutions always create items under themselves
		owner := caps.Scope.RoleID
		req.InstansiID = &owner
	}

	item, err := h.Repository.PersistItem(req)
	if err != nil {
		var uniqueErr *custom_error.UniqueViolationError
		if errors.As(err, &uniqueErr) {
			c.JSON(http.StatusConflict, gin.H{"error": "Duplicate kode_barang", "code": "DUPLICATE_ITEM_CODE"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item", "details": err.Error()})
		return
	}

	username, role := security.ActorFromContext(c)
	h.ActivityLog.LogCreate(username, role, "BARANG", item.KodeBarang)

	c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) UpdateItem(c *gin.Context) {
	code := c.Param("code")

	var req PatchItemRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.isOwnerOrAdmin(c, code) {
		return
	}

	if !req.HasChanges() {
		item, err := h.Repository.GetItemByCode(code)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found", "code": "ITEM_NOT_FOUND"})
			return
		}
		c.JSON(http.StatusOK, item)
		return
	}

	if err := h.Repository.UpdateItem(code, &req); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found", "code": "ITEM_NOT_FOUND"})
			return
		}
		var checkErr *custom_error.CheckViolationError
		if errors.As(err, &checkErr) {
			c.JSON(http.StatusConflict, gin.H{"error": "Total below reserved quantity", "code": "STOCK_BOUNDS"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item", "details": err.Error()})
		return
	}

	username, role := security.ActorFromContext(c)
	h.ActivityLog.LogUpdate(username, role, "BARANG", code)

	item, err := h.Repository.GetItemByCode(code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) DeleteItem(c *gin.Context) {
	code := c.Param("code")

	if !h.isOwnerOrAdmin(c, code) {
		return
	}

	if err := h.Repository.DeleteItem(code); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found", "code": "ITEM_NOT_FOUND"})
			return
		}
		var fkErr *custom_error.ForeignKeyViolationError
		if errors.As(err, &fkErr) {
			c.JSON(http.StatusConflict, gin.H{"error": "Item has borrow history", "code": "ITEM_REFERENCED"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item", "details": err.Error()})
		return
	}

	username, role := security.ActorFromContext(c)
	h.ActivityLog.LogDelete(username, role, "BARANG", code)

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

// isOwnerOrAdmin writes the error response itself when access is
// denied or the item is missing.
func (h *ItemHandler) isOwnerOrAdmin(c *gin.Context, code string) bool {
	caps := security.CapabilitiesFromContext(c)
	if caps.Scope.SeesAll() {
		return true
	}

	owner, err := h.Repository.GetItemOwner(code)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found", "code": "ITEM_NOT_FOUND"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item", "details": err.Error()})
		}
		return false
	}

	if owner == nil || *owner != caps.Scope.RoleID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "details": "You are not allowed to manage this item"})
		return false
	}

	return true
}
