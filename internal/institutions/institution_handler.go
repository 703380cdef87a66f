package institutions

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/annisazulfa99/inventaris/internal/items"
	"github.com/annisazulfa99/inventaris/pkg/roles"
	"github.com/annisazulfa99/inventaris/pkg/security"

	"github.com/gin-gonic/gin"
)

type InstitutionHandler struct {
	Repository *InstitutionRepository
	Items      *items.ItemRepository
}

func NewHandler(r *InstitutionRepository, itemRepo *items.ItemRepository) *InstitutionHandler {
	return &InstitutionHandler{
		Repository: r,
		Items:      itemRepo,
	}
}

func (h *InstitutionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/institutions", security.Authorize(roles.Admin), h.GetInstitutions)
	router.GET("/institutions/:id", h.GetInstitution)
	router.GET("/institutions/:id/items", h.GetInstitutionItems)
}

func (h *InstitutionHandler) GetInstitutions(c *gin.Context) {
	institutions, err := h.Repository.GetInstitutions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch institutions", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, institutions)
}

func (h *InstitutionHandler) GetInstitution(c *gin.Context) {
	id, ok := h.authorizedID(c)
	if !ok {
		return
	}

	institution, err := h.Repository.GetInstitution(id)
	if err != nil {
		if errors.Is(err, ErrInstitutionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Institution not found", "code": "INSTANSI_NOT_FOUND"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch institution", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, institution)
}

func (h *InstitutionHandler) GetInstitutionItems(c *gin.Context) {
	id, ok := h.authorizedID(c)
	if !ok {
		return
	}

	itemList, err := h.Items.GetItemsByInstitution(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, itemList)
}

// authorizedID parses the id parameter and allows admins, or an
// institution reading itself.
func (h *InstitutionHandler) authorizedID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid institution ID"})
		return 0, false
	}

	caps := security.CapabilitiesFromContext(c)
	if caps.Scope.SeesAll() {
		return id, true
	}
	if caps.Scope.Role == roles.Instansi && caps.Scope.RoleID == id {
		return id, true
	}

	c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "details": "You are not allowed to access this resource"})
	return 0, false
}
