package categories

import (
	"net/http"
	"strconv"

	custom_error "github.com/GThiruAishwarya/kristaball/pkg/errors"
	"github.com/GThiruAishwarya/kristaball/pkg/models"
	"github.com/GThiruAishwarya/kristaball/pkg/roles"
	"github.com/GThiruAishwarya/kristaball/pkg/security"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	r *CategoryRepository
}

func NewCategoryHandler(r *CategoryRepository) *CategoryHandler {
	return &CategoryHandler{r: r}
}

func (h *CategoryHandler) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.GET("/categories", security.Authorize(roles.User), h.GetCategories)
		protectedRoutes.POST("/categories", security.Authorize(roles.LogisticsOfficer), h.CreateCategory)
		protectedRoutes.DELETE("/categories/:id", security.Authorize(roles.Admin), h.RemoveCategory)
	}
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.r.GetCategories()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list categories", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	category := models.AssetCategory{Name: req.Name}
	if err := h.r.PersistCategory(&category); err != nil {
		if _, ok := err.(*custom_error.UniqueViolationError); ok {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Category name already registered"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert category", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) RemoveCategory(c *gin.Context) {
	categoryID, err := strconv.Atoi(c.Param("id"))
	if err != nil || categoryID == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Category id must be an integer"})
		return
	}

	if err := h.r.RemoveCategory(categoryID); err != nil {
		switch err.(type) {
		case *custom_error.ValidationError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
		case *custom_error.NotFoundError:
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete category", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
