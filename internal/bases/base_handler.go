package bases

import (
	"net/http"
	"strconv"

	custom_error "github.com/GThiruAishwarya/kristaball/pkg/errors"
	"github.com/GThiruAishwarya/kristaball/pkg/models"
	"github.com/GThiruAishwarya/kristaball/pkg/roles"
	"github.com/GThiruAishwarya/kristaball/pkg/security"

	"github.com/gin-gonic/gin"
)

type BaseHandler struct {
	r *BaseRepository
}

func NewBaseHandler(r *BaseRepository) *BaseHandler {
	return &BaseHandler{r: r}
}

func (h *BaseHandler) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.GET("/bases", security.Authorize(roles.User), h.GetBases)
		protectedRoutes.GET("/bases/:id", security.Authorize(roles.User), h.GetBase)
		protectedRoutes.POST("/bases", security.Authorize(roles.Admin), h.CreateBase)
		protectedRoutes.PATCH("/bases/:id", security.Authorize(roles.Admin), h.UpdateBase)
		protectedRoutes.DELETE("/bases/:id", security.Authorize(roles.Admin), h.RemoveBase)
	}
}

func (h *BaseHandler) GetBases(c *gin.Context) {
	bases, err := h.r.GetBases()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list bases", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, bases)
}

func (h *BaseHandler) GetBase(c *gin.Context) {
	baseID, err := strconv.Atoi(c.Param("id"))
	if err != nil || baseID == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Base id must be an integer"})
		return
	}

	base, err := h.r.GetBase(baseID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get base", "details": err.Error()})
		return
	}
	if base == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Base not found"})
		return
	}

	c.JSON(http.StatusOK, base)
}

func (h *BaseHandler) CreateBase(c *gin.Context) {
	var req models.BaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	base := models.Base{
		Name:        req.Name,
		Location:    req.Location,
		CommanderID: req.CommanderID,
	}
	if err := h.r.PersistBase(&base); err != nil {
		switch err.(type) {
		case *custom_error.UniqueViolationError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Base name already registered"})
		case *custom_error.ForeignKeyViolationError:
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Commander does not exist"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert base", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, base)
}

func (h *BaseHandler) UpdateBase(c *gin.Context) {
	baseID, err := strconv.Atoi(c.Param("id"))
	if err != nil || baseID == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Base id must be an integer"})
		return
	}

	var req models.PatchBaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	base, err := h.r.UpdateBase(baseID, req)
	if err != nil {
		switch err.(type) {
		case *custom_error.ValidationError:
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case *custom_error.NotFoundError:
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case *custom_error.UniqueViolationError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Base name already registered"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update base", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, base)
}

func (h *BaseHandler) RemoveBase(c *gin.Context) {
	baseID, err := strconv.Atoi(c.Param("id"))
	if err != nil || baseID == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Base id must be an integer"})
		return
	}

	if err := h.r.RemoveBase(baseID); err != nil {
		switch err.(type) {
		case *custom_error.NotFoundError:
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case *custom_error.ForeignKeyViolationError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Base is referenced by asset records and cannot be removed"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete base", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Base deleted successfully"})
}
