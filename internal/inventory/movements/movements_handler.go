package movements

import (
	"net/http"

	custom_error "github.com/GThiruAishwarya/kristaball/pkg/errors"
	"github.com/GThiruAishwarya/kristaball/pkg/models"
	"github.com/GThiruAishwarya/kristaball/pkg/roles"
	"github.com/GThiruAishwarya/kristaball/pkg/security"

	"github.com/gin-gonic/gin"
)

// Orchestrator is implemented by MovementService.
type Orchestrator interface {
	RecordPurchase(req models.PurchaseRequest, recordedBy int) (*models.Asset, error)
	RecordTransfer(req models.TransferRequest, actorID int) (*models.TransferResult, error)
	RecordAssignment(req models.AssignmentRequest, actorID int) error
	RecordExpenditure(req models.ExpenditureRequest, actorID int) error
}

type MovementHandler struct {
	service Orchestrator
}

func NewMovementHandler(service Orchestrator) *MovementHandler {
	return &MovementHandler{service: service}
}

func (h *MovementHandler) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.POST("/assets", security.Authorize(roles.LogisticsOfficer), h.RecordPurchase)
		protectedRoutes.POST("/assets/transfer", security.Authorize(roles.LogisticsOfficer), h.RecordTransfer)
		protectedRoutes.POST("/assets/assign", security.Authorize(roles.BaseCommander), h.RecordAssignment)
		protectedRoutes.POST("/assets/expend", security.Authorize(roles.BaseCommander), h.RecordExpenditure)
	}
}

func (h *MovementHandler) RecordPurchase(c *gin.Context) {
	var req models.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actorID, ok := security.CurrentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify requesting user"})
		return
	}

	asset, err := h.service.RecordPurchase(req, actorID)
	if err != nil {
		respondMovementError(c, err)
		return
	}

	c.JSON(http.StatusCreated, asset)
}

func (h *MovementHandler) RecordTransfer(c *gin.Context) {
	var req models.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actorID, ok := security.CurrentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify requesting user"})
		return
	}

	result, err := h.service.RecordTransfer(req, actorID)
	if err != nil {
		respondMovementError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *MovementHandler) RecordAssignment(c *gin.Context) {
	var req models.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actorID, ok := security.CurrentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify requesting user"})
		return
	}

	if err := h.service.RecordAssignment(req, actorID); err != nil {
		respondMovementError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Asset assigned successfully"})
}

func (h *MovementHandler) RecordExpenditure(c *gin.Context) {
	var req models.ExpenditureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actorID, ok := security.CurrentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify requesting user"})
		return
	}

	if err := h.service.RecordExpenditure(req, actorID); err != nil {
		respondMovementError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expenditure recorded successfully"})
}

func respondMovementError(c *gin.Context, err error) {
	switch err.(type) {
	case *custom_error.ValidationError:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case *custom_error.NotFoundError:
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case *custom_error.InsufficientQuantityError:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case *custom_error.LocationMismatchError:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case *custom_error.UniqueViolationError:
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Asset serial number already registered"})
	case *custom_error.ForeignKeyViolationError:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Referenced base, category or user does not exist"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Movement could not be recorded", "details": err.Error()})
	}
}
