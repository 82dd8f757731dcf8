package assets

import (
	"net/http"
	"strconv"

	"github.com/GThiruAishwarya/kristaball/internal/repository"
	"github.com/GThiruAishwarya/kristaball/pkg/auditlog"
	custom_error "github.com/GThiruAishwarya/kristaball/pkg/errors"
	"github.com/GThiruAishwarya/kristaball/pkg/models"
	"github.com/GThiruAishwarya/kristaball/pkg/roles"
	"github.com/GThiruAishwarya/kristaball/pkg/security"

	"github.com/gin-gonic/gin"
)

// AuditReader exposes the stored audit trail for a resource.
type AuditReader interface {
	GetResourceLog(id int, resourceType string) ([]models.AuditLog, error)
}

type AssetHandler struct {
	r           *AssetsRepository
	AuditLog    *auditlog.Auditlog
	auditReader AuditReader
}

func NewAssetHandler(ar *AssetsRepository, a *auditlog.Auditlog, reader AuditReader) *AssetHandler {
	return &AssetHandler{
		r:           ar,
		AuditLog:    a,
		auditReader: reader,
	}
}

func (h *AssetHandler) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.GET("/assets", security.Authorize(roles.BaseCommander), h.GetAssets)
		protectedRoutes.GET("/assets/:id", security.Authorize(roles.BaseCommander), h.GetAsset)
		protectedRoutes.PUT("/assets/:id", security.Authorize(roles.LogisticsOfficer), h.UpdateAsset)
		protectedRoutes.DELETE("/assets/:id", security.Authorize(roles.Admin), h.RemoveAsset)
		protectedRoutes.GET("/assets/:id/audit-log", security.Authorize(roles.LogisticsOfficer), h.GetAssetAuditLog)
	}
}

func (h *AssetHandler) GetAssets(c *gin.Context) {
	qb := repository.NewQueryBuilder()
	if v := c.Query("base_id"); v != "" {
		baseID, err := strconv.Atoi(v)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "base_id must be an integer"})
			return
		}
		qb.AddCondition("base_id", baseID)
	}
	if v := c.Query("category_id"); v != "" {
		categoryID, err := strconv.Atoi(v)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "category_id must be an integer"})
			return
		}
		qb.AddCondition("category_id", categoryID)
	}
	if v := c.Query("status"); v != "" {
		qb.AddCondition("status", v)
	}

	var assets []models.Asset
	var err error
	if qb.HasConditions() {
		assets, err = h.r.GetAssetsBy(qb)
	} else {
		assets, err = h.r.GetAssetList()
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list assets", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *AssetHandler) GetAsset(c *gin.Context) {
	assetID, err := strconv.Atoi(c.Param("id"))
	if err != nil || assetID == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Asset id must be an integer"})
		return
	}

	asset, err := h.r.GetAsset(assetID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get asset", "details": err.Error()})
		return
	}
	if asset == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) GetAssetAuditLog(c *gin.Context) {
	assetID, err := strconv.Atoi(c.Param("id"))
	if err != nil || assetID == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Asset id must be an integer"})
		return
	}

	logs, err := h.auditReader.GetResourceLog(assetID, "asset")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch audit log", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, logs)
}

func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	assetID, err := strconv.Atoi(c.Param("id"))
	if err != nil || assetID == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Asset id must be an integer"})
		return
	}

	var patch models.PatchAssetRequest
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if err := h.r.UpdateAsset(assetID, patch); err != nil {
		switch err.(type) {
		case *custom_error.ValidationError:
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case *custom_error.NotFoundError:
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case *custom_error.UniqueViolationError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Asset serial number already registered"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update asset", "details": err.Error()})
		}
		return
	}

	go h.AuditLog.Log(
		"update",
		map[string]interface{}{"msg": "Asset fields updated"},
		&models.Asset{ID: assetID},
	)

	c.JSON(http.StatusOK, gin.H{"message": "Asset updated successfully"})
}

func (h *AssetHandler) RemoveAsset(c *gin.Context) {
	assetID, err := strconv.Atoi(c.Param("id"))
	if err != nil || assetID == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Asset id must be an integer"})
		return
	}

	if err := h.r.RemoveAsset(assetID); err != nil {
		switch err.(type) {
		case *custom_error.NotFoundError:
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case *custom_error.ForeignKeyViolationError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Asset has history records and cannot be removed", "details": err.Error()})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete asset", "details": err.Error()})
		}
		return
	}

	go h.AuditLog.Log(
		"remove",
		map[string]interface{}{"msg": "Asset removed from inventory"},
		&models.Asset{ID: assetID},
	)

	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted successfully"})
}
