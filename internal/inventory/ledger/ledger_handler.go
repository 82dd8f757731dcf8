package ledger

import (
	"net/http"
	"strconv"
	"time"

	"github.com/GThiruAishwarya/kristaball/pkg/metadata"
	"github.com/GThiruAishwarya/kristaball/pkg/models"
	"github.com/GThiruAishwarya/kristaball/pkg/roles"
	"github.com/GThiruAishwarya/kristaball/pkg/security"

	"github.com/gin-gonic/gin"
)

// HistoryReader is the read side of the ledger the handler serves.
type HistoryReader interface {
	GetHistoryByAsset(assetID int) ([]models.HistoryEntry, error)
	GetFilteredHistory(f HistoryFilter) ([]models.HistoryEntry, error)
}

type LedgerHandler struct {
	r HistoryReader
}

func NewLedgerHandler(r HistoryReader) *LedgerHandler {
	return &LedgerHandler{r: r}
}

func (h *LedgerHandler) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.GET("/history", security.Authorize(roles.BaseCommander), h.GetFilteredHistory)
		protectedRoutes.GET("/assets/:id/history", security.Authorize(roles.BaseCommander), h.GetAssetHistory)
	}
}

func (h *LedgerHandler) GetAssetHistory(c *gin.Context) {
	assetID, err := strconv.Atoi(c.Param("id"))
	if err != nil || assetID == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Asset id must be an integer"})
		return
	}

	entries, err := h.r.GetHistoryByAsset(assetID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch asset history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *LedgerHandler) GetFilteredHistory(c *gin.Context) {
	filter, err := buildHistoryFilter(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries, err := h.r.GetFilteredHistory(*filter)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch asset history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func buildHistoryFilter(c *gin.Context) (*HistoryFilter, error) {
	var filter HistoryFilter

	intParams := map[string]**int{
		"asset_id":            &filter.AssetID,
		"source_base_id":      &filter.SourceBaseID,
		"destination_base_id": &filter.DestinationBaseID,
		"involved_user_id":    &filter.InvolvedUserID,
	}
	for name, target := range intParams {
		if v := c.Query(name); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil {
				return nil, &paramError{name: name, hint: "must be an integer"}
			}
			*target = &parsed
		}
	}

	if v := c.Query("transaction_type"); v != "" {
		ttype, err := metadata.NewTransactionType(v)
		if err != nil {
			return nil, &paramError{name: "transaction_type", hint: err.Error()}
		}
		filter.TransactionType = &ttype
	}
	if v := c.Query("start_date"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, &paramError{name: "start_date", hint: "must be YYYY-MM-DD"}
		}
		filter.From = &from
	}
	if v := c.Query("end_date"); v != "" {
		end, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, &paramError{name: "end_date", hint: "must be YYYY-MM-DD"}
		}
		// end_date is inclusive for callers
		to := end.AddDate(0, 0, 1)
		filter.To = &to
	}
	if v := c.Query("category_name"); v != "" {
		filter.CategoryName = &v
	}
	if v := c.Query("model_name"); v != "" {
		filter.ModelName = &v
	}
	if v := c.Query("serial_number"); v != "" {
		filter.SerialNumber = &v
	}

	return &filter, nil
}

type paramError struct {
	name string
	hint string
}

func (e *paramError) Error() string {
	return "invalid query parameter " + e.name + ": " + e.hint
}
