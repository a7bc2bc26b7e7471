package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bhushanpadar7/diwali-orders-app/internal/engine"
	"github.com/bhushanpadar7/diwali-orders-app/internal/models"
	"github.com/bhushanpadar7/diwali-orders-app/internal/store"
)

type InventoryHandler struct {
	Store  *store.Store
	Policy engine.Policy
}

type itemView struct {
	models.Item
	Value float64 `json:"value"`
}

func (h *InventoryHandler) ListItems(c *gin.Context) {
	items, err := h.Store.ListItems()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items"})
		return
	}

	views := make([]itemView, 0, len(items))
	for _, item := range items {
		views = append(views, itemView{Item: item, Value: item.Value()})
	}
	totalStock, totalValue := engine.InventoryValue(items)

	c.JSON(http.StatusOK, gin.H{
		"items":       views,
		"total_stock": totalStock,
		"total_value": totalValue,
	})
}

func (h *InventoryHandler) UpdateStock(c *gin.Context) {
	name := c.Param("name")
	var req struct {
		Stock *float64 `json:"stock" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Store.UpdateItemStock(name, *req.Stock); err != nil {
		switch {
		case errors.Is(err, store.ErrNegativeStock):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock updated"})
}

// GetLowStockAlerts reports items whose surplus after active demand falls
// below the configured threshold. Negative differences are hard shortages.
func (h *InventoryHandler) GetLowStockAlerts(c *gin.Context) {
	rows, err := stockRows(h.Store)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stock position"})
		return
	}

	var alerts []engine.StockRow
	for _, row := range rows {
		if row.Difference < h.Policy.LowStockThreshold {
			alerts = append(alerts, row)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"threshold": h.Policy.LowStockThreshold,
		"alerts":    alerts,
	})
}

// stockRows fetches a snapshot of the three relations and runs the
// stock-vs-demand differencing over it.
func stockRows(st *store.Store) ([]engine.StockRow, error) {
	items, err := st.ListItems()
	if err != nil {
		return nil, err
	}
	orders, err := st.ListOrders("")
	if err != nil {
		return nil, err
	}
	lines, err := st.ListAllOrderLines()
	if err != nil {
		return nil, err
	}
	required := engine.RequiredByItem(orders, lines)
	return engine.StockDifference(items, required), nil
}
