package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bhushanpadar7/diwali-orders-app/internal/engine"
	"github.com/bhushanpadar7/diwali-orders-app/internal/models"
	"github.com/bhushanpadar7/diwali-orders-app/internal/store"
)

type ReportHandler struct {
	Store         *store.Store
	Policy        engine.Policy
	TopItemsLimit int
}

// GetDashboard bundles the landing-page views: headline metrics, today's
// deliveries, top items and low-stock alerts, all from one snapshot.
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	orders, err := h.Store.ListOrders("")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	lines, err := h.Store.ListAllOrderLines()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order lines"})
		return
	}
	items, err := h.Store.ListItems()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items"})
		return
	}

	now := time.Now()
	summary := engine.Summarize(orders, lines, now)

	var todaysDeliveries []orderView
	for _, order := range orders {
		if order.Status != models.StatusActive {
			continue
		}
		if engine.ClassifyDelivery(order.DeliveryDate, now).Urgency == engine.DueToday {
			todaysDeliveries = append(todaysDeliveries, newOrderView(order, now))
		}
	}

	required := engine.RequiredByItem(orders, lines)
	rows := engine.StockDifference(items, required)
	var alerts []engine.StockRow
	for _, row := range rows {
		if row.Difference < h.Policy.LowStockThreshold {
			alerts = append(alerts, row)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":           summary,
		"todays_deliveries": todaysDeliveries,
		"top_items":         engine.TopItemsByQuantity(lines, h.TopItemsLimit),
		"stock_alerts":      alerts,
	})
}

// GetStockAnalysis returns the full stock-vs-demand table, one row per
// catalog item.
func (h *ReportHandler) GetStockAnalysis(c *gin.Context) {
	rows, err := stockRows(h.Store)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stock position"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) GetShoppingList(c *gin.Context) {
	rows, err := stockRows(h.Store)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stock position"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"threshold":     h.Policy.LowStockThreshold,
		"buffer_target": h.Policy.BufferTarget,
		"items":         engine.ShoppingList(rows, h.Policy),
	})
}

func (h *ReportHandler) GetTopItems(c *gin.Context) {
	limit := h.TopItemsLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	lines, err := h.Store.ListAllOrderLines()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order lines"})
		return
	}
	c.JSON(http.StatusOK, engine.TopItemsByQuantity(lines, limit))
}

// GetItemCustomers shows who ordered an item and how much, with the item's
// aggregate stats on top.
func (h *ReportHandler) GetItemCustomers(c *gin.Context) {
	name := c.Param("name")
	if _, err := h.Store.GetItem(name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item"})
		return
	}

	orders, err := h.Store.ListOrders("")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	lines, err := h.Store.ListAllOrderLines()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order lines"})
		return
	}

	var stats engine.ItemSummary
	for _, summary := range engine.TopItemsByQuantity(lines, -1) {
		if summary.Item == name {
			stats = summary
			break
		}
	}
	stats.Item = name

	c.JSON(http.StatusOK, gin.H{
		"stats":     stats,
		"customers": engine.CustomersForItem(name, orders, lines),
	})
}
