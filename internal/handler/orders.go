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

type OrderHandler struct {
	Store *store.Store
}

type OrderLineRequest struct {
	ItemName string  `json:"item_name" binding:"required"`
	Quantity float64 `json:"quantity" binding:"required"`
}

type CreateOrderRequest struct {
	CustomerName string             `json:"customer_name" binding:"required"`
	Phone        string             `json:"phone"`
	Address      string             `json:"address"`
	Notes        string             `json:"notes"`
	DeliveryDate string             `json:"delivery_date" binding:"required"` // YYYY-MM-DD
	Payment      string             `json:"payment"`
	Items        []OrderLineRequest `json:"items" binding:"required"`
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deliveryDate, err := time.Parse("2006-01-02", req.DeliveryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "delivery_date must be YYYY-MM-DD"})
		return
	}

	payment := models.PaymentPending
	if req.Payment != "" {
		payment = models.PaymentStatus(req.Payment)
	}

	order := models.Order{
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Address:      req.Address,
		Notes:        req.Notes,
		DeliveryDate: deliveryDate,
		OrderDate:    time.Now(),
		Status:       models.StatusActive,
		Payment:      payment,
	}

	// Rates are copied from the catalog now so the order keeps its value
	// even if item rates change later.
	lines := make([]models.OrderLine, 0, len(req.Items))
	for _, lineReq := range req.Items {
		item, err := h.Store.GetItem(lineReq.ItemName)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown item: " + lineReq.ItemName})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up item"})
			return
		}
		lines = append(lines, models.OrderLine{
			ItemName: item.Name,
			Quantity: lineReq.Quantity,
			Rate:     item.Rate,
		})
	}

	if err := models.ValidateOrder(order, lines); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Store.CreateOrder(&order, lines); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    order.ID,
		"total": engine.OrderTotal(order.ID, lines),
	})
}

type orderView struct {
	models.Order
	Total    float64         `json:"total"`
	Delivery engine.Delivery `json:"delivery"`
	Label    string          `json:"delivery_label"`
}

func newOrderView(order models.Order, now time.Time) orderView {
	delivery := engine.ClassifyDelivery(order.DeliveryDate, now)
	return orderView{
		Order:    order,
		Total:    engine.OrderTotal(order.ID, order.Lines),
		Delivery: delivery,
		Label:    delivery.Label(),
	}
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	status := models.OrderStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be Active or Completed"})
		return
	}

	orders, err := h.Store.ListOrders(status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	now := time.Now()
	views := make([]orderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, newOrderView(order, now))
	}
	c.JSON(http.StatusOK, views)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	order, err := h.Store.GetOrder(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}
	c.JSON(http.StatusOK, newOrderView(order, time.Now()))
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be Active or Completed"})
		return
	}

	if err := h.Store.UpdateOrderStatus(id, req.Status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated"})
}

func (h *OrderHandler) UpdateOrderPayment(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req struct {
		Payment models.PaymentStatus `json:"payment" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Payment.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment must be Pending, Paid or Partial"})
		return
	}

	if err := h.Store.UpdateOrderPayment(id, req.Payment); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment status updated"})
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	if err := h.Store.DeleteOrder(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}

func orderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return 0, false
	}
	return uint(id), true
}
