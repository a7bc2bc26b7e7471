package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bhushanpadar7/diwali-orders-app/internal/engine"
	"github.com/bhushanpadar7/diwali-orders-app/internal/models"
	"github.com/bhushanpadar7/diwali-orders-app/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	st := store.New(db)
	require.NoError(t, st.AutoMigrate())
	require.NoError(t, db.Create(&[]models.Item{
		{Name: "Chakli", Rate: 400, Stock: 8},
		{Name: "Besan Laddu", Rate: 580, Stock: 1},
		{Name: "Chivda", Rate: 290, Stock: 10},
	}).Error)

	policy := engine.Policy{LowStockThreshold: 5, BufferTarget: 10}

	orders := &OrderHandler{Store: st}
	inventory := &InventoryHandler{Store: st, Policy: policy}
	reports := &ReportHandler{Store: st, Policy: policy, TopItemsLimit: 5}

	r := gin.New()
	r.POST("/api/v1/orders", orders.CreateOrder)
	r.GET("/api/v1/orders", orders.ListOrders)
	r.GET("/api/v1/orders/:id", orders.GetOrder)
	r.PUT("/api/v1/orders/:id/status", orders.UpdateOrderStatus)
	r.PUT("/api/v1/orders/:id/payment", orders.UpdateOrderPayment)
	r.DELETE("/api/v1/orders/:id", orders.DeleteOrder)
	r.GET("/api/v1/inventory/items", inventory.ListItems)
	r.PUT("/api/v1/inventory/items/:name/stock", inventory.UpdateStock)
	r.GET("/api/v1/inventory/alerts", inventory.GetLowStockAlerts)
	r.GET("/api/v1/reports/dashboard", reports.GetDashboard)
	r.GET("/api/v1/reports/stock-analysis", reports.GetStockAnalysis)
	r.GET("/api/v1/reports/shopping-list", reports.GetShoppingList)
	r.GET("/api/v1/reports/top-items", reports.GetTopItems)
	r.GET("/api/v1/reports/items/:name/customers", reports.GetItemCustomers)
	return r, st
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func createOrder(t *testing.T, r *gin.Engine, customer string, items []map[string]any) uint {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/orders", map[string]any{
		"customer_name": customer,
		"delivery_date": "2025-10-20",
		"items":         items,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		ID uint `json:"id"`
	}
	decode(t, w, &resp)
	return resp.ID
}

func TestCreateOrderComputesTotalFromCatalogRate(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/orders", map[string]any{
		"customer_name": "Katle Sister",
		"delivery_date": "2025-10-20",
		"items": []map[string]any{
			{"item_name": "Chakli", "quantity": 0.5},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID    uint    `json:"id"`
		Total float64 `json:"total"`
	}
	decode(t, w, &resp)
	assert.NotZero(t, resp.ID)
	assert.InDelta(t, 200, resp.Total, 1e-9)
}

func TestCreateOrderValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing customer", map[string]any{
			"delivery_date": "2025-10-20",
			"items":         []map[string]any{{"item_name": "Chakli", "quantity": 1}},
		}},
		{"no items", map[string]any{
			"customer_name": "Katle Sister",
			"delivery_date": "2025-10-20",
			"items":         []map[string]any{},
		}},
		{"negative quantity", map[string]any{
			"customer_name": "Katle Sister",
			"delivery_date": "2025-10-20",
			"items":         []map[string]any{{"item_name": "Chakli", "quantity": -1}},
		}},
		{"unknown item", map[string]any{
			"customer_name": "Katle Sister",
			"delivery_date": "2025-10-20",
			"items":         []map[string]any{{"item_name": "Mysore Pak", "quantity": 1}},
		}},
		{"bad delivery date", map[string]any{
			"customer_name": "Katle Sister",
			"delivery_date": "20/10/2025",
			"items":         []map[string]any{{"item_name": "Chakli", "quantity": 1}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/v1/orders", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestOrderRateFrozenAgainstCatalogChanges(t *testing.T) {
	r, _ := newTestRouter(t)

	id := createOrder(t, r, "Katle Sister", []map[string]any{
		{"item_name": "Chakli", "quantity": 1},
	})

	// A rate hike must not change the value of an already-placed order;
	// only the copied line rate counts. Raise stock too to prove stock
	// updates don't touch orders either.
	w := doJSON(t, r, http.MethodPut, "/api/v1/inventory/items/Chakli/stock", map[string]any{"stock": 20})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Total float64 `json:"total"`
	}
	decode(t, w, &resp)
	assert.InDelta(t, 400, resp.Total, 1e-9)
}

func TestStatusChangeRemovesDemand(t *testing.T) {
	r, _ := newTestRouter(t)

	id := createOrder(t, r, "Katle Sister", []map[string]any{
		{"item_name": "Besan Laddu", "quantity": 2},
	})

	// Active demand 2 against stock 1: shortage.
	w := doJSON(t, r, http.MethodGet, "/api/v1/reports/stock-analysis", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rows []engine.StockRow
	decode(t, w, &rows)
	require.Len(t, rows, 3)
	assert.Equal(t, "Besan Laddu", rows[0].Item)
	assert.InDelta(t, 2, rows[0].Required, 1e-9)
	assert.InDelta(t, -1, rows[0].Difference, 1e-9)

	// Completing the order clears its demand from the next snapshot.
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/orders/%d/status", id), map[string]any{"status": "Completed"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/reports/stock-analysis", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &rows)
	assert.Zero(t, rows[0].Required)
	assert.InDelta(t, 1, rows[0].Difference, 1e-9)
}

func TestStockAnalysisCoversAllItems(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/reports/stock-analysis", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rows []engine.StockRow
	decode(t, w, &rows)
	// One row per catalog item even with no orders at all.
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Zero(t, row.Required)
	}
}

func TestDeleteOrderCascades(t *testing.T) {
	r, st := newTestRouter(t)

	id := createOrder(t, r, "Katle Sister", []map[string]any{
		{"item_name": "Chakli", "quantity": 0.5},
		{"item_name": "Chivda", "quantity": 1},
	})

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/orders/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)

	lines, err := st.ListOrderLines(id)
	require.NoError(t, err)
	assert.Empty(t, lines)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/orders/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListOrdersFilterAndUrgency(t *testing.T) {
	r, _ := newTestRouter(t)

	createOrder(t, r, "Katle Sister", []map[string]any{{"item_name": "Chakli", "quantity": 1}})

	w := doJSON(t, r, http.MethodGet, "/api/v1/orders?status=Active", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var views []struct {
		CustomerName string          `json:"customer_name"`
		Total        float64         `json:"total"`
		Delivery     engine.Delivery `json:"delivery"`
		Label        string          `json:"delivery_label"`
	}
	decode(t, w, &views)
	require.Len(t, views, 1)
	assert.Equal(t, "Katle Sister", views[0].CustomerName)
	assert.InDelta(t, 400, views[0].Total, 1e-9)
	assert.NotEmpty(t, views[0].Label)

	w = doJSON(t, r, http.MethodGet, "/api/v1/orders?status=Completed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &views)
	assert.Empty(t, views)

	w = doJSON(t, r, http.MethodGet, "/api/v1/orders?status=Cancelled", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStockValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPut, "/api/v1/inventory/items/Chakli/stock", map[string]any{"stock": -2})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/v1/inventory/items/Mysore%20Pak/stock", map[string]any{"stock": 5})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLowStockAlerts(t *testing.T) {
	r, _ := newTestRouter(t)

	// Besan Laddu has stock 1 with no demand: below the 5 kg threshold.
	w := doJSON(t, r, http.MethodGet, "/api/v1/inventory/alerts", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Threshold float64           `json:"threshold"`
		Alerts    []engine.StockRow `json:"alerts"`
	}
	decode(t, w, &resp)
	assert.InDelta(t, 5, resp.Threshold, 1e-9)
	require.Len(t, resp.Alerts, 1)
	assert.Equal(t, "Besan Laddu", resp.Alerts[0].Item)
}

func TestShoppingListReplenishesToBufferTarget(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/reports/shopping-list", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		BufferTarget float64               `json:"buffer_target"`
		Items        []engine.ShoppingItem `json:"items"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Besan Laddu", resp.Items[0].Item)
	assert.InDelta(t, 9, resp.Items[0].ToBuy, 1e-9)
}

func TestTopItemsLimit(t *testing.T) {
	r, _ := newTestRouter(t)

	createOrder(t, r, "Katle Sister", []map[string]any{
		{"item_name": "Chakli", "quantity": 2},
		{"item_name": "Chivda", "quantity": 3},
		{"item_name": "Besan Laddu", "quantity": 1},
	})

	w := doJSON(t, r, http.MethodGet, "/api/v1/reports/top-items?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var top []engine.ItemSummary
	decode(t, w, &top)
	require.Len(t, top, 2)
	assert.Equal(t, "Chivda", top[0].Item)
	assert.Equal(t, "Chakli", top[1].Item)

	w = doJSON(t, r, http.MethodGet, "/api/v1/reports/top-items?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboard(t *testing.T) {
	r, _ := newTestRouter(t)

	createOrder(t, r, "Katle Sister", []map[string]any{{"item_name": "Chakli", "quantity": 1}})

	w := doJSON(t, r, http.MethodGet, "/api/v1/reports/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Summary    engine.Summary       `json:"summary"`
		TopItems   []engine.ItemSummary `json:"top_items"`
		StockAlert []engine.StockRow    `json:"stock_alerts"`
	}
	decode(t, w, &resp)
	assert.Equal(t, 1, resp.Summary.TotalOrders)
	assert.Equal(t, 1, resp.Summary.ActiveOrders)
	assert.InDelta(t, 400, resp.Summary.ActiveAmount, 1e-9)
	assert.InDelta(t, 400, resp.Summary.PendingPayment, 1e-9)
	require.Len(t, resp.TopItems, 1)
}

func TestItemCustomers(t *testing.T) {
	r, _ := newTestRouter(t)

	createOrder(t, r, "Katle Sister", []map[string]any{{"item_name": "Chakli", "quantity": 0.5}})
	createOrder(t, r, "Rani Bhonde", []map[string]any{{"item_name": "Chakli", "quantity": 1}})
	createOrder(t, r, "Bhatkar", []map[string]any{{"item_name": "Chivda", "quantity": 1}})

	w := doJSON(t, r, http.MethodGet, "/api/v1/reports/items/Chakli/customers", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Stats     engine.ItemSummary    `json:"stats"`
		Customers []engine.ItemCustomer `json:"customers"`
	}
	decode(t, w, &resp)
	assert.Equal(t, 2, resp.Stats.Orders)
	assert.InDelta(t, 1.5, resp.Stats.Quantity, 1e-9)
	require.Len(t, resp.Customers, 2)

	w = doJSON(t, r, http.MethodGet, "/api/v1/reports/items/Mysore%20Pak/customers", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestItemCustomersStorageFailureIsNot404(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	st := store.New(db)
	require.NoError(t, st.AutoMigrate())

	reports := &ReportHandler{Store: st, Policy: engine.Policy{LowStockThreshold: 5, BufferTarget: 10}, TopItemsLimit: 5}
	r := gin.New()
	r.GET("/api/v1/reports/items/:name/customers", reports.GetItemCustomers)

	// A broken backend must read as a failure, not as a missing item.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := doJSON(t, r, http.MethodGet, "/api/v1/reports/items/Chakli/customers", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestPaymentUpdate(t *testing.T) {
	r, st := newTestRouter(t)

	id := createOrder(t, r, "Katle Sister", []map[string]any{{"item_name": "Chakli", "quantity": 1}})

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/orders/%d/payment", id), map[string]any{"payment": "Paid"})
	require.Equal(t, http.StatusOK, w.Code)

	order, err := st.GetOrder(id)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, order.Payment)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/orders/%d/payment", id), map[string]any{"payment": "Refunded"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
