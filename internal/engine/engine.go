// Package engine derives reporting views from the three order-book relations
// (items, orders, order lines). Every function is a pure computation over the
// snapshot it is handed: no storage access, no retained state, no failure
// modes. Empty input degrades to empty or zero output.
package engine

import (
	"sort"
	"time"

	"github.com/bhushanpadar7/diwali-orders-app/internal/models"
)

// Policy holds the stock-planning thresholds, in kg.
type Policy struct {
	// LowStockThreshold flags items whose surplus after active demand falls
	// below it. Hard shortages are simply differences below zero.
	LowStockThreshold float64
	// BufferTarget is the stock level the shopping list replenishes to.
	BufferTarget float64
}

func DefaultPolicy() Policy {
	return Policy{LowStockThreshold: 5, BufferTarget: 10}
}

// OrderTotal sums quantity*rate over the lines of one order. An order with no
// lines is valid and totals zero.
func OrderTotal(orderID uint, lines []models.OrderLine) float64 {
	var total float64
	for _, l := range lines {
		if l.OrderID == orderID {
			total += l.Amount()
		}
	}
	return total
}

// RequiredByItem sums the quantity still owed per item across active orders.
// Items without active demand are absent; callers treat absence as zero.
func RequiredByItem(orders []models.Order, lines []models.OrderLine) map[string]float64 {
	active := make(map[uint]bool, len(orders))
	for _, o := range orders {
		if o.Status == models.StatusActive {
			active[o.ID] = true
		}
	}
	required := make(map[string]float64)
	for _, l := range lines {
		if active[l.OrderID] {
			required[l.ItemName] += l.Quantity
		}
	}
	return required
}

// StockRow is one item's stock position against active demand.
type StockRow struct {
	Item       string  `json:"item"`
	Stock      float64 `json:"stock"`
	Required   float64 `json:"required"`
	Difference float64 `json:"difference"`
}

// StockDifference joins every catalog item against required demand, item name
// ascending. The join runs from the catalog side so an item with stock but no
// orders still shows up; over-provisioning is as visible as shortage.
func StockDifference(items []models.Item, required map[string]float64) []StockRow {
	rows := make([]StockRow, 0, len(items))
	for _, item := range items {
		need := required[item.Name]
		rows = append(rows, StockRow{
			Item:       item.Name,
			Stock:      item.Stock,
			Required:   need,
			Difference: item.Stock - need,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Item < rows[j].Item })
	return rows
}

// ShoppingItem is one entry of the replenishment list.
type ShoppingItem struct {
	Item       string  `json:"item"`
	Stock      float64 `json:"stock"`
	Required   float64 `json:"required"`
	Difference float64 `json:"difference"`
	ToBuy      float64 `json:"to_buy"`
}

// ShoppingList picks the rows whose surplus is below the low-stock threshold
// and suggests buying up to the buffer target.
func ShoppingList(rows []StockRow, policy Policy) []ShoppingItem {
	var list []ShoppingItem
	for _, row := range rows {
		if row.Difference >= policy.LowStockThreshold {
			continue
		}
		toBuy := policy.BufferTarget - row.Stock
		if toBuy < 0 {
			toBuy = 0
		}
		list = append(list, ShoppingItem{
			Item:       row.Item,
			Stock:      row.Stock,
			Required:   row.Required,
			Difference: row.Difference,
			ToBuy:      toBuy,
		})
	}
	return list
}

// ItemSummary aggregates all lines of one item, regardless of order status.
type ItemSummary struct {
	Item     string  `json:"item"`
	Quantity float64 `json:"quantity"`
	Amount   float64 `json:"amount"`
	Orders   int     `json:"orders"`
}

// TopItemsByQuantity ranks items by total quantity ordered, descending, ties
// kept in first-appearance order, truncated to n.
func TopItemsByQuantity(lines []models.OrderLine, n int) []ItemSummary {
	index := make(map[string]int)
	var summaries []ItemSummary
	for _, l := range lines {
		i, ok := index[l.ItemName]
		if !ok {
			i = len(summaries)
			index[l.ItemName] = i
			summaries = append(summaries, ItemSummary{Item: l.ItemName})
		}
		summaries[i].Quantity += l.Quantity
		summaries[i].Amount += l.Amount()
		summaries[i].Orders++
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Quantity > summaries[j].Quantity
	})
	if n >= 0 && len(summaries) > n {
		summaries = summaries[:n]
	}
	return summaries
}

// Summary carries the dashboard headline numbers.
type Summary struct {
	TotalOrders      int     `json:"total_orders"`
	ActiveOrders     int     `json:"active_orders"`
	CompletedOrders  int     `json:"completed_orders"`
	TotalAmount      float64 `json:"total_amount"`
	ActiveAmount     float64 `json:"active_amount"`
	CompletedAmount  float64 `json:"completed_amount"`
	PendingPayment   float64 `json:"pending_payment"`
	TodaysDeliveries int     `json:"todays_deliveries"`
}

// Summarize rolls the whole order book into dashboard metrics. Pending
// payment counts active orders whose payment is still pending.
func Summarize(orders []models.Order, lines []models.OrderLine, today time.Time) Summary {
	var s Summary
	for _, o := range orders {
		total := OrderTotal(o.ID, lines)
		s.TotalOrders++
		s.TotalAmount += total
		switch o.Status {
		case models.StatusActive:
			s.ActiveOrders++
			s.ActiveAmount += total
			if o.Payment == models.PaymentPending {
				s.PendingPayment += total
			}
			if sameDay(o.DeliveryDate, today) {
				s.TodaysDeliveries++
			}
		case models.StatusCompleted:
			s.CompletedOrders++
			s.CompletedAmount += total
		}
	}
	return s
}

// ItemCustomer is one customer's share of a single item.
type ItemCustomer struct {
	Customer     string               `json:"customer"`
	Quantity     float64              `json:"quantity"`
	DeliveryDate time.Time            `json:"delivery_date"`
	Status       models.OrderStatus   `json:"status"`
	Payment      models.PaymentStatus `json:"payment"`
}

// CustomersForItem lists every order containing the item, in order-book
// order, with the quantity that order takes.
func CustomersForItem(name string, orders []models.Order, lines []models.OrderLine) []ItemCustomer {
	perOrder := make(map[uint]float64)
	for _, l := range lines {
		if l.ItemName == name {
			perOrder[l.OrderID] += l.Quantity
		}
	}
	var customers []ItemCustomer
	for _, o := range orders {
		qty, ok := perOrder[o.ID]
		if !ok {
			continue
		}
		customers = append(customers, ItemCustomer{
			Customer:     o.CustomerName,
			Quantity:     qty,
			DeliveryDate: o.DeliveryDate,
			Status:       o.Status,
			Payment:      o.Payment,
		})
	}
	return customers
}

// InventoryValue totals stock on hand and its valuation at current rates.
func InventoryValue(items []models.Item) (stock, value float64) {
	for _, item := range items {
		stock += item.Stock
		value += item.Value()
	}
	return stock, value
}
