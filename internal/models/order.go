package models

import (
	"errors"
	"fmt"
	"time"
)

type OrderStatus string

const (
	StatusActive    OrderStatus = "Active"
	StatusCompleted OrderStatus = "Completed"
)

func (s OrderStatus) Valid() bool {
	return s == StatusActive || s == StatusCompleted
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
	PaymentPartial PaymentStatus = "Partial"
)

func (p PaymentStatus) Valid() bool {
	return p == PaymentPending || p == PaymentPaid || p == PaymentPartial
}

type Order struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	CustomerName string        `gorm:"size:100;not null" json:"customer_name"`
	Phone        string        `gorm:"size:15" json:"phone"`
	Address      string        `gorm:"type:text" json:"address"`
	Notes        string        `gorm:"type:text" json:"notes"`
	DeliveryDate time.Time     `json:"delivery_date"`
	OrderDate    time.Time     `json:"order_date"`
	Status       OrderStatus   `gorm:"size:20;default:'Active'" json:"status"`
	Payment      PaymentStatus `gorm:"size:20;default:'Pending'" json:"payment"`
	Lines        []OrderLine   `gorm:"foreignKey:OrderID" json:"lines,omitempty"`
}

// OrderLine records one item of an order. Rate is copied from the item at
// order time so later catalog rate changes never alter historical orders.
type OrderLine struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	OrderID  uint    `gorm:"index;not null" json:"order_id"`
	ItemName string  `gorm:"size:100;not null" json:"item_name"`
	Quantity float64 `gorm:"not null" json:"quantity"`
	Rate     float64 `gorm:"type:decimal(10,2);not null" json:"rate"`
}

func (l OrderLine) Amount() float64 {
	return l.Quantity * l.Rate
}

// ErrValidation marks order input the caller must fix. Handlers map it to a
// 400 with the wrapped reason.
var ErrValidation = errors.New("validation failed")

// ValidateOrder checks an order and its lines before they reach storage.
// Reconciliation itself is total and never validates; this is the only gate.
func ValidateOrder(order Order, lines []OrderLine) error {
	if order.CustomerName == "" {
		return fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	if !order.Status.Valid() {
		return fmt.Errorf("%w: unknown order status %q", ErrValidation, order.Status)
	}
	if !order.Payment.Valid() {
		return fmt.Errorf("%w: unknown payment status %q", ErrValidation, order.Payment)
	}
	if len(lines) == 0 {
		return fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}
	for _, line := range lines {
		if line.ItemName == "" {
			return fmt.Errorf("%w: order line item name is required", ErrValidation)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("%w: quantity for %s must be positive", ErrValidation, line.ItemName)
		}
		if line.Rate < 0 {
			return fmt.Errorf("%w: rate for %s must not be negative", ErrValidation, line.ItemName)
		}
	}
	return nil
}
