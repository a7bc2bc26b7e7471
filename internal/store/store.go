// Package store implements the persistence contract over gorm. The engine
// never touches storage; handlers fetch snapshots here and hand them over.
package store

import (
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/bhushanpadar7/diwali-orders-app/internal/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrNegativeStock = errors.New("stock must not be negative")
)

type Store struct {
	db *gorm.DB
	// mu serializes writers. Reads run unguarded; the order book is small
	// and a stale read only delays a report by one refresh.
	mu sync.Mutex
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(
		&models.Item{},
		&models.Order{},
		&models.OrderLine{},
	)
}

func (s *Store) ListItems() ([]models.Item, error) {
	var items []models.Item
	if err := s.db.Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetItem(name string) (models.Item, error) {
	var item models.Item
	err := s.db.First(&item, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Item{}, fmt.Errorf("item %q: %w", name, ErrNotFound)
	}
	return item, err
}

func (s *Store) UpdateItemStock(name string, stock float64) error {
	if stock < 0 {
		return ErrNegativeStock
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.db.Model(&models.Item{}).Where("name = ?", name).Update("stock", stock)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		s.db.Model(&models.Item{}).Where("name = ?", name).Count(&count)
		if count == 0 {
			return fmt.Errorf("item %q: %w", name, ErrNotFound)
		}
	}
	return nil
}

// ListOrders returns orders with their lines preloaded, filtered by status
// when one is given, delivery date ascending.
func (s *Store) ListOrders(status models.OrderStatus) ([]models.Order, error) {
	query := s.db.Preload("Lines").Order("delivery_date asc, id asc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) GetOrder(id uint) (models.Order, error) {
	var order models.Order
	err := s.db.Preload("Lines").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	return order, err
}

func (s *Store) ListOrderLines(orderID uint) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	if err := s.db.Where("order_id = ?", orderID).Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *Store) ListAllOrderLines() ([]models.OrderLine, error) {
	var lines []models.OrderLine
	if err := s.db.Order("id asc").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// CreateOrder persists the order and its lines in one transaction and fills
// in the assigned id. Ids are auto-increment, so creation order is monotonic.
func (s *Store) CreateOrder(order *models.Order, lines []models.OrderLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = order.ID
			if err := tx.Create(&lines[i]).Error; err != nil {
				return err
			}
		}
		order.Lines = lines
		return nil
	})
}

func (s *Store) UpdateOrderStatus(id uint, status models.OrderStatus) error {
	return s.updateOrderColumn(id, "status", status)
}

func (s *Store) UpdateOrderPayment(id uint, payment models.PaymentStatus) error {
	return s.updateOrderColumn(id, "payment", payment)
}

func (s *Store) updateOrderColumn(id uint, column string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("order %d: %w", id, ErrNotFound)
		}
		return err
	}
	return s.db.Model(&order).Update(column, value).Error
}

// DeleteOrder removes the order and cascades to its lines; no orphans.
func (s *Store) DeleteOrder(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order %d: %w", id, ErrNotFound)
			}
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
}
