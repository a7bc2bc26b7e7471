package database

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/bhushanpadar7/diwali-orders-app/internal/models"
)

// The festival catalog. Rates are per kg; stock is the opening balance and
// gets overwritten by stock updates after the first run.
var defaultItems = []models.Item{
	{Name: "Besan Laddu", Rate: 580, Stock: 16},
	{Name: "Chakli", Rate: 400, Stock: 8},
	{Name: "Shev (Masala)", Rate: 380, Stock: 8.5},
	{Name: "Shev (Thin)", Rate: 380, Stock: 8.5},
	{Name: "Shankarpade (Salty)", Rate: 380, Stock: 6.5},
	{Name: "Shankarpade (Sweet)", Rate: 380, Stock: 5},
	{Name: "Chivda", Rate: 290, Stock: 10},
	{Name: "Anarse", Rate: 720, Stock: 0},
	{Name: "Karanji (Pitthi)", Rate: 540, Stock: 1},
	{Name: "Karanji (Ola Naral)", Rate: 540, Stock: 0.5},
	{Name: "Rava Laddu", Rate: 400, Stock: 1},
}

// SeedItems loads the snack catalog on first run. An already-populated items
// table is left untouched.
func SeedItems(db *gorm.DB, logger *slog.Logger) error {
	var count int64
	if err := db.Model(&models.Item{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if err := db.Create(&defaultItems).Error; err != nil {
		return err
	}
	logger.Info("seeded item catalog", "items", len(defaultItems))
	return nil
}

type demoOrder struct {
	order models.Order
	lines []models.OrderLine
}

// SeedDemoOrders inserts a few sample orders so the dashboard has something
// to show. Gated behind SEED_DEMO_DATA; skipped when any order exists.
func SeedDemoOrders(db *gorm.DB, logger *slog.Logger) error {
	var count int64
	if err := db.Model(&models.Order{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	today := time.Now()
	demos := []demoOrder{
		{
			order: models.Order{
				CustomerName: "Pradnya Ingle",
				Address:      "Amravati",
				DeliveryDate: today.AddDate(0, 0, -2),
				OrderDate:    today.AddDate(0, 0, -4),
				Status:       models.StatusCompleted,
				Payment:      models.PaymentPaid,
			},
			lines: []models.OrderLine{
				{ItemName: "Shev (Masala)", Quantity: 0.25, Rate: 380},
				{ItemName: "Shev (Thin)", Quantity: 0.125, Rate: 380},
				{ItemName: "Shankarpade (Salty)", Quantity: 0.25, Rate: 380},
			},
		},
		{
			order: models.Order{
				CustomerName: "Katle Sister",
				Address:      "Amravati",
				DeliveryDate: today,
				OrderDate:    today.AddDate(0, 0, -3),
				Status:       models.StatusActive,
				Payment:      models.PaymentPending,
			},
			lines: []models.OrderLine{
				{ItemName: "Besan Laddu", Quantity: 0.5, Rate: 580},
				{ItemName: "Shankarpade (Salty)", Quantity: 0.5, Rate: 380},
			},
		},
		{
			order: models.Order{
				CustomerName: "Rani Bhonde",
				Address:      "Amravati",
				DeliveryDate: today.AddDate(0, 0, 2),
				OrderDate:    today.AddDate(0, 0, -1),
				Status:       models.StatusActive,
				Payment:      models.PaymentPartial,
			},
			lines: []models.OrderLine{
				{ItemName: "Chakli", Quantity: 1, Rate: 400},
				{ItemName: "Chivda", Quantity: 2, Rate: 290},
				{ItemName: "Karanji (Ola Naral)", Quantity: 0.5, Rate: 540},
			},
		},
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, demo := range demos {
			if err := tx.Create(&demo.order).Error; err != nil {
				return err
			}
			for i := range demo.lines {
				demo.lines[i].OrderID = demo.order.ID
			}
			if err := tx.Create(&demo.lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("seeded demo orders", "orders", len(demos))
	return nil
}
