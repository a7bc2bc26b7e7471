package models

// Item is one snack in the catalog. Name is the natural key used by order
// lines; Rate is rupees per kg, Stock is kg on hand.
type Item struct {
	Name  string  `gorm:"primaryKey;size:100" json:"name"`
	Rate  float64 `gorm:"type:decimal(10,2);not null" json:"rate"`
	Stock float64 `gorm:"not null;default:0" json:"stock"`
}

// Value is the stock valuation at the current rate. Derived, never stored.
func (i Item) Value() float64 {
	return i.Stock * i.Rate
}
