package engine

import (
	"fmt"
	"time"
)

type Urgency string

const (
	Overdue     Urgency = "overdue"
	DueToday    Urgency = "due_today"
	DueTomorrow Urgency = "due_tomorrow"
	DueLater    Urgency = "due_later"
)

// Delivery classifies how far a delivery date is from today.
type Delivery struct {
	Urgency  Urgency `json:"urgency"`
	DaysLeft int     `json:"days_left"`
}

// ClassifyDelivery compares calendar dates only; time of day is ignored.
func ClassifyDelivery(deliveryDate, today time.Time) Delivery {
	days := int(truncateDay(deliveryDate).Sub(truncateDay(today)).Hours() / 24)
	d := Delivery{DaysLeft: days}
	switch {
	case days < 0:
		d.Urgency = Overdue
	case days == 0:
		d.Urgency = DueToday
	case days == 1:
		d.Urgency = DueTomorrow
	default:
		d.Urgency = DueLater
	}
	return d
}

// Label renders the urgency the way the order list shows it.
func (d Delivery) Label() string {
	switch d.Urgency {
	case Overdue:
		return fmt.Sprintf("OVERDUE by %d days", -d.DaysLeft)
	case DueToday:
		return "TODAY"
	case DueTomorrow:
		return "TOMORROW"
	default:
		return fmt.Sprintf("in %d days", d.DaysLeft)
	}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
