package services

import (
	"time"

	"github.com/vendorpay/backend/internal/models"
)

// Scheduling rules. These are pure functions of the vendor and the date so
// the calendar logic can be tested with fixed dates.

// ClassifyByPosition maps a vendor's zero-based list position to its legacy
// payment type: positions 0-4 weekly, 5-9 biweekly, 10-19 on-demand,
// anything beyond defaults to weekly. Used only to assign a type when a
// vendor arrives without one; the stored type is authoritative after that.
func ClassifyByPosition(index int) string {
	switch {
	case index < 0:
		return models.PaymentTypeWeekly
	case index < 5:
		return models.PaymentTypeWeekly
	case index < 10:
		return models.PaymentTypeBiweekly
	case index < 20:
		return models.PaymentTypeOnDemand
	default:
		return models.PaymentTypeWeekly
	}
}

// DueAmount returns the amount a payment for this vendor moves: biweekly
// vendors pay double their base, everything else pays base. Vendors stored
// without a base amount fall back to the configured default.
func DueAmount(v models.Vendor, defaultBase int64) int64 {
	base := v.BaseAmount
	if base <= 0 {
		base = defaultBase
	}
	if v.PaymentType == models.PaymentTypeBiweekly {
		return base * 2
	}
	return base
}

// IsDue reports whether a scheduled payment for the vendor falls on date.
// Weekly vendors are due every Friday, biweekly vendors every alternate
// Friday, and on-demand vendors never on the scheduled pass.
func IsDue(v models.Vendor, date time.Time) bool {
	switch v.PaymentType {
	case models.PaymentTypeOnDemand:
		return false
	case models.PaymentTypeBiweekly:
		return date.Weekday() == time.Friday && isAlternateFriday(date)
	default:
		return date.Weekday() == time.Friday
	}
}

// isAlternateFriday counts whole 7-day periods elapsed since the year's
// first Friday; even counts are "alternate" weeks. Two consecutive Fridays
// therefore always disagree.
func isAlternateFriday(date time.Time) bool {
	first := firstFriday(date.Year(), date.Location())
	days := date.YearDay() - first.YearDay()
	if days < 0 {
		return false
	}
	return (days/7)%2 == 0
}

func firstFriday(year int, loc *time.Location) time.Time {
	d := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	for d.Weekday() != time.Friday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
