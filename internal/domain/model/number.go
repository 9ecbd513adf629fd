package model

import (
	"fmt"
	"time"
)

// FormatDailyOrderNumber renders the YYYYMMDD-NNN display identifier.
func FormatDailyOrderNumber(orderDate time.Time, number int) string {
	return fmt.Sprintf("%s-%03d", orderDate.Format("20060102"), number)
}

// FormatDailyOrderNumberString is FormatDailyOrderNumber for a YYYY-MM-DD date string.
func FormatDailyOrderNumberString(orderDate string, number int) (string, error) {
	day, err := time.Parse(DateLayout, orderDate)
	if err != nil {
		return "", fmt.Errorf("parse order date: %w", err)
	}
	return FormatDailyOrderNumber(day, number), nil
}

// OrderDateIn truncates t to the calendar day observed in loc.
func OrderDateIn(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
