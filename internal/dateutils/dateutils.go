// Package dateutils provides common date and time operations used throughout the application.
package dateutils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutISOSlash = "2006/01/02"
	DateLayoutDayFirst = "02/01/2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
)

// NoDateLabel is the period label used when a record carries no parseable date.
const NoDateLabel = "Sin fecha"

// isoFormats are tried before day-first formats so that unambiguous
// year-leading dates never get misread as day/month/year.
var isoFormats = []string{
	DateLayoutISO,
	DateLayoutISOSlash,
	DateLayoutFull,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
}

// dayFirstFormats cover the layouts seen in Colombian bank and DIAN exports.
var dayFirstFormats = []string{
	DateLayoutDayFirst,
	"02-01-2006",
	"2/1/2006",
	"02/01/06",
	"2/1/06",
	"02.01.2006",
}

// excelEpoch is the zero date of Excel serial date numbers.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseFlexibleDate parses a date in any of the formats that show up in bank
// statements and DIAN exports. ISO formats are tried first, then day-first
// formats, then Excel serial numbers.
func ParseFlexibleDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	for _, format := range isoFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	for _, format := range dayFirstFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	// Excel stores dates as day counts from its 1899-12-30 epoch. Exports
	// read through raw cell values sometimes surface these serials as text.
	if serial, err := strconv.ParseFloat(dateStr, 64); err == nil {
		if serial > 20000 && serial < 80000 {
			days := int(serial)
			frac := serial - float64(days)
			t := excelEpoch.AddDate(0, 0, days)
			t = t.Add(time.Duration(frac * 24 * float64(time.Hour)))
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// FormatDate formats a date as DD/MM/YYYY, the display convention used in
// Colombian reports. Zero dates format as an empty string.
func FormatDate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateLayoutDayFirst)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// MonthKey returns the month grouping key "YYYY-MM" for a date, or the
// NoDateLabel sentinel for zero dates.
func MonthKey(date time.Time) string {
	if date.IsZero() {
		return NoDateLabel
	}
	return date.Format("2006-01")
}

// bimesterNames hold the Spanish month-pair labels indexed by bimester number.
var bimesterNames = [...]string{
	"",
	"Ene-Feb",
	"Mar-Abr",
	"May-Jun",
	"Jul-Ago",
	"Sep-Oct",
	"Nov-Dic",
}

// Bimester returns the IVA bimester number (1-6) for a date.
func Bimester(date time.Time) int {
	return (int(date.Month())-1)/2 + 1
}

// BimesterLabel returns the IVA filing period label for a date, e.g.
// "Bim 1 (Ene-Feb) 2025". Zero dates yield the NoDateLabel sentinel.
func BimesterLabel(date time.Time) string {
	if date.IsZero() {
		return NoDateLabel
	}
	n := Bimester(date)
	return fmt.Sprintf("Bim %d (%s) %d", n, bimesterNames[n], date.Year())
}

// ISOWeekLabel returns the ISO week grouping key "YYYY-Www" for a date, or
// the NoDateLabel sentinel for zero dates.
func ISOWeekLabel(date time.Time) string {
	if date.IsZero() {
		return NoDateLabel
	}
	year, week := date.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// StartOfMonth returns the first day of the month for a given date
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// EndOfMonth returns the last day of the month for a given date
func EndOfMonth(date time.Time) time.Time {
	return StartOfMonth(date).AddDate(0, 1, -1)
}
