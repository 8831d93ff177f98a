// Package currencyutils provides common currency and decimal operations used throughout the application.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// colombianFormat matches amounts using dots as thousands separators and an
// optional comma decimal part, e.g. "1.234.567,89".
var colombianFormat = regexp.MustCompile(`^\d{1,3}(\.\d{3})+(,\d+)?$`)

// currencySymbols strips currency markers and whitespace before parsing.
var currencySymbols = regexp.MustCompile(`[$€£¥COP\s\x{00a0}]`)

// ParseAmount parses a string representation of an amount into a decimal value.
// It handles both Colombian formats ("1.234.567,89") and plain formats with
// comma thousands separators ("1,234,567.89").
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, nil
	}

	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, nil
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}

	return amount, nil
}

// ParseSignedAmount parses an amount where a leading minus sign or enclosing
// parentheses mark a negative value, as seen in bank export columns.
func ParseSignedAmount(amountStr string) (decimal.Decimal, error) {
	s := strings.TrimSpace(amountStr)
	if s == "" {
		return decimal.Zero, nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimPrefix(s, "-")
	}

	amount, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

// StandardizeAmount converts Colombian and plain currency string formats to a
// form that decimal.NewFromString accepts.
func StandardizeAmount(amountStr string) string {
	amountStr = currencySymbols.ReplaceAllString(amountStr, "")

	negative := false
	if strings.HasPrefix(amountStr, "-") {
		negative = true
		amountStr = strings.TrimPrefix(amountStr, "-")
	}

	if colombianFormat.MatchString(amountStr) {
		// Dots are thousands separators, comma is the decimal mark.
		amountStr = strings.ReplaceAll(amountStr, ".", "")
		amountStr = strings.ReplaceAll(amountStr, ",", ".")
	} else if strings.Contains(amountStr, ",") && !strings.Contains(amountStr, ".") &&
		len(amountStr)-strings.LastIndex(amountStr, ",") <= 3 && strings.Count(amountStr, ",") == 1 {
		// Lone comma with one or two trailing digits is a decimal mark ("1234,56").
		amountStr = strings.ReplaceAll(amountStr, ",", ".")
	} else {
		// Otherwise commas are thousands separators ("1,234,567.89").
		amountStr = strings.ReplaceAll(amountStr, ",", "")
	}

	if negative {
		amountStr = "-" + amountStr
	}
	return amountStr
}

// ParseAmountOrZero parses an amount and falls back to zero on any error.
// Bank exports routinely carry stray text in numeric columns, so parsers use
// this variant when a bad cell should not abort the whole file.
func ParseAmountOrZero(amountStr string) decimal.Decimal {
	amount, err := ParseAmount(amountStr)
	if err != nil {
		log.Debugf("Could not parse amount '%s', using zero", amountStr)
		return decimal.Zero
	}
	return amount
}

// FormatAmount formats a decimal amount with two decimal places and the given
// currency code, e.g. "COP 1234567.89".
func FormatAmount(amount decimal.Decimal, currency string) string {
	formattedAmount := amount.StringFixed(2)
	if currency == "" {
		return formattedAmount
	}
	return fmt.Sprintf("%s %s", currency, formattedAmount)
}
