// Package models defines the canonical record types shared by parsers,
// roll-ups and the merge layer.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement is a single normalized bank statement line. Exactly one of Debit
// or Credit is non-zero for parsed rows.
type Movement struct {
	Date          time.Time
	Description   string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Balance       decimal.Decimal
	Bank          string
	Holder        string
	Account       string
	Category      string
	CategoryLabel string
}

// Amount returns the movement value regardless of direction.
func (m Movement) Amount() decimal.Decimal {
	if m.Credit.IsZero() {
		return m.Debit
	}
	return m.Credit
}

// IsCredit reports whether the movement is incoming money.
func (m Movement) IsCredit() bool {
	return !m.Credit.IsZero()
}

// StatementMeta carries the summary figures printed in the statement header.
// Values stay zero when the statement does not expose them.
type StatementMeta struct {
	PreviousBalance decimal.Decimal
	TotalCredits    decimal.Decimal
	TotalDebits     decimal.Decimal
	CurrentBalance  decimal.Decimal
	Interest        decimal.Decimal
	Retefuente      decimal.Decimal
}

// Statement is the result of parsing one bank statement file.
type Statement struct {
	Bank      string
	Account   string
	Holder    string
	Period    string
	Movements []Movement
	Meta      StatementMeta
}
