// Package fiscal computes roll-ups, KPIs and conciliation tables from
// normalized movements and DIAN records.
package fiscal

import (
	"sort"

	"github.com/shopspring/decimal"

	"contaflow/dian-csv/internal/classifier"
	"contaflow/dian-csv/internal/dateutils"
	"contaflow/dian-csv/internal/models"
)

// CategorySummary aggregates debits and credits for one category label.
type CategorySummary struct {
	Label  string
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// TimelineEntry aggregates debits and credits for one month.
type TimelineEntry struct {
	Month  string
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Report is the consolidated fiscal view of a set of bank movements.
type Report struct {
	TotalGMF              decimal.Decimal
	TotalInterestPaid     decimal.Decimal
	TotalInterestReceived decimal.Decimal
	TotalWithholdings     decimal.Decimal
	TotalParafiscales     decimal.Decimal
	TotalImpuestos        decimal.Decimal
	TotalComisiones       decimal.Decimal
	TotalIngresos         decimal.Decimal
	TotalEgresos          decimal.Decimal

	// Categories is sorted by debit descending, Timeline by month.
	Categories []CategorySummary
	Timeline   []TimelineEntry
}

// BuildReport rolls movements up into fiscal totals, a per-category summary
// and a monthly timeline. Empty input yields a zero-valued report.
func BuildReport(movements []models.Movement) *Report {
	rpt := &Report{}
	if len(movements) == 0 {
		return rpt
	}

	byCategory := make(map[string]*CategorySummary)
	byMonth := make(map[string]*TimelineEntry)

	for _, mov := range movements {
		switch mov.Category {
		case classifier.CategoryGMF:
			rpt.TotalGMF = rpt.TotalGMF.Add(mov.Debit)
		case classifier.CategoryInteresPago:
			rpt.TotalInterestPaid = rpt.TotalInterestPaid.Add(mov.Debit)
		case classifier.CategoryInteresRecibo:
			rpt.TotalInterestReceived = rpt.TotalInterestReceived.Add(mov.Credit)
		case classifier.CategoryRetencion:
			rpt.TotalWithholdings = rpt.TotalWithholdings.Add(mov.Debit)
		case classifier.CategoryParafiscal:
			rpt.TotalParafiscales = rpt.TotalParafiscales.Add(mov.Debit)
		case classifier.CategoryImpuesto:
			rpt.TotalImpuestos = rpt.TotalImpuestos.Add(mov.Debit)
		case classifier.CategoryComision:
			rpt.TotalComisiones = rpt.TotalComisiones.Add(mov.Debit)
		}
		rpt.TotalIngresos = rpt.TotalIngresos.Add(mov.Credit)
		rpt.TotalEgresos = rpt.TotalEgresos.Add(mov.Debit)

		label := mov.CategoryLabel
		if label == "" {
			label = classifier.Label(mov.Category)
		}
		cat, ok := byCategory[label]
		if !ok {
			cat = &CategorySummary{Label: label}
			byCategory[label] = cat
		}
		cat.Debit = cat.Debit.Add(mov.Debit)
		cat.Credit = cat.Credit.Add(mov.Credit)

		if !mov.Date.IsZero() {
			month := dateutils.MonthKey(mov.Date)
			entry, ok := byMonth[month]
			if !ok {
				entry = &TimelineEntry{Month: month}
				byMonth[month] = entry
			}
			entry.Debit = entry.Debit.Add(mov.Debit)
			entry.Credit = entry.Credit.Add(mov.Credit)
		}
	}

	for _, cat := range byCategory {
		rpt.Categories = append(rpt.Categories, *cat)
	}
	sort.Slice(rpt.Categories, func(i, j int) bool {
		if !rpt.Categories[i].Debit.Equal(rpt.Categories[j].Debit) {
			return rpt.Categories[i].Debit.GreaterThan(rpt.Categories[j].Debit)
		}
		return rpt.Categories[i].Label < rpt.Categories[j].Label
	})

	for _, entry := range byMonth {
		rpt.Timeline = append(rpt.Timeline, *entry)
	}
	sort.Slice(rpt.Timeline, func(i, j int) bool {
		return rpt.Timeline[i].Month < rpt.Timeline[j].Month
	})

	return rpt
}
