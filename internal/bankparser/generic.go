package bankparser

import (
	"regexp"
	"strings"

	"contaflow/dian-csv/internal/currencyutils"
	"contaflow/dian-csv/internal/dateutils"
	"contaflow/dian-csv/internal/models"
)

// Generic PDF strategies for banks without a specialized parser. Strategy one
// treats column-aligned lines as table rows; strategy two sweeps every line
// matching "date description numbers".

var (
	datePattern      = regexp.MustCompile(`\d{2}[/\-]\d{2}[/\-]\d{2,4}`)
	columnSplit      = regexp.MustCompile(`\s{2,}`)
	headerOnlyRow    = regexp.MustCompile(`^(DESCRIPCI[OÓ]N|CONCEPTO|MOVIMIENTO|FECHA|DETALLE|SALDO)\s*$`)
	genericTxPattern = regexp.MustCompile(`(?m)(\d{2}[/\-]\d{2}[/\-]\d{2,4})\s+(.{5,80}?)\s+([\d,\.]+)(?:\s+([\d,\.]+))?(?:\s+([\d,\.]+))?\s*$`)
)

// tableKeywords identify a column header line in extracted page text.
var tableKeywords = []string{"FECHA", "DESCRIPCION", "DÉBITO", "CRÉDITO"}

type tableRows struct {
	header []string
	data   [][]string
}

// parseTableRows collects column-aligned transaction rows from page text.
// The first header-looking line provides column names; every line carrying a
// date becomes a data row.
func parseTableRows(pages []string) tableRows {
	var rows tableRows
	for _, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			upper := strings.ToUpper(line)

			isHeader := false
			for _, kw := range tableKeywords {
				if strings.Contains(upper, kw) {
					isHeader = true
					break
				}
			}
			if isHeader {
				if rows.header == nil {
					rows.header = columnSplit.Split(line, -1)
				}
				continue
			}

			if datePattern.MatchString(upper) {
				rows.data = append(rows.data, columnSplit.Split(line, -1))
			}
		}
	}
	return rows
}

// columnIndex finds the first header column containing any of the keywords.
func columnIndex(header []string, keywords ...string) int {
	for _, kw := range keywords {
		for i, col := range header {
			if strings.Contains(strings.ToLower(strings.TrimSpace(col)), kw) {
				return i
			}
		}
	}
	return -1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// normalizeTableRows maps raw table rows onto movements using fuzzy header
// matching, with positional fallbacks for date and description.
func normalizeTableRows(rows tableRows, bank string) []models.Movement {
	if len(rows.data) == 0 {
		return nil
	}

	fechaIdx := columnIndex(rows.header, "fecha", "date")
	descIdx := columnIndex(rows.header, "descripcion", "concepto", "detalle", "movimiento")
	debIdx := columnIndex(rows.header, "debito", "egreso", "cargo", "retiro")
	credIdx := columnIndex(rows.header, "credito", "ingreso", "abono")
	saldIdx := columnIndex(rows.header, "saldo", "balance")

	if fechaIdx < 0 {
		fechaIdx = 0
	}
	if descIdx < 0 {
		descIdx = 1
	}

	var movements []models.Movement
	for _, row := range rows.data {
		desc := cellAt(row, descIdx)
		if len([]rune(desc)) <= 2 {
			continue
		}
		if headerOnlyRow.MatchString(strings.ToUpper(desc)) {
			continue
		}

		date, _ := dateutils.ParseFlexibleDate(cellAt(row, fechaIdx))
		mov := models.Movement{
			Date:        date,
			Description: desc,
			Debit:       currencyutils.ParseAmountOrZero(cellAt(row, debIdx)),
			Credit:      currencyutils.ParseAmountOrZero(cellAt(row, credIdx)),
			Balance:     currencyutils.ParseAmountOrZero(cellAt(row, saldIdx)),
			Bank:        bank,
		}
		movements = append(movements, mov)
	}

	classifyMovements(movements)
	return movements
}

// parseTextLines is the last-resort strategy: any line shaped like
// "date description value [value [value]]" becomes a movement, reading the
// numeric columns as debit, credit and balance in that order.
func parseTextLines(pages []string, bank string) []models.Movement {
	var movements []models.Movement
	for _, page := range pages {
		for _, m := range genericTxPattern.FindAllStringSubmatch(page, -1) {
			desc := strings.TrimSpace(m[2])
			if len([]rune(desc)) <= 2 {
				continue
			}
			date, _ := dateutils.ParseFlexibleDate(m[1])
			movements = append(movements, models.Movement{
				Date:        date,
				Description: desc,
				Debit:       currencyutils.ParseAmountOrZero(m[3]),
				Credit:      currencyutils.ParseAmountOrZero(m[4]),
				Balance:     currencyutils.ParseAmountOrZero(m[5]),
				Bank:        bank,
			})
		}
	}

	classifyMovements(movements)
	return movements
}
