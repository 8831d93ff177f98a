package bankparser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"contaflow/dian-csv/internal/classifier"
	"contaflow/dian-csv/internal/currencyutils"
	"contaflow/dian-csv/internal/dateutils"
	"contaflow/dian-csv/internal/models"
)

// balanceTolerance absorbs 1 COP rounding drift when deciding movement
// direction from consecutive balances.
var balanceTolerance = decimal.NewFromInt(-1)

// Bancolombia statements print transactions as "d/mm DESC ... VALOR SALDO"
// with the year only available in the header date range.
var (
	bancolombiaYear   = regexp.MustCompile(`HASTA:\s*(\d{4})/(\d{2})/\d{2}`)
	bancolombiaHolder = regexp.MustCompile(`(?im)(?:CUENTA DE AHORROS|CUENTA CORRIENTE|CUPO DE CREDITO)\s*\n\s*([A-Z][A-Z\s&\.]{2,50})\s*\n`)
	bancolombiaAcct   = regexp.MustCompile(`(?im)N.MERO\s+(\d+)`)
	bancolombiaTx     = regexp.MustCompile(`(?m)^(\d{1,2}/\d{2})\s+(.+?)\s+([\d,\.]+)\s+([\d,\.]+)\s*$`)
)

// Summary figures printed in the statement header.
var (
	metaSaldoAnterior = regexp.MustCompile(`(?im)SALDO ANTERIOR\s*\$?\s*([\d,\.]+)`)
	metaTotalAbonos   = regexp.MustCompile(`(?im)TOTAL ABONOS\s*\$?\s*([\d,\.]+)`)
	metaTotalCargos   = regexp.MustCompile(`(?im)TOTAL CARGOS\s*\$?\s*([\d,\.]+)`)
	metaSaldoActual   = regexp.MustCompile(`(?im)SALDO ACTUAL\s*\$?\s*([\d,\.]+)`)
	metaIntereses     = regexp.MustCompile(`(?im)INTERESES PAGADOS\s*\$?\s*([\d,\.]+)`)
	metaRetefuente    = regexp.MustCompile(`(?im)RETEFUENTE\s*\$?\s*([\d,\.]+)`)
)

// headerLabelWords mark regex hits that are really table headings, not
// transactions.
var headerLabelWords = []string{"FECHA", "DESCRIPCI", "SUCURSAL", "DCTO", "VALOR SALDO"}

// minMovementValue filters out sub-cent artifacts produced by layout noise.
var minMovementValue = decimal.NewFromFloat(0.01)

func extractPattern(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func extractAmount(re *regexp.Regexp, text string) decimal.Decimal {
	return currencyutils.ParseAmountOrZero(extractPattern(re, text))
}

// parseBancolombia runs the specialized Bancolombia statement grammar over
// extracted page text.
func parseBancolombia(pages []string, headerText string) ([]models.Movement, string, string, models.StatementMeta) {
	// The transaction dates carry no year; it comes from the header range,
	// falling back to the current date when the header is unreadable.
	year := time.Now().Year()
	endMonth := int(time.Now().Month())
	if m := bancolombiaYear.FindStringSubmatch(headerText); m != nil {
		year, _ = strconv.Atoi(m[1])
		endMonth, _ = strconv.Atoi(m[2])
	}

	holder := extractPattern(bancolombiaHolder, headerText)
	account := extractPattern(bancolombiaAcct, headerText)

	meta := models.StatementMeta{
		PreviousBalance: extractAmount(metaSaldoAnterior, headerText),
		TotalCredits:    extractAmount(metaTotalAbonos, headerText),
		TotalDebits:     extractAmount(metaTotalCargos, headerText),
		CurrentBalance:  extractAmount(metaSaldoActual, headerText),
		Interest:        extractAmount(metaIntereses, headerText),
		Retefuente:      extractAmount(metaRetefuente, headerText),
	}

	var prevBalance *decimal.Decimal
	if meta.PreviousBalance.IsPositive() {
		b := meta.PreviousBalance
		prevBalance = &b
	}

	var movements []models.Movement
	for _, page := range pages {
		for _, m := range bancolombiaTx.FindAllStringSubmatch(page, -1) {
			rawDate := m[1]
			desc := strings.TrimSpace(m[2])
			value := currencyutils.ParseAmountOrZero(m[3])
			balance := currencyutils.ParseAmountOrZero(m[4])

			if isHeaderLabelRow(desc) {
				continue
			}
			if value.LessThan(minMovementValue) {
				continue
			}

			date := resolveBancolombiaDate(rawDate, year, endMonth)

			// Direction comes from the running balance; the first row
			// falls back to description keywords.
			var isCredit bool
			if prevBalance != nil {
				isCredit = balance.Sub(*prevBalance).GreaterThan(balanceTolerance)
			} else {
				isCredit = classifier.IsCreditDescription(desc)
			}
			b := balance
			prevBalance = &b

			mov := models.Movement{
				Date:        date,
				Description: desc,
				Balance:     balance,
				Bank:        "Bancolombia",
				Holder:      holder,
				Account:     account,
			}
			if isCredit {
				mov.Credit = value
			} else {
				mov.Debit = value
			}
			movements = append(movements, mov)
		}
	}

	classifyMovements(movements)
	return movements, holder, account, meta
}

func isHeaderLabelRow(desc string) bool {
	du := strings.ToUpper(desc)
	for _, w := range headerLabelWords {
		if strings.Contains(du, w) {
			return true
		}
	}
	return false
}

// resolveBancolombiaDate turns a "d/mm" transaction date into a full date.
// Statements can cross a year boundary: a month greater than the statement's
// end month belongs to the previous year.
func resolveBancolombiaDate(raw string, year, endMonth int) time.Time {
	parts := strings.Split(raw, "/")
	if len(parts) != 2 {
		return time.Time{}
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return time.Time{}
	}
	if month > endMonth {
		year--
	}
	date, err := dateutils.ParseFlexibleDate(fmt.Sprintf("%02d/%02d/%d", day, month, year))
	if err != nil {
		return time.Time{}
	}
	return date
}
