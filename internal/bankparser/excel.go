package bankparser

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"contaflow/dian-csv/internal/classifier"
	"contaflow/dian-csv/internal/currencyutils"
	"contaflow/dian-csv/internal/dateutils"
	"contaflow/dian-csv/internal/logging"
	"contaflow/dian-csv/internal/models"
)

// Excel statement layouts come in two Bancolombia variants plus whatever
// other banks export:
//
//	A) FECHA | DESCRIPCION | OFICINA | REFERENCIA | VALOR | SALDO
//	   where VALOR is signed (or parenthesized) for debits
//	B) FECHA | DESCRIPCION | ABONOS | CARGOS | SALDO
//
// The column header row is found by keyword scan, never assumed to be row 1,
// because exports carry variable-height preamble blocks.

// peekRows is how many leading rows feed bank detection.
const peekRows = 15

var (
	periodExcelDayFirst = regexp.MustCompile(`(?i)(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})\s*(?:AL|A|-|–)\s*(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})`)
	periodExcelISO      = regexp.MustCompile(`(?i)(\d{4}[/\-]\d{2}[/\-]\d{2})\s*(?:AL|A|-|–)\s*(\d{4}[/\-]\d{2}[/\-]\d{2})`)
)

var (
	excelHolderPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)(?:TITULAR|NOMBRE CLIENTE|CLIENTE)[:\s\n]+([A-ZÁÉÍÓÚÑ][A-ZÁÉÍÓÚÑa-záéíóúñ\s&\.]{3,60})`),
		regexp.MustCompile(`(?m)CUENTA DE AHORROS\s*\n?\s*([A-ZÁÉÍÓÚÑ][A-ZÁÉÍÓÚÑa-záéíóúñ\s&\.]{3,60})`),
	}
	excelAccountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:N[UÚ]MERO|CUENTA No\.?|No\.?\s*CUENTA|CUENTA DE AHORROS|CUENTA)[:\s]*(\d{6,18})`),
		regexp.MustCompile(`\b(\d{10,18})\b`),
	}
	genericExcelHolder  = regexp.MustCompile(`(?:TITULAR|NOMBRE|CLIENTE)[:\s]+([A-ZÁÉÍÓÚÑ][A-ZÁÉÍÓÚÑa-záéíóúñ\s&\.]{3,60})`)
	genericExcelAccount = regexp.MustCompile(`\b(\d{8,18})\b`)
)

// bancolombiaHeaderKeywords and genericHeaderKeywords locate the column
// header row; a row needs at least two hits to qualify.
var (
	bancolombiaHeaderKeywords = []string{"FECHA", "DESCRIPCI", "VALOR", "SALDO", "ABONO", "CARGO", "REFERENCIA"}
	genericHeaderKeywords     = []string{"FECHA", "DESCRIPCI", "VALOR", "SALDO", "DÉBITO", "CRÉDITO", "ABONO", "CARGO"}
)

// excelCreditKeywords infer direction for unsigned single-VALOR layouts.
var excelCreditKeywords = []string{
	"ABONO", "CONSIGNACION", "DEPOSITO", "PAGO QR",
	"TRANSFERENCIA RECIBIDA", "INTERESES", "RENDIMIENTO",
	"PAGO NEQUI RECIBIDO", "DESEMBOLSO",
}

// ParseStatementExcel parses an Excel bank statement file.
func ParseStatementExcel(path string) (*models.Statement, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel statement %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("Failed to close Excel file")
		}
	}()

	stmt := parseExcelFile(f)
	log.WithFields(
		logging.Field{Key: logging.FieldFile, Value: filepath.Base(path)},
		logging.Field{Key: logging.FieldBank, Value: stmt.Bank},
		logging.Field{Key: logging.FieldCount, Value: len(stmt.Movements)},
	).Info("Parsed Excel bank statement")
	return stmt, nil
}

// parseExcelFile dispatches between the Bancolombia and generic Excel paths
// after detecting the bank from the leading rows of the first sheet.
func parseExcelFile(f *excelize.File) *models.Statement {
	stmt := &models.Statement{Bank: classifier.GenericBank}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return stmt
	}

	headerText := peekSheetText(f, sheets[0], peekRows)
	stmt.Bank = classifier.DetectBank(headerText)

	if m := periodExcelDayFirst.FindStringSubmatch(headerText); m != nil {
		stmt.Period = fmt.Sprintf("%s al %s", m[1], m[2])
	} else if m := periodExcelISO.FindStringSubmatch(headerText); m != nil {
		stmt.Period = fmt.Sprintf("%s al %s", m[1], m[2])
	}

	if stmt.Bank == "Bancolombia" {
		stmt.Movements, stmt.Holder, stmt.Account = parseBancolombiaExcel(f)
	} else {
		stmt.Movements, stmt.Holder, stmt.Account = parseExcelGeneric(f, stmt.Bank)
	}
	return stmt
}

// peekSheetText joins the first n rows of a sheet into newline-separated text.
func peekSheetText(f *excelize.File, sheet string, n int) string {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return ""
	}
	if len(rows) > n {
		rows = rows[:n]
	}
	var lines []string
	for _, row := range rows {
		line := strings.TrimSpace(strings.Join(row, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// findHeaderRow scans rows for the first one with at least two keyword hits,
// accumulating the preamble text seen on the way for metadata extraction.
func findHeaderRow(rows [][]string, keywords []string) (int, string) {
	var headerLines []string
	for idx, row := range rows {
		var vals []string
		for _, v := range row {
			if s := strings.TrimSpace(v); s != "" {
				vals = append(vals, s)
			}
		}
		if len(vals) == 0 {
			continue
		}
		joined := strings.Join(vals, " ")
		headerLines = append(headerLines, joined)

		upper := strings.ToUpper(joined)
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(upper, kw) {
				hits++
			}
		}
		if hits >= 2 {
			return idx, strings.Join(headerLines, "\n")
		}
	}
	return -1, strings.Join(headerLines, "\n")
}

func firstMatch(patterns []*regexp.Regexp, text string) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// parseBancolombiaExcel handles both Bancolombia Excel layouts across every
// sheet that carries a transaction table.
func parseBancolombiaExcel(f *excelize.File) ([]models.Movement, string, string) {
	var movements []models.Movement
	var holder, account string

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			log.WithError(err).WithField(logging.FieldSheet, sheet).Warn("Failed to read sheet")
			continue
		}

		headerIdx, headerText := findHeaderRow(rows, bancolombiaHeaderKeywords)
		if holder == "" {
			holder = firstMatch(excelHolderPatterns, headerText)
		}
		if account == "" {
			account = firstMatch(excelAccountPatterns, headerText)
		}
		if headerIdx < 0 || headerIdx+1 >= len(rows) {
			continue
		}

		header := make([]string, len(rows[headerIdx]))
		for i, c := range rows[headerIdx] {
			header[i] = strings.ToUpper(strings.TrimSpace(c))
		}

		fechaIdx := columnIndex(header, "fecha")
		descIdx := columnIndex(header, "descripci", "concepto", "movimiento", "detalle")
		saldoIdx := columnIndex(header, "saldo")
		abonoIdx := columnIndex(header, "abono", "crédito", "credito", "ingreso")
		cargoIdx := columnIndex(header, "cargo", "débito", "debito", "egreso")
		valorIdx := -1
		if abonoIdx < 0 && cargoIdx < 0 {
			valorIdx = columnIndex(header, "valor")
		}
		if fechaIdx < 0 {
			continue
		}

		for _, row := range rows[headerIdx+1:] {
			mov, ok := buildExcelMovement(row, fechaIdx, descIdx, saldoIdx, abonoIdx, cargoIdx, valorIdx)
			if !ok {
				continue
			}
			mov.Bank = "Bancolombia"
			mov.Holder = holder
			mov.Account = account
			movements = append(movements, mov)
		}
	}

	classifyMovements(movements)
	return movements, holder, account
}

// buildExcelMovement normalizes one Excel data row. Rows without a usable
// date, without a description, or with both amounts zero are dropped.
func buildExcelMovement(row []string, fechaIdx, descIdx, saldoIdx, abonoIdx, cargoIdx, valorIdx int) (models.Movement, bool) {
	fechaRaw := cellAt(row, fechaIdx)
	if fechaRaw == "" || strings.EqualFold(fechaRaw, "FECHA") {
		return models.Movement{}, false
	}
	date, _ := dateutils.ParseFlexibleDate(fechaRaw)

	desc := cellAt(row, descIdx)
	balance := currencyutils.ParseAmountOrZero(cellAt(row, saldoIdx))

	mov := models.Movement{
		Date:        date,
		Description: desc,
		Balance:     balance,
	}

	switch {
	case abonoIdx >= 0 && cargoIdx >= 0:
		mov.Credit = currencyutils.ParseAmountOrZero(cellAt(row, abonoIdx))
		mov.Debit = currencyutils.ParseAmountOrZero(cellAt(row, cargoIdx))
	case valorIdx >= 0:
		raw := cellAt(row, valorIdx)
		value, err := currencyutils.ParseSignedAmount(raw)
		if err != nil {
			return models.Movement{}, false
		}
		switch {
		case strings.Contains(raw, "-") || strings.Contains(raw, "(") || value.IsNegative():
			mov.Debit = value.Abs()
		case isExcelCreditDescription(desc):
			mov.Credit = value
		default:
			mov.Debit = value
		}
	default:
		return models.Movement{}, false
	}

	if mov.Credit.IsZero() && mov.Debit.IsZero() {
		return models.Movement{}, false
	}
	if len([]rune(desc)) < 2 {
		return models.Movement{}, false
	}
	return mov, true
}

func isExcelCreditDescription(desc string) bool {
	du := strings.ToUpper(desc)
	for _, kw := range excelCreditKeywords {
		if strings.Contains(du, kw) {
			return true
		}
	}
	return false
}

// parseExcelGeneric finds the first sheet with a recognizable transaction
// table and normalizes it with the shared fuzzy column mapping.
func parseExcelGeneric(f *excelize.File, bank string) ([]models.Movement, string, string) {
	var holder, account string

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			log.WithError(err).WithField(logging.FieldSheet, sheet).Warn("Failed to read sheet")
			continue
		}

		headerIdx, headerText := findHeaderRow(rows, genericHeaderKeywords)
		if holder == "" {
			if m := genericExcelHolder.FindStringSubmatch(headerText); m != nil {
				holder = strings.TrimSpace(m[1])
			}
		}
		if account == "" {
			if m := genericExcelAccount.FindStringSubmatch(headerText); m != nil {
				account = strings.TrimSpace(m[1])
			}
		}

		// Without a recognizable header row the first row serves as one.
		if headerIdx < 0 {
			headerIdx = 0
		}
		if headerIdx+1 >= len(rows) || len(rows[headerIdx+1:]) < 2 {
			continue
		}

		table := tableRows{header: rows[headerIdx], data: rows[headerIdx+1:]}
		movements := normalizeTableRows(table, bank)
		if len(movements) > 0 {
			for i := range movements {
				movements[i].Holder = holder
				movements[i].Account = account
			}
			return movements, holder, account
		}
	}
	return nil, holder, account
}
