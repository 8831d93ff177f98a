// Package bankparser converts Colombian bank statements (PDF and Excel) into
// normalized Movement slices.
//
// Two levels of parsing exist: a specialized Bancolombia path that understands
// that bank's statement layout, and generic fallbacks that work off column
// headers or line patterns for any other bank. Callers get a Statement either
// way; an unrecognized layout yields a valid empty Statement with the bank
// still detected.
package bankparser

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"contaflow/dian-csv/internal/classifier"
	"contaflow/dian-csv/internal/logging"
	"contaflow/dian-csv/internal/models"
	"contaflow/dian-csv/internal/pdfextract"
)

var log = logging.GetLogger()

// SetLogger sets a custom logger for this package
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// periodPDF matches the DESDE/HASTA date range printed in statement headers.
var periodPDF = regexp.MustCompile(`(?is)(?:DESDE|FROM):\s*(\d{4}/\d{2}/\d{2}).*?(?:HASTA|TO):\s*(\d{4}/\d{2}/\d{2})`)

// genericAccountPDF and genericHolderPDF pull account metadata out of
// non-Bancolombia statement headers.
var (
	genericAccountPDF = regexp.MustCompile(`(?im)N[ºo°]?\s*(?:cuenta|cta)[\s:\-]+([\d\-\s]{6,20})`)
	genericHolderPDF  = regexp.MustCompile(`(?im)(?:cliente|titular|nombre)[:\s]+([A-ZÁÉÍÓÚÑ][A-ZÁÉÍÓÚÑa-z\s]{4,50})`)
)

// ParseFile parses a bank statement choosing the PDF or Excel path by file
// extension.
func ParseFile(path string) (*models.Statement, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return ParseStatement(path)
	case ".xlsx", ".xls":
		return ParseStatementExcel(path)
	default:
		return nil, fmt.Errorf("unsupported statement file type: %s", path)
	}
}

// ParseStatement parses a PDF bank statement file.
func ParseStatement(path string) (*models.Statement, error) {
	pages, err := pdfextract.ExtractPages(path)
	if err != nil {
		return nil, err
	}
	stmt := ParsePages(pages)
	log.WithFields(
		logging.Field{Key: logging.FieldFile, Value: filepath.Base(path)},
		logging.Field{Key: logging.FieldBank, Value: stmt.Bank},
		logging.Field{Key: logging.FieldCount, Value: len(stmt.Movements)},
	).Info("Parsed PDF bank statement")
	return stmt, nil
}

// ParsePages parses already-extracted statement page text. Split out from
// ParseStatement so the line grammar is testable without PDF fixtures.
func ParsePages(pages []string) *models.Statement {
	stmt := &models.Statement{Bank: classifier.GenericBank}
	if len(pages) == 0 {
		return stmt
	}

	// Bank and period detection use the first two pages only.
	headerPages := pages
	if len(headerPages) > 2 {
		headerPages = headerPages[:2]
	}
	headerText := strings.Join(headerPages, "\n")

	stmt.Bank = classifier.DetectBank(headerText)
	if m := periodPDF.FindStringSubmatch(headerText); m != nil {
		from := strings.ReplaceAll(m[1], "/", "-")
		to := strings.ReplaceAll(m[2], "/", "-")
		stmt.Period = fmt.Sprintf("%s al %s", from, to)
	}

	if stmt.Bank == "Bancolombia" {
		movs, holder, account, meta := parseBancolombia(pages, headerText)
		stmt.Movements = movs
		stmt.Holder = holder
		stmt.Account = account
		stmt.Meta = meta
		return stmt
	}

	if m := genericAccountPDF.FindStringSubmatch(headerText); m != nil {
		stmt.Account = strings.TrimSpace(m[1])
	}
	if m := genericHolderPDF.FindStringSubmatch(headerText); m != nil {
		stmt.Holder = strings.TrimSpace(m[1])
	}

	// Table-shaped rows first; the looser line regex only runs when the
	// table strategy finds too little to trust.
	if rows := parseTableRows(pages); len(rows.data) >= 3 {
		movs := normalizeTableRows(rows, stmt.Bank)
		if len(movs) >= 2 {
			stmt.Movements = movs
			return stmt
		}
	}

	stmt.Movements = parseTextLines(pages, stmt.Bank)
	return stmt
}

// classifyMovements fills Category and CategoryLabel on each movement.
func classifyMovements(movs []models.Movement) {
	for i := range movs {
		movs[i].Category = classifier.Classify(movs[i].Description)
		movs[i].CategoryLabel = classifier.Label(movs[i].Category)
	}
}
