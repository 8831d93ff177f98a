// Package dianparser loads DIAN report Excel files into typed records:
// ventas/compras invoice exports, nómina electrónica, información exógena
// and retenciones practicadas.
//
// DIAN portal exports come in two layouts. The old one has a title or totals
// row first and the headers on the second row; the direct download has the
// headers on the first row. The invoice loader detects which one it got by
// looking at the first cell.
package dianparser

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"contaflow/dian-csv/internal/currencyutils"
	"contaflow/dian-csv/internal/dateutils"
	"contaflow/dian-csv/internal/logging"
	"contaflow/dian-csv/internal/models"
	"contaflow/dian-csv/internal/parsererror"
)

var log = logging.GetLogger()

// SetLogger sets a custom logger for this package
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// canonicalHeader maps encoding-mangled or case-variant header spellings back
// to the canonical DIAN column names. Exports saved through other tools often
// lose the accented characters.
func canonicalHeader(h string) string {
	switch strings.ToLower(h) {
	case "fecha emisi\xf3n", "fecha emision", "fecha emisión":
		return "Fecha Emisión"
	case "fecha recepci\xf3n", "fecha recepcion", "fecha recepción":
		return "Fecha Recepción"
	case "tipo de documento":
		return "Tipo de documento"
	}
	return h
}

// LoadInvoices loads a DIAN ventas or compras Excel export.
func LoadInvoices(filePath string) ([]models.Invoice, error) {
	rows, err := readSheetRows(filePath)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &parsererror.ValidationError{FilePath: filePath, Reason: "file is empty"}
	}

	var headerRow []string
	var dataRows [][]string
	firstCell := strings.ToLower(cellAt(rows[0], 0))
	if firstCell == "tipo de documento" {
		headerRow = rows[0]
		dataRows = rows[1:]
	} else {
		if len(rows) > 1 {
			headerRow = rows[1]
		} else {
			headerRow = rows[0]
		}
		if len(rows) > 2 {
			dataRows = rows[2:]
		} else if len(rows) > 1 {
			dataRows = rows[1:]
		}
	}

	headers := normalizeHeaders(headerRow)

	invoices := make([]models.Invoice, 0, len(dataRows))
	for _, row := range dataRows {
		if nonEmptyCells(row) == 0 {
			continue
		}
		invoices = append(invoices, buildInvoice(headers, row))
	}

	log.WithFields(
		logging.Field{Key: logging.FieldInputFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(invoices)},
	).Info("Loaded DIAN invoice export")
	return invoices, nil
}

// normalizeHeaders trims each header cell and applies the encoding fixes.
func normalizeHeaders(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = canonicalHeader(strings.TrimSpace(cell))
	}
	return out
}

func buildInvoice(headers []string, row []string) models.Invoice {
	inv := models.Invoice{Extra: make(map[string]string)}

	for i, header := range headers {
		value := cellAt(row, i)
		switch header {
		case "Tipo de documento":
			inv.Tipo = value
		case "CUFE/CUDE":
			inv.CUFE = value
		case "Folio":
			inv.Folio = value
		case "Prefijo":
			inv.Prefijo = value
		case "Divisa":
			inv.Divisa = value
		case "Forma de Pago":
			inv.FormaPago = value
		case "Medio de Pago":
			inv.MedioPago = value
		case "Fecha Emisión":
			inv.FechaEmision = parseInvoiceDate(value)
		case "Fecha Recepción":
			inv.FechaRecepcion = parseInvoiceDate(value)
		case "NIT Emisor":
			inv.NITEmisor = value
		case "Nombre Emisor":
			inv.NombreEmisor = value
		case "NIT Receptor":
			inv.NITReceptor = value
		case "Nombre Receptor":
			inv.NombreReceptor = value
		case "IVA":
			inv.IVA = parseNumericCell(value)
		case "ICA":
			inv.ICA = parseNumericCell(value)
		case "IC":
			inv.IC = parseNumericCell(value)
		case "INC":
			inv.INC = parseNumericCell(value)
		case "ICL":
			inv.ICL = parseNumericCell(value)
		case "INPP":
			inv.INPP = parseNumericCell(value)
		case "IBUA":
			inv.IBUA = parseNumericCell(value)
		case "ICUI":
			inv.ICUI = parseNumericCell(value)
		case "Rete IVA":
			inv.ReteIVA = parseNumericCell(value)
		case "Rete Renta":
			inv.ReteRenta = parseNumericCell(value)
		case "Rete ICA":
			inv.ReteICA = parseNumericCell(value)
		case "Total":
			inv.Total = parseNumericCell(value)
		case "Estado":
			inv.Estado = value
		case "Grupo":
			inv.Grupo = value
		case "":
			// unnamed column, skip
		default:
			if value != "" {
				inv.Extra[header] = value
			}
		}
	}

	inv.Base = inv.Total.Sub(inv.IVA)
	inv.TipoLabel = models.ShortTipoLabel(inv.Tipo)
	inv.Mes = dateutils.MonthKey(inv.FechaEmision)
	inv.Bimestre = dateutils.BimesterLabel(inv.FechaEmision)
	inv.Semana = dateutils.ISOWeekLabel(inv.FechaEmision)
	return inv
}

// parseNumericCell coerces a cell to a decimal, zero when empty or invalid.
func parseNumericCell(value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	amount, err := currencyutils.ParseSignedAmount(value)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// parseInvoiceDate parses a cell as a date, zero time when unparseable.
func parseInvoiceDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := dateutils.ParseFlexibleDate(value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
