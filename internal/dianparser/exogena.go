package dianparser

import (
	"strings"

	"contaflow/dian-csv/internal/logging"
	"contaflow/dian-csv/internal/models"
	"contaflow/dian-csv/internal/parsererror"
)

type exogenaField int

const (
	exogenaUnknown exogenaField = iota
	exogenaNIT
	exogenaNombre
	exogenaConcepto
	exogenaValorBruto
	exogenaRetencion
	exogenaValorNeto
	exogenaPeriodo
)

func classifyExogenaHeader(header string) exogenaField {
	low := strings.ToLower(header)
	switch {
	case containsAny(low, "nit tercero", "nit del", "identificacion"):
		return exogenaNIT
	case containsAny(low, "nombre", "razon social", "razón"):
		return exogenaNombre
	case containsAny(low, "concepto", "formato"):
		return exogenaConcepto
	case containsAny(low, "valor bruto", "monto", "valor pagado", "ingreso"):
		return exogenaValorBruto
	case containsAny(low, "retencion", "retención", "rete"):
		return exogenaRetencion
	case containsAny(low, "valor neto", "neto"):
		return exogenaValorNeto
	case containsAny(low, "periodo", "período", "año", "anio"):
		return exogenaPeriodo
	}
	return exogenaUnknown
}

// LoadExogena loads an información exógena (medios magnéticos) report.
// Formatos 1001, 1007, 1008 and similar all fit, columns are identified by
// name patterns instead of position.
func LoadExogena(filePath string) ([]models.ExogenaRecord, error) {
	rows, err := readSheetRows(filePath)
	if err != nil {
		return nil, err
	}

	headerIdx := findHeaderRow(rows, 4)
	if headerIdx < 0 {
		return nil, &parsererror.ValidationError{FilePath: filePath, Reason: "no header row found"}
	}

	headers := rows[headerIdx]
	fields := make([]exogenaField, len(headers))
	for i, h := range headers {
		fields[i] = classifyExogenaHeader(strings.TrimSpace(h))
	}

	records := make([]models.ExogenaRecord, 0, len(rows)-headerIdx-1)
	for _, row := range rows[headerIdx+1:] {
		if nonEmptyCells(row) == 0 {
			continue
		}
		rec := models.ExogenaRecord{Extra: make(map[string]string)}
		for i, field := range fields {
			value := cellAt(row, i)
			switch field {
			case exogenaNIT:
				rec.NITTercero = value
			case exogenaNombre:
				rec.NombreTercero = value
			case exogenaConcepto:
				rec.Concepto = value
			case exogenaValorBruto:
				rec.ValorBruto = parseNumericCell(value)
			case exogenaRetencion:
				rec.Retencion = parseNumericCell(value)
			case exogenaValorNeto:
				rec.ValorNeto = parseNumericCell(value)
			case exogenaPeriodo:
				rec.Periodo = value
			default:
				if value != "" && strings.TrimSpace(cellAt(headers, i)) != "" {
					rec.Extra[strings.TrimSpace(cellAt(headers, i))] = value
				}
			}
		}
		records = append(records, rec)
	}

	log.WithFields(
		logging.Field{Key: logging.FieldInputFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(records)},
	).Info("Loaded exógena report")
	return records, nil
}
