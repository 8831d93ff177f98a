package dianparser

import (
	"strings"

	"contaflow/dian-csv/internal/logging"
	"contaflow/dian-csv/internal/models"
	"contaflow/dian-csv/internal/parsererror"
)

type retencionField int

const (
	retencionUnknown retencionField = iota
	retencionAgente
	retencionNIT
	retencionConcepto
	retencionBase
	retencionTarifa
	retencionValor
	retencionPeriodo
)

func classifyRetencionHeader(header string) retencionField {
	low := strings.ToLower(header)
	switch {
	case containsAny(low, "agente", "retenedor"):
		return retencionAgente
	case strings.Contains(low, "nit"):
		return retencionNIT
	case strings.Contains(low, "concepto"):
		return retencionConcepto
	case strings.Contains(low, "base"):
		return retencionBase
	case containsAny(low, "tarifa", "%"):
		return retencionTarifa
	case containsAny(low, "valor", "retenido") || strings.Contains(strings.ReplaceAll(low, "ó", "o"), "retencion"):
		return retencionValor
	case containsAny(low, "periodo", "período"):
		return retencionPeriodo
	}
	return retencionUnknown
}

// LoadRetenciones loads a retenciones practicadas report or certificate
// listing. Expected columns are agente retenedor, NIT, concepto, base,
// tarifa, valor retenido and período, matched by name patterns.
func LoadRetenciones(filePath string) ([]models.RetencionRecord, error) {
	rows, err := readSheetRows(filePath)
	if err != nil {
		return nil, err
	}

	headerIdx := findHeaderRow(rows, 3)
	if headerIdx < 0 {
		return nil, &parsererror.ValidationError{FilePath: filePath, Reason: "no header row found"}
	}

	headers := rows[headerIdx]
	fields := make([]retencionField, len(headers))
	for i, h := range headers {
		fields[i] = classifyRetencionHeader(strings.TrimSpace(h))
	}

	records := make([]models.RetencionRecord, 0, len(rows)-headerIdx-1)
	for _, row := range rows[headerIdx+1:] {
		if nonEmptyCells(row) == 0 {
			continue
		}
		rec := models.RetencionRecord{Extra: make(map[string]string)}
		for i, field := range fields {
			value := cellAt(row, i)
			switch field {
			case retencionAgente:
				rec.AgenteRetenedor = value
			case retencionNIT:
				rec.NITRetenedor = value
			case retencionConcepto:
				rec.Concepto = value
			case retencionBase:
				rec.Base = parseNumericCell(value)
			case retencionTarifa:
				rec.Tarifa = parseNumericCell(value)
			case retencionValor:
				rec.ValorRetenido = parseNumericCell(value)
			case retencionPeriodo:
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
	).Info("Loaded retenciones report")
	return records, nil
}
