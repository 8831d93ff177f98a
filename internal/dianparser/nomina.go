package dianparser

import (
	"strings"
	"time"

	"contaflow/dian-csv/internal/dateutils"
	"contaflow/dian-csv/internal/logging"
	"contaflow/dian-csv/internal/models"
	"contaflow/dian-csv/internal/parsererror"
)

// nominaField identifies which NominaRecord field a source column feeds.
type nominaField int

const (
	nominaUnknown nominaField = iota
	nominaDevengado
	nominaDeducido
	nominaReteFuente
	nominaSalud
	nominaPension
	nominaTotalPagar
	nominaNombre
	nominaNIT
	nominaPeriodo
)

// classifyNominaHeader matches a header against the known column name
// patterns. Order matters: "retencion" must win over "nombre" style
// fallthroughs, and total-like names are skipped when they mention devengado.
func classifyNominaHeader(header string) nominaField {
	low := strings.ToLower(header)
	switch {
	case containsAny(low, "devengado", "bruto", "salario base"):
		return nominaDevengado
	case containsAny(low, "deducido", "deduccion", "descuento"):
		return nominaDeducido
	case containsAny(low, "rete", "retencion", "ret. fuente"):
		return nominaReteFuente
	case containsAny(low, "salud", "eps"):
		return nominaSalud
	case containsAny(low, "pension", "afp"):
		return nominaPension
	case containsAny(low, "total", "neto", "pagar") && !strings.Contains(low, "dev"):
		return nominaTotalPagar
	case containsAny(low, "nombre", "empleado", "trabajador"):
		return nominaNombre
	case containsAny(low, "nit", "cedula", "identificacion"):
		return nominaNIT
	case containsAny(low, "fecha", "periodo", "período"):
		return nominaPeriodo
	}
	return nominaUnknown
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// LoadNomina loads a nómina electrónica Excel export. Column names vary per
// payroll software, so columns are identified by fuzzy name matching.
func LoadNomina(filePath string) ([]models.NominaRecord, error) {
	rows, err := readSheetRows(filePath)
	if err != nil {
		return nil, err
	}

	headerIdx := findHeaderRow(rows, 3)
	if headerIdx < 0 {
		return nil, &parsererror.ValidationError{FilePath: filePath, Reason: "no header row found"}
	}

	headers := rows[headerIdx]
	fields := make([]nominaField, len(headers))
	totalIdx := -1
	for i, h := range headers {
		fields[i] = classifyNominaHeader(strings.TrimSpace(h))
		if fields[i] == nominaTotalPagar && totalIdx < 0 {
			totalIdx = i
		}
	}
	hasDevengado := false
	for _, f := range fields {
		if f == nominaDevengado {
			hasDevengado = true
			break
		}
	}

	records := make([]models.NominaRecord, 0, len(rows)-headerIdx-1)
	for _, row := range rows[headerIdx+1:] {
		if nonEmptyCells(row) == 0 {
			continue
		}
		rec := models.NominaRecord{Extra: make(map[string]string)}
		for i, field := range fields {
			value := cellAt(row, i)
			switch field {
			case nominaDevengado:
				rec.Devengado = parseNumericCell(value)
			case nominaDeducido:
				rec.Deducido = parseNumericCell(value)
			case nominaReteFuente:
				rec.ReteFuente = parseNumericCell(value)
			case nominaSalud:
				rec.SaludEmpleado = parseNumericCell(value)
			case nominaPension:
				rec.PensionEmpleado = parseNumericCell(value)
			case nominaTotalPagar:
				rec.TotalPagar = parseNumericCell(value)
			case nominaNombre:
				rec.NombreEmpleado = value
			case nominaNIT:
				rec.NITEmpleado = value
			case nominaPeriodo:
				rec.Periodo = parseNominaPeriod(value)
			default:
				if value != "" && strings.TrimSpace(cellAt(headers, i)) != "" {
					rec.Extra[strings.TrimSpace(cellAt(headers, i))] = value
				}
			}
		}
		// Some payroll exports only carry a total column.
		if !hasDevengado && totalIdx >= 0 {
			rec.Devengado = parseNumericCell(cellAt(row, totalIdx))
		}
		if !rec.Periodo.IsZero() {
			rec.Mes = dateutils.MonthKey(rec.Periodo)
		}
		records = append(records, rec)
	}

	log.WithFields(
		logging.Field{Key: logging.FieldInputFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(records)},
	).Info("Loaded nómina export")
	return records, nil
}

func parseNominaPeriod(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := dateutils.ParseFlexibleDate(value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
