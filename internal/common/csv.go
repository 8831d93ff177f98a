// Package common provides the canonical CSV output shared by every command.
package common

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"contaflow/dian-csv/internal/dateutils"
	"contaflow/dian-csv/internal/fileutils"
	"contaflow/dian-csv/internal/hallazgos"
	"contaflow/dian-csv/internal/logging"
	"contaflow/dian-csv/internal/models"
)

var log = logging.GetLogger()

// Global CSV delimiter - can be configured via centralized config or environment variable
var Delimiter rune = ','

func init() {
	if val := os.Getenv("CSV_DELIMITER"); val != "" {
		SetDelimiter([]rune(val)[0])
	}
}

// SetDelimiter allows setting the delimiter for CSV output
func SetDelimiter(delim rune) {
	Delimiter = delim
	gocsv.TagSeparator = fmt.Sprintf("%c", delim)
}

// SetLogger allows setting a configured logger
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// MovementCSVRow is the canonical CSV layout for bank movements.
type MovementCSVRow struct {
	Fecha       string `csv:"Fecha"`
	Descripcion string `csv:"Descripción"`
	Debito      string `csv:"Débito"`
	Credito     string `csv:"Crédito"`
	Saldo       string `csv:"Saldo"`
	Banco       string `csv:"Banco"`
	Cuenta      string `csv:"Cuenta"`
	Categoria   string `csv:"Categoría"`
	Etiqueta    string `csv:"Etiqueta"`
}

// InvoiceCSVRow is the canonical CSV layout for DIAN invoices.
type InvoiceCSVRow struct {
	Tipo           string `csv:"Tipo de documento"`
	TipoLabel      string `csv:"Tipo"`
	CUFE           string `csv:"CUFE/CUDE"`
	Folio          string `csv:"Folio"`
	Prefijo        string `csv:"Prefijo"`
	FechaEmision   string `csv:"Fecha Emisión"`
	NITEmisor      string `csv:"NIT Emisor"`
	NombreEmisor   string `csv:"Nombre Emisor"`
	NITReceptor    string `csv:"NIT Receptor"`
	NombreReceptor string `csv:"Nombre Receptor"`
	IVA            string `csv:"IVA"`
	ReteIVA        string `csv:"Rete IVA"`
	ReteRenta      string `csv:"Rete Renta"`
	ReteICA        string `csv:"Rete ICA"`
	Total          string `csv:"Total"`
	Base           string `csv:"Base"`
	Mes            string `csv:"Mes"`
	Bimestre       string `csv:"Bimestre"`
	Estado         string `csv:"Estado"`
}

// NominaCSVRow is the canonical CSV layout for nómina records.
type NominaCSVRow struct {
	NITEmpleado     string `csv:"NIT Empleado"`
	NombreEmpleado  string `csv:"Nombre Empleado"`
	Periodo         string `csv:"Periodo"`
	Mes             string `csv:"Mes"`
	Devengado       string `csv:"Devengado"`
	Deducido        string `csv:"Deducido"`
	ReteFuente      string `csv:"Rete Fuente"`
	SaludEmpleado   string `csv:"Salud Empleado"`
	PensionEmpleado string `csv:"Pension Empleado"`
	TotalPagar      string `csv:"Total Pagar"`
}

// ExogenaCSVRow is the canonical CSV layout for exógena records.
type ExogenaCSVRow struct {
	NITTercero    string `csv:"NIT Tercero"`
	NombreTercero string `csv:"Nombre Tercero"`
	Concepto      string `csv:"Concepto"`
	Periodo       string `csv:"Periodo"`
	ValorBruto    string `csv:"Valor Bruto"`
	Retencion     string `csv:"Retencion"`
	ValorNeto     string `csv:"Valor Neto"`
}

// RetencionCSVRow is the canonical CSV layout for retenciones practicadas.
type RetencionCSVRow struct {
	AgenteRetenedor string `csv:"Agente Retenedor"`
	NITRetenedor    string `csv:"NIT Retenedor"`
	Concepto        string `csv:"Concepto"`
	Periodo         string `csv:"Periodo"`
	Base            string `csv:"Base"`
	Tarifa          string `csv:"Tarifa"`
	ValorRetenido   string `csv:"Valor Retenido"`
}

// HallazgoCSVRow is the CSV layout for audit findings.
type HallazgoCSVRow struct {
	Codigo        string `csv:"Código"`
	Nivel         string `csv:"Nivel"`
	Area          string `csv:"Área"`
	Descripcion   string `csv:"Descripción"`
	Cuenta        string `csv:"Cuenta PUC"`
	Impacto       string `csv:"Impacto Estimado"`
	Norma         string `csv:"Norma"`
	Procedimiento string `csv:"Procedimiento"`
}

// WriteMovementsToCSV writes bank movements to a CSV file in the canonical
// format. All commands use this function to keep output consistent.
func WriteMovementsToCSV(movements []models.Movement, csvFile string) error {
	rows := make([]MovementCSVRow, len(movements))
	for i, mov := range movements {
		rows[i] = MovementCSVRow{
			Fecha:       dateutils.FormatDate(mov.Date),
			Descripcion: mov.Description,
			Debito:      mov.Debit.StringFixed(2),
			Credito:     mov.Credit.StringFixed(2),
			Saldo:       mov.Balance.StringFixed(2),
			Banco:       mov.Bank,
			Cuenta:      mov.Account,
			Categoria:   mov.Category,
			Etiqueta:    mov.CategoryLabel,
		}
	}
	return writeCSVFile(rows, csvFile, len(movements))
}

// WriteInvoicesToCSV writes DIAN invoices to a CSV file in the canonical
// format.
func WriteInvoicesToCSV(invoices []models.Invoice, csvFile string) error {
	rows := make([]InvoiceCSVRow, len(invoices))
	for i, inv := range invoices {
		rows[i] = InvoiceCSVRow{
			Tipo:           inv.Tipo,
			TipoLabel:      inv.TipoLabel,
			CUFE:           inv.CUFE,
			Folio:          inv.Folio,
			Prefijo:        inv.Prefijo,
			FechaEmision:   dateutils.FormatDate(inv.FechaEmision),
			NITEmisor:      inv.NITEmisor,
			NombreEmisor:   inv.NombreEmisor,
			NITReceptor:    inv.NITReceptor,
			NombreReceptor: inv.NombreReceptor,
			IVA:            inv.IVA.StringFixed(2),
			ReteIVA:        inv.ReteIVA.StringFixed(2),
			ReteRenta:      inv.ReteRenta.StringFixed(2),
			ReteICA:        inv.ReteICA.StringFixed(2),
			Total:          inv.Total.StringFixed(2),
			Base:           inv.Base.StringFixed(2),
			Mes:            inv.Mes,
			Bimestre:       inv.Bimestre,
			Estado:         inv.Estado,
		}
	}
	return writeCSVFile(rows, csvFile, len(invoices))
}

// WriteNominaToCSV writes nómina records to a CSV file.
func WriteNominaToCSV(records []models.NominaRecord, csvFile string) error {
	rows := make([]NominaCSVRow, len(records))
	for i, rec := range records {
		rows[i] = NominaCSVRow{
			NITEmpleado:     rec.NITEmpleado,
			NombreEmpleado:  rec.NombreEmpleado,
			Periodo:         dateutils.FormatDate(rec.Periodo),
			Mes:             rec.Mes,
			Devengado:       rec.Devengado.StringFixed(2),
			Deducido:        rec.Deducido.StringFixed(2),
			ReteFuente:      rec.ReteFuente.StringFixed(2),
			SaludEmpleado:   rec.SaludEmpleado.StringFixed(2),
			PensionEmpleado: rec.PensionEmpleado.StringFixed(2),
			TotalPagar:      rec.TotalPagar.StringFixed(2),
		}
	}
	return writeCSVFile(rows, csvFile, len(records))
}

// WriteExogenaToCSV writes exógena records to a CSV file.
func WriteExogenaToCSV(records []models.ExogenaRecord, csvFile string) error {
	rows := make([]ExogenaCSVRow, len(records))
	for i, rec := range records {
		rows[i] = ExogenaCSVRow{
			NITTercero:    rec.NITTercero,
			NombreTercero: rec.NombreTercero,
			Concepto:      rec.Concepto,
			Periodo:       rec.Periodo,
			ValorBruto:    rec.ValorBruto.StringFixed(2),
			Retencion:     rec.Retencion.StringFixed(2),
			ValorNeto:     rec.ValorNeto.StringFixed(2),
		}
	}
	return writeCSVFile(rows, csvFile, len(records))
}

// WriteRetencionesToCSV writes retenciones records to a CSV file.
func WriteRetencionesToCSV(records []models.RetencionRecord, csvFile string) error {
	rows := make([]RetencionCSVRow, len(records))
	for i, rec := range records {
		rows[i] = RetencionCSVRow{
			AgenteRetenedor: rec.AgenteRetenedor,
			NITRetenedor:    rec.NITRetenedor,
			Concepto:        rec.Concepto,
			Periodo:         rec.Periodo,
			Base:            rec.Base.StringFixed(2),
			Tarifa:          rec.Tarifa.StringFixed(2),
			ValorRetenido:   rec.ValorRetenido.StringFixed(2),
		}
	}
	return writeCSVFile(rows, csvFile, len(records))
}

// WriteHallazgosToCSV writes audit findings to a CSV file.
func WriteHallazgosToCSV(findings []hallazgos.Hallazgo, csvFile string) error {
	rows := make([]HallazgoCSVRow, len(findings))
	for i, h := range findings {
		rows[i] = HallazgoCSVRow{
			Codigo:        h.Codigo,
			Nivel:         h.Nivel,
			Area:          h.Area,
			Descripcion:   h.Descripcion,
			Cuenta:        h.Cuenta,
			Impacto:       h.Impacto.StringFixed(2),
			Norma:         h.Norma,
			Procedimiento: h.Procedimiento,
		}
	}
	return writeCSVFile(rows, csvFile, len(findings))
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
func ReadCSVFile[TCSVRow any](filePath string) ([]TCSVRow, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.WithField(logging.FieldFile, filePath).Warnf("Failed to close file: %v", closeErr)
		}
	}()

	var rows []TCSVRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}
	return rows, nil
}

func writeCSVFile[TCSVRow any](rows []TCSVRow, csvFile string, count int) error {
	if err := fileutils.EnsureDirectoryExists(filepath.Dir(csvFile)); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.WithField(logging.FieldFile, csvFile).Warnf("Failed to close file: %v", closeErr)
		}
	}()

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = Delimiter
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	log.WithFields(
		logging.Field{Key: logging.FieldOutputFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: count},
	).Info("Wrote CSV file")
	return nil
}
