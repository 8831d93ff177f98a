// Package converter exposes the file conversions as a small public API for
// programs that embed the tool instead of shelling out to the CLI.
package converter

import (
	"fmt"

	"contaflow/dian-csv/internal/bankparser"
	"contaflow/dian-csv/internal/batch"
	"contaflow/dian-csv/internal/common"
	"contaflow/dian-csv/internal/dianparser"
	"contaflow/dian-csv/internal/logging"
	"contaflow/dian-csv/internal/models"
)

// ParseStatement parses a bank statement file (PDF or Excel).
func ParseStatement(path string) (*models.Statement, error) {
	return bankparser.ParseFile(path)
}

// ConvertStatementToCSV converts one bank statement into the canonical
// movements CSV.
func ConvertStatementToCSV(inputFile, outputFile string) error {
	statement, err := bankparser.ParseFile(inputFile)
	if err != nil {
		return fmt.Errorf("error parsing statement: %w", err)
	}
	return common.WriteMovementsToCSV(statement.Movements, outputFile)
}

// ConvertInvoicesToCSV converts a DIAN ventas/compras Excel export into the
// canonical invoices CSV.
func ConvertInvoicesToCSV(inputFile, outputFile string) error {
	invoices, err := dianparser.LoadInvoices(inputFile)
	if err != nil {
		return fmt.Errorf("error loading DIAN export: %w", err)
	}
	return common.WriteInvoicesToCSV(invoices, outputFile)
}

// ConvertNominaToCSV converts a nómina electrónica export into CSV.
func ConvertNominaToCSV(inputFile, outputFile string) error {
	records, err := dianparser.LoadNomina(inputFile)
	if err != nil {
		return fmt.Errorf("error loading nómina export: %w", err)
	}
	return common.WriteNominaToCSV(records, outputFile)
}

// BatchConvert converts every bank statement in inputDir, writing one
// consolidated CSV per account into outputDir. Returns the number of CSV
// files written.
func BatchConvert(inputDir, outputDir string) (int, error) {
	aggregator := batch.NewAggregator(logging.GetLogger())
	return aggregator.ConvertDirectory(inputDir, outputDir)
}
