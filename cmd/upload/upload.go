// Package upload handles registering report files in the upload store
package upload

import (
	"os"

	"contaflow/dian-csv/cmd/root"
	"contaflow/dian-csv/internal/bankparser"
	"contaflow/dian-csv/internal/dianparser"
	"contaflow/dian-csv/internal/logging"
	"contaflow/dian-csv/internal/models"
	"contaflow/dian-csv/internal/validation"

	"github.com/spf13/cobra"
)

// Cmd represents the upload command
var Cmd = &cobra.Command{
	Use:   "upload",
	Short: "Store a report file in a company's upload history",
	Long: `Upload copies a report file into the company's upload history so merge
and audit can see it. Files are never overwritten, re-uploading the same
report adds a newer version and the merge deduplicates by document.

Example:
  dian-csv upload --company 900123456 --type ventas --period 2025-03 -i ventas_marzo.xlsx`,
	Run: uploadFunc,
}

var period string

func init() {
	Cmd.Flags().StringVar(&root.CompanyNIT, "company", "", "Company NIT")
	Cmd.Flags().StringVar(&root.ReportType, "type", "", "Report type (ventas, compras, nomina, exogena, retenciones)")
	Cmd.Flags().StringVar(&period, "period", "", "Declared period of the report, e.g. 2025-03")
}

func uploadFunc(cmd *cobra.Command, args []string) {
	if root.CompanyNIT == "" || root.ReportType == "" || root.SharedFlags.Input == "" {
		root.Log.Fatal("--company, --type and --input are required")
		return
	}
	if !models.IsValidReportType(root.ReportType) {
		root.Log.Fatalf("Unknown report type: %s", root.ReportType)
		return
	}
	if err := validation.IsValidPath(root.SharedFlags.Input); err != nil {
		root.Log.Fatalf("Invalid input file: %v", err)
		return
	}

	data, err := os.ReadFile(root.SharedFlags.Input)
	if err != nil {
		root.Log.Fatalf("Error reading input file: %v", err)
		return
	}

	// Parse once up front so the history records how many rows came in.
	// An unparseable file is still stored, merge skips it downstream.
	rowCount, err := countRows(root.ReportType, root.SharedFlags.Input)
	if err != nil {
		root.Log.WithError(err).Warn("Could not parse upload to count rows, storing it anyway")
	}

	artifact, err := root.DataStore().SaveUploadedFile(root.CompanyNIT, root.ReportType, root.SharedFlags.Input, period, data, rowCount)
	if err != nil {
		root.Log.Fatalf("Error storing upload: %v", err)
		return
	}

	root.Log.WithFields(
		logging.Field{Key: logging.FieldCompany, Value: artifact.CompanyNIT},
		logging.Field{Key: logging.FieldReportType, Value: artifact.ReportType},
		logging.Field{Key: logging.FieldOutputFile, Value: artifact.StoredPath},
		logging.Field{Key: logging.FieldCount, Value: artifact.RowCount},
	).Info("Upload stored successfully!")
}

// countRows parses the file with the loader of its report type and returns
// the number of data rows it holds.
func countRows(reportType, path string) (int, error) {
	switch reportType {
	case models.ReportVentas, models.ReportCompras:
		rows, err := dianparser.LoadInvoices(path)
		return len(rows), err
	case models.ReportNomina:
		rows, err := dianparser.LoadNomina(path)
		return len(rows), err
	case models.ReportExogena:
		rows, err := dianparser.LoadExogena(path)
		return len(rows), err
	case models.ReportRetenciones:
		rows, err := dianparser.LoadRetenciones(path)
		return len(rows), err
	default:
		stmt, err := bankparser.ParseFile(path)
		if err != nil {
			return 0, err
		}
		return len(stmt.Movements), nil
	}
}
