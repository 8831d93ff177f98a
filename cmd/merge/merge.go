// Package merge handles the multi-period merge command
package merge

import (
	"contaflow/dian-csv/cmd/root"
	"contaflow/dian-csv/internal/common"
	"contaflow/dian-csv/internal/logging"
	"contaflow/dian-csv/internal/merge"
	"contaflow/dian-csv/internal/models"

	"github.com/spf13/cobra"
)

// Cmd represents the merge command
var Cmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge every uploaded file of a company and report type into one CSV",
	Long: `Merge concatenates the whole upload history of a company and report
type, oldest first, deduplicates repeated documents (por CUFE/CUDE, or por
empleado y período for nómina) and writes the result as one CSV.`,
	Run: mergeFunc,
}

func init() {
	Cmd.Flags().StringVar(&root.CompanyNIT, "company", "", "Company NIT")
	Cmd.Flags().StringVar(&root.ReportType, "type", "", "Report type (ventas, compras, nomina, exogena, retenciones)")
}

func mergeFunc(cmd *cobra.Command, args []string) {
	if root.CompanyNIT == "" || root.ReportType == "" || root.SharedFlags.Output == "" {
		root.Log.Fatal("--company, --type and --output are required")
	}
	if !models.IsValidReportType(root.ReportType) {
		root.Log.Fatalf("Unknown report type: %s", root.ReportType)
	}

	merger := merge.NewMerger(root.DataStore())
	dataset, err := merger.MergeAll(root.CompanyNIT, root.ReportType)
	if err != nil {
		root.Log.Fatalf("Error merging uploads: %v", err)
	}

	switch root.ReportType {
	case models.ReportNomina:
		err = common.WriteNominaToCSV(dataset.Nomina, root.SharedFlags.Output)
	case models.ReportExogena:
		err = common.WriteExogenaToCSV(dataset.Exogena, root.SharedFlags.Output)
	case models.ReportRetenciones:
		err = common.WriteRetencionesToCSV(dataset.Retenciones, root.SharedFlags.Output)
	default:
		err = common.WriteInvoicesToCSV(dataset.Invoices, root.SharedFlags.Output)
	}
	if err != nil {
		root.Log.Fatalf("Error writing CSV: %v", err)
	}

	root.Log.WithFields(
		logging.Field{Key: logging.FieldCompany, Value: root.CompanyNIT},
		logging.Field{Key: logging.FieldReportType, Value: root.ReportType},
		logging.Field{Key: logging.FieldOutputFile, Value: root.SharedFlags.Output},
	).Info("Merge completed successfully!")
}
