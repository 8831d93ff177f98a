// Package report handles the fiscal roll-up command
package report

import (
	"contaflow/dian-csv/cmd/root"
	"contaflow/dian-csv/internal/bankparser"
	"contaflow/dian-csv/internal/currencyutils"
	"contaflow/dian-csv/internal/fiscal"
	"contaflow/dian-csv/internal/logging"

	"github.com/spf13/cobra"
)

// Cmd represents the report command
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Print a fiscal roll-up of a bank statement",
	Long: `Report parses a bank statement and logs the fiscal roll-up:
GMF (4x1000), interest paid and received, withholdings, parafiscales,
impuestos, comisiones and the per-category and per-month summaries.`,
	Run: reportFunc,
}

func reportFunc(cmd *cobra.Command, args []string) {
	if root.SharedFlags.Input == "" {
		root.Log.Fatal("--input is required")
	}

	statement, err := bankparser.ParseFile(root.SharedFlags.Input)
	if err != nil {
		root.Log.Fatalf("Error parsing bank statement: %v", err)
	}

	rpt := fiscal.BuildReport(statement.Movements)

	root.Log.WithFields(
		logging.Field{Key: logging.FieldBank, Value: statement.Bank},
		logging.Field{Key: logging.FieldAccount, Value: statement.Account},
		logging.Field{Key: logging.FieldCount, Value: len(statement.Movements)},
	).Info("Fiscal report")

	root.Log.Infof("GMF (4x1000):        %s", currencyutils.FormatAmount(rpt.TotalGMF, "COP"))
	root.Log.Infof("Intereses pagados:   %s", currencyutils.FormatAmount(rpt.TotalInterestPaid, "COP"))
	root.Log.Infof("Intereses recibidos: %s", currencyutils.FormatAmount(rpt.TotalInterestReceived, "COP"))
	root.Log.Infof("Retenciones:         %s", currencyutils.FormatAmount(rpt.TotalWithholdings, "COP"))
	root.Log.Infof("Parafiscales:        %s", currencyutils.FormatAmount(rpt.TotalParafiscales, "COP"))
	root.Log.Infof("Impuestos:           %s", currencyutils.FormatAmount(rpt.TotalImpuestos, "COP"))
	root.Log.Infof("Comisiones:          %s", currencyutils.FormatAmount(rpt.TotalComisiones, "COP"))
	root.Log.Infof("Total ingresos:      %s", currencyutils.FormatAmount(rpt.TotalIngresos, "COP"))
	root.Log.Infof("Total egresos:       %s", currencyutils.FormatAmount(rpt.TotalEgresos, "COP"))

	for _, cat := range rpt.Categories {
		root.Log.WithFields(
			logging.Field{Key: logging.FieldCategory, Value: cat.Label},
		).Infof("débitos %s / créditos %s",
			currencyutils.FormatAmount(cat.Debit, "COP"),
			currencyutils.FormatAmount(cat.Credit, "COP"))
	}
	for _, month := range rpt.Timeline {
		root.Log.Infof("%s: débitos %s / créditos %s", month.Month,
			currencyutils.FormatAmount(month.Debit, "COP"),
			currencyutils.FormatAmount(month.Credit, "COP"))
	}
}
