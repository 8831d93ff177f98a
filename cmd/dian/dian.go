// Package dian handles DIAN invoice export conversion commands
package dian

import (
	cmdcommon "contaflow/dian-csv/cmd/common"
	"contaflow/dian-csv/cmd/root"
	"contaflow/dian-csv/internal/common"
	"contaflow/dian-csv/internal/dianparser"

	"github.com/spf13/cobra"
)

// Cmd represents the dian command
var Cmd = &cobra.Command{
	Use:   "dian",
	Short: "Convert a DIAN ventas/compras export to CSV",
	Long: `Convert a DIAN electronic invoice Excel export (ventas or compras)
to the canonical invoices CSV, with derived Base, Mes, Bimestre and document
type labels.`,
	Run: dianFunc,
}

func dianFunc(cmd *cobra.Command, args []string) {
	cmdcommon.RunConversion(dianparser.LoadInvoices, common.WriteInvoicesToCSV,
		root.SharedFlags.Input, root.SharedFlags.Output, "DIAN export", root.Log)
}
