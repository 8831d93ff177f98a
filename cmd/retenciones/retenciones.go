// Package retenciones handles retenciones practicadas conversion commands
package retenciones

import (
	cmdcommon "contaflow/dian-csv/cmd/common"
	"contaflow/dian-csv/cmd/root"
	"contaflow/dian-csv/internal/common"
	"contaflow/dian-csv/internal/dianparser"

	"github.com/spf13/cobra"
)

// Cmd represents the retenciones command
var Cmd = &cobra.Command{
	Use:   "retenciones",
	Short: "Convert a retenciones practicadas report to CSV",
	Run:   retencionesFunc,
}

func retencionesFunc(cmd *cobra.Command, args []string) {
	cmdcommon.RunConversion(dianparser.LoadRetenciones, common.WriteRetencionesToCSV,
		root.SharedFlags.Input, root.SharedFlags.Output, "retenciones report", root.Log)
}
