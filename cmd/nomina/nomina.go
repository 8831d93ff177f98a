// Package nomina handles nómina electrónica conversion commands
package nomina

import (
	cmdcommon "contaflow/dian-csv/cmd/common"
	"contaflow/dian-csv/cmd/root"
	"contaflow/dian-csv/internal/common"
	"contaflow/dian-csv/internal/dianparser"

	"github.com/spf13/cobra"
)

// Cmd represents the nomina command
var Cmd = &cobra.Command{
	Use:   "nomina",
	Short: "Convert a nómina electrónica export to CSV",
	Run:   nominaFunc,
}

func nominaFunc(cmd *cobra.Command, args []string) {
	cmdcommon.RunConversion(dianparser.LoadNomina, common.WriteNominaToCSV,
		root.SharedFlags.Input, root.SharedFlags.Output, "nómina export", root.Log)
}
