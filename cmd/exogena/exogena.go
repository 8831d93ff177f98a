// Package exogena handles información exógena conversion commands
package exogena

import (
	cmdcommon "contaflow/dian-csv/cmd/common"
	"contaflow/dian-csv/cmd/root"
	"contaflow/dian-csv/internal/common"
	"contaflow/dian-csv/internal/dianparser"

	"github.com/spf13/cobra"
)

// Cmd represents the exogena command
var Cmd = &cobra.Command{
	Use:   "exogena",
	Short: "Convert an información exógena report to CSV",
	Run:   exogenaFunc,
}

func exogenaFunc(cmd *cobra.Command, args []string) {
	cmdcommon.RunConversion(dianparser.LoadExogena, common.WriteExogenaToCSV,
		root.SharedFlags.Input, root.SharedFlags.Output, "exógena report", root.Log)
}
