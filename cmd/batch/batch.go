// Package batch handles batch processing of statement directories
package batch

import (
	"contaflow/dian-csv/cmd/root"
	"contaflow/dian-csv/internal/batch"
	"contaflow/dian-csv/internal/fileutils"
	"contaflow/dian-csv/internal/logging"

	"github.com/spf13/cobra"
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Convert every bank statement in a directory",
	Long: `Convert all bank statements (PDF or Excel) found in the input directory,
writing one consolidated CSV per bank account into the output directory.
Statements of the same account are merged in chronological order.

Example:
  dian-csv batch -i extractos/ -o salida/`,
	Run: batchFunc,
}

func batchFunc(cmd *cobra.Command, args []string) {
	inputDir := root.SharedFlags.Input
	outputDir := root.SharedFlags.Output

	if inputDir == "" || outputDir == "" {
		root.Log.Fatal("Both --input and --output directories are required")
	}
	if err := fileutils.EnsureDirectoryExists(outputDir); err != nil {
		root.Log.Fatalf("Failed to create output directory: %v", err)
	}

	aggregator := batch.NewAggregator(root.Log)
	written, err := aggregator.ConvertDirectory(inputDir, outputDir)
	if err != nil {
		root.Log.Fatalf("Batch conversion failed: %v", err)
	}

	root.Log.WithFields(
		logging.Field{Key: logging.FieldCount, Value: written},
		logging.Field{Key: logging.FieldOutputFile, Value: outputDir},
	).Info("Batch conversion completed successfully!")
}
