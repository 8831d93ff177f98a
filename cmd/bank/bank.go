// Package bank handles bank statement conversion commands
package bank

import (
	"contaflow/dian-csv/cmd/root"
	"contaflow/dian-csv/internal/bankparser"
	"contaflow/dian-csv/internal/common"
	"contaflow/dian-csv/internal/logging"
	"contaflow/dian-csv/internal/validation"

	"github.com/spf13/cobra"
)

// Cmd represents the bank command
var Cmd = &cobra.Command{
	Use:   "bank",
	Short: "Convert a bank statement (PDF or Excel) to CSV",
	Long: `Convert a Colombian bank statement to the canonical movements CSV.
The parser picks the PDF or Excel path from the file extension, detects the
bank from the document header and categorizes every movement.`,
	Run: bankFunc,
}

func bankFunc(cmd *cobra.Command, args []string) {
	if root.SharedFlags.Input == "" || root.SharedFlags.Output == "" {
		root.Log.Fatal("Both --input and --output are required")
	}
	if err := validation.IsValidPath(root.SharedFlags.Input); err != nil {
		root.Log.Fatalf("Invalid input file: %v", err)
	}

	statement, err := bankparser.ParseFile(root.SharedFlags.Input)
	if err != nil {
		root.Log.Fatalf("Error parsing bank statement: %v", err)
	}

	if err := common.WriteMovementsToCSV(statement.Movements, root.SharedFlags.Output); err != nil {
		root.Log.Fatalf("Error writing CSV: %v", err)
	}

	root.Log.WithFields(
		logging.Field{Key: logging.FieldBank, Value: statement.Bank},
		logging.Field{Key: logging.FieldCount, Value: len(statement.Movements)},
		logging.Field{Key: logging.FieldOutputFile, Value: root.SharedFlags.Output},
	).Info("Bank statement conversion completed successfully!")
}
