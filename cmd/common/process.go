// Package common contains shared functionality for command handlers
package common

import (
	"contaflow/dian-csv/internal/logging"
	"contaflow/dian-csv/internal/validation"
)

// RunConversion loads records from inputFile and writes them as CSV to
// outputFile. Every converter command follows the same shape, only the
// loader and writer differ. Any failure is fatal since a command handler
// has nothing useful left to do after one.
func RunConversion[T any](load func(string) ([]T, error), write func([]T, string) error, inputFile, outputFile, what string, log logging.Logger) {
	if inputFile == "" || outputFile == "" {
		log.Fatal("Both --input and --output are required")
		return
	}
	if err := validation.IsValidPath(inputFile); err != nil {
		log.Fatalf("Invalid input file: %v", err)
		return
	}

	records, err := load(inputFile)
	if err != nil {
		log.Fatalf("Error loading %s: %v", what, err)
		return
	}

	if err := write(records, outputFile); err != nil {
		log.Fatalf("Error writing CSV: %v", err)
		return
	}

	log.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(records)},
		logging.Field{Key: logging.FieldOutputFile, Value: outputFile},
	).Info("Conversion completed successfully!")
}
