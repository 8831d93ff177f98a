package batch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"contaflow/dian-csv/internal/logging"
	"contaflow/dian-csv/internal/models"
)

func writeStatementXLSX(t *testing.T, dir, name string, rows [][]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(filepath.Join(dir, name)))
	require.NoError(t, f.Close())
}

func bancolombiaRows(movements [][]interface{}) [][]interface{} {
	rows := [][]interface{}{
		{"BANCOLOMBIA S.A."},
		{"CUENTA DE AHORROS"},
		{"NUMERO 12345678901"},
		{"FECHA", "DESCRIPCIÓN", "ABONOS", "CARGOS", "SALDO"},
	}
	return append(rows, movements...)
}

func TestConvertDirectoryConsolidatesPerAccount(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()

	writeStatementXLSX(t, inputDir, "marzo.xlsx", bancolombiaRows([][]interface{}{
		{"2025-03-05", "CUOTA MANEJO", "", "25.000", "5.475.000"},
		{"2025-03-01", "PAGO QR CLIENTE", "1.500.000", "", "5.500.000"},
	}))
	writeStatementXLSX(t, inputDir, "abril.xlsx", bancolombiaRows([][]interface{}{
		{"2025-04-10", "TRANSFERENCIA RECIBIDA", "800.000", "", "6.275.000"},
	}))
	writeStatementXLSX(t, inputDir, "davivienda.xlsx", [][]interface{}{
		{"BANCO DAVIVIENDA EXTRACTO MENSUAL"},
		{"FECHA", "CONCEPTO", "DEBITO", "CREDITO", "SALDO"},
		{"05/05/2025", "PAGO NOMINA", "3.000.000", "0", "2.000.000"},
		{"06/05/2025", "ABONO CLIENTE", "0", "1.000.000", "3.000.000"},
	})

	agg := NewAggregator(&logging.MockLogger{})
	written, err := agg.ConvertDirectory(inputDir, outputDir)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	bancolombiaCSV := filepath.Join(outputDir, "Bancolombia_12345678901_2025-03-01_2025-04-10.csv")
	data, err := os.ReadFile(bancolombiaCSV)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	// Chronological order across both files.
	assert.Contains(t, lines[1], "PAGO QR CLIENTE")
	assert.Contains(t, lines[2], "CUOTA MANEJO")
	assert.Contains(t, lines[3], "TRANSFERENCIA RECIBIDA")
}

func TestConvertDirectorySkipsUnparseableFiles(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "roto.xlsx"), []byte("not a workbook"), 0o600))
	writeStatementXLSX(t, inputDir, "marzo.xlsx", bancolombiaRows([][]interface{}{
		{"2025-03-01", "PAGO QR CLIENTE", "1.500.000", "", "5.500.000"},
	}))

	log := &logging.MockLogger{}
	agg := NewAggregator(log)
	written, err := agg.ConvertDirectory(inputDir, outputDir)
	require.NoError(t, err)
	assert.Equal(t, 1, written)
}

func TestConvertDirectoryEmpty(t *testing.T) {
	agg := NewAggregator(&logging.MockLogger{})
	written, err := agg.ConvertDirectory(t.TempDir(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, written)
}

func TestConvertDirectoryMissingInput(t *testing.T) {
	agg := NewAggregator(&logging.MockLogger{})
	_, err := agg.ConvertDirectory(filepath.Join(t.TempDir(), "nonexistent"), t.TempDir())
	assert.Error(t, err)
}

func TestDateRangeMerge(t *testing.T) {
	a := DateRange{
		Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	b := DateRange{
		Start: time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC),
	}

	merged := a.Merge(b)
	assert.Equal(t, b.Start, merged.Start)
	assert.Equal(t, a.End, merged.End)
	assert.Equal(t, "2025-02-15_2025-03-31", merged.String())

	assert.Equal(t, a, DateRange{}.Merge(a))
	assert.Equal(t, "", DateRange{}.String())
}

func TestCalculateDateRange(t *testing.T) {
	movements := []models.Movement{
		{Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)},
		{},
		{Date: time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC)},
	}

	dr := CalculateDateRange(movements)
	assert.Equal(t, "2025-03-02_2025-03-25", dr.String())

	assert.True(t, CalculateDateRange(nil).Start.IsZero())
}

func TestDetectAndLogDuplicates(t *testing.T) {
	day := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	movements := []models.Movement{
		{Date: day, Description: "CUOTA MANEJO", Debit: decimal.NewFromInt(25000)},
		{Date: day, Description: "cuota manejo ", Debit: decimal.NewFromInt(25000)},
		{Date: day, Description: "PAGO PROVEEDOR", Debit: decimal.NewFromInt(100000)},
	}

	log := &logging.MockLogger{}
	agg := NewAggregator(log)
	agg.detectAndLogDuplicates(movements, "12345678901")

	warns := 0
	for _, e := range log.Entries {
		if e.Level == "WARN" {
			warns++
		}
	}
	assert.Equal(t, 2, warns)
}

func TestGenerateOutputFilename(t *testing.T) {
	agg := NewAggregator(&logging.MockLogger{})

	name := agg.GenerateOutputFilename(AccountGroup{
		Bank:    "Banco de Bogotá",
		Account: "987-654",
		DateRange: DateRange{
			Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		},
	})
	assert.Equal(t, "Banco_de_Bogot_987-654_2025-01-01_2025-01-31.csv", name)

	assert.Equal(t, "banco.csv", agg.GenerateOutputFilename(AccountGroup{}))
}
