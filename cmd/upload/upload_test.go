package upload

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"contaflow/dian-csv/cmd/root"
	"contaflow/dian-csv/internal/config"
	"contaflow/dian-csv/internal/logging"
	"contaflow/dian-csv/internal/models"
	"contaflow/dian-csv/internal/store"
)

func writeVentasXLSX(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Tipo de documento", "CUFE/CUDE", "Fecha Emisión", "Total", "IVA"},
		{"Factura electrónica de Venta", "cufe-1", "10/03/2025", "119000", "19000"},
		{"Factura electrónica de Venta", "cufe-2", "20/03/2025", "238000", "38000"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(dir, "ventas_marzo.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func setFlags(t *testing.T, nit, reportType, input, per string) *logging.MockLogger {
	t.Helper()
	mock := &logging.MockLogger{}
	origLog := root.Log
	root.Log = mock
	root.CompanyNIT = nit
	root.ReportType = reportType
	root.SharedFlags.Input = input
	period = per
	t.Cleanup(func() {
		root.Log = origLog
		root.CompanyNIT = ""
		root.ReportType = ""
		root.SharedFlags.Input = ""
		period = ""
	})
	return mock
}

func noFatals(t *testing.T, mock *logging.MockLogger) {
	t.Helper()
	for _, e := range mock.Entries {
		require.NotEqual(t, "FATAL", e.Level, "unexpected fatal: %s", e.Message)
	}
}

func TestUploadFuncRecordsPeriodAndRowCount(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DIAN_DATA_DIRECTORY", dir)
	require.NoError(t, config.InitializeGlobalConfig())

	input := writeVentasXLSX(t, dir)
	mock := setFlags(t, "900123456", models.ReportVentas, input, "2025-03")

	uploadFunc(Cmd, nil)
	noFatals(t, mock)

	uploads, err := store.NewStore(dir).ListUploads("900123456", models.ReportVentas)
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	assert.Equal(t, "2025-03", uploads[0].Period)
	assert.Equal(t, 2, uploads[0].RowCount)
	assert.Equal(t, "ventas_marzo.xlsx", uploads[0].Filename)
}

func TestUploadFuncRejectsUnknownReportType(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DIAN_DATA_DIRECTORY", dir)
	require.NoError(t, config.InitializeGlobalConfig())

	input := writeVentasXLSX(t, dir)
	mock := setFlags(t, "900123456", "balances", input, "")

	uploadFunc(Cmd, nil)

	require.NotEmpty(t, mock.Entries)
	assert.Equal(t, "FATAL", mock.Entries[0].Level)
	assert.Contains(t, mock.Entries[0].Message, "Unknown report type")
}

func TestCountRowsVentas(t *testing.T) {
	dir := t.TempDir()
	input := writeVentasXLSX(t, dir)

	n, err := countRows(models.ReportVentas, input)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
