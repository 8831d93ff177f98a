package dianparser

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"contaflow/dian-csv/internal/dateutils"
	"contaflow/dian-csv/internal/models"
)

func writeXLSX(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

var invoiceHeaders = []interface{}{
	"Tipo de documento", "CUFE/CUDE", "Folio", "Fecha Emisión",
	"NIT Emisor", "Nombre Emisor", "NIT Receptor", "Nombre Receptor",
	"IVA", "Rete Renta", "Total",
}

func TestLoadInvoicesNewFormat(t *testing.T) {
	path := writeXLSX(t, [][]interface{}{
		invoiceHeaders,
		{"Factura electrónica de Venta", "cufe-001", "F-1", "15/03/2025",
			"900123456", "ACME SAS", "800987654", "Cliente Uno",
			"190000", "0", "1190000"},
		{"Nota Crédito electrónica", "cufe-002", "NC-1", "20/03/2025",
			"900123456", "ACME SAS", "800987654", "Cliente Uno",
			"-19000", "0", "-119000"},
	})

	invoices, err := LoadInvoices(path)
	require.NoError(t, err)
	require.Len(t, invoices, 2)

	first := invoices[0]
	assert.Equal(t, models.TipoFacturaElectronica, first.TipoLabel)
	assert.Equal(t, "cufe-001", first.CUFE)
	assert.Equal(t, "900123456", first.NITEmisor)
	assert.True(t, decimal.NewFromInt(1190000).Equal(first.Total))
	assert.True(t, decimal.NewFromInt(190000).Equal(first.IVA))
	assert.True(t, decimal.NewFromInt(1000000).Equal(first.Base))
	assert.Equal(t, "2025-03", first.Mes)
	assert.Equal(t, "Bim 2 (Mar-Abr) 2025", first.Bimestre)
	assert.Equal(t, "2025-W11", first.Semana)

	assert.Equal(t, models.TipoNotaCredito, invoices[1].TipoLabel)
	assert.True(t, decimal.NewFromInt(-119000).Equal(invoices[1].Total))
}

func TestLoadInvoicesOldFormatWithTotalsRow(t *testing.T) {
	path := writeXLSX(t, [][]interface{}{
		{"REPORTE DE FACTURAS RECIBIDAS", "", "", "", "", "", "", "", "", "", "98765"},
		invoiceHeaders,
		{"Factura electrónica de Venta", "cufe-100", "F-9", "2025-01-10",
			"800555111", "Proveedor SA", "900123456", "ACME SAS",
			"95000", "12500", "595000"},
	})

	invoices, err := LoadInvoices(path)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "cufe-100", invoices[0].CUFE)
	assert.Equal(t, "Bim 1 (Ene-Feb) 2025", invoices[0].Bimestre)
	assert.True(t, decimal.NewFromInt(12500).Equal(invoices[0].ReteRenta))
}

func TestLoadInvoicesEncodingVariantHeaders(t *testing.T) {
	path := writeXLSX(t, [][]interface{}{
		{"Tipo De Documento", "CUFE/CUDE", "Fecha Emision", "Total", "IVA"},
		{"Factura electrónica de Venta", "cufe-7", "05/02/2025", "238000", "38000"},
	})

	invoices, err := LoadInvoices(path)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "2025-02", invoices[0].Mes)
	assert.True(t, decimal.NewFromInt(200000).Equal(invoices[0].Base))
}

func TestLoadInvoicesExtraColumns(t *testing.T) {
	path := writeXLSX(t, [][]interface{}{
		{"Tipo de documento", "Total", "Observaciones"},
		{"Factura electrónica de Venta", "100000", "pago parcial"},
	})

	invoices, err := LoadInvoices(path)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "pago parcial", invoices[0].Extra["Observaciones"])
}

func TestLoadInvoicesWithoutFechaEmision(t *testing.T) {
	path := writeXLSX(t, [][]interface{}{
		{"Tipo de documento", "CUFE/CUDE", "Fecha Emisión", "Total", "IVA"},
		{"Factura electrónica de Venta", "cufe-9", "", "119000", "19000"},
	})

	invoices, err := LoadInvoices(path)
	require.NoError(t, err)
	require.Len(t, invoices, 1)

	// Dateless documents group under the sentinel period instead of an
	// empty bucket.
	assert.True(t, invoices[0].FechaEmision.IsZero())
	assert.Equal(t, dateutils.NoDateLabel, invoices[0].Mes)
	assert.Equal(t, dateutils.NoDateLabel, invoices[0].Bimestre)
	assert.Equal(t, dateutils.NoDateLabel, invoices[0].Semana)
}

func TestLoadInvoicesMissingFile(t *testing.T) {
	_, err := LoadInvoices(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}

func TestLoadNomina(t *testing.T) {
	path := writeXLSX(t, [][]interface{}{
		{"NOMINA ELECTRONICA MARZO"},
		{"Cedula", "Nombre Empleado", "Periodo", "Total Devengado", "Deducciones", "Ret. Fuente", "Salud", "Pensión AFP", "Neto a Pagar"},
		{"1020304050", "Ana Pérez", "31/03/2025", "5200000", "416000", "150000", "208000", "208000", "4634000"},
		{"1098765432", "Luis Gómez", "31/03/2025", "2400000", "192000", "0", "96000", "96000", "2208000"},
	})

	records, err := LoadNomina(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	ana := records[0]
	assert.Equal(t, "1020304050", ana.NITEmpleado)
	assert.Equal(t, "Ana Pérez", ana.NombreEmpleado)
	assert.True(t, decimal.NewFromInt(5200000).Equal(ana.Devengado))
	assert.True(t, decimal.NewFromInt(150000).Equal(ana.ReteFuente))
	assert.True(t, decimal.NewFromInt(208000).Equal(ana.SaludEmpleado))
	assert.True(t, decimal.NewFromInt(4634000).Equal(ana.TotalPagar))
	assert.Equal(t, "2025-03", ana.Mes)
}

func TestLoadNominaTotalOnlyFallback(t *testing.T) {
	path := writeXLSX(t, [][]interface{}{
		{"Cedula", "Nombre Empleado", "Neto a Pagar"},
		{"1020304050", "Ana Pérez", "3000000"},
	})

	records, err := LoadNomina(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, decimal.NewFromInt(3000000).Equal(records[0].Devengado))
}

func TestLoadExogena(t *testing.T) {
	path := writeXLSX(t, [][]interface{}{
		{"FORMATO 1001 - PAGOS A TERCEROS"},
		{"NIT Tercero", "Razón Social", "Concepto", "Valor Pagado", "Retención Practicada", "Valor Neto", "Año"},
		{"900111222", "Proveedor Uno SAS", "5002", "12000000", "300000", "11700000", "2025"},
		{"800333444", "Proveedor Dos SA", "5004", "4000000", "0", "4000000", "2025"},
	})

	records, err := LoadExogena(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "900111222", records[0].NITTercero)
	assert.Equal(t, "Proveedor Uno SAS", records[0].NombreTercero)
	assert.Equal(t, "5002", records[0].Concepto)
	assert.True(t, decimal.NewFromInt(12000000).Equal(records[0].ValorBruto))
	assert.True(t, decimal.NewFromInt(300000).Equal(records[0].Retencion))
	assert.Equal(t, "2025", records[0].Periodo)
}

func TestLoadRetenciones(t *testing.T) {
	path := writeXLSX(t, [][]interface{}{
		{"CERTIFICADOS DE RETENCION 2025"},
		{"Agente Retenedor", "NIT", "Concepto", "Base", "Tarifa %", "Valor Retenido", "Periodo"},
		{"Cliente Grande SA", "860111222", "Honorarios", "10000000", "11", "1100000", "2025-03"},
	})

	records, err := LoadRetenciones(path)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Cliente Grande SA", rec.AgenteRetenedor)
	assert.Equal(t, "860111222", rec.NITRetenedor)
	assert.True(t, decimal.NewFromInt(10000000).Equal(rec.Base))
	assert.True(t, decimal.NewFromInt(11).Equal(rec.Tarifa))
	assert.True(t, decimal.NewFromInt(1100000).Equal(rec.ValorRetenido))
	assert.Equal(t, "2025-03", rec.Periodo)
}
