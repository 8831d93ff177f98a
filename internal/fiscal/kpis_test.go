package fiscal

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contaflow/dian-csv/internal/models"
)

func invoice(tipoLabel, receptor, emisor, bimestre string, total, iva int64) models.Invoice {
	inv := models.Invoice{
		TipoLabel:      tipoLabel,
		NombreReceptor: receptor,
		NombreEmisor:   emisor,
		Bimestre:       bimestre,
		Total:          decimal.NewFromInt(total),
		IVA:            decimal.NewFromInt(iva),
	}
	inv.Base = inv.Total.Sub(inv.IVA)
	return inv
}

func TestComputeKPIs(t *testing.T) {
	ventas := []models.Invoice{
		invoice(models.TipoFacturaElectronica, "CLIENTE A", "MI EMPRESA", "Bim 1 (Ene-Feb) 2025", 1190000, 190000),
		invoice(models.TipoFacturaElectronica, "CLIENTE B", "MI EMPRESA", "Bim 1 (Ene-Feb) 2025", 2380000, 380000),
		invoice(models.TipoNotaCredito, "CLIENTE A", "MI EMPRESA", "Bim 1 (Ene-Feb) 2025", -119000, -19000),
	}
	compras := []models.Invoice{
		invoice(models.TipoFacturaElectronica, "MI EMPRESA", "PROVEEDOR X", "Bim 1 (Ene-Feb) 2025", 595000, 95000),
	}

	k := ComputeKPIs(ventas, compras)

	assert.True(t, decimal.NewFromInt(3451000).Equal(k.TotalVentas))
	assert.True(t, decimal.NewFromInt(595000).Equal(k.TotalCompras))
	assert.True(t, decimal.NewFromInt(551000).Equal(k.IVAGenerado))
	assert.True(t, decimal.NewFromInt(95000).Equal(k.IVADescontable))
	assert.True(t, decimal.NewFromInt(456000).Equal(k.IVANeto))
	assert.Equal(t, 2, k.NumFacturasVentas)
	assert.Equal(t, 1, k.NumFacturasCompras)
	assert.Equal(t, 1, k.NotasCreditoVentas)
	assert.Equal(t, 0, k.NotasCreditoCompras)
	assert.True(t, k.MargenBruto.IsPositive())

	require.Len(t, k.TopClientes, 2)
	assert.Equal(t, "CLIENTE B", k.TopClientes[0].Name)
	require.Len(t, k.TopProveedores, 1)
	assert.Equal(t, "PROVEEDOR X", k.TopProveedores[0].Name)
}

func TestComputeNominaKPIs(t *testing.T) {
	nomina := []models.NominaRecord{
		{NITEmpleado: "100", Devengado: decimal.NewFromInt(3000000), Deducido: decimal.NewFromInt(240000), ReteFuente: decimal.NewFromInt(0), TotalPagar: decimal.NewFromInt(2760000)},
		{NITEmpleado: "200", Devengado: decimal.NewFromInt(5000000), Deducido: decimal.NewFromInt(400000), ReteFuente: decimal.NewFromInt(150000), TotalPagar: decimal.NewFromInt(4450000)},
		{NITEmpleado: "100", Devengado: decimal.NewFromInt(3000000), Deducido: decimal.NewFromInt(240000), TotalPagar: decimal.NewFromInt(2760000)},
	}

	k := ComputeNominaKPIs(nomina)

	assert.True(t, decimal.NewFromInt(11000000).Equal(k.TotalDevengado))
	assert.Equal(t, 2, k.NumEmpleados, "distinct NITs")
	assert.True(t, decimal.NewFromFloat(4235000).Equal(k.CargaPatronalEst))
	assert.True(t, decimal.NewFromFloat(15235000).Equal(k.CostoLaboralTotal))
}

func TestComputeNominaKPIsEmpty(t *testing.T) {
	k := ComputeNominaKPIs(nil)
	assert.True(t, k.TotalDevengado.IsZero())
	assert.Equal(t, 0, k.NumEmpleados)
}

func TestBuildIVAConciliation(t *testing.T) {
	ventas := []models.Invoice{
		invoice(models.TipoFacturaElectronica, "CLIENTE A", "", "Bim 1 (Ene-Feb) 2025", 1190000, 190000),
		invoice(models.TipoFacturaElectronica, "CLIENTE A", "", "Bim 2 (Mar-Abr) 2025", 500000, 80000),
	}
	compras := []models.Invoice{
		invoice(models.TipoFacturaElectronica, "", "PROVEEDOR X", "Bim 1 (Ene-Feb) 2025", 700000, 110000),
		invoice(models.TipoFacturaElectronica, "", "PROVEEDOR X", "Bim 2 (Mar-Abr) 2025", 900000, 144000),
	}

	rows := BuildIVAConciliation(ventas, compras)
	require.Len(t, rows, 2)

	assert.Equal(t, "Bim 1 (Ene-Feb) 2025", rows[0].Bimestre)
	assert.True(t, decimal.NewFromInt(80000).Equal(rows[0].IVANeto))
	assert.Equal(t, PosicionAPagar, rows[0].Posicion)
	assert.Equal(t, 1, rows[0].DocsVentas)

	assert.True(t, decimal.NewFromInt(-64000).Equal(rows[1].IVANeto))
	assert.Equal(t, PosicionAFavor, rows[1].Posicion)
}

func TestBuildClientSummary(t *testing.T) {
	ventas := []models.Invoice{
		{NombreReceptor: "CLIENTE A", NITReceptor: "900111", Total: decimal.NewFromInt(600000000), IVA: decimal.NewFromInt(95000000), Mes: "2025-01"},
		{NombreReceptor: "CLIENTE A", NITReceptor: "900111", Total: decimal.NewFromInt(10000000), Mes: "2025-02"},
		{NombreReceptor: "CLIENTE B", NITReceptor: "900222", Total: decimal.NewFromInt(5000000), Mes: "2025-01"},
	}

	summary := BuildClientSummary(ventas)
	require.Len(t, summary, 2)

	top := summary[0]
	assert.Equal(t, "CLIENTE A", top.Name)
	assert.Equal(t, 2, top.Facturas)
	assert.Equal(t, 2, top.Periodos)
	assert.True(t, top.RespIVA)
	assert.True(t, top.GranContrib)
	assert.Contains(t, top.Obligaciones, "IVA ✓")
	assert.Contains(t, top.Obligaciones, "Gran Cont.")

	assert.Equal(t, "—", summary[1].Obligaciones)
}
