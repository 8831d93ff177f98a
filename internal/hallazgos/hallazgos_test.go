package hallazgos

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contaflow/dian-csv/internal/models"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func findByCode(findings []Hallazgo, code string) *Hallazgo {
	for i := range findings {
		if findings[i].Codigo == code {
			return &findings[i]
		}
	}
	return nil
}

func TestDetectCreditNotes(t *testing.T) {
	ventas := []models.Invoice{
		{TipoLabel: models.TipoFacturaElectronica, Total: d(1000000), IVA: d(190000), CUFE: "cufe-1"},
		{TipoLabel: models.TipoNotaCredito, Total: d(-200000), IVA: d(-38000), CUFE: "cufe-2"},
	}
	compras := []models.Invoice{
		{TipoLabel: models.TipoFacturaElectronica, Total: d(500000), IVA: d(95000), CUFE: "cufe-3"},
	}

	findings := Detect(ventas, compras)

	h1 := findByCode(findings, "H1")
	require.NotNil(t, h1)
	assert.Equal(t, NivelMedio, h1.Nivel)
	assert.True(t, h1.Impacto.Equal(d(200000)), "impacto %s", h1.Impacto)
	assert.Contains(t, h1.Descripcion, "1 nota(s) crédito")

	assert.Nil(t, findByCode(findings, "H2"))
}

func TestDetectIVAPosition(t *testing.T) {
	ventas := []models.Invoice{{TipoLabel: models.TipoFacturaElectronica, IVA: d(190000), CUFE: "a"}}
	compras := []models.Invoice{{TipoLabel: models.TipoFacturaElectronica, IVA: d(95000), CUFE: "b"}}

	h3 := findByCode(Detect(ventas, compras), "H3")
	require.NotNil(t, h3)
	assert.Equal(t, NivelAlto, h3.Nivel)
	assert.True(t, h3.Impacto.Equal(d(95000)))
	assert.Contains(t, h3.Descripcion, "a pagar")

	// Flip the position: more descontable than generado.
	h3 = findByCode(Detect(compras, ventas), "H3")
	require.NotNil(t, h3)
	assert.Equal(t, NivelBajoMedio, h3.Nivel)
	assert.Contains(t, h3.Descripcion, "a favor")
}

func TestDetectMissingCUFE(t *testing.T) {
	compras := []models.Invoice{
		{TipoLabel: models.TipoFacturaElectronica, Total: d(300000), CUFE: ""},
		{TipoLabel: models.TipoFacturaElectronica, Total: d(700000), CUFE: "ok"},
	}

	h4 := findByCode(Detect(nil, compras), "H4")
	require.NotNil(t, h4)
	assert.Equal(t, NivelMedioAlto, h4.Nivel)
	assert.True(t, h4.Impacto.Equal(d(300000)))
}

func TestDetectSupplierConcentration(t *testing.T) {
	compras := []models.Invoice{
		{TipoLabel: models.TipoFacturaElectronica, NITEmisor: "900111", NombreEmisor: "Proveedor Grande", Total: d(800000), CUFE: "a"},
		{TipoLabel: models.TipoFacturaElectronica, NITEmisor: "900222", NombreEmisor: "Proveedor Chico", Total: d(200000), CUFE: "b"},
	}

	findings := Detect(nil, compras)
	h5 := findByCode(findings, "H5")
	require.NotNil(t, h5)
	assert.Contains(t, h5.Descripcion, "Proveedor Grande")
	assert.Contains(t, h5.Descripcion, "80.0%")
}

func TestDetectReteRenta(t *testing.T) {
	compras := []models.Invoice{
		{TipoLabel: models.TipoFacturaElectronica, Total: d(1000000), ReteRenta: d(25000), CUFE: "a"},
	}

	h6 := findByCode(Detect(nil, compras), "H6")
	require.NotNil(t, h6)
	assert.True(t, h6.Impacto.Equal(d(25000)))
}

func TestDetectExtendedNomina(t *testing.T) {
	nomina := []models.NominaRecord{
		{NITEmpleado: "100", Devengado: d(5000000), ReteFuente: decimal.Zero,
			SaludEmpleado: d(200000), PensionEmpleado: d(200000)},
		{NITEmpleado: "200", Devengado: d(3000000), ReteFuente: decimal.Zero,
			SaludEmpleado: d(120000), PensionEmpleado: d(120000)},
	}

	findings := DetectExtended(Datasets{Nomina: nomina})

	h7 := findByCode(findings, "H7")
	require.NotNil(t, h7)
	assert.Equal(t, NivelAlto, h7.Nivel)
	assert.Contains(t, h7.Descripcion, "1 empleado(s)")
	// 4% of the 5M base.
	assert.True(t, h7.Impacto.Equal(d(200000)), "impacto %s", h7.Impacto)

	h8 := findByCode(findings, "H8")
	require.NotNil(t, h8)
	// 38.5% of 8M devengado.
	assert.True(t, h8.Impacto.Equal(d(3080000)), "impacto %s", h8.Impacto)

	// Both employees have contributions, no UGPP finding.
	assert.Nil(t, findByCode(findings, "H14"))
}

func TestDetectExtendedMissingContributions(t *testing.T) {
	nomina := []models.NominaRecord{
		{NITEmpleado: "100", Devengado: d(2000000)},
		{NITEmpleado: "200", Devengado: d(2000000),
			SaludEmpleado: d(80000), PensionEmpleado: d(80000)},
	}

	h14 := findByCode(DetectExtended(Datasets{Nomina: nomina}), "H14")
	require.NotNil(t, h14)
	assert.Equal(t, NivelAlto, h14.Nivel)
	// 8.5% of the 2M without contributions.
	assert.True(t, h14.Impacto.Equal(d(170000)), "impacto %s", h14.Impacto)
}

func TestDetectExtendedExogenaCross(t *testing.T) {
	ventas := []models.Invoice{
		{TipoLabel: models.TipoFacturaElectronica, NITReceptor: "900111", Total: d(1000000), CUFE: "a"},
	}
	compras := []models.Invoice{
		{TipoLabel: models.TipoFacturaElectronica, NITEmisor: "800100", Total: d(1000000), CUFE: "b"},
	}
	exogena := []models.ExogenaRecord{
		{NITTercero: "900111", ValorBruto: d(1000000)},
		{NITTercero: "999999", ValorBruto: d(450000)},
	}

	findings := DetectExtended(Datasets{Ventas: ventas, Compras: compras, Exogena: exogena})

	h9 := findByCode(findings, "H9")
	require.NotNil(t, h9)
	assert.Contains(t, h9.Descripcion, "1 tercero(s)")
	assert.True(t, h9.Impacto.Equal(d(450000)))

	// exógena total 1.45M vs compras 1M is a 45% delta.
	h10 := findByCode(findings, "H10")
	require.NotNil(t, h10)
	assert.Contains(t, h10.Descripcion, "45.0%")
	assert.True(t, h10.Impacto.Equal(d(450000)))
}

func TestDetectExtendedRetenciones(t *testing.T) {
	retenciones := []models.RetencionRecord{
		{AgenteRetenedor: "Cliente SA", ValorRetenido: d(35000)},
		{AgenteRetenedor: "Otro SA", ValorRetenido: d(15000)},
	}

	h11 := findByCode(DetectExtended(Datasets{Retenciones: retenciones}), "H11")
	require.NotNil(t, h11)
	assert.True(t, h11.Impacto.Equal(d(50000)))
}

func TestDetectExtendedMissingForm350(t *testing.T) {
	compras := []models.Invoice{
		{TipoLabel: models.TipoFacturaElectronica, Total: d(1000000), ReteRenta: d(25000), CUFE: "a"},
	}

	h13 := findByCode(DetectExtended(Datasets{Compras: compras}), "H13")
	require.NotNil(t, h13)
	assert.Contains(t, h13.Descripcion, "Form. 350")
}

func TestDetectExtendedIVAVariation(t *testing.T) {
	ventas := []models.Invoice{
		{TipoLabel: models.TipoFacturaElectronica, IVA: d(100000), Bimestre: "Bim 1 (Ene-Feb) 2025", CUFE: "a"},
		{TipoLabel: models.TipoFacturaElectronica, IVA: d(200000), Bimestre: "Bim 2 (Mar-Abr) 2025", CUFE: "b"},
	}

	h12 := findByCode(DetectExtended(Datasets{Ventas: ventas}), "H12")
	require.NotNil(t, h12)
	assert.Contains(t, h12.Descripcion, "100%")
	assert.True(t, h12.Impacto.Equal(d(100000)))

	// A 20% swing stays under the threshold.
	ventas[1].IVA = d(120000)
	assert.Nil(t, findByCode(DetectExtended(Datasets{Ventas: ventas}), "H12"))
}

func TestDetectAllCombines(t *testing.T) {
	ds := Datasets{
		Ventas: []models.Invoice{
			{TipoLabel: models.TipoFacturaElectronica, IVA: d(190000), Total: d(1190000), CUFE: "a"},
		},
		Nomina: []models.NominaRecord{
			{NITEmpleado: "100", Devengado: d(2000000),
				SaludEmpleado: d(80000), PensionEmpleado: d(80000)},
		},
	}

	findings := DetectAll(ds)
	assert.NotNil(t, findByCode(findings, "H3"))
	assert.NotNil(t, findByCode(findings, "H8"))
}

func TestDetectEmpty(t *testing.T) {
	assert.Empty(t, Detect(nil, nil))
	assert.Empty(t, DetectExtended(Datasets{}))
}
