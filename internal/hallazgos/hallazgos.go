// Package hallazgos runs rule-based audit checks over loaded DIAN data and
// returns findings with risk level, estimated impact and the applicable norm.
//
// Rules H1-H6 need only ventas and compras; H7-H14 cross-reference nómina,
// exógena and retenciones when those datasets are present.
package hallazgos

import (
	"fmt"

	"github.com/shopspring/decimal"

	"contaflow/dian-csv/internal/fiscal"
	"contaflow/dian-csv/internal/models"
)

// Risk levels, ordered from informational to critical.
const (
	NivelBajoMedio = "BAJO-MEDIO"
	NivelMedio     = "MEDIO"
	NivelMedioAlto = "MEDIO-ALTO"
	NivelAlto      = "ALTO"
)

// Hallazgo is one audit finding.
type Hallazgo struct {
	Codigo        string
	Nivel         string
	Area          string
	Descripcion   string
	Cuenta        string
	Impacto       decimal.Decimal
	Norma         string
	Procedimiento string
}

// Thresholds used by the cross-reference rules.
var (
	// supplierConcentrationLimit flags suppliers above 30% of total compras.
	supplierConcentrationLimit = decimal.NewFromFloat(0.30)
	// umbralRetencionRenta approximates the monthly income where salary
	// withholding starts.
	umbralRetencionRenta = decimal.NewFromInt(4_100_000)
	// estimatedSalaryWithholdingRate approximates the missing retención.
	estimatedSalaryWithholdingRate = decimal.NewFromFloat(0.04)
	// exogenaDeltaLimitPct is the tolerated difference between exógena and
	// compras FE totals.
	exogenaDeltaLimitPct = decimal.NewFromInt(5)
	// ivaVariationLimitPct is the bimester-over-bimester IVA swing that
	// trips the DIAN AOR alert.
	ivaVariationLimitPct = decimal.NewFromInt(30)
	// healthContributionRate estimates the exposure of missing aportes.
	healthContributionRate = decimal.NewFromFloat(0.085)
)

var cien = decimal.NewFromInt(100)

// Detect runs the ventas/compras rules H1-H6.
func Detect(ventas, compras []models.Invoice) []Hallazgo {
	var findings []Hallazgo

	// H1: credit notes in ventas shrink the taxable income base.
	ncVentas := filterByTipo(ventas, models.TipoNotaCredito)
	if len(ncVentas) > 0 {
		impacto := sumTotal(ncVentas).Abs()
		findings = append(findings, Hallazgo{
			Codigo: "H1",
			Nivel:  NivelMedio,
			Area:   "Ventas",
			Descripcion: fmt.Sprintf("Se detectaron %d nota(s) crédito en ventas por valor total de $%s COP. "+
				"Estas reducen la base gravable de ingresos reportados.", len(ncVentas), impacto.StringFixed(0)),
			Cuenta:  "4135 / 2408",
			Impacto: impacto,
			Norma:   "Art. 481 ET — Notas crédito electrónicas DIAN Res. 000042/2020",
			Procedimiento: "1. Verificar que cada NC tenga relación con FE original. " +
				"2. Confirmar que la base neta concilia con declaraciones IVA. " +
				"3. Revisar contabilización en cuenta 4135.",
		})
	}

	// H2: credit notes in compras reduce deductible IVA.
	ncCompras := filterByTipo(compras, models.TipoNotaCredito)
	if len(ncCompras) > 0 {
		impacto := sumIVA(ncCompras).Abs()
		findings = append(findings, Hallazgo{
			Codigo: "H2",
			Nivel:  NivelMedio,
			Area:   "Compras",
			Descripcion: fmt.Sprintf("Se detectaron %d nota(s) crédito en compras. "+
				"IVA descontable reducido: $%s COP.", len(ncCompras), impacto.StringFixed(0)),
			Cuenta:  "1355 / 2408",
			Impacto: impacto,
			Norma:   "Art. 485 ET — IVA Descontable; Resolución DIAN 000042/2020",
			Procedimiento: "1. Cruzar NC con FE recibida original. " +
				"2. Ajustar IVA descontable en Form. 300. " +
				"3. Verificar reversión contable en 1355.",
		})
	}

	// H3: net IVA position.
	ivaNeto := sumIVA(ventas).Sub(sumIVA(compras))
	if !ivaNeto.IsZero() {
		nivel := NivelBajoMedio
		desc := fmt.Sprintf("IVA a favor estimado: $%s COP. Verificar solicitud de devolución o compensación.",
			ivaNeto.Abs().StringFixed(0))
		if ivaNeto.IsPositive() {
			nivel = NivelAlto
			desc = fmt.Sprintf("IVA neto a pagar estimado: $%s COP. Verificar que esté declarado.",
				ivaNeto.StringFixed(0))
		}
		findings = append(findings, Hallazgo{
			Codigo:      "H3",
			Nivel:       nivel,
			Area:        "IVA",
			Descripcion: desc,
			Cuenta:      "2408 / 1355",
			Impacto:     ivaNeto.Abs(),
			Norma:       "Art. 477-513 ET — Declaración bimestral IVA Form. 300",
			Procedimiento: "1. Extraer saldo cuenta 2408 del balance. " +
				"2. Restar saldo cuenta 1355. " +
				"3. Comparar con Form. 300 presentados.",
		})
	}

	// H4: purchase invoices without CUFE/CUDE.
	var sinCUFE []models.Invoice
	for _, inv := range compras {
		if inv.CUFE == "" {
			sinCUFE = append(sinCUFE, inv)
		}
	}
	if len(sinCUFE) > 0 {
		findings = append(findings, Hallazgo{
			Codigo: "H4",
			Nivel:  NivelMedioAlto,
			Area:   "Compras",
			Descripcion: fmt.Sprintf("%d factura(s) de compra sin CUFE/CUDE. "+
				"Pueden ser documentos de contingencia o no validados DIAN.", len(sinCUFE)),
			Cuenta:  "Múltiples cuentas de costo",
			Impacto: sumTotal(sinCUFE),
			Norma:   "Resolución DIAN 000042/2020 — Factura electrónica obligatoria",
			Procedimiento: "1. Solicitar FE válida al proveedor. " +
				"2. Si es contingencia, verificar consecutivo habilitado. " +
				"3. Rechazar deducción si no hay FE válida.",
		})
	}

	// H5: suppliers above 30% of total compras.
	totalCompras := sumTotal(compras)
	if totalCompras.IsPositive() {
		for _, supplier := range fiscal.BuildSupplierSummary(compras) {
			share := supplier.Total.Div(totalCompras)
			if share.GreaterThan(supplierConcentrationLimit) {
				pct := share.Mul(cien)
				findings = append(findings, Hallazgo{
					Codigo: "H5",
					Nivel:  NivelBajoMedio,
					Area:   "Compras",
					Descripcion: fmt.Sprintf("Proveedor '%s' representa el %s%% de las compras totales "+
						"($%s COP). Alta concentración de proveedor.",
						supplier.Name, pct.StringFixed(1), supplier.Total.StringFixed(0)),
					Cuenta:  "61xx / 51xx",
					Impacto: supplier.Total,
					Norma:   "Principio de diversificación — Gestión de riesgo proveedor",
					Procedimiento: "1. Evaluar dependencia comercial. " +
						"2. Verificar precios de mercado. " +
						"3. Documentar política de compras.",
				})
			}
		}
	}

	// H6: withholdings practiced on compras.
	totalRete := sumReteRenta(compras)
	if totalRete.IsPositive() {
		findings = append(findings, Hallazgo{
			Codigo: "H6",
			Nivel:  NivelMedio,
			Area:   "Retenciones",
			Descripcion: fmt.Sprintf("Retención en fuente practicada en compras: $%s COP. "+
				"Verificar declaración Form. 350 y pago oportuno.", totalRete.StringFixed(0)),
			Cuenta:  "2365",
			Impacto: totalRete,
			Norma:   "Art. 365-419 ET — Retención en la Fuente; Form. 350 DIAN",
			Procedimiento: "1. Cruzar con Form. 350 presentado. " +
				"2. Verificar tarifa aplicada por concepto. " +
				"3. Confirmar pago oportuno (máx. día 22 mes siguiente).",
		})
	}

	return findings
}

func filterByTipo(invoices []models.Invoice, tipoLabel string) []models.Invoice {
	var out []models.Invoice
	for _, inv := range invoices {
		if inv.TipoLabel == tipoLabel {
			out = append(out, inv)
		}
	}
	return out
}

func sumTotal(invoices []models.Invoice) decimal.Decimal {
	var sum decimal.Decimal
	for _, inv := range invoices {
		sum = sum.Add(inv.Total)
	}
	return sum
}

func sumIVA(invoices []models.Invoice) decimal.Decimal {
	var sum decimal.Decimal
	for _, inv := range invoices {
		sum = sum.Add(inv.IVA)
	}
	return sum
}

func sumReteRenta(invoices []models.Invoice) decimal.Decimal {
	var sum decimal.Decimal
	for _, inv := range invoices {
		sum = sum.Add(inv.ReteRenta)
	}
	return sum
}
