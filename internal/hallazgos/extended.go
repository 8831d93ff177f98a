package hallazgos

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"contaflow/dian-csv/internal/fiscal"
	"contaflow/dian-csv/internal/models"
)

// Datasets bundles every loaded source for the cross-reference rules.
// Nil or empty slices simply skip the rules that need them.
type Datasets struct {
	Ventas      []models.Invoice
	Compras     []models.Invoice
	Nomina      []models.NominaRecord
	Exogena     []models.ExogenaRecord
	Retenciones []models.RetencionRecord
}

// DetectAll runs the full rule set H1-H14 over the loaded datasets.
func DetectAll(d Datasets) []Hallazgo {
	findings := Detect(d.Ventas, d.Compras)
	findings = append(findings, DetectExtended(d)...)
	return findings
}

// DetectExtended runs the cross-reference rules H7-H14.
func DetectExtended(d Datasets) []Hallazgo {
	var findings []Hallazgo

	// H7: payroll rows above the withholding threshold with zero retención.
	if len(d.Nomina) > 0 {
		var sinRete []models.NominaRecord
		for _, rec := range d.Nomina {
			if rec.Devengado.GreaterThan(umbralRetencionRenta) && rec.ReteFuente.IsZero() {
				sinRete = append(sinRete, rec)
			}
		}
		if len(sinRete) > 0 {
			var base decimal.Decimal
			for _, rec := range sinRete {
				base = base.Add(rec.Devengado)
			}
			impacto := base.Mul(estimatedSalaryWithholdingRate)
			findings = append(findings, Hallazgo{
				Codigo: "H7",
				Nivel:  NivelAlto,
				Area:   "Nómina",
				Descripcion: fmt.Sprintf("%d empleado(s) con devengado > $4.1M sin retención en fuente registrada. "+
					"Base total afectada: $%s COP.", len(sinRete), base.StringFixed(0)),
				Cuenta:  "2370 / 5105",
				Impacto: impacto,
				Norma:   "Art. 383-387 ET — Tabla de retención en la fuente para asalariados",
				Procedimiento: "1. Verificar tabla de retención Art. 383 ET. " +
					"2. Calcular retención mensual por empleado. " +
					"3. Presentar corrección Form. 350 si aplica. " +
					"4. Pagar intereses de mora Art. 634 ET.",
			})
		}

		// H8: estimated employer burden.
		kpis := fiscal.ComputeNominaKPIs(d.Nomina)
		if kpis.TotalDevengado.IsPositive() {
			findings = append(findings, Hallazgo{
				Codigo: "H8",
				Nivel:  NivelMedio,
				Area:   "Nómina",
				Descripcion: fmt.Sprintf("Carga patronal estimada (38.5%% s/devengado): $%s COP. "+
					"Devengado total: $%s COP. Verificar gasto contable cuentas 51xx/52xx.",
					kpis.CargaPatronalEst.StringFixed(0), kpis.TotalDevengado.StringFixed(0)),
				Cuenta:  "2370 / 2380 / 5110",
				Impacto: kpis.CargaPatronalEst,
				Norma:   "CST Art. 204 — Salud: 8.5%; Art. 33 Ley 100/93 — Pensión: 12%; SENA 2%, ICBF 3%",
				Procedimiento: "1. Cruzar planilla PILA con nómina electrónica. " +
					"2. Verificar pagos UGPP. " +
					"3. Conciliar con cuentas 2370, 2380, 2390.",
			})
		}
	}

	// H9: exógena third parties without a matching electronic invoice.
	if len(d.Exogena) > 0 && len(d.Ventas) > 0 {
		nitsFE := make(map[string]struct{})
		for _, inv := range d.Ventas {
			if inv.NITReceptor != "" {
				nitsFE[inv.NITReceptor] = struct{}{}
			}
		}
		var impacto decimal.Decimal
		count := 0
		for _, rec := range d.Exogena {
			if _, ok := nitsFE[rec.NITTercero]; !ok {
				impacto = impacto.Add(rec.ValorBruto)
				count++
			}
		}
		if count > 0 {
			findings = append(findings, Hallazgo{
				Codigo: "H9",
				Nivel:  NivelMedioAlto,
				Area:   "Exógena",
				Descripcion: fmt.Sprintf("%d tercero(s) en información exógena sin factura electrónica correspondiente. "+
					"Valor total: $%s COP. Posible ingreso no facturado.", count, impacto.StringFixed(0)),
				Cuenta:  "4135 / 2408",
				Impacto: impacto,
				Norma:   "Art. 616-1 ET — Obligación de facturar; Res. DIAN 000042/2020",
				Procedimiento: "1. Listar terceros en exógena sin FE. " +
					"2. Verificar si operación está exenta de facturación. " +
					"3. Emitir FE retroactiva si aplica o documentar excepción.",
			})
		}
	}

	// H10: exógena vs compras FE totals differ by more than 5%.
	if len(d.Exogena) > 0 && len(d.Compras) > 0 {
		var totalExogena decimal.Decimal
		for _, rec := range d.Exogena {
			totalExogena = totalExogena.Add(rec.ValorBruto)
		}
		totalCompras := sumTotal(d.Compras)
		if totalCompras.IsPositive() {
			diff := totalExogena.Sub(totalCompras).Abs()
			diffPct := diff.Div(totalCompras).Mul(cien)
			if diffPct.GreaterThan(exogenaDeltaLimitPct) {
				findings = append(findings, Hallazgo{
					Codigo: "H10",
					Nivel:  NivelMedioAlto,
					Area:   "Exógena",
					Descripcion: fmt.Sprintf("Diferencia del %s%% entre exógena proveedores "+
						"($%s) y compras FE ($%s). Diferencia supera umbral 5%%.",
						diffPct.StringFixed(1), totalExogena.StringFixed(0), totalCompras.StringFixed(0)),
					Cuenta:  "61xx / 1355",
					Impacto: diff,
					Norma:   "Art. 771-2 ET — Procedencia de costos y deducciones",
					Procedimiento: "1. Cruzar NIT a NIT exógena vs FE recibidas. " +
						"2. Identificar diferencias por proveedor. " +
						"3. Solicitar corrección de exógena o FE según corresponda.",
				})
			}
		}
	}

	// H11: withholdings suffered, certificates pending.
	if len(d.Retenciones) > 0 {
		var total decimal.Decimal
		for _, rec := range d.Retenciones {
			total = total.Add(rec.ValorRetenido)
		}
		if total.IsPositive() {
			findings = append(findings, Hallazgo{
				Codigo: "H11",
				Nivel:  NivelMedio,
				Area:   "Retenciones",
				Descripcion: fmt.Sprintf("Retenciones sufridas cargadas: $%s COP. "+
					"Verificar que todos los certificados estén recibidos y cruzados en cuenta 1355-05.",
					total.StringFixed(0)),
				Cuenta:  "1355-05 / 2365",
				Impacto: total,
				Norma:   "Art. 374-378 ET — Certificados de retención",
				Procedimiento: "1. Solicitar certificados a todos los agentes retenedores. " +
					"2. Cruzar con saldo 1355-05. " +
					"3. Imputar en declaración renta Form. 110.",
			})
		}
	}

	// H12: bimester-over-bimester IVA swing above 30%, reported once.
	if f := detectIVAVariation(d.Ventas); f != nil {
		findings = append(findings, *f)
	}

	// H13: withholdings practiced in compras with no Form. 350 data loaded.
	reteCompras := sumReteRenta(d.Compras)
	if reteCompras.IsPositive() && len(d.Retenciones) == 0 {
		findings = append(findings, Hallazgo{
			Codigo: "H13",
			Nivel:  NivelMedio,
			Area:   "Retenciones",
			Descripcion: fmt.Sprintf("Se detectaron retenciones practicadas en compras ($%s COP) "+
				"pero no se cargó archivo de Form. 350. Verificar declaración.", reteCompras.StringFixed(0)),
			Cuenta:  "2365",
			Impacto: reteCompras,
			Norma:   "Art. 365 ET — Agente de retención; Form. 350 DIAN",
			Procedimiento: "1. Cargar archivo Form. 350 en módulo Retenciones. " +
				"2. Verificar que monto declarado = monto practicado. " +
				"3. Pagar diferencias + intereses si hay mora.",
		})
	}

	// H14: more than 10% of payroll rows without visible salud/pensión.
	if len(d.Nomina) > 0 {
		var sinAportes []models.NominaRecord
		for _, rec := range d.Nomina {
			if rec.SaludEmpleado.IsZero() && rec.PensionEmpleado.IsZero() {
				sinAportes = append(sinAportes, rec)
			}
		}
		if decimal.NewFromInt(int64(len(sinAportes))).
			GreaterThan(decimal.NewFromInt(int64(len(d.Nomina))).Mul(decimal.NewFromFloat(0.1))) {
			var impacto decimal.Decimal
			for _, rec := range sinAportes {
				impacto = impacto.Add(rec.Devengado)
			}
			impacto = impacto.Mul(healthContributionRate)
			findings = append(findings, Hallazgo{
				Codigo: "H14",
				Nivel:  NivelAlto,
				Area:   "Nómina",
				Descripcion: fmt.Sprintf("%d empleado(s) sin aportes salud/pensión visibles en nómina. "+
					"Posible incumplimiento UGPP.", len(sinAportes)),
				Cuenta:  "2370 / 2380",
				Impacto: impacto,
				Norma:   "Ley 100/1993 Art. 204 — Cotizaciones obligatorias; Decreto 780/2016 UGPP",
				Procedimiento: "1. Cruzar planilla PILA con nómina electrónica. " +
					"2. Verificar si empleado es independiente (exento). " +
					"3. Reportar a UGPP si hay incumplimiento.",
			})
		}
	}

	return findings
}

// detectIVAVariation compares consecutive bimesters of generated IVA and
// reports the first swing over the limit.
func detectIVAVariation(ventas []models.Invoice) *Hallazgo {
	sums := make(map[string]decimal.Decimal)
	for _, inv := range ventas {
		if inv.Bimestre != "" {
			sums[inv.Bimestre] = sums[inv.Bimestre].Add(inv.IVA)
		}
	}
	if len(sums) < 2 {
		return nil
	}

	bims := make([]string, 0, len(sums))
	for b := range sums {
		bims = append(bims, b)
	}
	sort.Strings(bims)

	for i := 1; i < len(bims); i++ {
		prev := sums[bims[i-1]]
		if !prev.IsPositive() {
			continue
		}
		diff := sums[bims[i]].Sub(prev).Abs()
		variation := diff.Div(prev).Mul(cien)
		if variation.GreaterThan(ivaVariationLimitPct) {
			return &Hallazgo{
				Codigo: "H12",
				Nivel:  NivelMedio,
				Area:   "IVA",
				Descripcion: fmt.Sprintf("Variación de IVA generado entre bimestres: %s%%. "+
					"Variación > 30%% puede generar alerta automática DIAN (AOR).", variation.StringFixed(0)),
				Cuenta:  "2408",
				Impacto: diff,
				Norma:   "Programa AOR DIAN — Análisis de Riesgo Omisión; Art. 648 ET",
				Procedimiento: "1. Documentar causa de variación (estacionalidad, cambio negocio). " +
					"2. Preparar respuesta ante posible requerimiento DIAN. " +
					"3. Conservar soportes de transacciones del bimestre con mayor IVA.",
			}
		}
	}
	return nil
}
