package fiscal

import (
	"sort"

	"github.com/shopspring/decimal"

	"contaflow/dian-csv/internal/models"
)

// cargaPatronalRate estimates employer contributions (salud, pensión, ARL,
// parafiscales) as a share of gross payroll.
var cargaPatronalRate = decimal.NewFromFloat(0.385)

// EntityTotal is one client or supplier with its invoiced total.
type EntityTotal struct {
	Name  string
	Total decimal.Decimal
}

// KPIs holds the executive indicators computed from ventas and compras.
type KPIs struct {
	TotalVentas    decimal.Decimal
	TotalCompras   decimal.Decimal
	IVAGenerado    decimal.Decimal
	IVADescontable decimal.Decimal
	IVANeto        decimal.Decimal
	BaseVentas     decimal.Decimal
	BaseCompras    decimal.Decimal

	// MargenBruto is a percentage of BaseVentas.
	MargenBruto decimal.Decimal

	NumFacturasVentas   int
	NumFacturasCompras  int
	NotasCreditoVentas  int
	NotasCreditoCompras int

	TopClientes    []EntityTotal
	TopProveedores []EntityTotal
}

// topEntityLimit caps the top client/supplier lists.
const topEntityLimit = 10

// ComputeKPIs aggregates ventas and compras invoices into dashboard KPIs.
func ComputeKPIs(ventas, compras []models.Invoice) *KPIs {
	k := &KPIs{}

	for _, inv := range ventas {
		k.TotalVentas = k.TotalVentas.Add(inv.Total)
		k.IVAGenerado = k.IVAGenerado.Add(inv.IVA)
		k.BaseVentas = k.BaseVentas.Add(inv.Base)
		switch inv.TipoLabel {
		case models.TipoFacturaElectronica:
			k.NumFacturasVentas++
		case models.TipoNotaCredito:
			k.NotasCreditoVentas++
		}
	}
	for _, inv := range compras {
		k.TotalCompras = k.TotalCompras.Add(inv.Total)
		k.IVADescontable = k.IVADescontable.Add(inv.IVA)
		k.BaseCompras = k.BaseCompras.Add(inv.Base)
		switch inv.TipoLabel {
		case models.TipoFacturaElectronica:
			k.NumFacturasCompras++
		case models.TipoNotaCredito:
			k.NotasCreditoCompras++
		}
	}

	k.IVANeto = k.IVAGenerado.Sub(k.IVADescontable)
	if k.BaseVentas.IsPositive() {
		k.MargenBruto = k.BaseVentas.Sub(k.BaseCompras).
			Div(k.BaseVentas).
			Mul(decimal.NewFromInt(100))
	}

	k.TopClientes = topEntities(ventas, func(inv models.Invoice) string { return inv.NombreReceptor })
	k.TopProveedores = topEntities(compras, func(inv models.Invoice) string { return inv.NombreEmisor })

	return k
}

// topEntities groups invoices by entity name and returns the highest totals
// in descending order.
func topEntities(invoices []models.Invoice, nameOf func(models.Invoice) string) []EntityTotal {
	totals := make(map[string]decimal.Decimal)
	for _, inv := range invoices {
		name := nameOf(inv)
		if name == "" {
			continue
		}
		totals[name] = totals[name].Add(inv.Total)
	}

	entities := make([]EntityTotal, 0, len(totals))
	for name, total := range totals {
		entities = append(entities, EntityTotal{Name: name, Total: total})
	}
	sort.Slice(entities, func(i, j int) bool {
		if !entities[i].Total.Equal(entities[j].Total) {
			return entities[i].Total.GreaterThan(entities[j].Total)
		}
		return entities[i].Name < entities[j].Name
	})
	if len(entities) > topEntityLimit {
		entities = entities[:topEntityLimit]
	}
	return entities
}

// NominaKPIs holds the payroll indicators.
type NominaKPIs struct {
	TotalDevengado    decimal.Decimal
	TotalDeducido     decimal.Decimal
	TotalReteFuente   decimal.Decimal
	TotalPagar        decimal.Decimal
	NumEmpleados      int
	CargaPatronalEst  decimal.Decimal
	CostoLaboralTotal decimal.Decimal
}

// ComputeNominaKPIs aggregates payroll records. The employee count is the
// number of distinct NITs, falling back to the row count when NITs are
// missing.
func ComputeNominaKPIs(nomina []models.NominaRecord) *NominaKPIs {
	k := &NominaKPIs{}
	if len(nomina) == 0 {
		return k
	}

	nits := make(map[string]struct{})
	for _, rec := range nomina {
		k.TotalDevengado = k.TotalDevengado.Add(rec.Devengado)
		k.TotalDeducido = k.TotalDeducido.Add(rec.Deducido)
		k.TotalReteFuente = k.TotalReteFuente.Add(rec.ReteFuente)
		k.TotalPagar = k.TotalPagar.Add(rec.TotalPagar)
		if rec.NITEmpleado != "" {
			nits[rec.NITEmpleado] = struct{}{}
		}
	}
	k.NumEmpleados = len(nits)
	if k.NumEmpleados == 0 {
		k.NumEmpleados = len(nomina)
	}

	k.CargaPatronalEst = k.TotalDevengado.Mul(cargaPatronalRate)
	k.CostoLaboralTotal = k.TotalDevengado.Add(k.CargaPatronalEst)
	return k
}
