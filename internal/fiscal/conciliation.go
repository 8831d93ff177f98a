package fiscal

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"contaflow/dian-csv/internal/models"
)

// IVA filing positions per bimester.
const (
	PosicionAPagar = "A PAGAR"
	PosicionAFavor = "A FAVOR"
)

// BimesterConciliation is one row of the bimestral IVA conciliation table.
type BimesterConciliation struct {
	Bimestre     string
	TotalVentas  decimal.Decimal
	IVAVentas    decimal.Decimal
	DocsVentas   int
	TotalCompras decimal.Decimal
	IVACompras   decimal.Decimal
	DocsCompras  int
	IVANeto      decimal.Decimal
	Posicion     string
}

// BuildIVAConciliation cross-tabulates ventas and compras per bimester and
// derives the net IVA position for each filing period.
func BuildIVAConciliation(ventas, compras []models.Invoice) []BimesterConciliation {
	rows := make(map[string]*BimesterConciliation)

	get := func(bim string) *BimesterConciliation {
		if bim == "" {
			return nil
		}
		row, ok := rows[bim]
		if !ok {
			row = &BimesterConciliation{Bimestre: bim}
			rows[bim] = row
		}
		return row
	}

	for _, inv := range ventas {
		if row := get(inv.Bimestre); row != nil {
			row.TotalVentas = row.TotalVentas.Add(inv.Total)
			row.IVAVentas = row.IVAVentas.Add(inv.IVA)
			row.DocsVentas++
		}
	}
	for _, inv := range compras {
		if row := get(inv.Bimestre); row != nil {
			row.TotalCompras = row.TotalCompras.Add(inv.Total)
			row.IVACompras = row.IVACompras.Add(inv.IVA)
			row.DocsCompras++
		}
	}

	result := make([]BimesterConciliation, 0, len(rows))
	for _, row := range rows {
		row.IVANeto = row.IVAVentas.Sub(row.IVACompras)
		if row.IVANeto.IsPositive() {
			row.Posicion = PosicionAPagar
		} else {
			row.Posicion = PosicionAFavor
		}
		result = append(result, *row)
	}
	sort.Slice(result, func(i, j int) bool {
		return bimesterSortKey(result[i].Bimestre) < bimesterSortKey(result[j].Bimestre)
	})
	return result
}

// bimesterSortKey orders "Bim N (..) YYYY" labels chronologically by putting
// the year ahead of the bimester number.
func bimesterSortKey(label string) string {
	fields := strings.Fields(label)
	if len(fields) < 2 {
		return label
	}
	year := fields[len(fields)-1]
	return year + " " + label
}

// granContribThreshold flags entities invoicing above 500M COP.
var granContribThreshold = decimal.NewFromInt(500_000_000)

// EntitySummary aggregates all invoices of one client or supplier.
type EntitySummary struct {
	Name      string
	NIT       string
	Facturas  int
	Periodos  int
	Total     decimal.Decimal
	Base      decimal.Decimal
	IVA       decimal.Decimal
	ReteRenta decimal.Decimal
	ReteICA   decimal.Decimal

	RespIVA     bool
	RetRenta    bool
	RetICA      bool
	GranContrib bool

	// Obligaciones is the display badge line summarizing the flags.
	Obligaciones string
}

// BuildClientSummary summarizes ventas per client, ordered by total
// descending.
func BuildClientSummary(ventas []models.Invoice) []EntitySummary {
	return buildEntitySummary(ventas, func(inv models.Invoice) (string, string) {
		return inv.NombreReceptor, inv.NITReceptor
	})
}

// BuildSupplierSummary summarizes compras per supplier, ordered by total
// descending.
func BuildSupplierSummary(compras []models.Invoice) []EntitySummary {
	return buildEntitySummary(compras, func(inv models.Invoice) (string, string) {
		return inv.NombreEmisor, inv.NITEmisor
	})
}

func buildEntitySummary(invoices []models.Invoice, keyOf func(models.Invoice) (string, string)) []EntitySummary {
	type acc struct {
		summary EntitySummary
		months  map[string]struct{}
	}
	byName := make(map[string]*acc)

	for _, inv := range invoices {
		name, nit := keyOf(inv)
		if name == "" {
			continue
		}
		a, ok := byName[name]
		if !ok {
			a = &acc{summary: EntitySummary{Name: name, NIT: nit}, months: make(map[string]struct{})}
			byName[name] = a
		}
		a.summary.Facturas++
		a.summary.Total = a.summary.Total.Add(inv.Total)
		a.summary.Base = a.summary.Base.Add(inv.Base)
		a.summary.IVA = a.summary.IVA.Add(inv.IVA)
		a.summary.ReteRenta = a.summary.ReteRenta.Add(inv.ReteRenta)
		a.summary.ReteICA = a.summary.ReteICA.Add(inv.ReteICA)
		if inv.Mes != "" {
			a.months[inv.Mes] = struct{}{}
		}
	}

	result := make([]EntitySummary, 0, len(byName))
	for _, a := range byName {
		s := a.summary
		s.Periodos = len(a.months)
		s.RespIVA = s.IVA.IsPositive()
		s.RetRenta = s.ReteRenta.IsPositive()
		s.RetICA = s.ReteICA.IsPositive()
		s.GranContrib = s.Total.GreaterThan(granContribThreshold)
		s.Obligaciones = obligationBadges(s)
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Total.Equal(result[j].Total) {
			return result[i].Total.GreaterThan(result[j].Total)
		}
		return result[i].Name < result[j].Name
	})
	return result
}

func obligationBadges(s EntitySummary) string {
	var badges []string
	if s.RespIVA {
		badges = append(badges, "IVA ✓")
	}
	if s.RetRenta {
		badges = append(badges, "Renta ✓")
	}
	if s.RetICA {
		badges = append(badges, "ICA ✓")
	}
	if s.GranContrib {
		badges = append(badges, "⭐ Gran Cont.")
	}
	if len(badges) == 0 {
		return "—"
	}
	return strings.Join(badges, " | ")
}
