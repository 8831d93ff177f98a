// Package classifier assigns fiscal categories to bank movements and detects
// the issuing bank from statement text.
//
// Classification is rule based and deterministic: rules are evaluated in
// declaration order and the first keyword hit wins, so more specific
// categories must stay listed before broader ones (a GMF charge line also
// contains "IMPUESTO" but must classify as gmf_4x1000, not impuesto).
package classifier

import "strings"

// Category identifiers. These are stable keys used in reports and exports;
// display text lives in CategoryLabels.
const (
	CategoryGMF           = "gmf_4x1000"
	CategoryInteresPago   = "interes_pago"
	CategoryInteresRecibo = "interes_rcdo"
	CategoryRetencion     = "retencion"
	CategoryParafiscal    = "parafiscal"
	CategoryNomina        = "nomina"
	CategoryImpuesto      = "impuesto"
	CategoryIngreso       = "ingreso"
	CategoryRetiro        = "retiro"
	CategoryTransferencia = "transferencia"
	CategoryComision      = "comision"
	CategoryOtro          = "otro"
)

// GenericBank is returned by DetectBank when no known bank keyword matches.
const GenericBank = "Banco Genérico"

// bankRule pairs a bank display name with the lowercase keywords that
// identify it in statement text.
type bankRule struct {
	Bank     string
	Keywords []string
}

// bankRules is checked in order; the first match wins.
var bankRules = []bankRule{
	{"Bancolombia", []string{"bancolombia", "sucursal virtual personas", "bancolombia s.a",
		"estado de cuenta", "cuenta de ahorros"}},
	{"Davivienda", []string{"davivienda", "casa roja"}},
	{"Banco de Bogotá", []string{"banco de bogota", "banco de bogotá"}},
	{"BBVA", []string{"bbva"}},
	{"Nequi", []string{"nequi"}},
	{"Bold", []string{"bold.co", "datafono bold", "bold s.a"}},
	{"Banco Popular", []string{"banco popular"}},
	{"Colpatria", []string{"colpatria", "scotiabank"}},
	{"Bancoomeva", []string{"bancoomeva"}},
	{"Banco Caja Social", []string{"caja social"}},
	{"Itaú", []string{"itau", "itaú"}},
	{"AV Villas", []string{"av villas"}},
}

// categoryRule pairs a category with the uppercase keywords that select it.
type categoryRule struct {
	Category string
	Keywords []string
}

// categoryRules order encodes priority. Trailing spaces in keywords such as
// "GMF " and "DIAN " keep short tokens from matching inside longer words.
var categoryRules = []categoryRule{
	{CategoryGMF, []string{"4X1000", "GRAVAMEN MOVIMIENTO", "GMF ", "IMPUESTO GMF",
		"GRAVAMEN AL MOVIMIENTO"}},
	{CategoryInteresPago, []string{"INTERESES MORA", "COBRO INT", "CUOTA INT",
		"INTERES CORRIENTE", "INTERESES CORRIENTES",
		"INTERES DE MORA", "CARGOS FINANCIEROS", "COBRO INTERESES"}},
	{CategoryInteresRecibo, []string{"ABONO INTERESES", "INT AHORROS", "RENDIMIENTO FINANCIERO",
		"INTERESES AHORROS", "RENDIMIENTOS", "INTERESES CUENTA",
		"INTERESES CDTE"}},
	{CategoryRetencion, []string{"RETENCION", "RETEFUENTE", "RETE FUENTE",
		"RET. EN LA FUENTE", "RETENCIÓN EN LA FUENTE",
		"AUTORETENC", "AUTORETENCION"}},
	{CategoryParafiscal, []string{"PARAFISCAL", "SALUD EPS", "PENSION AFP", "ARL ",
		"CAJA COMP", "SENA ", "ICBF", "SEGURIDAD SOCIAL",
		"PLANILLA PILA", "APORTES SOCIALES", "PLANILLA SOI"}},
	{CategoryNomina, []string{"NOMINA", "PAGO NOMINA", "DISPERSIÓN NÓMINA",
		"PLANILLA NOMINA", "PAGO DE NOMINA", "DESPRENDIBLE",
		"PAGO COLABORADORES"}},
	{CategoryImpuesto, []string{"IMPUESTO", "DIAN ", "PAGO DIAN", "ICA BOGOTA",
		"ICA MEDELLIN", "ICA CALI", "PREDIAL", "VEHICULOS",
		"TIMBRE", "ICA MUNICIPIO", "INDUSTRIA Y COMERCIO"}},
	{CategoryIngreso, []string{"PAGO QR", "CONSIGNACION", "DEPOSITO", "ABONO CREDITO",
		"PAGO RECIBIDO", "PAGO CLIENTE", "ABONO FACTURAS",
		"TRANSFERENCIA RECIBIDA", "PAGO NEQUI RECIBIDO",
		"DESEMBOLSO"}},
	{CategoryRetiro, []string{"RETIRO ", "CAJERO", "ATM ", "PAGO TC", "CUOTA TC",
		"AVANCE TC", "AVANCE ATM", "COMPRA TARJETA", "COMPRA EN"}},
	{CategoryTransferencia, []string{"TRANSFERENCIA", "PSE", "NEQUI A", "DAVIPLATA",
		"TRANSFIYA", "TRASLADO", "MOVIMIENTO BANCARIO",
		"PAGO NEQUI ENVIADO"}},
	{CategoryComision, []string{"CUOTA MANEJO", "COMISION", "COMISIÓN",
		"CARGO SERVICIO", "SERVICIO BANCARIO",
		"CUOTA ADMINISTRACION", "CUOTA DE MANEJO"}},
}

// CategoryLabels maps category identifiers to Spanish display labels.
var CategoryLabels = map[string]string{
	CategoryGMF:           "GMF / 4×1000",
	CategoryInteresPago:   "Intereses Pagados",
	CategoryInteresRecibo: "Intereses Recibidos",
	CategoryRetencion:     "Retenciones",
	CategoryParafiscal:    "Parafiscales",
	CategoryNomina:        "Nómina",
	CategoryImpuesto:      "Impuestos",
	CategoryIngreso:       "Ingresos / Pagos QR",
	CategoryRetiro:        "Retiros / Pagos Tarjeta",
	CategoryTransferencia: "Transferencias",
	CategoryComision:      "Comisiones Bancarias",
	CategoryOtro:          "Otros Movimientos",
}

// CreditKeywords mark descriptions that identify incoming money. Bank parsers
// use them to infer direction when no previous balance is available.
var CreditKeywords = []string{
	"ABONO", "PAGO QR", "CONSIGNACION", "DEPOSITO",
	"TRANSFERENCIA RECIBIDA", "INTERESES",
}

// DetectBank scans statement text for known bank keywords and returns the
// bank name, or GenericBank when nothing matches.
func DetectBank(text string) string {
	tl := strings.ToLower(text)
	for _, rule := range bankRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(tl, kw) {
				return rule.Bank
			}
		}
	}
	return GenericBank
}

// Classify returns the fiscal category for a movement description. Empty
// descriptions and descriptions matching no rule classify as CategoryOtro.
func Classify(description string) string {
	if description == "" {
		return CategoryOtro
	}
	du := strings.ToUpper(description)
	for _, rule := range categoryRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(du, kw) {
				return rule.Category
			}
		}
	}
	return CategoryOtro
}

// Label returns the display label for a category identifier. Unknown
// categories fall back to the "otro" label.
func Label(category string) string {
	if label, ok := CategoryLabels[category]; ok {
		return label
	}
	return CategoryLabels[CategoryOtro]
}

// IsCreditDescription reports whether a description carries one of the
// keywords that identify incoming money.
func IsCreditDescription(description string) bool {
	du := strings.ToUpper(description)
	for _, kw := range CreditKeywords {
		if strings.Contains(du, kw) {
			return true
		}
	}
	return false
}
