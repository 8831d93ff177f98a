package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Document type display labels derived from the "Tipo de documento" column.
const (
	TipoFacturaElectronica = "Factura Electrónica"
	TipoNotaCredito        = "Nota Crédito"
	TipoNotaDebito         = "Nota Débito"
	TipoContingencia       = "Contingencia"
	TipoDesconocido        = "Desconocido"
)

// Invoice is one row of a DIAN ventas or compras export, normalized.
type Invoice struct {
	Tipo           string
	TipoLabel      string
	CUFE           string
	Folio          string
	Prefijo        string
	Divisa         string
	FormaPago      string
	MedioPago      string
	FechaEmision   time.Time
	FechaRecepcion time.Time
	NITEmisor      string
	NombreEmisor   string
	NITReceptor    string
	NombreReceptor string

	IVA       decimal.Decimal
	ICA       decimal.Decimal
	IC        decimal.Decimal
	INC       decimal.Decimal
	ICL       decimal.Decimal
	INPP      decimal.Decimal
	IBUA      decimal.Decimal
	ICUI      decimal.Decimal
	ReteIVA   decimal.Decimal
	ReteRenta decimal.Decimal
	ReteICA   decimal.Decimal
	Total     decimal.Decimal

	// Base is Total minus IVA, computed at load time.
	Base decimal.Decimal

	Estado string
	Grupo  string

	// Period grouping keys derived from FechaEmision.
	Mes      string
	Bimestre string
	Semana   string

	// Extra holds source columns not covered by the named fields.
	Extra map[string]string
}

// ShortTipoLabel maps the raw "Tipo de documento" value to its short display
// label. Unknown non-empty values pass through unchanged.
func ShortTipoLabel(tipo string) string {
	if tipo == "" {
		return TipoDesconocido
	}
	v := strings.ToLower(tipo)
	switch {
	case strings.Contains(v, "nota crédito") || strings.Contains(v, "nota credito"):
		return TipoNotaCredito
	case strings.Contains(v, "nota débito") || strings.Contains(v, "nota debito"):
		return TipoNotaDebito
	case strings.Contains(v, "electrónica") || strings.Contains(v, "electronica"):
		return TipoFacturaElectronica
	case strings.Contains(v, "contingencia"):
		return TipoContingencia
	}
	return tipo
}
