package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NominaRecord is one employee row of a nómina electrónica export.
type NominaRecord struct {
	NITEmpleado     string
	NombreEmpleado  string
	Periodo         time.Time
	Mes             string
	Devengado       decimal.Decimal
	Deducido        decimal.Decimal
	ReteFuente      decimal.Decimal
	SaludEmpleado   decimal.Decimal
	PensionEmpleado decimal.Decimal
	TotalPagar      decimal.Decimal

	// Extra holds source columns not covered by the named fields.
	Extra map[string]string
}

// ExogenaRecord is one third-party row of an información exógena report
// (formatos 1001, 1007, 1008 and similar).
type ExogenaRecord struct {
	NITTercero    string
	NombreTercero string
	Concepto      string
	Periodo       string
	ValorBruto    decimal.Decimal
	Retencion     decimal.Decimal
	ValorNeto     decimal.Decimal

	Extra map[string]string
}

// RetencionRecord is one row of a retenciones practicadas certificate.
type RetencionRecord struct {
	AgenteRetenedor string
	NITRetenedor    string
	Concepto        string
	Periodo         string
	Base            decimal.Decimal
	Tarifa          decimal.Decimal
	ValorRetenido   decimal.Decimal

	Extra map[string]string
}
