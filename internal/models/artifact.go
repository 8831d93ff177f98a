package models

import "time"

// Report types accepted by the store and the merge layer.
const (
	ReportVentas       = "ventas"
	ReportCompras      = "compras"
	ReportNomina       = "nomina"
	ReportExogena      = "exogena"
	ReportRetenciones  = "retenciones"
	ReportExtractoPDF  = "extracto_pdf"
	ReportExtractoXLSX = "extracto_xlsx"
)

// ValidReportTypes lists every accepted report type.
var ValidReportTypes = []string{
	ReportVentas,
	ReportCompras,
	ReportNomina,
	ReportExogena,
	ReportRetenciones,
	ReportExtractoPDF,
	ReportExtractoXLSX,
}

// IsValidReportType reports whether t names a known report type.
func IsValidReportType(t string) bool {
	for _, v := range ValidReportTypes {
		if v == t {
			return true
		}
	}
	return false
}

// UploadArtifact records one uploaded source file. Artifacts are immutable:
// the store only ever appends new ones.
type UploadArtifact struct {
	ID         string    `yaml:"id"`
	CompanyNIT string    `yaml:"company_nit"`
	ReportType string    `yaml:"report_type"`
	Filename   string    `yaml:"filename"`
	StoredPath string    `yaml:"stored_path"`
	Size       int64     `yaml:"size"`
	Period     string    `yaml:"period,omitempty"`
	RowCount   int       `yaml:"row_count"`
	UploadedAt time.Time `yaml:"uploaded_at"`
}
