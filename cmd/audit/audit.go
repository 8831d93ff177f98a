// Package audit handles the fiscal audit command
package audit

import (
	"contaflow/dian-csv/cmd/root"
	"contaflow/dian-csv/internal/common"
	"contaflow/dian-csv/internal/fiscal"
	"contaflow/dian-csv/internal/hallazgos"
	"contaflow/dian-csv/internal/logging"
	"contaflow/dian-csv/internal/merge"
	"contaflow/dian-csv/internal/models"

	"github.com/spf13/cobra"
)

// Cmd represents the audit command
var Cmd = &cobra.Command{
	Use:   "audit",
	Short: "Run the rule-based fiscal audit over a company's upload history",
	Long: `Audit merges every uploaded report of a company, computes the fiscal
KPIs and the bimestral IVA conciliation, and runs the rule-based checks
(notas crédito, CUFE faltante, concentración de proveedores, retenciones,
cruces con exógena y nómina). Findings go to the log and, with --output,
to a CSV file.

Example:
  dian-csv audit --company 900123456 -o hallazgos.csv`,
	Run: auditFunc,
}

func init() {
	Cmd.Flags().StringVar(&root.CompanyNIT, "company", "", "Company NIT")
}

func auditFunc(cmd *cobra.Command, args []string) {
	if root.CompanyNIT == "" {
		root.Log.Fatal("--company is required")
		return
	}

	merger := merge.NewMerger(root.DataStore())
	datasets := hallazgos.Datasets{}

	load := func(reportType string) *merge.Dataset {
		dataset, err := merger.MergeAll(root.CompanyNIT, reportType)
		if err != nil {
			root.Log.Fatalf("Error merging %s uploads: %v", reportType, err)
			return &merge.Dataset{}
		}
		return dataset
	}
	datasets.Ventas = load(models.ReportVentas).Invoices
	datasets.Compras = load(models.ReportCompras).Invoices
	datasets.Nomina = load(models.ReportNomina).Nomina
	datasets.Exogena = load(models.ReportExogena).Exogena
	datasets.Retenciones = load(models.ReportRetenciones).Retenciones

	kpis := fiscal.ComputeKPIs(datasets.Ventas, datasets.Compras)
	root.Log.WithFields(
		logging.Field{Key: "total_ventas", Value: kpis.TotalVentas.StringFixed(2)},
		logging.Field{Key: "total_compras", Value: kpis.TotalCompras.StringFixed(2)},
		logging.Field{Key: "iva_neto", Value: kpis.IVANeto.StringFixed(2)},
		logging.Field{Key: "margen_bruto_pct", Value: kpis.MargenBruto.StringFixed(1)},
	).Info("KPIs fiscales")

	for _, row := range fiscal.BuildIVAConciliation(datasets.Ventas, datasets.Compras) {
		root.Log.WithFields(
			logging.Field{Key: "bimestre", Value: row.Bimestre},
			logging.Field{Key: "iva_ventas", Value: row.IVAVentas.StringFixed(2)},
			logging.Field{Key: "iva_compras", Value: row.IVACompras.StringFixed(2)},
			logging.Field{Key: "iva_neto", Value: row.IVANeto.StringFixed(2)},
			logging.Field{Key: "posicion", Value: row.Posicion},
		).Info("Conciliación IVA bimestral")
	}

	findings := hallazgos.DetectAll(datasets)
	for _, h := range findings {
		root.Log.WithFields(
			logging.Field{Key: "codigo", Value: h.Codigo},
			logging.Field{Key: "nivel", Value: h.Nivel},
			logging.Field{Key: "area", Value: h.Area},
			logging.Field{Key: "impacto", Value: h.Impacto.StringFixed(2)},
		).Warn(h.Descripcion)
	}

	if root.SharedFlags.Output != "" {
		if err := common.WriteHallazgosToCSV(findings, root.SharedFlags.Output); err != nil {
			root.Log.Fatalf("Error writing CSV: %v", err)
			return
		}
	}

	root.Log.WithFields(
		logging.Field{Key: logging.FieldCompany, Value: root.CompanyNIT},
		logging.Field{Key: logging.FieldCount, Value: len(findings)},
	).Info("Audit completed")
}
