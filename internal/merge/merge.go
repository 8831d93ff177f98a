// Package merge concatenates every uploaded file of a company and report
// type into one deduplicated dataset.
//
// Files are loaded oldest upload first so re-uploads of the same period do
// not shadow older data: duplicates are dropped keep-first on the natural
// key of each report type (CUFE/CUDE for ventas and compras, employee NIT
// plus período for nómina). Files that disappeared or fail to parse are
// skipped, one bad month never blocks the rest of the history.
package merge

import (
	"sync"
	"time"

	"contaflow/dian-csv/internal/dianparser"
	"contaflow/dian-csv/internal/fileutils"
	"contaflow/dian-csv/internal/logging"
	"contaflow/dian-csv/internal/models"
	"contaflow/dian-csv/internal/store"
)

var log = logging.GetLogger()

// SetLogger sets a custom logger for this package
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// Dataset holds the merged rows of one company and report type. Only the
// slice matching ReportType is populated.
type Dataset struct {
	ReportType  string
	Invoices    []models.Invoice
	Nomina      []models.NominaRecord
	Exogena     []models.ExogenaRecord
	Retenciones []models.RetencionRecord
}

// Empty reports whether the dataset has no rows.
func (d *Dataset) Empty() bool {
	return len(d.Invoices) == 0 && len(d.Nomina) == 0 &&
		len(d.Exogena) == 0 && len(d.Retenciones) == 0
}

// Merger loads and merges uploaded files, caching results per company and
// report type until invalidated by a new upload.
type Merger struct {
	store *store.Store

	mu    sync.RWMutex
	cache map[string]*Dataset
}

// NewMerger creates a merger over the given store.
func NewMerger(s *store.Store) *Merger {
	return &Merger{store: s, cache: make(map[string]*Dataset)}
}

// MergeAll returns the merged dataset for a company and report type,
// serving from cache when possible.
func (m *Merger) MergeAll(nit, reportType string) (*Dataset, error) {
	key := nit + "/" + reportType

	m.mu.RLock()
	cached, ok := m.cache[key]
	m.mu.RUnlock()
	if ok {
		return cached, nil
	}

	dataset, err := m.build(nit, reportType)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.cache[key] = dataset
	m.mu.Unlock()
	return dataset, nil
}

// Invalidate drops the cached dataset for a company and report type. Call
// after recording a new upload.
func (m *Merger) Invalidate(nit, reportType string) {
	m.mu.Lock()
	delete(m.cache, nit+"/"+reportType)
	m.mu.Unlock()
}

func (m *Merger) build(nit, reportType string) (*Dataset, error) {
	uploads, err := m.store.ListUploads(nit, reportType)
	if err != nil {
		return nil, err
	}

	dataset := &Dataset{ReportType: reportType}

	// ListUploads is newest first; walk backwards for chronological concat.
	for i := len(uploads) - 1; i >= 0; i-- {
		artifact := uploads[i]
		if !fileutils.FileExists(artifact.StoredPath) {
			log.WithField(logging.FieldFile, artifact.StoredPath).
				Warn("Uploaded file no longer on disk, skipping")
			continue
		}
		if loadErr := appendFile(dataset, reportType, artifact.StoredPath); loadErr != nil {
			log.WithFields(
				logging.Field{Key: logging.FieldFile, Value: artifact.StoredPath},
				logging.Field{Key: logging.FieldError, Value: loadErr},
			).Warn("Skipping unparseable upload")
		}
	}

	dedupe(dataset)

	log.WithFields(
		logging.Field{Key: logging.FieldCompany, Value: nit},
		logging.Field{Key: logging.FieldReportType, Value: reportType},
		logging.Field{Key: logging.FieldCount, Value: len(uploads)},
	).Info("Merged upload history")
	return dataset, nil
}

func appendFile(dataset *Dataset, reportType, path string) error {
	switch reportType {
	case models.ReportNomina:
		records, err := dianparser.LoadNomina(path)
		if err != nil {
			return err
		}
		dataset.Nomina = append(dataset.Nomina, records...)
	case models.ReportExogena:
		records, err := dianparser.LoadExogena(path)
		if err != nil {
			return err
		}
		dataset.Exogena = append(dataset.Exogena, records...)
	case models.ReportRetenciones:
		records, err := dianparser.LoadRetenciones(path)
		if err != nil {
			return err
		}
		dataset.Retenciones = append(dataset.Retenciones, records...)
	default:
		invoices, err := dianparser.LoadInvoices(path)
		if err != nil {
			return err
		}
		dataset.Invoices = append(dataset.Invoices, invoices...)
	}
	return nil
}

// dedupe drops repeated rows keep-first. Invoices repeat when the same month
// is uploaded twice; the CUFE/CUDE is unique per document. Nómina rows
// repeat per employee and período.
func dedupe(dataset *Dataset) {
	switch dataset.ReportType {
	case models.ReportVentas, models.ReportCompras:
		seen := make(map[string]struct{}, len(dataset.Invoices))
		out := dataset.Invoices[:0]
		for _, inv := range dataset.Invoices {
			if inv.CUFE != "" {
				if _, dup := seen[inv.CUFE]; dup {
					continue
				}
				seen[inv.CUFE] = struct{}{}
			}
			out = append(out, inv)
		}
		dataset.Invoices = out
	case models.ReportNomina:
		type nominaKey struct {
			nit     string
			periodo time.Time
		}
		seen := make(map[nominaKey]struct{}, len(dataset.Nomina))
		out := dataset.Nomina[:0]
		for _, rec := range dataset.Nomina {
			key := nominaKey{nit: rec.NITEmpleado, periodo: rec.Periodo}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, rec)
		}
		dataset.Nomina = out
	}
}
