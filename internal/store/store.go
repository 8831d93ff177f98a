// Package store persists uploaded report files and their metadata.
//
// Uploaded files land under <dataDir>/uploads/<nit>/<reportType>/ with a
// timestamp prefix so repeated uploads of the same filename never collide.
// Metadata lives in one YAML log per company. Both are append-only: the
// store never mutates or deletes an artifact, re-uploads simply add newer
// entries and the merge layer deduplicates downstream.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"contaflow/dian-csv/internal/fileutils"
	"contaflow/dian-csv/internal/logging"
	"contaflow/dian-csv/internal/models"
)

var log = logging.GetLogger()

// SetLogger sets a custom logger for this package
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// Store manages uploaded report files under a data directory.
type Store struct {
	dataDir string
}

// NewStore creates a store rooted at dataDir.
func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// UploadDir returns (and creates) the directory for one company and report
// type.
func (s *Store) UploadDir(nit, reportType string) (string, error) {
	dir := filepath.Join(s.dataDir, "uploads", nit, reportType)
	if err := fileutils.EnsureDirectoryExists(dir); err != nil {
		return "", fmt.Errorf("error creating upload directory: %w", err)
	}
	return dir, nil
}

// SaveUploadedFile writes the uploaded bytes to disk under a timestamped
// name and records the artifact in the company log, with the declared
// period label and the row count the caller parsed out of the file. The
// file is written before the metadata so a failed log append never leaves
// a dangling entry.
func (s *Store) SaveUploadedFile(nit, reportType, filename, period string, data []byte, rowCount int) (models.UploadArtifact, error) {
	if !models.IsValidReportType(reportType) {
		return models.UploadArtifact{}, fmt.Errorf("unknown report type: %s", reportType)
	}

	dir, err := s.UploadDir(nit, reportType)
	if err != nil {
		return models.UploadArtifact{}, err
	}

	storedPath := filepath.Join(dir, fileutils.TimestampedName(filename, time.Now()))
	if err := fileutils.WriteFile(storedPath, data, 0o644); err != nil {
		return models.UploadArtifact{}, fmt.Errorf("error writing uploaded file: %w", err)
	}

	artifact := models.UploadArtifact{
		ID:         uuid.New().String(),
		CompanyNIT: nit,
		ReportType: reportType,
		Filename:   filepath.Base(filename),
		StoredPath: storedPath,
		Size:       int64(len(data)),
		Period:     period,
		RowCount:   rowCount,
		UploadedAt: time.Now(),
	}
	if err := s.RecordUpload(artifact); err != nil {
		return models.UploadArtifact{}, err
	}

	log.WithFields(
		logging.Field{Key: logging.FieldCompany, Value: nit},
		logging.Field{Key: logging.FieldReportType, Value: reportType},
		logging.Field{Key: logging.FieldOutputFile, Value: storedPath},
		logging.Field{Key: logging.FieldCount, Value: rowCount},
	).Info("Stored uploaded file")
	return artifact, nil
}

// RecordUpload appends one artifact to the company log. An artifact without
// an ID or timestamp gets them assigned.
func (s *Store) RecordUpload(artifact models.UploadArtifact) error {
	if artifact.ID == "" {
		artifact.ID = uuid.New().String()
	}
	if artifact.UploadedAt.IsZero() {
		artifact.UploadedAt = time.Now()
	}

	artifacts, err := s.readLog(artifact.CompanyNIT)
	if err != nil {
		return err
	}
	artifacts = append(artifacts, artifact)

	data, err := yaml.Marshal(artifacts)
	if err != nil {
		return fmt.Errorf("error marshaling upload log: %w", err)
	}
	if err := fileutils.WriteFile(s.logPath(artifact.CompanyNIT), data, 0o644); err != nil {
		return fmt.Errorf("error writing upload log: %w", err)
	}
	return nil
}

// ListUploads returns the artifacts of one company, newest first. An empty
// reportType matches all types.
func (s *Store) ListUploads(nit, reportType string) ([]models.UploadArtifact, error) {
	artifacts, err := s.readLog(nit)
	if err != nil {
		return nil, err
	}

	var out []models.UploadArtifact
	for _, a := range artifacts {
		if reportType == "" || a.ReportType == reportType {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out, nil
}

// LatestUpload returns the most recent artifact for a company and report
// type, or nil when none exists.
func (s *Store) LatestUpload(nit, reportType string) (*models.UploadArtifact, error) {
	uploads, err := s.ListUploads(nit, reportType)
	if err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return nil, nil
	}
	return &uploads[0], nil
}

func (s *Store) logPath(nit string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("uploads_%s.yaml", nit))
}

func (s *Store) readLog(nit string) ([]models.UploadArtifact, error) {
	data, err := os.ReadFile(s.logPath(nit))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading upload log: %w", err)
	}

	var artifacts []models.UploadArtifact
	if err := yaml.Unmarshal(data, &artifacts); err != nil {
		return nil, fmt.Errorf("error parsing upload log: %w", err)
	}
	return artifacts, nil
}
