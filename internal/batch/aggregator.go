// Package batch converts whole directories of bank statements at once,
// consolidating the movements of each account into a single CSV.
package batch

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"contaflow/dian-csv/internal/bankparser"
	"contaflow/dian-csv/internal/common"
	"contaflow/dian-csv/internal/fileutils"
	"contaflow/dian-csv/internal/logging"
	"contaflow/dian-csv/internal/models"
)

var statementExtensions = []string{".pdf", ".xlsx", ".xls"}

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s",
		dr.Start.Format("2006-01-02"),
		dr.End.Format("2006-01-02"))
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	end := dr.End

	if dr.Start.IsZero() {
		start = other.Start
	} else if !other.Start.IsZero() && other.Start.Before(start) {
		start = other.Start
	}

	if dr.End.IsZero() {
		end = other.End
	} else if !other.End.IsZero() && other.End.After(end) {
		end = other.End
	}

	return DateRange{Start: start, End: end}
}

// AccountGroup holds the consolidated movements of one bank account across
// every statement file that mentioned it.
type AccountGroup struct {
	Bank      string
	Account   string
	Movements []models.Movement
	DateRange DateRange
}

// Aggregator consolidates statement files per bank account.
type Aggregator struct {
	logger logging.Logger
}

// NewAggregator creates a new Aggregator instance
func NewAggregator(logger logging.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// ConvertDirectory parses every statement file in inputDir and writes one
// consolidated CSV per account into outputDir. Files that fail to parse are
// skipped so one bad statement never blocks the rest. Returns the number of
// CSV files written.
func (a *Aggregator) ConvertDirectory(inputDir, outputDir string) (int, error) {
	files, err := fileutils.ListFilesWithExtensions(inputDir, statementExtensions...)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		a.logger.Warn("No statement files found",
			logging.Field{Key: "directory", Value: inputDir})
		return 0, nil
	}

	groups := a.groupByAccount(files)

	written := 0
	for _, group := range groups {
		outputFile := filepath.Join(outputDir, a.GenerateOutputFilename(group))
		if err := common.WriteMovementsToCSV(group.Movements, outputFile); err != nil {
			return written, fmt.Errorf("error writing consolidated CSV for account %s: %w", group.Account, err)
		}
		written++

		a.logger.Info("Consolidated account movements",
			logging.Field{Key: logging.FieldBank, Value: group.Bank},
			logging.Field{Key: "account", Value: group.Account},
			logging.Field{Key: logging.FieldCount, Value: len(group.Movements)},
			logging.Field{Key: logging.FieldOutputFile, Value: outputFile})
	}

	a.logger.Info("Batch conversion completed",
		logging.Field{Key: "total_files", Value: len(files)},
		logging.Field{Key: "account_groups", Value: len(groups)})
	return written, nil
}

// groupByAccount parses each file and merges its movements into the group of
// the bank account the statement belongs to.
func (a *Aggregator) groupByAccount(files []string) []AccountGroup {
	accountGroups := make(map[string]*AccountGroup)

	for _, file := range files {
		statement, err := bankparser.ParseFile(file)
		if err != nil {
			a.logger.WithError(err).Warn("Failed to parse statement, skipping",
				logging.Field{Key: logging.FieldFile, Value: filepath.Base(file)})
			continue
		}

		key := statement.Bank + "/" + statement.Account
		group, exists := accountGroups[key]
		if !exists {
			group = &AccountGroup{Bank: statement.Bank, Account: statement.Account}
			accountGroups[key] = group
		}

		group.Movements = append(group.Movements, statement.Movements...)
		group.DateRange = group.DateRange.Merge(CalculateDateRange(statement.Movements))

		a.logger.Debug("File mapped to account",
			logging.Field{Key: logging.FieldFile, Value: filepath.Base(file)},
			logging.Field{Key: "account", Value: statement.Account},
			logging.Field{Key: logging.FieldBank, Value: statement.Bank})
	}

	var groups []AccountGroup
	for _, group := range accountGroups {
		a.sortMovementsChronologically(group.Movements)
		a.detectAndLogDuplicates(group.Movements, group.Account)
		groups = append(groups, *group)
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Bank != groups[j].Bank {
			return groups[i].Bank < groups[j].Bank
		}
		return groups[i].Account < groups[j].Account
	})
	return groups
}

// sortMovementsChronologically sorts movements by date, then by amount for a
// stable order within one day.
func (a *Aggregator) sortMovementsChronologically(movements []models.Movement) {
	sort.SliceStable(movements, func(i, j int) bool {
		if !movements[i].Date.Equal(movements[j].Date) {
			return movements[i].Date.Before(movements[j].Date)
		}
		return movements[i].Amount().LessThan(movements[j].Amount())
	})
}

// detectAndLogDuplicates identifies potential duplicate movements and logs
// warnings. Overlapping statement periods produce them, the movements are
// kept so the user decides.
func (a *Aggregator) detectAndLogDuplicates(movements []models.Movement, account string) {
	duplicateCount := 0

	for i := 0; i < len(movements)-1; i++ {
		for j := i + 1; j < len(movements); j++ {
			if a.arePotentialDuplicates(movements[i], movements[j]) {
				duplicateCount++
				a.logger.Warn("Potential duplicate movement",
					logging.Field{Key: "account", Value: account},
					logging.Field{Key: "date", Value: movements[i].Date.Format("2006-01-02")},
					logging.Field{Key: "amount", Value: movements[i].Amount().String()})
				break
			}
		}
	}

	if duplicateCount > 0 {
		a.logger.Warn("Found potential duplicate movements",
			logging.Field{Key: logging.FieldCount, Value: duplicateCount},
			logging.Field{Key: "account", Value: account})
	}
}

// arePotentialDuplicates checks if two movements might be duplicates
func (a *Aggregator) arePotentialDuplicates(m1, m2 models.Movement) bool {
	if !m1.Date.Equal(m2.Date) {
		return false
	}
	if !m1.Debit.Equal(m2.Debit) || !m1.Credit.Equal(m2.Credit) {
		return false
	}
	desc1 := strings.ToLower(strings.TrimSpace(m1.Description))
	desc2 := strings.ToLower(strings.TrimSpace(m2.Description))
	return desc1 == desc2
}

// GenerateOutputFilename creates a filename for the consolidated output.
// Format: {bank}_{account}_{start_date}_{end_date}.csv
func (a *Aggregator) GenerateOutputFilename(group AccountGroup) string {
	bank := sanitizeName(group.Bank)
	if bank == "" {
		bank = "banco"
	}
	parts := []string{bank}
	if account := sanitizeName(group.Account); account != "" {
		parts = append(parts, account)
	}
	if rangeStr := group.DateRange.String(); rangeStr != "" {
		parts = append(parts, rangeStr)
	}
	return strings.Join(parts, "_") + ".csv"
}

// CalculateDateRange calculates the overall date range of a set of movements
func CalculateDateRange(movements []models.Movement) DateRange {
	var dr DateRange
	for _, m := range movements {
		if m.Date.IsZero() {
			continue
		}
		if dr.Start.IsZero() || m.Date.Before(dr.Start) {
			dr.Start = m.Date
		}
		if dr.End.IsZero() || m.Date.After(dr.End) {
			dr.End = m.Date
		}
	}
	return dr
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9-]+`)

func sanitizeName(name string) string {
	sanitized := unsafeNameChars.ReplaceAllString(strings.TrimSpace(name), "_")
	return strings.Trim(sanitized, "_")
}
