// Package pdfextract extracts per-page plain text from PDF bank statements.
//
// Statement parsing downstream works on text lines, so extraction must keep
// row structure. The primary method asks the library for row-grouped text;
// when that yields nothing usable the raw content stream is regrouped by
// Y coordinate.
package pdfextract

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"contaflow/dian-csv/internal/logging"
)

var log = logging.GetLogger()

// SetLogger sets a custom logger for this package
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// ExtractPages reads a PDF file and returns the text of each page, one string
// per page with newline-separated rows.
func ExtractPages(filePath string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed reading %s: %v", filePath, r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", filePath, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("Failed to close PDF file")
		}
	}()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF %s has no pages", filePath)
	}

	pages = extractByRow(r, numPages)
	if totalTextLen(pages) > 0 {
		return pages, nil
	}

	log.WithField(logging.FieldFile, filePath).
		Debug("Row extraction produced no text, reconstructing rows from content stream")
	pages = extractByContent(r, numPages)
	if totalTextLen(pages) > 0 {
		return pages, nil
	}

	// A readable PDF with no extractable text is usually a scanned image.
	// Not an error: callers get zero pages and produce an empty statement.
	log.WithField(logging.FieldFile, filePath).
		Warn("No text could be extracted, the file may be image-based or scanned")
	return nil, nil
}

// ExtractAllText returns the whole document as a single string.
func ExtractAllText(filePath string) (string, error) {
	pages, err := ExtractPages(filePath)
	if err != nil {
		return "", err
	}
	return strings.Join(pages, "\n"), nil
}

// extractByRow uses the library's row grouping, which preserves layout on
// well-structured PDFs.
func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			log.WithError(err).Debugf("GetTextByRow failed on page %d", i)
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			pages = append(pages, strings.Join(lines, "\n"))
		}
	}
	return pages
}

// extractByContent reads raw text objects and regroups them into rows by
// rounded Y coordinate, then orders each row left to right.
func extractByContent(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		type textItem struct {
			x float64
			s string
		}
		rowMap := make(map[int][]textItem)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			yKey := int(math.Round(t.Y))
			rowMap[yKey] = append(rowMap[yKey], textItem{x: t.X, s: t.S})
		}

		// PDF Y grows bottom to top, so rows sort descending.
		yKeys := make([]int, 0, len(rowMap))
		for y := range rowMap {
			yKeys = append(yKeys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

		var lines []string
		for _, y := range yKeys {
			items := rowMap[y]
			sort.Slice(items, func(a, b int) bool {
				return items[a].x < items[b].x
			})

			var parts []string
			var prevX float64
			for j, item := range items {
				if j > 0 && item.x-prevX > 15 {
					// Wide gap marks a column boundary.
					parts = append(parts, "  ")
				}
				parts = append(parts, item.s)
				prevX = item.x
			}
			line := strings.TrimSpace(strings.Join(parts, ""))
			if line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			pages = append(pages, strings.Join(lines, "\n"))
		}
	}
	return pages
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
