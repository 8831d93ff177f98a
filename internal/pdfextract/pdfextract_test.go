package pdfextract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTextlessPDF writes a valid single-page PDF whose content stream is
// empty, like a scanned statement where every page is an image.
func writeTextlessPDF(t *testing.T, path string) {
	t.Helper()

	var buf bytes.Buffer
	offsets := make([]int, 5)

	buf.WriteString("%PDF-1.4\n")
	offsets[1] = buf.Len()
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	offsets[2] = buf.Len()
	buf.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	offsets[3] = buf.Len()
	buf.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> /Contents 4 0 R >>\nendobj\n")
	offsets[4] = buf.Len()
	buf.WriteString("4 0 obj\n<< /Length 0 >>\nstream\nendstream\nendobj\n")

	xrefStart := buf.Len()
	buf.WriteString("xref\n0 5\n")
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i < 5; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 5 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefStart)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestExtractPagesTextlessPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "escaneado.pdf")
	writeTextlessPDF(t, path)

	pages, err := ExtractPages(path)
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestExtractPagesMissingFile(t *testing.T) {
	_, err := ExtractPages(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open PDF")
}

func TestExtractPagesNotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extracto.pdf")
	require.NoError(t, os.WriteFile(path, []byte("no soy un pdf"), 0o644))

	_, err := ExtractPages(path)
	assert.Error(t, err)
}
