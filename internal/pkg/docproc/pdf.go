package docproc

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// extractPDF extracts plain text and the page count from a PDF. When
// the reader cannot produce plain text it falls back to scanning the
// raw bytes for printable runs, matching what lightweight PDF tooling
// does for malformed files.
func extractPDF(data []byte) (text string, pageCount int, err error) {
	if len(data) == 0 {
		return "", 0, fmt.Errorf("empty file")
	}

	// the pdf reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			text, pageCount = "", 0
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}

	pages := reader.NumPage()

	plain, err := reader.GetPlainText()
	if err == nil {
		out, readErr := io.ReadAll(plain)
		if readErr == nil && len(bytes.TrimSpace(out)) > 0 {
			return string(out), pages, nil
		}
	}

	// per-page extraction tolerates single bad pages
	var b strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n\n")
	}
	if strings.TrimSpace(b.String()) != "" {
		return b.String(), pages, nil
	}

	text = extractPrintable(data)
	if strings.TrimSpace(text) == "" {
		return "", 0, fmt.Errorf("no extractable text")
	}
	return text, pages, nil
}

// extractPrintable keeps printable runes from a byte stream, used as a
// last-resort path for damaged PDFs.
func extractPrintable(in []byte) string {
	var out bytes.Buffer
	for len(in) > 0 {
		r, size := utf8.DecodeRune(in)
		if r == utf8.RuneError && size == 1 {
			b := in[0]
			if b == '\n' || b == '\r' || b == '\t' || (b >= 32 && b < 127) {
				out.WriteByte(b)
			}
			in = in[1:]
			continue
		}
		in = in[size:]
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 0x7f) {
			out.WriteRune(r)
		}
	}
	return out.String()
}
