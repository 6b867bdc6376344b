// Package docproc extracts normalized plain text from uploaded study
// documents. Supported formats: PDF, DOCX, PPTX, and plain text.
package docproc

import (
	"path/filepath"
	"strings"

	"github.com/Rayyan1704/StudyMate/pkg/errors"
)

// Format is a supported document format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatPPTX Format = "pptx"
	FormatTXT  Format = "txt"
)

// Extraction is the result of processing one document.
type Extraction struct {
	// Text is the normalized document text.
	Text string
	// Pages is the page or slide count where the format has one, else 0.
	Pages int
	// Format is the detected document format.
	Format Format
}

// Processor turns raw uploads into normalized text.
type Processor struct {
	maxBytes int64
}

// NewProcessor creates a Processor enforcing maxBytes as the upload
// size limit. A limit of 0 disables the check.
func NewProcessor(maxBytes int64) *Processor {
	return &Processor{maxBytes: maxBytes}
}

// DetectFormat maps a filename to its document format. The extension
// comparison is case-insensitive.
func DetectFormat(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	case ".pptx":
		return FormatPPTX, nil
	case ".txt":
		return FormatTXT, nil
	default:
		return "", errors.ErrUnsupportedFormat.WithMessagef("unsupported file format: %q", ext)
	}
}

// IsSupported reports whether the filename maps to a supported format.
func IsSupported(filename string) bool {
	_, err := DetectFormat(filename)
	return err == nil
}

// Process validates, extracts, and normalizes a document. Size and
// format are checked before any parsing work.
func (p *Processor) Process(data []byte, filename string) (*Extraction, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	if p.maxBytes > 0 && int64(len(data)) > p.maxBytes {
		return nil, errors.ErrFileTooLarge.WithMessagef(
			"file is %d bytes, limit is %d", len(data), p.maxBytes)
	}

	var text string
	var pages int
	switch format {
	case FormatPDF:
		text, pages, err = extractPDF(data)
	case FormatDOCX:
		text, err = extractDOCX(data)
	case FormatPPTX:
		text, pages, err = extractPPTX(data)
	case FormatTXT:
		text, err = extractTXT(data)
	}
	if err != nil {
		return nil, errors.ErrCorruptFile.WithMessagef("cannot parse %s file: %v", format, err)
	}

	text = Normalize(text)
	if text == "" {
		return nil, errors.ErrEmptyDocument.WithMessagef("no text extracted from %q", filename)
	}

	return &Extraction{Text: text, Pages: pages, Format: format}, nil
}

// Normalize cleans extracted text: control characters are stripped
// (keeping newlines and tabs), runs of spaces and tabs collapse to a
// single space, and runs of three or more newlines collapse to two.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	spacePending := false
	newlines := 0
	wroteAny := false

	flush := func() {
		if newlines > 0 {
			if wroteAny {
				if newlines > 2 {
					newlines = 2
				}
				for i := 0; i < newlines; i++ {
					b.WriteByte('\n')
				}
			}
			newlines = 0
			spacePending = false
			return
		}
		if spacePending && wroteAny {
			b.WriteByte(' ')
		}
		spacePending = false
	}

	for _, r := range s {
		switch {
		case r == '\n':
			newlines++
		case r == '\r':
			// treated as part of the preceding newline
		case r == ' ' || r == '\t':
			spacePending = true
		case r < 0x20 || r == 0x7f || r == 0xfffd:
			// control characters and the replacement rune are dropped
		default:
			flush()
			b.WriteRune(r)
			wroteAny = true
		}
	}

	return strings.TrimRight(b.String(), "\n ")
}
