package docproc

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rayyan1704/StudyMate/pkg/errors"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

const wordDocXML = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Photosynthesis converts light into energy.</w:t></w:r></w:p>
    <w:p><w:r><w:t>It happens in chloroplasts.</w:t></w:r></w:p>
    <w:tbl><w:tr><w:tc><w:p><w:r><w:t>Stage</w:t></w:r></w:p></w:tc>
    <w:tc><w:p><w:r><w:t>Light reactions</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
  </w:body>
</w:document>`

func slideXML(text string) string {
	return `<?xml version="1.0"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
       xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
  <p:cSld><p:spTree><p:sp><p:txBody>
    <a:p><a:r><a:t>` + text + `</a:t></a:r></a:p>
  </p:txBody></p:sp></p:spTree></p:cSld>
</p:sld>`
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
		wantErr  bool
	}{
		{"notes.pdf", FormatPDF, false},
		{"Essay.DOCX", FormatDOCX, false},
		{"slides.pptx", FormatPPTX, false},
		{"readme.txt", FormatTXT, false},
		{"archive.zip", "", true},
		{"noextension", "", true},
		{"image.png", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := DetectFormat(tt.filename)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrUnsupportedFormat.Code))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProcessTXT(t *testing.T) {
	p := NewProcessor(0)
	ext, err := p.Process([]byte("Mitochondria are the powerhouse of the cell."), "bio.txt")
	require.NoError(t, err)

	assert.Equal(t, FormatTXT, ext.Format)
	assert.Contains(t, ext.Text, "powerhouse")
	assert.Equal(t, 0, ext.Pages)
}

func TestProcessTXTLatin1Fallback(t *testing.T) {
	p := NewProcessor(0)
	// 0xe9 is é in Latin-1 and invalid as a standalone UTF-8 byte
	data := []byte{'c', 'a', 'f', 0xe9, ' ', 'n', 'o', 't', 'e', 's'}
	ext, err := p.Process(data, "cafe.txt")
	require.NoError(t, err)
	assert.Contains(t, ext.Text, "café")
}

func TestProcessDOCX(t *testing.T) {
	data := buildZip(t, map[string]string{
		"[Content_Types].xml": "<Types/>",
		"word/document.xml":   wordDocXML,
	})

	p := NewProcessor(0)
	ext, err := p.Process(data, "photosynthesis.docx")
	require.NoError(t, err)

	assert.Equal(t, FormatDOCX, ext.Format)
	assert.Contains(t, ext.Text, "Photosynthesis converts light into energy.")
	assert.Contains(t, ext.Text, "chloroplasts")
	assert.Contains(t, ext.Text, "Light reactions")
}

func TestProcessDOCXMissingDocument(t *testing.T) {
	data := buildZip(t, map[string]string{"other.xml": "<x/>"})

	p := NewProcessor(0)
	_, err := p.Process(data, "broken.docx")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCorruptFile.Code))
}

func TestProcessPPTX(t *testing.T) {
	data := buildZip(t, map[string]string{
		"[Content_Types].xml":    "<Types/>",
		"ppt/slides/slide2.xml":  slideXML("Cell division has phases."),
		"ppt/slides/slide1.xml":  slideXML("Biology basics."),
		"ppt/slides/slide10.xml": slideXML("Final recap slide."),
	})

	p := NewProcessor(0)
	ext, err := p.Process(data, "lecture.pptx")
	require.NoError(t, err)

	assert.Equal(t, FormatPPTX, ext.Format)
	assert.Equal(t, 3, ext.Pages)

	// numeric slide order, not archive order
	i1 := strings.Index(ext.Text, "Slide 1:")
	i2 := strings.Index(ext.Text, "Slide 2:")
	i10 := strings.Index(ext.Text, "Slide 10:")
	require.True(t, i1 >= 0 && i2 > i1 && i10 > i2)
	assert.Contains(t, ext.Text, "Biology basics.")
}

func TestProcessPDFCorrupt(t *testing.T) {
	p := NewProcessor(0)
	_, err := p.Process([]byte("definitely not a pdf"), "bad.pdf")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCorruptFile.Code))
}

func TestProcessFileTooLarge(t *testing.T) {
	p := NewProcessor(16)
	_, err := p.Process([]byte(strings.Repeat("a", 32)), "big.txt")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrFileTooLarge.Code))
}

func TestProcessUnsupportedBeforeSizeCheck(t *testing.T) {
	p := NewProcessor(16)
	_, err := p.Process([]byte(strings.Repeat("a", 32)), "big.exe")
	assert.True(t, errors.IsCode(err, errors.ErrUnsupportedFormat.Code))
}

func TestProcessEmptyText(t *testing.T) {
	p := NewProcessor(0)
	_, err := p.Process([]byte("   \n\n  \t "), "blank.txt")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrEmptyDocument.Code))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapse spaces", "a   b\t\tc", "a b c"},
		{"collapse newlines", "a\n\n\n\nb", "a\n\nb"},
		{"keep double newline", "a\n\nb", "a\n\nb"},
		{"strip controls", "a\x00\x01b\x07c", "abc"},
		{"carriage returns", "a\r\nb", "a\nb"},
		{"trailing whitespace", "a b  \n\n", "a b"},
		{"leading whitespace", "\n\n  a", "a"},
		{"space around newline", "a  \n  b", "a\nb"},
		{"empty", "", ""},
		{"only whitespace", " \n \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}
