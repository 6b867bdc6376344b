package docproc

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var slidePattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// extractPPTX extracts text from a PPTX archive. Each slide's text
// runs ("a:t" elements) are collected under a "Slide N:" header so
// retrieval hits can be traced back to a slide. Slides are processed
// in numeric order regardless of archive ordering.
func extractPPTX(data []byte) (string, int, error) {
	if len(data) == 0 {
		return "", 0, fmt.Errorf("empty file")
	}

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("open pptx archive: %w", err)
	}

	type slideFile struct {
		num  int
		file *zip.File
	}
	var slides []slideFile
	for _, f := range r.File {
		m := slidePattern.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		num, convErr := strconv.Atoi(m[1])
		if convErr != nil {
			continue
		}
		slides = append(slides, slideFile{num: num, file: f})
	}
	if len(slides) == 0 {
		return "", 0, fmt.Errorf("no slides found")
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	var b strings.Builder
	for _, s := range slides {
		rc, openErr := s.file.Open()
		if openErr != nil {
			continue
		}
		text, parseErr := walkSlideXML(rc)
		rc.Close()
		if parseErr != nil || strings.TrimSpace(text) == "" {
			continue
		}
		fmt.Fprintf(&b, "Slide %d:\n%s\n\n", s.num, strings.TrimSpace(text))
	}

	if strings.TrimSpace(b.String()) == "" {
		return "", 0, fmt.Errorf("no extractable text")
	}
	return b.String(), len(slides), nil
}

func walkSlideXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var buf bytes.Buffer

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse slide xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				var text string
				if err := dec.DecodeElement(&text, &t); err == nil {
					buf.WriteString(text)
				}
			}
		case xml.EndElement:
			// each paragraph becomes its own line
			if t.Name.Local == "p" {
				buf.WriteByte('\n')
			}
		}
	}

	return buf.String(), nil
}
