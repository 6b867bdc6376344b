package docproc

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// extractTXT reads a plain text file. Valid UTF-8 passes through;
// anything else is decoded as Latin-1, which cannot fail and matches
// the common fallback for legacy text files.
func extractTXT(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty file")
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		b.WriteRune(rune(c))
	}
	return b.String(), nil
}
