package csvimport

// reader.go normalises uploaded bytes before line splitting:
//
//   - SkipBOM removes a leading UTF-8 BOM (0xEF 0xBB 0xBF) from Windows files
//   - sanitizeLine replaces invalid UTF-8 sequences with '?'

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SkipBOM wraps r so the first read skips a UTF-8 BOM if present.
// A partial BOM prefix is preserved as data.
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		// Discard cannot fail for bytes already buffered by Peek.
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// sanitizeLine replaces invalid UTF-8 with '?' so every downstream string is valid.
func sanitizeLine(s string) string {
	return strings.ToValidUTF8(s, "?")
}
