// Package csvimport turns an uploaded subscriber CSV into subscription candidates.
//
// The expected template is a header line followed by one subscriber per line,
// email in the first column and an optional name in the second:
//
//	email,name
//	alice@example.com,Alice
//	bob@example.com
//
// The first non-blank line is always treated as the header and skipped; there
// is no header sniffing. Lines whose first column is not a valid address are
// reported as a ParseFailure and must never be submitted.
package csvimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/SendyUpload/internal/validate"
)

// ParseFailure reasons.
const (
	ReasonInvalidEmail = "invalid or unparsable email"
	ReasonLineTooLong  = "line too long"
)

const (
	// maxLineSize bounds a single CSV line. Longer lines are cut, reported as
	// a ParseFailure and the rest of the line is skipped.
	maxLineSize = 1 << 20

	// oversizedRawLimit is how much of an oversized line is kept in Raw.
	oversizedRawLimit = 256

	// maxEmailLength is the longest first column reported for an oversized line.
	maxEmailLength = 254
)

// Candidate is a parsed, not-yet-submitted subscriber.
type Candidate struct {
	Email string
	Name  string // empty when the row has no second column
}

// ParseFailure describes a data line that cannot be submitted.
type ParseFailure struct {
	Line   int    // 1-based physical line number
	Raw    string // trimmed line text
	Email  string // first column as found, may be empty
	Reason string
}

func (f *ParseFailure) Error() string {
	return fmt.Sprintf("line %d: %s", f.Line, f.Reason)
}

// Row is one data line: either a Candidate or a ParseFailure.
type Row struct {
	Line      int
	Raw       string
	Candidate Candidate
	Failure   *ParseFailure
}

// Valid reports whether the row carries a submittable candidate.
func (r Row) Valid() bool {
	return r.Failure == nil
}

// Extractor yields data rows lazily in file order. It cannot be restarted.
//
//	ex := csvimport.NewExtractor(file)
//	for ex.Next() {
//	    row := ex.Row()
//	    ...
//	}
//	if err := ex.Err(); err != nil { ... }
type Extractor struct {
	reader     *bufio.Reader
	line       int
	headerSeen bool
	header     string
	row        Row
	err        error
}

// NewExtractor wraps r, skipping a leading BOM.
func NewExtractor(r io.Reader) *Extractor {
	return &Extractor{reader: bufio.NewReaderSize(SkipBOM(r), 64*1024)}
}

// Next advances to the next data row. It returns false at end of input or
// on a read error; check Err afterwards. An oversized line does not stop
// iteration: it becomes a ParseFailure row.
func (e *Extractor) Next() bool {
	for {
		raw, truncated, err := e.readLine()
		if errors.Is(err, io.EOF) {
			return false
		}
		if err != nil {
			e.err = fmt.Errorf("read csv at line %d: %w", e.line+1, err)
			return false
		}
		e.line++

		text := strings.TrimSpace(sanitizeLine(string(raw)))
		if text == "" {
			continue
		}
		if !e.headerSeen {
			e.headerSeen = true
			e.header = text
			continue
		}
		if truncated {
			e.row = oversizedRow(e.line, text)
		} else {
			e.row = parseRow(e.line, text)
		}
		return true
	}
}

// readLine returns the next physical line without its newline. A line longer
// than maxLineSize is cut to that size, the remainder is discarded and
// truncated is set. It returns io.EOF once the input is exhausted.
func (e *Extractor) readLine() (line []byte, truncated bool, err error) {
	var buf []byte
	for {
		chunk, err := e.reader.ReadSlice('\n')
		data := chunk
		if err == nil {
			data = chunk[:len(chunk)-1]
		}

		if room := maxLineSize - len(buf); len(data) > room {
			buf = append(buf, data[:max(room, 0)]...)
			truncated = true
		} else {
			buf = append(buf, data...)
		}

		switch {
		case err == nil:
			return buf, truncated, nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if len(buf) == 0 && !truncated {
				return nil, false, io.EOF
			}
			return buf, truncated, nil
		default:
			return nil, false, err
		}
	}
}

// Row returns the row produced by the last successful Next.
func (e *Extractor) Row() Row {
	return e.row
}

// Header returns the skipped header line, empty until one has been read.
func (e *Extractor) Header() string {
	return e.header
}

// Err returns the first read error, if any.
func (e *Extractor) Err() error {
	return e.err
}

// All drains r into a slice. Intended for tests and small files.
func All(r io.Reader) ([]Row, error) {
	ex := NewExtractor(r)
	var rows []Row
	for ex.Next() {
		rows = append(rows, ex.Row())
	}
	return rows, ex.Err()
}

func parseRow(line int, text string) Row {
	cols := splitColumns(text)

	email := ""
	if len(cols) > 0 {
		email = strings.TrimSpace(cols[0])
	}

	if !validate.Email(email) {
		return Row{
			Line: line,
			Raw:  text,
			Failure: &ParseFailure{
				Line:   line,
				Raw:    text,
				Email:  email,
				Reason: ReasonInvalidEmail,
			},
		}
	}

	c := Candidate{Email: email}
	if len(cols) > 1 {
		c.Name = strings.TrimSpace(cols[1])
	}
	return Row{Line: line, Raw: text, Candidate: c}
}

// oversizedRow reports a line that was cut at maxLineSize. Its columns are
// never parsed, so the row is not submitted even if it starts with an address.
func oversizedRow(line int, text string) Row {
	raw := text
	if len(raw) > oversizedRawLimit {
		raw = strings.ToValidUTF8(raw[:oversizedRawLimit], "")
	}

	email, _, _ := strings.Cut(text, ",")
	email = strings.TrimSpace(email)
	if len(email) > maxEmailLength {
		email = ""
	}

	return Row{
		Line: line,
		Raw:  raw,
		Failure: &ParseFailure{
			Line:   line,
			Raw:    raw,
			Email:  email,
			Reason: ReasonLineTooLong,
		},
	}
}

// splitColumns parses one line with CSV quoting rules. Quoted fields may not
// span lines. A line the CSV reader rejects falls back to plain comma splitting.
func splitColumns(text string) []string {
	r := csv.NewReader(strings.NewReader(text))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	record, err := r.Read()
	if err != nil || len(record) == 0 {
		return strings.Split(text, ",")
	}
	return record
}
