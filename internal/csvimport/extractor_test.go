package csvimport

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestSkipBOM(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "file with BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("email,name")...),
			expected: "email,name",
		},
		{
			name:     "file without BOM",
			input:    []byte("email,name"),
			expected: "email,name",
		},
		{
			name:     "empty file",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
		{
			name:     "partial BOM at start",
			input:    []byte{0xEF, 0xBB, 'a', 'b', 'c'},
			expected: string([]byte{0xEF, 0xBB, 'a', 'b', 'c'}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := io.ReadAll(SkipBOM(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
		})
	}
}

func TestExtractor_Rows(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantValid  []Candidate
		wantFailed []string // raw lines
	}{
		{
			name:      "header skipped and names optional",
			input:     "email,name\na@example.com,Alice\nb@example.com\n",
			wantValid: []Candidate{{Email: "a@example.com", Name: "Alice"}, {Email: "b@example.com"}},
		},
		{
			name:      "header skipped even when it looks like data",
			input:     "first@example.com,First\nsecond@example.com,Second\n",
			wantValid: []Candidate{{Email: "second@example.com", Name: "Second"}},
		},
		{
			name:      "blank lines and CRLF ignored",
			input:     "\r\n\r\nemail,name\r\n\r\n  a@example.com , Alice  \r\n   \r\n",
			wantValid: []Candidate{{Email: "a@example.com", Name: "Alice"}},
		},
		{
			name:      "quoted name with comma",
			input:     "email,name\n\"a@example.com\",\"Doe, Jane\"\n",
			wantValid: []Candidate{{Email: "a@example.com", Name: "Doe, Jane"}},
		},
		{
			name:       "invalid first column",
			input:      "email,name\nbad,entry\nnot-an-email\n,Nobody\n",
			wantFailed: []string{"bad,entry", "not-an-email", ",Nobody"},
		},
		{
			name:       "email outside first column is not used",
			input:      "name,email\nAlice,a@example.com\n",
			wantFailed: []string{"Alice,a@example.com"},
		},
		{
			name:  "header only",
			input: "email,name\n",
		},
		{
			name:  "empty input",
			input: "",
		},
		{
			name:      "extra columns ignored",
			input:     "email,name,city\na@example.com,Alice,Oslo\n",
			wantValid: []Candidate{{Email: "a@example.com", Name: "Alice"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := All(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("All() error = %v", err)
			}

			var valid []Candidate
			var failed []string
			for _, row := range rows {
				if row.Valid() {
					valid = append(valid, row.Candidate)
				} else {
					failed = append(failed, row.Failure.Raw)
				}
			}

			if len(valid) != len(tt.wantValid) {
				t.Fatalf("valid rows = %v, want %v", valid, tt.wantValid)
			}
			for i := range valid {
				if valid[i] != tt.wantValid[i] {
					t.Errorf("valid[%d] = %+v, want %+v", i, valid[i], tt.wantValid[i])
				}
			}

			if len(failed) != len(tt.wantFailed) {
				t.Fatalf("failed rows = %q, want %q", failed, tt.wantFailed)
			}
			for i := range failed {
				if failed[i] != tt.wantFailed[i] {
					t.Errorf("failed[%d] = %q, want %q", i, failed[i], tt.wantFailed[i])
				}
			}
		})
	}
}

func TestExtractor_FailureDetails(t *testing.T) {
	rows, err := All(strings.NewReader("email,name\n\nbad,entry\n"))
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}

	f := rows[0].Failure
	if f == nil {
		t.Fatal("expected a ParseFailure")
	}
	if f.Line != 3 {
		t.Errorf("Line = %d, want 3", f.Line)
	}
	if f.Email != "bad" {
		t.Errorf("Email = %q, want %q", f.Email, "bad")
	}
	if f.Reason != ReasonInvalidEmail {
		t.Errorf("Reason = %q, want %q", f.Reason, ReasonInvalidEmail)
	}
	if !strings.Contains(f.Error(), "line 3") {
		t.Errorf("Error() = %q, want line number", f.Error())
	}
}

func TestExtractor_BOMAndHeader(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("email,name\na@example.com,Alice\n")...)

	ex := NewExtractor(bytes.NewReader(input))
	if !ex.Next() {
		t.Fatalf("Next() = false, err = %v", ex.Err())
	}
	if ex.Header() != "email,name" {
		t.Errorf("Header() = %q, want %q", ex.Header(), "email,name")
	}
	if got := ex.Row().Candidate.Email; got != "a@example.com" {
		t.Errorf("Email = %q, want %q", got, "a@example.com")
	}
	if ex.Next() {
		t.Error("Next() = true after last row")
	}
	if ex.Err() != nil {
		t.Errorf("Err() = %v", ex.Err())
	}
}

func TestExtractor_InvalidUTF8Sanitized(t *testing.T) {
	input := []byte("email,name\na@example.com,Al\xffce\n")

	rows, err := All(bytes.NewReader(input))
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(rows) != 1 || !rows[0].Valid() {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].Candidate.Name != "Al?ce" {
		t.Errorf("Name = %q, want %q", rows[0].Candidate.Name, "Al?ce")
	}
}

func TestExtractor_LineTooLongContinues(t *testing.T) {
	input := "email,name\n" +
		"a@example.com,Alice\n" +
		strings.Repeat("x", maxLineSize+10) + "\n" +
		"b@example.com\n" +
		"c@example.com,Carol"

	rows, err := All(strings.NewReader(input))
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}

	long := rows[1]
	if long.Valid() {
		t.Fatal("oversized line accepted as a candidate")
	}
	if long.Line != 3 {
		t.Errorf("Line = %d, want 3", long.Line)
	}
	if long.Failure.Reason != ReasonLineTooLong {
		t.Errorf("Reason = %q, want %q", long.Failure.Reason, ReasonLineTooLong)
	}
	if len(long.Failure.Raw) > oversizedRawLimit {
		t.Errorf("Raw kept %d bytes, want at most %d", len(long.Failure.Raw), oversizedRawLimit)
	}
	if long.Failure.Email != "" {
		t.Errorf("Email = %q, want empty", long.Failure.Email)
	}

	for i, want := range map[int]string{0: "a@example.com", 2: "b@example.com", 3: "c@example.com"} {
		if !rows[i].Valid() || rows[i].Candidate.Email != want {
			t.Errorf("rows[%d] = %+v, want candidate %s", i, rows[i], want)
		}
	}
	if rows[3].Line != 5 {
		t.Errorf("last Line = %d, want 5", rows[3].Line)
	}
}

func TestExtractor_LineTooLongKeepsShortEmail(t *testing.T) {
	input := "email,name\n" + "d@example.com," + strings.Repeat("y", maxLineSize) + "\n"

	rows, err := All(strings.NewReader(input))
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(rows) != 1 || rows[0].Valid() {
		t.Fatalf("rows = %d, want one failure", len(rows))
	}
	if rows[0].Failure.Email != "d@example.com" {
		t.Errorf("Email = %q, want %q", rows[0].Failure.Email, "d@example.com")
	}
}

func TestExtractor_LineAtLimitIsParsed(t *testing.T) {
	email := "e@example.com,"
	line := email + strings.Repeat("n", maxLineSize-len(email))
	rows, err := All(strings.NewReader("email,name\n" + line + "\n"))
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(rows) != 1 || !rows[0].Valid() {
		t.Fatalf("line of exactly maxLineSize bytes rejected")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestExtractor_ReadError(t *testing.T) {
	_, err := All(io.MultiReader(strings.NewReader("email,name\na@example.com\n"), failingReader{}))
	if err == nil || !strings.Contains(err.Error(), "disk gone") {
		t.Errorf("err = %v, want read error", err)
	}
}

func TestSplitColumns(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a@example.com,Alice", []string{"a@example.com", "Alice"}},
		{`"a@example.com","Doe, Jane"`, []string{"a@example.com", "Doe, Jane"}},
		{`a@example.com,"Say ""hi"""`, []string{"a@example.com", `Say "hi"`}},
		{"solo", []string{"solo"}},
	}

	for _, tt := range tests {
		got := splitColumns(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("splitColumns(%q) = %q, want %q", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitColumns(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}
