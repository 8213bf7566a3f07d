// Package csvimport converts raw CSV text into question/answer records
// for bulk card upload. It is deliberately not a full CSV grammar:
// quote handling is a simple toggle, so doubled-quote escaping and
// newlines inside quoted fields are unsupported. Rows missing either
// field are dropped silently; the import is best-effort.
package csvimport

import (
	"fmt"
	"strings"
)

// MaxUploadSize is the ceiling enforced before parsing is attempted.
const MaxUploadSize = 5 << 20 // 5MB

// PreviewLimit bounds how many parsed records a preview shows.
const PreviewLimit = 5

// Record is one parsed question/answer pair. The field names match the
// payload the bulk-upload endpoint expects.
type Record struct {
	Question string `json:"Question"`
	Answer   string `json:"Answer"`
}

// FormatError reports structurally invalid CSV input.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "invalid CSV: " + e.Reason
}

// ValidationError reports a file rejected before parsing.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ValidateUpload checks the file name and size against the caller-side
// limits. It must pass before Parse is called on the file contents.
func ValidateUpload(filename string, size int64) error {
	if size > MaxUploadSize {
		return &ValidationError{Reason: fmt.Sprintf("file size exceeds %dMB limit", MaxUploadSize>>20)}
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return &ValidationError{Reason: "file must be a CSV"}
	}
	return nil
}

var (
	questionHeaders = []string{"question", "front", "front_content"}
	answerHeaders   = []string{"answer", "back", "back_content"}
)

// Parse splits the input into non-empty lines, treats the first as a
// header row, and returns the question/answer records in source order.
// A row is kept only when both mapped fields are non-empty after
// trimming.
func Parse(text string) ([]Record, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil, &FormatError{Reason: "need at least a header row and one data row"}
	}

	headers := splitLine(lines[0])
	questionIdx := findColumn(headers, questionHeaders)
	answerIdx := findColumn(headers, answerHeaders)

	// No recognized header: assume the first two columns.
	if questionIdx == -1 {
		questionIdx = 0
	}
	if answerIdx == -1 {
		answerIdx = 1
	}

	var records []Record
	for _, line := range lines[1:] {
		values := splitLine(line)
		if len(values) <= questionIdx || len(values) <= answerIdx {
			continue
		}
		question := strings.TrimSpace(values[questionIdx])
		answer := strings.TrimSpace(values[answerIdx])
		if question == "" || answer == "" {
			continue
		}
		records = append(records, Record{Question: question, Answer: answer})
	}
	return records, nil
}

// findColumn returns the index of the first header matching any of the
// candidate names case-insensitively, or -1.
func findColumn(headers, names []string) int {
	for i, h := range headers {
		h = strings.ToLower(h)
		for _, name := range names {
			if h == name {
				return i
			}
		}
	}
	return -1
}

// splitLine splits a CSV line on commas outside double quotes. Each
// field is trimmed and has a single matching pair of surrounding quote
// characters stripped.
func splitLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
			current.WriteRune(ch)
		case ch == ',' && !inQuotes:
			fields = append(fields, cleanField(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	fields = append(fields, cleanField(current.String()))
	return fields
}

// cleanField trims whitespace and strips one pair of matching leading
// and trailing quote characters, single or double.
func cleanField(field string) string {
	field = strings.TrimSpace(field)
	if len(field) >= 2 {
		first, last := field[0], field[len(field)-1]
		if first == last && (first == '"' || first == '\'') {
			field = field[1 : len(field)-1]
		}
	}
	return strings.TrimSpace(field)
}
