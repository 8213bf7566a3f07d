package csvimport

import (
	"errors"
	"testing"
)

func TestParseRejectsTooFewLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "only whitespace", input: "  \n\n   \n"},
		{name: "header only", input: "Question,Answer"},
		{name: "header plus blank lines", input: "Question,Answer\n\n   \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Fatalf("Parse(%q) error = %v, want *FormatError", tt.input, err)
			}
		})
	}
}

func TestParseDropsRowsWithMissingFields(t *testing.T) {
	input := "Question,Answer\nWhat is 2+2?,4\n,skip\nCapital of France?,Paris"

	records, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := []Record{
		{Question: "What is 2+2?", Answer: "4"},
		{Question: "Capital of France?", Answer: "Paris"},
	}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d", len(records), len(want))
	}
	for i, rec := range records {
		if rec != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, rec, want[i])
		}
	}
}

func TestParseHeaderMatching(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantQuestion string
		wantAnswer   string
	}{
		{
			name:         "mixed case front header",
			input:        "Front,Back\nhello,world",
			wantQuestion: "hello",
			wantAnswer:   "world",
		},
		{
			name:         "upper case snake headers",
			input:        "FRONT_CONTENT,BACK_CONTENT\nhello,world",
			wantQuestion: "hello",
			wantAnswer:   "world",
		},
		{
			name:         "headers in swapped column order",
			input:        "Answer,Question\nworld,hello",
			wantQuestion: "hello",
			wantAnswer:   "world",
		},
		{
			name:         "unrecognized headers fall back to columns 0 and 1",
			input:        "foo,bar\nhello,world",
			wantQuestion: "hello",
			wantAnswer:   "world",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if len(records) != 1 {
				t.Fatalf("got %d records, want 1", len(records))
			}
			if records[0].Question != tt.wantQuestion || records[0].Answer != tt.wantAnswer {
				t.Errorf("record = %+v, want {%s %s}", records[0], tt.wantQuestion, tt.wantAnswer)
			}
		})
	}
}

func TestSplitLineQuotedFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "comma inside double quotes",
			input: `a,"b,c",d`,
			want:  []string{"a", "b,c", "d"},
		},
		{
			name:  "surrounding single quotes stripped",
			input: "'hello','world'",
			want:  []string{"hello", "world"},
		},
		{
			name:  "fields trimmed",
			input: " a , b ",
			want:  []string{"a", "b"},
		},
		{
			name:  "plain fields",
			input: "a,b,c",
			want:  []string{"a", "b", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitLine(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("splitLine(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("field %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParsePreservesRowOrder(t *testing.T) {
	input := "Question,Answer\nq1,a1\nq2,a2\nq3,a3"
	records, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	for i, rec := range records {
		wantQ := "q" + string(rune('1'+i))
		if rec.Question != wantQ {
			t.Errorf("position %d: got %q, want %q", i, rec.Question, wantQ)
		}
	}
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		wantErr  bool
	}{
		{name: "valid csv", filename: "cards.csv", size: 1024},
		{name: "upper case extension", filename: "CARDS.CSV", size: 1024},
		{name: "too large", filename: "cards.csv", size: MaxUploadSize + 1, wantErr: true},
		{name: "wrong extension", filename: "cards.xlsx", size: 1024, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.filename, tt.size)
			if tt.wantErr {
				var valErr *ValidationError
				if !errors.As(err, &valErr) {
					t.Fatalf("ValidateUpload() error = %v, want *ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateUpload() unexpected error: %v", err)
			}
		})
	}
}
