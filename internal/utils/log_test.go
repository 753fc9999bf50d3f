package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "returns empty when limit non-positive",
			input:  "hello world",
			limit:  0,
			expect: "",
		},
		{
			name:   "shorter than limit",
			input:  "hello",
			limit:  10,
			expect: "hello",
		},
		{
			name:   "truncates and adds ellipsis",
			input:  "hello world",
			limit:  5,
			expect: "hello...",
		},
		{
			name:   "trims surrounding whitespace",
			input:  "  spaced  ",
			limit:  5,
			expect: "space...",
		},
		{
			name:   "counts runes not bytes",
			input:  "Ренат Иванов",
			limit:  5,
			expect: "Ренат...",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestPreviewForLog(t *testing.T) {
	t.Parallel()

	got := PreviewForLog("Jane Doe\n\njane@x.com\tPython,  SQL", 100)
	if got != "Jane Doe jane@x.com Python, SQL" {
		t.Fatalf("unexpected preview: %q", got)
	}

	got = PreviewForLog("Jane Doe\njane@x.com", 8)
	if got != "Jane Doe..." {
		t.Fatalf("unexpected truncated preview: %q", got)
	}
}
