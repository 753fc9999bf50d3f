package fields

import (
	"slices"
	"strings"
	"testing"

	"github.com/spigell/resume-ranker/internal/nlp"
	"github.com/spigell/resume-ranker/internal/skills"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()

	model, err := nlp.NewModel(
		nlp.WithTokenizer(nlp.TokenizerFunc(func(text string) []string {
			return strings.FieldsFunc(text, func(r rune) bool {
				return r == ' ' || r == '\n' || r == '\t' || r == ',' || r == '.' || r == ';'
			})
		})),
		nlp.WithLemmatizer(nlp.LemmatizerFunc(func(w string) string { return w })),
	)
	if err != nil {
		t.Fatalf("building model: %v", err)
	}

	vocabulary := skills.New([]string{"Python", "SQL", "Go", "Machine Learning", "sql"})
	return New(vocabulary, model)
}

func TestEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "embedded", text: "contact: jane.doe+cv@mail.example.org today", want: "jane.doe+cv@mail.example.org"},
		{name: "first wins", text: "a@b.io then c@d.io", want: "a@b.io"},
		{name: "no at sign", text: "no address here, just text.", want: ""},
		{name: "short tld", text: "x@y.z", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Email(tt.text); got != tt.want {
				t.Fatalf("Email(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestPhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "international", text: "Phone: +1 555-123-4567.", want: "+1 555-123-4567"},
		{name: "parentheses", text: "call (555) 123 4567 now", want: "(555) 123 4567"},
		{name: "dotted", text: "555.123.4567", want: "555.123.4567"},
		{name: "first wins", text: "5551234567 or 5559876543", want: "5551234567"},
		{name: "too short", text: "123-4567", want: ""},
		{name: "non-breaking spaces", text: "call (555)\u00a0123\u00a04567", want: "(555)\u00a0123\u00a04567"},
		{name: "narrow no-break space", text: "+44\u202f555\u202f123\u202f4567", want: "+44\u202f555\u202f123\u202f4567"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Phone(tt.text); got != tt.want {
				t.Fatalf("Phone(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "first line", text: "Jane Doe\njane@x.com", want: "Jane Doe"},
		{name: "skips blank and contact lines", text: "\n\n  jane@x.com \n+1 555 123 4567\n  John Ronald Smith  \n", want: "John Ronald Smith"},
		{name: "single word rejected", text: "Resume\nJane Doe", want: "Jane Doe"},
		{name: "too many words", text: "Senior Backend Engineer At Large Company\nJane Doe", want: "Jane Doe"},
		{name: "all lines have digits or at", text: "a@b.io\n1\n2 x\n3 y\n4 z\nJane Doe", want: ""},
		{name: "beyond fifth line", text: "CV\nCV\nCV\nCV\nCV\nJane Doe", want: ""},
		{name: "empty", text: "", want: ""},
		{name: "form feed", text: "123\fJane Doe", want: "Jane Doe"},
		{name: "carriage returns", text: "CV\r\nJane Doe\r\n", want: "Jane Doe"},
		{name: "unicode line separator", text: "jane@x.com\u2028John Smith", want: "John Smith"},
		{name: "vertical tab and record separator", text: "1\v2\x1e Jane Doe", want: "Jane Doe"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Name(tt.text); got != tt.want {
				t.Fatalf("Name(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestSkills(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	got := e.Skills("Python, SQL and python again. Machine Learning; golang")
	want := []string{"Python", "SQL", "sql"}
	if !slices.Equal(got, want) {
		t.Fatalf("Skills() = %v, want %v", got, want)
	}

	if again := e.Skills("Python, SQL and python again. Machine Learning; golang"); !slices.Equal(again, got) {
		t.Fatalf("skills are not stable: %v then %v", got, again)
	}

	if none := e.Skills("nothing relevant"); len(none) != 0 {
		t.Fatalf("expected no skills, got %v", none)
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	got := e.Extract("Jane Doe\njane@x.com\nPython, SQL")

	if got.Name != "Jane Doe" {
		t.Fatalf("unexpected name %q", got.Name)
	}
	if got.Email != "jane@x.com" {
		t.Fatalf("unexpected email %q", got.Email)
	}
	if got.Phone != "" {
		t.Fatalf("unexpected phone %q", got.Phone)
	}
	for _, want := range []string{"Python", "SQL"} {
		if !slices.Contains(got.Skills, want) {
			t.Fatalf("expected %q in %v", want, got.Skills)
		}
	}
}

func TestSkillsWithoutVocabulary(t *testing.T) {
	t.Parallel()

	if got := New(nil, nil).Skills("Python"); got != nil {
		t.Fatalf("expected nil skills, got %v", got)
	}
}
