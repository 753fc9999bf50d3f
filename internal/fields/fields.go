// Package fields pulls candidate contact details and skills out of resume text.
package fields

import (
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/spigell/resume-ranker/internal/nlp"
	"github.com/spigell/resume-ranker/internal/skills"
)

const nameCandidateLines = 5

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	// Digits and separators match their Unicode forms, non-breaking spaces included.
	phonePattern = regexp.MustCompile(`(\+\p{Nd}{1,3}[-.\s\p{Zs}]?)?\(?\p{Nd}{3}\)?[-.\s\p{Zs}]?\p{Nd}{3}[-.\s\p{Zs}]?\p{Nd}{4}`)
)

// Fields is the set of values extracted from a single resume.
// Empty strings mean the value was not found.
type Fields struct {
	Name   string
	Email  string
	Phone  string
	Skills []string
}

// Extractor finds fields in text. It keeps no state between calls.
type Extractor struct {
	vocabulary *skills.Vocabulary
	model      *nlp.Model
}

// New returns an Extractor matching skills from the vocabulary using the
// tokenizer of the model.
func New(vocabulary *skills.Vocabulary, model *nlp.Model) *Extractor {
	return &Extractor{vocabulary: vocabulary, model: model}
}

// Extract returns all fields found in text.
func (e *Extractor) Extract(text string) Fields {
	return Fields{
		Name:   Name(text),
		Email:  Email(text),
		Phone:  Phone(text),
		Skills: e.Skills(text),
	}
}

// Email returns the leftmost email address in text.
func Email(text string) string {
	return emailPattern.FindString(text)
}

// Phone returns the leftmost phone number in text, as written.
func Phone(text string) string {
	return phonePattern.FindString(text)
}

// Name returns the first of the leading non-blank lines that looks like a
// personal name: two to four words with no digits and no '@'.
func Name(text string) string {
	checked := 0
	for _, line := range strings.FieldsFunc(text, isLineBreak) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if checked == nameCandidateLines {
			break
		}
		checked++

		if looksLikeName(line) {
			return line
		}
	}
	return ""
}

// isLineBreak reports the runes that end a line: "\n", "\r", vertical tab,
// form feed, the file/group/record separators, NEL and the Unicode line and
// paragraph separators.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

func looksLikeName(line string) bool {
	if strings.Contains(line, "@") || strings.IndexFunc(line, unicode.IsDigit) >= 0 {
		return false
	}
	words := len(strings.Fields(line))
	return words >= 2 && words <= 4
}

// Skills returns the vocabulary entries that equal one of the text tokens,
// compared case-insensitively. Entries spanning several words never match.
// The result is deduplicated and sorted.
func (e *Extractor) Skills(text string) []string {
	if e.vocabulary == nil || e.model == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var found []string
	for _, tok := range e.model.Tokens(text) {
		for _, entry := range e.vocabulary.Lookup(strings.ToLower(tok.Text)) {
			if _, ok := seen[entry]; ok {
				continue
			}
			seen[entry] = struct{}{}
			found = append(found, entry)
		}
	}

	slices.Sort(found)
	return found
}
