// Package nlp normalizes free text for similarity scoring.
//
// A Model combines a word tokenizer, an English stopword list and a
// dictionary lemmatizer. It is built once per process and shared; all of its
// methods are safe for concurrent use because nothing is mutated after
// construction.
package nlp

import (
	"bufio"
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/jdkato/prose/v2"
)

// slashJoined matches words joined by slashes, such as "Python/SQL".
var slashJoined = regexp.MustCompile(`^[\p{L}\p{N}+#]+(?:/[\p{L}\p{N}+#]+)+$`)

//go:embed stopwords.txt
var defaultStopWords string

// Token is a single word or punctuation mark produced by the tokenizer.
type Token struct {
	Text  string
	Punct bool
	Stop  bool
}

// Lemmatizer maps an inflected word to its dictionary form.
type Lemmatizer interface {
	Lemma(word string) string
}

// LemmatizerFunc adapts a plain function to the Lemmatizer interface.
type LemmatizerFunc func(word string) string

func (f LemmatizerFunc) Lemma(word string) string {
	return f(word)
}

// Tokenizer splits text into word and punctuation tokens.
type Tokenizer interface {
	Tokenize(text string) []string
}

// TokenizerFunc adapts a plain function to the Tokenizer interface.
type TokenizerFunc func(text string) []string

func (f TokenizerFunc) Tokenize(text string) []string {
	return f(text)
}

// Model is the shared linguistic context.
type Model struct {
	tokenizer  Tokenizer
	lemmatizer Lemmatizer
	stopWords  map[string]struct{}
}

// Option customises a Model.
type Option func(*Model)

// WithLemmatizer replaces the dictionary lemmatizer.
func WithLemmatizer(l Lemmatizer) Option {
	return func(m *Model) {
		m.lemmatizer = l
	}
}

// WithTokenizer replaces the default tokenizer.
func WithTokenizer(t Tokenizer) Option {
	return func(m *Model) {
		m.tokenizer = t
	}
}

// WithStopWords replaces the bundled stopword list. Words are lowercased.
func WithStopWords(words []string) Option {
	return func(m *Model) {
		m.stopWords = make(map[string]struct{}, len(words))
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				m.stopWords[w] = struct{}{}
			}
		}
	}
}

// NewModel builds a Model. Without options it uses the prose tokenizer, the
// bundled English stopwords and the golem English dictionary.
func NewModel(opts ...Option) (*Model, error) {
	m := &Model{
		tokenizer: proseTokenizer{},
		stopWords: parseStopWords(defaultStopWords),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.lemmatizer == nil {
		lemmatizer, err := golem.New(en.New())
		if err != nil {
			return nil, fmt.Errorf("loading english lemmatizer: %w", err)
		}
		m.lemmatizer = lemmatizer
	}

	return m, nil
}

func parseStopWords(list string) map[string]struct{} {
	words := make(map[string]struct{})
	scanner := bufio.NewScanner(strings.NewReader(list))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words[strings.ToLower(line)] = struct{}{}
	}
	return words
}

// IsStop reports whether the word is in the stopword list. The comparison is
// case-insensitive.
func (m *Model) IsStop(word string) bool {
	_, ok := m.stopWords[strings.ToLower(word)]
	return ok
}

// Tokens splits text into tokens, annotating punctuation and stopwords.
func (m *Model) Tokens(text string) []Token {
	raw := m.tokenizer.Tokenize(text)
	tokens := make([]Token, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		tokens = append(tokens, Token{
			Text:  r,
			Punct: isPunct(r),
			Stop:  m.IsStop(r),
		})
	}
	return tokens
}

// maxLemmaPasses bounds Lemma on dictionaries with lemma cycles.
const maxLemmaPasses = 8

// Lemma returns the dictionary form of the word, lowercased. The lemmatizer
// is applied until the form stops changing (laid -> lay -> lie), so the
// result is its own lemma.
func (m *Model) Lemma(word string) string {
	current := strings.ToLower(word)
	for i := 0; i < maxLemmaPasses; i++ {
		next := strings.ToLower(strings.TrimSpace(m.lemmatizer.Lemma(current)))
		if next == "" {
			return current
		}
		if next == current || strings.ContainsFunc(next, unicode.IsSpace) {
			return next
		}
		current = next
	}
	return current
}

// Preprocess lowercases the text, removes stopwords and punctuation and
// replaces each remaining token with its lemma. Lemmas that are stopwords
// themselves are removed too, which keeps the output a fixed point:
// Preprocess(Preprocess(x)) == Preprocess(x).
func (m *Model) Preprocess(text string) string {
	var lemmas []string
	for _, tok := range m.Tokens(strings.ToLower(text)) {
		if tok.Stop || tok.Punct {
			continue
		}

		// A lemma may contain spaces; each part is filtered like a token.
		for _, lemma := range strings.Fields(m.Lemma(tok.Text)) {
			if m.IsStop(lemma) || isPunct(lemma) {
				continue
			}
			lemmas = append(lemmas, lemma)
		}
	}
	return strings.Join(lemmas, " ")
}

func isPunct(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return s != ""
}

type proseTokenizer struct{}

func (proseTokenizer) Tokenize(text string) []string {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return strings.Fields(text)
	}

	tokens := doc.Tokens()
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, splitSlashes(tok.Text)...)
	}
	return out
}

// splitSlashes breaks "Python/SQL" into "Python", "/", "SQL". Other tokens,
// URLs and dates included, are returned unchanged.
func splitSlashes(token string) []string {
	if !slashJoined.MatchString(token) || !strings.ContainsFunc(token, unicode.IsLetter) {
		return []string{token}
	}

	parts := strings.Split(token, "/")
	out := make([]string, 0, 2*len(parts)-1)
	for i, part := range parts {
		if i > 0 {
			out = append(out, "/")
		}
		out = append(out, part)
	}
	return out
}
