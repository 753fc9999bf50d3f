// Package skills holds the reference list of recognised skill names.
package skills

import (
	"bufio"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
)

//go:embed skills.json
var defaultSkills []byte

// Vocabulary is an immutable set of skill names. Entries keep the spelling
// found in the source list; lookups are by lowercase form.
type Vocabulary struct {
	entries []string
	byLower map[string][]string
}

// New builds a vocabulary from the provided names. Blank names and exact
// duplicates are dropped; the remaining order is preserved.
func New(names []string) *Vocabulary {
	v := &Vocabulary{byLower: make(map[string][]string, len(names))}
	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		v.entries = append(v.entries, name)
		lower := strings.ToLower(name)
		v.byLower[lower] = append(v.byLower[lower], name)
	}

	return v
}

// Default returns the vocabulary bundled with the binary.
func Default() (*Vocabulary, error) {
	names, err := decodeJSON(defaultSkills)
	if err != nil {
		return nil, fmt.Errorf("decoding embedded skills: %w", err)
	}
	return New(names), nil
}

// Load reads a vocabulary file. JSON files may hold either an array of
// strings or an object with a "skills" array; any other file is read as one
// skill per line.
func Load(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading skills file %q: %w", path, err)
	}

	var names []string
	if strings.EqualFold(filepath.Ext(path), ".json") {
		names, err = decodeJSON(data)
	} else {
		names, err = decodeLines(data)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding skills file %q: %w", path, err)
	}

	return New(names), nil
}

func decodeJSON(data []byte) ([]string, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	switch raw.(type) {
	case []any:
		var names []string
		if err := mapstructure.Decode(raw, &names); err != nil {
			return nil, err
		}
		return names, nil
	case map[string]any:
		var wrapped struct {
			Skills []string `mapstructure:"skills"`
		}
		if err := mapstructure.Decode(raw, &wrapped); err != nil {
			return nil, err
		}
		if wrapped.Skills == nil {
			return nil, errors.New(`object must contain a "skills" array`)
		}
		return wrapped.Skills, nil
	default:
		return nil, fmt.Errorf("expected an array of strings, got %T", raw)
	}
}

func decodeLines(data []byte) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names, scanner.Err()
}

// Len returns the number of distinct entries.
func (v *Vocabulary) Len() int {
	return len(v.entries)
}

// Entries returns a copy of the entries in source order.
func (v *Vocabulary) Entries() []string {
	return append([]string(nil), v.entries...)
}

// Lookup returns the entries whose lowercase form equals token.
func (v *Vocabulary) Lookup(token string) []string {
	return v.byLower[token]
}

// MultiWord returns the entries containing whitespace. Matching is done per
// token, so these entries can never be found in a document.
func (v *Vocabulary) MultiWord() []string {
	var multi []string
	for _, entry := range v.entries {
		if len(strings.Fields(entry)) > 1 {
			multi = append(multi, entry)
		}
	}
	return multi
}
