// Package jobdesc resolves the job description text that resumes are ranked against.
package jobdesc

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrMissing is returned when no usable job description was provided.
var ErrMissing = errors.New("job description is missing")

// Source describes where the job description comes from.
type Source struct {
	// Name is used in error messages to give more context about the source.
	Name string
	// Value is the inline text provided via configuration, flags or a prompt.
	Value string
	// File points to a file containing the text. When set it takes
	// precedence over Value.
	File string
}

// Load returns the job description from the provided source. When File is
// set it takes precedence over Value. The result is always trimmed. An error
// wrapping ErrMissing is returned when neither File nor Value hold any text.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "job description"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		src.Value = string(data)
	}

	text := strings.TrimSpace(src.Value)
	if text == "" {
		if file != "" {
			return "", fmt.Errorf("%s file %q is empty: %w", name, file, ErrMissing)
		}
		return "", fmt.Errorf("%s is not provided: %w", name, ErrMissing)
	}

	return text, nil
}
