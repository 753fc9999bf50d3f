// Package document turns uploaded resume files into plain text.
//
// Two container formats are recognised: page-oriented PDF and
// paragraph-oriented DOCX. Anything else extracts to an empty string so a
// batch never stops on an unexpected upload.
package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a recognised document container.
type Format string

const (
	FormatUnknown Format = ""
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
)

// ErrUnsupportedFormat is returned by ExtractStrict for unrecognised extensions.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// DecodeError reports a document whose bytes could not be parsed by the
// decoder of its format.
type DecodeError struct {
	Filename string
	Format   Format
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s document %q: %v", e.Format, e.Filename, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DetectFormat returns the format implied by the filename extension.
// Extensions are compared case-insensitively.
func DetectFormat(filename string) Format {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case string(FormatPDF):
		return FormatPDF
	case string(FormatDOCX):
		return FormatDOCX
	default:
		return FormatUnknown
	}
}

// IsSupported reports whether Extract can decode the file.
func IsSupported(filename string) bool {
	return DetectFormat(filename) != FormatUnknown
}

// Extract returns the plain text of the document. Unsupported extensions
// produce an empty string and a nil error. Malformed content of a supported
// format produces a *DecodeError.
func Extract(filename string, data []byte) (string, error) {
	text, err := ExtractStrict(filename, data)
	if errors.Is(err, ErrUnsupportedFormat) {
		return "", nil
	}
	return text, err
}

// ExtractStrict behaves like Extract but reports unsupported extensions
// with ErrUnsupportedFormat.
func ExtractStrict(filename string, data []byte) (string, error) {
	format := DetectFormat(filename)

	var decode func([]byte) (string, error)
	switch format {
	case FormatPDF:
		decode = extractPDFText
	case FormatDOCX:
		decode = extractDocxText
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}

	text, err := safeDecode(decode, data)
	if err != nil {
		return "", &DecodeError{Filename: filename, Format: format, Err: err}
	}
	return text, nil
}

// safeDecode converts decoder panics on hostile input into errors.
func safeDecode(decode func([]byte) (string, error), data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("decoder panic: %v", r)
		}
	}()
	return decode(data)
}
