package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	paragraphs, err := bodyParagraphs(doc.Editable().GetContent())
	if err != nil {
		return "", fmt.Errorf("failed to parse docx body: %w", err)
	}

	return strings.Join(paragraphs, "\n"), nil
}

// bodyParagraphs returns the text of every w:p that is a direct child of
// w:body, in document order. Empty paragraphs are kept as empty strings.
// Table cells and text boxes are not body paragraphs and are skipped.
func bodyParagraphs(content string) ([]string, error) {
	decoder := xml.NewDecoder(strings.NewReader(content))

	var (
		paragraphs []string
		current    strings.Builder
		stack      []string
		// depth of the stack at which the current body paragraph was opened
		paraDepth int
		inText    bool
	)

	inBodyParagraph := func() bool {
		return paraDepth > 0
	}

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			switch t.Name.Local {
			case "p":
				if !inBodyParagraph() && parentIs(stack, "body") {
					paraDepth = len(stack)
					current.Reset()
				}
			case "t":
				inText = inBodyParagraph() && innermostParagraph(stack) == paraDepth
			case "tab":
				if inBodyParagraph() && innermostParagraph(stack) == paraDepth {
					current.WriteString("\t")
				}
			case "br", "cr":
				if inBodyParagraph() && innermostParagraph(stack) == paraDepth && !isPageBreak(t) {
					current.WriteString("\n")
				}
			}
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unbalanced element %q", t.Name.Local)
			}
			if t.Name.Local == "t" {
				inText = false
			}
			if t.Name.Local == "p" && len(stack) == paraDepth {
				paragraphs = append(paragraphs, current.String())
				paraDepth = 0
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	if paraDepth != 0 {
		return nil, errors.New("unterminated paragraph")
	}

	return paragraphs, nil
}

func parentIs(stack []string, name string) bool {
	return len(stack) >= 2 && stack[len(stack)-2] == name
}

// innermostParagraph returns the stack depth of the closest enclosing w:p.
func innermostParagraph(stack []string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == "p" {
			return i + 1
		}
	}
	return 0
}

func isPageBreak(el xml.StartElement) bool {
	for _, attr := range el.Attr {
		if attr.Name.Local == "type" && attr.Value == "page" {
			return true
		}
	}
	return false
}
