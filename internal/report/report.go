// Package report renders ranking results for the operator.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spigell/resume-ranker/internal/pipeline"
)

// Placeholder is shown for a name, email or phone that was not found in a resume.
const Placeholder = "N/A"

// Record is the rendered view of a single ranked candidate.
type Record struct {
	Rank       int     `json:"rank"`
	Filename   string  `json:"filename"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Skills     string  `json:"skills"`
	MatchScore float64 `json:"match_score"`
}

// Warning describes a document that was left out of the ranking.
type Warning struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// Output is the complete rendered report.
type Output struct {
	RunID      string    `json:"run_id"`
	Candidates []Record  `json:"candidates"`
	Warnings   []Warning `json:"warnings,omitempty"`
}

// Records converts profiles into records, keeping their order.
func Records(profiles []*pipeline.Profile) []Record {
	records := make([]Record, 0, len(profiles))
	for i, profile := range profiles {
		records = append(records, Record{
			Rank:       i + 1,
			Filename:   profile.Filename,
			Name:       orPlaceholder(profile.Name),
			Email:      orPlaceholder(profile.Email),
			Phone:      orPlaceholder(profile.Phone),
			Skills:     strings.Join(profile.Skills, ", "),
			MatchScore: profile.Similarity,
		})
	}
	return records
}

// Warnings converts failures into warnings.
func Warnings(failures []pipeline.Failure) []Warning {
	var warnings []Warning
	for _, failure := range failures {
		warnings = append(warnings, Warning{Filename: failure.Filename, Reason: failure.Err.Error()})
	}
	return warnings
}

// New builds the rendered report.
func New(r *pipeline.Report) *Output {
	return &Output{
		RunID:      r.RunID,
		Candidates: Records(r.Ranked),
		Warnings:   Warnings(r.Failures),
	}
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// WriteText writes a human readable block per candidate followed by the warnings.
func WriteText(w io.Writer, r *pipeline.Report) error {
	out := New(r)

	var b strings.Builder
	fmt.Fprintf(&b, "Ranked candidates (%d)\n", len(out.Candidates))
	for _, record := range out.Candidates {
		fmt.Fprintf(&b, "\n#%d %s\n", record.Rank, record.Filename)
		fmt.Fprintf(&b, "  Name: %s\n", record.Name)
		fmt.Fprintf(&b, "  Email: %s\n", record.Email)
		fmt.Fprintf(&b, "  Phone: %s\n", record.Phone)
		fmt.Fprintf(&b, "  Skills: %s\n", record.Skills)
		fmt.Fprintf(&b, "  Match Score: %.3f\n", record.MatchScore)
	}

	if len(out.Warnings) > 0 {
		b.WriteString("\nWarnings\n")
		for _, warning := range out.Warnings {
			fmt.Fprintf(&b, "  %s: %s\n", warning.Filename, warning.Reason)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r *pipeline.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(New(r))
}

// DumpToTmpFile writes the JSON report to a new temporary file and returns its name.
func DumpToTmpFile(r *pipeline.Report) (string, error) {
	file, err := os.CreateTemp("", "ranking_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := WriteJSON(file, r); err != nil {
		return "", err
	}
	return file.Name(), nil
}
