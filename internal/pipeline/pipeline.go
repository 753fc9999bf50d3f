// Package pipeline runs a batch of resumes through text extraction, field
// extraction and similarity ranking.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/document"
	"github.com/spigell/resume-ranker/internal/fields"
	"github.com/spigell/resume-ranker/internal/logger"
	"github.com/spigell/resume-ranker/internal/nlp"
	"github.com/spigell/resume-ranker/internal/ranking"
	"github.com/spigell/resume-ranker/internal/utils"
)

const previewLength = 80

// Document is one uploaded file.
type Document struct {
	Filename string
	Data     []byte
}

// Profile is the candidate view built from a single resume.
type Profile struct {
	Filename   string
	Name       string
	Email      string
	Phone      string
	Skills     []string
	RawText    string
	Similarity float64
	// Scored is set once the similarity of the whole batch is computed.
	Scored bool
}

// Result is the outcome of processing one document: either a profile or an error.
type Result struct {
	Filename string
	Profile  *Profile
	Err      error
}

// Failure records a document excluded from the ranking.
type Failure struct {
	Filename string
	Err      error
}

// Report is the outcome of a run.
type Report struct {
	RunID string
	// Ranked holds the profiles by descending similarity; ties keep input order.
	Ranked   []*Profile
	Failures []Failure
	// Results holds the per-document outcomes in input order.
	Results []Result
}

// MissingInputError is returned when there is nothing to rank.
type MissingInputError struct {
	Documents      bool
	JobDescription bool
}

func (e *MissingInputError) Error() string {
	var missing []string
	if e.Documents {
		missing = append(missing, "resumes")
	}
	if e.JobDescription {
		missing = append(missing, "job description")
	}
	return fmt.Sprintf("missing input: %s", strings.Join(missing, " and "))
}

// Deps aggregates the collaborators of the pipeline.
type Deps struct {
	Extractor *fields.Extractor
	Model     *nlp.Model
	Logger    *zap.Logger
}

// Pipeline ranks resumes. It holds no per-run state and can be reused.
type Pipeline struct {
	extractor *fields.Extractor
	model     *nlp.Model
	logger    *zap.Logger
}

// New returns a pipeline built from deps. A nil logger disables logging.
func New(deps Deps) *Pipeline {
	return &Pipeline{
		extractor: deps.Extractor,
		model:     deps.Model,
		logger:    logger.WithFields(deps.Logger),
	}
}

// Run processes the documents in order and ranks the parsed ones against the
// job description. Documents that fail to decode are reported as failures
// and do not stop the batch.
func (p *Pipeline) Run(ctx context.Context, docs []Document, jobDescription string) (*Report, error) {
	jobDescription = strings.TrimSpace(jobDescription)
	if len(docs) == 0 || jobDescription == "" {
		return nil, &MissingInputError{
			Documents:      len(docs) == 0,
			JobDescription: jobDescription == "",
		}
	}

	report := &Report{RunID: uuid.NewString()}
	log := logger.WithRun(p.logger, report.RunID)

	log.Info("starting the ranking",
		zap.Int("documents", len(docs)),
		zap.String("job_description", utils.PreviewForLog(jobDescription, previewLength)),
	)

	profiles := make([]*Profile, 0, len(docs))
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result := p.process(log, doc)
		report.Results = append(report.Results, result)

		if result.Err != nil {
			report.Failures = append(report.Failures, Failure{Filename: doc.Filename, Err: result.Err})
			continue
		}
		profiles = append(profiles, result.Profile)
	}

	log.Info("extraction step",
		zap.Int("initial", len(docs)),
		zap.Int("dropped", len(report.Failures)),
		zap.Int("left", len(profiles)),
	)

	p.score(profiles, jobDescription)
	ranking.Rank(profiles, func(profile *Profile) float64 { return profile.Similarity })
	report.Ranked = profiles

	log.Info("ranking step", zap.Int("ranked", len(report.Ranked)))

	return report, nil
}

func (p *Pipeline) process(log *zap.Logger, doc Document) Result {
	format := document.DetectFormat(doc.Filename)
	log = logger.WithDocument(log, doc.Filename, string(format))

	if format == document.FormatUnknown {
		log.Info("unsupported document format, ranking with empty text")
	}

	text, err := document.Extract(doc.Filename, doc.Data)
	if err != nil {
		var decodeErr *document.DecodeError
		if errors.As(err, &decodeErr) {
			log.Warn("skipping unreadable document", zap.Error(err))
		} else {
			log.Warn("skipping document", zap.Error(err))
		}
		return Result{Filename: doc.Filename, Err: err}
	}

	var found fields.Fields
	if p.extractor != nil {
		found = p.extractor.Extract(text)
	}

	log.Debug("document parsed",
		zap.String("name", found.Name),
		zap.Strings("skills", found.Skills),
		zap.String("text", utils.PreviewForLog(text, previewLength)),
	)

	return Result{
		Filename: doc.Filename,
		Profile: &Profile{
			Filename: doc.Filename,
			Name:     found.Name,
			Email:    found.Email,
			Phone:    found.Phone,
			Skills:   found.Skills,
			RawText:  text,
		},
	}
}

func (p *Pipeline) score(profiles []*Profile, jobDescription string) {
	texts := make([]string, len(profiles))
	for i, profile := range profiles {
		texts[i] = p.preprocess(profile.RawText)
	}

	scores := ranking.Scores(texts, p.preprocess(jobDescription))
	for i, profile := range profiles {
		profile.Similarity = scores[i]
		profile.Scored = true
	}
}

func (p *Pipeline) preprocess(text string) string {
	if p.model == nil {
		return strings.ToLower(text)
	}
	return p.model.Preprocess(text)
}
