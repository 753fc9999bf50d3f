package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/fields"
	"github.com/spigell/resume-ranker/internal/jobdesc"
	"github.com/spigell/resume-ranker/internal/logger"
	"github.com/spigell/resume-ranker/internal/nlp"
	"github.com/spigell/resume-ranker/internal/pipeline"
	"github.com/spigell/resume-ranker/internal/report"
	"github.com/spigell/resume-ranker/internal/skills"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"

	OutputText = "text"
	OutputJSON = "json"

	missingInputHint = "Please upload at least one resume and paste a job description."
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptYes, PromptNo},
}

var rankCmd = &cobra.Command{
	Use:   "rank [resume files...]",
	Short: "Rank resumes (pdf, docx) against a job description",
	Run: func(cmd *cobra.Command, args []string) {
		rank(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringP("job-description", "t", "", "job description text")
	rankCmd.Flags().StringP("job-description-file", "f", "", "file with the job description. Takes precedence over --job-description")
	rankCmd.Flags().StringP("skills-file", "s", "", "skill vocabulary file (json or one skill per line). Default is the built-in list")
	rankCmd.Flags().StringP("output", "o", OutputText, "output format: text or json")
	rankCmd.Flags().Bool("dump", false, "dump the json report to a temporary file")
	rankCmd.Flags().BoolP("interactive", "i", false, "ask for missing input and confirmation")
	rankCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation in interactive mode")

	for _, name := range []string{"job-description", "job-description-file", "skills-file", "output", "dump"} {
		viper.BindPFlag(name, rankCmd.Flags().Lookup(name))
	}
}

// rank is the main command for the cli.
func rank(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-ranker", zap.String("version", version))

	output := strings.ToLower(strings.TrimSpace(config.Output))
	if output != OutputText && output != OutputJSON {
		logger.Fatal("unsupported output format", zap.String("output", config.Output))
	}

	interactive := flagIsSet(cmd, "interactive")

	jd, err := resolveJobDescription(config, interactive)
	if err != nil && !errors.Is(err, jobdesc.ErrMissing) {
		logger.Fatal("loading job description", zap.Error(err))
	}

	docs, err := readDocuments(append(args, config.Resumes...))
	if err != nil {
		logger.Fatal("reading resumes", zap.Error(err))
	}

	if len(docs) == 0 || jd == "" {
		warnMissingInput(logger, &pipeline.MissingInputError{Documents: len(docs) == 0, JobDescription: jd == ""})
		return
	}

	vocabulary, err := loadVocabulary(config.SkillsFile, logger)
	if err != nil {
		logger.Fatal("loading skills vocabulary", zap.Error(err))
	}

	model, err := nlp.NewModel()
	if err != nil {
		logger.Fatal("loading language model", zap.Error(err))
	}

	if interactive && !flagIsSet(cmd, "auto-approve") {
		if err := confirm(logger, len(docs)); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}

	p := pipeline.New(pipeline.Deps{
		Extractor: fields.New(vocabulary, model),
		Model:     model,
		Logger:    logger,
	})

	result, err := p.Run(ctx, docs, jd)
	if err != nil {
		var missing *pipeline.MissingInputError
		if errors.As(err, &missing) {
			warnMissingInput(logger, missing)
			return
		}
		logger.Fatal("ranking resumes", zap.Error(err))
	}

	if err := render(cmd.OutOrStdout(), output, result); err != nil {
		logger.Fatal("rendering report", zap.Error(err))
	}

	if config.Dump {
		filename, err := report.DumpToTmpFile(result)
		if err != nil {
			logger.Fatal("dump results to file", zap.Error(err))
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
	}
}

func flagIsSet(cmd *cobra.Command, name string) bool {
	flag := cmd.Flag(name)
	return flag != nil && strings.EqualFold(flag.Value.String(), "true")
}

func warnMissingInput(logger *zap.Logger, missing *pipeline.MissingInputError) {
	logger.Warn("missing input",
		zap.Bool("resumes_missing", missing.Documents),
		zap.Bool("job_description_missing", missing.JobDescription),
		zap.String("hint", missingInputHint),
	)
}

func resolveJobDescription(config *Config, interactive bool) (string, error) {
	jd, err := jobdesc.Load(jobdesc.Source{
		Name:  "job description",
		Value: config.JobDescription,
		File:  config.JobDescriptionFile,
	})
	if err == nil || !interactive || !errors.Is(err, jobdesc.ErrMissing) {
		return jd, err
	}

	jdPrompt := promptui.Prompt{Label: "Paste the job description"}
	value, err := jdPrompt.Run()
	if err != nil {
		return "", fmt.Errorf("reading job description: %w", err)
	}

	return jobdesc.Load(jobdesc.Source{Name: "job description", Value: value})
}

func confirm(logger *zap.Logger, count int) error {
	logger.Info("ready to rank resumes", zap.Int("count", count))

	_, action, err := prompt.Run()
	if err != nil {
		return err
	}

	switch action {
	case PromptYes:
		return nil
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// readDocuments loads every file into memory. Blank paths are skipped.
func readDocuments(paths []string) ([]pipeline.Document, error) {
	docs := make([]pipeline.Document, 0, len(paths))
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading resume %q: %w", path, err)
		}

		docs = append(docs, pipeline.Document{Filename: filepath.Base(path), Data: data})
	}
	return docs, nil
}

func loadVocabulary(path string, logger *zap.Logger) (*skills.Vocabulary, error) {
	var (
		vocabulary *skills.Vocabulary
		err        error
	)

	path = strings.TrimSpace(path)
	if path == "" {
		vocabulary, err = skills.Default()
	} else {
		vocabulary, err = skills.Load(path)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("skills vocabulary loaded", zap.Int("count", vocabulary.Len()), zap.String("file", path))

	if multi := vocabulary.MultiWord(); len(multi) > 0 {
		logger.Warn("multi-word skills are matched per token and will never be found",
			zap.Strings("skills", multi),
		)
	}

	return vocabulary, nil
}

func render(w io.Writer, output string, result *pipeline.Report) error {
	switch output {
	case OutputJSON:
		return report.WriteJSON(w, result)
	case OutputText:
		return report.WriteText(w, result)
	default:
		return fmt.Errorf("unsupported output format: %s", output)
	}
}
