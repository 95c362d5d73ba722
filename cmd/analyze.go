package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spigell/ats-matcher/internal/analysis"
	"github.com/spigell/ats-matcher/internal/jobpost"
	"github.com/spigell/ats-matcher/internal/logger"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	PromptPasteText = "Paste the job description"
	PromptFromFile  = "Load the job description from a file"
	PromptFromURL   = "Fetch the job posting by URL"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a resume against a job description",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("resume", "r", "", "resume file (PDF, DOCX or plain text)")
	analyzeCmd.Flags().String("job-description", "", "job description text")
	analyzeCmd.Flags().String("job-description-file", "", "file with the job description (text or HTML)")
	analyzeCmd.Flags().String("job-url", "", "job posting URL to fetch the description from")
	analyzeCmd.Flags().StringP("output", "o", outputText, "output format: text or json")

	analyzeCmd.MarkFlagRequired("resume")
	analyzeCmd.MarkFlagsMutuallyExclusive("job-description", "job-description-file", "job-url")
}

// jobSource holds the job description flags; at most one is set.
type jobSource struct {
	Text string
	File string
	URL  string
}

func analyze(cmd *cobra.Command) error {
	ctx := cmd.Context()

	format, _ := cmd.Flags().GetString("output")
	if err := validateOutput(format); err != nil {
		return err
	}

	config, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	resumePath, _ := cmd.Flags().GetString("resume")
	resume, err := readDocument(resumePath)
	if err != nil {
		return err
	}

	var src jobSource
	src.Text, _ = cmd.Flags().GetString("job-description")
	src.File, _ = cmd.Flags().GetString("job-description-file")
	src.URL, _ = cmd.Flags().GetString("job-url")

	if src == (jobSource{}) {
		src, err = askJobSource(cmd.InOrStdin(), cmd.OutOrStderr())
		if err != nil {
			return err
		}
	}

	fetcher := jobpost.NewFetcher(logger.WithComponent(log, "jobpost"))
	jobDescription, err := resolveJobDescription(ctx, src, fetcher)
	if err != nil {
		return err
	}

	service, err := newAnalysisService(ctx, config.AI, log)
	if err != nil {
		return err
	}

	log.Debug("analyzing resume", zap.String("file", resume.Name), zap.Int("job_description_length", len(jobDescription)))

	return writeReport(cmd.OutOrStdout(), format, service.AnalyzeJob(ctx, resume, jobDescription))
}

type fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

func resolveJobDescription(ctx context.Context, src jobSource, f fetcher) (string, error) {
	var text string

	switch {
	case strings.TrimSpace(src.Text) != "":
		text = jobpost.Clean(src.Text)
	case src.File != "":
		data, err := os.ReadFile(src.File)
		if err != nil {
			return "", fmt.Errorf("reading job description: %w", err)
		}
		text = jobpost.Clean(string(data))
	case src.URL != "":
		fetched, err := f.Fetch(ctx, src.URL)
		if err != nil {
			return "", fmt.Errorf("fetching job posting: %w", err)
		}
		text = fetched
	}

	if text == "" {
		return "", errors.New("job description is empty")
	}

	return text, nil
}

// askJobSource prompts for the job description on a terminal, and reads it
// from in when input is piped.
func askJobSource(in io.Reader, out io.Writer) (jobSource, error) {
	if !isTerminal(in) {
		data, err := io.ReadAll(in)
		if err != nil {
			return jobSource{}, fmt.Errorf("reading job description from stdin: %w", err)
		}
		return jobSource{Text: string(data)}, nil
	}

	_, choice, err := sourceSelect(in, out).Run()
	if err != nil {
		return jobSource{}, err
	}

	value, err := valuePrompt(choice, in, out).Run()
	if err != nil {
		return jobSource{}, err
	}

	return sourceFromChoice(choice, value), nil
}

func sourceSelect(in io.Reader, out io.Writer) *promptui.Select {
	return &promptui.Select{
		Label:  "Where is the job description?",
		Items:  []string{PromptPasteText, PromptFromFile, PromptFromURL},
		Stdin:  io.NopCloser(in),
		Stdout: nopWriteCloser{out},
	}
}

func valuePrompt(choice string, in io.Reader, out io.Writer) *promptui.Prompt {
	label := "Job description"
	switch choice {
	case PromptFromFile:
		label = "File"
	case PromptFromURL:
		label = "URL"
	}

	return &promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("must not be empty")
			}
			return nil
		},
		Stdin:  io.NopCloser(in),
		Stdout: nopWriteCloser{out},
	}
}

func sourceFromChoice(choice, value string) jobSource {
	value = strings.TrimSpace(value)
	switch choice {
	case PromptFromFile:
		return jobSource{File: value}
	case PromptFromURL:
		return jobSource{URL: value}
	default:
		return jobSource{Text: value}
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func readDocument(path string) (analysis.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return analysis.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return analysis.Document{Name: filepath.Base(path), Data: data}, nil
}
