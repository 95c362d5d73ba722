// Package analysis wires text extraction, skill extraction and scoring
// into the two user-facing operations.
package analysis

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spigell/ats-matcher/internal/ai"
	"github.com/spigell/ats-matcher/internal/skills"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	LabelResume         = "resume"
	LabelJobDescription = "job description"
)

// TextExtractor turns an uploaded file into plain text, or "" on failure.
type TextExtractor interface {
	Extract(name string, data []byte) string
}

// Document is an uploaded file.
type Document struct {
	Name string
	Data []byte
}

// Report is the outcome of one analysis request.
type Report struct {
	Mode            skills.Mode `json:"mode"`
	CandidateLabel  string      `json:"candidate_label"`
	ReferenceLabel  string      `json:"reference_label"`
	CandidateSkills skills.List `json:"candidate_skills"`
	ReferenceSkills skills.List `json:"reference_skills"`
	CandidateLength int         `json:"candidate_text_length"`
	ReferenceLength int         `json:"reference_text_length"`
	skills.Result
}

// Service runs analyses with injected extraction collaborators.
type Service struct {
	texts  TextExtractor
	skills ai.SkillExtractor
	logger *zap.Logger
}

func NewService(texts TextExtractor, extractor ai.SkillExtractor, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{texts: texts, skills: extractor, logger: logger}
}

// AnalyzeJob scores a résumé against a job description.
func (s *Service) AnalyzeJob(ctx context.Context, resume Document, jobDescription string) *Report {
	resumeText := s.texts.Extract(resume.Name, resume.Data)
	if resumeText == "" {
		s.logger.Warn("no text extracted from resume", zap.String("file", resume.Name))
	}

	return s.run(ctx, skills.ModeJobDescription,
		side{label: LabelResume, name: resume.Name, text: resumeText},
		side{label: LabelJobDescription, text: strings.TrimSpace(jobDescription)},
	)
}

// CompareResumes scores the first résumé against the second one.
func (s *Service) CompareResumes(ctx context.Context, first, second Document) *Report {
	firstText := s.texts.Extract(first.Name, first.Data)
	secondText := s.texts.Extract(second.Name, second.Data)

	for _, d := range []struct {
		name string
		text string
	}{{first.Name, firstText}, {second.Name, secondText}} {
		if d.text == "" {
			s.logger.Warn("no text extracted from resume", zap.String("file", d.name))
		}
	}

	return s.run(ctx, skills.ModeResume,
		side{label: LabelResume, name: first.Name, text: firstText},
		side{label: LabelResume, name: second.Name, text: secondText},
	)
}

type side struct {
	label string
	name  string
	text  string
}

func (s *Service) run(ctx context.Context, mode skills.Mode, candidate, reference side) *Report {
	start := time.Now()

	var candidateSkills, referenceSkills skills.List

	// Extractors never fail, the group only runs both calls side by side.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		candidateSkills = s.skills.ExtractSkills(gctx, candidate.text, candidate.label)
		return nil
	})
	g.Go(func() error {
		referenceSkills = s.skills.ExtractSkills(gctx, reference.text, reference.label)
		return nil
	})
	_ = g.Wait()

	candidateSkills = skills.Normalize(candidateSkills)
	referenceSkills = skills.Normalize(referenceSkills)

	report := &Report{
		Mode:            mode,
		CandidateLabel:  displayLabel(candidate),
		ReferenceLabel:  displayLabel(reference),
		CandidateSkills: candidateSkills,
		ReferenceSkills: referenceSkills,
		CandidateLength: utf8.RuneCountInString(candidate.text),
		ReferenceLength: utf8.RuneCountInString(reference.text),
		Result:          skills.Match(candidateSkills, referenceSkills, mode),
	}

	s.logger.Info("analysis finished",
		zap.String("mode", string(mode)),
		zap.Int("candidate_skills", len(candidateSkills)),
		zap.Int("reference_skills", len(referenceSkills)),
		zap.Int("matched", len(report.Matched)),
		zap.Int("missing", len(report.Missing)),
		zap.Int("score", report.Score),
		zap.Duration("elapsed", time.Since(start)),
	)

	return report
}

func displayLabel(s side) string {
	if s.name != "" {
		return s.name
	}
	return s.label
}
