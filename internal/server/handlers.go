package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/spigell/ats-matcher/internal/analysis"
	"github.com/spigell/ats-matcher/internal/jobpost"
	"go.uber.org/zap"
)

const (
	fieldResume         = "resume"
	fieldJobDescription = "job_description"
	fieldJobURL         = "job_url"
	fieldFirstResume    = "resume_a"
	fieldSecondResume   = "resume_b"

	genericErrorMessage = "Unexpected error occurred."
)

var errPanic = errors.New("handler panic")

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "index.html", pageView{RequestID: requestID(r)})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	report, err := s.analyze(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "result.html", newPageView(r, report))
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	report, err := s.compare(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "result.html", newPageView(r, report))
}

func (s *Server) handleAPIAnalyze(w http.ResponseWriter, r *http.Request) {
	report, err := s.analyze(w, r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, report)
}

func (s *Server) handleAPICompare(w http.ResponseWriter, r *http.Request) {
	report, err := s.compare(w, r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, report)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) (*analysis.Report, error) {
	if err := s.parseForm(w, r); err != nil {
		return nil, err
	}

	resume, err := readDocument(r, fieldResume)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	jobDescription, err := s.jobDescription(ctx, r)
	if err != nil {
		return nil, err
	}

	requestLogger(r).Info("analyzing resume against job description",
		zap.String("file", resume.Name),
		zap.Int("file_size", len(resume.Data)),
		zap.Int("job_description_length", len(jobDescription)),
	)

	return s.analyzer.AnalyzeJob(ctx, resume, jobDescription), nil
}

func (s *Server) compare(w http.ResponseWriter, r *http.Request) (*analysis.Report, error) {
	if err := s.parseForm(w, r); err != nil {
		return nil, err
	}

	first, err := readDocument(r, fieldFirstResume)
	if err != nil {
		return nil, err
	}

	second, err := readDocument(r, fieldSecondResume)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	requestLogger(r).Info("comparing resumes",
		zap.String("first", first.Name),
		zap.String("second", second.Name),
	)

	return s.analyzer.CompareResumes(ctx, first, second), nil
}

func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return &ErrTooLarge{Limit: s.cfg.MaxUploadBytes}
		}
		return &ErrValidation{Field: "form", Message: "Expected a multipart form upload."}
	}

	return nil
}

func (s *Server) jobDescription(ctx context.Context, r *http.Request) (string, error) {
	if text := jobpost.Clean(r.FormValue(fieldJobDescription)); text != "" {
		return text, nil
	}

	rawURL := strings.TrimSpace(r.FormValue(fieldJobURL))
	if rawURL == "" {
		return "", &ErrValidation{Field: fieldJobDescription, Message: "Please paste a job description."}
	}

	if s.fetcher == nil {
		return "", &ErrValidation{Field: fieldJobURL, Message: "Fetching job postings by URL is disabled."}
	}

	text, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		requestLogger(r).Warn("fetching job posting failed", zap.String("url", rawURL), zap.Error(err))
		return "", &ErrValidation{Field: fieldJobURL, Message: "Could not fetch the job posting."}
	}

	if text == "" {
		return "", &ErrValidation{Field: fieldJobURL, Message: "The job posting page has no readable text."}
	}

	return text, nil
}

func readDocument(r *http.Request, field string) (analysis.Document, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return analysis.Document{}, &ErrValidation{Field: field, Message: fmt.Sprintf("Please upload a file in %q.", field)}
		}
		return analysis.Document{}, fmt.Errorf("read form file %s: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return analysis.Document{}, fmt.Errorf("read form file %s: %w", field, err)
	}

	return analysis.Document{Name: filepath.Base(header.Filename), Data: data}, nil
}
