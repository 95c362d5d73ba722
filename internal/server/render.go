package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/spigell/ats-matcher/internal/analysis"
	"github.com/spigell/ats-matcher/internal/skills"
	"go.uber.org/zap"
)

var templateFuncs = map[string]any{
	"join": func(list skills.List) string { return strings.Join(list, ", ") },
}

type pageView struct {
	Report    *analysis.Report
	Compare   bool
	Error     string
	RequestID string
}

func newPageView(r *http.Request, report *analysis.Report) pageView {
	return pageView{
		Report:    report,
		Compare:   report != nil && report.Mode == skills.ModeResume,
		RequestID: requestID(r),
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, view pageView) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, view); err != nil {
		requestLogger(r).Error("render template failed", zap.String("template", name), zap.Error(err))
		http.Error(w, genericErrorMessage, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// fail reports err in the format the route speaks: JSON under /api/, HTML otherwise.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		s.errorResponse(w, r, err)
		return
	}

	status := HTTPStatus(err)
	s.logFailure(r, status, err)
	s.render(w, r, status, "index.html", pageView{Error: publicMessage(err), RequestID: requestID(r)})
}

func (s *Server) jsonResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		requestLogger(r).Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	s.logFailure(r, status, err)

	s.jsonResponse(w, r, status, map[string]string{
		"error":      publicMessage(err),
		"request_id": requestID(r),
	})
}

func (s *Server) logFailure(r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		requestLogger(r).Error("request failed", zap.Int("status", status), zap.Error(err))
		return
	}
	requestLogger(r).Info("request rejected", zap.Int("status", status), zap.Error(err))
}
