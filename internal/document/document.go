// Package document extracts plain text from uploaded résumés.
//
// Extraction never fails from the caller's point of view: corrupt or
// unsupported files produce an empty string and a warning in the log.
package document

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Format is a supported input format.
type Format string

const (
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatText    Format = "text"
	FormatUnknown Format = "unknown"
)

var pdfMagic = []byte("%PDF-")

// Extractor converts documents into plain text.
type Extractor struct {
	logger *zap.Logger
}

func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract returns the text of data. name is the uploaded file name and is
// used to pick the format before falling back to content sniffing.
func (e *Extractor) Extract(name string, data []byte) string {
	format := Detect(name, data)
	logger := e.logger.With(
		zap.String("file", name),
		zap.String("format", string(format)),
		zap.Int("size", len(data)),
	)

	if len(data) == 0 {
		logger.Warn("empty document")
		return ""
	}

	var (
		text string
		err  error
	)

	switch format {
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatDOCX:
		text, err = extractDOCX(data)
	case FormatText:
		text = string(data)
	default:
		err = fmt.Errorf("unsupported document format")
	}

	if err != nil {
		logger.Warn("text extraction failed, treating as empty", zap.Error(err))
		return ""
	}

	text = strings.TrimSpace(text)
	logger.Info("extracted document text", zap.Int("text_length", utf8.RuneCountInString(text)))

	return text
}

// Detect guesses the format from the file extension, then from content.
func Detect(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	case ".txt", ".md":
		return FormatText
	}

	if bytes.HasPrefix(data, pdfMagic) {
		return FormatPDF
	}

	switch contentType := http.DetectContentType(data); {
	case strings.HasPrefix(contentType, "application/zip"):
		return FormatDOCX
	case strings.HasPrefix(contentType, "text/plain"):
		return FormatText
	}

	return FormatUnknown
}
