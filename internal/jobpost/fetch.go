// Package jobpost prepares job description text from pasted input or a posting URL.
package jobpost

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	userAgent       = "spigell/ats-matcher (+https://github.com/spigell/ats-matcher)"
	contentEncoding = "gzip"
	maxBodyBytes    = 5 << 20
)

// Fetcher downloads job postings.
type Fetcher struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
}

func NewFetcher(logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		UserAgent: userAgent,
	}
}

// Fetch downloads rawURL and returns the cleaned posting text.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("parse job url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported job url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.New("job url has no host")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "text/html,text/plain;q=0.9,*/*;q=0.5")
	req.Header.Set("Accept-Encoding", contentEncoding)

	f.logger.Debug("make request", zap.String("url", u.String()))

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch job posting: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(io.LimitReader(reader, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read job posting: %w", err)
	}

	text := Clean(string(data))
	f.logger.Info("fetched job posting",
		zap.String("url", u.String()),
		zap.Int("body_size", len(data)),
		zap.Int("text_length", len(text)),
	)

	return text, nil
}
