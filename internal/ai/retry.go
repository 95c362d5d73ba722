package ai

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spigell/ats-matcher/internal/utils"
	"go.uber.org/zap"
)

const (
	defaultBackoff  = time.Second
	defaultMaxDelay = 30 * time.Second
)

var retryDelayPattern = regexp.MustCompile(`(?i)(?:retry after|retry in|try again in)\s+([0-9][0-9.hms]*)`)

// Classifier reports whether err is worth another attempt and, if the
// provider said so, how long to wait first.
type Classifier func(err error) (temporary bool, delay time.Duration)

// Retrier repeats a provider call on temporary failures with linear backoff.
type Retrier struct {
	Attempts int
	Backoff  time.Duration
	// MaxDelay caps the provider-requested delay; longer requests abort.
	MaxDelay time.Duration
	Classify Classifier
	Logger   *zap.Logger
	Wait     func(ctx context.Context, d time.Duration) error
}

// NewRetrier returns a Retrier with default backoff settings.
func NewRetrier(attempts int, classify Classifier, logger *zap.Logger) Retrier {
	if attempts <= 0 {
		attempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return Retrier{
		Attempts: attempts,
		Backoff:  defaultBackoff,
		MaxDelay: defaultMaxDelay,
		Classify: classify,
		Logger:   logger,
		Wait:     utils.WaitFor,
	}
}

// Do calls fn until it succeeds, returns a permanent error or attempts run out.
func (r Retrier) Do(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	attempts := max(r.Attempts, 1)
	wait := r.Wait
	if wait == nil {
		wait = utils.WaitFor
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if attempt == attempts || r.Classify == nil {
			break
		}

		temporary, delay := r.Classify(err)
		if !temporary {
			break
		}

		maxDelay := r.MaxDelay
		if maxDelay <= 0 {
			maxDelay = defaultMaxDelay
		}
		if delay > maxDelay {
			logger.Warn("provider asked for a delay beyond the limit, giving up",
				zap.Duration("requested_delay", delay),
				zap.Duration("max_delay", maxDelay),
				zap.Error(err),
			)
			break
		}

		if delay <= 0 {
			delay = r.Backoff * time.Duration(attempt)
		}

		logger.Debug("retrying provider call",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if werr := wait(ctx, delay); werr != nil {
			return "", werr
		}
	}

	return "", lastErr
}

// ParseRetryDelay finds a "retry after N seconds" style hint in a provider
// message. Go duration syntax ("2m59.56s", "450ms") and bare numbers of
// seconds are understood.
func ParseRetryDelay(message string) time.Duration {
	match := retryDelayPattern.FindStringSubmatch(message)
	if match == nil {
		return 0
	}

	hint := strings.TrimRight(strings.ToLower(match[1]), ".")

	if d, err := time.ParseDuration(hint); err == nil {
		return d
	}

	value, err := strconv.ParseFloat(hint, 64)
	if err != nil {
		return 0
	}
	return time.Duration(value * float64(time.Second))
}
