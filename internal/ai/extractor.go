package ai

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spigell/ats-matcher/internal/filtering"
	"github.com/spigell/ats-matcher/internal/skills"
	"github.com/spigell/ats-matcher/internal/utils"
	"go.uber.org/zap"
)

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	// Résumés and postings beyond this size are cut before prompting.
	defaultMaxTextRunes = 12000
)

// Extractor asks a Generator for the skills mentioned in a text.
type Extractor struct {
	generator    Generator
	logger       *zap.Logger
	maxLogLen    int
	maxTextRunes int
	steps        []filtering.Filter
}

func NewExtractor(generator Generator, maxLogLength int, logger *zap.Logger) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		generator:    generator,
		logger:       logger,
		maxLogLen:    maxLogLength,
		maxTextRunes: defaultMaxTextRunes,
		steps:        filtering.Default(),
	}
}

// ExtractSkills returns the skills found in text. label names the kind of
// document ("resume", "job description") and is interpolated into the prompt.
func (e *Extractor) ExtractSkills(ctx context.Context, text, label string) skills.List {
	label = strings.TrimSpace(label)
	logger := e.logger.With(zap.String("source", label))

	text = strings.TrimSpace(text)
	if text == "" {
		logger.Info("no text to extract skills from")
		return skills.List{}
	}

	if runes := utf8.RuneCountInString(text); runes > e.maxTextRunes {
		logger.Warn("text is too long, truncating before prompting",
			zap.Int("text_length", runes),
			zap.Int("limit", e.maxTextRunes),
		)
		text = string([]rune(text)[:e.maxTextRunes])
	}

	prompt := buildPrompt(text, label)

	logger.Debug("generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		logger.Warn("skill extraction failed, treating as no skills", zap.Error(err))
		return skills.List{}
	}

	logger.Debug("generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	list, err := parseSkills(raw)
	if err != nil {
		logger.Warn("malformed skill response, treating as no skills",
			zap.Error(err),
			zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
		)
		return skills.List{}
	}

	list = filtering.Run(logger, e.steps, list)
	logger.Info("skills extracted", zap.Int("count", len(list)))

	return list
}

func buildPrompt(text, label string) string {
	if label == "" {
		label = "document"
	}
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Extract the skills from this {{SOURCE}} as JSON {\"skills\": [...]}.\n\nText:\n{{TEXT}}"
	}
	prompt := strings.ReplaceAll(template, "{{SOURCE}}", label)
	prompt = strings.ReplaceAll(prompt, "{{TEXT}}", text)
	return prompt
}

// parseSkills reads {"skills": [...]} from a model answer. A missing or
// non-array "skills" key is an empty list, not an error.
func parseSkills(raw string) (skills.List, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse skills response: %w", err)
	}

	items, ok := data["skills"].([]any)
	if !ok {
		return skills.List{}, nil
	}

	list := make(skills.List, 0, len(items))
	for _, item := range items {
		if s := coerceString(item); s != "" {
			list = append(list, s)
		}
	}

	return list, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	// Some models wrap the object in a sentence despite the instructions.
	if !strings.HasPrefix(raw, "{") {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start != -1 && end > start {
			raw = raw[start : end+1]
		}
	}
	return raw
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case map[string]any:
		// {"name": "go"} shaped entries
		if name, ok := val["name"].(string); ok {
			return strings.TrimSpace(name)
		}
		return ""
	default:
		return ""
	}
}
