package ai

import (
	"context"

	"github.com/spigell/ats-matcher/internal/skills"
)

// Generator produces a completion for a single prompt. Implementations are
// expected to sample deterministically and ask the provider for JSON output.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// SkillExtractor turns free text into a skill list. It never fails: upstream
// errors and malformed answers come back as an empty list.
type SkillExtractor interface {
	ExtractSkills(ctx context.Context, text, label string) skills.List
}
