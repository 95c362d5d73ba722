package filtering

import (
	"github.com/spigell/ats-matcher/internal/skills"
	"go.uber.org/zap"
)

// Filter represents a single cleanup step applied to an extracted skill list.
type Filter interface {
	Name() string
	Apply(list skills.List) (skills.List, Step)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

func newStep(initial, left int) Step {
	return Step{Initial: initial, Dropped: initial - left, Left: left}
}

// Default returns the cleanup steps applied to every model answer.
func Default() []Filter {
	return []Filter{
		NewTrim(),
		NewDropEmpty(),
		NewDropLong(defaultMaxSkillRunes),
		NewLowercase(),
		NewDedupe(),
		NewLimit(defaultMaxSkills),
	}
}

// Run executes the supplied filters sequentially and returns the resulting list.
func Run(logger *zap.Logger, steps []Filter, list skills.List) skills.List {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, step := range steps {
		next, info := step.Apply(list)

		if info.Dropped > 0 {
			logger.Debug("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		list = next
	}

	if list == nil {
		list = skills.List{}
	}

	return list
}
