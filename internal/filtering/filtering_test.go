package filtering

import (
	"reflect"
	"strings"
	"testing"

	"github.com/spigell/ats-matcher/internal/skills"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultPipeline(t *testing.T) {
	raw := skills.List{
		" Python ",
		"- SQL.",
		"python",
		"",
		"   ",
		"• Communication;",
		strings.Repeat("x", defaultMaxSkillRunes+1),
	}

	got := Run(zap.NewNop(), Default(), raw)
	want := skills.List{"python", "sql", "communication"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRunLogsDroppingSteps(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)

	Run(zap.New(core), []Filter{NewLowercase(), NewDedupe()}, skills.List{"Go", "go"})

	entries := observed.FilterMessage("filter step").All()
	if len(entries) != 1 {
		t.Fatalf("expected a single filter step entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx["name"] != "dedupe" || ctx["dropped"] != int64(1) || ctx["left"] != int64(1) {
		t.Fatalf("unexpected context: %v", ctx)
	}
}

func TestRunReturnsEmptyListForNil(t *testing.T) {
	got := Run(nil, Default(), nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
}

func TestSteps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter Filter
		input  skills.List
		want   skills.List
		step   Step
	}{
		{
			name:   "limit",
			filter: NewLimit(2),
			input:  skills.List{"a", "b", "c"},
			want:   skills.List{"a", "b"},
			step:   Step{Initial: 3, Dropped: 1, Left: 2},
		},
		{
			name:   "limit disabled",
			filter: NewLimit(0),
			input:  skills.List{"a", "b", "c"},
			want:   skills.List{"a", "b", "c"},
			step:   Step{Initial: 3, Left: 3},
		},
		{
			name:   "drop long",
			filter: NewDropLong(3),
			input:  skills.List{"go", "java", "sql"},
			want:   skills.List{"go", "sql"},
			step:   Step{Initial: 3, Dropped: 1, Left: 2},
		},
		{
			name:   "trim keeps inner punctuation",
			filter: NewTrim(),
			input:  skills.List{" node.js. ", "c++", "* ci/cd"},
			want:   skills.List{"node.js", "c++", "ci/cd"},
			step:   Step{Initial: 3, Left: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, step := tt.filter.Apply(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if step != tt.step {
				t.Fatalf("expected step %+v, got %+v", tt.step, step)
			}
		})
	}
}
