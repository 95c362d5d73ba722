package skills

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	got := Normalize(List{"  Python ", "SQL", "python", "", "   ", "Go"})
	want := List{"python", "sql", "go"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if empty := Normalize(nil); len(empty) != 0 {
		t.Fatalf("expected empty list, got %v", empty)
	}
}

func TestMatchJobDescriptionScenario(t *testing.T) {
	t.Parallel()

	jd := List{"python", "sql", "communication"}
	resume := List{"Python", "Excel"}

	result := MatchJobDescription(resume, jd)

	if !reflect.DeepEqual(result.Matched, List{"python"}) {
		t.Fatalf("unexpected matched: %v", result.Matched)
	}
	if !reflect.DeepEqual(result.Missing, List{"communication", "sql"}) {
		t.Fatalf("unexpected missing: %v", result.Missing)
	}
	if result.Score != 33 {
		t.Fatalf("expected score 33, got %d", result.Score)
	}
}

func TestMatchScores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		candidate List
		reference List
		mode      Mode
		score     int
		matched   List
		missing   List
	}{
		{
			name:    "both empty job description",
			mode:    ModeJobDescription,
			score:   0,
			matched: List{},
			missing: List{},
		},
		{
			name:    "both empty resumes",
			mode:    ModeResume,
			score:   0,
			matched: List{},
			missing: List{},
		},
		{
			name:      "empty job description ignores resume",
			candidate: List{"go", "sql"},
			mode:      ModeJobDescription,
			score:     0,
			matched:   List{},
			missing:   List{},
		},
		{
			name:      "empty resume gives all missing",
			reference: List{"go", "sql"},
			mode:      ModeJobDescription,
			score:     0,
			matched:   List{},
			missing:   List{"go", "sql"},
		},
		{
			name:      "one side empty in resume comparison",
			reference: List{"go"},
			mode:      ModeResume,
			score:     0,
			matched:   List{},
			missing:   List{"go"},
		},
		{
			name:      "resume comparison uses larger list",
			candidate: List{"go", "sql", "docker", "kubernetes"},
			reference: List{"Go", "SQL"},
			mode:      ModeResume,
			score:     50,
			matched:   List{"go", "sql"},
			missing:   List{},
		},
		{
			name:      "floors instead of rounding",
			candidate: List{"a", "b"},
			reference: List{"a", "b", "c"},
			mode:      ModeJobDescription,
			score:     66,
			matched:   List{"a", "b"},
			missing:   List{"c"},
		},
		{
			name:      "duplicates do not inflate the denominator",
			candidate: List{"go"},
			reference: List{"Go", "go", "GO "},
			mode:      ModeJobDescription,
			score:     100,
			matched:   List{"go"},
			missing:   List{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Match(tt.candidate, tt.reference, tt.mode)
			if got.Score != tt.score {
				t.Fatalf("expected score %d, got %d", tt.score, got.Score)
			}
			if !reflect.DeepEqual(got.Matched, tt.matched) {
				t.Fatalf("expected matched %v, got %v", tt.matched, got.Matched)
			}
			if !reflect.DeepEqual(got.Missing, tt.missing) {
				t.Fatalf("expected missing %v, got %v", tt.missing, got.Missing)
			}
		})
	}
}

func TestMatchProperties(t *testing.T) {
	t.Parallel()

	lists := []List{
		nil,
		{"Go"},
		{"go", "sql", "docker"},
		{"SQL", "Excel", "communication", "go"},
		{"python", "python", "Rust"},
	}

	for _, a := range lists {
		for _, b := range lists {
			for _, mode := range []Mode{ModeJobDescription, ModeResume} {
				ab := Match(a, b, mode)
				ba := Match(b, a, mode)

				if !reflect.DeepEqual(ab.Matched, ba.Matched) {
					t.Fatalf("matched is not symmetric for %v / %v: %v vs %v", a, b, ab.Matched, ba.Matched)
				}

				aSet, bSet := a.Set(), b.Set()
				for _, skill := range ab.Matched {
					if _, ok := aSet[skill]; !ok {
						t.Fatalf("matched skill %q not in %v", skill, a)
					}
					if _, ok := bSet[skill]; !ok {
						t.Fatalf("matched skill %q not in %v", skill, b)
					}
				}

				for _, skill := range ab.Missing {
					if _, ok := bSet[skill]; !ok {
						t.Fatalf("missing skill %q not in reference %v", skill, b)
					}
					if _, ok := aSet[skill]; ok {
						t.Fatalf("missing skill %q is present in candidate %v", skill, a)
					}
				}

				if len(bSet) == 0 && ab.Score != 0 {
					t.Fatalf("expected zero score for empty reference, got %d", ab.Score)
				}

				if ab.Score < 0 || ab.Score > 100 {
					t.Fatalf("score out of range: %d", ab.Score)
				}
			}
		}
	}
}

func TestMatchIdenticalSets(t *testing.T) {
	t.Parallel()

	a := List{"Go", "SQL", "docker"}
	b := List{"docker", "go", "sql", "Go"}

	for _, mode := range []Mode{ModeJobDescription, ModeResume} {
		result := Match(a, b, mode)
		if result.Score != 100 {
			t.Fatalf("%s: expected score 100, got %d", mode, result.Score)
		}
		if len(result.Missing) != 0 {
			t.Fatalf("%s: expected no missing skills, got %v", mode, result.Missing)
		}
		if !reflect.DeepEqual(result.Matched, List{"docker", "go", "sql"}) {
			t.Fatalf("%s: unexpected matched %v", mode, result.Matched)
		}
	}
}
