package skills

// Mode selects which denominator the score is computed against.
type Mode string

const (
	// ModeJobDescription scores a résumé against the skills a job description asks for.
	ModeJobDescription Mode = "job-description"
	// ModeResume scores two résumés against each other.
	ModeResume Mode = "resume"
)

// Result is the outcome of comparing a candidate list with a reference list.
// Matched and Missing are sorted and free of duplicates.
type Result struct {
	Matched List `json:"matched"`
	Missing List `json:"missing"`
	Score   int  `json:"score"`
}

// Match compares candidate skills with reference skills.
//
// Missing always holds skills the reference has and the candidate lacks. For
// job matching the reference is the job description, for résumé comparison it
// is the second résumé. Score is floor(matched*100/denominator), where the
// denominator is the reference size in ModeJobDescription and the larger of
// both sizes in ModeResume. An empty denominator side yields 0.
func Match(candidate, reference List, mode Mode) Result {
	cand := Normalize(candidate)
	ref := Normalize(reference)
	candSet := cand.Set()
	refSet := ref.Set()

	matched := make(List, 0)
	missing := make(List, 0)

	for _, skill := range ref {
		if _, ok := candSet[skill]; ok {
			matched = append(matched, skill)
			continue
		}
		missing = append(missing, skill)
	}

	return Result{
		Matched: matched.Sorted(),
		Missing: missing.Sorted(),
		Score:   score(len(matched), denominator(len(candSet), len(refSet), mode)),
	}
}

// MatchJobDescription scores résumé skills against job description skills.
func MatchJobDescription(resume, jobDescription List) Result {
	return Match(resume, jobDescription, ModeJobDescription)
}

// CompareResumes scores the first résumé against the second one.
func CompareResumes(first, second List) Result {
	return Match(first, second, ModeResume)
}

func denominator(candidate, reference int, mode Mode) int {
	if mode == ModeResume {
		if candidate == 0 || reference == 0 {
			return 0
		}
		return max(candidate, reference)
	}
	return reference
}

func score(matched, denom int) int {
	if denom <= 0 {
		return 0
	}
	return matched * 100 / denom
}
