package talent

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/yoockh/talentscope/internal/models"
)

// Step reports how one criterion narrowed the set.
type Step struct {
	Name    string `json:"name"`
	Initial int    `json:"initial"`
	Dropped int    `json:"dropped"`
	Left    int    `json:"left"`
}

type predicate struct {
	name string
	keep func(models.Candidate) bool
}

// Filter keeps the candidates matching every non-empty criterion, in their
// original order. Empty criteria return items as is.
func Filter(items []models.Candidate, c models.FilterCriteria) []models.Candidate {
	out, _ := FilterSteps(items, c)
	return out
}

// FilterSteps is Filter plus a per-criterion report.
func FilterSteps(items []models.Candidate, c models.FilterCriteria) ([]models.Candidate, []Step) {
	preds := predicates(c)
	if len(preds) == 0 {
		return items, nil
	}

	cur := items
	steps := make([]Step, 0, len(preds))
	for _, p := range preds {
		next := make([]models.Candidate, 0, len(cur))
		for _, it := range cur {
			if p.keep(it) {
				next = append(next, it)
			}
		}
		steps = append(steps, Step{
			Name:    p.name,
			Initial: len(cur),
			Dropped: len(cur) - len(next),
			Left:    len(next),
		})
		cur = next
	}
	return cur, steps
}

func predicates(c models.FilterCriteria) []predicate {
	var out []predicate

	if c.Location != "" {
		loc := c.Location
		out = append(out, predicate{"location", func(it models.Candidate) bool {
			return it.Location == loc
		}})
	}

	if skills := nonEmpty(c.Skills); len(skills) > 0 {
		out = append(out, predicate{"skills", func(it models.Candidate) bool {
			return hasAnySkill(it.Skills, skills)
		}})
	}

	if lo, hi, ok := BucketRange(c.Experience); ok {
		out = append(out, predicate{"experience", func(it models.Candidate) bool {
			y := YearsOf(it)
			return y >= lo && y <= hi
		}})
	}

	if r := c.Compensation; r != nil {
		lo, hi := r.Min, r.Max
		out = append(out, predicate{"compensation", func(it models.Candidate) bool {
			return it.Compensation.Min <= hi && it.Compensation.Max >= lo
		}})
	}

	return out
}

// BucketRange maps an experience bucket label to its inclusive year range.
// Unknown labels and "any" report ok=false.
func BucketRange(bucket string) (lo, hi int, ok bool) {
	switch bucket {
	case models.BucketJunior:
		return 0, 2, true
	case models.BucketMid:
		return 3, 5, true
	case models.BucketSenior:
		return 6, 8, true
	case models.BucketVeteran:
		return 8, int(^uint(0) >> 1), true
	default:
		return 0, 0, false
	}
}

// YearsOf returns the candidate's derived experience years, parsing the
// display form ("8 years") when the integer is missing.
func YearsOf(c models.Candidate) int {
	if c.ExperienceYears > 0 {
		return c.ExperienceYears
	}
	s := strings.TrimSpace(c.Experience)
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == 0 {
		return 0
	}
	if end > 0 {
		s = s[:end]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// hasAnySkill matches exactly, like location.
func hasAnySkill(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
