package talent

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/utils"
)

const (
	DefaultExperienceYears = 3
	TopSkillsLimit         = 10
	maxCandidateStrengths  = 5
)

var ErrProfileNotFound = errors.New("profile not found")

// Transformer turns provider payloads into profiles and candidates.
type Transformer struct {
	Strategy            HeadlineStrategy
	InflateByCompletion bool
}

func NewTransformer() *Transformer {
	return &Transformer{Strategy: KeywordStrategy{}, InflateByCompletion: true}
}

func (t *Transformer) strategy() HeadlineStrategy {
	if t == nil || t.Strategy == nil {
		return KeywordStrategy{}
	}
	return t.Strategy
}

// ExperienceYears sums (end or currentYear) - start over entries with a start
// year. An empty list yields DefaultExperienceYears, otherwise at least 1.
func ExperienceYears(exps []models.Experience, currentYear int) int {
	if len(exps) == 0 {
		return DefaultExperienceYears
	}
	total := 0
	for _, e := range exps {
		start, ok := parseYear(e.FromYear)
		if !ok {
			continue
		}
		end, ok := parseYear(e.ToYear)
		if !ok {
			end = currentYear
		}
		if end > start {
			total += end - start
		}
	}
	if total < 1 {
		return 1
	}
	return total
}

func parseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	y, err := strconv.Atoi(s)
	if err != nil || y <= 0 {
		return 0, false
	}
	return y, true
}

// StrengthSkills returns up to n strength names ordered by endorsement count.
// Ties keep provider order.
func StrengthSkills(strengths []models.Strength, n int) []string {
	sorted := append([]models.Strength(nil), strengths...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Hits > sorted[j].Hits })

	out := make([]string, 0, n)
	for _, s := range sorted {
		if len(out) == n {
			break
		}
		if name := strings.TrimSpace(s.Name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// Skills prefers explicit strengths, then the headline vocabulary, then role
// defaults.
func Skills(strengths []models.Strength, headline string) []string {
	if s := StrengthSkills(strengths, TopSkillsLimit); len(s) > 0 {
		return s
	}
	return HeadlineSkills(headline)
}

type rawSections struct {
	Person      map[string]any `mapstructure:"person"`
	Stats       any            `mapstructure:"stats"`
	Strengths   any            `mapstructure:"strengths"`
	Experiences any            `mapstructure:"experiences"`
	Languages   any            `mapstructure:"languages"`
}

func decodeLoose(in any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

// TransformProfile decodes a raw provider profile. Missing name or identity
// fails with ErrProfileNotFound; every other section degrades to defaults.
func (t *Transformer) TransformProfile(raw map[string]any, now time.Time) (models.Profile, error) {
	const op = "talent.TransformProfile"

	if raw == nil {
		return models.Profile{}, utils.E(utils.CodeNotFound, op, "profile not found", ErrProfileNotFound)
	}

	// only person is typed, so a decode error means it is not an object
	var sec rawSections
	if err := decodeLoose(raw, &sec); err != nil {
		return models.Profile{}, utils.E(utils.CodeNotFound, op, "malformed profile identity", fmt.Errorf("%w: %v", ErrProfileNotFound, err))
	}

	personRaw := sec.Person
	if personRaw == nil {
		// some endpoints answer with the person fields at the top level
		personRaw = raw
	}

	var p models.Profile
	if err := decodeLoose(sanitizePerson(personRaw), &p.Person); err != nil {
		return models.Profile{}, utils.E(utils.CodeNotFound, op, "malformed profile identity", fmt.Errorf("%w: %v", ErrProfileNotFound, err))
	}
	p.Person.Name = strings.TrimSpace(p.Person.Name)
	if p.Person.ID == "" {
		p.Person.ID = p.Person.ArdaID
	}
	if p.Person.Name == "" || p.Person.ID == "" {
		return models.Profile{}, utils.E(utils.CodeNotFound, op, "profile not found", ErrProfileNotFound)
	}
	if p.Person.Links == nil {
		p.Person.Links = []models.Link{}
	}

	if err := decodeLoose(sec.Stats, &p.Stats); err != nil {
		p.Stats = models.Stats{}
	}
	if err := decodeLoose(sec.Strengths, &p.Strengths); err != nil || p.Strengths == nil {
		p.Strengths = []models.Strength{}
	}
	if err := decodeLoose(sec.Experiences, &p.Experiences); err != nil || p.Experiences == nil {
		p.Experiences = []models.Experience{}
	}
	if err := decodeLoose(sec.Languages, &p.Languages); err != nil || p.Languages == nil {
		p.Languages = []models.Language{}
	}
	if sec.Stats == nil {
		p.Stats = statsFromExperiences(p.Experiences, len(p.Strengths))
	}

	p.Processed = Summarize(p, now.Year())
	return p, nil
}

// sanitizePerson drops or reshapes optional person fields whose shape would
// fail decoding.
func sanitizePerson(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	switch loc := out["location"].(type) {
	case map[string]any:
	case string:
		out["location"] = map[string]any{"name": loc}
	default:
		delete(out, "location")
	}
	if _, ok := out["links"].([]any); !ok {
		delete(out, "links")
	}
	return out
}

func statsFromExperiences(exps []models.Experience, strengths int) models.Stats {
	s := models.Stats{Strengths: strengths}
	for _, e := range exps {
		switch e.Category {
		case "jobs":
			s.Jobs++
		case "education":
			s.Education++
		case "projects":
			s.Projects++
		}
	}
	return s
}

// Summarize builds the processed view of a profile.
func Summarize(p models.Profile, currentYear int) models.ProfileSummary {
	var breakdown models.ProficiencyBreakdown
	for _, s := range p.Strengths {
		switch s.Proficiency {
		case models.ProficiencyExpert:
			breakdown.Expert++
		case models.ProficiencyProficient:
			breakdown.Proficient++
		case models.ProficiencyNovice:
			breakdown.Novice++
		case models.ProficiencyInterested:
			breakdown.Interested++
		}
	}

	return models.ProfileSummary{
		SkillsCount:          len(p.Strengths),
		ExperienceYears:      ExperienceYears(p.Experiences, currentYear),
		TopSkills:            Skills(p.Strengths, p.Person.Headline),
		CompletionScore:      p.Person.Completion,
		Industries:           industries(p.Experiences),
		ProficiencyBreakdown: breakdown,
		ExperienceSummary:    fmt.Sprintf("%d jobs, %d education, %d projects", p.Stats.Jobs, p.Stats.Education, p.Stats.Projects),
	}
}

// industries lists the distinct organizations of job experiences.
func industries(exps []models.Experience) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, e := range exps {
		if e.Category != "jobs" {
			continue
		}
		for _, o := range e.Organizations {
			name := strings.TrimSpace(o.Name)
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// CandidateFromProfile derives the recruiter view of a transformed profile.
func (t *Transformer) CandidateFromProfile(p models.Profile) models.Candidate {
	years := p.Processed.ExperienceYears
	if years <= 0 {
		years = DefaultExperienceYears
	}
	d := t.strategy().Derive(p.Person.Headline, years)

	comp := d.Compensation
	if t.InflateByCompletion {
		comp = InflateByCompletion(comp, p.Person.Completion)
	}

	skills := p.Processed.TopSkills
	if len(skills) == 0 {
		skills = d.Skills
	}

	loc := ""
	if p.Person.Location != nil {
		loc = p.Person.Location.Name
	}

	return models.Candidate{
		ID:              p.Person.ID,
		Name:            p.Person.Name,
		Headline:        p.Person.Headline,
		Avatar:          p.Person.Picture,
		Skills:          skills,
		Strengths:       candidateStrengths(p.Strengths),
		Compensation:    comp,
		Location:        loc,
		Experience:      formatYears(years),
		ExperienceYears: years,
		Username:        p.Person.Username,
		PublicID:        p.Person.PublicID,
		Bio:             p.Person.Summary,
		Completion:      p.Person.Completion,
		Verified:        p.Person.Verified,
		Links:           p.Person.Links,
		Languages:       p.Languages,
	}
}

func candidateStrengths(strengths []models.Strength) []string {
	out := []string{}
	for _, s := range strengths {
		if s.Proficiency == models.ProficiencyExpert && s.Name != "" {
			out = append(out, s.Name)
		}
		if len(out) == maxCandidateStrengths {
			return out
		}
	}
	if len(out) == 0 {
		return StrengthSkills(strengths, maxCandidateStrengths)
	}
	return out
}

// CandidateFromSearchItem derives a candidate from headline-only search data.
func (t *Transformer) CandidateFromSearchItem(item models.SearchResultItem) models.Candidate {
	d := t.strategy().Derive(item.Headline, 0)

	comp := d.Compensation
	if t.InflateByCompletion {
		comp = InflateByCompletion(comp, item.Completion)
	}

	avatar := item.PictureThumbnail
	if avatar == "" {
		avatar = item.Picture
	}

	return models.Candidate{
		ID:              item.ID,
		Name:            item.Name,
		Headline:        item.Headline,
		Avatar:          avatar,
		Skills:          d.Skills,
		Strengths:       []string{},
		Compensation:    comp,
		Location:        item.LocationName(),
		Experience:      formatYears(d.ExperienceYears),
		ExperienceYears: d.ExperienceYears,
		Username:        item.Username,
		PublicID:        item.PublicID,
		Completion:      item.Completion,
		Verified:        item.Verified,
	}
}

func formatYears(y int) string {
	if y == 1 {
		return "1 year"
	}
	return fmt.Sprintf("%d years", y)
}
