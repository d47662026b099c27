package talent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/utils"
)

var fixedNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func TestExperienceYears(t *testing.T) {
	tests := []struct {
		name string
		exps []models.Experience
		want int
	}{
		{"empty uses default", nil, DefaultExperienceYears},
		{"open ended", []models.Experience{{FromYear: "2015", ToYear: "2018"}, {FromYear: "2019"}}, 8},
		{"missing start contributes nothing", []models.Experience{{ToYear: "2020"}, {FromYear: "2020", ToYear: "2022"}}, 2},
		{"floored at one", []models.Experience{{FromYear: "2024"}}, 1},
		{"garbage years", []models.Experience{{FromYear: "soon", ToYear: "later"}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExperienceYears(tt.exps, 2024))
		})
	}
}

func TestStrengthSkillsOrdersByHits(t *testing.T) {
	strengths := []models.Strength{
		{Name: "Go", Hits: 1},
		{Name: "SQL", Hits: 5},
		{Name: "Rust", Hits: 1},
		{Name: " ", Hits: 9},
	}
	assert.Equal(t, []string{"SQL", "Go", "Rust"}, StrengthSkills(strengths, 10))
	assert.Equal(t, []string{"SQL"}, StrengthSkills(strengths, 1))
}

func fullProfile() map[string]any {
	return map[string]any{
		"person": map[string]any{
			"ggId":                 "g1",
			"name":                 "Ada Lovelace",
			"professionalHeadline": "Senior Data Scientist",
			"picture":              "a.png",
			"completion":           0.9,
			"verified":             true,
			"location":             map[string]any{"name": "London", "country": "UK"},
			"links":                []any{map[string]any{"name": "github", "address": "https://github.com/ada"}},
		},
		"stats": map[string]any{"jobs": 2, "education": 1, "projects": 0, "strengths": 3},
		"strengths": []any{
			map[string]any{"name": "Python", "proficiency": "expert", "hits": 3},
			map[string]any{"name": "SQL", "proficiency": "proficient", "hits": 10},
			map[string]any{"name": "R", "proficiency": "novice", "hits": 3},
		},
		"experiences": []any{
			map[string]any{"id": "e1", "category": "jobs", "name": "Analyst", "organizations": []any{map[string]any{"name": "Acme"}}, "fromYear": "2015", "toYear": "2018"},
			map[string]any{"id": "e2", "category": "jobs", "name": "Data Scientist", "fromYear": 2019},
		},
		"languages": []any{map[string]any{"language": "English", "fluency": "fully-fluent"}},
	}
}

func TestTransformProfile(t *testing.T) {
	tr := NewTransformer()

	p, err := tr.TransformProfile(fullProfile(), fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "g1", p.Person.ID)
	assert.Equal(t, "London", p.Person.Location.Name)
	assert.Len(t, p.Person.Links, 1)
	assert.Len(t, p.Experiences, 2)
	assert.Equal(t, "2019", p.Experiences[1].FromYear)

	assert.Equal(t, 8, p.Processed.ExperienceYears)
	assert.Equal(t, 3, p.Processed.SkillsCount)
	assert.Equal(t, []string{"SQL", "Python", "R"}, p.Processed.TopSkills)
	assert.Equal(t, models.ProficiencyBreakdown{Expert: 1, Proficient: 1, Novice: 1}, p.Processed.ProficiencyBreakdown)
	assert.Equal(t, "2 jobs, 1 education, 0 projects", p.Processed.ExperienceSummary)
	assert.Equal(t, []string{"Acme"}, p.Processed.Industries)
	assert.Equal(t, 0.9, p.Processed.CompletionScore)

	c := tr.CandidateFromProfile(p)
	assert.Equal(t, "g1", c.ID)
	assert.Equal(t, "8 years", c.Experience)
	assert.Equal(t, 8, c.ExperienceYears)
	assert.Equal(t, []string{"SQL", "Python", "R"}, c.Skills)
	assert.Equal(t, []string{"Python"}, c.Strengths)
	assert.Equal(t, "London", c.Location)
	assert.Equal(t, models.Compensation{Min: 175000, Max: 237000, Currency: "USD"}, c.Compensation)
}

func TestTransformProfileFlatPayloadDefaults(t *testing.T) {
	p, err := NewTransformer().TransformProfile(map[string]any{
		"ggId":     "x",
		"name":     "Flat",
		"location": "Lima",
		"links":    "not-a-list",
	}, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "Lima", p.Person.Location.Name)
	assert.Empty(t, p.Person.Links)
	assert.Empty(t, p.Strengths)
	assert.Equal(t, DefaultExperienceYears, p.Processed.ExperienceYears)
	assert.Equal(t, "0 jobs, 0 education, 0 projects", p.Processed.ExperienceSummary)
	assert.Equal(t, []string{"Communication", "Problem Solving", "Teamwork"}, p.Processed.TopSkills)
}

func TestTransformProfileRequiresIdentity(t *testing.T) {
	tr := NewTransformer()

	for name, raw := range map[string]map[string]any{
		"nil":                  nil,
		"missing name":         {"person": map[string]any{"ggId": "1"}},
		"missing id":           {"person": map[string]any{"name": "Nobody"}},
		"blank name":           {"person": map[string]any{"ggId": "1", "name": "   "}},
		"person not an object": {"person": "Ada", "ggId": "1", "name": "Ada"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tr.TransformProfile(raw, fixedNow)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrProfileNotFound)
			assert.True(t, utils.IsCode(err, utils.CodeNotFound))
		})
	}
}

func TestCandidateFromSearchItem(t *testing.T) {
	tr := &Transformer{Strategy: KeywordStrategy{}}
	c := tr.CandidateFromSearchItem(models.SearchResultItem{
		ID:       "1",
		Name:     "Grace",
		Headline: "Senior React Developer",
		Picture:  "p.png",
		Location: &models.Location{Name: "Medellín"},
	})

	assert.Equal(t, "p.png", c.Avatar)
	assert.Equal(t, "Medellín", c.Location)
	assert.Equal(t, []string{"React"}, c.Skills)
	assert.Equal(t, 6, c.ExperienceYears)
	assert.Equal(t, "6 years", c.Experience)
	assert.Equal(t, models.Compensation{Min: 130000, Max: 182000, Currency: "USD"}, c.Compensation)
}

type fixedStrategy struct{}

func (fixedStrategy) Derive(string, int) Derivation {
	return Derivation{Skills: []string{"X"}, Compensation: models.Compensation{Min: 1, Max: 2, Currency: "EUR"}, ExperienceYears: 1}
}

func TestStrategyIsReplaceable(t *testing.T) {
	tr := &Transformer{Strategy: fixedStrategy{}}
	c := tr.CandidateFromSearchItem(models.SearchResultItem{ID: "1", Name: "n"})
	assert.Equal(t, []string{"X"}, c.Skills)
	assert.Equal(t, "EUR", c.Compensation.Currency)
	assert.Equal(t, "1 year", c.Experience)
}
