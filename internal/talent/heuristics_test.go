package talent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yoockh/talentscope/internal/models"
)

func TestKeywordStrategyDerive(t *testing.T) {
	tests := []struct {
		name     string
		headline string
		years    int
		comp     models.Compensation
		years2   int
		skills   []string
	}{
		{
			name:     "senior backend",
			headline: "Senior Backend Engineer",
			years:    4,
			comp:     models.Compensation{Min: 120000, Max: 168000, Currency: "USD"},
			years2:   4,
			skills:   []string{"Node.js", "Python", "SQL", "APIs"},
		},
		{
			name:     "ml bonus and capped multiplier",
			headline: "Machine Learning Engineer",
			years:    20,
			comp:     models.Compensation{Min: 113000, Max: 158000, Currency: "USD"},
			years2:   20,
			skills:   []string{"Machine Learning"},
		},
		{
			name:     "staff estimates years",
			headline: "Staff Engineer",
			years:    0,
			comp:     models.Compensation{Min: 203000, Max: 276000, Currency: "USD"},
			years2:   9,
			skills:   []string{"Communication", "Problem Solving", "Teamwork"},
		},
		{
			name:     "manager with cloud keyword",
			headline: "Engineering Manager | AWS",
			years:    10,
			comp:     models.Compensation{Min: 218000, Max: 293000, Currency: "USD"},
			years2:   10,
			skills:   []string{"AWS"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := KeywordStrategy{}.Derive(tt.headline, tt.years)
			assert.Equal(t, tt.comp, d.Compensation)
			assert.Equal(t, tt.years2, d.ExperienceYears)
			assert.Equal(t, tt.skills, d.Skills)
		})
	}
}

func TestHeadlineSkills(t *testing.T) {
	assert.Equal(t, []string{"React", "TypeScript"}, HeadlineSkills("React and TypeScript developer"))
	assert.Equal(t, []string{"Golang"}, HeadlineSkills("Golang dev"))
	assert.Equal(t, []string{"Figma", "User Research", "Prototyping"}, HeadlineSkills("UX Designer"))
	assert.Equal(t, []string{"JavaScript", "React", "Node.js", "SQL"}, HeadlineSkills("Full-Stack builder"))
	assert.Equal(t, []string{"Communication", "Problem Solving", "Teamwork"}, HeadlineSkills("Head Chef"))
}

func TestInflateByCompletion(t *testing.T) {
	base := models.Compensation{Min: 100000, Max: 140000, Currency: "USD"}
	assert.Equal(t, base, InflateByCompletion(base, 0))
	assert.Equal(t, models.Compensation{Min: 105000, Max: 147000, Currency: "USD"}, InflateByCompletion(base, 0.5))
	assert.Equal(t, models.Compensation{Min: 110000, Max: 154000, Currency: "USD"}, InflateByCompletion(base, 3))
}
