package talent

import (
	"math"
	"regexp"
	"strings"

	"github.com/yoockh/talentscope/internal/models"
)

// Derivation is what a headline strategy can infer without a full profile.
type Derivation struct {
	Skills          []string
	Compensation    models.Compensation
	ExperienceYears int
}

// HeadlineStrategy derives skills and a compensation band from free text.
// years <= 0 means unknown; the strategy then estimates it.
type HeadlineStrategy interface {
	Derive(headline string, years int) Derivation
}

const (
	Currency          = "USD"
	domainBonus       = 15000
	yearsStep         = 0.05
	maxYearsUplift    = 0.5
	completionUplift  = 0.1
	compensationRound = 1000
)

type band struct {
	name     string
	keywords []string
	min, max int
	years    int
}

// checked in order; the last band is the fallback
var bands = []band{
	{"principal", []string{"principal", "staff", "lead", "architect"}, 140000, 190000, 9},
	{"manager", []string{"manager", "director", "head of", "vp", "cto", "chief"}, 130000, 180000, 8},
	{"senior", []string{"senior", "sr.", "sr "}, 100000, 140000, 6},
	{"junior", []string{"junior", "jr.", "jr ", "intern", "trainee"}, 45000, 70000, 1},
	{"individual", nil, 60000, 90000, 3},
}

var domainPhrases = []string{"machine learning", "artificial intelligence", "deep learning", "data scien"}

var domainTokens = map[string]struct{}{
	"ml": {}, "ai": {}, "mlops": {}, "cloud": {}, "aws": {}, "gcp": {},
	"azure": {}, "kubernetes": {}, "devops": {},
}

var skillVocabulary = []string{
	"React", "Angular", "Vue", "Next.js", "TypeScript", "JavaScript", "Node.js",
	"Python", "Go", "Golang", "Java", "Kotlin", "Swift", "Rust", "Ruby", "Rails",
	"PHP", "C#", ".NET", "C++", "Scala", "Elixir", "SQL", "PostgreSQL", "MySQL",
	"MongoDB", "Redis", "GraphQL", "AWS", "GCP", "Azure", "Docker", "Kubernetes",
	"Terraform", "Machine Learning", "TensorFlow", "PyTorch", "Spark", "Figma",
	"Flutter", "React Native", "Django", "Spring", "Salesforce", "Blockchain",
}

type roleDefault struct {
	keywords []string
	skills   []string
}

var roleDefaults = []roleDefault{
	{[]string{"full stack", "fullstack", "full-stack"}, []string{"JavaScript", "React", "Node.js", "SQL"}},
	{[]string{"frontend", "front-end", "front end"}, []string{"JavaScript", "React", "CSS", "HTML"}},
	{[]string{"backend", "back-end", "back end"}, []string{"Node.js", "Python", "SQL", "APIs"}},
	{[]string{"data scien", "data analyst", "data engineer", "machine learning"}, []string{"Python", "SQL", "Machine Learning", "Statistics"}},
	{[]string{"devops", "sre", "site reliability", "platform", "cloud"}, []string{"Docker", "Kubernetes", "CI/CD", "AWS"}},
	{[]string{"mobile", "ios", "android"}, []string{"Swift", "Kotlin", "React Native"}},
	{[]string{"design", "ux", "ui"}, []string{"Figma", "User Research", "Prototyping"}},
	{[]string{"product", "project", "scrum"}, []string{"Product Strategy", "Agile", "Roadmapping"}},
	{[]string{"recruit", "talent", "people", "hr"}, []string{"Sourcing", "Interviewing", "Employer Branding"}},
}

var genericSkills = []string{"Communication", "Problem Solving", "Teamwork"}

var vocabularyRe = compileVocabulary(skillVocabulary)

func compileVocabulary(terms []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(terms))
	for i, t := range terms {
		out[i] = regexp.MustCompile(`(?i)(^|[^a-z0-9+#.])` + regexp.QuoteMeta(t) + `($|[^a-z0-9+#])`)
	}
	return out
}

// KeywordStrategy is the default keyword-driven HeadlineStrategy.
type KeywordStrategy struct{}

func (KeywordStrategy) Derive(headline string, years int) Derivation {
	h := strings.ToLower(headline)
	b := bandFor(h)
	if years <= 0 {
		years = b.years
	}
	return Derivation{
		Skills:          HeadlineSkills(headline),
		Compensation:    estimateCompensation(h, b, years),
		ExperienceYears: years,
	}
}

// HeadlineSkills matches the headline against the known vocabulary and falls
// back to role defaults.
func HeadlineSkills(headline string) []string {
	var out []string
	for i, re := range vocabularyRe {
		if re.MatchString(headline) {
			out = append(out, skillVocabulary[i])
		}
	}
	if len(out) > 0 {
		return out
	}
	return RoleDefaultSkills(headline)
}

func RoleDefaultSkills(headline string) []string {
	h := strings.ToLower(headline)
	for _, rd := range roleDefaults {
		if containsAny(h, rd.keywords) {
			return append([]string(nil), rd.skills...)
		}
	}
	return append([]string(nil), genericSkills...)
}

func bandFor(h string) band {
	for _, b := range bands[:len(bands)-1] {
		if containsAny(h, b.keywords) {
			return b
		}
	}
	return bands[len(bands)-1]
}

func estimateCompensation(h string, b band, years int) models.Compensation {
	lo, hi := float64(b.min), float64(b.max)
	if hasDomainKeyword(h) {
		lo += domainBonus
		hi += domainBonus
	}
	mult := 1 + math.Min(float64(years)*yearsStep, maxYearsUplift)
	return models.Compensation{
		Min:      roundTo(lo * mult),
		Max:      roundTo(hi * mult),
		Currency: Currency,
	}
}

// InflateByCompletion scales a band by up to 10% for a complete profile.
func InflateByCompletion(c models.Compensation, completion float64) models.Compensation {
	if completion <= 0 {
		return c
	}
	f := 1 + completionUplift*math.Min(completion, 1)
	c.Min = roundTo(float64(c.Min) * f)
	c.Max = roundTo(float64(c.Max) * f)
	return c
}

func hasDomainKeyword(h string) bool {
	for _, w := range tokenize(h) {
		if _, ok := domainTokens[w]; ok {
			return true
		}
	}
	for _, p := range domainPhrases {
		if strings.Contains(h, p) {
			return true
		}
	}
	return false
}

func tokenize(h string) []string {
	return strings.FieldsFunc(h, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '+' || r == '#')
	})
}

func containsAny(h string, keys []string) bool {
	for _, k := range keys {
		if len(k) <= 3 && !strings.ContainsAny(k, " .") {
			for _, w := range tokenize(h) {
				if w == k {
					return true
				}
			}
			continue
		}
		if strings.Contains(h, k) {
			return true
		}
	}
	return false
}

func roundTo(v float64) int {
	return int(math.Round(v/compensationRound)) * compensationRound
}
