package torre

import "strings"

const (
	minSuggestionQuery = 3
	maxSuggestions     = 5
)

var roleSuggestions = []string{
	"Frontend Developer",
	"Backend Developer",
	"Full Stack Developer",
	"Data Scientist",
	"UI/UX Designer",
	"DevOps Engineer",
	"Product Manager",
	"Software Engineer",
	"React Developer",
	"Node.js Developer",
	"Python Developer",
	"JavaScript Developer",
}

// Suggestions returns up to five role names containing q. Queries shorter
// than three characters yield nothing.
func Suggestions(q string) []string {
	q = strings.ToLower(strings.TrimSpace(q))
	out := []string{}
	if len([]rune(q)) < minSuggestionQuery {
		return out
	}
	for _, s := range roleSuggestions {
		if strings.Contains(strings.ToLower(s), q) {
			out = append(out, s)
			if len(out) == maxSuggestions {
				break
			}
		}
	}
	return out
}
