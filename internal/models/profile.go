package models

type Link struct {
	ID      string `json:"id,omitempty" mapstructure:"id"`
	Name    string `json:"name" mapstructure:"name"`
	Address string `json:"address" mapstructure:"address"`
}

type Person struct {
	ID         string    `json:"ggId" mapstructure:"ggId"`
	ArdaID     string    `json:"ardaId,omitempty" mapstructure:"ardaId"`
	PublicID   string    `json:"publicId,omitempty" mapstructure:"publicId"`
	Username   string    `json:"username,omitempty" mapstructure:"username"`
	Name       string    `json:"name" mapstructure:"name"`
	Headline   string    `json:"professionalHeadline" mapstructure:"professionalHeadline"`
	Summary    string    `json:"summaryOfBio,omitempty" mapstructure:"summaryOfBio"`
	Picture    string    `json:"picture,omitempty" mapstructure:"picture"`
	Completion float64   `json:"completion" mapstructure:"completion"`
	Verified   bool      `json:"verified" mapstructure:"verified"`
	Location   *Location `json:"location,omitempty" mapstructure:"location"`
	Links      []Link    `json:"links" mapstructure:"links"`
}

type Stats struct {
	Projects  int `json:"projects" mapstructure:"projects"`
	Jobs      int `json:"jobs" mapstructure:"jobs"`
	Education int `json:"education" mapstructure:"education"`
	Strengths int `json:"strengths" mapstructure:"strengths"`
}

const (
	ProficiencyExpert     = "expert"
	ProficiencyProficient = "proficient"
	ProficiencyNovice     = "novice"
	ProficiencyInterested = "no-experience-interested"
)

type Strength struct {
	Name        string  `json:"name" mapstructure:"name"`
	Proficiency string  `json:"proficiency" mapstructure:"proficiency"`
	Weight      float64 `json:"weight" mapstructure:"weight"`
	Hits        int     `json:"hits" mapstructure:"hits"`
}

type Organization struct {
	Name    string `json:"name" mapstructure:"name"`
	Picture string `json:"picture,omitempty" mapstructure:"picture"`
}

// Experience years are kept as the provider sends them; they may be empty.
type Experience struct {
	ID            string         `json:"id" mapstructure:"id"`
	Category      string         `json:"category" mapstructure:"category"` // jobs|education|projects
	Name          string         `json:"name" mapstructure:"name"`
	Organizations []Organization `json:"organizations" mapstructure:"organizations"`
	FromMonth     string         `json:"fromMonth,omitempty" mapstructure:"fromMonth"`
	FromYear      string         `json:"fromYear,omitempty" mapstructure:"fromYear"`
	ToMonth       string         `json:"toMonth,omitempty" mapstructure:"toMonth"`
	ToYear        string         `json:"toYear,omitempty" mapstructure:"toYear"`
}

type Language struct {
	Language string `json:"language" mapstructure:"language"`
	Fluency  string `json:"fluency" mapstructure:"fluency"`
}

type ProficiencyBreakdown struct {
	Expert     int `json:"expert"`
	Proficient int `json:"proficient"`
	Novice     int `json:"novice"`
	Interested int `json:"no-experience-interested"`
}

type ProfileSummary struct {
	SkillsCount          int                  `json:"skillsCount"`
	ExperienceYears      int                  `json:"experienceYears"`
	TopSkills            []string             `json:"topSkills"`
	CompletionScore      float64              `json:"completionScore"`
	Industries           []string             `json:"industries"`
	ProficiencyBreakdown ProficiencyBreakdown `json:"skillsProficiencyBreakdown"`
	ExperienceSummary    string               `json:"experienceSummary"`
}

// Profile is the full detail record for one identity. It is fetched per view
// and never cached.
type Profile struct {
	Person      Person         `json:"person"`
	Stats       Stats          `json:"stats"`
	Strengths   []Strength     `json:"strengths"`
	Experiences []Experience   `json:"experiences"`
	Languages   []Language     `json:"languages"`
	Processed   ProfileSummary `json:"processed"`
}
