package models

type Compensation struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// Candidate is the recruiter-facing record derived from a profile or a search
// row. Experience is the display form ("8 years"); ExperienceYears is what
// filters read.
type Candidate struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Headline        string       `json:"headline"`
	Avatar          string       `json:"avatar"`
	Skills          []string     `json:"skills"`
	Strengths       []string     `json:"strengths"`
	Compensation    Compensation `json:"compensation"`
	Location        string       `json:"location"`
	Experience      string       `json:"experience"`
	ExperienceYears int          `json:"experienceYears"`

	Username   string     `json:"username,omitempty"`
	PublicID   string     `json:"publicId,omitempty"`
	Bio        string     `json:"bio,omitempty"`
	Completion float64    `json:"completion,omitempty"`
	Verified   bool       `json:"verified,omitempty"`
	Links      []Link     `json:"links,omitempty"`
	Languages  []Language `json:"languages,omitempty"`
}

const (
	BucketJunior    = "0-2 years"
	BucketMid       = "3-5 years"
	BucketSenior    = "6-8 years"
	BucketVeteran   = "8+ years"
	BucketAnyPicker = "any"
)

type CompensationRange struct {
	Min int `json:"min" validate:"gte=0"`
	Max int `json:"max" validate:"gtefield=Min"`
}

// FilterCriteria is transient per-search state; the zero value matches everything.
type FilterCriteria struct {
	Location     string             `json:"location,omitempty"`
	Skills       []string           `json:"skills,omitempty" validate:"dive,required"`
	Experience   string             `json:"experience,omitempty" validate:"omitempty,oneof='0-2 years' '3-5 years' '6-8 years' '8+ years' any"`
	Compensation *CompensationRange `json:"compensation,omitempty"`
}

func (c FilterCriteria) IsEmpty() bool {
	return c.Location == "" &&
		len(c.Skills) == 0 &&
		(c.Experience == "" || c.Experience == BucketAnyPicker) &&
		c.Compensation == nil
}

type CandidateSearchRequest struct {
	Query    string         `json:"query" binding:"required"`
	Page     int            `json:"page"`
	Criteria FilterCriteria `json:"filters"`
}

type CandidatePage struct {
	Candidates []Candidate `json:"candidates"`
	Page       int         `json:"page"`
	HasMore    bool        `json:"hasMore"`
}
