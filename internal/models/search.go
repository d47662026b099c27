package models

import "time"

type Location struct {
	Name        string `json:"name" mapstructure:"name"`
	Country     string `json:"country,omitempty" mapstructure:"country"`
	CountryCode string `json:"countryCode,omitempty" mapstructure:"countryCode"`
}

// SearchResultItem is one normalized row of a provider search.
// RankScore and Completion are provider outputs and are never recomputed.
type SearchResultItem struct {
	ID               string    `json:"id"`
	PublicID         string    `json:"publicId,omitempty"`
	Username         string    `json:"username,omitempty"`
	Name             string    `json:"name"`
	Headline         string    `json:"professionalHeadline"`
	Picture          string    `json:"picture,omitempty"`
	PictureThumbnail string    `json:"pictureThumbnail,omitempty"`
	Location         *Location `json:"location,omitempty"`

	RankScore     float64 `json:"pageRank"`
	Weight        float64 `json:"weight"`
	Completion    float64 `json:"completion"`
	TotalStrength int     `json:"totalStrength"`
	Verified      bool    `json:"verified"`
	IsSearchable  bool    `json:"isSearchable"`

	// set by the provider when meta=true reports a direct hit on the query
	MetaMatch bool `json:"-"`

	Tier           string `json:"tier,omitempty"`           // elite|top
	CompletionBand string `json:"completionBand,omitempty"` // high|medium|low
}

// LocationName returns the canonical provider location value or "".
func (i SearchResultItem) LocationName() string {
	if i.Location == nil {
		return ""
	}
	return i.Location.Name
}

type SearchFilters struct {
	Location string   `json:"location,omitempty"`
	Skills   []string `json:"skills,omitempty"`
	Remote   *bool    `json:"remote,omitempty"`
}

type SearchRequest struct {
	Query   string         `json:"query"`
	Limit   int            `json:"limit,omitempty"`
	Filters *SearchFilters `json:"filters,omitempty"`
}

type SearchMetadata struct {
	Query      string         `json:"query"`
	SearchTime int64          `json:"searchTime"`
	Cached     bool           `json:"cached"`
	Filters    *SearchFilters `json:"filters,omitempty"`
}

type SearchResponse struct {
	Results  []SearchResultItem `json:"results"`
	Total    int                `json:"total"`
	Metadata SearchMetadata     `json:"metadata"`
}

// TopTalentResponse is the cached payload of the top ranked view.
type TopTalentResponse struct {
	Results     []SearchResultItem `json:"results"`
	Total       int                `json:"total"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Cached      bool               `json:"cached"`
}
