package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type SearchHistory struct {
	ID           string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID       string         `gorm:"column:user_id;type:text;index" json:"user_id"`
	Query        string         `gorm:"column:query;type:text" json:"query"`
	Location     string         `gorm:"column:location;type:text" json:"location,omitempty"`
	Skills       pq.StringArray `gorm:"column:skills;type:text[]" json:"skills"`
	Filters      datatypes.JSON `gorm:"column:filters;type:jsonb" json:"filters"`
	ResultsCount int            `gorm:"column:results_count;type:integer" json:"resultsCount"`
	CreatedAt    time.Time      `gorm:"column:created_at;type:timestamptz;index" json:"createdAt"`
}

func (SearchHistory) TableName() string { return "search_history" }
