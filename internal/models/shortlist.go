package models

import (
	"time"

	"gorm.io/datatypes"
)

// ShortlistStorageKey is the fixed store name the shortlist is persisted under.
const ShortlistStorageKey = "shortlist-storage"

const MaxComparison = 3

type ShortlistEntry struct {
	Candidate
	Note    string    `json:"note,omitempty"`
	AddedAt time.Time `json:"addedAt"`
}

type TalentedUser struct {
	SearchResultItem
	AddedAt time.Time `json:"addedAt"`
}

// ShortlistState is the serialized form of a shortlist store.
type ShortlistState struct {
	Candidates            []ShortlistEntry `json:"candidates"`
	TalentedUsers         []TalentedUser   `json:"shortlistedTalentedUsers"`
	SelectedForComparison []string         `json:"selectedForComparison"`
}

type ShortlistRecord struct {
	UserID     string         `gorm:"column:user_id;type:text;primaryKey" json:"user_id"`
	StorageKey string         `gorm:"column:storage_key;type:text;primaryKey" json:"storage_key"`
	State      datatypes.JSON `gorm:"column:state;type:jsonb" json:"state"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (ShortlistRecord) TableName() string { return "shortlists" }
