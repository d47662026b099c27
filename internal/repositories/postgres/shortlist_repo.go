package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/repositories"
	"github.com/yoockh/talentscope/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type shortlistRepo struct {
	db *gorm.DB
}

func NewShortlistRepo(db *gorm.DB) repositories.ShortlistRepository {
	return &shortlistRepo{db: db}
}

func (r *shortlistRepo) Load(ctx context.Context, userID string) (models.ShortlistState, error) {
	var row models.ShortlistRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND storage_key = ?", userID, models.ShortlistStorageKey).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ShortlistState{}, utils.ErrNotFound
	}
	if err != nil {
		return models.ShortlistState{}, err
	}

	var st models.ShortlistState
	if err := json.Unmarshal(row.State, &st); err != nil {
		return models.ShortlistState{}, err
	}
	return st, nil
}

func (r *shortlistRepo) Save(ctx context.Context, userID string, st models.ShortlistState) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	row := models.ShortlistRecord{
		UserID:     userID,
		StorageKey: models.ShortlistStorageKey,
		State:      datatypes.JSON(b),
		UpdatedAt:  time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "updated_at"}),
	}).Create(&row).Error
}
