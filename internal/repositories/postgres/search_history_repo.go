package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/repositories"
	"gorm.io/gorm"
)

type searchHistoryRepo struct {
	db *gorm.DB
}

func NewSearchHistoryRepo(db *gorm.DB) repositories.SearchHistoryRepository {
	return &searchHistoryRepo{db: db}
}

func (r *searchHistoryRepo) Insert(ctx context.Context, h *models.SearchHistory) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *searchHistoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.SearchHistory, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []models.SearchHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
