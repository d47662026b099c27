package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/repositories"
	"gorm.io/gorm"
)

type conversationRepo struct {
	db *gorm.DB
}

func NewConversationRepo(db *gorm.DB) repositories.ConversationRepository {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) Insert(ctx context.Context, log *models.ConversationLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(log).Error
}

// ListByCandidate returns the newest limit messages in chronological order.
func (r *conversationRepo) ListByCandidate(ctx context.Context, userID, candidateID string, limit int) ([]models.ConversationLog, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []models.ConversationLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND candidate_id = ?", userID, candidateID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}
