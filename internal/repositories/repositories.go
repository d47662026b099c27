// Package repositories declares the persistence contracts shared by the
// Postgres, Mongo and in-memory implementations. Lookups that find nothing
// return utils.ErrNotFound.
package repositories

import (
	"context"
	"errors"

	"github.com/yoockh/talentscope/internal/models"
)

var ErrDuplicate = errors.New("duplicate record")

type ShortlistRepository interface {
	Load(ctx context.Context, userID string) (models.ShortlistState, error)
	Save(ctx context.Context, userID string, st models.ShortlistState) error
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type SearchHistoryRepository interface {
	Insert(ctx context.Context, h *models.SearchHistory) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.SearchHistory, error)
}

type ConversationRepository interface {
	Insert(ctx context.Context, log *models.ConversationLog) error
	ListByCandidate(ctx context.Context, userID, candidateID string, limit int) ([]models.ConversationLog, error)
}

type AuthSessionRepository interface {
	Save(ctx context.Context, s *models.AuthSession) error
	GetByAccessToken(ctx context.Context, token string) (*models.AuthSession, error)
	DeleteByAccessToken(ctx context.Context, token string) error
}
