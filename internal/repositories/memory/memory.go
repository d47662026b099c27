// Package memory implements the repositories in process memory. It backs
// tests and the fallback when a database is not configured.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/repositories"
	"github.com/yoockh/talentscope/internal/utils"
)

type ShortlistRepo struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewShortlistRepo() *ShortlistRepo {
	return &ShortlistRepo{data: map[string][]byte{}}
}

var _ repositories.ShortlistRepository = (*ShortlistRepo)(nil)

func (r *ShortlistRepo) Load(_ context.Context, userID string) (models.ShortlistState, error) {
	r.mu.Lock()
	b, ok := r.data[userID]
	r.mu.Unlock()
	if !ok {
		return models.ShortlistState{}, utils.ErrNotFound
	}
	var st models.ShortlistState
	err := json.Unmarshal(b, &st)
	return st, err
}

// Save stores the serialized state so later mutation of st cannot leak in.
func (r *ShortlistRepo) Save(_ context.Context, userID string, st models.ShortlistState) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.data[userID] = b
	r.mu.Unlock()
	return nil
}

type UserRepo struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: map[string]models.User{}}
}

var _ repositories.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repositories.ErrDuplicate
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, utils.ErrNotFound
}

type SearchHistoryRepo struct {
	mu   sync.Mutex
	rows []models.SearchHistory
}

func NewSearchHistoryRepo() *SearchHistoryRepo { return &SearchHistoryRepo{} }

var _ repositories.SearchHistoryRepository = (*SearchHistoryRepo)(nil)

func (r *SearchHistoryRepo) Insert(_ context.Context, h *models.SearchHistory) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	r.rows = append(r.rows, *h)
	r.mu.Unlock()
	return nil
}

func (r *SearchHistoryRepo) ListByUser(_ context.Context, userID string, limit int) ([]models.SearchHistory, error) {
	if limit <= 0 {
		limit = 20
	}
	r.mu.Lock()
	var out []models.SearchHistory
	for _, h := range r.rows {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	r.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type ConversationRepo struct {
	mu   sync.Mutex
	logs []models.ConversationLog
}

func NewConversationRepo() *ConversationRepo { return &ConversationRepo{} }

var _ repositories.ConversationRepository = (*ConversationRepo)(nil)

func (r *ConversationRepo) Insert(_ context.Context, log *models.ConversationLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}
	r.mu.Lock()
	r.logs = append(r.logs, *log)
	r.mu.Unlock()
	return nil
}

func (r *ConversationRepo) ListByCandidate(_ context.Context, userID, candidateID string, limit int) ([]models.ConversationLog, error) {
	if limit <= 0 {
		limit = 50
	}
	r.mu.Lock()
	var out []models.ConversationLog
	for _, l := range r.logs {
		if l.UserID == userID && l.CandidateID == candidateID {
			out = append(out, l)
		}
	}
	r.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type AuthSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]models.AuthSession
	now      func() time.Time
}

func NewAuthSessionRepo() *AuthSessionRepo {
	return &AuthSessionRepo{sessions: map[string]models.AuthSession{}, now: time.Now}
}

var _ repositories.AuthSessionRepository = (*AuthSessionRepo)(nil)

func (r *AuthSessionRepo) Save(_ context.Context, s *models.AuthSession) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = r.now().UTC()
	}
	s.StorageKey = models.AuthStorageKey
	r.mu.Lock()
	r.sessions[s.AccessToken] = *s
	r.mu.Unlock()
	return nil
}

func (r *AuthSessionRepo) GetByAccessToken(_ context.Context, token string) (*models.AuthSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok {
		return nil, utils.ErrNotFound
	}
	if !s.ExpiresAt.IsZero() && r.now().After(s.ExpiresAt) {
		delete(r.sessions, token)
		return nil, utils.ErrNotFound
	}
	return &s, nil
}

func (r *AuthSessionRepo) DeleteByAccessToken(_ context.Context, token string) error {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
	return nil
}
