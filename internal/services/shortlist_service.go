package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/talentscope/internal/logger"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/repositories"
	"github.com/yoockh/talentscope/internal/shortlist"
	"github.com/yoockh/talentscope/internal/storage"
	"github.com/yoockh/talentscope/internal/utils"
)

const exportURLTTL = 15 * time.Minute

// ShortlistResult is the state after a mutation and whether it changed.
type ShortlistResult struct {
	models.ShortlistState
	Changed bool `json:"changed"`
}

type ShortlistExport struct {
	Path        string    `json:"path"`
	DownloadURL string    `json:"download_url,omitempty"`
	ExportedAt  time.Time `json:"exported_at"`
}

type ShortlistService interface {
	Get(ctx context.Context, userID string) (models.ShortlistState, error)
	AddCandidate(ctx context.Context, userID string, c models.Candidate) (*ShortlistResult, error)
	RemoveCandidate(ctx context.Context, userID, candidateID string) (*ShortlistResult, error)
	UpdateNote(ctx context.Context, userID, candidateID, note string) (*ShortlistResult, error)
	AddTalentedUser(ctx context.Context, userID string, u models.SearchResultItem) (*ShortlistResult, error)
	RemoveTalentedUser(ctx context.Context, userID, id string) (*ShortlistResult, error)
	ToggleComparison(ctx context.Context, userID, candidateID string) (*ShortlistResult, error)
	ClearComparison(ctx context.Context, userID string) (*ShortlistResult, error)
	Comparison(ctx context.Context, userID string) ([]models.ShortlistEntry, error)
	Export(ctx context.Context, userID string) (*ShortlistExport, error)
}

type shortlistService struct {
	repo    repositories.ShortlistRepository
	objects storage.ObjectStore
	locks   *utils.KeyedMutex
	log     *logrus.Entry
	now     func() time.Time
}

// NewShortlistService wires the store to its repository. objects may be nil,
// which disables Export.
func NewShortlistService(repo repositories.ShortlistRepository, objects storage.ObjectStore, l *logrus.Logger) ShortlistService {
	return &shortlistService{
		repo:    repo,
		objects: objects,
		locks:   utils.NewKeyedMutex(),
		log:     logger.Component(l, "shortlist"),
		now:     time.Now,
	}
}

func (s *shortlistService) load(ctx context.Context, op, userID string) (*shortlist.Store, error) {
	if userID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "unauthorized", nil)
	}
	st, err := s.repo.Load(ctx, userID)
	if errors.Is(err, utils.ErrNotFound) {
		return shortlist.New(), nil
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load shortlist", err)
	}
	return shortlist.Restore(st), nil
}

// mutate runs fn under the user's lock and persists the store if it changed.
func (s *shortlistService) mutate(ctx context.Context, op, userID string, fn func(*shortlist.Store) bool) (*ShortlistResult, error) {
	if userID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "unauthorized", nil)
	}
	unlock := s.locks.Lock(userID)
	defer unlock()

	store, err := s.load(ctx, op, userID)
	if err != nil {
		return nil, err
	}
	changed := fn(store)
	snap := store.Snapshot()
	if changed {
		if err := s.repo.Save(ctx, userID, snap); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to save shortlist", err)
		}
	}
	return &ShortlistResult{ShortlistState: snap, Changed: changed}, nil
}

func (s *shortlistService) Get(ctx context.Context, userID string) (models.ShortlistState, error) {
	store, err := s.load(ctx, "ShortlistService.Get", userID)
	if err != nil {
		return models.ShortlistState{}, err
	}
	return store.Snapshot(), nil
}

func (s *shortlistService) AddCandidate(ctx context.Context, userID string, c models.Candidate) (*ShortlistResult, error) {
	const op = "ShortlistService.AddCandidate"
	if strings.TrimSpace(c.ID) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate id is required", nil)
	}
	return s.mutate(ctx, op, userID, func(st *shortlist.Store) bool { return st.AddCandidate(c) })
}

func (s *shortlistService) RemoveCandidate(ctx context.Context, userID, candidateID string) (*ShortlistResult, error) {
	return s.mutate(ctx, "ShortlistService.RemoveCandidate", userID, func(st *shortlist.Store) bool {
		return st.RemoveCandidate(candidateID)
	})
}

func (s *shortlistService) UpdateNote(ctx context.Context, userID, candidateID, note string) (*ShortlistResult, error) {
	return s.mutate(ctx, "ShortlistService.UpdateNote", userID, func(st *shortlist.Store) bool {
		return st.UpdateNote(candidateID, note)
	})
}

func (s *shortlistService) AddTalentedUser(ctx context.Context, userID string, u models.SearchResultItem) (*ShortlistResult, error) {
	const op = "ShortlistService.AddTalentedUser"
	if strings.TrimSpace(u.ID) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "talented user id is required", nil)
	}
	return s.mutate(ctx, op, userID, func(st *shortlist.Store) bool { return st.AddTalentedUser(u) })
}

func (s *shortlistService) RemoveTalentedUser(ctx context.Context, userID, id string) (*ShortlistResult, error) {
	return s.mutate(ctx, "ShortlistService.RemoveTalentedUser", userID, func(st *shortlist.Store) bool {
		return st.RemoveTalentedUser(id)
	})
}

func (s *shortlistService) ToggleComparison(ctx context.Context, userID, candidateID string) (*ShortlistResult, error) {
	return s.mutate(ctx, "ShortlistService.ToggleComparison", userID, func(st *shortlist.Store) bool {
		return st.ToggleComparison(candidateID)
	})
}

func (s *shortlistService) ClearComparison(ctx context.Context, userID string) (*ShortlistResult, error) {
	return s.mutate(ctx, "ShortlistService.ClearComparison", userID, func(st *shortlist.Store) bool {
		return st.ClearComparison()
	})
}

func (s *shortlistService) Comparison(ctx context.Context, userID string) ([]models.ShortlistEntry, error) {
	store, err := s.load(ctx, "ShortlistService.Comparison", userID)
	if err != nil {
		return nil, err
	}
	return store.Compare(), nil
}

func (s *shortlistService) Export(ctx context.Context, userID string) (*ShortlistExport, error) {
	const op = "ShortlistService.Export"

	if s.objects == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "shortlist export is not configured", nil)
	}
	st, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode shortlist", err)
	}

	at := s.now().UTC()
	name := fmt.Sprintf("shortlists/%s/%s.json", userID, at.Format("20060102T150405Z"))
	path, err := s.objects.Upload(ctx, name, "application/json", bytes.NewReader(b))
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload shortlist export", err)
	}

	out := &ShortlistExport{Path: path, ExportedAt: at}
	if url, err := s.objects.SignedGetURL(ctx, name, exportURLTTL); err != nil {
		s.log.WithError(err).WithField("object", name).Warn("failed to sign export url")
	} else {
		out.DownloadURL = url
	}
	return out, nil
}
