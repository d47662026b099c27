package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/repositories/memory"
	"github.com/yoockh/talentscope/internal/services"
)

var fixedTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type failingRepo struct{ memory.SearchHistoryRepo }

func (f *failingRepo) Insert(context.Context, *models.SearchHistory) error {
	return errors.New("db down")
}

func TestHandleMsg(t *testing.T) {
	l, hook := test.NewNullLogger()
	repo := memory.NewSearchHistoryRepo()
	p := &HistoryWorkerPool{Repo: repo, Logger: l}
	ctx := context.Background()

	h := services.NewHistoryEntry("u1", models.SearchRequest{Query: "go"}, 4, fixedTime)
	assert.True(t, p.handleMsg(ctx, redis.XMessage{ID: "1-0", Values: services.EncodeHistory(h)}))

	rows, err := repo.ListByUser(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].ResultsCount)

	// malformed messages are acked and dropped
	assert.True(t, p.handleMsg(ctx, redis.XMessage{ID: "2-0", Values: map[string]any{"query": "x"}}))
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	p.Repo = &failingRepo{}
	assert.False(t, p.handleMsg(ctx, redis.XMessage{ID: "3-0", Values: services.EncodeHistory(h)}))
}

func TestStartRequiresDependencies(t *testing.T) {
	assert.Error(t, (&HistoryWorkerPool{}).Start(context.Background()))
}

type fakeSearch struct {
	services.SearchService
	warmed []int
	err    error
}

func (f *fakeSearch) WarmTop(_ context.Context, limit int) error {
	f.warmed = append(f.warmed, limit)
	return f.err
}

func TestWarmerRunsEveryLimit(t *testing.T) {
	l, hook := test.NewNullLogger()
	s := &fakeSearch{}
	w := NewTopTalentWarmer(s, "@every 1h", []int{10, 20}, l)

	w.Run(context.Background())
	assert.Equal(t, []int{10, 20}, s.warmed)

	s.err = errors.New("provider down")
	w.Run(context.Background())
	assert.Len(t, hook.AllEntries(), 2)
}

func TestWarmerRejectsBadSpec(t *testing.T) {
	w := NewTopTalentWarmer(&fakeSearch{}, "not a spec", nil, nil)
	assert.Error(t, w.Start(context.Background()))
}

func TestWarmerStopsOnCancelledContext(t *testing.T) {
	s := &fakeSearch{}
	w := NewTopTalentWarmer(s, "@every 1h", []int{1, 2}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Run(ctx)
	assert.Empty(t, s.warmed)
}
