package talent

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/utils"
)

type fakeSearcher struct {
	results map[string][]models.SearchResultItem
	errs    map[string]error
	calls   []models.SearchRequest
}

func (f *fakeSearcher) Search(_ context.Context, req models.SearchRequest) ([]models.SearchResultItem, error) {
	f.calls = append(f.calls, req)
	if err := f.errs[req.Query]; err != nil {
		return nil, err
	}
	return f.results[req.Query], nil
}

func item(id, name string, rank float64, strength int, completion float64) models.SearchResultItem {
	return models.SearchResultItem{ID: id, Name: name, Headline: "Engineer", RankScore: rank, TotalStrength: strength, Completion: completion}
}

func newTestAggregator(s *fakeSearcher, terms ...string) (*Aggregator, *test.Hook) {
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)
	cfg := AggregatorConfig{
		Terms:         terms,
		MinRankScore:  0.1,
		MinCompletion: 0.5,
		OverFetch:     2,
	}
	return NewAggregator(s, cfg, l), hook
}

func TestTopRanksDedupesAndTruncates(t *testing.T) {
	s := &fakeSearcher{results: map[string][]models.SearchResultItem{
		"engineer": {
			item("a", "A", 0.5, 10, 0.9),
			item("b", "B", 0.9, 1, 0.9),
			item("low-rank", "L", 0.05, 50, 0.9),
			item("low-completion", "C", 0.99, 50, 0.4),
		},
		"designer": {
			{ID: "a", Name: "A again", RankScore: 0.99, Completion: 0.9, Headline: "engineer"},
			{ID: "d", Name: "D", Headline: "Product designer", RankScore: 0.5, TotalStrength: 20, Completion: 0.6},
			{ID: "e", Name: "E", Headline: "Product designer", RankScore: 0.5, TotalStrength: 20, Completion: 0.8},
			{ID: "off-topic", Name: "Z", Headline: "Chef", RankScore: 0.7, Completion: 0.9},
			{ID: "meta", Name: "M", Headline: "Chef", RankScore: 0.2, Completion: 0.9, MetaMatch: true},
		},
	}}
	agg, _ := newTestAggregator(s, "engineer", "designer")

	out, err := agg.Top(context.Background(), 10)
	require.NoError(t, err)

	var got []string
	for _, it := range out {
		got = append(got, it.ID)
	}
	assert.Equal(t, []string{"b", "e", "d", "a", "meta"}, got)

	// first occurrence wins on duplicates
	assert.Equal(t, "A", out[3].Name)

	require.Len(t, s.calls, 2)
	assert.Equal(t, 20, s.calls[0].Limit)

	top2, err := agg.Top(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, top2, 2)
}

func TestTopInvariants(t *testing.T) {
	s := &fakeSearcher{results: map[string][]models.SearchResultItem{
		"engineer": {item("1", "x", 0.3, 1, 0.9), item("2", "y", 0.7, 3, 0.9), item("1", "x", 0.3, 1, 0.9)},
		"lead":     {item("2", "y", 0.7, 3, 0.9), item("3", "z", 0.7, 3, 0.95), item("4", "w", 0.2, 0, 0.6)},
	}}
	agg, _ := newTestAggregator(s, "engineer", "lead")

	out, err := agg.Top(context.Background(), 3)
	require.NoError(t, err)
	require.LessOrEqual(t, len(out), 3)

	seen := map[string]bool{}
	for i, it := range out {
		assert.False(t, seen[it.ID], "duplicate %s", it.ID)
		seen[it.ID] = true
		if i > 0 {
			assert.GreaterOrEqual(t, out[i-1].RankScore, it.RankScore)
		}
	}
}

func TestTopNoPadding(t *testing.T) {
	s := &fakeSearcher{results: map[string][]models.SearchResultItem{
		"engineer": {item("1", "x", 0.3, 1, 0.9)},
	}}
	agg, _ := newTestAggregator(s, "engineer")

	out, err := agg.Top(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestTopSkipsFailingTerm(t *testing.T) {
	s := &fakeSearcher{
		results: map[string][]models.SearchResultItem{"engineer": {item("1", "x", 0.3, 1, 0.9)}},
		errs:    map[string]error{"designer": utils.Upstream("torre.Search", http.StatusInternalServerError, "Torre API Error: 500", nil)},
	}
	agg, hook := newTestAggregator(s, "designer", "engineer")

	out, err := agg.Top(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, out, 1)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["term"] == "designer" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestTopAllTermsFail(t *testing.T) {
	rate := &utils.AppError{Code: utils.CodeRateLimited, Op: "torre.Search", Message: "Torre API Rate Limited: Too many requests", Status: 429}
	s := &fakeSearcher{errs: map[string]error{"engineer": rate, "designer": rate}}
	agg, _ := newTestAggregator(s, "engineer", "designer")

	_, err := agg.Top(context.Background(), 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAggregation)
	assert.True(t, utils.IsCode(err, utils.CodeRateLimited))
}

func TestTopPausesBetweenTermsAndHonoursCancel(t *testing.T) {
	s := &fakeSearcher{results: map[string][]models.SearchResultItem{}}
	agg, _ := newTestAggregator(s, "a", "b", "c")
	agg.cfg.TermDelay = 150 * time.Millisecond

	var pauses []time.Duration
	agg.pause = func(ctx context.Context, d time.Duration) error {
		pauses = append(pauses, d)
		return nil
	}

	_, err := agg.Top(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{150 * time.Millisecond, 150 * time.Millisecond}, pauses)

	agg.pause = func(ctx context.Context, d time.Duration) error { return context.Canceled }
	s.calls = nil
	_, err = agg.Top(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Len(t, s.calls, 1)
}

func TestTopRejectsNonPositiveLimit(t *testing.T) {
	agg, _ := newTestAggregator(&fakeSearcher{}, "a")
	_, err := agg.Top(context.Background(), 0)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestTopRejectsLimitPastOverFetchPage(t *testing.T) {
	s := &fakeSearcher{results: map[string][]models.SearchResultItem{}}
	agg := NewAggregator(s, AggregatorConfig{Terms: []string{"a"}, OverFetch: 3}, nil)
	require.Equal(t, 33, agg.MaxLimit())

	_, err := agg.Top(context.Background(), 34)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
	assert.Empty(t, s.calls)

	_, err = agg.Top(context.Background(), 33)
	require.NoError(t, err)
	require.Len(t, s.calls, 1)
	assert.Equal(t, 99, s.calls[0].Limit)
}

func TestNewAggregatorDefaults(t *testing.T) {
	agg := NewAggregator(&fakeSearcher{}, AggregatorConfig{OverFetch: 1}, nil)
	assert.Equal(t, 2, agg.Config().OverFetch)
	assert.Equal(t, DefaultAggregatorConfig().Terms, agg.Config().Terms)
}
