package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/talentscope/internal/cache"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/repositories/memory"
	"github.com/yoockh/talentscope/internal/talent"
	"github.com/yoockh/talentscope/internal/utils"
)

func engineers(n int) []models.SearchResultItem {
	out := make([]models.SearchResultItem, n)
	for i := range out {
		out[i] = models.SearchResultItem{
			ID:         fmt.Sprintf("id-%02d", i),
			Name:       fmt.Sprintf("Person %d", i),
			Headline:   "Senior Go Engineer",
			RankScore:  0.9 - float64(i)*0.01,
			Completion: 0.9,
		}
	}
	return out
}

func newTestSearchService(s *fakeSearcher) (SearchService, *memory.SearchHistoryRepo) {
	l := nullLogger()
	agg := talent.NewAggregator(s, talent.AggregatorConfig{
		Terms:         []string{"engineer"},
		MinRankScore:  0.05,
		MinCompletion: 0.5,
		OverFetch:     2,
	}, l)
	hist := memory.NewSearchHistoryRepo()
	svc := NewSearchService(s, agg, talent.NewTransformer(), cache.NewMemoryCache(), time.Minute, NewHistoryService(hist, nil), l)
	return svc, hist
}

func TestSearchAnnotatesAndRecordsHistory(t *testing.T) {
	s := &fakeSearcher{results: map[string][]models.SearchResultItem{"go": engineers(2)}}
	svc, hist := newTestSearchService(s)

	resp, err := svc.Search(context.Background(), "u1", models.SearchRequest{
		Query:   "  go ",
		Filters: &models.SearchFilters{Location: "Lima", Skills: []string{"Go"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "go", resp.Metadata.Query)
	assert.Equal(t, "elite", resp.Results[0].Tier)
	assert.Equal(t, "high", resp.Results[0].CompletionBand)

	rows, err := hist.ListByUser(context.Background(), "u1", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "go", rows[0].Query)
	assert.Equal(t, "Lima", rows[0].Location)
	assert.Equal(t, []string{"Go"}, []string(rows[0].Skills))
	assert.Equal(t, 2, rows[0].ResultsCount)
}

func TestSearchAnonymousSkipsHistory(t *testing.T) {
	s := &fakeSearcher{results: map[string][]models.SearchResultItem{"go": engineers(1)}}
	svc, hist := newTestSearchService(s)

	_, err := svc.Search(context.Background(), "", models.SearchRequest{Query: "go"})
	require.NoError(t, err)
	rows, _ := hist.ListByUser(context.Background(), "", 10)
	assert.Empty(t, rows)
}

func TestSearchPropagatesProviderError(t *testing.T) {
	s := &fakeSearcher{err: &utils.AppError{Code: utils.CodeRateLimited, Message: "Torre API Rate Limited: Too many requests", Status: 429}}
	svc, _ := newTestSearchService(s)

	_, err := svc.Search(context.Background(), "u1", models.SearchRequest{Query: "go"})
	require.Error(t, err)
	assert.Equal(t, 429, utils.HTTPStatus(err))
}

func TestTopIsCached(t *testing.T) {
	s := &fakeSearcher{results: map[string][]models.SearchResultItem{"engineer": engineers(5)}}
	svc, _ := newTestSearchService(s)
	ctx := context.Background()

	first, err := svc.Top(ctx, 3)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Len(t, first.Results, 3)
	assert.Equal(t, 1, s.callCount())

	second, err := svc.Top(ctx, 3)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Results, second.Results)
	assert.Equal(t, 1, s.callCount())

	require.NoError(t, svc.WarmTop(ctx, 3))
	assert.Equal(t, 2, s.callCount())
}

func TestTopLimitValidation(t *testing.T) {
	svc, _ := newTestSearchService(&fakeSearcher{})

	_, err := svc.Top(context.Background(), -1)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
	_, err = svc.Top(context.Background(), 101)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestTopLimitKeepsOverFetchWithinOnePage(t *testing.T) {
	s := &fakeSearcher{results: map[string][]models.SearchResultItem{"engineer": engineers(5)}}
	svc, _ := newTestSearchService(s)

	// over-fetch is 2, so 50 is the largest limit a single page can serve
	_, err := svc.Top(context.Background(), 51)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
	assert.Equal(t, 0, s.callCount())

	_, err = svc.Top(context.Background(), 50)
	require.NoError(t, err)
	require.Equal(t, 1, s.callCount())
	assert.Equal(t, 100, s.lastRequest().Limit)
}

func TestTopAllTermsFailing(t *testing.T) {
	s := &fakeSearcher{err: utils.Upstream("torre", 500, "Torre API Error: 500 - boom", nil)}
	svc, _ := newTestSearchService(s)

	_, err := svc.Top(context.Background(), 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, talent.ErrAggregation)
}

func TestSearchCandidatesPaginates(t *testing.T) {
	s := &fakeSearcher{results: map[string][]models.SearchResultItem{"go": engineers(25)}}
	svc, _ := newTestSearchService(s)
	ctx := context.Background()

	p1, err := svc.SearchCandidates(ctx, models.CandidateSearchRequest{Query: "go"})
	require.NoError(t, err)
	assert.Equal(t, 1, p1.Page)
	assert.Len(t, p1.Candidates, 10)
	assert.True(t, p1.HasMore)
	assert.Equal(t, "id-00", p1.Candidates[0].ID)

	p3, err := svc.SearchCandidates(ctx, models.CandidateSearchRequest{Query: "go", Page: 3})
	require.NoError(t, err)
	assert.Len(t, p3.Candidates, 5)
	assert.False(t, p3.HasMore)

	p9, err := svc.SearchCandidates(ctx, models.CandidateSearchRequest{Query: "go", Page: 9})
	require.NoError(t, err)
	assert.Empty(t, p9.Candidates)
	assert.NotNil(t, p9.Candidates)
}

func TestSearchCandidatesHugePageIsEmpty(t *testing.T) {
	s := &fakeSearcher{results: map[string][]models.SearchResultItem{"go": engineers(25)}}
	svc, _ := newTestSearchService(s)

	page, err := svc.SearchCandidates(context.Background(), models.CandidateSearchRequest{Query: "go", Page: 1e18})
	require.NoError(t, err)
	assert.Equal(t, int(1e18), page.Page)
	assert.Empty(t, page.Candidates)
	assert.False(t, page.HasMore)
}

func TestSearchCandidatesFilters(t *testing.T) {
	items := engineers(3)
	items[1].Location = &models.Location{Name: "Bogotá"}
	s := &fakeSearcher{results: map[string][]models.SearchResultItem{"go": items}}
	svc, _ := newTestSearchService(s)

	page, err := svc.SearchCandidates(context.Background(), models.CandidateSearchRequest{
		Query:    "go",
		Criteria: models.FilterCriteria{Location: "Bogotá"},
	})
	require.NoError(t, err)
	require.Len(t, page.Candidates, 1)
	assert.Equal(t, "id-01", page.Candidates[0].ID)
}

func TestSearchCandidatesRejectsBadCriteria(t *testing.T) {
	svc, _ := newTestSearchService(&fakeSearcher{})
	ctx := context.Background()

	for name, c := range map[string]models.FilterCriteria{
		"unknown bucket":    {Experience: "10 years"},
		"inverted range":    {Compensation: &models.CompensationRange{Min: 100, Max: 50}},
		"negative minimum":  {Compensation: &models.CompensationRange{Min: -1, Max: 50}},
		"blank skill entry": {Skills: []string{"Go", ""}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.SearchCandidates(ctx, models.CandidateSearchRequest{Query: "go", Criteria: c})
			assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
		})
	}

	_, err := svc.SearchCandidates(ctx, models.CandidateSearchRequest{Query: "  "})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestSuggestions(t *testing.T) {
	svc, _ := newTestSearchService(&fakeSearcher{})
	assert.Empty(t, svc.Suggestions("de"))
	assert.NotEmpty(t, svc.Suggestions("engineer"))
}
