package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/talentscope/internal/cache"
	"github.com/yoockh/talentscope/internal/logger"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/providers/torre"
	"github.com/yoockh/talentscope/internal/talent"
	"github.com/yoockh/talentscope/internal/utils"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTopLimit   = 20
	CandidatePageSize = 10

	topComputeTimeout = 45 * time.Second
)

type SearchService interface {
	Search(ctx context.Context, userID string, req models.SearchRequest) (*models.SearchResponse, error)
	Top(ctx context.Context, limit int) (*models.TopTalentResponse, error)
	// WarmTop recomputes the top view for limit and replaces the cached copy.
	WarmTop(ctx context.Context, limit int) error
	Suggestions(q string) []string
	SearchCandidates(ctx context.Context, req models.CandidateSearchRequest) (*models.CandidatePage, error)
}

type searchService struct {
	search      torre.Searcher
	aggregator  *talent.Aggregator
	transformer *talent.Transformer
	cache       cache.Cache
	cacheTTL    time.Duration
	history     HistoryService
	validate    *validator.Validate
	group       singleflight.Group
	log         *logrus.Entry
	now         func() time.Time
}

func NewSearchService(
	s torre.Searcher,
	agg *talent.Aggregator,
	tr *talent.Transformer,
	c cache.Cache,
	cacheTTL time.Duration,
	history HistoryService,
	l *logrus.Logger,
) SearchService {
	return &searchService{
		search:      s,
		aggregator:  agg,
		transformer: tr,
		cache:       c,
		cacheTTL:    cacheTTL,
		history:     history,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		log:         logger.Component(l, "search"),
		now:         time.Now,
	}
}

func (s *searchService) Search(ctx context.Context, userID string, req models.SearchRequest) (*models.SearchResponse, error) {
	const op = "SearchService.Search"

	req.Query = strings.TrimSpace(req.Query)
	start := s.now()

	items, err := s.search.Search(ctx, req)
	if err != nil {
		return nil, utils.Wrap(op, err)
	}
	items = talent.Annotate(items)

	resp := &models.SearchResponse{
		Results: items,
		Total:   len(items),
		Metadata: models.SearchMetadata{
			Query:      req.Query,
			SearchTime: s.now().Sub(start).Milliseconds(),
			Filters:    req.Filters,
		},
	}

	if userID != "" && s.history != nil {
		if err := s.history.Record(ctx, userID, req, len(items)); err != nil {
			s.log.WithError(err).WithField("user_id", userID).Warn("failed to record search history")
		}
	}
	return resp, nil
}

func (s *searchService) Top(ctx context.Context, limit int) (*models.TopTalentResponse, error) {
	const op = "SearchService.Top"

	limit, err := s.topLimit(op, limit)
	if err != nil {
		return nil, err
	}

	key := topKey(limit)
	var cached models.TopTalentResponse
	hit, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		s.log.WithError(err).Warn("top talent cache read failed")
	}
	if hit {
		cached.Cached = true
		return &cached, nil
	}

	// identical concurrent requests share one aggregation
	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.computeTop(ctx, limit)
	})
	if err != nil {
		return nil, utils.Wrap(op, err)
	}
	s.log.WithFields(logrus.Fields{"limit": limit, "shared": shared}).Debug("top talent computed")

	resp := *v.(*models.TopTalentResponse)
	return &resp, nil
}

func (s *searchService) WarmTop(ctx context.Context, limit int) error {
	const op = "SearchService.WarmTop"

	limit, err := s.topLimit(op, limit)
	if err != nil {
		return err
	}
	_, err, _ = s.group.Do(topKey(limit), func() (any, error) {
		return s.computeTop(ctx, limit)
	})
	return utils.Wrap(op, err)
}

// computeTop runs detached from the caller's cancellation since its result is
// shared and cached.
func (s *searchService) computeTop(ctx context.Context, limit int) (*models.TopTalentResponse, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), topComputeTimeout)
	defer cancel()

	items, err := s.aggregator.Top(ctx, limit)
	if err != nil {
		return nil, err
	}
	resp := &models.TopTalentResponse{
		Results:     talent.Annotate(items),
		Total:       len(items),
		GeneratedAt: s.now().UTC(),
	}
	if err := s.cache.SetJSON(ctx, topKey(limit), resp, s.cacheTTL); err != nil {
		s.log.WithError(err).Warn("top talent cache write failed")
	}
	return resp, nil
}

// topLimit bounds limit by what the aggregator can over-fetch in one page.
func (s *searchService) topLimit(op string, limit int) (int, error) {
	upper := s.aggregator.MaxLimit()
	if limit == 0 {
		return min(DefaultTopLimit, upper), nil
	}
	if limit < 0 || limit > upper {
		return 0, utils.E(utils.CodeInvalidArgument, op, "limit must be between 1 and "+strconv.Itoa(upper), nil)
	}
	return limit, nil
}

func topKey(limit int) string { return cache.Key("top", strconv.Itoa(limit)) }

func (s *searchService) Suggestions(q string) []string {
	return torre.Suggestions(q)
}

func (s *searchService) SearchCandidates(ctx context.Context, req models.CandidateSearchRequest) (*models.CandidatePage, error) {
	const op = "SearchService.SearchCandidates"

	if strings.TrimSpace(req.Query) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Search query is required", nil)
	}
	if err := s.validate.Struct(req.Criteria); err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid filters", err)
	}
	page := req.Page
	if page < 1 {
		page = 1
	}

	items, err := s.search.Search(ctx, models.SearchRequest{Query: req.Query, Limit: torre.MaxLimit})
	if err != nil {
		return nil, utils.Wrap(op, err)
	}

	candidates := make([]models.Candidate, 0, len(items))
	for _, it := range items {
		candidates = append(candidates, s.transformer.CandidateFromSearchItem(it))
	}

	filtered, steps := talent.FilterSteps(candidates, req.Criteria)
	for _, st := range steps {
		s.log.WithFields(logrus.Fields{
			"step":    st.Name,
			"initial": st.Initial,
			"dropped": st.Dropped,
			"left":    st.Left,
		}).Debug("filter step")
	}

	out := &models.CandidatePage{Candidates: []models.Candidate{}, Page: page}
	// checked before multiplying so a huge page number cannot overflow
	if page-1 > len(filtered)/CandidatePageSize {
		return out, nil
	}
	start := (page - 1) * CandidatePageSize
	end := start + CandidatePageSize
	out.HasMore = end < len(filtered)
	if start < len(filtered) {
		out.Candidates = filtered[start:min(end, len(filtered))]
	}
	return out, nil
}
