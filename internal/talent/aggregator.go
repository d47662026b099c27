package talent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/talentscope/internal/logger"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/providers/torre"
	"github.com/yoockh/talentscope/internal/utils"
)

// ErrAggregation is returned when every term of a top-talent run failed.
var ErrAggregation = errors.New("top talent aggregation failed")

type AggregatorConfig struct {
	Terms         []string
	MinRankScore  float64
	MinCompletion float64
	OverFetch     int
	TermDelay     time.Duration
}

func DefaultAggregatorConfig() AggregatorConfig {
	return AggregatorConfig{
		Terms:         []string{"torre", "software engineer", "product designer"},
		MinRankScore:  0.05,
		MinCompletion: 0.5,
		OverFetch:     3,
		TermDelay:     150 * time.Millisecond,
	}
}

// Aggregator builds the top ranked view out of several provider searches.
type Aggregator struct {
	search torre.Searcher
	cfg    AggregatorConfig
	log    *logrus.Entry

	pause func(ctx context.Context, d time.Duration) error
}

func NewAggregator(s torre.Searcher, cfg AggregatorConfig, l *logrus.Logger) *Aggregator {
	if cfg.OverFetch < 2 {
		cfg.OverFetch = 2
	}
	if len(cfg.Terms) == 0 {
		cfg.Terms = DefaultAggregatorConfig().Terms
	}
	return &Aggregator{
		search: s,
		cfg:    cfg,
		log:    logger.Component(l, "aggregator"),
		pause:  utils.WaitFor,
	}
}

func (a *Aggregator) Config() AggregatorConfig { return a.cfg }

// MaxLimit is the largest limit whose over-fetch still fits one provider page.
func (a *Aggregator) MaxLimit() int {
	if n := torre.MaxLimit / a.cfg.OverFetch; n > 0 {
		return n
	}
	return 1
}

// Top returns at most limit qualifying items, deduplicated by id and ordered
// by rank score, then total strength, then completion. Terms are queried one
// after another; a failing term is skipped.
func (a *Aggregator) Top(ctx context.Context, limit int) ([]models.SearchResultItem, error) {
	const op = "Aggregator.Top"

	if limit <= 0 || limit > a.MaxLimit() {
		return nil, utils.E(utils.CodeInvalidArgument, op, fmt.Sprintf("limit must be between 1 and %d", a.MaxLimit()), nil)
	}

	var (
		pool    []models.SearchResultItem
		lastErr error
		ok      int
	)
	for i, term := range a.cfg.Terms {
		if i > 0 {
			if err := a.pause(ctx, a.cfg.TermDelay); err != nil {
				return nil, utils.E(utils.CodeTimeout, op, "aggregation cancelled", err)
			}
		}

		items, err := a.search.Search(ctx, models.SearchRequest{
			Query: term,
			Limit: limit * a.cfg.OverFetch,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, utils.E(utils.CodeTimeout, op, "aggregation cancelled", ctx.Err())
			}
			a.log.WithField("term", term).WithError(err).Warn("top talent term failed")
			lastErr = err
			continue
		}
		ok++
		pool = append(pool, items...)
	}

	if ok == 0 {
		return nil, utils.Wrap(op, fmt.Errorf("%w: %w", ErrAggregation, lastErr))
	}

	out := a.rank(pool, limit)
	a.log.WithFields(logrus.Fields{
		"terms":     len(a.cfg.Terms),
		"failed":    len(a.cfg.Terms) - ok,
		"fetched":   len(pool),
		"qualified": len(out),
	}).Debug("top talent aggregated")
	return out, nil
}

func (a *Aggregator) rank(pool []models.SearchResultItem, limit int) []models.SearchResultItem {
	seen := make(map[string]struct{}, len(pool))
	out := make([]models.SearchResultItem, 0, len(pool))
	for _, it := range pool {
		if !a.qualifies(it) {
			continue
		}
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		x, y := out[i], out[j]
		if x.RankScore != y.RankScore {
			return x.RankScore > y.RankScore
		}
		if x.TotalStrength != y.TotalStrength {
			return x.TotalStrength > y.TotalStrength
		}
		return x.Completion > y.Completion
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (a *Aggregator) qualifies(it models.SearchResultItem) bool {
	return it.RankScore > a.cfg.MinRankScore &&
		it.Completion > a.cfg.MinCompletion &&
		a.relevant(it)
}

// relevant reports a text match between the item and the term set, or a
// direct match flagged by the provider.
func (a *Aggregator) relevant(it models.SearchResultItem) bool {
	if it.MetaMatch {
		return true
	}
	text := strings.ToLower(strings.Join([]string{it.Name, it.Headline, it.Username, it.PublicID}, " "))
	for _, term := range a.cfg.Terms {
		if t := strings.ToLower(strings.TrimSpace(term)); t != "" && strings.Contains(text, t) {
			return true
		}
	}
	return false
}
