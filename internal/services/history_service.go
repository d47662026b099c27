package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/repositories"
	"github.com/yoockh/talentscope/internal/utils"
	"gorm.io/datatypes"
)

const HistoryStream = "search:history"

type HistoryService interface {
	// Record queues one search for persistence.
	Record(ctx context.Context, userID string, req models.SearchRequest, results int) error
	List(ctx context.Context, userID string, limit int) ([]models.SearchHistory, error)
}

type historyService struct {
	repo repositories.SearchHistoryRepository
	rdb  *redis.Client
	now  func() time.Time
}

// NewHistoryService publishes to the history stream when rdb is set and
// writes straight to the repository otherwise.
func NewHistoryService(repo repositories.SearchHistoryRepository, rdb *redis.Client) HistoryService {
	return &historyService{repo: repo, rdb: rdb, now: time.Now}
}

func (s *historyService) Record(ctx context.Context, userID string, req models.SearchRequest, results int) error {
	const op = "HistoryService.Record"

	if userID == "" || strings.TrimSpace(req.Query) == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id and query are required", nil)
	}
	h := NewHistoryEntry(userID, req, results, s.now())

	if s.rdb == nil {
		if err := s.repo.Insert(ctx, &h); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to insert search history", err)
		}
		return nil
	}

	if err := s.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: HistoryStream,
		MaxLen: 100000,
		Approx: true,
		Values: EncodeHistory(h),
	}).Err(); err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to enqueue search history", err)
	}
	return nil
}

func (s *historyService) List(ctx context.Context, userID string, limit int) ([]models.SearchHistory, error) {
	const op = "HistoryService.List"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list search history", err)
	}
	return rows, nil
}

func NewHistoryEntry(userID string, req models.SearchRequest, results int, at time.Time) models.SearchHistory {
	h := models.SearchHistory{
		UserID:       userID,
		Query:        strings.TrimSpace(req.Query),
		Skills:       pq.StringArray{},
		ResultsCount: results,
		CreatedAt:    at.UTC(),
	}
	if req.Filters != nil {
		h.Location = req.Filters.Location
		h.Skills = pq.StringArray(append([]string{}, req.Filters.Skills...))
		if b, err := json.Marshal(req.Filters); err == nil {
			h.Filters = datatypes.JSON(b)
		}
	}
	return h
}

// EncodeHistory flattens h into stream fields.
func EncodeHistory(h models.SearchHistory) map[string]any {
	skills, _ := json.Marshal([]string(h.Skills))
	return map[string]any{
		"user_id":       h.UserID,
		"query":         h.Query,
		"location":      h.Location,
		"skills":        string(skills),
		"filters":       string(h.Filters),
		"results_count": strconv.Itoa(h.ResultsCount),
		"ts_unix_ms":    strconv.FormatInt(h.CreatedAt.UnixMilli(), 10),
	}
}

var errBadHistoryMessage = errors.New("malformed search history message")

// DecodeHistory is the inverse of EncodeHistory.
func DecodeHistory(values map[string]any) (models.SearchHistory, error) {
	get := func(k string) string {
		s, _ := values[k].(string)
		return s
	}

	h := models.SearchHistory{
		UserID:   get("user_id"),
		Query:    get("query"),
		Location: get("location"),
		Skills:   pq.StringArray{},
	}
	if h.UserID == "" || h.Query == "" {
		return h, errBadHistoryMessage
	}
	if s := get("skills"); s != "" {
		var skills []string
		if err := json.Unmarshal([]byte(s), &skills); err != nil {
			return h, errBadHistoryMessage
		}
		h.Skills = skills
	}
	if f := get("filters"); f != "" {
		h.Filters = datatypes.JSON(f)
	}
	h.ResultsCount, _ = strconv.Atoi(get("results_count"))
	if ms, err := strconv.ParseInt(get("ts_unix_ms"), 10, 64); err == nil {
		h.CreatedAt = time.UnixMilli(ms).UTC()
	}
	return h, nil
}
