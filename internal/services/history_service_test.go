package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/repositories/memory"
	"github.com/yoockh/talentscope/internal/utils"
)

func TestHistoryEncodeDecode(t *testing.T) {
	at := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	h := NewHistoryEntry("u1", models.SearchRequest{
		Query:   " react ",
		Filters: &models.SearchFilters{Location: "Lima", Skills: []string{"React", "TypeScript"}},
	}, 7, at)

	got, err := DecodeHistory(EncodeHistory(h))
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "react", got.Query)
	assert.Equal(t, "Lima", got.Location)
	assert.Equal(t, []string{"React", "TypeScript"}, []string(got.Skills))
	assert.Equal(t, 7, got.ResultsCount)
	assert.Equal(t, at, got.CreatedAt)
	assert.JSONEq(t, `{"location":"Lima","skills":["React","TypeScript"]}`, string(got.Filters))
}

func TestDecodeHistoryRejectsMalformed(t *testing.T) {
	_, err := DecodeHistory(map[string]any{"query": "go"})
	assert.Error(t, err)

	_, err = DecodeHistory(map[string]any{"user_id": "u", "query": "go", "skills": "not-json"})
	assert.Error(t, err)
}

func TestHistoryRecordWithoutStreamInsertsDirectly(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSearchHistoryRepo()
	svc := NewHistoryService(repo, nil)

	require.NoError(t, svc.Record(ctx, "u1", models.SearchRequest{Query: "go"}, 3))
	err := svc.Record(ctx, "", models.SearchRequest{Query: "go"}, 3)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	rows, err := svc.List(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].ResultsCount)
}
