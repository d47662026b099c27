package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/repositories/memory"
	"github.com/yoockh/talentscope/internal/utils"
)

func chatReq(candidateID string) models.ChatRequest {
	return models.ChatRequest{
		Messages: []models.ChatMessage{
			{Role: "system", Content: "You answer questions about a candidate."},
			{Role: "user", Content: "What are their strengths?"},
		},
		CandidateID: candidateID,
	}
}

func TestChatCompleteLogsCandidateTranscript(t *testing.T) {
	ctx := context.Background()
	convos := memory.NewConversationRepo()
	svc := NewChatService(&fakeProvider{reply: "Go and SQL."}, convos, nullLogger())

	resp, err := svc.Complete(ctx, "u1", chatReq("c1"))
	require.NoError(t, err)
	assert.Equal(t, "Go and SQL.", resp.Content())

	logs, err := svc.Messages(ctx, "u1", "c1", 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "user", logs[0].Role)
	assert.Equal(t, "What are their strengths?", logs[0].Content)
	assert.Equal(t, "assistant", logs[1].Role)
	assert.Equal(t, "Go and SQL.", logs[1].Content)
}

func TestChatCompleteWithoutCandidateIsNotLogged(t *testing.T) {
	ctx := context.Background()
	convos := memory.NewConversationRepo()
	svc := NewChatService(&fakeProvider{reply: "hi"}, convos, nullLogger())

	_, err := svc.Complete(ctx, "u1", chatReq(""))
	require.NoError(t, err)
	_, err = svc.Complete(ctx, "", chatReq("c1"))
	require.NoError(t, err)

	logs, _ := convos.ListByCandidate(ctx, "u1", "c1", 10)
	assert.Empty(t, logs)
}

func TestChatValidationAndUpstreamErrors(t *testing.T) {
	svc := NewChatService(&fakeProvider{err: utils.Upstream("p", 503, "OpenRouter API error: 503", nil)}, nil, nullLogger())

	_, err := svc.Complete(context.Background(), "u1", models.ChatRequest{})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.Complete(context.Background(), "u1", chatReq(""))
	assert.Equal(t, 503, utils.HTTPStatus(err))
}

func TestChatStream(t *testing.T) {
	ctx := context.Background()
	convos := memory.NewConversationRepo()
	svc := NewChatService(&fakeProvider{chunks: []string{"Strong ", "backend."}}, convos, nullLogger())

	chunks, errs := svc.Stream(ctx, "u1", chatReq("c1"))
	var sb strings.Builder
	for c := range chunks {
		sb.WriteString(c)
	}
	require.NoError(t, <-errs)
	assert.Equal(t, "Strong backend.", sb.String())

	logs, _ := convos.ListByCandidate(ctx, "u1", "c1", 10)
	require.Len(t, logs, 2)
	assert.Equal(t, "Strong backend.", logs[1].Content)
}

func TestChatStreamInvalid(t *testing.T) {
	svc := NewChatService(&fakeProvider{}, nil, nullLogger())
	chunks, errs := svc.Stream(context.Background(), "u1", models.ChatRequest{})
	for range chunks {
	}
	assert.True(t, utils.IsCode(<-errs, utils.CodeInvalidArgument))
}
