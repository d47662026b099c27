package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/talentscope/internal/logger"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/providers/llm"
	"github.com/yoockh/talentscope/internal/repositories"
	"github.com/yoockh/talentscope/internal/utils"
	"gorm.io/datatypes"
)

type ChatService interface {
	Complete(ctx context.Context, userID string, req models.ChatRequest) (*models.ChatResponse, error)
	// Stream relays provider chunks; the transcript is logged once the
	// stream ends cleanly.
	Stream(ctx context.Context, userID string, req models.ChatRequest) (<-chan string, <-chan error)
	Messages(ctx context.Context, userID, candidateID string, limit int) ([]models.ConversationLog, error)
}

type chatService struct {
	provider llm.Provider
	convos   repositories.ConversationRepository
	log      *logrus.Entry
}

func NewChatService(p llm.Provider, convos repositories.ConversationRepository, l *logrus.Logger) ChatService {
	return &chatService{provider: p, convos: convos, log: logger.Component(l, "chat")}
}

func validateChat(op string, req models.ChatRequest) error {
	if len(req.Messages) == 0 {
		return utils.E(utils.CodeInvalidArgument, op, "messages are required", nil)
	}
	return nil
}

func (s *chatService) Complete(ctx context.Context, userID string, req models.ChatRequest) (*models.ChatResponse, error) {
	const op = "ChatService.Complete"

	if err := validateChat(op, req); err != nil {
		return nil, err
	}
	resp, err := s.provider.Complete(ctx, req)
	if err != nil {
		return nil, utils.Wrap(op, err)
	}
	s.transcript(ctx, userID, req, resp.Content(), resp.Model)
	return resp, nil
}

func (s *chatService) Stream(ctx context.Context, userID string, req models.ChatRequest) (<-chan string, <-chan error) {
	const op = "ChatService.Stream"

	out := make(chan string, 32)
	errs := make(chan error, 1)
	if err := validateChat(op, req); err != nil {
		errs <- err
		close(out)
		close(errs)
		return out, errs
	}

	chunks, perrs := s.provider.StreamAnswer(ctx, req)
	go func() {
		defer close(out)
		defer close(errs)

		var full strings.Builder
		for c := range chunks {
			full.WriteString(c)
			select {
			case out <- c:
			case <-ctx.Done():
				go drain(chunks)
				errs <- utils.E(utils.CodeTimeout, op, "chat stream cancelled", ctx.Err())
				return
			}
		}
		if err := <-perrs; err != nil {
			errs <- utils.Wrap(op, err)
			return
		}
		s.transcript(ctx, userID, req, full.String(), req.Model)
	}()
	return out, errs
}

func drain(ch <-chan string) {
	for range ch {
	}
}

// transcript logs the last user message and the reply for candidate chats.
// Failures are logged and never fail the chat itself.
func (s *chatService) transcript(ctx context.Context, userID string, req models.ChatRequest, reply, model string) {
	if userID == "" || req.CandidateID == "" || s.convos == nil {
		return
	}

	var question string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			question = req.Messages[i].Content
			break
		}
	}
	meta, _ := json.Marshal(map[string]any{"model": model})

	rows := []models.ConversationLog{
		{UserID: userID, CandidateID: req.CandidateID, Role: "user", Content: question},
		{UserID: userID, CandidateID: req.CandidateID, Role: "assistant", Content: reply, Metadata: datatypes.JSON(meta)},
	}
	for i := range rows {
		if rows[i].Content == "" {
			continue
		}
		if err := s.convos.Insert(ctx, &rows[i]); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"user_id":      userID,
				"candidate_id": req.CandidateID,
			}).Warn("failed to log chat transcript")
			return
		}
	}
}

func (s *chatService) Messages(ctx context.Context, userID, candidateID string, limit int) ([]models.ConversationLog, error) {
	const op = "ChatService.Messages"

	if userID == "" || candidateID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and candidate_id are required", nil)
	}
	rows, err := s.convos.ListByCandidate(ctx, userID, candidateID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list messages", err)
	}
	return rows, nil
}
