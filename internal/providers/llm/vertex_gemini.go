package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"github.com/google/uuid"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/utils"
	"google.golang.org/api/iterator"
)

type VertexGemini struct {
	client    *vertexgenai.Client
	modelName string
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &VertexGemini{client: c, modelName: modelName}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

// session builds a per-request model and chat with the history preloaded, and
// returns the final user turn to send.
func (v *VertexGemini) session(req models.ChatRequest) (*vertexgenai.ChatSession, vertexgenai.Text, error) {
	req = withDefaults(req, v.modelName)

	system, history, last := splitConversation(req.Messages)
	if last == "" {
		return nil, "", errors.New("conversation has no user message")
	}

	m := v.client.GenerativeModel(v.modelName)
	m.SetMaxOutputTokens(int32(req.MaxTokens))
	m.SetTemperature(float32(*req.Temperature))
	if system != "" {
		m.SystemInstruction = &vertexgenai.Content{Parts: []vertexgenai.Part{vertexgenai.Text(system)}}
	}

	cs := m.StartChat()
	cs.History = history
	return cs, vertexgenai.Text(last), nil
}

func (v *VertexGemini) Complete(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	const op = "VertexGemini.Complete"

	cs, last, err := v.session(req)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, err.Error(), err)
	}
	resp, err := cs.SendMessage(ctx, last)
	if err != nil {
		return nil, utils.Upstream(op, http.StatusBadGateway, "Vertex AI request failed", err)
	}

	var sb strings.Builder
	if len(resp.Candidates) > 0 {
		appendText(&sb, resp.Candidates[0].Content)
	}
	return &models.ChatResponse{
		ID:    uuid.NewString(),
		Model: v.modelName,
		Choices: []models.ChatChoice{{
			Message:      models.ChatMessage{Role: "assistant", Content: sb.String()},
			FinishReason: "stop",
		}},
	}, nil
}

func (v *VertexGemini) StreamAnswer(ctx context.Context, req models.ChatRequest) (<-chan string, <-chan error) {
	const op = "VertexGemini.StreamAnswer"

	out := make(chan string, 32)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		cs, last, err := v.session(req)
		if err != nil {
			errs <- utils.E(utils.CodeInvalidArgument, op, err.Error(), err)
			return
		}

		it := cs.SendMessageStream(ctx, last)
		for {
			resp, err := it.Next()
			if errors.Is(err, iterator.Done) {
				return
			}
			if err != nil {
				errs <- utils.Upstream(op, http.StatusBadGateway, "Vertex AI stream failed", err)
				return
			}

			for _, cand := range resp.Candidates {
				if cand.Content == nil {
					continue
				}
				for _, part := range cand.Content.Parts {
					if t, ok := part.(vertexgenai.Text); ok && string(t) != "" {
						out <- string(t)
					}
				}
			}
		}
	}()

	return out, errs
}

// splitConversation separates system prompts, prior turns and the last user
// message. Gemini calls the assistant role "model".
func splitConversation(msgs []models.ChatMessage) (string, []*vertexgenai.Content, string) {
	var system []string
	var turns []models.ChatMessage
	for _, m := range msgs {
		if m.Role == "system" {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m)
	}

	last := ""
	if n := len(turns); n > 0 && turns[n-1].Role == "user" {
		last = turns[n-1].Content
		turns = turns[:n-1]
	}

	history := make([]*vertexgenai.Content, 0, len(turns))
	for _, t := range turns {
		role := "user"
		if t.Role == "assistant" {
			role = "model"
		}
		history = append(history, &vertexgenai.Content{
			Role:  role,
			Parts: []vertexgenai.Part{vertexgenai.Text(t.Content)},
		})
	}
	return strings.Join(system, "\n\n"), history, last
}

func appendText(sb *strings.Builder, c *vertexgenai.Content) {
	if c == nil {
		return
	}
	for _, part := range c.Parts {
		if t, ok := part.(vertexgenai.Text); ok {
			sb.WriteString(string(t))
		}
	}
}
