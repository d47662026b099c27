package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/talentscope/internal/logger"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/services"
	"github.com/yoockh/talentscope/internal/utils"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsWriteTimeout = 10 * time.Second
	wsPingEvery    = 30 * time.Second
)

type WSHandler struct {
	chat     services.ChatService
	log      *logrus.Entry
	upgrader websocket.Upgrader
}

func NewWSHandler(chat services.ChatService, allowedOrigins []string, l *logrus.Logger) *WSHandler {
	return &WSHandler{
		chat: chat,
		log:  logger.Component(l, "ws"),
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(allowedOrigins),
		},
	}
}

// originChecker allows any origin when the list is empty.
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	set := map[string]struct{}{}
	for _, o := range allowed {
		set[strings.TrimRight(strings.ToLower(o), "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[strings.TrimRight(strings.ToLower(origin), "/")]
		return ok
	}
}

type wsClientMsg struct {
	Type        string               `json:"type"` // chat|ping
	Model       string               `json:"model,omitempty"`
	Messages    []models.ChatMessage `json:"messages"`
	MaxTokens   int                  `json:"max_tokens,omitempty"`
	Temperature *float64             `json:"temperature,omitempty"`
}

type wsServerMsg struct {
	Type    string     `json:"type"` // chunk|done|error|pong
	Content string     `json:"content,omitempty"`
	Code    utils.Code `json:"code,omitempty"`
	Error   string     `json:"error,omitempty"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeJSON(v wsServerMsg) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return w.c.WriteJSON(v)
}

func (w *wsConn) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.c.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout))
}

func (w *wsConn) writeErr(code utils.Code, msg string) error {
	return w.writeJSON(wsServerMsg{Type: "error", Code: code, Error: msg})
}

// ChatWS streams chat replies about one candidate. Each client "chat" message
// carries the full conversation so far; replies arrive as chunk frames
// followed by a done frame holding the whole answer.
func (h *WSHandler) ChatWS(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	candidateID := c.Param("candidateId")
	if candidateID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "WSHandler.ChatWS", "missing candidateId", nil))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	log := h.log.WithFields(logrus.Fields{"user_id": userID, "candidate_id": candidateID})

	// reader: WS -> requests
	requests := make(chan wsClientMsg)
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
			return nil
		})

		for {
			_, data, rerr := conn.ReadMessage()
			if rerr != nil {
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

			var msg wsClientMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				_ = wc.writeErr(utils.CodeInvalidArgument, "invalid json")
				continue
			}

			switch msg.Type {
			case "ping":
				_ = wc.writeJSON(wsServerMsg{Type: "pong"})
			case "chat":
				if len(msg.Messages) == 0 {
					_ = wc.writeErr(utils.CodeInvalidArgument, "messages are required")
					continue
				}
				select {
				case requests <- msg:
				case <-ctx.Done():
					return
				}
			default:
				_ = wc.writeErr(utils.CodeInvalidArgument, "unknown message type")
			}
		}
	}()

	ticker := time.NewTicker(wsPingEvery)
	defer ticker.Stop()

	// writer: provider stream -> WS
	for {
		select {
		case <-readDone:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := wc.ping(); err != nil {
				return
			}
		case msg := <-requests:
			req := models.ChatRequest{
				Model:       msg.Model,
				Messages:    msg.Messages,
				MaxTokens:   msg.MaxTokens,
				Temperature: msg.Temperature,
				CandidateID: candidateID,
			}
			if err := h.relay(ctx, wc, userID, req); err != nil {
				log.WithError(err).Debug("websocket write failed")
				return
			}
		}
	}
}

// relay streams one reply. It only returns an error when the socket is gone.
func (h *WSHandler) relay(ctx context.Context, wc *wsConn, userID string, req models.ChatRequest) error {
	chunks, errs := h.chat.Stream(ctx, userID, req)

	var full strings.Builder
	for chunk := range chunks {
		full.WriteString(chunk)
		if err := wc.writeJSON(wsServerMsg{Type: "chunk", Content: chunk}); err != nil {
			return err
		}
	}

	if err := <-errs; err != nil {
		if msg, code, ok := publicError(err); ok {
			return wc.writeErr(code, msg)
		}
		return wc.writeErr(utils.CodeInternal, internalErrorMessage)
	}
	return wc.writeJSON(wsServerMsg{Type: "done", Content: full.String()})
}
