package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"folio/internal/auth"
	"folio/internal/tasks"
)

const (
	wsWriteWait  = 5 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

type notifySubscriber interface {
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// WsHandler 把打印结果实时推给编辑器。
// 握手后客户端必须先发送 {"type":"auth","token":"..."}，通过后才订阅该会话的通知频道。
type WsHandler struct {
	subscriber     notifySubscriber
	tokens         *auth.SessionService
	logger         *slog.Logger
	upgrader       websocket.Upgrader
	allowedOrigins []string
	authTimeout    time.Duration
}

// NewWsHandler 构造处理器。allowedOrigins 为空时只接受同源页面。
func NewWsHandler(subscriber notifySubscriber, tokens *auth.SessionService, logger *slog.Logger, allowedOrigins []string) *WsHandler {
	h := &WsHandler{
		subscriber:     subscriber,
		tokens:         tokens,
		logger:         logger,
		allowedOrigins: allowedOrigins,
		authTimeout:    10 * time.Second,
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

func (h *WsHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// 非浏览器客户端不带 Origin。
		return true
	}
	if len(h.allowedOrigins) > 0 {
		return slices.Contains(h.allowedOrigins, origin)
	}
	u, err := url.Parse(origin)
	return err == nil && strings.EqualFold(u.Host, r.Host)
}

type wsClientMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

type wsReadyMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
}

// HandleConnection 处理一条 WebSocket 连接直到任一方断开。
func (h *WsHandler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("upgrade websocket failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	log := h.logger.With(slog.String("client_ip", c.ClientIP()))

	claims, err := h.authenticate(conn)
	if err != nil {
		log.Warn("websocket authentication failed", slog.Any("error", err))
		return
	}
	log = log.With(slog.String("session_id", claims.SessionID))

	if err := h.writeJSON(conn, wsReadyMessage{Type: "ready", SessionID: claims.SessionID}); err != nil {
		log.Info("websocket closed before ready", slog.Any("error", err))
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	errCh := make(chan error, 2)
	go func() { errCh <- h.readPump(conn) }()
	go func() { errCh <- h.forward(ctx, conn, tasks.NotifyChannel(claims.SessionID)) }()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			log.Info("websocket connection closed", slog.Any("error", err))
		}
	}
}

func (h *WsHandler) authenticate(conn *websocket.Conn) (*auth.SessionClaims, error) {
	_ = conn.SetReadDeadline(time.Now().Add(h.authTimeout))

	var msg wsClientMessage
	if err := conn.ReadJSON(&msg); err != nil {
		h.close(conn, websocket.ClosePolicyViolation, "auth required")
		return nil, fmt.Errorf("read auth message: %w", err)
	}
	if msg.Type != "auth" || msg.Token == "" {
		h.close(conn, websocket.ClosePolicyViolation, "auth required")
		return nil, errors.New("first message is not an auth message")
	}

	claims, err := h.tokens.Validate(msg.Token)
	if err != nil {
		h.close(conn, websocket.ClosePolicyViolation, "unauthorized")
		return nil, fmt.Errorf("validate token: %w", err)
	}
	return claims, nil
}

// readPump 丢弃客户端消息，只维护 pong 期限并发现断开。
func (h *WsHandler) readPump(conn *websocket.Conn) error {
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return err
		}
	}
}

// forward 订阅 channel 并把每条通知原样写给客户端，同时定期 ping。
func (h *WsHandler) forward(ctx context.Context, conn *websocket.Conn, channel string) error {
	pubsub := h.subscriber.Subscribe(ctx, channel)
	defer pubsub.Close()

	messages := pubsub.Channel()
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return errors.New("notification channel closed")
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return fmt.Errorf("write notification: %w", err)
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return fmt.Errorf("write ping: %w", err)
			}
		}
	}
}

func (h *WsHandler) writeJSON(conn *websocket.Conn, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteMessage(websocket.TextMessage, payload)
}

func (h *WsHandler) close(conn *websocket.Conn, code int, text string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(wsWriteWait))
}
