package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/browserctl/internal/domain/browser"
	"github.com/GriffinCanCode/browserctl/internal/infrastructure/logging"
)

const writeWait = 5 * time.Second

// Frame is one server to client message.
type Frame struct {
	Type      string             `json:"type"`
	Event     *browser.Event     `json:"event,omitempty"`
	Browsers  []browser.Instance `json:"browsers,omitempty"`
	Message   string             `json:"message,omitempty"`
	Timestamp int64              `json:"timestamp"`
}

type clientMessage struct {
	Type string `json:"type"`
}

// Handler manages WebSocket connections
type Handler struct {
	hub        *browser.Hub
	controller browser.Service
	logger     *logging.Logger
	upgrader   websocket.Upgrader
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *browser.Hub, controller browser.Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{
		hub:        hub,
		controller: controller,
		logger:     logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // CORS middleware already filters origins
			},
		},
	}
}

// conn serializes writes from the event pump and the read loop.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) send(f Frame) error {
	if f.Timestamp == 0 {
		f.Timestamp = time.Now().Unix()
	}
	data, err := sonic.Marshal(f)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// HandleConnection handles WebSocket upgrade and messages
func (h *Handler) HandleConnection(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer ws.Close()

	cn := &conn{ws: ws}
	events, cancel := h.hub.Subscribe()
	defer cancel()

	if err := cn.send(h.status()); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.readLoop(cn)
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				_ = ws.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(writeWait))
				return
			}
			if err := cn.send(Frame{Type: "event", Event: &ev}); err != nil {
				h.logger.Debug("websocket write failed", zap.Error(err))
				return
			}
		case <-done:
			return
		}
	}
}

func (h *Handler) readLoop(cn *conn) {
	for {
		_, data, err := cn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}

		var msg clientMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			_ = cn.send(Frame{Type: "error", Message: "invalid message"})
			continue
		}

		var reply Frame
		switch msg.Type {
		case "ping":
			reply = Frame{Type: "pong"}
		case "status":
			reply = h.status()
		default:
			reply = Frame{Type: "error", Message: "unknown message type"}
		}
		if err := cn.send(reply); err != nil {
			return
		}
	}
}

func (h *Handler) status() Frame {
	return Frame{Type: "status", Browsers: h.controller.Status()}
}
