package ws

import (
	"net/http"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/lumenui/lumen/internal/action"
	"github.com/lumenui/lumen/internal/engine"
	"github.com/lumenui/lumen/internal/infrastructure/monitoring"
	"github.com/lumenui/lumen/internal/render"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Origin policy is the deployment's concern.
	},
}

// Handler upgrades renderer connections and bridges them to instances.
type Handler struct {
	manager *engine.Manager
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// NewHandler creates a WebSocket handler over the instance manager.
func NewHandler(manager *engine.Manager, logger *zap.Logger, metrics *monitoring.Metrics) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{manager: manager, logger: logger, metrics: metrics}
}

// frame is a single WebSocket message in either direction.
type frame struct {
	Type   string         `json:"type"`
	Node   string         `json:"node,omitempty"`
	Event  string         `json:"event,omitempty"`
	Tree   *render.Node   `json:"tree,omitempty"`
	Intent *action.Intent `json:"intent,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// HandleConnection upgrades the request and attaches the connection to the
// requested document instance as a sink.
func (h *Handler) HandleConnection(c *gin.Context) {
	instanceID := c.Query("document")
	inst, ok := h.manager.Get(instanceID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown document instance"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
		defer h.metrics.WSConnections.Dec()
	}

	sink := &connSink{conn: conn, metrics: h.metrics, logger: h.logger}
	detach := inst.AttachSink(sink)
	defer detach()

	ctx := c.Request.Context()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg frame
		if err := sonic.Unmarshal(data, &msg); err != nil {
			sink.send(frame{Type: "error", Error: "malformed frame"})
			continue
		}
		if h.metrics != nil {
			h.metrics.RecordWSMessage("in", msg.Type)
		}

		switch msg.Type {
		case "event":
			if err := inst.DispatchEvent(ctx, msg.Node, msg.Event); err != nil {
				sink.send(frame{Type: "error", Error: err.Error()})
			}
		case "ping":
			sink.send(frame{Type: "pong"})
		default:
			sink.send(frame{Type: "error", Error: "unknown frame type"})
		}
	}
}

// connSink adapts one WebSocket connection to engine.Sink. Writes are
// serialized; a broken connection just drops frames until the read loop
// notices and detaches.
type connSink struct {
	conn    *websocket.Conn
	mu      sync.Mutex
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

func (s *connSink) Tree(tree *render.Node) {
	s.send(frame{Type: "tree", Tree: tree})
}

func (s *connSink) Intent(intent action.Intent) {
	s.send(frame{Type: "intent", Intent: &intent})
}

func (s *connSink) send(f frame) {
	data, err := sonic.Marshal(f)
	if err != nil {
		s.logger.Warn("failed to encode frame", zap.String("type", f.Type), zap.Error(err))
		return
	}
	s.mu.Lock()
	err = s.conn.WriteMessage(websocket.TextMessage, data)
	s.mu.Unlock()
	if err == nil && s.metrics != nil {
		s.metrics.RecordWSMessage("out", f.Type)
	}
}
