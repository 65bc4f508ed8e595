package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/Liyulingyue/PaddleLabel/internal/logger"
	"github.com/Liyulingyue/PaddleLabel/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteWait  = 5 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
	wsReadLimit  = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origin policy is the CORS middleware's job
	CheckOrigin: func(*http.Request) bool { return true },
}

// wsClient adapts a websocket connection to realtime.Client. gorilla permits
// a single concurrent writer, so events and pings serialize on writeMu.
type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	done    chan struct{}
	once    sync.Once
}

func newWSClient(conn *websocket.Conn) *wsClient {
	return &wsClient{conn: conn, done: make(chan struct{})}
}

func (c *wsClient) Send(message []byte) bool {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.conn.WriteMessage(websocket.TextMessage, message) == nil
}

func (c *wsClient) Close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// keepAlive pings until the client closes or a ping fails.
func (c *wsClient) keepAlive() {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// drain discards incoming frames so pong and close frames get processed.
// It returns when the peer goes away or misses a pong.
func (c *wsClient) drain() error {
	c.conn.SetReadLimit(wsReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return err
		}
	}
}

// WebSocketHandler subscribes the caller to run, label and task events.
// GET /api/ws (token in the Authorization header or ?token=)
func WebSocketHandler(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized", "code": "unauthorized"})
		return
	}
	log := logger.Named("ws").With(zap.String("user_id", userID))

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newWSClient(conn)
	hub := realtime.GetHub()
	hub.Register(userID, client)
	log.Debug("subscriber connected", zap.Int("connections", hub.Clients(userID)))

	go client.keepAlive()
	err = client.drain()

	hub.Unregister(userID, client)
	client.Close()
	if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		log.Debug("subscriber dropped", zap.Error(err))
	}
}
