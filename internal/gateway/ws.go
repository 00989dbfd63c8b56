package gateway

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"cardtable/internal/protocol"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades an HTTP request and runs the same session protocol as
// the TCP gateway. WebSocket message boundaries replace the length prefix;
// each binary message carries one encoded protocol message.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] WebSocket upgrade failed: %v", err)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.serveSession(newWSTransport(conn))
	}()
}

// ListenAndServeWS exposes ServeWS on "/ws" over its own HTTP listener,
// which Close shuts down along with the TCP one.
func (s *Server) ListenAndServeWS(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.ServeWS)
	srv := &http.Server{Addr: addr, Handler: mux}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.New("server closed")
	}
	s.wsServer = srv
	s.mu.Unlock()

	log.Printf("[Gateway] WebSocket endpoint on %s/ws", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("websocket listen on %s: %w", addr, err)
	}
	return nil
}

type wsTransport struct {
	conn *websocket.Conn
	wmu  sync.Mutex
	once sync.Once
	stop chan struct{}
}

func newWSTransport(conn *websocket.Conn) *wsTransport {
	t := &wsTransport{conn: conn, stop: make(chan struct{})}

	conn.SetReadLimit(protocol.MaxFrameSize)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})
	go t.pingLoop()
	return t
}

func (t *wsTransport) pingLoop() {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t.wmu.Lock()
			t.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			err := t.conn.WriteMessage(websocket.PingMessage, nil)
			t.wmu.Unlock()
			if err != nil {
				return
			}
		case <-t.stop:
			return
		}
	}
}

func (t *wsTransport) ReadMessage() (*protocol.Message, error) {
	for {
		kind, data, err := t.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if kind != websocket.BinaryMessage && kind != websocket.TextMessage {
			continue
		}
		return protocol.Decode(data)
	}
}

func (t *wsTransport) WriteData(data []byte) error {
	t.wmu.Lock()
	defer t.wmu.Unlock()
	t.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return t.conn.WriteMessage(websocket.BinaryMessage, data)
}

func (t *wsTransport) Close() error {
	t.once.Do(func() { close(t.stop) })
	return t.conn.Close()
}

func (t *wsTransport) RemoteAddr() string {
	return t.conn.RemoteAddr().String()
}
