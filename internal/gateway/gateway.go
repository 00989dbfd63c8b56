// Package gateway accepts client connections and bridges them to the table
// coordinator. Each connection gets a session with its own read loop and a
// buffered outbound queue drained by a write loop, so one slow client never
// stalls the table or the other clients.
package gateway

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"sync"
	"sync/atomic"

	"cardtable/internal/protocol"
	"cardtable/internal/table"
)

// Error codes reported to clients.
const (
	CodeProtocol int32 = 1 // malformed or out-of-sequence message
	CodeRejected int32 = 2 // action refused by the game rules
)

// sendQueueSize 每个连接的发送缓冲大小
const sendQueueSize = 64

// transport abstracts the wire so TCP (length-prefixed frames) and
// WebSocket sessions share the same session logic.
type transport interface {
	ReadMessage() (*protocol.Message, error)
	WriteData(data []byte) error
	Close() error
	RemoteAddr() string
}

type Server struct {
	table  *table.Table
	nextID uint32

	mu       sync.Mutex
	ln       net.Listener
	wsServer *http.Server
	sessions map[*session]struct{}
	closed   bool
	wg       sync.WaitGroup
}

func New(tbl *table.Table) *Server {
	return &Server{
		table:    tbl,
		sessions: make(map[*session]struct{}),
	}
}

// ListenAndServe accepts TCP clients on addr until Close is called.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ln)
}

func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ln.Close()
		return errors.New("server closed")
	}
	s.ln = ln
	s.mu.Unlock()

	log.Printf("[Gateway] Listening on %s", ln.Addr())
	for {
		conn, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveSession(newTCPTransport(conn))
		}()
	}
}

// Close stops accepting, cuts every live session and waits for their
// goroutines to finish.
func (s *Server) Close() error {
	s.mu.Lock()
	s.closed = true
	ln := s.ln
	ws := s.wsServer
	live := make([]*session, 0, len(s.sessions))
	for sess := range s.sessions {
		live = append(live, sess)
	}
	s.mu.Unlock()

	var err error
	if ln != nil {
		err = ln.Close()
	}
	if ws != nil {
		ws.Close()
	}
	for _, sess := range live {
		sess.close()
	}
	s.wg.Wait()
	return err
}

// serveSession drives one client from handshake to disconnect.
func (s *Server) serveSession(tr transport) {
	sess := &session{
		tr:   tr,
		send: make(chan []byte, sendQueueSize),
		done: make(chan struct{}),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		tr.Close()
		return
	}
	s.sessions[sess] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess)
		s.mu.Unlock()
	}()

	log.Printf("[Gateway] New connection from %s", tr.RemoteAddr())

	go sess.writeLoop()
	defer sess.close()

	// The first message must introduce the player.
	msg, err := tr.ReadMessage()
	if err != nil {
		log.Printf("[Gateway] Handshake read from %s failed: %v", tr.RemoteAddr(), err)
		return
	}
	if msg.Kind != protocol.KindJoin {
		sess.sendError(CodeProtocol, "first message must be join")
		return
	}

	id := atomic.AddUint32(&s.nextID, 1)
	sess.playerID = id
	sess.name = msg.Join.Name
	err = s.table.SubmitEvent(table.Event{
		Type:     table.EventJoin,
		PlayerID: id,
		Name:     msg.Join.Name,
		Sink:     sess,
	})
	if err != nil {
		sess.sendError(CodeRejected, err.Error())
		return
	}

	defer func() {
		s.table.SubmitEvent(table.Event{Type: table.EventLeave, PlayerID: id})
		log.Printf("[Gateway] Player %d (%s) disconnected", id, sess.name)
	}()

	s.readLoop(sess)
}

func (s *Server) readLoop(sess *session) {
	for {
		msg, err := sess.tr.ReadMessage()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Printf("[Gateway] Read from player %d failed: %v", sess.playerID, err)
			}
			return
		}

		event, perr := sess.toEvent(msg)
		if perr != nil {
			// 协议违规: 报告并断开
			sess.sendError(CodeProtocol, perr.Error())
			return
		}

		if err := s.table.SubmitEvent(event); err != nil {
			if errors.Is(err, table.ErrTableClosed) {
				return
			}
			// Rule rejections go back to this client only; the
			// session stays up and the table state is untouched.
			sess.sendError(CodeRejected, err.Error())
		}
	}
}

// session is one live connection. It implements table.Sink: broadcasts are
// queued on the send channel and the queue never blocks the coordinator.
type session struct {
	tr       transport
	playerID uint32
	name     string

	send chan []byte
	once sync.Once
	done chan struct{}
}

// toEvent validates an in-hand client message against the session identity.
func (sess *session) toEvent(msg *protocol.Message) (table.Event, error) {
	switch msg.Kind {
	case protocol.KindBet:
		if msg.Bet.PlayerID != sess.playerID {
			return table.Event{}, fmt.Errorf("bet carries player id %d, session is %d", msg.Bet.PlayerID, sess.playerID)
		}
		return table.Event{Type: table.EventBet, PlayerID: sess.playerID, Amount: msg.Bet.Amount}, nil
	case protocol.KindFold:
		if msg.Fold.PlayerID != sess.playerID {
			return table.Event{}, fmt.Errorf("fold carries player id %d, session is %d", msg.Fold.PlayerID, sess.playerID)
		}
		return table.Event{Type: table.EventFold, PlayerID: sess.playerID}, nil
	case protocol.KindJoin:
		return table.Event{}, errors.New("already joined")
	default:
		return table.Event{}, fmt.Errorf("unexpected message kind %q", msg.Kind)
	}
}

// Send queues data for the client. A full queue counts as a dead client.
func (sess *session) Send(data []byte) bool {
	select {
	case <-sess.done:
		return false
	default:
	}
	select {
	case sess.send <- data:
		return true
	default:
		log.Printf("[Gateway] Send queue full for player %d, dropping connection", sess.playerID)
		sess.close()
		return false
	}
}

func (sess *session) writeLoop() {
	for {
		select {
		case data := <-sess.send:
			if err := sess.tr.WriteData(data); err != nil {
				sess.close()
				return
			}
		case <-sess.done:
			return
		}
	}
}

// sendError writes directly instead of queueing, so the error still goes
// out when the session is torn down right after.
func (sess *session) sendError(code int32, reason string) {
	data, err := protocol.Encode(&protocol.Message{
		Kind:  protocol.KindError,
		Error: &protocol.ErrorInfo{Code: code, Reason: reason},
	})
	if err != nil {
		return
	}
	sess.tr.WriteData(data)
}

func (sess *session) close() {
	sess.once.Do(func() {
		close(sess.done)
		sess.tr.Close()
	})
}

// tcpTransport speaks the length-prefixed frame protocol over a net.Conn.
type tcpTransport struct {
	conn net.Conn
	r    *bufio.Reader
	wmu  sync.Mutex
}

func newTCPTransport(conn net.Conn) *tcpTransport {
	return &tcpTransport{conn: conn, r: bufio.NewReader(conn)}
}

func (t *tcpTransport) ReadMessage() (*protocol.Message, error) {
	return protocol.ReadMessage(t.r)
}

func (t *tcpTransport) WriteData(data []byte) error {
	t.wmu.Lock()
	defer t.wmu.Unlock()
	return protocol.WriteFrame(t.conn, data)
}

func (t *tcpTransport) Close() error {
	return t.conn.Close()
}

func (t *tcpTransport) RemoteAddr() string {
	return t.conn.RemoteAddr().String()
}
