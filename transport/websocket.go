package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

var (
	// ErrClosed is returned by calls on a closed WebSocket transport.
	ErrClosed = errors.New("transport/ws: connection closed")

	// ErrConnectionLost is returned to calls in flight when the connection
	// drops. The next call dials a new connection.
	ErrConnectionLost = errors.New("transport/ws: connection lost")
)

// WebSocket implements Transport over a WebSocket connection.
// Responses are routed back to callers by request ID, so concurrent calls
// share the connection. A dropped connection is replaced on the next call.
type WebSocket struct {
	url    string
	dialer websocket.Dialer
	nextID atomic.Uint64

	mu      sync.Mutex
	current *session
	closed  bool

	pendingMu sync.Mutex
	pending   map[uint64]chan []byte
}

// session is one dialed connection. done is closed once the connection is
// unusable, whether it was dropped by the peer or failed a write.
type session struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	done     chan struct{}
	doneOnce sync.Once
}

func (s *session) close() {
	s.doneOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

func (s *session) alive() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// NewWebSocket creates a WebSocket transport.
// The connection is established lazily on the first Call.
func NewWebSocket(url string) *WebSocket {
	return &WebSocket{
		url:     url,
		pending: make(map[uint64]chan []byte),
	}
}

// connect returns the live session, dialing a new one if there is none.
func (ws *WebSocket) connect(ctx context.Context) (*session, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.closed {
		return nil, ErrClosed
	}
	if ws.current != nil && ws.current.alive() {
		return ws.current, nil
	}

	conn, _, err := ws.dialer.DialContext(ctx, ws.url, nil)
	if err != nil {
		return nil, fmt.Errorf("transport/ws: dial: %w", err)
	}
	s := &session{conn: conn, done: make(chan struct{})}
	ws.current = s
	go ws.readLoop(s)
	return s, nil
}

// Call sends a JSON-RPC request over WebSocket and waits for the response.
func (ws *WebSocket) Call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	s, err := ws.connect(ctx)
	if err != nil {
		return nil, err
	}

	id := ws.nextID.Add(1)
	ch := make(chan []byte, 1)
	ws.pendingMu.Lock()
	ws.pending[id] = ch
	ws.pendingMu.Unlock()

	defer func() {
		ws.pendingMu.Lock()
		delete(ws.pending, id)
		ws.pendingMu.Unlock()
	}()

	s.writeMu.Lock()
	err = s.conn.WriteJSON(newRequest(id, method, params))
	s.writeMu.Unlock()
	if err != nil {
		s.close()
		return nil, fmt.Errorf("transport/ws: write: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case data := <-ch:
		return decode(data)
	case <-s.done:
		// A response read just before the drop still counts.
		select {
		case data := <-ch:
			return decode(data)
		default:
		}
		if ws.isClosed() {
			return nil, ErrClosed
		}
		return nil, ErrConnectionLost
	}
}

func decode(data []byte) (json.RawMessage, error) {
	var rpcResp jsonRPCResponse
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return nil, fmt.Errorf("transport/ws: unmarshal: %w", err)
	}
	return rpcResp.result()
}

// Close terminates the WebSocket connection. Later calls fail with ErrClosed.
func (ws *WebSocket) Close() error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	ws.closed = true
	if ws.current != nil {
		ws.current.close()
		ws.current = nil
	}
	return nil
}

func (ws *WebSocket) isClosed() bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.closed
}

// readLoop reads messages from one session and routes them to waiting callers.
// Notifications and responses without a waiting caller are dropped.
func (ws *WebSocket) readLoop(s *session) {
	defer s.close()
	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		var envelope struct {
			ID uint64 `json:"id"`
		}
		if err := json.Unmarshal(message, &envelope); err != nil || envelope.ID == 0 {
			continue
		}

		ws.pendingMu.Lock()
		if ch, ok := ws.pending[envelope.ID]; ok {
			select {
			case ch <- message:
			default:
			}
		}
		ws.pendingMu.Unlock()
	}
}
