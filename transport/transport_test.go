package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     uint64        `json:"id"`
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

func reply(id uint64, method string) map[string]any {
	switch method {
	case "eth_blockNumber":
		return map[string]any{"jsonrpc": "2.0", "id": id, "result": "0x10"}
	case "eth_getBlockByHash":
		return map[string]any{"jsonrpc": "2.0", "id": id, "result": nil}
	default:
		return map[string]any{"jsonrpc": "2.0", "id": id, "error": map[string]any{"code": -32601, "message": "method not found"}}
	}
}

func TestHTTP_Call(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(reply(req.ID, req.Method))
	}))
	defer srv.Close()

	h := NewHTTP(srv.URL, WithHeader("X-Api-Key", "secret"))
	ctx := context.Background()

	result, err := h.Call(ctx, "eth_blockNumber")
	require.NoError(t, err)
	require.JSONEq(t, `"0x10"`, string(result))

	result, err = h.Call(ctx, "eth_getBlockByHash", "0x01", true)
	require.NoError(t, err)
	require.Equal(t, "null", string(result))

	_, err = h.Call(ctx, "eth_unknown")
	var rpcErr *Error
	require.ErrorAs(t, err, &rpcErr)
	require.Equal(t, -32601, rpcErr.Code)
}

func TestHTTP_CallReportsHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewHTTP(srv.URL).Call(context.Background(), "eth_blockNumber")
	require.ErrorContains(t, err, "HTTP 429")
}

func TestWebSocket_Call(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var req rpcRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			// Unsolicited notifications must not confuse routing.
			_ = conn.WriteJSON(map[string]any{"jsonrpc": "2.0", "method": "eth_subscription"})
			if err := conn.WriteJSON(reply(req.ID, req.Method)); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	ws := NewWebSocket("ws" + strings.TrimPrefix(srv.URL, "http"))
	defer ws.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := ws.Call(ctx, "eth_blockNumber")
	require.NoError(t, err)
	require.JSONEq(t, `"0x10"`, string(result))

	_, err = ws.Call(ctx, "eth_unknown")
	var rpcErr *Error
	require.ErrorAs(t, err, &rpcErr)
}

func TestWebSocket_CallAfterCloseFails(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	ws := NewWebSocket("ws" + strings.TrimPrefix(srv.URL, "http"))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := ws.connect(ctx)
	require.NoError(t, err)
	require.NoError(t, ws.Close())

	_, err = ws.Call(ctx, "eth_blockNumber")
	require.ErrorIs(t, err, ErrClosed)
}

func TestWebSocket_RedialsAfterServerDropsConnection(t *testing.T) {
	var connections atomic.Int32
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		connections.Add(1)
		// Answer a single request, then hang up.
		defer conn.Close()
		var req rpcRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		_ = conn.WriteJSON(reply(req.ID, req.Method))
	}))
	defer srv.Close()

	ws := NewWebSocket("ws" + strings.TrimPrefix(srv.URL, "http"))
	defer ws.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := 0; i < 3; i++ {
		result, err := ws.Call(ctx, "eth_blockNumber")
		require.NoError(t, err)
		require.JSONEq(t, `"0x10"`, string(result))

		require.Eventually(t, func() bool {
			ws.mu.Lock()
			defer ws.mu.Unlock()
			return !ws.current.alive()
		}, time.Second, time.Millisecond)
	}
	require.Equal(t, int32(3), connections.Load())
}

func TestWebSocket_InFlightCallSeesLostConnection(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		// Read the request and hang up without answering.
		_, _, _ = conn.ReadMessage()
		conn.Close()
	}))
	defer srv.Close()

	ws := NewWebSocket("ws" + strings.TrimPrefix(srv.URL, "http"))
	defer ws.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := ws.Call(ctx, "eth_blockNumber")
	require.ErrorIs(t, err, ErrConnectionLost)
}
