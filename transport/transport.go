// Package transport provides JSON-RPC transports for connectors.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
)

// Transport sends JSON-RPC requests and returns raw results.
type Transport interface {
	// Call sends a JSON-RPC request and returns the result bytes. A JSON
	// null result is returned as the bytes "null".
	Call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error)

	// Close terminates the transport connection.
	Close() error
}

type jsonRPCRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type jsonRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is an error object returned by the JSON-RPC server.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc error: code=%d message=%s", e.Code, e.Message)
}

func newRequest(id uint64, method string, params []interface{}) jsonRPCRequest {
	if params == nil {
		params = []interface{}{}
	}
	return jsonRPCRequest{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  params,
	}
}

func (r *jsonRPCResponse) result() (json.RawMessage, error) {
	if r.Error != nil {
		return nil, r.Error
	}
	if len(r.Result) == 0 {
		return json.RawMessage("null"), nil
	}
	return r.Result, nil
}
