package actual

import (
	"encoding/json"
	"fmt"
)

const jsonRPCVersion = "2.0"

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is the error object returned by the bridge. Data carries whatever
// the finance library attached to the failure, such as a stack trace.
type RPCError struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// details flattens the error for diagnostics; keys of Data win over code.
func (e *RPCError) details() map[string]any {
	details := make(map[string]any, len(e.Data)+1)
	details["code"] = e.Code
	for key, value := range e.Data {
		details[key] = value
	}
	return details
}

type loginRequest struct {
	LoginMethod string `json:"loginMethod"`
	Password    string `json:"password"`
}

type loginResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
	Data   struct {
		Token string `json:"token"`
	} `json:"data"`
}
