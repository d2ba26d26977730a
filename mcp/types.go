package mcp

// JSONRPCRequest represents a JSON-RPC request.
type JSONRPCRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      interface{}   `json:"id"`
	Method  string        `json:"method"`
	Params  RequestParams `json:"params"`
}

// RequestParams holds the parameters for the MCP methods this server handles.
type RequestParams struct {
	// initialize params
	ProtocolVersion string                 `json:"protocolVersion,omitempty"`
	ClientInfo      map[string]interface{} `json:"clientInfo,omitempty"`
	Capabilities    map[string]interface{} `json:"capabilities,omitempty"`

	// tools/call params
	Name      string                 `json:"name,omitempty"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`

	// resources/read params
	URI string `json:"uri,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC response.
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC error object.
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Error codes used by this server. CodeMethodNotFound doubles as the
// unknown-tool code: a call that never reached a handler fails the
// request itself rather than producing a tool payload.
const (
	CodeInternalError  = -32000
	CodeNotInitialized = -32001
	CodeNotFound       = -32002
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
)

// NewErrorResponse creates a JSONRPCResponse populated with an error.
func NewErrorResponse(id interface{}, code int, message string, data interface{}) JSONRPCResponse {
	return JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &RPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}
