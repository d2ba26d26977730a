package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"mcp-image-foundry/config"
	"mcp-image-foundry/foundry"
	"mcp-image-foundry/mcp"
)

// Service identity reported by initialize and the health_check tool.
const (
	serviceName     = "MCP Image Generator"
	serviceVersion  = "1.0.0"
	protocolVersion = "2024-11-05"
)

// Handler routes MCP requests to tool and resource implementations. It is
// stateless apart from its injected dependencies, so a single Handler can
// serve any number of concurrent requests.
type Handler struct {
	imageClient *foundry.Client
	config      *config.Config
	logger      *slog.Logger
	timeout     time.Duration
}

// NewHandler creates a Handler with its dependencies injected.
func NewHandler(client *foundry.Client, cfg *config.Config) *Handler {
	return &Handler{
		imageClient: client,
		config:      cfg,
		logger:      slog.Default(),
		timeout:     time.Duration(cfg.TimeoutSec) * time.Second,
	}
}

// HandleRequest dispatches a single JSON-RPC request. It returns nil for
// notifications, which expect no response.
func (h *Handler) HandleRequest(ctx context.Context, request mcp.JSONRPCRequest) *mcp.JSONRPCResponse {
	if strings.HasPrefix(request.Method, "notifications/") {
		h.logger.Debug("Ignoring notification", "method", request.Method)
		return nil
	}
	h.logger.Debug("Handling request", "method", request.Method, "id", request.ID)

	var response mcp.JSONRPCResponse
	switch request.Method {
	case "initialize":
		response = h.handleInitialize(request)
	case "tools/list":
		response = h.handleListTools(request)
	case "tools/call":
		response = h.handleCallTool(ctx, request)
	case "resources/templates/list":
		response = h.handleListResourceTemplates(request)
	case "resources/list":
		response = h.handleListResources(request)
	case "resources/read":
		response = h.handleReadResource(request)
	default:
		response = mcp.NewErrorResponse(request.ID, mcp.CodeMethodNotFound, "Method not found", request.Method)
	}
	return &response
}

func (h *Handler) handleInitialize(request mcp.JSONRPCRequest) mcp.JSONRPCResponse {
	h.logger.Debug("Handling initialize request", "id", request.ID)
	return mcp.JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      request.ID,
		Result: map[string]interface{}{
			"protocolVersion": protocolVersion,
			"serverInfo": map[string]interface{}{
				"name":    serviceName,
				"version": serviceVersion,
			},
			"capabilities": map[string]interface{}{
				"tools":     map[string]interface{}{},
				"resources": map[string]interface{}{},
			},
		},
	}
}

// handleCallTool routes tool calls to the matching tool function. Unknown
// tools and invalid arguments are protocol-level failures; anything the
// backend does wrong comes back as a successful call carrying an
// error-status payload.
func (h *Handler) handleCallTool(ctx context.Context, request mcp.JSONRPCRequest) mcp.JSONRPCResponse {
	h.logger.Debug("Handling tools/call request", "tool_name", request.Params.Name, "id", request.ID)
	var toolResult interface{}
	var toolError *mcp.RPCError

	switch request.Params.Name {
	case "generate_image":
		toolResult, toolError = h.callGenerateImage(ctx, request.Params.Arguments)
	case "health_check":
		toolResult, toolError = h.callHealthCheck()
	default:
		toolError = &mcp.RPCError{Code: mcp.CodeMethodNotFound, Message: "Tool not found: " + request.Params.Name}
	}

	if toolError != nil {
		h.logger.Warn("Tool call failed", "tool_name", request.Params.Name, "code", toolError.Code, "message", toolError.Message)
	} else {
		h.logger.Debug("Tool call completed", "tool_name", request.Params.Name)
	}

	return mcp.JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      request.ID,
		Result:  toolResult,
		Error:   toolError,
	}
}

// toolResultEnvelope wraps a tool payload in the MCP content envelope.
func toolResultEnvelope(payload interface{}) (interface{}, *mcp.RPCError) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, &mcp.RPCError{Code: mcp.CodeInternalError, Message: "Failed to encode tool result"}
	}
	return map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": string(encoded)},
		},
	}, nil
}
