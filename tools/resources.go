package tools

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mcp-image-foundry/mcp"
)

// Persisted generated images are exposed as MCP resources under this
// scheme, addressed by bare filename within the output directory.
const resourceScheme = "generated-images://"

var resourceTemplates = []map[string]interface{}{
	{
		"uriTemplate": resourceScheme + "{filename}",
		"name":        "Generated Image",
		"description": "A previously generated image persisted in the server output directory.",
		"mimeType":    "image/png",
	},
}

// handleListResourceTemplates lists the available resource templates.
func (h *Handler) handleListResourceTemplates(request mcp.JSONRPCRequest) mcp.JSONRPCResponse {
	h.logger.Debug("Handling resources/templates/list request", "id", request.ID)
	return mcp.JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      request.ID,
		Result:  map[string]interface{}{"resourceTemplates": resourceTemplates},
	}
}

// handleListResources lists the persisted images in the output directory.
func (h *Handler) handleListResources(request mcp.JSONRPCRequest) mcp.JSONRPCResponse {
	h.logger.Debug("Handling resources/list request", "id", request.ID, "output_path", h.config.OutputPath)

	entries, err := os.ReadDir(h.config.OutputPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Nothing generated yet; an empty listing, not an error.
			entries = nil
		} else {
			h.logger.Error("Failed to read output directory", "path", h.config.OutputPath, "error", err)
			return mcp.NewErrorResponse(request.ID, mcp.CodeInternalError, fmt.Sprintf("Failed to list generated images: %v", err), nil)
		}
	}

	resources := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".png") {
			continue
		}
		resources = append(resources, map[string]interface{}{
			"uri":      resourceScheme + entry.Name(),
			"name":     entry.Name(),
			"mimeType": "image/png",
		})
	}

	h.logger.Debug("Listed generated images", "count", len(resources))
	return mcp.JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      request.ID,
		Result:  map[string]interface{}{"resources": resources},
	}
}

// handleReadResource returns the base64 contents of one persisted image.
func (h *Handler) handleReadResource(request mcp.JSONRPCRequest) mcp.JSONRPCResponse {
	h.logger.Debug("Handling resources/read request", "id", request.ID, "uri", request.Params.URI)

	if request.Params.URI == "" {
		return mcp.NewErrorResponse(request.ID, mcp.CodeInvalidParams, "Missing required 'uri' parameter", nil)
	}
	if !strings.HasPrefix(request.Params.URI, resourceScheme) {
		h.logger.Warn("Invalid URI scheme for resources/read", "uri", request.Params.URI)
		return mcp.NewErrorResponse(request.ID, mcp.CodeInvalidParams, "Invalid URI format. Expected "+resourceScheme+"{filename}", nil)
	}

	filename := strings.TrimPrefix(request.Params.URI, resourceScheme)
	// Reject anything that could escape the output directory.
	if filename == "" || filename != filepath.Base(filename) {
		return mcp.NewErrorResponse(request.ID, mcp.CodeInvalidParams, "Invalid URI: filename must not contain path separators", nil)
	}

	fullPath := filepath.Join(h.config.OutputPath, filename)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		h.logger.Warn("Failed to read generated image", "path", fullPath, "error", err)
		return mcp.NewErrorResponse(request.ID, mcp.CodeNotFound, "Resource not found", map[string]string{"uri": request.Params.URI})
	}

	return mcp.JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      request.ID,
		Result: map[string]interface{}{
			"contents": []map[string]interface{}{
				{
					"uri":      request.Params.URI,
					"mimeType": "image/png",
					"blob":     base64.StdEncoding.EncodeToString(data),
				},
			},
		},
	}
}
