package tools

import (
	"mcp-image-foundry/mcp"
)

// Tool definitions are read-only after init; handlers must not mutate them.
var toolsDefinitionMap = map[string]interface{}{
	"generate_image": map[string]interface{}{
		"name":        "generate_image",
		"description": "Generate images from a text prompt using the configured image generation deployment. Provide a text prompt describing the image you want to create.",
		"inputSchema": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"prompt": map[string]interface{}{
					"type":        "string",
					"description": "The text description of the image to generate.",
				},
				"size": map[string]interface{}{
					"type":        "string",
					"description": "Optional: The size of the generated image (e.g. '1024x1024'). Defaults to '1024x1024'.",
				},
				"quality": map[string]interface{}{
					"type":        "string",
					"description": "Optional: The quality of the generated image. Defaults to 'standard'.",
				},
				"n": map[string]interface{}{
					"type":        "integer",
					"description": "Optional: The number of images to generate. Defaults to 1.",
				},
				"video_id": map[string]interface{}{
					"type":        "string",
					"description": "Optional: Video ID for associating persisted images with a video. Defaults to 'test'.",
				},
				"scene_number": map[string]interface{}{
					"type":        "integer",
					"description": "Optional: Scene number for associating persisted images with a scene. Defaults to 0.",
				},
				"talk_number": map[string]interface{}{
					"type":        "integer",
					"description": "Optional: Talk number for associating persisted images with a talk. Defaults to 0.",
				},
				"prefix": map[string]interface{}{
					"type":        "string",
					"description": "Optional: Filename prefix for persisted images. Defaults to 'img'.",
				},
			},
			"required": []string{"prompt"},
		},
	},
	"health_check": map[string]interface{}{
		"name":        "health_check",
		"description": "Check the health status of the MCP Image Generator service.",
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	},
}

// handleListTools lists the available tools.
func (h *Handler) handleListTools(request mcp.JSONRPCRequest) mcp.JSONRPCResponse {
	toolsSlice := make([]map[string]interface{}, 0, len(toolsDefinitionMap))
	for _, definition := range toolsDefinitionMap {
		toolsSlice = append(toolsSlice, definition.(map[string]interface{}))
	}
	return mcp.JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      request.ID,
		Result:  map[string]interface{}{"tools": toolsSlice},
	}
}
