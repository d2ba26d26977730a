package tools

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"mcp-image-foundry/mcp"
)

func readResourceRequest(id interface{}, uri string) mcp.JSONRPCRequest {
	return mcp.JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      id,
		Method:  "resources/read",
		Params:  mcp.RequestParams{URI: uri},
	}
}

func TestHandleListResources(t *testing.T) {
	handler := setupTestHandler(t, new(MockImageAPI))

	// Seed the output directory with two images and one unrelated file.
	for _, name := range []string{"img-test-scene0-talk0-aaaa.png", "img-test-scene1-talk0-bbbb.png"} {
		assert.NoError(t, os.WriteFile(filepath.Join(handler.config.OutputPath, name), []byte("png-bytes"), 0o644))
	}
	assert.NoError(t, os.WriteFile(filepath.Join(handler.config.OutputPath, "notes.txt"), []byte("ignored"), 0o644))

	resp := handler.HandleRequest(context.Background(), mcp.JSONRPCRequest{
		JSONRPC: "2.0", ID: 1, Method: "resources/list",
	})

	assert.NotNil(t, resp)
	assert.Nil(t, resp.Error)
	resultMap := resp.Result.(map[string]interface{})
	resources := resultMap["resources"].([]map[string]interface{})
	assert.Len(t, resources, 2)
	for _, res := range resources {
		assert.Equal(t, "image/png", res["mimeType"])
		assert.Contains(t, res["uri"], "generated-images://img-test-")
	}
}

func TestHandleListResources_MissingDirectory(t *testing.T) {
	handler := setupTestHandler(t, new(MockImageAPI))
	handler.config.OutputPath = filepath.Join(handler.config.OutputPath, "never-created")

	resp := handler.HandleRequest(context.Background(), mcp.JSONRPCRequest{
		JSONRPC: "2.0", ID: 1, Method: "resources/list",
	})

	assert.NotNil(t, resp)
	assert.Nil(t, resp.Error)
	resultMap := resp.Result.(map[string]interface{})
	assert.Empty(t, resultMap["resources"])
}

func TestHandleReadResource_Success(t *testing.T) {
	handler := setupTestHandler(t, new(MockImageAPI))

	imageBytes := []byte{0x89, 0x50, 0x4e, 0x47}
	name := "img-test-scene0-talk0-cccc.png"
	assert.NoError(t, os.WriteFile(filepath.Join(handler.config.OutputPath, name), imageBytes, 0o644))

	resp := handler.HandleRequest(context.Background(), readResourceRequest("r1", "generated-images://"+name))

	assert.NotNil(t, resp)
	assert.Nil(t, resp.Error)
	resultMap := resp.Result.(map[string]interface{})
	contents := resultMap["contents"].([]map[string]interface{})
	assert.Len(t, contents, 1)
	assert.Equal(t, "generated-images://"+name, contents[0]["uri"])
	assert.Equal(t, "image/png", contents[0]["mimeType"])
	assert.Equal(t, base64.StdEncoding.EncodeToString(imageBytes), contents[0]["blob"])
}

func TestHandleReadResource_Errors(t *testing.T) {
	handler := setupTestHandler(t, new(MockImageAPI))

	testCases := []struct {
		name         string
		uri          string
		expectedCode int
	}{
		{"Missing URI", "", mcp.CodeInvalidParams},
		{"Wrong scheme", "file:///tmp/something.png", mcp.CodeInvalidParams},
		{"Path traversal", "generated-images://../../etc/passwd", mcp.CodeInvalidParams},
		{"Empty filename", "generated-images://", mcp.CodeInvalidParams},
		{"Not found", "generated-images://missing.png", mcp.CodeNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := handler.HandleRequest(context.Background(), readResourceRequest(1, tc.uri))
			assert.NotNil(t, resp)
			assert.NotNil(t, resp.Error)
			assert.Equal(t, tc.expectedCode, resp.Error.Code)
		})
	}
}
