package foundry

import (
	"context"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
)

func TestNewClient(t *testing.T) {
	client := NewClient("https://example.openai.azure.com", "test-key", "flux-test")
	assert.NotNil(t, client)
	assert.NotNil(t, client.API)
	assert.Equal(t, "flux-test", client.Deployment)
}

func TestMockImageAPI_Defaults(t *testing.T) {
	m := &MockImageAPI{}
	resp, err := m.CreateImage(context.Background(), openai.ImageRequest{Prompt: "x"})
	assert.NoError(t, err)
	assert.Empty(t, resp.Data)
}
