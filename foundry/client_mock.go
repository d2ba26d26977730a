package foundry

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// MockImageAPI is a mock implementation of ImageAPI for testing.
type MockImageAPI struct {
	CreateImageFunc func(ctx context.Context, request openai.ImageRequest) (openai.ImageResponse, error)
}

// Ensure MockImageAPI implements the ImageAPI interface.
var _ ImageAPI = (*MockImageAPI)(nil)

// CreateImage calls the mock function or returns an empty response.
func (m *MockImageAPI) CreateImage(ctx context.Context, request openai.ImageRequest) (openai.ImageResponse, error) {
	if m.CreateImageFunc != nil {
		return m.CreateImageFunc(ctx, request)
	}
	return openai.ImageResponse{}, nil
}
