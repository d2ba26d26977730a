package foundry

import (
	"context"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

// ImageAPI defines the subset of the go-openai client methods used by this
// server. This makes mocking easier for testing.
type ImageAPI interface {
	CreateImage(ctx context.Context, request openai.ImageRequest) (openai.ImageResponse, error)
}

// Client wraps the image generation API client for a single deployment.
type Client struct {
	API        ImageAPI
	Deployment string
}

// NewClient builds a Client against an Azure OpenAI-compatible endpoint.
// All generation calls are routed to the given deployment regardless of the
// model name in the request.
func NewClient(endpoint, apiKey, deployment string) *Client {
	slog.Debug("Creating image API client", "endpoint", endpoint, "deployment", deployment)

	cfg := openai.DefaultAzureConfig(apiKey, endpoint)
	cfg.AzureModelMapperFunc = func(model string) string {
		return deployment
	}

	return &Client{
		API:        openai.NewClientWithConfig(cfg),
		Deployment: deployment,
	}
}
