package foundry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// FaultKind is a coarse classification of backend failures. It exists for
// logging; callers only ever surface the Summary string.
type FaultKind string

const (
	FaultAuthentication FaultKind = "authentication"
	FaultRateLimit      FaultKind = "rate_limit"
	FaultContentPolicy  FaultKind = "content_policy"
	FaultNotFound       FaultKind = "not_found"
	FaultNetwork        FaultKind = "network"
	FaultCancelled      FaultKind = "cancelled"
	FaultBackend        FaultKind = "backend"
)

// Classify maps a backend error to a FaultKind.
func Classify(err error) FaultKind {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return FaultCancelled
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if isContentPolicy(apiErr) {
			return FaultContentPolicy
		}
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return FaultAuthentication
		case http.StatusTooManyRequests:
			return FaultRateLimit
		case http.StatusNotFound:
			return FaultNotFound
		}
		return FaultBackend
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return FaultNetwork
	}
	return FaultNetwork
}

// Summary converts a backend error into a stable, human-readable message
// suitable for the normalized result contract. The raw error detail is for
// logs only; Summary never includes credentials or request bodies.
func Summary(err error) string {
	var apiErr *openai.APIError
	hasAPIErr := errors.As(err, &apiErr)

	switch Classify(err) {
	case FaultCancelled:
		return "image generation was cancelled or timed out"
	case FaultAuthentication:
		return "authentication with the image backend failed: check the configured API key"
	case FaultRateLimit:
		return "the image backend rejected the request due to rate limiting or quota, try again later"
	case FaultContentPolicy:
		if hasAPIErr {
			return fmt.Sprintf("the prompt was rejected by the backend content policy: %s", apiErr.Message)
		}
		return "the prompt was rejected by the backend content policy"
	case FaultNotFound:
		return "the configured deployment was not found on the image backend"
	case FaultBackend:
		if hasAPIErr {
			return fmt.Sprintf("the image backend returned an error: %s", apiErr.Message)
		}
		return fmt.Sprintf("the image backend returned an error: %v", err)
	default:
		return fmt.Sprintf("failed to reach the image backend: %v", err)
	}
}

func isContentPolicy(apiErr *openai.APIError) bool {
	if code, ok := apiErr.Code.(string); ok {
		lowered := strings.ToLower(code)
		if strings.Contains(lowered, "content_policy") || strings.Contains(lowered, "content_filter") || strings.Contains(lowered, "contentfilter") {
			return true
		}
	}
	return strings.Contains(strings.ToLower(apiErr.Message), "content policy")
}
