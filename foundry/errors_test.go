package foundry

import (
	"context"
	"errors"
	"net/http"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected FaultKind
	}{
		{"Unauthorized", &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "bad key"}, FaultAuthentication},
		{"Forbidden", &openai.APIError{HTTPStatusCode: http.StatusForbidden, Message: "denied"}, FaultAuthentication},
		{"Rate limited", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "slow down"}, FaultRateLimit},
		{"Deployment missing", &openai.APIError{HTTPStatusCode: http.StatusNotFound, Message: "no deployment"}, FaultNotFound},
		{"Content policy code", &openai.APIError{HTTPStatusCode: http.StatusBadRequest, Code: "content_policy_violation", Message: "rejected"}, FaultContentPolicy},
		{"Content filter code", &openai.APIError{HTTPStatusCode: http.StatusBadRequest, Code: "contentFilter", Message: "rejected"}, FaultContentPolicy},
		{"Content policy message", &openai.APIError{HTTPStatusCode: http.StatusBadRequest, Message: "violates our content policy"}, FaultContentPolicy},
		{"Server error", &openai.APIError{HTTPStatusCode: http.StatusInternalServerError, Message: "boom"}, FaultBackend},
		{"Request error", &openai.RequestError{HTTPStatusCode: http.StatusBadGateway, Err: errors.New("bad gateway")}, FaultNetwork},
		{"Plain error", errors.New("connection refused"), FaultNetwork},
		{"Cancelled", context.Canceled, FaultCancelled},
		{"Deadline", context.DeadlineExceeded, FaultCancelled},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(tc.err))
		})
	}
}

func TestSummary(t *testing.T) {
	t.Run("Authentication", func(t *testing.T) {
		msg := Summary(&openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "bad key"})
		assert.Contains(t, msg, "authentication")
		// Never leak the raw backend detail into the normalized message.
		assert.NotContains(t, msg, "bad key")
	})

	t.Run("Rate limit", func(t *testing.T) {
		msg := Summary(&openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "429"})
		assert.Contains(t, msg, "rate limiting")
	})

	t.Run("Content policy includes backend message", func(t *testing.T) {
		msg := Summary(&openai.APIError{HTTPStatusCode: http.StatusBadRequest, Code: "content_policy_violation", Message: "prompt rejected"})
		assert.Contains(t, msg, "content policy")
		assert.Contains(t, msg, "prompt rejected")
	})

	t.Run("Cancelled", func(t *testing.T) {
		assert.Contains(t, Summary(context.DeadlineExceeded), "cancelled or timed out")
	})

	t.Run("Network", func(t *testing.T) {
		msg := Summary(errors.New("connection refused"))
		assert.Contains(t, msg, "failed to reach the image backend")
	})

	t.Run("Backend", func(t *testing.T) {
		msg := Summary(&openai.APIError{HTTPStatusCode: http.StatusInternalServerError, Message: "boom"})
		assert.Contains(t, msg, "boom")
	})
}
