package failure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"status 429", errors.New("chat completions failed (status 429): slow down"), KindRateLimited},
		{"quota", errors.New("Quota exhausted for project"), KindRateLimited},
		{"rate limit words", errors.New("RATE LIMIT hit"), KindRateLimited},
		{"resource exceeded", errors.New("Resource has been exceeded"), KindRateLimited},
		{"too many requests", errors.New("Too Many Requests"), KindRateLimited},
		{"status 401", errors.New("request failed (status 401)"), KindAuthError},
		{"invalid key", errors.New("API key not valid. Please pass a valid API key."), KindAuthError},
		{"unauthorized", errors.New("Unauthorized"), KindAuthError},
		{"both match", errors.New("401 unauthorized: quota exceeded"), KindRateLimited},
		{"wrapped", fmt.Errorf("generate: %w", errors.New("authentication failed")), KindAuthError},
		{"other", errors.New("connection reset by peer"), KindUnknownError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err).Kind)
		})
	}
}

func TestClassify_Messages(t *testing.T) {
	rl := Classify(errors.New("429"))
	assert.Contains(t, rl.Message, "Wait 1-2 minutes")
	assert.Contains(t, rl.Message, "/reset")

	auth := Classify(errors.New("401"))
	assert.Contains(t, auth.Message, "GOOGLE_API_KEY")

	unknown := Classify(errors.New("dial tcp: timeout"))
	assert.Equal(t, "Error: dial tcp: timeout", unknown.Message)
}

func TestClassify_Pure(t *testing.T) {
	err := errors.New("quota exceeded")
	assert.Equal(t, Classify(err), Classify(err))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "rate_limited", KindRateLimited.String())
	assert.Equal(t, "auth_error", KindAuthError.String())
	assert.Equal(t, "unknown_error", KindUnknownError.String())
}
