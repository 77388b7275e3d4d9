// Package failure maps model call errors to user-facing outcomes.
package failure

import "strings"

// Kind tags an outcome.
type Kind int

const (
	KindUnknownError Kind = iota
	KindRateLimited
	KindAuthError
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindAuthError:
		return "auth_error"
	default:
		return "unknown_error"
	}
}

// Keyword sets matched case-insensitively against the error text.
var (
	RateLimitKeywords = []string{"429", "quota", "rate limit", "exceeded", "too many requests"}
	AuthKeywords      = []string{"api key", "authentication", "unauthorized", "401"}
)

// CredentialEnv is named in the authentication message.
var CredentialEnv = "GOOGLE_API_KEY"

const rateLimitMessage = `Model rate limit reached.

Possible fixes:
1. Switch to another account: reset the session (/reset) and restart with a different API key
2. Wait 1-2 minutes and try again
3. Check your quota at https://aistudio.google.com/
4. Use shorter questions`

// Outcome is the classified form of a failure.
type Outcome struct {
	Kind    Kind
	Message string
}

// Classify inspects err's text. Rate limiting wins over authentication, which
// wins over everything else. A nil error classifies as unknown.
func Classify(err error) Outcome {
	text := ""
	if err != nil {
		text = err.Error()
	}
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, RateLimitKeywords):
		return Outcome{Kind: KindRateLimited, Message: rateLimitMessage}
	case containsAny(lower, AuthKeywords):
		return Outcome{Kind: KindAuthError, Message: "Authentication error: check that " + CredentialEnv + " is set correctly."}
	default:
		return Outcome{Kind: KindUnknownError, Message: "Error: " + text}
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
