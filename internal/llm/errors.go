package llm

import (
	"regexp"
	"strings"
)

var (
	rateLimitHintRe = regexp.MustCompile(`(?i)rate limit|too many requests|requests per (?:minute|hour|day)|quota|throttl|429\b`)
	authHintRe      = regexp.MustCompile(`(?i)invalid (?:api )?key|incorrect api key|unauthorized|authentication|401\b|403\b`)
)

// IsLikelyQuotaError reports whether the provider error looks like a rate
// limit or quota rejection, based on message heuristics.
func IsLikelyQuotaError(err error) bool {
	if err == nil {
		return false
	}
	return rateLimitHintRe.MatchString(strings.TrimSpace(err.Error()))
}

// IsLikelyAuthError reports whether the provider error looks like a
// credential problem rather than a transient fault.
func IsLikelyAuthError(err error) bool {
	if err == nil {
		return false
	}
	text := strings.TrimSpace(err.Error())
	if rateLimitHintRe.MatchString(text) {
		return false
	}
	return authHintRe.MatchString(text)
}
