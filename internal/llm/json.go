package llm

import (
	"encoding/json"
	"strings"
)

// StripFence removes the first fenced code block wrapper from generated
// text. Models frequently wrap JSON answers in ```json ... ``` despite being
// told not to; the content of the first fence is returned. Text without a
// fence is returned trimmed.
func StripFence(s string) string {
	if i := strings.Index(s, "```json"); i >= 0 {
		rest := s[i+len("```json"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		return strings.TrimSpace(rest)
	}
	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+3:]
		if j := strings.Index(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(s)
}

// ErrorPayload renders a generation-service failure as the same JSON shape
// the generator is asked to produce, so the caller's parse path handles
// transport failures without a separate branch.
func ErrorPayload(err error) string {
	payload := struct {
		Answer          string   `json:"answer"`
		Confidence      string   `json:"confidence"`
		RiskFactors     []string `json:"risk_factors"`
		Recommendations []string `json:"recommendations"`
	}{
		Answer:          "Error: " + err.Error(),
		Confidence:      "low",
		RiskFactors:     []string{"System error occurred"},
		Recommendations: []string{"Retry request or contact support"},
	}

	data, merr := json.Marshal(payload)
	if merr != nil {
		return `{"answer":"Error","confidence":"low","risk_factors":["System error occurred"],"recommendations":["Retry request or contact support"]}`
	}
	return string(data)
}
