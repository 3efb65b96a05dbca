package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestStripFence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"answer": "yes"}`, `{"answer": "yes"}`},
		{"json fence", "Here you go:\n```json\n{\"answer\": \"yes\"}\n```\nthanks", `{"answer": "yes"}`},
		{"bare fence", "```\n{\"answer\": \"yes\"}\n```", `{"answer": "yes"}`},
		{"unclosed fence", "```json\n{\"answer\": \"yes\"}", `{"answer": "yes"}`},
		{"whitespace", "  {\"a\":1}  \n", `{"a":1}`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := StripFence(c.in); got != c.want {
				t.Errorf("StripFence(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestErrorPayload_ParsesAsAnswerShape(t *testing.T) {
	payload := ErrorPayload(errors.New("connection refused"))

	var parsed struct {
		Answer          string   `json:"answer"`
		Confidence      string   `json:"confidence"`
		RiskFactors     []string `json:"risk_factors"`
		Recommendations []string `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		t.Fatalf("Error payload is not valid JSON: %v", err)
	}

	if parsed.Confidence != "low" {
		t.Errorf("Expected low confidence, got %q", parsed.Confidence)
	}
	if parsed.Answer != "Error: connection refused" {
		t.Errorf("Unexpected answer: %q", parsed.Answer)
	}
	if len(parsed.Recommendations) == 0 {
		t.Error("Expected a retry recommendation")
	}
}
