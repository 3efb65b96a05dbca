package model

import (
	"fmt"
	"strings"
	"time"
)

// Confidence grades how well an answer is supported by retrieved sources
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Passage is a retrieved knowledge-base fragment with its stored metadata
// and a relevance score in (0,1], higher meaning more relevant.
type Passage struct {
	Text      string            `json:"text"`
	Metadata  map[string]string `json:"metadata"`
	Relevance float64           `json:"relevance_score"`
}

// Citation is a passage-derived source reference attached to an answer
type Citation struct {
	DocumentName    string  `json:"document_name"`
	SectionID       string  `json:"section_id"`
	PageNumber      int     `json:"page_number"`
	ParagraphNumber int     `json:"paragraph_number"`
	RelevanceScore  float64 `json:"relevance_score"`
	TextExcerpt     string  `json:"text_excerpt"`
}

// AnswerMeta carries retrieval diagnostics alongside an answer
type AnswerMeta struct {
	SourcesFound int     `json:"sources_found"`
	AvgRelevance float64 `json:"avg_relevance,omitempty"`
	CaseContext  string  `json:"case_context,omitempty"`
}

// StructuredAnswer is the final result of the retrieval-generation pipeline.
// Citations always come from retrieval, never from the generator. If no
// passages were retrieved, Confidence is low and RequiresManualReview is true
// regardless of generator output.
type StructuredAnswer struct {
	CaseID               string     `json:"case_id"`
	Timestamp            time.Time  `json:"timestamp"`
	Query                string     `json:"query"`
	Answer               string     `json:"answer"`
	Confidence           Confidence `json:"confidence"`
	Citations            []Citation `json:"citations"`
	RiskFactors          []string   `json:"risk_factors"`
	Recommendations      []string   `json:"recommendations"`
	RequiresManualReview bool       `json:"requires_manual_review"`
	Metadata             AnswerMeta `json:"metadata"`
}

// Format renders the answer for terminal display
func (a StructuredAnswer) Format() string {
	var b strings.Builder
	rule := strings.Repeat("=", 72)

	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "CASE ID:   %s\n", a.CaseID)
	fmt.Fprintf(&b, "TIMESTAMP: %s\n", a.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&b, "%s\n\n", rule)

	fmt.Fprintf(&b, "QUERY:\n  %s\n\n", a.Query)
	fmt.Fprintf(&b, "ANSWER:\n  %s\n\n", a.Answer)
	fmt.Fprintf(&b, "CONFIDENCE: %s\n", strings.ToUpper(string(a.Confidence)))

	if len(a.Citations) > 0 {
		fmt.Fprintf(&b, "\nCITATIONS (%d):\n", len(a.Citations))
		for i, c := range a.Citations {
			fmt.Fprintf(&b, "  [%d] %s\n", i+1, c.DocumentName)
			fmt.Fprintf(&b, "      Section: %s | Page: %d | Relevance: %.1f%%\n",
				c.SectionID, c.PageNumber, c.RelevanceScore*100)
		}
	}

	if len(a.RiskFactors) > 0 {
		fmt.Fprintf(&b, "\nRISK FACTORS:\n")
		for _, r := range a.RiskFactors {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
	}

	if len(a.Recommendations) > 0 {
		fmt.Fprintf(&b, "\nRECOMMENDATIONS:\n")
		for _, r := range a.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
	}

	if a.RequiresManualReview {
		fmt.Fprintf(&b, "\nSTATUS: REQUIRES MANUAL REVIEW\n")
	}

	fmt.Fprintf(&b, "%s", rule)
	return b.String()
}
