package rag

import (
	"fmt"
	"strings"

	"github.com/mkravets/claimlens/internal/model"
)

// BuildPrompt assembles the grounded generation prompt: strict instructions,
// the retrieved sources labeled by document and section, the case context,
// the question, and the exact output shape the generator must return.
func BuildPrompt(citations []model.Citation, passages []model.Passage, caseContext, question string) string {
	var sources strings.Builder
	for i, p := range passages {
		c := citations[i]
		fmt.Fprintf(&sources, "\n--- SOURCE %d ---\n", i+1)
		fmt.Fprintf(&sources, "Document: %s\n", c.DocumentName)
		fmt.Fprintf(&sources, "Section: %s\n", c.SectionID)
		fmt.Fprintf(&sources, "Content: %s\n", p.Text)
	}

	return fmt.Sprintf(`You are an AI insurance policy analyst. Analyze the case and provide a structured response.

STRICT REQUIREMENTS:
1. Use ONLY the provided policy sources
2. Do NOT invent or assume information
3. Be specific and cite policy sections
4. Identify risk factors and provide recommendations
5. Your response MUST be valid JSON

POLICY SOURCES:
%s
CASE CONTEXT:
%s

QUESTION:
%s

Respond with ONLY a JSON object (no other text) with this exact structure:
{
  "answer": "Clear, specific answer based on policy sources",
  "confidence": "high|medium|low",
  "risk_factors": ["list", "of", "risks"],
  "recommendations": ["list", "of", "recommendations"],
  "requires_manual_review": true|false
}
`, sources.String(), caseContext, question)
}
