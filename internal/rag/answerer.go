package rag

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/mkravets/claimlens/internal/llm"
	"github.com/mkravets/claimlens/internal/model"
)

const (
	// DefaultTopK is the recommended retrieval depth
	DefaultTopK = 5

	// excerptLength caps citation excerpts
	excerptLength = 200
)

// Answerer orchestrates retrieval and generation into a StructuredAnswer
type Answerer struct {
	retriever *Retriever
	generator llm.Generator
	topK      int
}

// NewAnswerer creates an answerer. topK <= 0 uses DefaultTopK.
func NewAnswerer(retriever *Retriever, generator llm.Generator, topK int) *Answerer {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Answerer{
		retriever: retriever,
		generator: generator,
		topK:      topK,
	}
}

// generatedAnswer is the JSON shape the generator is instructed to return
type generatedAnswer struct {
	Answer               string   `json:"answer"`
	Confidence           string   `json:"confidence"`
	RiskFactors          []string `json:"risk_factors"`
	Recommendations      []string `json:"recommendations"`
	RequiresManualReview bool     `json:"requires_manual_review"`
}

// Answer retrieves passages for "{caseContext}. {userQuestion}", generates a
// grounded answer, and merges it with retrieval-derived citations. It always
// returns a well-formed answer: service failures and malformed generator
// output degrade per the pipeline's fallback rules.
func (a *Answerer) Answer(ctx context.Context, caseID, caseContext, question string) model.StructuredAnswer {
	searchQuery := caseContext + ". " + question
	passages := a.retriever.Retrieve(ctx, searchQuery, a.topK)

	if len(passages) == 0 {
		return model.StructuredAnswer{
			CaseID:               caseID,
			Timestamp:            time.Now().UTC(),
			Query:                question,
			Answer:               "No applicable policy information found in knowledge base.",
			Confidence:           model.ConfidenceLow,
			Citations:            []model.Citation{},
			RiskFactors:          []string{"No relevant policy documents found"},
			Recommendations:      []string{"Manual review required", "Consult policy expert"},
			RequiresManualReview: true,
			Metadata:             model.AnswerMeta{SourcesFound: 0, CaseContext: caseContext},
		}
	}

	citations := buildCitations(passages)
	prompt := BuildPrompt(citations, passages, caseContext, question)

	// Single attempt; a transport failure becomes a JSON-shaped error
	// payload so the parse path below handles both cases
	var raw string
	resp, err := a.generator.Generate(ctx, llm.GenerateRequest{Prompt: prompt})
	if err != nil {
		raw = llm.ErrorPayload(err)
	} else {
		raw = llm.StripFence(resp.Text)
	}

	var gen generatedAnswer
	if err := json.Unmarshal([]byte(raw), &gen); err != nil {
		gen = generatedAnswer{
			Answer:               raw,
			Confidence:           string(model.ConfidenceMedium),
			RiskFactors:          []string{"Unable to parse structured response"},
			Recommendations:      []string{"Review response manually"},
			RequiresManualReview: true,
		}
	}

	if gen.Answer == "" {
		gen.Answer = "No answer provided"
	}
	if gen.Confidence == "" {
		gen.Confidence = string(model.ConfidenceMedium)
	}

	return model.StructuredAnswer{
		CaseID:               caseID,
		Timestamp:            time.Now().UTC(),
		Query:                question,
		Answer:               gen.Answer,
		Confidence:           model.Confidence(gen.Confidence),
		Citations:            citations,
		RiskFactors:          gen.RiskFactors,
		Recommendations:      gen.Recommendations,
		RequiresManualReview: gen.RequiresManualReview,
		Metadata: model.AnswerMeta{
			SourcesFound: len(passages),
			AvgRelevance: avgRelevance(passages),
			CaseContext:  caseContext,
		},
	}
}

// buildCitations derives citations from retrieved passages and their stored
// metadata. Citations come from retrieval only, never from the generator.
func buildCitations(passages []model.Passage) []model.Citation {
	citations := make([]model.Citation, 0, len(passages))
	for i, p := range passages {
		citations = append(citations, model.Citation{
			DocumentName:    metaString(p.Metadata, "document_name", "Document_"+strconv.Itoa(i+1)),
			SectionID:       metaString(p.Metadata, "section_id", "N/A"),
			PageNumber:      metaInt(p.Metadata, "page_number"),
			ParagraphNumber: metaInt(p.Metadata, "paragraph_number"),
			RelevanceScore:  p.Relevance,
			TextExcerpt:     excerpt(p.Text),
		})
	}
	return citations
}

func metaString(meta map[string]string, key, fallback string) string {
	if v, ok := meta[key]; ok && v != "" {
		return v
	}
	return fallback
}

func metaInt(meta map[string]string, key string) int {
	v, err := strconv.Atoi(meta[key])
	if err != nil {
		return 0
	}
	return v
}

func excerpt(text string) string {
	r := []rune(text)
	if len(r) > excerptLength {
		r = r[:excerptLength]
	}
	return string(r) + "..."
}

func avgRelevance(passages []model.Passage) float64 {
	if len(passages) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range passages {
		sum += p.Relevance
	}
	return sum / float64(len(passages))
}
