package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mkravets/claimlens/internal/index"
	"github.com/mkravets/claimlens/internal/llm"
	"github.com/mkravets/claimlens/internal/model"
)

// fakeEmbedder implements llm.Embedder for testing
type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) Name() string { return "fake" }

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

// fakeGenerator implements llm.Generator for testing
type fakeGenerator struct {
	text   string
	err    error
	calls  int
	prompt string
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) IsAvailable(ctx context.Context) bool { return true }

func (f *fakeGenerator) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.calls++
	f.prompt = req.Prompt
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GenerateResponse{Text: f.text, Model: "fake"}, nil
}

func testIndex(t *testing.T, n int) *index.Index {
	t.Helper()

	ix, err := index.New(3)
	if err != nil {
		t.Fatalf("index.New failed: %v", err)
	}
	for i := 0; i < n; i++ {
		p := model.Passage{
			Text: "Flood damage to basements is excluded unless a rider applies. Passage " + string(rune('A'+i)),
			Metadata: map[string]string{
				"document_name": "policy_flood.pdf",
				"section_id":    "policy",
				"page_number":   "3",
			},
		}
		if err := ix.Add(p, []float32{float32(i), 1, 0}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	return ix
}

func TestAnswer_EmptyRetrieval(t *testing.T) {
	ix := testIndex(t, 0)
	gen := &fakeGenerator{text: `{"answer": "should never be used", "confidence": "high"}`}
	answerer := NewAnswerer(
		NewRetriever(&fakeEmbedder{vector: []float32{1, 1, 0}}, ix, nil),
		gen, 5)

	ans := answerer.Answer(context.Background(), "CASE-1", "Florida flood claim", "Is basement damage covered?")

	if ans.Confidence != model.ConfidenceLow {
		t.Errorf("Expected low confidence, got %s", ans.Confidence)
	}
	if !ans.RequiresManualReview {
		t.Error("Expected requires_manual_review=true")
	}
	if len(ans.Citations) != 0 {
		t.Errorf("Expected empty citation list, got %d", len(ans.Citations))
	}
	if gen.calls != 0 {
		t.Errorf("Expected no generator call on empty retrieval, got %d", gen.calls)
	}
	if ans.Answer != "No applicable policy information found in knowledge base." {
		t.Errorf("Unexpected degraded answer: %q", ans.Answer)
	}
	if ans.Metadata.SourcesFound != 0 {
		t.Errorf("Expected 0 sources found, got %d", ans.Metadata.SourcesFound)
	}
}

func TestAnswer_RoundTrip(t *testing.T) {
	ix := testIndex(t, 3)
	gen := &fakeGenerator{
		text: "```json\n{\"answer\": \"Basement flooding is excluded.\", \"confidence\": \"high\", \"risk_factors\": [\"exclusion applies\"], \"recommendations\": [\"verify rider\"], \"requires_manual_review\": false}\n```",
	}
	answerer := NewAnswerer(
		NewRetriever(&fakeEmbedder{vector: []float32{0, 1, 0}}, ix, nil),
		gen, 2)

	ans := answerer.Answer(context.Background(), "CASE-2", "Florida flood claim", "Is basement damage covered?")

	// Scalar fields pass through exactly, no silent mutation
	if ans.Answer != "Basement flooding is excluded." {
		t.Errorf("Unexpected answer: %q", ans.Answer)
	}
	if ans.Confidence != model.ConfidenceHigh {
		t.Errorf("Expected high confidence, got %s", ans.Confidence)
	}
	if ans.RequiresManualReview {
		t.Error("Expected requires_manual_review=false")
	}
	if len(ans.RiskFactors) != 1 || ans.RiskFactors[0] != "exclusion applies" {
		t.Errorf("Unexpected risk factors: %v", ans.RiskFactors)
	}

	// Citations come from retrieval, not from the generator
	if len(ans.Citations) != 2 {
		t.Fatalf("Expected 2 citations, got %d", len(ans.Citations))
	}
	c := ans.Citations[0]
	if c.DocumentName != "policy_flood.pdf" {
		t.Errorf("Unexpected document name: %q", c.DocumentName)
	}
	if c.PageNumber != 3 {
		t.Errorf("Unexpected page number: %d", c.PageNumber)
	}
	if !strings.HasSuffix(c.TextExcerpt, "...") {
		t.Errorf("Expected truncated excerpt, got %q", c.TextExcerpt)
	}
	if c.RelevanceScore <= 0 || c.RelevanceScore > 1 {
		t.Errorf("Relevance out of range: %f", c.RelevanceScore)
	}

	if gen.calls != 1 {
		t.Errorf("Expected exactly one generator call, got %d", gen.calls)
	}
}

func TestAnswer_PromptContents(t *testing.T) {
	ix := testIndex(t, 1)
	gen := &fakeGenerator{text: `{"answer": "ok"}`}
	answerer := NewAnswerer(
		NewRetriever(&fakeEmbedder{vector: []float32{0, 1, 0}}, ix, nil),
		gen, 1)

	answerer.Answer(context.Background(), "CASE-3", "Texas hail claim", "What is the deadline?")

	for _, want := range []string{
		"Use ONLY the provided policy sources",
		"--- SOURCE 1 ---",
		"Document: policy_flood.pdf",
		"CASE CONTEXT:\nTexas hail claim",
		"QUESTION:\nWhat is the deadline?",
		`"requires_manual_review": true|false`,
	} {
		if !strings.Contains(gen.prompt, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}
}

func TestAnswer_MalformedGeneratorOutput(t *testing.T) {
	ix := testIndex(t, 2)
	truncated := `{"answer": "cut off mid`
	gen := &fakeGenerator{text: truncated}
	answerer := NewAnswerer(
		NewRetriever(&fakeEmbedder{vector: []float32{0, 1, 0}}, ix, nil),
		gen, 2)

	ans := answerer.Answer(context.Background(), "CASE-4", "context", "question")

	if ans.Confidence != model.ConfidenceMedium {
		t.Errorf("Expected medium confidence, got %s", ans.Confidence)
	}
	if !ans.RequiresManualReview {
		t.Error("Expected requires_manual_review=true")
	}
	if ans.Answer != truncated {
		t.Errorf("Expected raw text preserved verbatim, got %q", ans.Answer)
	}
	if len(ans.RiskFactors) != 1 || ans.RiskFactors[0] != "Unable to parse structured response" {
		t.Errorf("Unexpected risk factors: %v", ans.RiskFactors)
	}
}

func TestAnswer_GeneratorTransportFailure(t *testing.T) {
	ix := testIndex(t, 2)
	gen := &fakeGenerator{err: errors.New("connection refused")}
	answerer := NewAnswerer(
		NewRetriever(&fakeEmbedder{vector: []float32{0, 1, 0}}, ix, nil),
		gen, 2)

	ans := answerer.Answer(context.Background(), "CASE-5", "context", "question")

	// The error payload parses as the declared shape: low confidence plus
	// a retry recommendation, no hard failure
	if ans.Confidence != model.ConfidenceLow {
		t.Errorf("Expected low confidence, got %s", ans.Confidence)
	}
	if !strings.Contains(ans.Answer, "connection refused") {
		t.Errorf("Expected error in answer text, got %q", ans.Answer)
	}
	found := false
	for _, r := range ans.Recommendations {
		if strings.Contains(r, "Retry") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected retry recommendation, got %v", ans.Recommendations)
	}
	if gen.calls != 1 {
		t.Errorf("Expected exactly one attempt, got %d", gen.calls)
	}
}

func TestAnswer_EmbedderFailureStillAnswers(t *testing.T) {
	ix := testIndex(t, 3)
	gen := &fakeGenerator{text: `{"answer": "degraded but present", "confidence": "low"}`}
	answerer := NewAnswerer(
		NewRetriever(&fakeEmbedder{err: errors.New("embed service down")}, ix, nil),
		gen, 2)

	ans := answerer.Answer(context.Background(), "CASE-6", "context", "question")

	// Zero-vector search still retrieves passages; the pipeline continues
	if len(ans.Citations) != 2 {
		t.Errorf("Expected 2 citations despite embed failure, got %d", len(ans.Citations))
	}
	if ans.Answer != "degraded but present" {
		t.Errorf("Unexpected answer: %q", ans.Answer)
	}
}

func TestAnswer_MissingFieldsGetDefaults(t *testing.T) {
	ix := testIndex(t, 1)
	gen := &fakeGenerator{text: `{}`}
	answerer := NewAnswerer(
		NewRetriever(&fakeEmbedder{vector: []float32{0, 1, 0}}, ix, nil),
		gen, 1)

	ans := answerer.Answer(context.Background(), "CASE-7", "context", "question")

	if ans.Answer != "No answer provided" {
		t.Errorf("Expected default answer, got %q", ans.Answer)
	}
	if ans.Confidence != model.ConfidenceMedium {
		t.Errorf("Expected medium confidence default, got %s", ans.Confidence)
	}
}
