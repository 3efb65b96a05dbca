package index

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/mkravets/claimlens/internal/model"
)

func buildTestIndex(t *testing.T) *Index {
	t.Helper()

	ix, err := New(3)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{0.9, 0.1, 0},
	}
	for i, v := range vectors {
		p := model.Passage{
			Text:     "passage " + string(rune('a'+i)),
			Metadata: map[string]string{"document_name": "doc.pdf"},
		}
		if err := ix.Add(p, v); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	return ix
}

func TestIndex_SearchOrdering(t *testing.T) {
	ix := buildTestIndex(t)

	hits := ix.Search([]float32{1, 0, 0}, 3)
	if len(hits) != 3 {
		t.Fatalf("Expected 3 hits, got %d", len(hits))
	}

	// Exact match first, near-match second, ascending distances throughout
	if hits[0].Position != 0 {
		t.Errorf("Expected position 0 first, got %d", hits[0].Position)
	}
	if hits[0].Distance != 0 {
		t.Errorf("Expected zero distance for exact match, got %f", hits[0].Distance)
	}
	if hits[1].Position != 3 {
		t.Errorf("Expected position 3 second, got %d", hits[1].Position)
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Distance < hits[i-1].Distance {
			t.Errorf("Hits not in ascending distance order: %v", hits)
		}
	}
}

func TestIndex_SearchKLargerThanCorpus(t *testing.T) {
	ix := buildTestIndex(t)

	hits := ix.Search([]float32{1, 0, 0}, 50)
	if len(hits) != ix.Len() {
		t.Errorf("Expected %d hits, got %d", ix.Len(), len(hits))
	}
}

func TestIndex_AddDimensionMismatch(t *testing.T) {
	ix, _ := New(3)
	if err := ix.Add(model.Passage{Text: "x"}, []float32{1, 2}); err == nil {
		t.Error("Expected dimension mismatch error")
	}
}

func TestIndex_PassageBounds(t *testing.T) {
	ix := buildTestIndex(t)

	if _, ok := ix.Passage(-1); ok {
		t.Error("Expected no passage at negative position")
	}
	if _, ok := ix.Passage(ix.Len()); ok {
		t.Error("Expected no passage past corpus end")
	}
	if p, ok := ix.Passage(0); !ok || p.Text == "" {
		t.Error("Expected stored passage at position 0")
	}
}

func TestSimilarity(t *testing.T) {
	if got := Similarity(0); got != 1 {
		t.Errorf("Similarity(0) = %f, want 1", got)
	}
	if got := Similarity(1); got != 0.5 {
		t.Errorf("Similarity(1) = %f, want 0.5", got)
	}
	if got := Similarity(9); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("Similarity(9) = %f, want 0.1", got)
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	ix := buildTestIndex(t)

	path := filepath.Join(t.TempDir(), "index.json")
	if err := ix.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Dimension() != ix.Dimension() {
		t.Errorf("Dimension mismatch after load: %d vs %d", loaded.Dimension(), ix.Dimension())
	}
	if loaded.Len() != ix.Len() {
		t.Errorf("Length mismatch after load: %d vs %d", loaded.Len(), ix.Len())
	}

	// Search results survive the round trip
	orig := ix.Search([]float32{0, 1, 0}, 2)
	got := loaded.Search([]float32{0, 1, 0}, 2)
	for i := range orig {
		if got[i].Position != orig[i].Position {
			t.Errorf("Hit %d position mismatch: %d vs %d", i, got[i].Position, orig[i].Position)
		}
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("Expected error loading missing snapshot")
	}
}
