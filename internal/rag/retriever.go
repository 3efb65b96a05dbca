// Package rag implements the retrieval-then-generation pipeline: embed a
// case query, pull the nearest policy passages from the index, and produce a
// grounded structured answer. Every failure path degrades to a well-formed
// answer; nothing here is fatal to the caller.
package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mkravets/claimlens/internal/cache"
	"github.com/mkravets/claimlens/internal/index"
	"github.com/mkravets/claimlens/internal/llm"
	"github.com/mkravets/claimlens/internal/model"
)

// Retriever looks up the passages most relevant to a query. The index is
// read-only; concurrent Retrieve calls are safe.
type Retriever struct {
	embedder llm.Embedder
	index    *index.Index
	cache    cache.Cache // optional; nil disables embedding reuse
}

// NewRetriever creates a retriever over a loaded index
func NewRetriever(embedder llm.Embedder, ix *index.Index, c cache.Cache) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    ix,
		cache:    c,
	}
}

// Retrieve returns up to k passages nearest to the query, most relevant
// first, each scored with 1/(1+distance). An embedding failure degrades to a
// zero query vector: search still returns passages, just without meaningful
// ranking.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) []model.Passage {
	vector := r.embed(ctx, query)

	passages := make([]model.Passage, 0, k)
	for _, hit := range r.index.Search(vector, k) {
		// Positions past the stored corpus indicate a stale or
		// mismatched index; skip rather than fail
		p, ok := r.index.Passage(hit.Position)
		if !ok {
			continue
		}
		p.Relevance = index.Similarity(hit.Distance)
		passages = append(passages, p)
	}

	return passages
}

// embed returns the query vector, falling back to a zero vector of the
// index dimension when the embedding service is unreachable
func (r *Retriever) embed(ctx context.Context, text string) []float32 {
	if r.cache != nil {
		if data, found := r.cache.Get(cache.Key(r.embedder.Name() + ":" + text)); found {
			var vec []float32
			if err := json.Unmarshal(data, &vec); err == nil {
				return vec
			}
		}
	}

	vec, err := r.embedder.Embed(ctx, text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Embedding error: %v (degrading to zero vector)\n", err)
		return make([]float32, r.index.Dimension())
	}

	if r.cache != nil {
		if data, err := json.Marshal(vec); err == nil {
			_ = r.cache.Set(cache.Key(r.embedder.Name()+":"+text), data, 0)
		}
	}

	return vec
}
