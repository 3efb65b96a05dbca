// Package ingest builds the policy knowledge index: it reads documents from
// a data directory, splits them into passages, embeds each passage, and
// writes the index snapshot. This is the offline step; queries never mutate
// the index.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/mkravets/claimlens/internal/cache"
	"github.com/mkravets/claimlens/internal/index"
	"github.com/mkravets/claimlens/internal/llm"
	"github.com/mkravets/claimlens/internal/model"
	"github.com/mkravets/claimlens/internal/worker"
)

// Ingestor builds an index from a directory of policy documents
type Ingestor struct {
	embedder llm.Embedder
	cache    cache.Cache // optional
	pool     *worker.Pool
	limiter  *worker.Limiter
	verbose  bool
}

// NewIngestor creates an ingestor using the given embedder
func NewIngestor(embedder llm.Embedder, c cache.Cache, cfg model.IngestConfig, verbose bool) *Ingestor {
	return &Ingestor{
		embedder: embedder,
		cache:    c,
		pool:     worker.NewPool(cfg.Workers),
		limiter:  worker.NewLimiter(cfg.RequestsPerSecond, cfg.Burst),
		verbose:  verbose,
	}
}

// Build collects passages from dataDir, embeds them, and returns the index.
// Passages whose embedding fails are dropped with a warning: an all-zeros
// stored vector would pollute every future search.
func (ing *Ingestor) Build(ctx context.Context, dataDir string) (*index.Index, error) {
	passages, err := CollectPassages(dataDir)
	if err != nil {
		return nil, err
	}
	if len(passages) == 0 {
		return nil, fmt.Errorf("no ingestible documents in %s (supported: .pdf, .txt, .md, .html)", dataDir)
	}

	if ing.verbose {
		fmt.Fprintf(os.Stderr, "Embedding %d passages...\n", len(passages))
	}

	vectors := make([][]float32, len(passages))
	errs := ing.pool.Run(ctx, len(passages), func(ctx context.Context, i int) error {
		if err := ing.limiter.Wait(ctx); err != nil {
			return err
		}
		vec, err := ing.embed(ctx, passages[i].Text)
		if err != nil {
			return err
		}
		vectors[i] = vec
		return nil
	})

	dimension := 0
	for i, vec := range vectors {
		if errs[i] != nil {
			fmt.Fprintf(os.Stderr, "Warning: dropping passage %d (%s): %v\n",
				i, passages[i].Metadata["document_name"], errs[i])
			continue
		}
		if dimension == 0 {
			dimension = len(vec)
		}
	}
	if dimension == 0 {
		return nil, fmt.Errorf("all %d embedding calls failed", len(passages))
	}

	ix, err := index.New(dimension)
	if err != nil {
		return nil, err
	}
	for i, vec := range vectors {
		if errs[i] != nil {
			continue
		}
		if err := ix.Add(passages[i], vec); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: dropping passage %d: %v\n", i, err)
		}
	}

	if ing.verbose {
		fmt.Fprintf(os.Stderr, "Indexed %d of %d passages (dimension %d)\n",
			ix.Len(), len(passages), dimension)
	}

	return ix, nil
}

// embed calls the embedding service, consulting the cache first
func (ing *Ingestor) embed(ctx context.Context, text string) ([]float32, error) {
	key := cache.Key(ing.embedder.Name() + ":" + text)

	if ing.cache != nil {
		if data, found := ing.cache.Get(key); found {
			var vec []float32
			if err := json.Unmarshal(data, &vec); err == nil {
				return vec, nil
			}
		}
	}

	vec, err := ing.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if ing.cache != nil {
		if data, err := json.Marshal(vec); err == nil {
			_ = ing.cache.Set(key, data, 0)
		}
	}

	return vec, nil
}

// CollectPassages reads every supported document directly under dataDir and
// splits it into passages with citation metadata attached.
func CollectPassages(dataDir string) ([]model.Passage, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var passages []model.Passage
	for _, name := range names {
		path := filepath.Join(dataDir, name)

		switch strings.ToLower(filepath.Ext(name)) {
		case ".pdf":
			pages, err := pdfPages(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", name, err)
				continue
			}
			for i, page := range pages {
				passages = append(passages, newPassage(name, page, "page_number", i+1))
			}

		case ".txt", ".md":
			data, err := os.ReadFile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", name, err)
				continue
			}
			for i, para := range paragraphs(string(data)) {
				passages = append(passages, newPassage(name, para, "paragraph_number", i+1))
			}

		case ".html", ".htm":
			data, err := os.ReadFile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", name, err)
				continue
			}
			text, err := visibleText(strings.NewReader(string(data)))
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", name, err)
				continue
			}
			for i, para := range paragraphs(text) {
				passages = append(passages, newPassage(name, para, "paragraph_number", i+1))
			}
		}
	}

	return passages, nil
}

func newPassage(name, text, positionKey string, position int) model.Passage {
	return model.Passage{
		Text: text,
		Metadata: map[string]string{
			"document_name": name,
			"section_id":    DocumentType(name),
			positionKey:     strconv.Itoa(position),
		},
	}
}

// ReadDocument returns the full text of one claim document. PDFs are joined
// page by page, HTML is reduced to visible text, everything else is read as
// plain text.
func ReadDocument(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		pages, err := pdfPages(path)
		if err != nil {
			return "", err
		}
		return strings.Join(pages, "\n\n"), nil

	case ".html", ".htm":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return visibleText(strings.NewReader(string(data)))

	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

// DocumentType classifies a document by filename: "policy" and "sop" by
// keyword, everything else is treated as a regulation
func DocumentType(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "policy"):
		return "policy"
	case strings.Contains(lower, "sop"):
		return "sop"
	default:
		return "regulation"
	}
}

// paragraphs splits text into non-empty blank-line-separated blocks
func paragraphs(text string) []string {
	var out []string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			out = append(out, block)
		}
	}
	return out
}
