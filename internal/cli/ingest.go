package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkravets/claimlens/internal/ingest"
	"github.com/mkravets/claimlens/internal/llm"
	"github.com/mkravets/claimlens/internal/store"
)

var (
	ingestWorkers int
	ingestRPS     float64
	ingestOut     string
	ingestTimeout time.Duration
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Build the policy knowledge index from a document directory",
	Long: `Ingest reads every policy document in the directory (.pdf, .txt, .md,
.html), splits it into passages, embeds each passage concurrently, and
writes the index snapshot used by 'claimlens ask'.

Embeddings are cached, so re-ingesting unchanged documents is cheap.

Example:
  claimlens ingest ./data
  claimlens ingest ./data --workers 8 --rps 10 --out index.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().IntVar(&ingestWorkers, "workers", 0, "concurrent embedding calls (default from config)")
	ingestCmd.Flags().Float64Var(&ingestRPS, "rps", 0, "embedding requests per second, 0 for unlimited")
	ingestCmd.Flags().StringVar(&ingestOut, "out", "", "index snapshot path (default from config)")
	ingestCmd.Flags().DurationVar(&ingestTimeout, "timeout", 10*time.Minute, "total ingestion timeout")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	dataDir := cfg.DataDir
	if len(args) == 1 {
		dataDir = args[0]
	}
	indexPath := cfg.IndexPath
	if ingestOut != "" {
		indexPath = ingestOut
	}
	if ingestWorkers > 0 {
		cfg.Ingest.Workers = ingestWorkers
	}
	if cmd.Flags().Changed("rps") {
		cfg.Ingest.RequestsPerSecond = ingestRPS
	}

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	embedCfg, err := providerConfig(cfg.Embedding)
	if err != nil {
		return err
	}
	embedder, err := llm.NewEmbedder(embedCfg)
	if err != nil {
		return fmt.Errorf("embedding provider: %w", err)
	}

	ing := ingest.NewIngestor(embedder, newEmbedCache(cfg.Cache), cfg.Ingest, cfg.Output.Verbose)

	ix, err := ing.Build(ctx, dataDir)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if err := ix.Save(indexPath); err != nil {
		return fmt.Errorf("save index: %w", err)
	}

	// Count indexed passages per document for the record store
	counts := make(map[string]int)
	for i := 0; i < ix.Len(); i++ {
		if p, ok := ix.Passage(i); ok {
			counts[p.Metadata["document_name"]]++
		}
	}

	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file records not stored: %v\n", err)
	} else {
		defer db.Close()
		for name, passages := range counts {
			var size int64
			if info, err := os.Stat(filepath.Join(dataDir, name)); err == nil {
				size = info.Size()
			}
			if err := db.RecordFile(context.Background(), store.FileRecord{
				Name:         name,
				Size:         size,
				DocumentType: ingest.DocumentType(name),
				Passages:     passages,
			}); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: file record for %s not stored: %v\n", name, err)
			}
		}
	}

	fmt.Printf("Indexed %d passages from %d documents into %s\n", ix.Len(), len(counts), indexPath)
	return nil
}
