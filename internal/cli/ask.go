package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkravets/claimlens/internal/index"
	"github.com/mkravets/claimlens/internal/llm"
	"github.com/mkravets/claimlens/internal/rag"
	"github.com/mkravets/claimlens/internal/store"
)

var (
	askCaseID  string
	askContext string
	askTopK    int
	askJSON    bool
	askRecord  bool
	askTimeout time.Duration
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question about a claim from the policy knowledge base",
	Long: `Ask retrieves the policy passages most relevant to the claim and the
question, then generates a structured answer citing only those passages.

The answer carries a confidence level, citations, risk factors, and
recommendations. When nothing relevant is found, or the generator
fails or returns unparseable output, the answer is degraded and
flagged for manual review instead of invented.

Example:
  claimlens ask "Is water damage covered?" --case-id CL-2024-001 --context "Auto claim in FL"
  claimlens ask "What is the filing deadline?" --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVar(&askCaseID, "case-id", "N/A", "claim case identifier")
	askCmd.Flags().StringVar(&askContext, "context", "", "case context prepended to the retrieval query")
	askCmd.Flags().IntVar(&askTopK, "top-k", 0, "passages to retrieve (default from config)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	askCmd.Flags().BoolVar(&askRecord, "record", false, "record the answer in the processing history")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 2*time.Minute, "overall answer timeout")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	ix, err := index.Load(cfg.IndexPath)
	if err != nil {
		return fmt.Errorf("load index %s (run 'claimlens ingest' first): %w", cfg.IndexPath, err)
	}

	embedCfg, err := providerConfig(cfg.Embedding)
	if err != nil {
		return err
	}
	embedder, err := llm.NewEmbedder(embedCfg)
	if err != nil {
		return fmt.Errorf("embedding provider: %w", err)
	}

	genCfg, err := providerConfig(cfg.Generation)
	if err != nil {
		return err
	}
	generator, err := llm.NewGenerator(genCfg)
	if err != nil {
		return fmt.Errorf("generation provider: %w", err)
	}

	topK := askTopK
	if topK <= 0 {
		topK = cfg.Retrieval.TopK
	}

	retriever := rag.NewRetriever(embedder, ix, newEmbedCache(cfg.Cache))
	answerer := rag.NewAnswerer(retriever, generator, topK)

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Index: %d passages (dimension %d)\n", ix.Len(), ix.Dimension())
		fmt.Fprintf(os.Stderr, "Embedding: %s, generation: %s\n\n", embedder.Name(), generator.Name())
	}

	answer := answerer.Answer(ctx, askCaseID, askContext, question)

	if askJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal answer: %w", err)
		}
		fmt.Println(string(data))
	} else {
		fmt.Println(answer.Format())
	}

	if askRecord {
		db, err := store.Open(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer db.Close()

		if _, err := db.RecordHistory(context.Background(), store.HistoryEntry{
			CaseID:     answer.CaseID,
			Operation:  "ask",
			Query:      question,
			Confidence: string(answer.Confidence),
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: history not recorded: %v\n", err)
		}
	}

	return nil
}
