package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkravets/claimlens/internal/store"
)

var (
	historyLimit  int
	historyCaseID string
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent extraction and question-answering runs",
	Long: `History lists recorded processing runs, newest first. Runs are recorded
by 'claimlens extract --record' and 'claimlens ask --record'.

Example:
  claimlens history
  claimlens history --limit 50
  claimlens history --case-id CL-2024-001`,
	RunE: runHistory,
}

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base and processing statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum entries to show, 0 for all")
	historyCmd.Flags().StringVar(&historyCaseID, "case-id", "", "show only entries for one case")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	var entries []store.HistoryEntry
	if historyCaseID != "" {
		entries, err = db.CaseHistory(ctx, historyCaseID)
	} else {
		entries, err = db.History(ctx, historyLimit)
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No processing history recorded.")
		return nil
	}

	for _, e := range entries {
		line := fmt.Sprintf("%s  %-7s  %s", e.CreatedAt.Format(time.RFC3339), e.Operation, e.CaseID)
		if e.Confidence != "" {
			line += fmt.Sprintf("  [%s]", e.Confidence)
		}
		if e.Query != "" {
			line += "  " + e.Query
		}
		fmt.Println(line)
	}

	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	stats, err := db.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Documents:  %d\n", stats.Files)
	fmt.Printf("Passages:   %d\n", stats.Passages)
	fmt.Printf("Runs:       %d\n", stats.Operations)
	if len(stats.ByConfidence) > 0 {
		fmt.Println("Confidence:")
		for _, level := range []string{"high", "medium", "low"} {
			if n, ok := stats.ByConfidence[level]; ok {
				fmt.Printf("  %-7s %d\n", level, n)
			}
		}
	}

	files, err := db.ListFiles(ctx)
	if err != nil {
		return err
	}
	if len(files) > 0 {
		fmt.Println("\nIngested documents:")
		for _, f := range files {
			fmt.Printf("  %-40s %-10s %4d passages\n", f.Name, f.DocumentType, f.Passages)
		}
	}

	return nil
}
