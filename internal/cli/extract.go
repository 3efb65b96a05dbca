package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkravets/claimlens/internal/extract"
	"github.com/mkravets/claimlens/internal/ingest"
	"github.com/mkravets/claimlens/internal/store"
)

var (
	extractJSON   bool
	extractRecord bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract a structured claim record from a claim document",
	Long: `Extract parses a claim document (plain text, PDF, or HTML) into a
structured claim record: case ID, claim type, state, policy type, claim
amount, filed date, special flags, and a case description.

Fields that cannot be recognized are reported as N/A. Extraction never
fails on messy input; it degrades field by field.

Example:
  claimlens extract claim.txt
  claimlens extract claim.pdf --json
  claimlens extract claim.txt --record`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "output the record as JSON")
	extractCmd.Flags().BoolVar(&extractRecord, "record", false, "record the extraction in the processing history")
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg := loadConfig()

	text, err := ingest.ReadDocument(path)
	if err != nil {
		return fmt.Errorf("read claim document: %w", err)
	}

	record := extract.NewClaimExtractor().Extract(text)

	if extractJSON {
		data, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		fmt.Println(string(data))
	} else {
		fmt.Println(record.Render())
	}

	if extractRecord {
		db, err := store.Open(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer db.Close()

		if _, err := db.RecordHistory(context.Background(), store.HistoryEntry{
			CaseID:    record.CaseID,
			Operation: "extract",
			Query:     path,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: history not recorded: %v\n", err)
		}
	}

	return nil
}
