package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/naka-gawa/idealab/internal/usecase"
	"github.com/naka-gawa/idealab/internal/view"
	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Prints the idea board",
	Long: `Fetches the ideas filed as GitHub issues and prints the ones matching
--status and --query, newest first, as text or JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")
		status, _ := cmd.Flags().GetString("status")
		output, _ := cmd.Flags().GetString("output")

		board, err := newBoard(cfg, logger)
		if err != nil {
			return err
		}
		ideas, err := board.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load the idea board: %w", err)
		}

		out := cmd.OutOrStdout()
		if output == "json" {
			return writeJSON(out, usecase.FilterIdeas(ideas, query, status, cfg.Board.MaxItems))
		}
		return view.WriteBoardText(out, view.NewBoardPage(ideas, query, status, cfg.Board.MaxItems, time.Now()))
	},
}

var boardSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Prints counts per status and idea age",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		board, err := newBoard(cfg, logger)
		if err != nil {
			return err
		}
		ideas, err := board.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load the idea board: %w", err)
		}

		summary := usecase.Summary(ideas, time.Now())
		if output == "json" {
			return writeJSON(cmd.OutOrStdout(), summary)
		}
		return view.WriteSummaryText(cmd.OutOrStdout(), summary)
	},
}

// writeJSON prints v as pretty-printed JSON.
func writeJSON(w io.Writer, v any) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func init() {
	rootCmd.AddCommand(boardCmd)
	boardCmd.AddCommand(boardSummaryCmd)
	addSourceFlags(boardCmd)
	addSourceFlags(boardSummaryCmd)
	boardCmd.Flags().StringP("query", "q", "", "Case-insensitive search over title, body and category")
	boardCmd.Flags().StringP("status", "s", "all", "Status to show, or all")
	boardCmd.PersistentFlags().StringP("output", "o", "text", "Output format: text or json")
}
