package cmd

import (
	"fmt"

	"github.com/naka-gawa/idealab/internal/gateway"
	"github.com/naka-gawa/idealab/internal/usecase"
	"github.com/naka-gawa/idealab/internal/view"
	"github.com/spf13/cobra"
)

var labsCmd = &cobra.Command{
	Use:   "labs",
	Short: "Prints the labs gallery",
	Long:  `Loads the molecule catalog and prints the entries matching --category and --query.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")
		category, _ := cmd.Flags().GetString("category")
		output, _ := cmd.Flags().GetString("output")

		source := gateway.NewCatalogSource(cfg.Labs.Catalog, cfg.Labs.Molecules, gateway.NewHTTPClient(cfg.HTTP.Timeout), logger)
		molecules, err := usecase.NewGallery(source, logger).Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load molecules: %w", err)
		}

		if output == "json" {
			return writeJSON(cmd.OutOrStdout(), usecase.FilterMolecules(molecules, query, category, cfg.Labs.MaxItems))
		}
		return view.WriteLabsText(cmd.OutOrStdout(), view.NewLabsPage(molecules, query, category, cfg.Labs.MaxItems))
	},
}

func init() {
	rootCmd.AddCommand(labsCmd)
	labsCmd.Flags().StringP("query", "q", "", "Case-insensitive search over name, category and description")
	labsCmd.Flags().String("category", "All", "Exact category to show, or All")
	labsCmd.Flags().StringP("output", "o", "text", "Output format: text or json")
	labsCmd.Flags().String("catalog", "", "Molecule catalog file or URL")
}
