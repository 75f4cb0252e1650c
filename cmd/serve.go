package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/naka-gawa/idealab/internal/gateway"
	"github.com/naka-gawa/idealab/internal/server"
	"github.com/naka-gawa/idealab/internal/usecase"
	"github.com/naka-gawa/idealab/internal/view"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the board, labs and submit pages over HTTP",
	Long: `Starts an HTTP server with the idea board (/board), the labs gallery
(/labs), the intake form (/submit), JSON endpoints under /api and /healthz.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		client := gateway.NewHTTPClient(cfg.HTTP.Timeout)
		board, err := newBoard(cfg, logger)
		if err != nil {
			return err
		}
		gallery, stopWatch, err := newGallery(ctx, cfg, client, logger)
		if err != nil {
			return fmt.Errorf("failed to load labs catalog: %w", err)
		}
		defer stopWatch()

		renderer, err := view.New()
		if err != nil {
			return err
		}
		srv := server.New(
			board,
			gallery,
			newIntake(cfg, client, logger),
			usecase.NewHealth(board, gallery, logger),
			renderer,
			server.Options{
				BoardMax: cfg.Board.MaxItems,
				LabsMax:  cfg.Labs.MaxItems,
				BoardURL: cfg.Intake.BoardURL,
			},
			logger,
		)
		return srv.Run(ctx, cfg.Server.Addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addSourceFlags(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default :8080)")
	serveCmd.Flags().String("catalog", "", "Molecule catalog file or URL")
	serveCmd.Flags().Bool("watch", false, "Reload a file catalog when it changes")
	serveCmd.Flags().String("webhook-url", "", "Intake webhook URL")
}
