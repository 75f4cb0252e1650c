package cmd

import (
	"errors"
	"fmt"

	"github.com/naka-gawa/idealab/internal/domain"
	"github.com/naka-gawa/idealab/internal/gateway"
	"github.com/naka-gawa/idealab/internal/usecase"
	"github.com/naka-gawa/idealab/internal/view"
	"github.com/spf13/cobra"
)

const cliUserAgent = "idealab-cli"

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submits an idea to the intake webhook",
	Long: `Posts one idea to the intake webhook, the same way the web form does.
--title, --category, --problem and --agree are required.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		form := domain.IntakeForm{UserAgent: cliUserAgent}
		form.Title, _ = cmd.Flags().GetString("title")
		form.Category, _ = cmd.Flags().GetString("category")
		form.Problem, _ = cmd.Flags().GetString("problem")
		form.Features, _ = cmd.Flags().GetString("features")
		form.Audience, _ = cmd.Flags().GetString("audience")
		form.Contact, _ = cmd.Flags().GetString("contact")
		form.Consent, _ = cmd.Flags().GetBool("agree")

		// No form was rendered, so there is no dwell time to check.
		intake := newIntake(cfg, gateway.NewHTTPClient(cfg.HTTP.Timeout), logger, usecase.WithMinDwell(0))
		attempt, err := intake.Submit(cmd.Context(), form)
		switch {
		case errors.Is(err, domain.ErrIncomplete):
			return errors.New(view.MsgIncomplete)
		case err != nil:
			return fmt.Errorf("%s %w", view.MsgFailed, err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, view.MsgSubmitted)
		if attempt.Receipt.TrackingURL != "" {
			fmt.Fprintf(out, "Tracking link: %s\n", attempt.Receipt.TrackingURL)
		} else {
			fmt.Fprintf(out, "Track progress on the public idea board: %s\n", cfg.Intake.BoardURL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().String("title", "", "Idea title (required)")
	submitCmd.Flags().String("category", "", "Idea category (required)")
	submitCmd.Flags().String("problem", "", "Problem the idea solves (required)")
	submitCmd.Flags().String("features", "", "Key features")
	submitCmd.Flags().String("audience", "", "Who it is for")
	submitCmd.Flags().String("contact", "", "How to reach you")
	submitCmd.Flags().Bool("agree", false, "Agree that the idea may be published on the board")
	submitCmd.Flags().String("webhook-url", "", "Intake webhook URL")
}
