package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/redline"
	"github.com/aretw0/redline/internal/adapters/browser"
	"github.com/aretw0/redline/internal/presentation/tui"
	"github.com/aretw0/redline/pkg/domain"
	"github.com/aretw0/redline/pkg/ports"
)

// reviewCmd represents the review command
var reviewCmd = &cobra.Command{
	Use:   "review [file]",
	Short: "Submit a Markdown document for human review",
	Long: `Reads a Markdown document (from a file, or Stdin when the argument is "-"
or omitted), opens the review page, and blocks until the human submits,
cancels, or the timeout elapses. The per-item decisions are printed as JSON
on Stdout.

Exit codes: 0 submitted, 2 timed out, 3 cancelled.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		content, source, err := readDocument(args)
		if err != nil {
			return err
		}

		title, _ := cmd.Flags().GetString("title")
		if title == "" {
			title = source
		}

		noBrowser, _ := cmd.Flags().GetBool("no-browser")
		openBrowser := cfg.OpenBrowser && !noBrowser
		presenter := ports.PresenterFunc(func(ctx context.Context, url string) error {
			tui.PrintReviewNotice(title, url)
			if !openBrowser {
				return nil
			}
			return browser.New().Present(ctx, url)
		})

		coord, err := buildCoordinator(cfg, logger, presenter)
		if err != nil {
			return err
		}
		defer coord.Close(context.Background())

		runner := redline.NewRunner(coord)
		if plain, _ := cmd.Flags().GetBool("plain"); !plain && term.IsTerminal(int(os.Stdout.Fd())) {
			runner.Renderer = tui.NewRenderer()
		}
		if cmd.Flags().Changed("timeout") {
			d, _ := cmd.Flags().GetDuration("timeout")
			runner.Timeout = redline.WithReviewTimeout(d)
		}

		// Ctrl+C cancels the review instead of killing the endpoint mid-flight.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		err = runner.Run(ctx, content, title)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, domain.ErrReviewTimeout):
			os.Exit(2)
		case errors.Is(err, domain.ErrReviewCancelled):
			os.Exit(3)
		}
		return err
	},
}

// readDocument loads the content and derives a default title from its origin.
func readDocument(args []string) (content, source string, err error) {
	path := "-"
	if len(args) > 0 {
		path = args[0]
	}

	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), "Review", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read document: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return string(data), name, nil
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().String("title", "", "Label shown on the review page (defaults to the file name)")
	reviewCmd.Flags().Duration("timeout", 0, "Review deadline, e.g. 30m (overrides config; 0 expires immediately)")
	reviewCmd.Flags().Bool("no-browser", false, "Print the review URL instead of opening a browser")
	reviewCmd.Flags().Bool("plain", false, "Skip the terminal Markdown preview")

	// Make 'review' the default when input is piped in with no subcommand.
	rootCmd.RunE = reviewCmd.RunE
}
