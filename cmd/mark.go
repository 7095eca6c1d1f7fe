package cmd

import (
	"fmt"
	"io"
	"os"

	"feedmark/core/config"
	"feedmark/core/events"
	"feedmark/core/logger"
	"feedmark/feature/tracker"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	markURL string
	markIn  string
	markOut string
)

// markCmd reconciles one saved page and writes it back with the separator.
var markCmd = &cobra.Command{
	Use:   "mark",
	Short: "Place the separator into a saved feed page",
	Long: `Reconciles a saved feed page against the stored cursor, persists the
updated cursor and writes the page with the separator placed when it is due.

Examples:
  # Read from a file, write to stdout
  feedmark mark --url https://www.example.com/dashboard --in page.html

  # Read from stdin, write to a file
  curl -s https://www.example.com/dashboard | feedmark mark --url https://www.example.com/dashboard --out marked.html`,
	RunE: runMark,
}

func init() {
	markCmd.Flags().StringVar(&markURL, "url", "", "URL the page was rendered at")
	markCmd.Flags().StringVar(&markIn, "in", "-", "Input HTML file (- for stdin)")
	markCmd.Flags().StringVar(&markOut, "out", "-", "Output HTML file (- for stdout)")
	_ = markCmd.MarkFlagRequired("url")

	RootCmd.AddCommand(markCmd)
}

func runMark(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	repo, err := openRepository(ctx, cfg, l, true)
	if err != nil {
		return err
	}
	resolver, err := newResolver(cfg, l)
	if err != nil {
		return err
	}

	in, err := openInput(markIn, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer in.Close()

	svc := tracker.NewService(repo, events.NewBus(), resolver, trackerOptions(cfg), l)
	defer svc.Close()

	sess, err := svc.Activate(ctx, markURL, in)
	if err != nil {
		return fmt.Errorf("failed to reconcile page: %w", err)
	}
	report, err := sess.Report(true)
	if err != nil {
		return err
	}

	l.Info("Page reconciled",
		zap.String("context", string(report.Kind)),
		zap.String("key", report.Key),
		zap.Stringer("action", report.Action),
		zap.Int64("marker_id", report.MarkerID),
		zap.Int64("goal_post", report.GoalPost),
	)

	return writeOutput(markOut, cmd.OutOrStdout(), report.HTML)
}

func openInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, nil
}

func writeOutput(path string, stdout io.Writer, content string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(stdout, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
