package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"feedmark/core/config"
	"feedmark/core/logger"
	"feedmark/core/state"
	"feedmark/feature/feeds"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	cursorFormat string
	yesConfirm   bool
)

// cursorCmd is the parent command for cursor administration.
var cursorCmd = &cobra.Command{
	Use:   "cursor",
	Short: "Inspect or reset stored cursors",
}

// cursorShowCmd prints a stored cursor.
var cursorShowCmd = &cobra.Command{
	Use:   "show <dashboard|tagged> [key]",
	Short: "Print a stored cursor, or list keys when no key is given",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runCursorShow,
}

// cursorResetCmd forgets a stored cursor.
var cursorResetCmd = &cobra.Command{
	Use:   "reset <dashboard|tagged> <key>",
	Short: "Forget a stored cursor so the next visit starts from scratch",
	Long: `Removes a stored cursor. This is the recovery path after an invariant
violation left a context unusable.

Examples:
  # Reset with interactive confirmation
  feedmark cursor reset tagged golang

  # Reset with auto-confirm (non-interactive)
  feedmark cursor reset dashboard dashboard --yes`,
	Args: cobra.ExactArgs(2),
	RunE: runCursorReset,
}

func init() {
	cursorShowCmd.Flags().StringVar(&cursorFormat, "format", "json", "Output format (json, yaml)")
	cursorResetCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm the reset (non-interactive)")

	cursorCmd.AddCommand(cursorShowCmd)
	cursorCmd.AddCommand(cursorResetCmd)
	RootCmd.AddCommand(cursorCmd)
}

func runCursorShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repo, _, err := cursorRepository(cmd)
	if err != nil {
		return err
	}
	ns, err := feeds.NamespaceFor(feeds.Kind(args[0]))
	if err != nil {
		return err
	}

	var out any
	if len(args) == 1 {
		keys, err := repo.Keys(ctx, ns)
		if err != nil {
			return err
		}
		if keys == nil {
			keys = []string{}
		}
		out = map[string]any{"namespace": ns.Name, "keys": keys}
	} else {
		c, err := repo.Load(ctx, ns, args[1])
		if err != nil {
			return err
		}
		out = state.NewView(ns, args[1], c)
	}
	return printFormatted(cmd.OutOrStdout(), cursorFormat, out)
}

func runCursorReset(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repo, l, err := cursorRepository(cmd)
	if err != nil {
		return err
	}
	ns, err := feeds.NamespaceFor(feeds.Kind(args[0]))
	if err != nil {
		return err
	}

	if !confirmReset(cmd.InOrStdin(), cmd.OutOrStdout(), ns.Name, args[1]) {
		l.Warn("Reset cancelled by user. No changes were made.")
		return nil
	}

	if err := repo.Reset(ctx, ns, args[1]); err != nil {
		return err
	}
	l.Info("Cursor reset", zap.String("context", ns.Name), zap.String("key", args[1]))
	return nil
}

func cursorRepository(cmd *cobra.Command) (*state.Repository, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	repo, err := openRepository(cmd.Context(), cfg, l, true)
	if err != nil {
		return nil, nil, err
	}
	return repo, l, nil
}

func printFormatted(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q (json, yaml)", format)
	}
}

// confirmReset prompts the user for confirmation or uses --yes flag.
func confirmReset(in io.Reader, out io.Writer, namespace, key string) bool {
	if yesConfirm {
		fmt.Fprintln(out, "✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Fprintf(out, "Type 'yes' to reset the cursor %s/%s: ", namespace, key)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
