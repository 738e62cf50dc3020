// ABOUTME: Root command for article-desk CLI
// ABOUTME: Handles global flags, wires dependencies, and launches the TUI

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/markalston/article-desk/internal/actions"
	"github.com/markalston/article-desk/internal/client"
	"github.com/markalston/article-desk/internal/config"
	"github.com/markalston/article-desk/internal/logger"
	"github.com/markalston/article-desk/internal/nav"
	"github.com/markalston/article-desk/internal/session"
	"github.com/markalston/article-desk/internal/state"
	"github.com/markalston/article-desk/internal/tui"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	configDir  string
	jsonOutput bool
)

// Exit codes shared by all subcommands
const (
	exitOK           = 0
	exitUnauthorized = 1
	exitError        = 2
)

// rootCmd is the base command. Without a subcommand it starts the TUI.
var rootCmd = &cobra.Command{
	Use:   "article-desk",
	Short: "Terminal client for the articles API",
	Long: `article-desk signs in to the articles API and lets you list, create,
update, and delete articles, either in an interactive terminal UI or
through scriptable subcommands.

Environment Variables:
  ARTICLE_DESK_API_URL     API URL (default: http://localhost:9000)
  ARTICLE_DESK_CONFIG_DIR  Session and log directory (default: ~/.config/article-desk)
  ARTICLE_DESK_TIMEOUT     Request timeout in seconds (default: 30)
  LOG_LEVEL                debug, info, warn, error (default: info)`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		d, err := setup()
		if err != nil {
			return err
		}
		defer d.Close()

		return tui.Run(ctx, d.coord, d.guard)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API URL (overrides ARTICLE_DESK_API_URL)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Session and log directory (overrides ARTICLE_DESK_CONFIG_DIR)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// deps holds the collaborators every command runs against
type deps struct {
	cfg     *config.Config
	session *session.FileStore
	client  *client.Client
	state   *state.Store
	guard   *nav.Guard
	coord   *actions.Coordinator
	closer  io.Closer
}

// Close releases the log file
func (d *deps) Close() {
	if d.closer != nil {
		d.closer.Close()
	}
}

// setup loads configuration from flags and environment, opens the debug log,
// and wires the command dependencies.
func setup() (*deps, error) {
	cfg, err := config.Load(config.Flags{APIURL: apiURL, ConfigDir: configDir})
	if err != nil {
		return nil, err
	}

	closer, err := logger.InitFile(cfg.ConfigDir, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: debug log disabled: %v\n", err)
	}

	d := newDeps(cfg)
	d.closer = closer
	return d, nil
}

func newDeps(cfg *config.Config) *deps {
	sess := session.New(cfg.ConfigDir)
	apiClient := client.New(cfg.APIURL, sess, client.WithTimeout(cfg.Timeout))
	st := state.New()
	guard := nav.New(sess)

	return &deps{
		cfg:     cfg,
		session: sess,
		client:  apiClient,
		state:   st,
		guard:   guard,
		coord:   actions.New(apiClient, sess, st, guard),
	}
}

// runWithDeps wires dependencies, runs fn with a signal-aware context, and
// exits with its code.
func runWithDeps(fn func(ctx context.Context, d *deps, w io.Writer) int) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}

	exitCode := fn(ctx, d, os.Stdout)
	d.Close()
	if exitCode != exitOK {
		os.Exit(exitCode)
	}
}

// reportError prints err and maps it to an exit code
func reportError(w io.Writer, err error) int {
	if client.IsUnauthorized(err) {
		fmt.Fprintf(w, "Error: %v (session cleared, run 'article-desk login')\n", err)
		return exitUnauthorized
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return exitError
}

// formatJSON renders v as indented JSON
func formatJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data)
}
