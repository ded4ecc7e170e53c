package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/folio/internal/catalog"
	"github.com/pders01/folio/internal/config"
	"github.com/pders01/folio/internal/debuglog"
	"github.com/pders01/folio/internal/discovery"
	"github.com/pders01/folio/internal/media"
	"github.com/pders01/folio/internal/metrics"
	"github.com/pders01/folio/internal/shelf"
	"github.com/pders01/folio/internal/tui"
	"github.com/pders01/folio/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

// cli carries the global flags and the state built from them.
type cli struct {
	configPath  string
	dbPath      string
	logLevel    string
	metricsAddr string
	quiet       bool

	cfg           *config.Config
	metricsServer *http.Server
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "folio",
		Short:         "Discover books from the terminal",
		Long:          "folio searches the Google Books catalog, narrows results locally and keeps a reading shelf.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          c.runTUI,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return c.shutdown()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "Path to configuration file")
	pf.StringVar(&c.dbPath, "db", "", "Path to shelf database (overrides config)")
	pf.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error, off (overrides config)")
	pf.StringVar(&c.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9464")
	root.Flags().BoolVar(&c.quiet, "quiet", false, "Skip startup banner")

	root.AddCommand(
		c.newSearchCmd(),
		c.newPresetsCmd(),
		c.newShelfCmd(),
		c.newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration and starts logging and metrics. Commands that do
// not need any of it skip the call.
func (c *cli) setup() error {
	if c.cfg != nil {
		return nil
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if c.dbPath != "" {
		cfg.Shelf.Path = c.dbPath
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}

	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.Path); err != nil {
		return err
	}
	debuglog.Infof("folio %s starting, config=%q shelf=%q", Version, c.configPath, cfg.Shelf.Path)

	if c.metricsAddr != "" {
		c.startMetrics()
	}

	c.cfg = cfg
	return nil
}

func (c *cli) startMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	c.metricsServer = &http.Server{
		Addr:              c.metricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := c.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			debuglog.Errorf("metrics server: %v", err)
		}
	}()
	debuglog.Infof("serving metrics on %s", c.metricsAddr)
}

func (c *cli) shutdown() error {
	var errs []error
	if c.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		errs = append(errs, c.metricsServer.Shutdown(ctx))
		cancel()
		c.metricsServer = nil
	}
	errs = append(errs, debuglog.Close())
	return errors.Join(errs...)
}

// openShelf opens the shelf database and, when configured, its search index.
func (c *cli) openShelf() (*shelf.Store, error) {
	dbPath, err := validation.PrepareFile(c.cfg.Shelf.Path)
	if err != nil {
		return nil, fmt.Errorf("shelf path: %w", err)
	}

	var idx *shelf.Index
	if c.cfg.Shelf.SearchIndex != "" {
		idxPath, err := validation.PrepareDir(c.cfg.Shelf.SearchIndex)
		if err != nil {
			return nil, fmt.Errorf("shelf index path: %w", err)
		}
		idx, err = shelf.OpenIndex(idxPath)
		if err != nil {
			return nil, fmt.Errorf("opening shelf index: %w", err)
		}
	}

	store, err := shelf.OpenWithTimeout(dbPath, idx, c.cfg.Shelf.Timeout)
	if err != nil {
		if idx != nil {
			_ = idx.Close()
		}
		return nil, err
	}
	return store, nil
}

// newSession wires the catalog client, presets and shelf into a discovery
// session. store may be nil.
func (c *cli) newSession(store *shelf.Store) (*discovery.Session, error) {
	client, err := catalog.NewClient(c.cfg.CatalogOptions())
	if err != nil {
		return nil, fmt.Errorf("catalog client: %w", err)
	}
	presets, err := c.cfg.PresetRegistry()
	if err != nil {
		return nil, fmt.Errorf("presets: %w", err)
	}

	var owned discovery.Ownership
	if store != nil {
		owned = store
	}
	fetcher := discovery.NewFetcher(client, c.cfg.Catalog.MaxPerCall)
	return discovery.NewSession(c.cfg.SessionConfig(), fetcher, owned, presets), nil
}

func (c *cli) runTUI(cmd *cobra.Command, _ []string) error {
	if err := c.setup(); err != nil {
		return err
	}
	if !c.quiet {
		tui.ShowBanner(cmd.OutOrStdout(), Version)
	}

	store, err := c.openShelf()
	if err != nil {
		return err
	}
	defer store.Close()

	session, err := c.newSession(store)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app := tui.NewApp(ctx, c.cfg, session, store, media.NewLauncher(c.cfg))
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running explorer: %w", err)
	}
	return nil
}

func (c *cli) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	gen := &cobra.Command{
		Use:   "generate",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := c.configPath
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.GenerateDefaultConfig(path); err != nil {
				return fmt.Errorf("failed to generate config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated default configuration at: %s\n", path)
			return nil
		},
	}
	gen.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	cmd.AddCommand(gen)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "folio %s\n", Version)
			fmt.Fprintln(out, "Book discovery for the terminal")
			fmt.Fprintln(out, "github.com/pders01/folio")
		},
	}
}
