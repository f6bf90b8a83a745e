// Package cli wires the command-line interface: flag parsing, command
// dispatch, rendering, and the mapping of pipeline errors to process exit
// codes.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"akcli/internal/config"
	"akcli/pkg/cache"
	"akcli/pkg/client"
	"akcli/pkg/diag"
	"akcli/pkg/logging"

	"github.com/spf13/cobra"
)

const version = "v0.1.0"

// App holds the CLI state shared between the root command and its
// subcommands.
type App struct {
	stdout io.Writer
	stderr io.Writer

	// root flag values, seeded from the config file
	edgercPath     string
	edgercSection  string
	cacheDir       string
	cacheTTL       float64
	useCache       bool
	proxy          string
	requestTimeout int
	validateCerts  bool
	logLevel       string
	initConfig     bool

	service *diag.Service

	// test seams: when set they replace the EdgeGrid wiring
	signer  client.Signer
	baseURL string
}

// NewApp creates the CLI with defaults from the configuration file.
func NewApp(stdout, stderr io.Writer) *App {
	return &App{stdout: stdout, stderr: stderr}
}

// Root builds the root command and its subcommands.
func (a *App) Root() *cobra.Command {
	cfg := config.Load()

	root := &cobra.Command{
		Use:           "akcli",
		Short:         "Command-line client for the edge diagnostics API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup(logging.Config{Level: a.logLevel, Pretty: true, Output: a.stderr})
			if a.requestTimeout < config.MinRequestTimeout || a.requestTimeout > config.MaxRequestTimeout {
				return fmt.Errorf("request timeout must be between %d and %d seconds",
					config.MinRequestTimeout, config.MaxRequestTimeout)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.initConfig {
				path, err := config.Init()
				if err != nil {
					return fmt.Errorf("unable to generate the configuration file: %w", err)
				}
				printInfo(a.stdout, fmt.Sprintf("Successfully generated config file at %s", path))
				return nil
			}
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.edgercPath, "edgerc", cfg.Main.EdgercPath, "Path to EdgeGrid authentication file")
	flags.StringVar(&a.edgercSection, "section", cfg.Main.EdgercSection, "Section in EdgeGrid file to use")
	flags.StringVar(&a.cacheDir, "cache-dir", cfg.Main.CacheDir, "Use a custom cache directory")
	flags.Float64Var(&a.cacheTTL, "cache-ttl", cfg.Main.CacheTTL, "Set a custom cache TTL in seconds")
	flags.BoolVar(&a.useCache, "use-cache", cfg.Main.UseCache, "Serve repeated requests from the cache")
	flags.StringVar(&a.proxy, "proxy", cfg.Main.Proxy, "Use a proxy server for requests")
	flags.IntVar(&a.requestTimeout, "request-timeout", cfg.Main.RequestTimeout, "Set a custom timeout for requests in seconds")
	flags.BoolVar(&a.validateCerts, "validate-certs", cfg.Main.ValidateCerts, "Enable TLS certificate validation")
	flags.StringVar(&a.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")

	root.Flags().BoolVar(&a.initConfig, "init-config-file", false, "Generate configuration file with default values and exit")

	root.AddCommand(a.digCommand(cfg.Dig))
	root.AddCommand(a.translateCommand(cfg.Translate))

	return root
}

// buildService wires signer, cache store, client and diagnostics service
// on first use. Subcommands call it from their RunE so that help and
// usage paths never touch credentials.
func (a *App) buildService() (*diag.Service, error) {
	if a.service != nil {
		return a.service, nil
	}

	signer := a.signer
	baseURL := a.baseURL
	if signer == nil {
		edgeGrid, err := client.NewEdgeGridSigner(a.edgercPath, a.edgercSection)
		if err != nil {
			return nil, err
		}
		signer = edgeGrid
		if baseURL == "" {
			baseURL = "https://" + edgeGrid.Host()
		}
	}

	store, err := cache.NewStore(a.cacheDir, time.Duration(a.cacheTTL*float64(time.Second)))
	if err != nil {
		return nil, err
	}

	c, err := client.New(client.Config{
		BaseURL:       baseURL,
		Signer:        signer,
		Cache:         store,
		UseCache:      a.useCache,
		Timeout:       time.Duration(a.requestTimeout) * time.Second,
		Proxy:         a.proxy,
		ValidateCerts: a.validateCerts,
		UserAgent:     "akcli/" + version,
	})
	if err != nil {
		return nil, err
	}

	a.service = diag.NewService(c)
	return a.service, nil
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	app := NewApp(os.Stdout, os.Stderr)
	root := app.Root()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		if ctx.Err() != nil {
			printError(os.Stderr, "Operation cancelled by user.")
			return client.ExitInterrupt
		}
		printError(os.Stderr, err.Error())
		return client.ExitCode(err)
	}
	return client.ExitOK
}
