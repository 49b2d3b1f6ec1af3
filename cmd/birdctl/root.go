package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/bird-observations-service/internal/adapter/source"
	"github.com/couchcryptid/bird-observations-service/internal/catalog"
	"github.com/couchcryptid/bird-observations-service/internal/config"
	"github.com/couchcryptid/bird-observations-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	source     string
	s3Endpoint string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "birdctl",
		Short: "Inspect and query Hong Kong bird observations",
		Long: `birdctl reads the bird observation CSV from a file, an http(s) URL, or
s3://bucket/key and works with it offline from the web service.

Settings not given as flags come from the same environment variables as the
service (CSV_SOURCE, AWS_S3_ENDPOINT, LLM_BASE_URL, LLM_MODEL, LLM_API_KEY, ...).`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.source, "source", "", "CSV location: file path, http(s) URL, or s3://bucket/key (default $CSV_SOURCE)")
	cmd.PersistentFlags().StringVar(&opts.s3Endpoint, "s3-endpoint", "", "custom S3 endpoint, e.g. MinIO (default $AWS_S3_ENDPOINT)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	cmd.AddCommand(
		newTableCmd(opts),
		newValidateCmd(opts),
		newExportCmd(opts),
		newAskCmd(opts),
	)
	return cmd
}

// config loads environment settings and applies flag overrides.
func (o *rootOptions) config() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.source != "" {
		cfg.CSVSource = o.source
	}
	if o.s3Endpoint != "" {
		cfg.S3Endpoint = o.s3Endpoint
	}
	return cfg, nil
}

// logger writes text logs to stderr so stdout stays machine-readable.
func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// openCatalog builds a catalog for cfg.CSVSource and attempts one load. The
// catalog is returned even when loading fails so callers can decide whether a
// missing CSV is fatal.
func openCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*catalog.Catalog, error) {
	fetcher, err := source.New(ctx, cfg.CSVSource, source.Options{
		Timeout:    cfg.CSVFetchTimeout,
		S3Endpoint: cfg.S3Endpoint,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	metrics := observability.NewMetricsWith(prometheus.NewRegistry())
	cat := catalog.New(fetcher, logger, metrics, nil)
	return cat, describeLoadError(cat.Load(ctx))
}

// loadSnapshot opens the catalog and fails unless it loaded.
func (o *rootOptions) loadSnapshot(cmd *cobra.Command) (*catalog.Snapshot, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	cat, err := openCatalog(cmd.Context(), cfg, o.logger(cmd))
	if err != nil {
		return nil, err
	}
	return cat.Snapshot(), nil
}

func describeLoadError(err error) error {
	var loadErr *catalog.LoadError
	if errors.As(err, &loadErr) {
		return fmt.Errorf("%s: %w", loadErr.Message(), loadErr.Err)
	}
	return err
}
