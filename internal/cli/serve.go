package cli

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scatter/internal/server"
	"github.com/matzehuels/scatter/pkg/cache"
	"github.com/matzehuels/scatter/pkg/pipeline"
	"github.com/matzehuels/scatter/pkg/store"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr     string
	redisURL string
	mongoURI string
	mongoDB  string
	storeDir string
	catalog  string
	prefix   string
}

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the placement API over HTTP",
		Long: `Serve starts the HTTP API. Scenes are cached in Redis when --redis is
given and on disk otherwise; generated scenes are stored in MongoDB when
--mongo is given and as JSON files otherwise.`,
		Example: `  scatter serve --addr :9000
  scatter serve --redis redis://localhost:6379/0 --mongo mongodb://localhost:27017`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "Redis URL for the scene cache (default: file cache)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", "", "MongoDB URI for stored scenes (default: file store)")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", store.DefaultDatabase, "MongoDB database name")
	cmd.Flags().StringVar(&opts.storeDir, "store-dir", "", "directory for stored scenes (default: <cache dir>/scenes)")
	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "blueprint catalog file (default: built-in catalog)")
	cmd.Flags().StringVar(&opts.prefix, "key-prefix", "", "prefix for cache keys shared with other deployments")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	catalog, err := loadCatalog(opts.catalog)
	if err != nil {
		return err
	}

	sceneCache, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if opts.prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, opts.prefix)
	}
	runner := pipeline.NewRunner(sceneCache, keyer, logger)
	defer runner.Close()

	st, err := c.serveStore(ctx, opts)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	srv, err := server.New(runner, st, catalog, logger)
	if err != nil {
		return err
	}
	printInfo("Listening on %s", StyleValue.Render(opts.addr))
	return srv.ListenAndServe(ctx, opts.addr)
}

func (c *CLI) serveCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	logger := loggerFromContext(ctx)
	if opts.redisURL != "" {
		var rc *cache.RedisCache
		err := cache.RetryWithBackoff(ctx, func() (err error) {
			rc, err = cache.NewRedisCache(ctx, opts.redisURL)
			return err
		})
		if err != nil {
			return nil, err
		}
		logger.Info("using redis cache")
		return rc, nil
	}
	return newCache(false)
}

func (c *CLI) serveStore(ctx context.Context, opts serveOpts) (store.Store, error) {
	logger := loggerFromContext(ctx)
	if opts.mongoURI != "" {
		ms, err := store.NewMongoStore(ctx, opts.mongoURI, opts.mongoDB)
		if err != nil {
			return nil, err
		}
		logger.Info("using mongo store", "database", opts.mongoDB)
		return ms, nil
	}

	dir := opts.storeDir
	if dir == "" {
		base, err := cacheDir()
		if err != nil {
			base = "."
		}
		dir = filepath.Join(base, "scenes")
	}
	logger.Info("using file store", "dir", dir)
	return store.NewFileStore(dir)
}
