package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/msaflow/internal/server"
	"github.com/matzehuels/msaflow/pkg/cache"
	"github.com/matzehuels/msaflow/pkg/pipeline"
	"github.com/matzehuels/msaflow/pkg/store"
)

type serveOpts struct {
	addr          string
	mongoURI      string
	mongoDatabase string
	redisAddr     string
	redisPassword string
	redisDB       int
	noCache       bool
	config        string
}

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: server.DefaultAddr}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve assignments over HTTP",
		Long: `Serve assignments over HTTP.

Runs are kept in memory unless --mongo-uri is given. Assignment results are
cached in Redis when --redis-addr is given, otherwise in the local file cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.config)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			overrideString(flags, "addr", &opts.addr, cfg.Serve.Addr)
			overrideString(flags, "mongo-uri", &opts.mongoURI, cfg.Serve.MongoURI)
			overrideString(flags, "mongo-db", &opts.mongoDatabase, cfg.Serve.MongoDatabase)
			overrideString(flags, "redis-addr", &opts.redisAddr, cfg.Serve.RedisAddr)
			overrideString(flags, "redis-password", &opts.redisPassword, cfg.Serve.RedisPassword)
			overrideInt(flags, "redis-db", &opts.redisDB, cfg.Serve.RedisDB)
			overrideBool(flags, "no-cache", &opts.noCache, cfg.Serve.NoCache)
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB URI for persisted runs")
	cmd.Flags().StringVar(&opts.mongoDatabase, "mongo-db", store.DefaultDatabase, "MongoDB database")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "", "Redis address for the result cache")
	cmd.Flags().StringVar(&opts.redisPassword, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.config, "config", "", "config file (default ./"+defaultConfigFile+")")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	resultCache, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(resultCache, nil, c.Logger)
	defer runner.Close()

	var runs store.RunStore = store.NewMemoryStore()
	if opts.mongoURI != "" {
		ms, err := store.NewMongoStore(ctx, opts.mongoURI, opts.mongoDatabase)
		if err != nil {
			return err
		}
		runs = ms
		c.Logger.Info("storing runs in mongo", "database", opts.mongoDatabase)
	}
	defer runs.Close(context.Background())

	srv := server.New(runner, runs, &server.Config{Addr: opts.addr, Logger: c.Logger})
	return srv.ListenAndServe(ctx)
}

// serveCache picks the result cache backend for the server.
func (c *CLI) serveCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redisAddr == "" {
		return newCache(false)
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
		Addr:     opts.redisAddr,
		Password: opts.redisPassword,
		DB:       opts.redisDB,
	})
	if err != nil {
		return nil, err
	}
	c.Logger.Info("caching results in redis", "addr", opts.redisAddr)
	return rc, nil
}
