package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/plotforge/barchart/internal/server"
	"github.com/plotforge/barchart/pkg/cache"
	"github.com/plotforge/barchart/pkg/pipeline"
	"github.com/plotforge/barchart/pkg/views"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string
	redisAddr string
	mongoURI  string
	mongoDB   string
	noCache   bool
}

// newServeCmd creates the serve command, which runs the HTTP chart service.
//
// Without --redis the service caches to the local file cache; without
// --mongo the views endpoints are disabled.
func newServeCmd() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP chart service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "redis address for the shared cache (host:port)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", "", "mongodb URI for the view store")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", appName, "mongodb database name")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the plan/artifact cache")

	return cmd
}

func runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	c, err := buildServeCache(ctx, opts)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(c, nil, logger)
	defer runner.Close()

	var store views.Store
	if opts.mongoURI != "" {
		ms, err := views.NewMongoStore(ctx, opts.mongoURI, opts.mongoDB)
		if err != nil {
			return err
		}
		store = ms
		defer store.Close(context.Background())
		logger.Info("view store connected", "db", opts.mongoDB)
	} else {
		logger.Warn("no --mongo given, views endpoints disabled")
	}

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           server.New(runner, store, logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", opts.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// buildServeCache prefers Redis when configured, otherwise the local file
// cache.
func buildServeCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redisAddr != "" {
		return cache.NewRedisCache(ctx, opts.redisAddr)
	}
	return newCache(false), nil
}
