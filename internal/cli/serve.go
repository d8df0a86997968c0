package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/samithreddychinni/greedytangle/internal/server"
	"github.com/samithreddychinni/greedytangle/pkg/errors"
	"github.com/samithreddychinni/greedytangle/pkg/store"
)

// newServeCmd creates the serve command for running the HTTP API.
func newServeCmd() *cobra.Command {
	var (
		addr      string
		backend   string
		fileDir   string
		redisAddr string
		mongoURI  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes graph generation, solving, races, and stored replays over
HTTP. Replays persist in the chosen backend: memory (default), file,
redis, or mongo.`,
		Example: `  greedytangle serve --addr :8080
  greedytangle serve --store file --dir /var/lib/greedytangle
  greedytangle serve --store redis --redis localhost:6379
  greedytangle serve --store mongo --mongo mongodb://localhost:27017`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)

			st, err := openStore(ctx, backend, fileDir, redisAddr, mongoURI)
			if err != nil {
				return err
			}
			defer func() {
				if err := st.Close(context.Background()); err != nil {
					logger.Warn("closing store", "err", err)
				}
			}()

			logger.Info("starting api", "addr", addr, "store", backend)
			return server.New(cfg, st, logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&backend, "store", "memory", "replay store: memory, file, redis, mongo")
	cmd.Flags().StringVar(&fileDir, "dir", defaultReplayDir(), "directory for the file store")
	cmd.Flags().StringVar(&redisAddr, "redis", "localhost:6379", "redis address")
	cmd.Flags().StringVar(&mongoURI, "mongo", "mongodb://localhost:27017", "mongodb connection URI")

	return cmd
}

func openStore(ctx context.Context, backend, dir, redisAddr, mongoURI string) (store.Store, error) {
	switch backend {
	case "memory":
		return store.NewMemory(), nil
	case "file":
		return store.NewFile(dir)
	case "redis":
		return store.NewRedis(ctx, store.RedisConfig{Addr: redisAddr})
	case "mongo":
		return store.NewMongo(ctx, store.MongoConfig{URI: mongoURI})
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", backend)
	}
}
