package main

import (
	"context"
	"os"

	"github.com/dalemusser/schoolfinder/internal/app/bootstrap"
	"github.com/dalemusser/schoolfinder/internal/app/system/cache"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type rootOptions struct {
	mongoURI      string
	mongoDatabase string
	redisAddr     string
	verbose       bool
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "schoolfinder-admin",
		Short:         "Administrative tasks for the schools finder",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.mongoURI, "mongo-uri",
		envOr(bootstrap.EnvPrefix+"_MONGO_URI", "mongodb://localhost:27017"), "MongoDB connection URI")
	pf.StringVar(&opts.mongoDatabase, "mongo-database",
		envOr(bootstrap.EnvPrefix+"_MONGO_DATABASE", "schoolfinder"), "MongoDB database name")
	pf.StringVar(&opts.redisAddr, "redis-addr",
		envOr(bootstrap.EnvPrefix+"_REDIS_ADDR", ""), "Redis address whose region cache is invalidated after imports")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Log at debug level")

	cmd.AddCommand(
		newImportRegionsCmd(&opts),
		newImportSchoolsCmd(&opts),
		newHashTokenCmd(),
	)
	return cmd
}

func (o *rootOptions) logger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if o.verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// session holds the connections one command run needs.
type session struct {
	client *mongo.Client
	db     *mongo.Database
	cache  *cache.Cache
	log    *zap.Logger
}

func (o *rootOptions) open(ctx context.Context) (*session, error) {
	logger := o.logger()
	client, err := bootstrap.ConnectMongo(ctx, o.mongoURI, 0, 0)
	if err != nil {
		return nil, err
	}
	logger.Debug("connected to MongoDB", zap.String("database", o.mongoDatabase))
	return &session{
		client: client,
		db:     client.Database(o.mongoDatabase),
		cache:  cache.New(cache.Options{Addr: o.redisAddr}),
		log:    logger,
	}, nil
}

func (s *session) close() {
	if err := s.cache.Close(); err != nil {
		s.log.Warn("redis close failed", zap.Error(err))
	}
	if err := s.client.Disconnect(context.Background()); err != nil {
		s.log.Warn("mongo disconnect failed", zap.Error(err))
	}
	_ = s.log.Sync()
}
