// Package server assembles the sessionkeeper server: it opens the configured
// account store, builds the credential service and runs the HTTP and gRPC
// transports until the context is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/sessionkeeper/internal/cryptox"
	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/config"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/services"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/tokens"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/sessionkeeper/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	service *services.CredentialService
	closers []func() error
}

func NewApp(ctx context.Context, c *config.Config, l logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	app := &App{config: c, logger: l.With("module", "app")}

	repo, err := app.openAccounts(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	codec, err := tokens.NewCodec([]byte(c.SecretKey))
	if err != nil {
		app.Close()
		return nil, err
	}

	hasher, err := cryptox.NewArgon2Hasher(c.Argon2)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.service = services.NewCredentialService(repo, codec, hasher, c.IdentityTokenTTL, services.WithLogger(l))
	return app, nil
}

// openAccounts connects the account store named by StorageBackend.
func (app *App) openAccounts(ctx context.Context) (accounts.Repository, error) {
	c := app.config

	switch c.StorageBackend {
	case config.BackendMemory:
		app.logger.Warn(ctx, "using in-memory account store; accounts are lost on restart")
		return accounts.NewMemoryRepository(), nil

	case config.BackendPostgres:
		db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.closers = append(app.closers, db.Close)

		m := repomanager.NewPostgresRepositoryManager()
		if err := m.RunMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("db migrations: %w", err)
		}
		return m.Accounts(db), nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
		app.closers = append(app.closers, client.Close)

		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		return accounts.NewRedisRepository(client, c.RedisPrefix), nil

	case config.BackendS3:
		client, err := accounts.NewS3Client(ctx, accounts.S3Options{
			Region:       c.S3Region,
			Endpoint:     c.S3BaseEndpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			UsePathStyle: c.S3UsePathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
		return accounts.NewS3Repository(client, c.S3Bucket, c.S3Prefix), nil
	}

	return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
}

// Run serves HTTP and gRPC until ctx is cancelled or either transport fails,
// then stops both and releases the store.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "backend", app.config.StorageBackend)

	httpServer := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger, app.service)
	grpcServer := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.service)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	run := func(name string, serve func(context.Context) error) {
		defer wg.Done()
		if err := serve(ctx); err != nil {
			app.logger.Error(ctx, name+" server failed", "error", err)
			mu.Lock()
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			mu.Unlock()
			cancelFunc()
		}
	}

	wg.Add(2)
	go run("http", httpServer.Run)
	go run("grpc", grpcServer.Run)
	wg.Wait()

	app.logger.Info(ctx, "App stopped")
	return errors.Join(append(errs, app.Close())...)
}

// Close releases store connections. It is safe to call more than once.
func (app *App) Close() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		errs = append(errs, app.closers[i]())
	}
	app.closers = nil
	return errors.Join(errs...)
}
