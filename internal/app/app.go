// Package app wires configuration, infrastructure and services into a
// runnable HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/consitech/event-manager/internal/api"
	"github.com/consitech/event-manager/internal/core/service"
	mongodb "github.com/consitech/event-manager/internal/infrastructure/db/mongo"
	redisdb "github.com/consitech/event-manager/internal/infrastructure/db/redis"
	"github.com/consitech/event-manager/internal/infrastructure/http/handlers"
	"github.com/consitech/event-manager/internal/infrastructure/security"
	"github.com/consitech/event-manager/internal/infrastructure/storage"
	"github.com/consitech/event-manager/internal/pkg/config"
)

const (
	appName         = "event-manager"
	shutdownTimeout = 10 * time.Second
)

// Store is the MongoDB side of the application: repositories, transactions
// and the user service that owns the bootstrap logic.
type Store struct {
	Client *mongo.Client
	DB     *mongo.Database
	Users  *mongodb.UserRepository
	Events *mongodb.EventRepository
	Tx     *mongodb.Transactor
}

// OpenStore connects to MongoDB and makes sure every index exists.
func OpenStore(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.URI,
		Database: cfg.Database,
		AppName:  appName,
	})
	if err != nil {
		return nil, err
	}
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &Store{
		Client: client,
		DB:     db,
		Users:  mongodb.NewUserRepository(db),
		Events: mongodb.NewEventRepository(db),
		Tx:     mongodb.NewTransactor(client),
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

// BootstrapSeed converts the configured seed into the service input.
func BootstrapSeed(cfg config.BootstrapConfig) service.BootstrapUser {
	return service.BootstrapUser{
		Username:  cfg.Username,
		Email:     cfg.Email,
		Password:  cfg.Password,
		FirstName: cfg.FirstName,
		LastName:  cfg.LastName,
	}
}

// App owns every long-lived resource of the server process.
type App struct {
	cfg    *config.Config
	log    zerolog.Logger
	store  *Store
	redis  *goredis.Client
	closer io.Closer

	Users  *service.UserService
	Events *service.EventService
	Auth   *service.AuthService

	// BootstrapPassword is set when startup created the first event manager
	// with a generated password.
	BootstrapPassword string

	server *http.Server
}

// New connects to every backing service and builds the HTTP server. Resources
// opened before a failure are released.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *App, err error) {
	a := &App{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			a.Close(context.Background())
		}
	}()

	a.store, err = OpenStore(ctx, cfg.Mongo)
	if err != nil {
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	a.redis, err = redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	objects, baseURL, err := a.openObjectStorage(ctx)
	if err != nil {
		return nil, err
	}
	if err := objects.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket %s: %w", objects.Bucket(), err)
	}
	log.Info().Str("backend", cfg.Storage.Backend).Str("bucket", objects.Bucket()).Msg("object storage ready")

	hasher := security.NewBcryptHasher(0)
	tokens := security.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL)
	avatars := storage.NewAvatarStore(objects, baseURL)

	a.Users = service.NewUserService(a.store.Users, a.store.Events, a.store.Tx, hasher, avatars, log)
	a.Events = service.NewEventService(a.store.Events, a.store.Users, a.store.Tx, log)
	a.Auth = service.NewAuthService(a.Users, hasher, tokens, log)

	if _, a.BootstrapPassword, err = a.Users.EnsureEventManager(ctx, BootstrapSeed(cfg.Bootstrap)); err != nil {
		return nil, err
	}

	proxies, err := cfg.TrustedProxyNets()
	if err != nil {
		return nil, err
	}

	router := api.NewRouter(api.Dependencies{
		Auth:    a.Auth,
		Users:   a.Users,
		Events:  a.Events,
		Tokens:  tokens,
		Limiter: redisdb.NewRateLimiter(a.redis, cfg.RateLimit.Max, cfg.RateLimit.Window),

		TrustedProxies: proxies,

		ReadinessChecks: map[string]handlers.Check{
			"mongodb": handlers.MongoCheck(a.store.DB),
			"redis":   handlers.RedisCheck(a.redis),
			"storage": objects.Ping,
		},
		Logger: log,
	})

	a.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return a, nil
}

func (a *App) openObjectStorage(ctx context.Context) (storage.ObjectStorage, string, error) {
	sc := a.cfg.Storage
	switch sc.Backend {
	case config.StorageMinio:
		client, err := storage.NewMinioClient(storage.MinioConfig{
			Endpoint:  sc.MinioEndpoint,
			AccessKey: sc.MinioAccessKey,
			SecretKey: sc.MinioSecretKey,
			Bucket:    sc.Bucket,
			UseSSL:    sc.MinioUseSSL,
		})
		if err != nil {
			return nil, "", fmt.Errorf("minio: %w", err)
		}
		return client, publicBaseURL(sc.PublicBaseURL, client.PublicBaseURL()), nil
	default:
		client, err := storage.NewGCSClient(ctx, storage.GCSConfig{
			Bucket:          sc.Bucket,
			ProjectID:       sc.GCSProjectID,
			CredentialsFile: sc.GCSCredentialsFile,
		})
		if err != nil {
			return nil, "", fmt.Errorf("gcs: %w", err)
		}
		a.closer = client
		return client, publicBaseURL(sc.PublicBaseURL, storage.GCSPublicBaseURL(sc.Bucket)), nil
	}
}

func publicBaseURL(configured, fallback string) string {
	if configured != "" {
		return configured
	}
	return fallback
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("server starting")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.log.Info().Msg("server exited properly")
	return nil
}

// Close releases every backing connection. It is safe on a partially built App.
func (a *App) Close(ctx context.Context) {
	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close object storage")
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close redis")
		}
	}
	if a.store != nil {
		if err := a.store.Close(ctx); err != nil {
			a.log.Warn().Err(err).Msg("disconnect mongodb")
		}
	}
}
