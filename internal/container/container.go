package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/hmendes/linkly/internal/shortener"
	"github.com/hmendes/linkly/internal/store"
)

// Options holds the process configuration. The persistence backend is a
// pure configuration decision made once at startup: a database connection
// string selects Postgres, its absence selects the in-memory store.
type Options struct {
	Port               int           `default:"8888"                help:"Port to listen on"                                                              short:"p"`
	BaseURL            string        `help:"Public base URL used to build short links (defaults to http://localhost:<port>)" name:"base-url"`
	CodeLength         int           `default:"8"                   help:"Length of generated short codes"                                                name:"code-length"`
	DatabaseURL        string        `help:"Postgres connection string; selects the durable backend when set"                name:"database-url"`
	RedisAddr          string        `help:"Redis server address; enables caching, rate limiting, and the stream transport"  name:"redis-addr"`
	ConsumerGroup      string        `default:"linkly-clicks"       help:"Redis stream consumer group"                                                    name:"consumer-group"`
	SessionSecret      string        `default:"insecure-dev-secret" help:"HMAC secret for session tokens"                                                 name:"session-secret"`
	GoogleClientID     string        `help:"Google OAuth client ID"                                                          name:"google-client-id"`
	GoogleClientSecret string        `help:"Google OAuth client secret"                                                      name:"google-client-secret"`
	GoogleRedirectURL  string        `help:"Google OAuth redirect URL"                                                       name:"google-redirect-url"`
	SecureCookies      bool          `help:"Set the Secure flag on session cookies"                                          name:"secure-cookies"`
	CacheTTL           time.Duration `default:"1h"                  help:"TTL for cached link entries"                                                    name:"cache-ttl"`
	LogFormat          string        `default:"console"             help:"Log format: console or json"                                                    name:"log-format"`
}

// ResolvedBaseURL returns the configured base URL, or a localhost default.
func (o *Options) ResolvedBaseURL() string {
	if o.BaseURL != "" {
		return o.BaseURL
	}

	return fmt.Sprintf("http://localhost:%d", o.Port)
}

// LoggerPackage registers the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage registers the Redis client. The provider fails when no
// Redis address is configured, so it must only be invoked behind a
// configuration check.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.RedisAddr == "" {
			return nil, fmt.Errorf("redis not configured")
		}

		return redis.NewClient(&redis.Options{Addr: opts.RedisAddr}), nil
	})
}

// PostgresPackage registers the pgx connection pool. Same contract as
// RedisPackage: only invoked when a database URL is configured.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.DatabaseURL == "" {
			return nil, fmt.Errorf("database not configured")
		}

		return pgxpool.New(context.Background(), opts.DatabaseURL)
	})
}

// RepositoryPackage registers the link repository, selecting the backend
// once from configuration and wrapping it with the Redis read cache when
// Redis is available.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.Repository, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		var repo shortener.Repository

		if opts.DatabaseURL != "" {
			pool := do.MustInvoke[*pgxpool.Pool](i)
			pg := store.NewPostgresStore(pool)

			if err := pg.Migrate(context.Background()); err != nil {
				return nil, fmt.Errorf("failed to migrate schema: %w", err)
			}

			repo = pg

			logger.Info("using postgres link store")
		} else {
			repo = store.NewMemoryStore()

			logger.Info("using in-memory link store")
		}

		if opts.RedisAddr != "" {
			client := do.MustInvoke[*redis.Client](i)
			repo = store.NewRedisCacheRepository(repo, client, opts.CacheTTL)

			logger.Info("redis link cache enabled", zap.Duration("ttl", opts.CacheTTL))
		}

		return repo, nil
	})
}

// ShortenerPackage registers the code generator and the shortening service.
func ShortenerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.CodeGenerator, error) {
		opts := do.MustInvoke[*Options](i)

		return shortener.NewCodeGenerator(opts.CodeLength)
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Service, error) {
		repo := do.MustInvoke[shortener.Repository](i)
		generator := do.MustInvoke[shortener.CodeGenerator](i)

		return shortener.NewService(repo, generator), nil
	})
}
