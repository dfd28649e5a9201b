package container

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/hmendes/linkly/internal/analytics"
	"github.com/hmendes/linkly/internal/auth"
	"github.com/hmendes/linkly/internal/handlers"
	"github.com/hmendes/linkly/internal/health"
	"github.com/hmendes/linkly/internal/messaging"
	"github.com/hmendes/linkly/internal/middleware"
	"github.com/hmendes/linkly/internal/ratelimit"
	"github.com/hmendes/linkly/internal/shortener"
	"github.com/hmendes/linkly/internal/store"
)

// Default limit for endpoints without their own rate limit metadata.
const (
	defaultLimitMax    = 60
	defaultLimitWindow = time.Minute
)

// RateLimitPackage registers the rate limit window store and the default
// sliding-window limiter built on it.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (ratelimit.Store, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.RedisAddr != "" {
			client := do.MustInvoke[*redis.Client](i)

			return store.NewRateLimitRedisStore(client), nil
		}

		return store.NewRateLimitMemoryStore(), nil
	})

	do.Provide(injector, func(i *do.Injector) (ratelimit.Limiter, error) {
		windowStore := do.MustInvoke[ratelimit.Store](i)

		return ratelimit.NewSlidingWindowLimiter(windowStore, defaultLimitMax, defaultLimitWindow), nil
	})
}

// AuthPackage registers the OAuth login handler.
func AuthPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*auth.Handler, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return auth.NewHandler(auth.Config{
			ClientID:      opts.GoogleClientID,
			ClientSecret:  opts.GoogleClientSecret,
			RedirectURL:   opts.GoogleRedirectURL,
			SessionSecret: []byte(opts.SessionSecret),
			HomeURL:       opts.ResolvedBaseURL() + "/",
			SecureCookies: opts.SecureCookies,
		}, logger), nil
	})
}

// HealthPackage registers the health handler with checks for every
// configured dependency.
func HealthPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*health.Handler, error) {
		opts := do.MustInvoke[*Options](i)

		handler := health.NewHandler()

		if opts.RedisAddr != "" {
			handler.AddCheck("redis", health.NewRedisPinger(do.MustInvoke[*redis.Client](i)))
		}

		if opts.DatabaseURL != "" {
			handler.AddCheck("postgres", health.NewPostgresPinger(do.MustInvoke[*pgxpool.Pool](i)))
		}

		return handler, nil
	})
}

// HTTPPackage registers the router and the API, wiring middlewares,
// operation routes, and the session endpoints.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		api := humachi.New(router, huma.DefaultConfig("Linkly", "1.0.0"))

		api.UseMiddleware(middleware.RequestMeta(api))
		api.UseMiddleware(auth.Middleware(api, []byte(opts.SessionSecret)))
		api.UseMiddleware(middleware.RateLimiter(
			api,
			do.MustInvoke[ratelimit.Limiter](i),
			do.MustInvoke[ratelimit.Store](i),
			logger,
		))

		linkHandler := handlers.NewLinkHandler(
			do.MustInvoke[*shortener.Service](i),
			do.MustInvoke[shortener.Repository](i),
			opts.ResolvedBaseURL(),
			do.MustInvoke[messaging.Publish[analytics.LinkCreatedEvent]](i),
			do.MustInvoke[messaging.Publish[analytics.LinkVisitedEvent]](i),
			do.MustInvoke[messaging.Publish[analytics.LinkDeletedEvent]](i),
			logger,
		)

		handlers.RegisterRoutes(api, linkHandler, do.MustInvoke[*health.Handler](i))

		authHandler := do.MustInvoke[*auth.Handler](i)
		router.Get("/auth/login", authHandler.Login)
		router.Get("/auth/callback", authHandler.Callback)
		router.Get("/auth/logout", authHandler.Logout)

		router.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"service":"linkly","docs":"/docs"}`))
		})

		return api, nil
	})
}
