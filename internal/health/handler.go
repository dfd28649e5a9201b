package health

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Pinger checks a single dependency's health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RedisPinger adapts redis.Client to Pinger.
type RedisPinger struct {
	client *redis.Client
}

// NewRedisPinger creates a new Redis health checker.
func NewRedisPinger(client *redis.Client) *RedisPinger {
	return &RedisPinger{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisPinger) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// PostgresPinger adapts pgxpool.Pool to Pinger.
type PostgresPinger struct {
	pool *pgxpool.Pool
}

// NewPostgresPinger creates a new Postgres health checker.
func NewPostgresPinger(pool *pgxpool.Pool) *PostgresPinger {
	return &PostgresPinger{pool: pool}
}

// Ping checks Postgres connectivity.
func (p *PostgresPinger) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

type check struct {
	name   string
	pinger Pinger
}

// Handler handles health check operations.
type Handler struct {
	checks []check
}

// NewHandler creates a new health handler.
func NewHandler() *Handler {
	return &Handler{}
}

// AddCheck registers a named dependency check.
func (h *Handler) AddCheck(name string, pinger Pinger) {
	h.checks = append(h.checks, check{name: name, pinger: pinger})
}

// Response is the response for the health check endpoint.
type Response struct {
	Body struct {
		Status       string            `json:"status"`
		Dependencies map[string]string `json:"dependencies,omitempty"`
	}
}

// Check performs a health check of the application and its dependencies.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Status = "ok"

	if len(h.checks) == 0 {
		return resp, nil
	}

	resp.Body.Dependencies = make(map[string]string, len(h.checks))

	for _, c := range h.checks {
		if err := c.pinger.Ping(ctx); err != nil {
			resp.Body.Dependencies[c.name] = "unhealthy"
			resp.Body.Status = "degraded"
		} else {
			resp.Body.Dependencies[c.name] = "healthy"
		}
	}

	return resp, nil
}
