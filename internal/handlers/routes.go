package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hmendes/linkly/internal/health"
	"github.com/hmendes/linkly/internal/ratelimit"
)

// RegisterRoutes registers all routes with per-endpoint rate limit configuration.
func RegisterRoutes(api huma.API, linkHandler *LinkHandler, healthHandler *health.Handler) {
	// POST /shorten - Create short link
	// Uses stricter rate limits for write operations
	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/shorten",
		Summary:     "Create short link",
		Description: "Shortens a URL for the authenticated caller.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 10},     // 10 per minute
					{Window: time.Hour, Max: 100},      // 100 per hour
					{Window: 24 * time.Hour, Max: 500}, // 500 per day
				},
			},
		},
	}, linkHandler.CreateLink)

	// GET /shorten - List the caller's links
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/shorten",
		Summary:     "List short links",
		Description: "Returns up to 50 of the caller's most recent links, newest first.",
		Tags:        []string{"Links"},
	}, linkHandler.ListLinks)

	// DELETE /shorten - Delete a link owned by the caller
	huma.Register(api, huma.Operation{
		Method:      http.MethodDelete,
		Path:        "/shorten",
		Summary:     "Delete short link",
		Description: "Deletes a link only if it exists and is owned by the caller.",
		Tags:        []string{"Links"},
	}, linkHandler.DeleteLink)

	// GET /health - Dependency health
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Ops"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, healthHandler.Check)

	// GET /{code} - Redirect to original URL
	// Uses relaxed rate limits for high-traffic read operations
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the original URL for the short code, or to the home page when unknown.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 1000}, // 1000 per minute
				},
			},
		},
	}, linkHandler.Redirect)
}
