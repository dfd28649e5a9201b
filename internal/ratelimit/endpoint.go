package ratelimit

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// MetadataKey is the huma operation metadata key for per-endpoint
// rate limit configuration.
const MetadataKey = "ratelimit"

// LimitConfig is a single window/max pair.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// EndpointConfig configures rate limiting for a single endpoint.
type EndpointConfig struct {
	// Disabled turns off rate limiting for the endpoint.
	Disabled bool
	// Limits are checked in order; all must pass.
	Limits []LimitConfig
}

// GetEndpointConfig extracts the endpoint rate limit configuration from the
// current operation's metadata, if any.
func GetEndpointConfig(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}
