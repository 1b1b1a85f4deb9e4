// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// GenerateRequestID returns a new unique request identifier.
func GenerateRequestID() string {
	return uuid.NewString()
}

// ContextWithRequestID stores a request ID in the context and binds a child
// logger carrying it, so downstream log events correlate with the request.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, id)
	logger := Logger().With().Str("request_id", id).Logger()
	return logger.WithContext(ctx)
}

// RequestIDFromContext returns the request ID stored in the context, or ""
// when none is set.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx returns the logger bound to the context, falling back to the global
// logger when the context carries none.
func Ctx(ctx context.Context) *zerolog.Logger {
	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		global := Logger()
		return &global
	}
	return logger
}

// WithComponent returns a child of the global logger tagged with the
// component name.
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
