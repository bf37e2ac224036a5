// Package ctxutil carries the acting client through a context.
// It has no internal dependencies so any layer can import it.
package ctxutil

import (
	"context"
	"os"
)

type actorKey struct{}

// Actor prefixes recorded in the workspace history.
const (
	ActorCLI     = "cli"
	ActorMCP     = "mcp"
	ActorPicker  = "pick"
	ActorStartup = "startup"
)

// WithActorID returns a context with the actor ID embedded.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey{}, actorID)
}

// ActorFromContext returns the actor ID from context, or empty string if not set.
func ActorFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(actorKey{}).(string); ok {
		return v
	}
	return ""
}

// ActorFor builds an actor id of the form "<surface>:<user>".
func ActorFor(surface string) string {
	user := os.Getenv("USER")
	if user == "" {
		user = os.Getenv("USERNAME")
	}
	if user == "" {
		return surface
	}
	return surface + ":" + user
}
