// Package cli provides the cobra commands for TabbySpaces.
package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/example/tabbyspaces/internal/ctxutil"
	"github.com/example/tabbyspaces/internal/models"
)

// globalActorID stores the actor for the current CLI invocation.
// Set once at startup by DetectAndStoreActor().
var globalActorID string

// DetectAndStoreActor records which surface is acting, e.g. "cli:alice".
// Should be called once at CLI startup in PersistentPreRun.
func DetectAndStoreActor(surface string) {
	globalActorID = ctxutil.ActorFor(surface)
}

// GetActorID returns the stored actor ID from CLI startup.
func GetActorID() string {
	return globalActorID
}

// NewContext creates a context.Background() with the current actor ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() context.Context {
	ctx := context.Background()
	if globalActorID != "" {
		return ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}

// terminalSize returns the size of stdout, or 80x24 when it is not a TTY.
func terminalSize() (int, int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}

func parseOrientation(raw string) (models.Orientation, error) {
	o := models.Orientation(strings.ToLower(strings.TrimSpace(raw)))
	if !o.Valid() {
		return "", fmt.Errorf("invalid orientation %q (want horizontal or vertical)", raw)
	}
	return o, nil
}

func parseDirection(raw string) (models.Direction, error) {
	d := models.Direction(strings.ToLower(strings.TrimSpace(raw)))
	if !d.Valid() {
		return "", fmt.Errorf("invalid direction %q (want left, right, top or bottom)", raw)
	}
	return d, nil
}

// parseBackground reads "none" or "<type>:<value>", e.g. "color:#1e293b".
func parseBackground(raw string) (*models.Background, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == models.BackgroundNone {
		return &models.Background{Type: models.BackgroundNone}, nil
	}
	kind, value, ok := strings.Cut(raw, ":")
	if !ok || value == "" {
		return nil, fmt.Errorf("invalid background %q (want none or type:value)", raw)
	}
	switch kind {
	case models.BackgroundColor, models.BackgroundGradient, models.BackgroundImage:
		return &models.Background{Type: kind, Value: value}, nil
	}
	return nil, fmt.Errorf("invalid background type %q (want color, gradient or image)", kind)
}

func parsePosition(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid position %q (want a non-negative integer)", raw)
	}
	return n, nil
}
