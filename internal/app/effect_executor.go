package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/tabbyspaces/internal/core/effects"
	"github.com/example/tabbyspaces/internal/core/launch"
	"github.com/example/tabbyspaces/internal/logging"
	"github.com/example/tabbyspaces/internal/ports/secondary"
)

// PaneMap maps workspace pane ids to live tmux pane ids. The executor
// fills it in as panes are created.
type PaneMap map[string]string

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place tmux is driven.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect, panes PaneMap) error
}

// DefaultEffectExecutor implements EffectExecutor over a TMuxAdapter.
type DefaultEffectExecutor struct {
	tmux   secondary.TMuxAdapter
	logger *slog.Logger
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(tmux secondary.TMuxAdapter, logger *slog.Logger) *DefaultEffectExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultEffectExecutor{tmux: tmux, logger: logger}
}

// Execute processes a slice of effects, executing each in sequence.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect, panes PaneMap) error {
	for _, eff := range effs {
		if err := e.executeOne(ctx, eff, panes); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect, panes PaneMap) error {
	switch typed := eff.(type) {
	case effects.TMuxEffect:
		return e.executeTMux(ctx, typed, panes)
	case effects.CompositeEffect:
		return e.Execute(ctx, typed.Effects, panes)
	case effects.LogEffect:
		attrs := make([]any, 0, 2*len(typed.Fields))
		for k, v := range typed.Fields {
			attrs = append(attrs, k, v)
		}
		e.logger.Log(ctx, logging.ParseLevel(typed.Level), typed.Message, attrs...)
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executeTMux(ctx context.Context, eff effects.TMuxEffect, panes PaneMap) error {
	switch eff.Operation {
	case effects.TMuxKillSession:
		if !e.tmux.SessionExists(ctx, eff.SessionName) {
			return nil
		}
		return e.tmux.KillSession(ctx, eff.SessionName)

	case effects.TMuxNewSession:
		paneID, err := e.tmux.NewSession(ctx, secondary.NewSessionOptions{
			Name:           eff.SessionName,
			WindowName:     eff.WindowName,
			StartDirectory: eff.StartDirectory,
			Command:        eff.Command,
		})
		if err != nil {
			return err
		}
		panes[eff.PaneKey] = paneID
		return nil

	case effects.TMuxSplitPane:
		target, err := e.resolve(ctx, eff.SessionName, eff.TargetKey, panes)
		if err != nil {
			return err
		}
		paneID, err := e.tmux.SplitPane(ctx, secondary.SplitOptions{
			Target:         target,
			Horizontal:     eff.Horizontal,
			Percent:        eff.Percent,
			StartDirectory: eff.StartDirectory,
			Command:        eff.Command,
		})
		if err != nil {
			return err
		}
		panes[eff.PaneKey] = paneID
		return nil

	case effects.TMuxSetPaneOption:
		paneID, err := e.resolve(ctx, eff.SessionName, eff.PaneKey, panes)
		if err != nil {
			return err
		}
		return e.tmux.SetPaneOption(ctx, paneID, eff.Option, eff.Value)

	case effects.TMuxSetPaneTitle:
		paneID, err := e.resolve(ctx, eff.SessionName, eff.PaneKey, panes)
		if err != nil {
			return err
		}
		return e.tmux.SetPaneTitle(ctx, paneID, eff.Value)

	case effects.TMuxSendKeys:
		paneID, err := e.resolve(ctx, eff.SessionName, eff.PaneKey, panes)
		if err != nil {
			return err
		}
		return e.tmux.SendKeys(ctx, paneID, eff.Value)

	default:
		return fmt.Errorf("unknown tmux operation: %s", eff.Operation)
	}
}

// resolve maps a pane key to a tmux pane id, falling back to the pane
// marker option for panes created outside this execution.
func (e *DefaultEffectExecutor) resolve(ctx context.Context, session, key string, panes PaneMap) (string, error) {
	if id, ok := panes[key]; ok {
		return id, nil
	}
	id, err := e.tmux.FindPaneByOption(ctx, session, launch.PaneOption, key)
	if err != nil {
		return "", fmt.Errorf("pane %s not found in session %s: %w", key, session, err)
	}
	panes[key] = id
	return id, nil
}

var _ EffectExecutor = (*DefaultEffectExecutor)(nil)
