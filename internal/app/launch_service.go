package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/tabbyspaces/internal/core/effects"
	"github.com/example/tabbyspaces/internal/core/launch"
	"github.com/example/tabbyspaces/internal/core/projection"
	"github.com/example/tabbyspaces/internal/models"
	"github.com/example/tabbyspaces/internal/ports/primary"
	"github.com/example/tabbyspaces/internal/ports/secondary"
)

// LaunchServiceImpl implements the LaunchService interface.
type LaunchServiceImpl struct {
	repo          secondary.WorkspaceRepository
	catalog       secondary.ProfileCatalog
	tmux          secondary.TMuxAdapter
	executor      EffectExecutor
	dispatcher    *StartupDispatcher
	sessionPrefix string
	logger        *slog.Logger
}

// NewLaunchService creates a new LaunchService with injected dependencies.
func NewLaunchService(
	repo secondary.WorkspaceRepository,
	catalog secondary.ProfileCatalog,
	tmux secondary.TMuxAdapter,
	executor EffectExecutor,
	dispatcher *StartupDispatcher,
	sessionPrefix string,
	logger *slog.Logger,
) *LaunchServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &LaunchServiceImpl{
		repo:          repo,
		catalog:       catalog,
		tmux:          tmux,
		executor:      executor,
		dispatcher:    dispatcher,
		sessionPrefix: sessionPrefix,
		logger:        logger,
	}
}

// LaunchWorkspace builds a tmux session for a workspace and delivers its
// startup commands once every pane exists.
func (s *LaunchServiceImpl) LaunchWorkspace(ctx context.Context, req primary.LaunchRequest) (*primary.LaunchResponse, error) {
	// 1. Resolve workspace
	list, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspaces: %w", err)
	}
	idx, err := resolveRef(list, req.WorkspaceRef)
	if err != nil {
		return nil, err
	}
	return s.launch(ctx, list[idx], req.SessionName, req.Replace)
}

// LaunchStartupWorkspaces launches every workspace flagged launch-on-startup.
// Workspaces whose session already runs are skipped; failures do not stop
// the remaining launches.
func (s *LaunchServiceImpl) LaunchStartupWorkspaces(ctx context.Context) ([]*primary.LaunchResponse, error) {
	list, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspaces: %w", err)
	}

	var launched []*primary.LaunchResponse
	var errs []error
	for _, ws := range list {
		if !ws.LaunchOnStartup {
			continue
		}
		name := launch.SessionName(s.sessionPrefix, ws.Name)
		if s.tmux.SessionExists(ctx, name) {
			s.logger.Info("startup workspace already running", "workspace", ws.Name, "session", name)
			continue
		}
		resp, err := s.launch(ctx, ws, name, false)
		if err != nil {
			errs = append(errs, fmt.Errorf("workspace %s: %w", ws.Name, err))
			continue
		}
		launched = append(launched, resp)
	}
	return launched, errors.Join(errs...)
}

func (s *LaunchServiceImpl) launch(ctx context.Context, ws *models.Workspace, sessionName string, replace bool) (*primary.LaunchResponse, error) {
	// 1. Session guard
	if sessionName == "" {
		sessionName = launch.SessionName(s.sessionPrefix, ws.Name)
	}
	exists := s.tmux.SessionExists(ctx, sessionName)
	if exists && !replace {
		return nil, fmt.Errorf("%w: %s", ErrSessionExists, sessionName)
	}

	// 2. Project the tree against a catalog snapshot
	profiles, err := s.catalog.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	token := projection.ProjectTree(ws.Root, projection.LookupFromProfiles(profiles))

	// 3. Generate plan
	plan, err := launch.GeneratePlan(launch.PlanInput{
		SessionName: sessionName,
		WindowName:  ws.Name,
		Root:        token,
	})
	if err != nil {
		return nil, err
	}

	// 4. Queue startup commands
	cmds := projection.CollectStartupCommands(ws)
	if err := s.dispatcher.Register(cmds); err != nil {
		return nil, fmt.Errorf("failed to queue startup commands: %w", err)
	}

	// 5. Execute effects
	var effs []effects.Effect
	if exists {
		effs = append(effs, effects.TMuxEffect{Operation: effects.TMuxKillSession, SessionName: sessionName})
	}
	effs = append(effs, plan.Effects()...)
	panes := PaneMap{}
	if err := s.executor.Execute(ctx, effs, panes); err != nil {
		s.drop(plan.PaneKeys)
		return nil, fmt.Errorf("failed to build session %s: %w", sessionName, err)
	}

	// 6. Deliver startup commands now that every pane exists
	delivered := 0
	var sends []effects.Effect
	for _, key := range plan.PaneKeys {
		cmd, ok := s.dispatcher.Take(key)
		if !ok {
			continue
		}
		sends = append(sends, effects.TMuxEffect{
			Operation:   effects.TMuxSendKeys,
			SessionName: sessionName,
			PaneKey:     key,
			Value:       cmd.Command,
		})
		delivered++
	}
	sends = append(sends, effects.LogEffect{
		Level:   "info",
		Message: "workspace launched",
		Fields: map[string]any{
			"workspace": ws.Name,
			"session":   sessionName,
			"panes":     len(plan.PaneKeys),
			"commands":  delivered,
		},
	})
	if err := s.executor.Execute(ctx, []effects.Effect{effects.CompositeEffect{Effects: sends}}, panes); err != nil {
		return nil, fmt.Errorf("failed to deliver startup commands: %w", err)
	}

	return &primary.LaunchResponse{
		WorkspaceID:        ws.ID,
		SessionName:        sessionName,
		Panes:              panes,
		StartupCommands:    delivered,
		AttachInstructions: s.tmux.AttachInstructions(sessionName),
	}, nil
}

func (s *LaunchServiceImpl) drop(keys []string) {
	for _, key := range keys {
		s.dispatcher.Take(key)
	}
}

var _ primary.LaunchService = (*LaunchServiceImpl)(nil)
