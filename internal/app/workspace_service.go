// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/example/tabbyspaces/internal/core/layout"
	coreworkspace "github.com/example/tabbyspaces/internal/core/workspace"
	"github.com/example/tabbyspaces/internal/models"
	"github.com/example/tabbyspaces/internal/ports/primary"
	"github.com/example/tabbyspaces/internal/ports/secondary"
)

const entityWorkspace = "workspace"

// WorkspaceSyncer pushes the saved workspace list out to the host config.
type WorkspaceSyncer interface {
	SyncWorkspaces(ctx context.Context, workspaces []*models.Workspace) error
}

// WorkspaceDefaults holds user-configurable editing defaults.
type WorkspaceDefaults struct {
	Orientation models.Orientation
	ResizeStep  float64
}

// WorkspaceServiceImpl implements the WorkspaceService interface.
type WorkspaceServiceImpl struct {
	repo      secondary.WorkspaceRepository
	catalog   secondary.ProfileCatalog
	codec     secondary.WorkspaceCodec
	logWriter secondary.LogWriter
	syncer    WorkspaceSyncer
	logger    *slog.Logger
	defaults  WorkspaceDefaults
	rng       *rand.Rand
}

// NewWorkspaceService creates a new WorkspaceService with injected dependencies.
// syncer and logWriter may be nil.
func NewWorkspaceService(
	repo secondary.WorkspaceRepository,
	catalog secondary.ProfileCatalog,
	codec secondary.WorkspaceCodec,
	logWriter secondary.LogWriter,
	syncer WorkspaceSyncer,
	logger *slog.Logger,
	defaults WorkspaceDefaults,
) *WorkspaceServiceImpl {
	if defaults.ResizeStep <= 0 {
		defaults.ResizeStep = layout.DefaultStep
	}
	if !defaults.Orientation.Valid() {
		defaults.Orientation = models.Horizontal
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkspaceServiceImpl{
		repo:      repo,
		catalog:   catalog,
		codec:     codec,
		logWriter: logWriter,
		syncer:    syncer,
		logger:    logger,
		defaults:  defaults,
	}
}

// ListWorkspaces returns all workspaces in display order.
func (s *WorkspaceServiceImpl) ListWorkspaces(ctx context.Context) ([]*models.Workspace, error) {
	list, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspaces: %w", err)
	}
	return list, nil
}

// GetWorkspace resolves a workspace by id, or by name when no id matches.
func (s *WorkspaceServiceImpl) GetWorkspace(ctx context.Context, ref string) (*models.Workspace, error) {
	list, err := s.ListWorkspaces(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := resolveRef(list, ref)
	if err != nil {
		return nil, err
	}
	return list[idx], nil
}

// CreateWorkspace creates a workspace with a two-pane root.
func (s *WorkspaceServiceImpl) CreateWorkspace(ctx context.Context, req primary.CreateWorkspaceRequest) (*primary.CreateWorkspaceResponse, error) {
	// 1. Load current list
	list, err := s.ListWorkspaces(ctx)
	if err != nil {
		return nil, err
	}

	// 2. Resolve the initial profile
	profileID, err := s.initialProfile(ctx, req.ProfileID)
	if err != nil {
		return nil, err
	}

	// 3. Build the record
	orientation := req.Orientation
	if orientation == "" {
		orientation = s.defaults.Orientation
	}
	if !orientation.Valid() {
		return nil, fmt.Errorf("invalid orientation %q", req.Orientation)
	}
	ws := coreworkspace.New(req.Name, orientation, s.rng)
	if req.Icon != "" {
		ws.Icon = req.Icon
	}
	if req.Color != "" {
		ws.Color = req.Color
	}
	layout.Walk(ws.Root, func(p *models.Pane) bool {
		p.ProfileID = profileID
		return true
	})
	if err := coreworkspace.Validate(ws); err != nil {
		return nil, err
	}

	// 4. Persist
	list = append(list, ws)
	if err := s.save(ctx, list); err != nil {
		return nil, err
	}
	s.logCreate(ctx, ws.ID)

	return &primary.CreateWorkspaceResponse{WorkspaceID: ws.ID, Workspace: ws}, nil
}

// UpdateWorkspace changes workspace metadata. Nil fields are left alone.
func (s *WorkspaceServiceImpl) UpdateWorkspace(ctx context.Context, req primary.UpdateWorkspaceRequest) (*models.Workspace, error) {
	list, idx, err := s.loadRef(ctx, req.Ref)
	if err != nil {
		return nil, err
	}
	ws := coreworkspace.Clone(list[idx])

	type change struct{ field, old, new string }
	var changes []change
	setString := func(field string, dst *string, v *string) {
		if v != nil && *v != *dst {
			changes = append(changes, change{field, *dst, *v})
			*dst = *v
		}
	}
	setString("name", &ws.Name, req.Name)
	setString("icon", &ws.Icon, req.Icon)
	setString("color", &ws.Color, req.Color)
	setString("hotkey", &ws.Hotkey, req.Hotkey)
	if req.LaunchOnStartup != nil && *req.LaunchOnStartup != ws.LaunchOnStartup {
		changes = append(changes, change{"launch_on_startup", fmt.Sprint(ws.LaunchOnStartup), fmt.Sprint(*req.LaunchOnStartup)})
		ws.LaunchOnStartup = *req.LaunchOnStartup
	}
	if req.Background != nil {
		old := backgroundString(ws.Background)
		bg := *req.Background
		if bg.Type == models.BackgroundNone {
			ws.Background = nil
		} else {
			ws.Background = &bg
		}
		if next := backgroundString(ws.Background); next != old {
			changes = append(changes, change{"background", old, next})
		}
	}

	if len(changes) == 0 {
		return list[idx], nil
	}
	if err := coreworkspace.Validate(ws); err != nil {
		return nil, err
	}

	list[idx] = ws
	if err := s.save(ctx, list); err != nil {
		return nil, err
	}
	for _, c := range changes {
		s.logUpdate(ctx, ws.ID, c.field, c.old, c.new)
	}
	return ws, nil
}

// DeleteWorkspace removes a workspace.
func (s *WorkspaceServiceImpl) DeleteWorkspace(ctx context.Context, ref string) error {
	list, idx, err := s.loadRef(ctx, ref)
	if err != nil {
		return err
	}
	id := list[idx].ID
	list = append(list[:idx], list[idx+1:]...)
	if err := s.save(ctx, list); err != nil {
		return err
	}
	if s.logWriter != nil {
		_ = s.logWriter.LogDelete(ctx, entityWorkspace, id)
	}
	return nil
}

// DuplicateWorkspace stores a deep copy with fresh ids right after the original.
func (s *WorkspaceServiceImpl) DuplicateWorkspace(ctx context.Context, ref string) (*models.Workspace, error) {
	list, idx, err := s.loadRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	dup := coreworkspace.Duplicate(list[idx])

	next := make([]*models.Workspace, 0, len(list)+1)
	next = append(next, list[:idx+1]...)
	next = append(next, dup)
	next = append(next, list[idx+1:]...)
	if err := s.save(ctx, next); err != nil {
		return nil, err
	}
	s.logCreate(ctx, dup.ID)
	return dup, nil
}

// MoveWorkspace moves a workspace to position, clamped to the list bounds.
func (s *WorkspaceServiceImpl) MoveWorkspace(ctx context.Context, ref string, position int) error {
	list, idx, err := s.loadRef(ctx, ref)
	if err != nil {
		return err
	}
	position = max(0, min(len(list)-1, position))
	if position == idx {
		return nil
	}
	ws := list[idx]
	list = append(list[:idx], list[idx+1:]...)
	list = append(list[:position], append([]*models.Workspace{ws}, list[position:]...)...)
	if err := s.save(ctx, list); err != nil {
		return err
	}
	s.logUpdate(ctx, ws.ID, "position", fmt.Sprint(idx), fmt.Sprint(position))
	return nil
}

// SaveWorkspace replaces the stored workspace with the same id.
func (s *WorkspaceServiceImpl) SaveWorkspace(ctx context.Context, ws *models.Workspace) error {
	if err := coreworkspace.Validate(ws); err != nil {
		return err
	}
	list, err := s.ListWorkspaces(ctx)
	if err != nil {
		return err
	}
	idx := indexByID(list, ws.ID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrWorkspaceNotFound, ws.ID)
	}
	list[idx] = coreworkspace.Clone(ws)
	if err := s.save(ctx, list); err != nil {
		return err
	}
	s.logUpdate(ctx, ws.ID, "layout", "", "saved")
	return nil
}

// EditLayout applies one tree mutation to a workspace and saves it.
func (s *WorkspaceServiceImpl) EditLayout(ctx context.Context, req primary.EditLayoutRequest) (*primary.EditLayoutResponse, error) {
	// 1. Resolve workspace
	list, idx, err := s.loadRef(ctx, req.WorkspaceRef)
	if err != nil {
		return nil, err
	}

	// 2. Mutate a copy
	ws := coreworkspace.Clone(list[idx])
	result, err := applyLayoutOp(ws, req, s.defaults.ResizeStep)
	if err != nil {
		return nil, err
	}
	if !result.Changed {
		return &primary.EditLayoutResponse{Workspace: list[idx]}, nil
	}
	if err := coreworkspace.Validate(ws); err != nil {
		return nil, err
	}

	// 3. Persist
	list[idx] = ws
	if err := s.save(ctx, list); err != nil {
		return nil, err
	}
	s.logUpdate(ctx, ws.ID, "layout", "", string(req.Op))

	return &primary.EditLayoutResponse{
		Workspace: ws,
		Changed:   true,
		NewPaneID: result.NewPaneID,
	}, nil
}

// UpdatePane edits a single pane's fields. Nil fields are left alone.
func (s *WorkspaceServiceImpl) UpdatePane(ctx context.Context, req primary.UpdatePaneRequest) (*models.Pane, error) {
	list, idx, err := s.loadRef(ctx, req.WorkspaceRef)
	if err != nil {
		return nil, err
	}
	ws := coreworkspace.Clone(list[idx])
	if err := checkPane(ws, req.PaneID); err != nil {
		return nil, err
	}
	pane := layout.FindPane(ws.Root, req.PaneID)

	if req.ProfileID != nil && *req.ProfileID != pane.ProfileID {
		if _, ok, err := s.catalog.Lookup(ctx, *req.ProfileID); err != nil {
			return nil, fmt.Errorf("failed to look up profile: %w", err)
		} else if !ok {
			return nil, fmt.Errorf("profile %s not found", *req.ProfileID)
		}
	}

	var changes [][3]string
	apply := func(field string, dst *string, v *string) {
		if v != nil && *v != *dst {
			changes = append(changes, [3]string{"pane." + pane.ID + "." + field, *dst, *v})
			*dst = *v
		}
	}
	apply("profile", &pane.ProfileID, req.ProfileID)
	apply("cwd", &pane.Cwd, req.Cwd)
	apply("startup_command", &pane.StartupCommand, req.StartupCommand)
	apply("title", &pane.Title, req.Title)
	if len(changes) == 0 {
		return pane, nil
	}

	list[idx] = ws
	if err := s.save(ctx, list); err != nil {
		return nil, err
	}
	for _, c := range changes {
		s.logUpdate(ctx, ws.ID, c[0], c[1], c[2])
	}
	return pane, nil
}

// ExportWorkspaces encodes the referenced workspaces, or all when refs is empty.
func (s *WorkspaceServiceImpl) ExportWorkspaces(ctx context.Context, req primary.ExportRequest) ([]byte, error) {
	list, err := s.ListWorkspaces(ctx)
	if err != nil {
		return nil, err
	}
	selected := list
	if len(req.Refs) > 0 {
		selected = make([]*models.Workspace, 0, len(req.Refs))
		for _, ref := range req.Refs {
			idx, err := resolveRef(list, ref)
			if err != nil {
				return nil, err
			}
			selected = append(selected, list[idx])
		}
	}
	data, err := s.codec.Encode(selected, documentFormat(req.Format))
	if err != nil {
		return nil, fmt.Errorf("failed to encode workspaces: %w", err)
	}
	return data, nil
}

// ImportWorkspaces decodes a document and stores its workspaces. Without
// Replace, an imported workspace whose id is taken gets fresh workspace and
// pane ids. Pane ids already used by another workspace are always renewed.
func (s *WorkspaceServiceImpl) ImportWorkspaces(ctx context.Context, req primary.ImportRequest) (*primary.ImportResponse, error) {
	// 1. Decode and validate everything before touching storage
	incoming, err := s.codec.Decode(req.Data, documentFormat(req.Format))
	if err != nil {
		return nil, fmt.Errorf("failed to decode workspaces: %w", err)
	}
	for _, ws := range incoming {
		if err := coreworkspace.Validate(ws); err != nil {
			return nil, fmt.Errorf("workspace %q: %w", ws.Name, err)
		}
	}

	// 2. Merge into the stored list
	list, err := s.ListWorkspaces(ctx)
	if err != nil {
		return nil, err
	}
	resp := &primary.ImportResponse{}
	var created []string
	for _, ws := range incoming {
		if ws.ID == "" {
			ws.ID = layout.GenerateID()
		}
		if idx := indexByID(list, ws.ID); idx >= 0 {
			if req.Replace {
				list[idx] = ws
				resp.Replaced++
				resp.Imported = append(resp.Imported, ws)
				continue
			}
			ws.ID = layout.GenerateID()
			coreworkspace.RenewPaneIDs(ws)
		} else if sharesPaneIDs(list, ws) {
			coreworkspace.RenewPaneIDs(ws)
		}
		list = append(list, ws)
		created = append(created, ws.ID)
		resp.Imported = append(resp.Imported, ws)
	}

	// 3. Persist
	if err := s.save(ctx, list); err != nil {
		return nil, err
	}
	for _, id := range created {
		s.logCreate(ctx, id)
	}
	return resp, nil
}

// Helper methods

// sharesPaneIDs reports whether any pane of ws already exists in list.
func sharesPaneIDs(list []*models.Workspace, ws *models.Workspace) bool {
	used := make(map[string]bool)
	for _, other := range list {
		for _, id := range layout.PaneIDs(other.Root) {
			used[id] = true
		}
	}
	for _, id := range layout.PaneIDs(ws.Root) {
		if used[id] {
			return true
		}
	}
	return false
}

func (s *WorkspaceServiceImpl) loadRef(ctx context.Context, ref string) ([]*models.Workspace, int, error) {
	list, err := s.ListWorkspaces(ctx)
	if err != nil {
		return nil, -1, err
	}
	idx, err := resolveRef(list, ref)
	if err != nil {
		return nil, -1, err
	}
	return list, idx, nil
}

// save stores the whole list, then pushes it to the host config. A failed
// sync is logged and does not fail the save.
func (s *WorkspaceServiceImpl) save(ctx context.Context, list []*models.Workspace) error {
	if err := s.repo.Save(ctx, list); err != nil {
		return fmt.Errorf("failed to save workspaces: %w", err)
	}
	if s.syncer != nil {
		if err := s.syncer.SyncWorkspaces(ctx, list); err != nil {
			s.logger.Warn("failed to sync host profiles", "error", err)
		}
	}
	return nil
}

func (s *WorkspaceServiceImpl) initialProfile(ctx context.Context, requested string) (string, error) {
	if requested != "" {
		_, ok, err := s.catalog.Lookup(ctx, requested)
		if err != nil {
			return "", fmt.Errorf("failed to look up profile: %w", err)
		}
		if !ok {
			return "", fmt.Errorf("profile %s not found", requested)
		}
		return requested, nil
	}
	available, err := s.catalog.ListAvailable(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list profiles: %w", err)
	}
	if len(available) == 0 {
		return "", nil
	}
	return available[0].ID, nil
}

func (s *WorkspaceServiceImpl) logCreate(ctx context.Context, id string) {
	if s.logWriter != nil {
		_ = s.logWriter.LogCreate(ctx, entityWorkspace, id)
	}
}

func (s *WorkspaceServiceImpl) logUpdate(ctx context.Context, id, field, oldValue, newValue string) {
	if s.logWriter != nil {
		_ = s.logWriter.LogUpdate(ctx, entityWorkspace, id, field, oldValue, newValue)
	}
}

// resolveRef finds ref by exact id, then by case-insensitive name.
func resolveRef(list []*models.Workspace, ref string) (int, error) {
	if idx := indexByID(list, ref); idx >= 0 {
		return idx, nil
	}
	found := -1
	for i, ws := range list {
		if strings.EqualFold(ws.Name, ref) {
			if found >= 0 {
				return -1, fmt.Errorf("%w: %q matches more than one workspace name, use the id", ErrAmbiguousRef, ref)
			}
			found = i
		}
	}
	if found < 0 {
		return -1, fmt.Errorf("%w: %s", ErrWorkspaceNotFound, ref)
	}
	return found, nil
}

func indexByID(list []*models.Workspace, id string) int {
	for i, ws := range list {
		if ws.ID == id {
			return i
		}
	}
	return -1
}

func backgroundString(bg *models.Background) string {
	if bg == nil {
		return models.BackgroundNone
	}
	return bg.Type + ":" + bg.Value
}

func documentFormat(format string) secondary.DocumentFormat {
	if strings.EqualFold(format, string(secondary.FormatJSON)) {
		return secondary.FormatJSON
	}
	return secondary.FormatYAML
}

var _ primary.WorkspaceService = (*WorkspaceServiceImpl)(nil)
