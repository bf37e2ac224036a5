package app

import "errors"

// Sentinel errors returned by the application services.
var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrAmbiguousRef      = errors.New("workspace reference is ambiguous")
	ErrPaneNotFound      = errors.New("pane not found")
	ErrLastPane          = errors.New("cannot remove the last pane")
	ErrDispatcherClosed  = errors.New("startup dispatcher is closed")
	ErrNotDragging       = errors.New("no resize drag in progress")
	ErrSessionExists     = errors.New("tmux session already exists")
)
