// Package tmux contains the TMux adapter that builds workspace sessions.
package tmux

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/GianlucaP106/gotmux/gotmux"

	"github.com/example/tabbyspaces/internal/ports/secondary"
)

// runFunc executes one tmux invocation and returns its trimmed stdout.
type runFunc func(ctx context.Context, args ...string) (string, error)

// Adapter implements secondary.TMuxAdapter. Session lifecycle and pane
// options go through gotmux; splits, titles and keys use the tmux binary
// directly because they need flags gotmux does not expose.
type Adapter struct {
	tmux   *gotmux.Tmux
	run    runFunc
	logger *slog.Logger
}

// NewAdapter creates a new TMux adapter.
func NewAdapter(logger *slog.Logger) (*Adapter, error) {
	tmux, err := gotmux.DefaultTmux()
	if err != nil {
		return nil, fmt.Errorf("failed to create tmux client: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{tmux: tmux, run: runTmux, logger: logger}, nil
}

func runTmux(ctx context.Context, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, "tmux", args...).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("tmux %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}

// escapeShellCommand works around gotmux wrapping ShellCommand in single
// quotes: "npm run dev" would reach the shell as one word. Closing and
// reopening the quote around each space splits it back into words.
func escapeShellCommand(cmd string) string {
	return strings.ReplaceAll(cmd, " ", "' '")
}

// NewSession creates a detached session and returns its first pane id.
func (a *Adapter) NewSession(ctx context.Context, opts secondary.NewSessionOptions) (string, error) {
	sessionOpts := &gotmux.SessionOptions{
		Name:           opts.Name,
		StartDirectory: opts.StartDirectory,
	}
	if opts.Command != "" {
		sessionOpts.ShellCommand = escapeShellCommand(opts.Command)
	}

	session, err := a.tmux.NewSession(sessionOpts)
	if err != nil {
		return "", fmt.Errorf("failed to create session %s: %w", opts.Name, err)
	}

	windows, err := session.ListWindows()
	if err != nil {
		return "", fmt.Errorf("failed to list windows: %w", err)
	}
	if len(windows) == 0 {
		return "", fmt.Errorf("no windows found in new session %s", opts.Name)
	}
	window := windows[0]

	if opts.WindowName != "" {
		if err := window.Rename(opts.WindowName); err != nil {
			return "", fmt.Errorf("failed to rename window: %w", err)
		}
	}

	panes, err := window.ListPanes()
	if err != nil || len(panes) == 0 {
		return "", fmt.Errorf("failed to get initial pane: %w", err)
	}
	a.logger.Debug("created tmux session", "session", opts.Name, "pane", panes[0].Id)
	return panes[0].Id, nil
}

// SplitPane splits the target pane and returns the new pane's id.
func (a *Adapter) SplitPane(ctx context.Context, opts secondary.SplitOptions) (string, error) {
	return a.run(ctx, splitArgs(opts)...)
}

func splitArgs(opts secondary.SplitOptions) []string {
	args := []string{"split-window", "-d", "-P", "-F", "#{pane_id}", "-t", opts.Target}
	if opts.Horizontal {
		args = append(args, "-h")
	} else {
		args = append(args, "-v")
	}
	if opts.Percent > 0 && opts.Percent < 100 {
		args = append(args, "-l", strconv.Itoa(opts.Percent)+"%")
	}
	if opts.StartDirectory != "" {
		args = append(args, "-c", opts.StartDirectory)
	}
	if opts.Command != "" {
		args = append(args, opts.Command)
	}
	return args
}

// SetPaneOption sets a pane-scoped user option.
func (a *Adapter) SetPaneOption(ctx context.Context, paneID, option, value string) error {
	_, err := a.run(ctx, "set-option", "-p", "-t", paneID, option, value)
	return err
}

// SetPaneTitle sets a pane's title.
func (a *Adapter) SetPaneTitle(ctx context.Context, paneID, title string) error {
	_, err := a.run(ctx, "select-pane", "-t", paneID, "-T", title)
	return err
}

// SendKeys types keys literally into a pane, then presses Enter.
func (a *Adapter) SendKeys(ctx context.Context, paneID, keys string) error {
	if _, err := a.run(ctx, "send-keys", "-t", paneID, "-l", keys); err != nil {
		return err
	}
	_, err := a.run(ctx, "send-keys", "-t", paneID, "Enter")
	return err
}

// FindPaneByOption returns the id of the pane in session whose option
// equals value.
func (a *Adapter) FindPaneByOption(ctx context.Context, sessionName, option, value string) (string, error) {
	session, err := a.getSession(sessionName)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", fmt.Errorf("session %s not found", sessionName)
	}

	windows, err := session.ListWindows()
	if err != nil {
		return "", fmt.Errorf("failed to list windows: %w", err)
	}
	for _, w := range windows {
		panes, err := w.ListPanes()
		if err != nil {
			continue
		}
		for _, p := range panes {
			opt, err := p.Option(option)
			if err == nil && opt != nil && opt.Value == value {
				return p.Id, nil
			}
		}
	}
	return "", fmt.Errorf("no pane with %s=%s in session %s", option, value, sessionName)
}

func (a *Adapter) getSession(name string) (*gotmux.Session, error) {
	sessions, err := a.tmux.ListSessions()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	for _, s := range sessions {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, nil
}

// SessionExists checks if a tmux session exists
func (a *Adapter) SessionExists(ctx context.Context, name string) bool {
	session, err := a.getSession(name)
	return err == nil && session != nil
}

// KillSession terminates a tmux session
func (a *Adapter) KillSession(ctx context.Context, name string) error {
	session, err := a.getSession(name)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session %s not found", name)
	}
	return session.Kill()
}

// AttachInstructions returns instructions for attaching to a session
func (a *Adapter) AttachInstructions(sessionName string) string {
	return fmt.Sprintf("Attach to session: tmux attach -t %s\n\n"+
		"TMux Commands:\n"+
		"  Switch panes: Ctrl+b then arrow keys\n"+
		"  Detach session: Ctrl+b then d\n",
		sessionName)
}

// Ensure Adapter implements the interface
var _ secondary.TMuxAdapter = (*Adapter)(nil)
