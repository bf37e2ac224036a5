package app

import (
	"sync"

	"github.com/example/tabbyspaces/internal/models"
)

// StartupDispatcher holds startup commands until the pane they belong to
// is ready. One dispatcher lives for the whole process; Close ends it.
type StartupDispatcher struct {
	mu      sync.Mutex
	pending map[string]models.StartupCommand
	order   []string
	closed  bool
}

// NewStartupDispatcher creates an open, empty dispatcher.
func NewStartupDispatcher() *StartupDispatcher {
	return &StartupDispatcher{pending: make(map[string]models.StartupCommand)}
}

// Register queues cmds. A later command for the same pane replaces the
// earlier one.
func (d *StartupDispatcher) Register(cmds []models.StartupCommand) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrDispatcherClosed
	}
	for _, c := range cmds {
		if _, ok := d.pending[c.PaneID]; !ok {
			d.order = append(d.order, c.PaneID)
		}
		d.pending[c.PaneID] = c
	}
	return nil
}

// Take removes and returns the command for paneID. Each command is handed
// out at most once.
func (d *StartupDispatcher) Take(paneID string) (models.StartupCommand, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.pending[paneID]
	if !ok {
		return models.StartupCommand{}, false
	}
	delete(d.pending, paneID)
	for i, id := range d.order {
		if id == paneID {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return c, true
}

// Pending returns the queued commands in registration order.
func (d *StartupDispatcher) Pending() []models.StartupCommand {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]models.StartupCommand, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.pending[id])
	}
	return out
}

// Close drops every pending command and rejects further registrations.
func (d *StartupDispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	d.pending = make(map[string]models.StartupCommand)
	d.order = nil
}
