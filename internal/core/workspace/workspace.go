// Package workspace contains the pure business logic for workspace records:
// construction, duplication, naming of the generated host profiles, and
// validation. Tree rewrites live in package layout.
package workspace

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/example/tabbyspaces/internal/core/layout"
	"github.com/example/tabbyspaces/internal/models"
)

// ConfigKey namespaces everything TabbySpaces writes into the host config.
const ConfigKey = "tabbyspaces"

// DisplayName is the profile group shown in the host's profile list.
const DisplayName = "TabbySpaces"

// ProfilePrefix marks split-layout profiles generated by TabbySpaces.
const ProfilePrefix = "split-layout:" + ConfigKey + ":"

// DefaultName is used when a workspace is created without a name.
const DefaultName = "New Workspace"

// Colors is the palette new workspaces draw from.
var Colors = []string{
	"#3b82f6", // blue
	"#10b981", // emerald
	"#f59e0b", // amber
	"#ef4444", // red
	"#8b5cf6", // violet
	"#ec4899", // pink
	"#06b6d4", // cyan
	"#f97316", // orange
}

// Icons is the set of Font Awesome icon names new workspaces draw from.
var Icons = []string{
	"columns", "terminal", "code", "folder", "home", "briefcase",
	"cog", "database", "server", "cloud", "rocket", "flask",
	"bug", "wrench", "cube", "layer-group", "sitemap", "project-diagram",
}

var (
	nonProfileChars = regexp.MustCompile(`[^a-z0-9-]`)
	dashRuns        = regexp.MustCompile(`-+`)
	hexColor        = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// New builds a workspace with a fresh id, a two-pane horizontal root and a
// random icon and color. A nil rng uses the package-level source.
func New(name string, orientation models.Orientation, rng *rand.Rand) *models.Workspace {
	if strings.TrimSpace(name) == "" {
		name = DefaultName
	}
	if !orientation.Valid() {
		orientation = models.Horizontal
	}
	pick := rand.Intn
	if rng != nil {
		pick = rng.Intn
	}
	return &models.Workspace{
		ID:    layout.GenerateID(),
		Name:  name,
		Icon:  Icons[pick(len(Icons))],
		Color: Colors[pick(len(Colors))],
		Root:  layout.NewSplit(orientation),
	}
}

// Clone deep-copies a workspace record.
func Clone(ws *models.Workspace) *models.Workspace {
	if ws == nil {
		return nil
	}
	out := *ws
	if ws.Background != nil {
		bg := *ws.Background
		out.Background = &bg
	}
	out.Root = layout.CloneSplit(ws.Root)
	return &out
}

// Duplicate returns an independent copy of ws with a new id, a "(Copy)"
// name suffix, launch-on-startup cleared and every pane id regenerated.
func Duplicate(ws *models.Workspace) *models.Workspace {
	dup := Clone(ws)
	dup.ID = layout.GenerateID()
	dup.Name = ws.Name + " (Copy)"
	dup.LaunchOnStartup = false
	RenewPaneIDs(dup)
	return dup
}

// RenewPaneIDs gives every pane of ws a fresh id. Pane ids key startup
// command delivery, so they must not repeat across stored workspaces.
func RenewPaneIDs(ws *models.Workspace) {
	layout.Walk(ws.Root, func(p *models.Pane) bool {
		p.ID = layout.GenerateID()
		return true
	})
}

// SanitizeForProfileID lowercases name and reduces it to [a-z0-9-].
func SanitizeForProfileID(name string) string {
	s := strings.ToLower(name)
	s = nonProfileChars.ReplaceAllString(s, "-")
	s = dashRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "workspace"
	}
	return s
}

// ProfileID returns the id of the host profile generated for ws.
func ProfileID(ws *models.Workspace) string {
	return fmt.Sprintf("%s%s:%s", ProfilePrefix, SanitizeForProfileID(ws.Name), ws.ID)
}

// IsOwnProfileID reports whether id belongs to a profile TabbySpaces generated.
func IsOwnProfileID(id string) bool {
	return strings.HasPrefix(id, ProfilePrefix)
}

// IsSplitLayoutProfileID reports whether id belongs to any split-layout profile.
func IsSplitLayoutProfileID(id string) bool {
	return strings.HasPrefix(id, models.ProfileTypeSplitLayout+":")
}

// maxLabelWidth is the display width beyond which startup commands are truncated.
const maxLabelWidth = 20

// PaneLabel picks the text shown for a pane: title, then startup command
// (truncated), then profile name, then a prompt.
func PaneLabel(p *models.Pane, profileName string) string {
	switch {
	case p.Title != "":
		return p.Title
	case p.StartupCommand != "":
		if runewidth.StringWidth(p.StartupCommand) > maxLabelWidth {
			return runewidth.Truncate(p.StartupCommand, maxLabelWidth, "...")
		}
		return p.StartupCommand
	case profileName != "":
		return profileName
	default:
		return "Select profile"
	}
}

// ProfileShortName returns the last component of a slash-grouped profile name.
func ProfileShortName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return strings.TrimSpace(name[i+1:])
	}
	return name
}

// ErrEmptyName is returned when a workspace has a blank name.
var ErrEmptyName = errors.New("workspace name cannot be empty")

// Validate checks a workspace record before it is saved.
func Validate(ws *models.Workspace) error {
	if strings.TrimSpace(ws.Name) == "" {
		return ErrEmptyName
	}
	if ws.Color != "" && !hexColor.MatchString(ws.Color) {
		return fmt.Errorf("invalid color %q: expected #rgb or #rrggbb", ws.Color)
	}
	if bg := ws.Background; bg != nil {
		switch bg.Type {
		case models.BackgroundNone, models.BackgroundColor, models.BackgroundGradient, models.BackgroundImage:
		default:
			return fmt.Errorf("invalid background type %q", bg.Type)
		}
	}
	if err := layout.ValidateTree(ws.Root); err != nil {
		return fmt.Errorf("invalid layout: %w", err)
	}
	return nil
}
