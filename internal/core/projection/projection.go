package projection

import (
	"fmt"
	"strings"

	"github.com/example/tabbyspaces/internal/core/layout"
	"github.com/example/tabbyspaces/internal/core/workspace"
	"github.com/example/tabbyspaces/internal/models"
)

// ProfileLookup resolves a profile id against a catalog snapshot.
type ProfileLookup func(id string) (*models.Profile, bool)

// LookupFromProfiles builds a ProfileLookup over a fetched profile list.
func LookupFromProfiles(profiles []*models.Profile) ProfileLookup {
	index := make(map[string]*models.Profile, len(profiles))
	for _, p := range profiles {
		index[p.ID] = p
	}
	return func(id string) (*models.Profile, bool) {
		p, ok := index[id]
		return p, ok
	}
}

// fallbackShell is used when a pane's profile cannot be resolved.
const fallbackShell = "Shell"

// ProjectTree maps a split into a split-tab token, recursing into children.
func ProjectTree(s *models.Split, lookup ProfileLookup) *RecoveryToken {
	tok := &RecoveryToken{
		Type:        TokenSplitTab,
		Orientation: orientationCode(s.Orientation),
		Ratios:      append([]float64(nil), s.Ratios...),
		Children:    make([]*RecoveryToken, 0, len(s.Children)),
	}
	for _, c := range s.Children {
		tok.Children = append(tok.Children, ProjectNode(c, lookup))
	}
	return tok
}

// ProjectNode maps any tree node into a token.
func ProjectNode(n *models.Node, lookup ProfileLookup) *RecoveryToken {
	switch n.Kind {
	case models.KindSplit:
		return ProjectTree(n.Split, lookup)
	default:
		return ProjectPane(n.Pane, lookup)
	}
}

// ProjectPane builds the leaf token for a pane. An unresolved profile yields
// a plain shell leaf so one unbound pane never blocks a launch.
//
// Process args are always cleared: startup commands are delivered after the
// shell is up, and re-splitting a pane in the host reuses these args.
func ProjectPane(p *models.Pane, lookup ProfileLookup) *RecoveryToken {
	var base *models.Profile
	if lookup != nil && p.ProfileID != "" {
		base, _ = lookup(p.ProfileID)
	}
	if base == nil {
		return &RecoveryToken{
			Type:       TokenLocalTab,
			Profile:    &TokenProfile{Type: models.ProfileTypeLocal, Name: fallbackShell},
			SavedState: boolPtr(false),
			PaneID:     p.ID,
		}
	}

	cwd := p.Cwd
	if cwd == "" {
		cwd = base.Cwd
	}
	env := make(map[string]string, len(base.Env))
	for k, v := range base.Env {
		env[k] = v
	}
	name := base.Name
	if name == "" {
		name = fallbackShell
	}

	tok := &RecoveryToken{
		Type: TokenLocalTab,
		Profile: &TokenProfile{
			ID:    base.ID,
			Type:  models.ProfileTypeLocal,
			Name:  name,
			Group: base.Group,
			Icon:  base.Icon,
			Color: base.Color,
			Options: &ProfileOptions{
				Command: base.Command,
				Args:    []string{},
				Cwd:     NormalizeCwd(cwd, base),
				Env:     env,
			},
			BehaviorOnSessionEnd: "auto",
		},
		SavedState:          boolPtr(false),
		TabTitle:            p.Title,
		TabCustomTitle:      p.Title,
		DisableDynamicTitle: p.Title != "",
		PaneID:              p.ID,
	}
	// The host only surfaces the custom title of a freshly opened terminal,
	// so panes awaiting a command carry their id there until delivery.
	if p.StartupCommand != "" {
		tok.TabCustomTitle = p.ID
		tok.DisableDynamicTitle = true
	}
	return tok
}

// WorkspaceProfile builds the split-layout host profile that opens ws.
func WorkspaceProfile(ws *models.Workspace, lookup ProfileLookup) *SplitLayoutProfile {
	root := ProjectTree(ws.Root, lookup)
	root.TabTitle = ws.Name
	root.TabCustomTitle = ws.Name
	return &SplitLayoutProfile{
		ID:        workspace.ProfileID(ws),
		Type:      models.ProfileTypeSplitLayout,
		Name:      ws.Name,
		Group:     workspace.DisplayName,
		Icon:      iconClass(ws.Icon),
		Color:     ws.Color,
		IsBuiltin: false,
		Options:   SplitLayoutOptions{RecoveryToken: root},
	}
}

// CollectStartupCommands returns one entry per pane with a startup command,
// in depth-first order.
func CollectStartupCommands(ws *models.Workspace) []models.StartupCommand {
	var out []models.StartupCommand
	layout.Walk(ws.Root, func(p *models.Pane) bool {
		if strings.TrimSpace(p.StartupCommand) != "" {
			out = append(out, models.StartupCommand{
				PaneID:        p.ID,
				Command:       p.StartupCommand,
				OriginalTitle: p.Title,
			})
		}
		return true
	})
	return out
}

// defaultWSLDistro is assumed when a WSL profile names no distro.
const defaultWSLDistro = "Ubuntu"

// NormalizeCwd rewrites a POSIX-rooted path into the \\wsl$ UNC form for WSL
// profiles, because the host checks directory existence with Windows APIs.
// Any other combination passes through unchanged.
func NormalizeCwd(path string, profile *models.Profile) string {
	if profile == nil || !profile.IsWSL || !strings.HasPrefix(path, "/") {
		return path
	}
	return `\\wsl$\` + WSLDistro(profile) + strings.ReplaceAll(path, "/", `\`)
}

// WSLDistro returns the distro a WSL profile launches.
func WSLDistro(profile *models.Profile) string {
	if profile.WSLDistro != "" {
		return profile.WSLDistro
	}
	for i := 0; i+1 < len(profile.Args); i++ {
		if profile.Args[i] == "-d" || profile.Args[i] == "--distribution" {
			return profile.Args[i+1]
		}
	}
	return defaultWSLDistro
}

// BackgroundCSS returns the style rules that paint ws's background behind
// its split tab, or "" when it has none. The rules match on a
// data-workspace-id attribute that the host must set on the split tab.
func BackgroundCSS(ws *models.Workspace) string {
	bg := ws.Background
	if bg == nil || bg.Type == models.BackgroundNone || bg.Value == "" {
		return ""
	}
	value := bg.Value
	if bg.Type == models.BackgroundImage && !strings.HasPrefix(value, "url(") {
		value = fmt.Sprintf("url(%q) center / cover no-repeat", value)
	}
	sel := fmt.Sprintf(`split-tab[data-workspace-id=%q]`, ws.ID)
	var b strings.Builder
	fmt.Fprintf(&b, "%s {\n  background: %s !important;\n}\n", sel, value)
	fmt.Fprintf(&b, "%s .xterm-viewport,\n%s .xterm-screen {\n  background: transparent !important;\n}\n", sel, sel)
	return b.String()
}

func orientationCode(o models.Orientation) string {
	if o == models.Vertical {
		return "v"
	}
	return "h"
}

func iconClass(icon string) string {
	if icon == "" || strings.HasPrefix(icon, "fa") {
		return icon
	}
	return "fas fa-" + icon
}

func boolPtr(b bool) *bool {
	return &b
}
