package cli

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	coreworkspace "github.com/example/tabbyspaces/internal/core/workspace"
	"github.com/example/tabbyspaces/internal/models"
)

// Smallest box that still shows a border and one cell of content.
const (
	minBoxWidth  = 3
	minBoxHeight = 3
)

// PreviewOptions controls how a layout preview is drawn.
type PreviewOptions struct {
	Width    int
	Height   int
	Selected string // pane id drawn with the accent border
	// ProfileName resolves a profile id to a display name. May be nil.
	ProfileName func(id string) string
	Accent      string // border color of the selected pane, e.g. a workspace color
}

var paneStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Align(lipgloss.Center, lipgloss.Center)

var selectedPaneStyle = paneStyle.
	BorderForeground(lipgloss.Color("#3b82f6")).
	Bold(true)

// RenderPreview draws ws's split tree as nested boxes sized by ratio.
func RenderPreview(ws *models.Workspace, opts PreviewOptions) string {
	if ws == nil || ws.Root == nil {
		return ""
	}
	opts.Width = max(opts.Width, minBoxWidth)
	opts.Height = max(opts.Height, minBoxHeight)
	return renderSplit(ws.Root, opts.Width, opts.Height, opts)
}

func renderSplit(s *models.Split, width, height int, opts PreviewOptions) string {
	if len(s.Children) == 0 {
		return ""
	}
	horizontal := s.Orientation != models.Vertical
	total := height
	if horizontal {
		total = width
	}
	sizes := distribute(total, s.Ratios, len(s.Children))

	parts := make([]string, 0, len(s.Children))
	for i, c := range s.Children {
		w, h := width, height
		if horizontal {
			w = sizes[i]
		} else {
			h = sizes[i]
		}
		parts = append(parts, renderNode(c, w, h, opts))
	}
	if horizontal {
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderNode(n *models.Node, width, height int, opts PreviewOptions) string {
	if n.Kind == models.KindSplit {
		return renderSplit(n.Split, width, height, opts)
	}
	return renderPane(n.Pane, width, height, opts)
}

func renderPane(p *models.Pane, width, height int, opts PreviewOptions) string {
	name := ""
	if opts.ProfileName != nil && p.ProfileID != "" {
		name = coreworkspace.ProfileShortName(opts.ProfileName(p.ProfileID))
	}
	innerW := max(width-2, 1)
	innerH := max(height-2, 1)
	label := runewidth.Truncate(coreworkspace.PaneLabel(p, name), innerW, "…")

	style := paneStyle
	if p.ID == opts.Selected {
		style = selectedPaneStyle
		if opts.Accent != "" {
			style = style.BorderForeground(lipgloss.Color(opts.Accent))
		}
	}
	return style.Width(innerW).Height(innerH).MaxHeight(height).Render(label)
}

// distribute splits total cells between n children by ratio. Ratios are
// normalised first because clamped resizes may not sum to 1. The last
// child absorbs rounding so the sizes always add up to total.
func distribute(total int, ratios []float64, n int) []int {
	sizes := make([]int, n)
	if n == 0 {
		return sizes
	}
	sum := 0.0
	for i := 0; i < n && i < len(ratios); i++ {
		sum += ratios[i]
	}
	used := 0
	for i := 0; i < n-1; i++ {
		share := 1 / float64(n)
		if sum > 0 && i < len(ratios) {
			share = ratios[i] / sum
		}
		size := int(math.Round(share * float64(total)))
		size = max(size, minBoxWidth)
		size = min(size, total-used-minBoxWidth*(n-1-i))
		sizes[i] = max(size, 1)
		used += sizes[i]
	}
	sizes[n-1] = max(total-used, 1)
	return sizes
}

// RenderTree prints the split tree as an indented outline.
func RenderTree(ws *models.Workspace, profileName func(id string) string) string {
	var b strings.Builder
	writeSplit(&b, ws.Root, "", profileName)
	return b.String()
}

func writeSplit(b *strings.Builder, s *models.Split, indent string, profileName func(string) string) {
	b.WriteString(indent + string(s.Orientation) + " " + formatRatios(s.Ratios) + "\n")
	for _, c := range s.Children {
		if c.Kind == models.KindSplit {
			writeSplit(b, c.Split, indent+"  ", profileName)
			continue
		}
		p := c.Pane
		name := ""
		if profileName != nil && p.ProfileID != "" {
			name = profileName(p.ProfileID)
		}
		b.WriteString(indent + "  - " + p.ID + "  " + coreworkspace.PaneLabel(p, name))
		if p.Cwd != "" {
			b.WriteString("  (" + p.Cwd + ")")
		}
		b.WriteString("\n")
	}
}

func formatRatios(ratios []float64) string {
	parts := make([]string, len(ratios))
	for i, r := range ratios {
		parts[i] = strconv.FormatFloat(r, 'f', -1, 64)
		if len(parts[i]) > 4 {
			parts[i] = strconv.FormatFloat(r, 'f', 2, 64)
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}
