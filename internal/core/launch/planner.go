// Package launch plans how a projected workspace is opened as a tmux session.
// Planning is pure: the plan is a list of effects run by the app layer.
package launch

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/example/tabbyspaces/internal/core/effects"
	"github.com/example/tabbyspaces/internal/core/projection"
)

// PaneOption is the tmux user option carrying a pane's workspace id.
const PaneOption = "@tabbyspaces_pane"

// PlanInput contains the pre-projected workspace tree.
type PlanInput struct {
	SessionName string
	WindowName  string
	Root        *projection.RecoveryToken
}

// Plan is the ordered set of tmux effects that builds the session.
type Plan struct {
	SessionName string
	// PaneKeys lists every workspace pane id in creation order.
	PaneKeys []string
	TMuxOps  []effects.TMuxEffect
}

// Effects returns all effects as a flat slice for execution.
func (p Plan) Effects() []effects.Effect {
	result := make([]effects.Effect, 0, len(p.TMuxOps))
	for _, e := range p.TMuxOps {
		result = append(result, e)
	}
	return result
}

// GeneratePlan creates the launch plan for a projected tree.
//
// The first leaf occupies the session's initial pane. Within each split,
// sibling i is carved off sibling i-1's pane while that pane still spans
// all of siblings i-1..n, so the new pane's share is sum(r[i:])/sum(r[i-1:]).
// Nested splits are subdivided only after all their siblings exist.
func GeneratePlan(input PlanInput) (Plan, error) {
	if input.Root == nil {
		return Plan{}, fmt.Errorf("nothing to launch: empty layout")
	}
	first := firstLeaf(input.Root)
	if first == nil {
		return Plan{}, fmt.Errorf("nothing to launch: layout has no panes")
	}

	plan := Plan{SessionName: input.SessionName}
	plan.TMuxOps = append(plan.TMuxOps, effects.TMuxEffect{
		Operation:      effects.TMuxNewSession,
		SessionName:    input.SessionName,
		WindowName:     input.WindowName,
		PaneKey:        first.PaneID,
		StartDirectory: leafCwd(first),
		Command:        leafCommand(first),
	})
	plan.PaneKeys = append(plan.PaneKeys, first.PaneID)

	planSplit(&plan, input.Root)

	for _, leaf := range leaves(input.Root) {
		plan.TMuxOps = append(plan.TMuxOps, effects.TMuxEffect{
			Operation:   effects.TMuxSetPaneOption,
			SessionName: input.SessionName,
			PaneKey:     leaf.PaneID,
			Option:      PaneOption,
			Value:       leaf.PaneID,
		})
		if leaf.TabTitle != "" {
			plan.TMuxOps = append(plan.TMuxOps, effects.TMuxEffect{
				Operation:   effects.TMuxSetPaneTitle,
				SessionName: input.SessionName,
				PaneKey:     leaf.PaneID,
				Value:       leaf.TabTitle,
			})
		}
	}
	return plan, nil
}

func planSplit(plan *Plan, tok *projection.RecoveryToken) {
	if !tok.IsSplit() || len(tok.Children) == 0 {
		return
	}
	horizontal := tok.Orientation != "v"
	for i := 1; i < len(tok.Children); i++ {
		target := firstLeaf(tok.Children[i-1])
		created := firstLeaf(tok.Children[i])
		if target == nil || created == nil {
			continue
		}
		plan.TMuxOps = append(plan.TMuxOps, effects.TMuxEffect{
			Operation:      effects.TMuxSplitPane,
			SessionName:    plan.SessionName,
			PaneKey:        created.PaneID,
			TargetKey:      target.PaneID,
			Horizontal:     horizontal,
			Percent:        splitPercent(tok.Ratios, i),
			StartDirectory: leafCwd(created),
			Command:        leafCommand(created),
		})
		plan.PaneKeys = append(plan.PaneKeys, created.PaneID)
	}
	for _, c := range tok.Children {
		planSplit(plan, c)
	}
}

// splitPercent returns the share of sibling i's remaining region, as a
// percentage of the region still held by sibling i-1.
func splitPercent(ratios []float64, i int) int {
	if i <= 0 || i >= len(ratios) {
		return 50
	}
	var rest, total float64
	for j := i; j < len(ratios); j++ {
		rest += ratios[j]
	}
	total = rest + ratios[i-1]
	if total <= 0 {
		return 50
	}
	pct := int(math.Round(100 * rest / total))
	return max(1, min(99, pct))
}

func firstLeaf(tok *projection.RecoveryToken) *projection.RecoveryToken {
	for tok != nil && tok.IsSplit() {
		if len(tok.Children) == 0 {
			return nil
		}
		tok = tok.Children[0]
	}
	return tok
}

func leaves(tok *projection.RecoveryToken) []*projection.RecoveryToken {
	if tok == nil {
		return nil
	}
	if !tok.IsSplit() {
		return []*projection.RecoveryToken{tok}
	}
	var out []*projection.RecoveryToken
	for _, c := range tok.Children {
		out = append(out, leaves(c)...)
	}
	return out
}

func leafCwd(tok *projection.RecoveryToken) string {
	if tok.Profile == nil || tok.Profile.Options == nil {
		return ""
	}
	return tok.Profile.Options.Cwd
}

func leafCommand(tok *projection.RecoveryToken) string {
	if tok.Profile == nil || tok.Profile.Options == nil {
		return ""
	}
	return tok.Profile.Options.Command
}

var unsafeSessionChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// SessionName derives a tmux-safe session name for a workspace.
// tmux rejects '.' and ':' in session names.
func SessionName(prefix, workspaceName string) string {
	name := strings.Trim(unsafeSessionChars.ReplaceAllString(workspaceName, "-"), "-")
	if name == "" {
		name = "workspace"
	}
	if prefix == "" {
		return name
	}
	return prefix + "-" + name
}
