package cliui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papercomputeco/reins/pkg/intent"
	"github.com/papercomputeco/reins/pkg/mutation"
	"github.com/papercomputeco/reins/pkg/trace"
	"github.com/papercomputeco/reins/pkg/utils"
)

var (
	refactorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	evolutionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// ClassBadge renders a mutation class as a short colored label: refactors
// are the quiet case, evolutions the one worth a second look.
func ClassBadge(class mutation.Class) string {
	switch class {
	case mutation.Refactor:
		return refactorStyle.Render("refactor ")
	case mutation.Evolution:
		return evolutionStyle.Render("evolution")
	default:
		return string(class)
	}
}

// TraceLine renders one ledger record for terminal listing.
func TraceLine(r trace.Record) string {
	line := fmt.Sprintf("%s  %s  %s  %s  %s",
		StepStyle.Render(r.Timestamp),
		r.IntentID,
		ClassBadge(r.MutationClass),
		r.File,
		StepStyle.Render(utils.Truncate(r.ContentHash, 12)),
	)
	if r.VCS != nil {
		line += StepStyle.Render(" @" + utils.Truncate(r.VCS.Revision, 8))
	}
	return line
}

// IntentLine renders one manifest entry, marking disabled intents the way
// the gate will treat them.
func IntentLine(in intent.Intent, ignored bool) string {
	mark := SuccessMark
	note := ""
	if ignored {
		mark = FailMark
		note = StepStyle.Render(" (ignored)")
	}

	line := fmt.Sprintf("%s %s%s", mark, HeaderStyle.Render(in.ID), note)
	if in.Scope != "" {
		line += "\n  scope: " + in.Scope
	}
	if len(in.OwnedScope) > 0 {
		line += "\n  owned: " + StepStyle.Render(strings.Join(in.OwnedScope, ", "))
	}
	return line
}
