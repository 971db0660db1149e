// Package ui provides terminal styling for sortd CLI output.
// Human-mode only; JSON mode never routes through here.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/sortdhq/sortd/internal/types"
)

// Semantic status colors, adaptive for light/dark terminals.
var (
	ColorPass = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	ColorWarn = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	ColorFail = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	ColorMute = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
)

var (
	PassStyle  = lipgloss.NewStyle().Foreground(ColorPass)
	WarnStyle  = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle  = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle = lipgloss.NewStyle().Foreground(ColorMute)
	BoldStyle  = lipgloss.NewStyle().Bold(true)
)

const (
	IconPass = "✓"
	IconFail = "✗"
	IconWarn = "⚠"
)

// plain is true when the terminal cannot render color; styles collapse
// to bare text so piped output stays clean.
var plain = termenv.EnvColorProfile() == termenv.Ascii

func render(style lipgloss.Style, s string) string {
	if plain {
		return s
	}
	return style.Render(s)
}

// Pass formats a success fragment.
func Pass(s string) string { return render(PassStyle, s) }

// Fail formats a failure fragment.
func Fail(s string) string { return render(FailStyle, s) }

// Muted formats secondary detail.
func Muted(s string) string { return render(MutedStyle, s) }

// Bold formats an emphasized fragment.
func Bold(s string) string { return render(BoldStyle, s) }

// ItemLine renders one item for list/get output:
//
//	itm_1  [next]  Action  Write report
func ItemLine(rec *types.ItemRecord) string {
	parts := []string{
		Bold(rec.ItemID),
		Muted(fmt.Sprintf("[%s]", rec.Item.Bucket)),
		string(rec.Item.Type),
		rec.Item.Name,
	}
	if rec.Item.DueAt != nil {
		parts = append(parts, Muted("due "+rec.Item.DueAt.Format("2006-01-02")))
	}
	return strings.Join(parts, "  ")
}

// ProposalLine renders one proposal queue entry:
//
//	prp_...  pending  items.create  2026-08-23T10:00:00Z
func ProposalLine(p *types.ProposalState) string {
	status := p.Status
	rendered := string(status)
	if status == types.ProposalApplied {
		rendered = Pass(rendered)
	} else {
		rendered = render(WarnStyle, rendered)
	}
	return strings.Join([]string{
		Bold(p.ID),
		rendered,
		string(p.Operation),
		Muted(p.CreatedAt.Format("2006-01-02 15:04")),
	}, "  ")
}
