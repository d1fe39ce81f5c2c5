package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/bastiangx/wordassist/pkg/session"
	"github.com/bastiangx/wordassist/pkg/surface"
	"github.com/charmbracelet/lipgloss"
)

const caretMark = "|"

var (
	textStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#907aa9", Dark: "#c4a7e7"}).
			Padding(0, 1)
	activeStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"}).
			Background(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"})
	itemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	footerStyle = lipgloss.NewStyle().Italic(true).Faint(true)
)

// Overlay draws the document and the suggestion box to a terminal.
type Overlay struct {
	out  io.Writer
	mem  *surface.Memory
	held bool
}

// NewOverlay creates an overlay that prints to out.
func NewOverlay(out io.Writer, mem *surface.Memory) *Overlay {
	return &Overlay{out: out, mem: mem}
}

// Render implements session.Renderer. While held, state changes are left
// for the caller to draw.
func (o *Overlay) Render(st session.State) {
	if o.held {
		return
	}
	o.Draw(st)
}

// Draw prints the current view.
func (o *Overlay) Draw(st session.State) {
	fmt.Fprintln(o.out, o.View(st))
}

// View renders the text with the caret, followed by the suggestion box when
// it is visible.
func (o *Overlay) View(st session.State) string {
	text := textStyle.Render(o.textWithCaret())
	if !st.Visible || st.Suggestions == nil {
		return text
	}

	set := st.Suggestions
	lines := make([]string, 0, len(set.Candidates))
	for i, c := range set.Candidates {
		entry := c.Word
		if c.Score != nil {
			entry = fmt.Sprintf("%s  %.2f", c.Word, *c.Score)
		}
		if i == st.ActiveIndex {
			lines = append(lines, activeStyle.Render("> "+entry))
		} else {
			lines = append(lines, itemStyle.Render("  "+entry))
		}
	}
	footer := footerStyle.Render(fmt.Sprintf("%s #%d @ %d,%d", set.Source, set.RequestID, st.Anchor.X, st.Anchor.Y))
	box := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, append(lines, footer)...))
	return lipgloss.JoinVertical(lipgloss.Left, text, box)
}

func (o *Overlay) textWithCaret() string {
	sel, ok := o.mem.Selection()
	text := o.mem.String()
	if !ok {
		return text
	}
	runes := []rune(text)
	if sel.Length > 0 {
		end := sel.Index + sel.Length
		return string(runes[:sel.Index]) + "[" + string(runes[sel.Index:end]) + "]" + string(runes[end:])
	}
	var b strings.Builder
	b.WriteString(string(runes[:sel.Index]))
	b.WriteString(caretMark)
	b.WriteString(string(runes[sel.Index:]))
	return b.String()
}
