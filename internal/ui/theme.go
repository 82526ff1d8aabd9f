package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	IconCard    = "🃏"
	IconDue     = "⏰"
	IconNew     = "🌱"
	IconDone    = "✅"
	IconMiss    = "❌"
	IconStats   = "📊"
	IconBell    = "🔔"
	IconImport  = "📥"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconSession = "📚"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)

	Panel = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
)

// Heading renders a title with an optional leading icon
func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

// LabelValue renders "label: value" with a highlighted label
func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// Verdict renders the outcome of an answer
func Verdict(correct bool) string {
	if correct {
		return Good.Render(IconDone + " correct")
	}
	return Bad.Render(IconMiss + " missed")
}

// BoxBar draws one bar per Leitner box, e.g. "1 ███ 3"
func BoxBar(dist map[int]int, maxBox int) string {
	boxes := make([]int, 0, maxBox)
	for b := 1; b <= maxBox; b++ {
		boxes = append(boxes, b)
	}
	for b := range dist {
		if b > maxBox {
			boxes = append(boxes, b)
		}
	}
	sort.Ints(boxes)

	var sb strings.Builder
	for _, b := range boxes {
		n := dist[b]
		bar := strings.Repeat("█", min(n, 40))
		fmt.Fprintf(&sb, "%s %s %s\n", Key.Render(fmt.Sprintf("box %d", b)), Good.Render(bar), Muted.Render(fmt.Sprint(n)))
	}
	return strings.TrimRight(sb.String(), "\n")
}
