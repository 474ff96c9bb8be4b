// Package render draws a board view for the terminal.
package render

import (
	"fmt"
	"strings"

	"trellix/internal/board"

	"github.com/charmbracelet/lipgloss"
)

// ShortID is how many leading characters of an id are shown on a card.
const ShortID = 8

const columnWidth = 28

var (
	colorMuted = lipgloss.Color("#6c757d")

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1).
			Width(columnWidth)
	columnTitleStyle = lipgloss.NewStyle().Bold(true)
	cardStyle        = lipgloss.NewStyle().Width(columnWidth - 2)
	idStyle          = lipgloss.NewStyle().Foreground(colorMuted)
	emptyStyle       = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
)

// Board renders the board name followed by its columns side by side.
// pending is the number of unconfirmed mutations.
func Board(v board.View, pending int) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	if v.Board.Color != "" {
		header = header.Background(lipgloss.Color(v.Board.Color)).
			Foreground(lipgloss.Color(contrast(v.Board.Color)))
	}
	title := header.Render(v.Board.Name)
	if pending > 0 {
		title += idStyle.Render(fmt.Sprintf("  (%d pending)", pending))
	}

	if len(v.Columns) == 0 {
		return title + "\n" + emptyStyle.Render("no columns yet")
	}

	cols := make([]string, 0, len(v.Columns))
	for _, c := range v.Columns {
		cols = append(cols, Column(c))
	}
	return title + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// Column renders one column box.
func Column(c board.ColumnView) string {
	var b strings.Builder
	b.WriteString(columnTitleStyle.Render(c.Name))
	b.WriteString(" ")
	b.WriteString(idStyle.Render(short(c.ID)))
	if len(c.Items) == 0 {
		b.WriteString("\n")
		b.WriteString(emptyStyle.Render("empty"))
	}
	for _, it := range c.Items {
		b.WriteString("\n")
		b.WriteString(cardStyle.Render(idStyle.Render(short(it.ID)) + " " + it.Title))
	}
	return columnStyle.Render(b.String())
}

// Boards renders a board listing, one per line.
func Boards(boards []Summary) string {
	if len(boards) == 0 {
		return emptyStyle.Render("no boards")
	}
	lines := make([]string, len(boards))
	for i, bd := range boards {
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(bd.Color)).Render("  ")
		lines[i] = swatch + " " + bd.Name + " " + idStyle.Render(bd.ID)
	}
	return strings.Join(lines, "\n")
}

// Summary is a board listing entry.
type Summary struct {
	ID    string
	Name  string
	Color string
}

func short(id string) string {
	if len(id) > ShortID {
		return id[:ShortID]
	}
	return id
}

// contrast picks black or white text for a #rrggbb background.
func contrast(hex string) string {
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return "#000000"
	}
	if r*299+g*587+b*114 > 128000 {
		return "#000000"
	}
	return "#ffffff"
}
