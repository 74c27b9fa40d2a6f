package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/montrey/notenav/search"
)

// Row is a rendered lookup result.
type Row struct {
	Result search.Result
	// Vault names the owning vault of a Found result.
	Vault string
	// IsHistory is true for notes opened recently.
	IsHistory bool
}

// ResultList shows ranked results and tracks the selection.
type ResultList struct {
	Rows     []Row
	Selected int
	Width    int
	Height   int

	// ScrollOffset handles vertical scrolling if there are more rows than lines
	ScrollOffset int

	query      search.Query
	showVaults bool
}

// NewResultList creates an empty list of the given size.
func NewResultList(width, height int) ResultList {
	return ResultList{Width: width, Height: height}
}

// SetRows replaces the rows and resets the selection to the best match.
func (l *ResultList) SetRows(rows []Row, query search.Query, showVaults bool) {
	l.Rows = rows
	l.query = query
	l.showVaults = showVaults
	l.Selected = 0
	l.ScrollOffset = 0
}

// SelectedRow returns the highlighted row.
func (l ResultList) SelectedRow() (Row, bool) {
	if l.Selected < 0 || l.Selected >= len(l.Rows) {
		return Row{}, false
	}
	return l.Rows[l.Selected], true
}

func (l ResultList) Update(msg tea.Msg) (ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "ctrl+p", "shift+tab":
			l.move(-1)
		case "down", "ctrl+n", "tab":
			l.move(1)
		case "pgup":
			l.move(-l.Height)
		case "pgdown":
			l.move(l.Height)
		}
	}
	return l, nil
}

func (l *ResultList) move(delta int) {
	if len(l.Rows) == 0 {
		return
	}
	l.Selected += delta
	if l.Selected < 0 {
		l.Selected = 0
	}
	if l.Selected >= len(l.Rows) {
		l.Selected = len(l.Rows) - 1
	}

	if l.Selected < l.ScrollOffset {
		l.ScrollOffset = l.Selected
	}
	if l.Height > 0 && l.Selected >= l.ScrollOffset+l.Height {
		l.ScrollOffset = l.Selected - l.Height + 1
	}
}

func (l ResultList) View() string {
	if len(l.Rows) == 0 {
		return dimStyle.Render("  no matching notes")
	}

	end := len(l.Rows)
	if l.Height > 0 && l.ScrollOffset+l.Height < end {
		end = l.ScrollOffset + l.Height
	}

	lines := make([]string, 0, end-l.ScrollOffset)
	for i := l.ScrollOffset; i < end; i++ {
		lines = append(lines, l.renderRow(l.Rows[i], i == l.Selected))
	}
	return strings.Join(lines, "\n")
}

func (l ResultList) renderRow(row Row, selected bool) string {
	cursor := "  "
	if selected {
		cursor = cursorStyle.Render("> ")
	}

	switch r := row.Result.(type) {
	case search.CreatePlaceholder:
		label := fmt.Sprintf("+ Create new note: %s", strings.TrimSpace(l.query.Raw))
		style := createStyle
		if selected {
			style = style.Inherit(selectedStyle)
		}
		return cursor + style.Render(truncate(label, l.Width-2))

	case search.Found:
		base := pathStyle
		switch {
		case selected:
			base = selectedStyle
		case row.IsHistory:
			base = historyStyle
		case !r.Exists:
			base = dimStyle
		}

		title := r.Title
		if title == "" {
			title = r.Path
		}
		path := truncate(r.Path, l.Width/2)
		title = truncate(title, l.Width/2)

		var titleView, pathView string
		if l.query.Mode == search.ModeTitle {
			titleView = lipgloss.StyleRunes(title, search.Highlight(l.query.Match, title), matchStyle, base.Bold(true))
			pathView = base.Faint(true).Render(path)
		} else {
			titleView = base.Bold(true).Render(title)
			pathView = lipgloss.StyleRunes(path, search.Highlight(l.query.Normalized, path), matchStyle, base)
		}

		line := cursor + titleView + "  " + pathView
		if !r.Exists {
			line += dimStyle.Render("  (stub)")
		}
		if l.showVaults && row.Vault != "" {
			line += vaultStyle.Render("  " + row.Vault)
		}
		return line
	}
	return cursor
}

func truncate(s string, width int) string {
	if width <= 1 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
