package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/montrey/notenav/search"
)

const (
	minColWidth = 12
	maxColWidth = 40
)

// TreeNode is one hierarchy level of a vault.
type TreeNode struct {
	Name      string
	Path      string
	Title     string
	Exists    bool
	IsHistory bool
	Children  []*TreeNode
	Parent    *TreeNode
}

// TreeModel browses a vault hierarchy in Miller columns: one column per
// level on the way to the selected note, plus a preview of its children.
type TreeModel struct {
	Root         *TreeNode
	SelectedNode *TreeNode
	Width        int
	Height       int

	// ScrollOffset handles vertical scrolling if a column is taller than the screen
	ScrollOffset int

	chosen bool
}

// NewTreeModel builds the browser from entries in flatten order (parents
// before children). history holds paths opened recently.
func NewTreeModel(entries []search.Entry, separator string, width, height int, history map[string]bool) TreeModel {
	root := buildTree(entries, separator, history)
	compressTree(root, separator)

	tm := TreeModel{Root: root, Width: width, Height: height, SelectedNode: root}
	if len(root.Children) > 0 {
		tm.SelectedNode = root.Children[0]
	}
	return tm
}

func buildTree(entries []search.Entry, separator string, history map[string]bool) *TreeNode {
	root := &TreeNode{Exists: true}
	byPath := map[string]*TreeNode{"": root}

	for _, e := range entries {
		parent := root
		name := e.Path
		if i := strings.LastIndex(e.Path, separator); i >= 0 {
			if p, ok := byPath[e.Path[:i]]; ok {
				parent = p
				name = e.Path[i+len(separator):]
			}
		}
		node := &TreeNode{
			Name:      name,
			Path:      e.Path,
			Title:     e.Title,
			Exists:    e.Exists,
			IsHistory: history[e.Path],
			Parent:    parent,
		}
		parent.Children = append(parent.Children, node)
		byPath[e.Path] = node
	}
	return root
}

// compressTree folds a placeholder with a single child into that child, so
// a.b.c with no a or a.b note shows as one "a.b.c" entry.
func compressTree(node *TreeNode, separator string) {
	for _, child := range node.Children {
		compressTree(child, separator)
	}
	if node.Parent == nil || node.Exists || len(node.Children) != 1 {
		return
	}

	child := node.Children[0]
	node.Name = node.Name + separator + child.Name
	node.Path = child.Path
	node.Title = child.Title
	node.Exists = child.Exists
	node.IsHistory = child.IsHistory
	node.Children = child.Children
	for _, grandChild := range node.Children {
		grandChild.Parent = node
	}
}

// Chosen returns the note picked with enter.
func (m TreeModel) Chosen() (*TreeNode, bool) {
	if !m.chosen || m.SelectedNode == nil || m.SelectedNode == m.Root {
		return nil, false
	}
	return m.SelectedNode, true
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height - 1
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		case "enter":
			m.chosen = true
			return m, tea.Quit
		case "up", "k":
			m.moveSelection(-1)
		case "down", "j":
			m.moveSelection(1)
		case "right", "l":
			m.enterChildren()
		case "left", "h":
			m.leaveChildren()
		}
	}

	if y := m.selectedIndex(); y >= 0 {
		if y < m.ScrollOffset {
			m.ScrollOffset = y
		}
		if m.Height > 0 && y >= m.ScrollOffset+m.Height {
			m.ScrollOffset = y - m.Height + 1
		}
	}
	return m, nil
}

func (m TreeModel) selectedIndex() int {
	if m.SelectedNode == nil || m.SelectedNode.Parent == nil {
		return -1
	}
	for i, n := range m.SelectedNode.Parent.Children {
		if n == m.SelectedNode {
			return i
		}
	}
	return -1
}

func (m *TreeModel) moveSelection(delta int) {
	i := m.selectedIndex()
	if i < 0 {
		return
	}
	siblings := m.SelectedNode.Parent.Children
	if next := i + delta; next >= 0 && next < len(siblings) {
		m.SelectedNode = siblings[next]
	}
}

func (m *TreeModel) enterChildren() {
	if m.SelectedNode != nil && len(m.SelectedNode.Children) > 0 {
		m.SelectedNode = m.SelectedNode.Children[0]
		m.ScrollOffset = 0
	}
}

func (m *TreeModel) leaveChildren() {
	if m.SelectedNode != nil && m.SelectedNode.Parent != nil && m.SelectedNode.Parent != m.Root {
		m.SelectedNode = m.SelectedNode.Parent
		m.ScrollOffset = 0
	}
}

// columns returns the nodes whose children are shown, leftmost first.
func (m TreeModel) columns() []*TreeNode {
	var cols []*TreeNode
	for n := m.SelectedNode; n != nil && n.Parent != nil; n = n.Parent {
		cols = append([]*TreeNode{n.Parent}, cols...)
	}
	if m.SelectedNode != nil && len(m.SelectedNode.Children) > 0 {
		cols = append(cols, m.SelectedNode)
	}
	return cols
}

func columnWidth(n *TreeNode) int {
	w := minColWidth
	for _, c := range n.Children {
		if cw := len([]rune(c.Name)) + 4; cw > w {
			w = cw
		}
	}
	if w > maxColWidth {
		w = maxColWidth
	}
	return w
}

func (m TreeModel) onPath(n *TreeNode) bool {
	for curr := m.SelectedNode; curr != nil; curr = curr.Parent {
		if curr == n {
			return true
		}
	}
	return false
}

func (m TreeModel) View() string {
	if m.Root == nil || len(m.Root.Children) == 0 {
		return dimStyle.Render("  empty vault")
	}

	cols := m.columns()
	widths := make([]int, len(cols))
	total := 0
	for i, c := range cols {
		widths[i] = columnWidth(c)
		total += widths[i]
	}

	// Steps to the left slide off-screen, keeping the selected column visible.
	start := 0
	selectedCol := len(cols) - 1
	if len(m.SelectedNode.Children) > 0 {
		selectedCol--
	}
	for m.Width > 0 && total > m.Width && start < selectedCol {
		total -= widths[start]
		start++
	}

	rendered := make([]string, 0, len(cols)-start)
	for i := start; i < len(cols); i++ {
		offset := 0
		if i == selectedCol {
			offset = m.ScrollOffset
		}
		rendered = append(rendered, m.renderColumn(cols[i], widths[i], offset))
	}

	help := dimStyle.Render("h/j/k/l: move • Enter: open • Esc: quit")
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, rendered...),
		help,
	)
}

func (m TreeModel) renderColumn(parent *TreeNode, width, offset int) string {
	end := len(parent.Children)
	if m.Height > 0 && offset+m.Height < end {
		end = offset + m.Height
	}

	lines := make([]string, 0, end-offset)
	for _, n := range parent.Children[offset:end] {
		cursor := "  "
		var style lipgloss.Style
		switch {
		case n == m.SelectedNode:
			cursor = cursorStyle.Render("> ")
			style = selectedStyle
		case m.onPath(n):
			style = vaultStyle
		case n.IsHistory:
			style = historyStyle
		case !n.Exists:
			style = dimStyle
		default:
			style = pathStyle
		}

		name := n.Name
		if len(n.Children) > 0 {
			name += "/"
		}
		lines = append(lines, cursor+style.Render(truncate(name, width-3)))
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}
