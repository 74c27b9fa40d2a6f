package ui

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/montrey/notenav/logger"
	"github.com/montrey/notenav/search"
	"github.com/montrey/notenav/store"
	"github.com/montrey/notenav/vault"
)

// Selection is the outcome of a lookup session.
type Selection struct {
	Vault   *vault.Vault
	Path    string
	File    string
	Created bool
}

type viewMode int

const (
	modeLookup viewMode = iota
	modePickVault
)

type resultsMsg struct {
	seq     int
	query   search.Query
	results []search.Result
}

type historyLoadedMsg map[string]bool

// LookupModel is the jump-to-or-create prompt.
type LookupModel struct {
	resolver    *search.Resolver
	vaults      []*vault.Vault
	collections []search.Collection
	db          *sql.DB
	logger      *zap.SugaredLogger

	input   textinput.Model
	list    ResultList
	history map[string]bool
	seq     int
	width   int
	height  int

	mode        viewMode
	pending     string // path awaiting a vault choice
	vaultCursor int

	selection *Selection
	err       error
}

// NewLookupModel creates the lookup over vaults. db may be nil, in which case
// history is neither shown nor recorded.
func NewLookupModel(resolver *search.Resolver, vaults []*vault.Vault, db *sql.DB, log *zap.SugaredLogger) LookupModel {
	ti := textinput.New()
	ti.Placeholder = "Lookup note... (?title to search titles)"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 40

	collections := make([]search.Collection, len(vaults))
	for i, v := range vaults {
		collections[i] = v
	}
	if log == nil {
		log = logger.Nop()
	}

	return LookupModel{
		resolver:    resolver,
		vaults:      vaults,
		collections: collections,
		db:          db,
		logger:      log,
		input:       ti,
		list:        NewResultList(80, 20),
		history:     make(map[string]bool),
	}
}

// Selection returns the chosen or created note, if any.
func (m LookupModel) Selection() (Selection, bool) {
	if m.selection == nil {
		return Selection{}, false
	}
	return *m.selection, true
}

func (m LookupModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, loadHistory(m.db), m.searchCmd())
}

func historyKey(vaultName, path string) string {
	return vaultName + "\x00" + path
}

func loadHistory(db *sql.DB) tea.Cmd {
	return func() tea.Msg {
		if db == nil {
			return historyLoadedMsg(nil)
		}
		recent, err := store.GetRecentHistory(db, 100)
		if err != nil {
			return historyLoadedMsg(nil)
		}
		set := make(map[string]bool, len(recent))
		for _, h := range recent {
			set[historyKey(h.Vault, h.Path)] = true
		}
		return historyLoadedMsg(set)
	}
}

// searchCmd resolves the current input. Results carry the sequence number
// of the keystroke so that answers to superseded keystrokes are dropped.
func (m LookupModel) searchCmd() tea.Cmd {
	seq := m.seq
	raw := m.input.Value()
	resolver := m.resolver
	collections := m.collections
	return func() tea.Msg {
		return resultsMsg{
			seq:     seq,
			query:   resolver.Classify(raw),
			results: resolver.Resolve(raw, collections),
		}
	}
}

func (m LookupModel) rows(results []search.Result) []Row {
	rows := make([]Row, len(results))
	for i, r := range results {
		rows[i] = Row{Result: r}
		if f, ok := r.(search.Found); ok && f.Collection < len(m.vaults) {
			name := m.vaults[f.Collection].Name
			rows[i].Vault = name
			rows[i].IsHistory = m.history[historyKey(name, f.Path)]
		}
	}
	return rows
}

func (m LookupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case resultsMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.list.SetRows(m.rows(msg.results), msg.query, len(m.vaults) > 1)

	case historyLoadedMsg:
		if msg != nil {
			m.history = msg
			for i, row := range m.list.Rows {
				if f, ok := row.Result.(search.Found); ok {
					m.list.Rows[i].IsHistory = m.history[historyKey(row.Vault, f.Path)]
				}
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		m.list.Width = msg.Width
		if h := msg.Height - 3; h > 0 {
			m.list.Height = h
		}

	case tea.KeyMsg:
		if m.mode == modePickVault {
			return m.updatePickVault(msg)
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.choose()
		case "up", "down", "ctrl+p", "ctrl+n", "tab", "shift+tab", "pgup", "pgdown":
			m.list, _ = m.list.Update(msg)
		default:
			old := m.input.Value()
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
			if m.input.Value() != old {
				m.err = nil
				m.seq++
				cmds = append(cmds, m.searchCmd())
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func (m LookupModel) choose() (tea.Model, tea.Cmd) {
	row, ok := m.list.SelectedRow()
	if !ok {
		return m, nil
	}

	switch r := row.Result.(type) {
	case search.CreatePlaceholder:
		path := strings.TrimSpace(m.input.Value())
		switch len(m.vaults) {
		case 0:
			m.err = errors.WithHint(errors.New("no vault to create the note in"), "add one with: notenav vault add <name> <path>")
			return m, nil
		case 1:
			return m.create(m.vaults[0], path)
		default:
			m.mode = modePickVault
			m.pending = path
			m.vaultCursor = 0
			return m, nil
		}

	case search.Found:
		if r.Collection >= len(m.vaults) {
			return m, nil
		}
		v := m.vaults[r.Collection]
		if !r.Exists {
			return m.create(v, r.Path)
		}
		m.record(v.Name, r.Path)
		m.selection = &Selection{Vault: v, Path: r.Path, File: v.NotePath(r.Path)}
		return m, tea.Quit
	}
	return m, nil
}

func (m LookupModel) create(v *vault.Vault, path string) (tea.Model, tea.Cmd) {
	file, err := v.Create(path)
	if err != nil {
		m.logger.Warnw("create note failed", logger.FieldVault, v.Name, logger.FieldPath, path, logger.FieldError, err)
		m.err = err
		m.mode = modeLookup
		return m, nil
	}
	m.record(v.Name, path)
	if m.db != nil {
		if err := store.SetSetting(m.db, store.SettingLastVault, v.Name); err != nil {
			m.logger.Warnw("remember vault failed", logger.FieldVault, v.Name, logger.FieldError, err)
		}
	}
	m.selection = &Selection{Vault: v, Path: path, File: file, Created: true}
	return m, tea.Quit
}

func (m LookupModel) record(vaultName, path string) {
	if m.db == nil {
		return
	}
	if err := store.UpdateFrecency(m.db, vaultName, path); err != nil {
		m.logger.Warnw("record history failed", logger.FieldVault, vaultName, logger.FieldPath, path, logger.FieldError, err)
	}
}

func (m LookupModel) updatePickVault(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.mode = modeLookup
		m.pending = ""
	case "up", "ctrl+p":
		if m.vaultCursor > 0 {
			m.vaultCursor--
		}
	case "down", "ctrl+n":
		if m.vaultCursor < len(m.vaults)-1 {
			m.vaultCursor++
		}
	case "enter":
		return m.create(m.vaults[m.vaultCursor], m.pending)
	}
	return m, nil
}

func (m LookupModel) View() string {
	if m.mode == modePickVault {
		return m.pickVaultView()
	}

	status := dimStyle.Render("Enter: open/create • ↑/↓: move • Esc: quit")
	if m.err != nil {
		status = errorStyle.Render(errorText(m.err))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.input.View(),
		m.list.View(),
		status,
	)
}

func (m LookupModel) pickVaultView() string {
	title := titleStyle.Render(fmt.Sprintf("Create %q in which vault?", m.pending))
	help := dimStyle.Render("Enter: create • Esc: back")

	lines := make([]string, len(m.vaults))
	for i, v := range m.vaults {
		prefix := "  "
		style := pathStyle
		if i == m.vaultCursor {
			prefix = cursorStyle.Render("> ")
			style = selectedStyle
		}
		lines[i] = prefix + style.Render(v.Name) + dimStyle.Render("  "+v.Root)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		help,
		strings.Join(lines, "\n"),
	)
}

func errorText(err error) string {
	msg := err.Error()
	if hints := errors.FlattenHints(err); hints != "" {
		msg += " (" + hints + ")"
	}
	return msg
}
