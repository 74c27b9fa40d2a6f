// Package vault loads directories of hierarchical Markdown notes and exposes
// them to the lookup as collections.
package vault

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/montrey/notenav/logger"
	"github.com/montrey/notenav/search"
)

// Vault is a directory of notes named by dotted hierarchy, such as
// proj.alpha.todo.md. Ancestors without a file of their own appear as
// placeholder entries.
type Vault struct {
	Name string
	Root string

	separator string
	logger    *zap.SugaredLogger

	mu      sync.RWMutex
	tree    *node
	files   map[string]string // entry path -> file relative to Root
	entries []search.Entry
}

type node struct {
	path     string
	title    string
	exists   bool
	children map[string]*node
}

// Option configures a Vault.
type Option func(*Vault)

// WithSeparator sets the hierarchy separator used in note names.
func WithSeparator(sep string) Option {
	return func(v *Vault) { v.separator = sep }
}

// WithLogger sets the logger used to report unreadable notes.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(v *Vault) { v.logger = l }
}

// Open walks root and builds the vault snapshot.
func Open(name, root string, opts ...Option) (*Vault, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve vault root %s", root)
	}
	v := &Vault{
		Name:      name,
		Root:      abs,
		separator: ".",
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}

	if err := v.Reload(); err != nil {
		return nil, err
	}
	return v, nil
}

// Reload rebuilds the snapshot from disk.
func (v *Vault) Reload() error {
	files, err := Walk(v.Root)
	if err != nil {
		return err
	}

	tree := &node{children: make(map[string]*node)}
	index := make(map[string]string, len(files))
	for _, rel := range files {
		path := v.entryPath(rel)
		if path == "" {
			continue
		}
		title := v.readTitle(rel)
		v.insert(tree, path, title)
		index[path] = rel
	}

	entries := flatten(tree)
	v.mu.Lock()
	v.tree = tree
	v.files = index
	v.entries = entries
	v.mu.Unlock()

	v.logger.Debugw("vault loaded", logger.FieldVault, v.Name, "notes", len(files), logger.FieldCount, len(entries))
	return nil
}

// FlattenEntries yields the entries depth first, parents before children and
// siblings by name.
func (v *Vault) FlattenEntries() []search.Entry {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]search.Entry(nil), v.entries...)
}

// Separator returns the hierarchy separator of note names.
func (v *Vault) Separator() string { return v.separator }

// NotePath returns the absolute file backing the entry at path, or the file
// a new note at path would be written to.
func (v *Vault) NotePath(path string) string {
	v.mu.RLock()
	rel, ok := v.files[path]
	v.mu.RUnlock()
	if !ok {
		rel = path + NoteExt
	}
	return filepath.Join(v.Root, filepath.FromSlash(rel))
}

// entryPath maps a note file such as "proj/alpha.todo.md" to "proj.alpha.todo".
func (v *Vault) entryPath(rel string) string {
	stem := strings.TrimSuffix(rel, filepath.Ext(rel))
	segments := strings.Split(stem, "/")
	var parts []string
	for _, s := range segments {
		parts = append(parts, strings.Split(s, v.separator)...)
	}
	if lo.Contains(parts, "") {
		v.logger.Debugw("skipping note with empty segment", logger.FieldVault, v.Name, logger.FieldFile, rel)
		return ""
	}
	return strings.Join(parts, v.separator)
}

func (v *Vault) readTitle(rel string) string {
	data, err := os.ReadFile(filepath.Join(v.Root, filepath.FromSlash(rel)))
	if err != nil {
		v.logger.Warnw("unreadable note", logger.FieldVault, v.Name, logger.FieldFile, rel, logger.FieldError, err)
		return ""
	}
	fm, err := ParseFrontMatter(data)
	if err != nil {
		v.logger.Warnw("bad front matter", logger.FieldVault, v.Name, logger.FieldFile, rel, logger.FieldError, err)
		return ""
	}
	return strings.TrimSpace(fm.Title)
}

// insert adds path to tree, creating placeholder ancestors as needed.
func (v *Vault) insert(tree *node, path, title string) {
	current := tree
	parts := strings.Split(path, v.separator)
	for i, part := range parts {
		child, ok := current.children[part]
		if !ok {
			child = &node{
				path:     strings.Join(parts[:i+1], v.separator),
				title:    part,
				children: make(map[string]*node),
			}
			current.children[part] = child
		}
		current = child
	}
	current.exists = true
	if title != "" {
		current.title = title
	}
}

func flatten(tree *node) []search.Entry {
	var out []search.Entry
	var walk func(n *node)
	walk = func(n *node) {
		names := lo.Keys(n.children)
		sort.Strings(names)
		for _, name := range names {
			child := n.children[name]
			out = append(out, search.Entry{Path: child.path, Title: child.title, Exists: child.exists})
			walk(child)
		}
	}
	walk(tree)
	return out
}
