package vault

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/montrey/notenav/logger"
)

var (
	// ErrExists is returned when creating a note that is already on disk.
	ErrExists = errors.New("note already exists")
	// ErrInvalidPath is returned for paths that cannot name a note.
	ErrInvalidPath = errors.New("invalid note path")
)

// Create writes a new note at path and adds it to the snapshot. It returns
// the absolute file name of the note.
func (v *Vault) Create(path string) (string, error) {
	path = strings.TrimSpace(path)
	if err := v.validate(path); err != nil {
		return "", err
	}

	v.mu.RLock()
	_, known := v.files[path]
	v.mu.RUnlock()
	if known {
		return "", errors.Wrapf(ErrExists, "%s in vault %s", path, v.Name)
	}

	file := filepath.Join(v.Root, filepath.FromSlash(path+NoteExt))
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return "", errors.Wrapf(err, "create directory for %s", path)
	}
	now := time.Now().UnixMilli()
	parts := strings.Split(path, v.separator)
	doc, err := FrontMatter{
		ID:      uuid.NewString(),
		Title:   parts[len(parts)-1],
		Created: now,
		Updated: now,
	}.render()
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(file, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", errors.Wrapf(ErrExists, "%s in vault %s", path, v.Name)
		}
		return "", errors.Wrapf(err, "create note %s", file)
	}
	if _, err := f.Write(doc); err != nil {
		f.Close()
		return "", errors.Wrapf(err, "write note %s", file)
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrapf(err, "close note %s", file)
	}

	v.mu.Lock()
	if v.tree == nil {
		v.tree = &node{children: make(map[string]*node)}
		v.files = make(map[string]string)
	}
	v.insert(v.tree, path, "")
	v.files[path] = path + NoteExt
	v.entries = flatten(v.tree)
	v.mu.Unlock()

	v.logger.Infow("note created", logger.FieldVault, v.Name, logger.FieldPath, path, logger.FieldFile, file)
	return file, nil
}

func (v *Vault) validate(path string) error {
	if path == "" {
		return errors.WithHint(errors.Wrap(ErrInvalidPath, "empty path"), "type a note name such as proj.todo")
	}
	if strings.Contains(path, `\`) || (v.separator != "/" && strings.Contains(path, "/")) {
		return errors.Wrapf(ErrInvalidPath, "%q", path)
	}
	for _, part := range strings.Split(path, v.separator) {
		if part == "" {
			return errors.Wrapf(ErrInvalidPath, "%q has an empty segment", path)
		}
		if part == "." || part == ".." {
			return errors.Wrapf(ErrInvalidPath, "%q leaves the vault", path)
		}
	}
	return nil
}
