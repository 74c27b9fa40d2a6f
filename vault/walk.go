package vault

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/monochromegane/go-gitignore"
)

// NoteExt is the file extension of notes.
const NoteExt = ".md"

// Walk traverses the vault rooted at root and returns the slash-separated
// relative paths of its notes. It respects .gitignore if found in the root
// directory.
func Walk(root string) ([]string, error) {
	var notes []string
	var ignoreMatcher gitignore.IgnoreMatcher

	gitignorePath := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		ignoreMatcher, _ = gitignore.NewGitIgnore(gitignorePath, root)
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // Skip unreadable entries to keep partial results
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil || relPath == "." {
			return nil
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if d.Name() == "node_modules" || d.Name() == "vendor" {
				return filepath.SkipDir
			}
		}

		if ignoreMatcher != nil && ignoreMatcher.Match(path, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), NoteExt) {
			return nil
		}

		notes = append(notes, filepath.ToSlash(relPath))
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk vault %s", root)
	}

	return notes, nil
}
