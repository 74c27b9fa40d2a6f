package main

import (
	"database/sql"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/montrey/notenav/config"
	"github.com/montrey/notenav/logger"
	"github.com/montrey/notenav/search"
	"github.com/montrey/notenav/store"
	"github.com/montrey/notenav/vault"
)

// app holds what every command needs once configuration is loaded.
type app struct {
	cfg      *config.Config
	log      *zap.SugaredLogger
	db       *sql.DB
	resolver *search.Resolver
}

func newApp(v *viper.Viper, configFile string) (*app, error) {
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, err
	}

	db, err := store.InitDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	resolver := search.NewResolver(
		search.WithSeparator(cfg.Lookup.Separator),
		search.WithTitleMarker(cfg.Lookup.TitleMarker),
		search.WithMaxDistance(cfg.Lookup.MaxDistance),
		search.WithLogger(logger.Named(log, "lookup")),
	)

	return &app{cfg: cfg, log: log, db: db, resolver: resolver}, nil
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	_ = a.log.Sync()
}

// vaultSources merges vaults from the config file with registered ones.
// Config entries come first and win on name clashes.
func (a *app) vaultSources() ([]store.VaultRecord, error) {
	registered, err := store.GetVaults(a.db)
	if err != nil {
		return nil, err
	}
	declared := lo.Map(a.cfg.Vaults, func(vc config.VaultConfig, _ int) store.VaultRecord {
		return store.VaultRecord{Name: strings.TrimSpace(vc.Name), Root: vc.Path}
	})
	return lo.UniqBy(append(declared, registered...), func(r store.VaultRecord) string {
		return r.Name
	}), nil
}

// openVaults loads every known vault. Vaults that fail to load are reported
// and skipped.
func (a *app) openVaults() ([]*vault.Vault, error) {
	sources, err := a.vaultSources()
	if err != nil {
		return nil, err
	}

	vaultLog := logger.Named(a.log, "vault")
	var vaults []*vault.Vault
	for _, src := range sources {
		v, err := vault.Open(src.Name, expandHome(src.Root),
			vault.WithSeparator(a.cfg.Lookup.Separator),
			vault.WithLogger(vaultLog),
		)
		if err != nil {
			a.log.Warnw("skipping vault", logger.FieldVault, src.Name, logger.FieldPath, src.Root, logger.FieldError, err)
			fmt.Fprintf(os.Stderr, "warning: skipping vault %s: %v\n", src.Name, err)
			continue
		}
		vaults = append(vaults, v)
	}
	return vaults, nil
}

func (a *app) collections(vaults []*vault.Vault) []search.Collection {
	return lo.Map(vaults, func(v *vault.Vault, _ int) search.Collection { return v })
}

// editorCmd returns the persisted editor command, falling back to config.
func (a *app) editorCmd() string {
	if v, _ := store.GetSetting(a.db, store.SettingEditorCmd); v != "" {
		return v
	}
	return a.cfg.EditorCmd
}

// openInEditor runs the editor template with {path} replaced by file.
func (a *app) openInEditor(file string) error {
	argv, err := editorArgs(a.editorCmd(), file)
	if err != nil {
		return err
	}
	a.log.Infow("opening note", logger.FieldFile, file, "editor", argv[0])

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "run editor %s", argv[0])
	}
	return nil
}

// editorArgs splits template into argv and substitutes {path}. A template
// without a placeholder gets the file appended.
func editorArgs(template, file string) ([]string, error) {
	words, err := shellquote.Split(template)
	if err != nil {
		return nil, errors.Wrapf(err, "parse editor command %q", template)
	}
	if len(words) == 0 {
		return nil, errors.WithHint(errors.New("empty editor command"), "set editor_cmd in the config file")
	}

	substituted := false
	for i, w := range words {
		if strings.Contains(w, "{path}") {
			words[i] = strings.ReplaceAll(w, "{path}", file)
			substituted = true
		}
	}
	if !substituted {
		words = append(words, file)
	}
	return words, nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	}
	return path
}

// describeResult renders a result for plain output.
func describeResult(r search.Result, vaults []*vault.Vault, raw string) string {
	switch v := r.(type) {
	case search.CreatePlaceholder:
		return "+ create " + strings.TrimSpace(raw)
	case search.Found:
		name := ""
		if v.Collection < len(vaults) {
			name = vaults[v.Collection].Name
		}
		line := name + ":" + v.Path
		if !v.Exists {
			line += " (stub)"
		}
		return line
	}
	return ""
}
