package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/montrey/notenav/logger"
	"github.com/montrey/notenav/store"
	"github.com/montrey/notenav/ui"
	"github.com/montrey/notenav/vault"
)

type rootOptions struct {
	configFile string
	print      bool
	limit      int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	v := viper.New()
	var a *app

	cmd := &cobra.Command{
		Use:   "notenav [query...]",
		Short: "Jump to or create hierarchical notes",
		Long: `Look up notes named by dotted hierarchy (proj.alpha.todo) across vaults.

Without a query an interactive lookup opens. With a query the ranked
matches are printed, one per line, with "+ create <query>" first when
no note has exactly that name. Prefix the query with ? to match titles.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp(v, opts.configFile)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a != nil {
				a.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return runQuery(cmd, a, strings.Join(args, " "), opts.limit)
			}
			return runLookup(cmd, a, opts.print)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (default $XDG_CONFIG_HOME/notenav/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	_ = v.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	cmd.Flags().BoolVarP(&opts.print, "print", "p", false, "print the chosen note instead of opening it")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 20, "maximum results printed for a query (0 for all)")

	cmd.AddCommand(
		newVaultCmd(func() *app { return a }),
		newNewCmd(func() *app { return a }),
		newEditorCmd(func() *app { return a }),
		newTreeCmd(func() *app { return a }),
	)
	return cmd
}

func runQuery(cmd *cobra.Command, a *app, raw string, limit int) error {
	vaults, err := a.openVaults()
	if err != nil {
		return err
	}
	results := a.resolver.Resolve(raw, a.collections(vaults))
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	for _, r := range results {
		fmt.Fprintln(cmd.OutOrStdout(), describeResult(r, vaults, raw))
	}
	return nil
}

func runLookup(cmd *cobra.Command, a *app, printOnly bool) error {
	vaults, err := a.openVaults()
	if err != nil {
		return err
	}

	model := ui.NewLookupModel(a.resolver, vaults, a.db, logger.Named(a.log, "ui"))
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return errors.Wrap(err, "run lookup")
	}

	m, ok := final.(ui.LookupModel)
	if !ok {
		return nil
	}
	sel, ok := m.Selection()
	if !ok {
		return nil
	}
	if printOnly {
		fmt.Fprintln(cmd.OutOrStdout(), sel.File)
		return nil
	}
	return a.openInEditor(sel.File)
}

func newVaultCmd(getApp func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Manage registered vaults",
	}

	add := &cobra.Command{
		Use:   "add <name> <path>",
		Short: "Register a directory of notes as a vault",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("vault name is empty")
			}
			root, err := filepath.Abs(expandHome(args[1]))
			if err != nil {
				return errors.Wrapf(err, "resolve %s", args[1])
			}
			info, err := os.Stat(root)
			if err != nil {
				return errors.Wrapf(err, "vault root %s", root)
			}
			if !info.IsDir() {
				return errors.Newf("vault root %s is not a directory", root)
			}
			if err := store.AddVault(getApp().db, name, root); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added vault %s at %s\n", name, root)
			return nil
		},
	}

	rm := &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove"},
		Short:   "Unregister a vault (notes on disk are kept)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := store.RemoveVault(getApp().db, args[0])
			if err != nil {
				return err
			}
			if !removed {
				return errors.WithHint(
					errors.Newf("vault %s is not registered", args[0]),
					"vaults declared in the config file are removed by editing it",
				)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed vault %s\n", args[0])
			return nil
		},
	}

	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List known vaults",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := getApp().vaultSources()
			if err != nil {
				return err
			}
			for _, s := range sources {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", s.Name, s.Root)
			}
			return nil
		},
	}

	cmd.AddCommand(add, rm, ls)
	return cmd
}

func newNewCmd(getApp func() *app) *cobra.Command {
	var vaultName string
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "new <path>",
		Short: "Create a note without the interactive lookup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			vaults, err := a.openVaults()
			if err != nil {
				return err
			}
			target, err := pickVault(a, vaults, vaultName)
			if err != nil {
				return err
			}

			file, err := target.Create(args[0])
			if err != nil {
				return err
			}
			path := strings.TrimSpace(args[0])
			if err := store.UpdateFrecency(a.db, target.Name, path); err != nil {
				a.log.Warnw("record history failed", logger.FieldVault, target.Name, logger.FieldPath, path, logger.FieldError, err)
			}
			if err := store.SetSetting(a.db, store.SettingLastVault, target.Name); err != nil {
				a.log.Warnw("remember vault failed", logger.FieldVault, target.Name, logger.FieldError, err)
			}

			if printOnly {
				fmt.Fprintln(cmd.OutOrStdout(), file)
				return nil
			}
			return a.openInEditor(file)
		},
	}

	cmd.Flags().StringVarP(&vaultName, "vault", "v", "", "vault to create the note in (default: last used)")
	cmd.Flags().BoolVarP(&printOnly, "print", "p", false, "print the new file instead of opening it")
	return cmd
}

// pickVault chooses the vault named name, else the last used vault, else the
// only vault.
func pickVault(a *app, vaults []*vault.Vault, name string) (*vault.Vault, error) {
	if len(vaults) == 0 {
		return nil, errors.WithHint(errors.New("no vaults available"), "add one with: notenav vault add <name> <path>")
	}

	if name == "" {
		last, err := store.GetSetting(a.db, store.SettingLastVault)
		if err != nil {
			return nil, err
		}
		if _, ok := lo.Find(vaults, func(v *vault.Vault) bool { return v.Name == last }); ok {
			name = last
		} else if len(vaults) == 1 {
			return vaults[0], nil
		}
	}

	if v, ok := lo.Find(vaults, func(v *vault.Vault) bool { return v.Name == name }); ok {
		return v, nil
	}
	names := lo.Map(vaults, func(v *vault.Vault, _ int) string { return v.Name })
	if name == "" {
		return nil, errors.WithHintf(errors.New("several vaults available"), "choose one with --vault: %s", strings.Join(names, ", "))
	}
	return nil, errors.WithHintf(errors.Newf("unknown vault %s", name), "known vaults: %s", strings.Join(names, ", "))
}

func newEditorCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "editor [command]",
		Short: "Show or persist the editor command ({path} is replaced by the note)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), a.editorCmd())
				return nil
			}
			if _, err := editorArgs(args[0], "x"); err != nil {
				return err
			}
			return store.SetSetting(a.db, store.SettingEditorCmd, args[0])
		},
	}
}

func newTreeCmd(getApp func() *app) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "tree [vault]",
		Short: "Browse a vault hierarchy",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			vaults, err := a.openVaults()
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			target, err := pickVault(a, vaults, name)
			if err != nil {
				return err
			}

			recent, err := store.GetRecentHistory(a.db, 100)
			if err != nil {
				return err
			}
			history := make(map[string]bool)
			for _, h := range recent {
				if h.Vault == target.Name {
					history[h.Path] = true
				}
			}

			model := ui.NewTreeModel(target.FlattenEntries(), target.Separator(), 80, 20, history)
			final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
			if err != nil {
				return errors.Wrap(err, "run tree")
			}
			node, ok := final.(ui.TreeModel).Chosen()
			if !ok {
				return nil
			}

			file := target.NotePath(node.Path)
			if !node.Exists {
				if file, err = target.Create(node.Path); err != nil {
					return err
				}
			}
			if err := store.UpdateFrecency(a.db, target.Name, node.Path); err != nil {
				a.log.Warnw("record history failed", logger.FieldVault, target.Name, logger.FieldPath, node.Path, logger.FieldError, err)
			}
			if printOnly {
				fmt.Fprintln(cmd.OutOrStdout(), file)
				return nil
			}
			return a.openInEditor(file)
		},
	}

	cmd.Flags().BoolVarP(&printOnly, "print", "p", false, "print the chosen note instead of opening it")
	return cmd
}
