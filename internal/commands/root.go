// Package commands wires the clearline CLI.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/clearline-dev/clearline/internal/bankprofile"
	"github.com/clearline-dev/clearline/internal/buildinfo"
	"github.com/clearline-dev/clearline/internal/config"
	"github.com/clearline-dev/clearline/internal/store"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "clearline",
		Short:   "Small business bank reconciliation",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAccountCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newReconcileCommand())
	rootCmd.AddCommand(newMatchCommand())

	return rootCmd
}

// env holds everything a command needs once configuration is loaded.
type env struct {
	cfg      *config.Config
	store    *store.Store
	profiles *bankprofile.Registry
	log      *slog.Logger
}

// openEnv loads clearline.yaml, opens the database, and builds the
// profile registry with any configured overlays. CLEARLINE_DB (from the
// environment or a .env file) overrides the configured database path.
func openEnv(configPath string) (*env, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	dbPath := cfg.Database.Path
	if p := os.Getenv("CLEARLINE_DB"); p != "" {
		dbPath = p
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	profiles := bankprofile.NewRegistry()
	for _, p := range cfg.Profiles {
		profiles.Register(bankprofile.Profile{
			Key:               p.Key,
			DateColumn:        p.DateColumn,
			DescriptionColumn: p.DescriptionColumn,
			ReferenceColumn:   p.ReferenceColumn,
			DebitColumn:       p.DebitColumn,
			CreditColumn:      p.CreditColumn,
			AmountColumn:      p.AmountColumn,
			BalanceColumn:     p.BalanceColumn,
			DateFormat:        p.DateFormat,
		})
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return &env{cfg: cfg, store: st, profiles: profiles, log: log}, nil
}

func (e *env) close() {
	e.store.Close()
}
