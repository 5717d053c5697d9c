package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/clearline-dev/clearline/internal/config"
	"github.com/clearline-dev/clearline/internal/store"
)

func newInitCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new Clearline project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runInit(dir, name string) error {
	cfg := config.Default(name)
	cfg.Database.Path = filepath.Join(dir, "clearline.db")

	if err := config.Save(filepath.Join(dir, "clearline.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	defer st.Close()

	fmt.Printf("Initialized Clearline project in %s\n", dir)
	return nil
}
