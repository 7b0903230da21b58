package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vkarpov/plantmind/internal/db"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the PlantMind database",
		Long:  "Migrates all tables and seeds the diagnostic type catalog from configuration.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "plantmind.yaml", "path to PlantMind config file")
	return cmd
}

func runDBInit(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))

	if len(cfg.Types) > 0 {
		if err := db.SeedTypes(gormDB, cfg.Types); err != nil {
			return err
		}
		fmt.Fprintf(out, "Seeded %d diagnostic types:", len(cfg.Types))
		for _, t := range cfg.Types {
			fmt.Fprintf(out, " %s", t.Code)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "Database ready")
	return nil
}
