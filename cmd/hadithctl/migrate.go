package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shuvoedward/hadith_search/internal/data"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the PostgreSQL schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := data.MigrateUp(db, cfg.migrations); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		cmd.Println("Migrations applied.")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateSteps < 1 {
			return fmt.Errorf("steps must be at least 1")
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := data.MigrateDown(db, cfg.migrations, migrateSteps); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		cmd.Printf("Rolled back %d migration(s).\n", migrateSteps)
		return nil
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		version, dirty, err := data.MigrationVersion(db, cfg.migrations)
		if err != nil {
			return err
		}

		if dirty {
			cmd.Printf("%d (dirty)\n", version)
			return nil
		}
		cmd.Println(version)
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to roll back")

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}
