package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/officespace/internal/config"
	"github.com/ziadkadry99/officespace/internal/db"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize officespace configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the server, database and floor grid, and writes the result to the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Drop and recreate the occupancy database",
	Long:  `Deletes every office assignment and audit entry and recreates the schema. Asks for confirmation unless --yes is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			ok, err := confirm(fmt.Sprintf("Reset database %s", cfg.Database.Path))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Aborted.")
				return nil
			}
		}

		database, err := db.Open(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		if err := database.Reset(); err != nil {
			return fmt.Errorf("resetting database: %w", err)
		}
		fmt.Printf("Initialized database at %s\n", database.Path())
		return nil
	},
}

func init() {
	initDBCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(initDBCmd)
}
