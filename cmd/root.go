package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/officespace/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "officespace",
	Short: "Interactive office floor plan and occupancy tracker",
	Long: `officespace draws the offices of each floor on a fixed grid, shows who
sits where and lets you add, edit and remove occupants from a browser, the
command line or an AI agent over MCP.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
