package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to officespace! Let's configure your floor plan server.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Port.
	portPrompt := promptui.Prompt{
		Label:    "HTTP port",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 2. Database location.
	dbPrompt := promptui.Prompt{
		Label:   "SQLite database path",
		Default: cfg.Database.Path,
	}
	cfg.Database.Path, err = dbPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("database path: %w", err)
	}

	// 3. Floors file.
	floorsPrompt := promptui.Prompt{
		Label:   "Floors file (leave blank for the built-in 3rd/4th floor lists)",
		Default: "",
	}
	cfg.FloorsFile, err = floorsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("floors file: %w", err)
	}
	cfg.FloorsFile = strings.TrimSpace(cfg.FloorsFile)
	if cfg.FloorsFile != "" {
		if _, err := os.Stat(cfg.FloorsFile); err != nil {
			fmt.Printf("Note: %s does not exist yet; create it before starting the server.\n", cfg.FloorsFile)
		}
	}

	// 4. Offices per row.
	perRowPrompt := promptui.Prompt{
		Label:   "Offices per row",
		Default: strconv.Itoa(cfg.Grid.PerRow),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				return fmt.Errorf("must be a positive number")
			}
			return nil
		},
	}
	perRowStr, err := perRowPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("offices per row: %w", err)
	}
	cfg.Grid.PerRow, _ = strconv.Atoi(perRowStr)

	// 5. Log format.
	formatPrompt := promptui.Select{
		Label: "Log format",
		Items: []string{"console", "json"},
	}
	_, cfg.Log.Format, err = formatPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("log format: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	fmt.Println("Next: run `officespace init-db` and `officespace import <assignments.csv>`.")
	return cfg, nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}
