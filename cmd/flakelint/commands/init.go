package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tigredonorte/flakelint/internal/config"
	"github.com/tigredonorte/flakelint/pkg/rules"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize flakelint configuration interactively",
	Long: `Guides you through setting up flakelint configuration step by step.
Creates a config file with the framework override, disabled rules and
cache settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInitConfig()
	},
}

func runInitConfig() error {
	// === SECTION 1: Framework ===
	framework := ""
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Test framework").
				Description("Auto-detect inspects each file's imports and globals").
				Options(
					huh.NewOption("Auto-detect per file", ""),
					huh.NewOption("Jest", "jest"),
					huh.NewOption("Vitest", "vitest"),
					huh.NewOption("Mocha", "mocha"),
					huh.NewOption("Jasmine", "jasmine"),
					huh.NewOption("Cypress", "cypress"),
					huh.NewOption("Playwright", "playwright"),
					huh.NewOption("AVA", "ava"),
				).
				Value(&framework),
		),
	)
	err := form.Run()
	if err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	// === SECTION 2: Rules ===
	var disabled []string
	options := make([]huh.Option[string], 0, len(rules.Names()))
	for _, name := range rules.Names() {
		options = append(options, huh.NewOption(name, name))
	}
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Rules to disable").
				Description("Every rule runs by default; select any to turn off").
				Options(options...).
				Value(&disabled),
		),
	)
	err = form.Run()
	if err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	// === SECTION 3: Cache ===
	useCache := true
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Result cache").
				Description("Cache findings per file so unchanged files are skipped?").
				Affirmative("Yes, cache under .flakelint/").
				Negative("No, always re-analyze").
				Value(&useCache),
		),
	)
	err = form.Run()
	if err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	// === SECTION 4: Config Location ===
	var saveLocationChoice string
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Save Configuration").
				Description("Where to save the configuration file?").
				Options(
					huh.NewOption("Project (./.flakelint.yaml)", "project"),
					huh.NewOption("Global (~/.flakelint/config.yaml)", "global"),
				).
				Value(&saveLocationChoice),
		),
	)
	err = form.Run()
	if err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	var configPath string
	if saveLocationChoice == "global" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}
		configPath = filepath.Join(home, ".flakelint", "config.yaml")
	} else {
		configPath = config.ProjectConfigFileName
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		var overwrite bool
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Config file exists").
					Description(fmt.Sprintf("Overwrite existing config at %s?", configPath)).
					Affirmative("Overwrite").
					Negative("Cancel").
					Value(&overwrite),
			),
		)
		err = form.Run()
		if err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	// === Build config struct ===
	cfg := config.DefaultConfig()
	cfg.Framework = framework
	for _, name := range disabled {
		cfg.Rules[name] = config.RuleSetting{Severity: config.SeverityOff}
	}
	if !useCache {
		cfg.CacheDir = ""
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Show config preview
	fmt.Println("\n=== Configuration Preview ===")
	fmt.Printf("Config path: %s\n", configPath)
	if cfg.Framework == "" {
		fmt.Println("Framework: auto-detect")
	} else {
		fmt.Printf("Framework: %s\n", cfg.Framework)
	}
	if len(disabled) == 0 {
		fmt.Println("Rules: all enabled")
	} else {
		fmt.Printf("Disabled rules: %v\n", disabled)
	}
	if cfg.CacheDir == "" {
		fmt.Println("Cache: off")
	} else {
		fmt.Printf("Cache dir: %s\n", cfg.CacheDir)
	}
	fmt.Println("================================")

	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("Configuration saved to: %s\n", configPath)
	return nil
}

func init() {
	RootCmd.AddCommand(initCmd)
}
