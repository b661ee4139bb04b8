package commands

import (
	"github.com/spf13/cobra"

	"github.com/tigredonorte/flakelint/internal/config"
	"github.com/tigredonorte/flakelint/internal/log"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "flakelint",
	Short: "flakelint - Static detection of flaky-test patterns in JS/TS test suites",
	Long: `flakelint inspects JavaScript and TypeScript test files for patterns
that make tests flaky: shared mutable state between tests, asserting
element removal without waiting, hard-coded waits, unmocked network and
filesystem access, random data and focused tests.

Commands:
  check    Analyze test files and report flakiness findings
  fix      Apply the safe mechanical fixes for fixable findings
  rules    List the built-in detectors
  init     Create a configuration file interactively

Use "flakelint [command] --help" for more information about a command.`,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return RootCmd.Execute()
}

var (
	flagConfig  string
	flagVerbose bool
)

func init() {
	RootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: .flakelint.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose logging")
}

// loadConfig resolves configuration for a command run and tunes the
// process logger.
func loadConfig() (*config.Config, *log.Logger, error) {
	var cfg *config.Config
	var err error
	if flagConfig != "" {
		cfg, err = config.LoadFromFile(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, err
	}

	logger := log.Default()
	if flagVerbose || cfg.Verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return cfg, logger, nil
}
