package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tigredonorte/flakelint/internal/runner"
	"github.com/tigredonorte/flakelint/pkg/report"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Analyze test files and report flakiness findings",
	Long: `Scans the given paths (default: current directory) for test files,
analyzes each one and prints the findings grouped by file. The exit
code is 1 when any finding is reported, so check can gate CI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		noCache, _ := cmd.Flags().GetBool("no-cache")
		framework, _ := cmd.Flags().GetString("framework")
		return runCheck(args, jsonOutput, noCache, framework)
	},
}

func runCheck(paths []string, jsonOutput, noCache bool, framework string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if noCache {
		cfg.CacheDir = ""
	}
	if framework != "" {
		cfg.Framework = framework
	}

	r := runner.New(cfg, logger)
	rep, err := r.Check(paths)
	if err != nil {
		return err
	}

	if jsonOutput {
		if err := report.RenderJSON(os.Stdout, rep); err != nil {
			return err
		}
	} else {
		report.RenderText(os.Stdout, rep)
	}

	if rep.Totals.Issues > 0 {
		// Non-zero exit without cobra printing a usage block.
		os.Exit(1)
	}
	return nil
}

func init() {
	checkCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	checkCmd.Flags().Bool("no-cache", false, "Analyze every file, ignoring cached results")
	checkCmd.Flags().String("framework", "", fmt.Sprintf("Override framework detection (e.g. %q, %q)", "jest", "cypress"))
	RootCmd.AddCommand(checkCmd)
}
