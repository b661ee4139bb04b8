package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tigredonorte/flakelint/internal/runner"
)

// fixCmd represents the fix command
var fixCmd = &cobra.Command{
	Use:   "fix [paths...]",
	Short: "Apply the safe mechanical fixes for fixable findings",
	Long: `Analyzes the given paths and rewrites fixable findings in place:
wrapping removal assertions in a polling helper, marking the enclosing
function async and adding the helper import when missing. Fixes that
would overlap another fix in the same file are skipped. Use --dry-run
to see what would change without touching any file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		return runFix(args, dryRun)
	},
}

func runFix(paths []string, dryRun bool) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	// Fixing rewrites sources, so cached results would go stale mid-run.
	cfg.CacheDir = ""

	r := runner.New(cfg, logger)
	results, err := r.Fix(paths, !dryRun)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No fixable findings.")
		return nil
	}

	verb := "fixed"
	if dryRun {
		verb = "would fix"
	}
	total := 0
	for _, res := range results {
		fmt.Printf("%s: %s %d", res.Path, verb, res.Applied)
		if res.Skipped > 0 {
			fmt.Printf(" (%d skipped: overlapping)", res.Skipped)
		}
		fmt.Println()
		total += res.Applied
	}
	fmt.Printf("\n%d fixes %s in %d files\n", total, verb, len(results))
	return nil
}

func init() {
	fixCmd.Flags().Bool("dry-run", false, "Report fixes without writing files")
	RootCmd.AddCommand(fixCmd)
}
