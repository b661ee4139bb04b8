package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tigredonorte/flakelint/internal/config"
	"github.com/tigredonorte/flakelint/pkg/rules"
)

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the built-in detectors",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRules()
	},
}

func runRules() error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	for _, name := range rules.Names() {
		severity := cfg.Rules[name].Severity
		if severity == "" {
			severity = config.SeverityError
		}
		fmt.Printf("%-24s %s\n", name, severity)
	}
	return nil
}

func init() {
	RootCmd.AddCommand(rulesCmd)
}
