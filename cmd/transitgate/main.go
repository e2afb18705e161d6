package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reoring/transitgate/i18n"
)

const (
	exitPass = 0
	exitHalt = 1
	exitErr  = 2
)

var (
	flagJSONLogs bool
	flagLang     string
)

// errHalted signals that the run completed but the policy refused the data.
// Commands return it instead of exiting so deferred cleanup still runs; main
// maps it to the halt exit code.
var errHalted = errors.New("quality gate halted delivery")

var rootCmd = &cobra.Command{
	Use:   "transitgate",
	Short: "transitgate - quality gate for tabular transport datasets",
	Long: `transitgate validates tabular transport datasets before they reach
downstream systems: it cleans the raw tables, runs field, domain, and
relational checks, classifies every finding against a severity table, and
halts delivery when the policy says the data must not ship.

Examples:
  transitgate check ./feed --catalog transit
  transitgate check ./report --catalog freight --out ./gated
  transitgate check ./feed --schema catalog.yaml --policy policy.yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		i18n.SetLanguage(flagLang)
		return nil
	},
}

// newLogger builds the CLI logger: human-readable by default, JSON when
// machines consume the output.
func newLogger() (*zap.Logger, error) {
	if flagJSONLogs {
		return zap.NewProduction()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&flagJSONLogs, "json", false, "emit JSON logs")
	rootCmd.PersistentFlags().StringVar(&flagLang, "lang", "en", "message language (en/ja)")
	rootCmd.AddCommand(newCheckCommand())
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errHalted) {
			os.Exit(exitHalt)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitErr)
	}
	os.Exit(exitPass)
}
