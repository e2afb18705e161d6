package main

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	transitgate "github.com/reoring/transitgate"
	"github.com/reoring/transitgate/catalog"
	"github.com/reoring/transitgate/loader"
	"github.com/reoring/transitgate/sink"
)

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <dataset-dir-or-json>",
		Short: "Run the quality gate over one dataset",
		Long: `check loads a dataset (a directory of CSV tables, or one JSON
document), runs the full pipeline, writes the report, and exits non-zero when
the policy halts delivery. The full report is always written, halt or not.`,
		Args: cobra.ExactArgs(1),
		RunE: runCheck,
	}
	flags := cmd.Flags()
	flags.String("catalog", "transit", "built-in catalog (transit/freight)")
	flags.String("schema", "", "YAML schema catalog; overrides --catalog")
	flags.String("policy", "", "YAML policy file")
	flags.String("severities", "", "YAML severity table; overlays the catalog defaults")
	flags.String("out", "", "directory for report.json and the cleaned tables")
	return cmd
}

// checkConfig resolves flag, env (TRANSITGATE_*), and config-file settings in
// that precedence order.
func checkConfig(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("TRANSITGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	v.SetConfigName("transitgate")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config file")
		}
	}
	return v, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	v, err := checkConfig(cmd)
	if err != nil {
		return fail(log, err)
	}

	sch, severities, err := resolveSchema(v)
	if err != nil {
		return fail(log, err)
	}
	pol := transitgate.DefaultPolicy()
	if path := v.GetString("policy"); path != "" {
		if pol, err = transitgate.LoadPolicy(path); err != nil {
			return fail(log, err)
		}
	}
	if path := v.GetString("severities"); path != "" {
		overlay, err := transitgate.LoadSeverityTable(path)
		if err != nil {
			return fail(log, err)
		}
		severities = severities.Merge(overlay)
	}

	ds, err := loadDataset(args[0])
	if err != nil {
		return fail(log, err)
	}

	res, err := transitgate.Run(cmd.Context(), sch, ds, pol,
		transitgate.WithLogger(log),
		transitgate.WithSeverityTable(severities),
	)
	if err != nil {
		return fail(log, err)
	}

	if out := v.GetString("out"); out != "" {
		if err := sink.Write(out, res); err != nil {
			return fail(log, err)
		}
	} else if err := sink.WriteReport(cmd.OutOrStdout(), res.Report); err != nil {
		return fail(log, err)
	}

	if res.Report.Decision == transitgate.DecisionHalt {
		log.Error("quality gate halted delivery",
			zap.Int("findings", len(res.Report.Findings)),
		)
		return errHalted
	}
	return nil
}

func resolveSchema(v *viper.Viper) (*transitgate.Schema, transitgate.SeverityTable, error) {
	if path := v.GetString("schema"); path != "" {
		sch, err := catalog.Load(path)
		return sch, transitgate.SeverityTable{}, err
	}
	name := v.GetString("catalog")
	sch, severities, ok := catalog.Resolve(name)
	if !ok {
		return nil, nil, errors.Mark(errors.Newf("unknown catalog %q", name), transitgate.ErrConfiguration)
	}
	return sch, severities, nil
}

func loadDataset(path string) (*transitgate.Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Mark(err, loader.ErrLoad)
	}
	if info.IsDir() {
		return loader.CSVDir(path)
	}
	return loader.JSONFile(path)
}

// fail logs fatal pre-pipeline errors and hands them back to cobra, so
// callers can tell "bad input" (exit 2) from "gate halted" (exit 1).
func fail(log *zap.Logger, err error) error {
	log.Error("run aborted", zap.Error(err))
	return err
}
