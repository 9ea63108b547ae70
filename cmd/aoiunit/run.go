package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/tturner/aoiunit/internal/config"
	"github.com/tturner/aoiunit/internal/errors"
	"github.com/tturner/aoiunit/internal/harness"
	"github.com/tturner/aoiunit/internal/logging"
	"github.com/tturner/aoiunit/internal/progress"
	"github.com/tturner/aoiunit/internal/report"
	"github.com/tturner/aoiunit/internal/tagstore"
	"github.com/tturner/aoiunit/internal/vectors"
)

type runFlags struct {
	configPath     string
	definition     string
	aoi            string
	vectors        string
	tag            string
	snapshot       string
	updateSnapshot bool
	reportJSON     string
	logFile        string
	logLevel       string
	quiet          bool
}

func newRunCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run test vectors against an AOI instance tag",
		Long: `Write each case's input values to the instance tag one parameter at a
time, confirm every write reads back, then compare the expected outputs.

Settings come from --config and can be overridden with flags. Without a
snapshot the tag starts out zeroed in memory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			cfg, err := resolveRunConfig(cmd, flags)
			if err != nil {
				return err
			}
			return runVectors(cmd, cfg, flags.quiet)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "Run config YAML")
	cmd.Flags().StringVar(&flags.definition, "definition", "", "L5X export with the AOI definition")
	cmd.Flags().StringVar(&flags.aoi, "aoi", "", "AOI name (default: the vectors file's aoi)")
	cmd.Flags().StringVar(&flags.vectors, "vectors", "", "Test vector YAML")
	cmd.Flags().StringVar(&flags.tag, "tag", "", "Instance tag (default AT_<aoi>)")
	cmd.Flags().StringVar(&flags.snapshot, "snapshot", "", "YAML tag snapshot used as tag memory")
	cmd.Flags().BoolVar(&flags.updateSnapshot, "update-snapshot", false, "Write final tag memory back to the snapshot")
	cmd.Flags().StringVar(&flags.reportJSON, "report-json", "", "Write results JSON to file")
	cmd.Flags().StringVar(&flags.logFile, "log-file", "", "Write log to file")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level: silent, error, info, verbose, debug")
	cmd.Flags().BoolVar(&flags.quiet, "quiet", false, "Only print the summary line")

	return cmd
}

// resolveRunConfig loads --config, if any, and applies flag overrides.
func resolveRunConfig(cmd *cobra.Command, flags *runFlags) (*config.RunConfig, error) {
	cfg := &config.RunConfig{}
	if flags.configPath != "" {
		loaded, err := config.ReadRunConfig(flags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	override := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	override("definition", &cfg.Definition, flags.definition)
	override("aoi", &cfg.AOI, flags.aoi)
	override("vectors", &cfg.Vectors, flags.vectors)
	override("tag", &cfg.Tag, flags.tag)
	override("snapshot", &cfg.Snapshot, flags.snapshot)
	override("report-json", &cfg.ReportJSON, flags.reportJSON)
	override("log-file", &cfg.LogFile, flags.logFile)
	override("log-level", &cfg.LogLevel, flags.logLevel)
	if cmd.Flags().Changed("update-snapshot") {
		cfg.UpdateSnapshot = flags.updateSnapshot
	}

	if cfg.Definition == "" {
		return nil, missingFlagError(cmd, "--definition")
	}
	if cfg.Vectors == "" {
		return nil, missingFlagError(cmd, "--vectors")
	}
	config.ApplyRunDefaults(cfg)
	if err := config.ValidateRunConfig(cfg); err != nil {
		if flags.configPath != "" {
			return nil, errors.WrapConfigError(err, flags.configPath)
		}
		return nil, err
	}
	return cfg, nil
}

func runVectors(cmd *cobra.Command, cfg *config.RunConfig, quiet bool) error {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger, err := logging.NewLoggerTo(level, cfg.LogFile, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logger.Close()

	suite, err := vectors.Load(cfg.Vectors)
	if err != nil {
		return err
	}
	aoi := cfg.AOI
	if aoi == "" {
		aoi = suite.AOI
	}
	def, l, err := loadLayout(cfg.Definition, aoi)
	if err != nil {
		return err
	}
	if suite.AOI == "" {
		suite.AOI = def.Name
	}
	if err := suite.Validate(l); err != nil {
		return errors.WrapCodecError(fmt.Errorf("%s: %w", cfg.Vectors, err), "vector validation")
	}
	for _, f := range l.Unsupported() {
		logger.Info("Parameter %s (%s) is not packed; offsets after it may be wrong", f.Name, f.TypeName)
	}

	tag := cfg.Tag
	if tag == "" && suite.Tag != "" {
		tag = suite.Tag
	}
	if tag == "" {
		tag = cfg.ResolveTag(def.Name)
	}

	store := tagstore.NewMemoryStore()
	if cfg.Snapshot != "" {
		if _, statErr := os.Stat(cfg.Snapshot); statErr == nil || !cfg.UpdateSnapshot {
			if store, err = tagstore.LoadSnapshot(cfg.Snapshot); err != nil {
				return err
			}
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if err := harness.EnsureTag(ctx, store, tag, l.Size()); err != nil {
		return errors.WrapStoreError(err, tag)
	}

	logger.LogRunStart(def.Name, tag, len(suite.Cases), cfg.Definition, cfg.Vectors)
	bar := progress.NewCaseBar(cmd.ErrOrStderr(), len(suite.Cases))
	if quiet || level != logging.LogLevelInfo {
		bar.Disable()
	}
	runner := &harness.Runner{
		Store:  store,
		Layout: l,
		Tag:    tag,
		Logger: logger,
		OnCase: func(c report.Case) { bar.Record(c.Pass) },
	}
	res, runErr := runner.Run(ctx, suite)
	bar.Finish()
	res.AOIUnitVersion = version

	out := cmd.OutOrStdout()
	if quiet {
		fmt.Fprintf(out, "%d passed, %d failed\n", res.Passed, res.Failed)
	} else {
		report.WriteText(out, res)
	}

	if cfg.ReportJSON != "" {
		if err := report.WriteJSONFile(cfg.ReportJSON, res); err != nil {
			return err
		}
	}
	if cfg.UpdateSnapshot {
		if err := store.SaveSnapshot(cfg.Snapshot); err != nil {
			return err
		}
	}

	if runErr != nil {
		return errors.WrapStoreError(runErr, tag)
	}
	if !res.OK() {
		return fmt.Errorf("%d of %d cases failed", res.Failed, len(res.Cases))
	}
	return nil
}
