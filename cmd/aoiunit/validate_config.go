package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tturner/aoiunit/internal/config"
	"github.com/tturner/aoiunit/internal/errors"
	"github.com/tturner/aoiunit/internal/vectors"
)

type validateConfigFlags struct {
	configPath   string
	writeDefault bool
}

func newValidateConfigCmd() *cobra.Command {
	flags := &validateConfigFlags{}

	cmd := &cobra.Command{
		Use:   "validate-config",
		Short: "Validate a run config and the files it names",
		Long: `Load a run config, resolve the AOI layout from its definition and check
every test vector against it without touching tag memory.

With --write-default a starter config is written to --config instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if flags.configPath == "" {
				return missingFlagError(cmd, "--config")
			}
			return runValidateConfig(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "Run config YAML (required)")
	cmd.Flags().BoolVar(&flags.writeDefault, "write-default", false, "Write a default config to --config")

	return cmd
}

func runValidateConfig(cmd *cobra.Command, flags *validateConfigFlags) error {
	out := cmd.OutOrStdout()
	if flags.writeDefault {
		if err := config.WriteDefaultRunConfig(flags.configPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote default config to %s\n", flags.configPath)
		return nil
	}

	cfg, err := config.LoadRunConfig(flags.configPath)
	if err != nil {
		return err
	}
	suite, err := vectors.Load(cfg.Vectors)
	if err != nil {
		return errors.WrapConfigError(err, flags.configPath)
	}
	aoi := cfg.AOI
	if aoi == "" {
		aoi = suite.AOI
	}
	def, l, err := loadLayout(cfg.Definition, aoi)
	if err != nil {
		return err
	}
	if err := suite.Validate(l); err != nil {
		return errors.WrapConfigError(fmt.Errorf("%s: %w", cfg.Vectors, err), flags.configPath)
	}

	fmt.Fprintf(out, "Config OK: AOI %s, %d parameters, %d bytes, %d cases\n",
		def.Name, len(l.Fields()), l.Size(), len(suite.Cases))
	return nil
}
