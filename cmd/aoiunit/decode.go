package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tturner/aoiunit/internal/errors"
	"github.com/tturner/aoiunit/internal/report"
)

type decodeFlags struct {
	definition string
	aoi        string
	param      string
	jsonOut    bool
	source     tagSource
}

func newDecodeCmd() *cobra.Command {
	flags := &decodeFlags{}

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode AOI parameter values from tag bytes",
		Long: `Decode every packed parameter of an AOI instance tag. Tag bytes come
from --hex or from a YAML snapshot (--snapshot, --tag).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if flags.definition == "" {
				return missingFlagError(cmd, "--definition")
			}
			if flags.source.hex == "" && flags.source.snapshot == "" {
				return missingFlagError(cmd, "--hex or --snapshot")
			}
			return runDecode(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.definition, "definition", "", "L5X export with the AOI definition (required)")
	cmd.Flags().StringVar(&flags.aoi, "aoi", "", "AOI name (default: first definition in the export)")
	cmd.Flags().StringVar(&flags.param, "param", "", "Decode a single parameter")
	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "Print values as JSON")
	flags.source.register(cmd)

	return cmd
}

func runDecode(cmd *cobra.Command, flags *decodeFlags) error {
	def, l, err := loadLayout(flags.definition, flags.aoi)
	if err != nil {
		return err
	}
	buf, _, err := flags.source.load(cmd, def, l, false)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if flags.param != "" {
		v, err := l.DecodeField(buf, flags.param)
		if err != nil {
			return errors.WrapCodecError(err, "decode")
		}
		fmt.Fprintln(out, v)
		return nil
	}

	values, err := l.Decode(buf)
	if err != nil {
		return errors.WrapCodecError(err, "decode")
	}
	if flags.jsonOut {
		return report.WriteJSON(out, values)
	}
	report.WriteValues(out, l, values)
	return nil
}
