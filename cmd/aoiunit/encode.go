package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/tturner/aoiunit/internal/errors"
	"github.com/tturner/aoiunit/internal/tagstore"
)

type encodeFlags struct {
	definition string
	aoi        string
	set        []string
	copyOut    bool
	source     tagSource
}

func newEncodeCmd() *cobra.Command {
	flags := &encodeFlags{}

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Set AOI parameter values in tag bytes",
		Long: `Apply one or more Name=Value assignments to an AOI instance tag and print
the resulting bytes. Only the bytes (or BOOL bit) of each named parameter
change. The base buffer is --hex, a snapshot tag, or zeros.

With --snapshot the updated tag is written back to the snapshot file.`,
		Example: `  aoiunit encode --definition AOI_Add.L5X --set In1=2 --set EnableIn=true
  aoiunit encode --definition AOI_Add.L5X --snapshot tags.yaml --set In2=-5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if flags.definition == "" {
				return missingFlagError(cmd, "--definition")
			}
			if len(flags.set) == 0 {
				return missingFlagError(cmd, "--set")
			}
			return runEncode(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.definition, "definition", "", "L5X export with the AOI definition (required)")
	cmd.Flags().StringVar(&flags.aoi, "aoi", "", "AOI name (default: first definition in the export)")
	cmd.Flags().StringArrayVar(&flags.set, "set", nil, "Assignment Name=Value (repeatable, applied in order)")
	cmd.Flags().BoolVar(&flags.copyOut, "copy", false, "Copy the resulting hex to the clipboard")
	flags.source.register(cmd)

	return cmd
}

func parseAssignment(s string) (string, string, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("invalid assignment %q (expected Name=Value)", s)
	}
	return name, value, nil
}

func runEncode(cmd *cobra.Command, flags *encodeFlags) error {
	def, l, err := loadLayout(flags.definition, flags.aoi)
	if err != nil {
		return err
	}
	buf, store, err := flags.source.load(cmd, def, l, true)
	if err != nil {
		return err
	}
	if buf == nil {
		buf = make([]byte, l.Size())
	}

	for _, s := range flags.set {
		name, value, err := parseAssignment(s)
		if err != nil {
			return err
		}
		buf, err = l.Encode(buf, name, value)
		if err != nil {
			return errors.WrapCodecError(err, "encode")
		}
	}

	hex := tagstore.FormatHex(buf)
	fmt.Fprintln(cmd.OutOrStdout(), hex)

	if store != nil {
		tag := flags.source.tagName(def.Name)
		if err := store.WriteTag(cmd.Context(), tag, buf); err != nil {
			return errors.WrapStoreError(err, tag)
		}
		if err := store.SaveSnapshot(flags.source.snapshot); err != nil {
			return err
		}
	}

	if flags.copyOut {
		if err := clipboard.WriteAll(hex); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard")
	}
	return nil
}
