package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tturner/aoiunit/internal/layout"
	"github.com/tturner/aoiunit/internal/report"
)

type layoutFlags struct {
	definition string
	aoi        string
	jsonOut    bool
}

// fieldJSON is the machine readable form of one resolved field.
type fieldJSON struct {
	Name       string `json:"name"`
	DataType   string `json:"data_type"`
	Usage      string `json:"usage"`
	ByteOffset int    `json:"byte_offset"`
	BitIndex   *int   `json:"bit_index,omitempty"`
	Size       int    `json:"size"`
	Supported  bool   `json:"supported"`
}

func newLayoutCmd() *cobra.Command {
	flags := &layoutFlags{}

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Show the resolved tag layout of an AOI",
		Long: `Resolve the byte offset and BOOL bit of every AOI parameter from an
L5X export, in declaration order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if flags.definition == "" {
				return missingFlagError(cmd, "--definition")
			}
			return runLayout(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.definition, "definition", "", "L5X export with the AOI definition (required)")
	cmd.Flags().StringVar(&flags.aoi, "aoi", "", "AOI name (default: first definition in the export)")
	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "Print the layout as JSON")

	return cmd
}

func runLayout(cmd *cobra.Command, flags *layoutFlags) error {
	def, l, err := loadLayout(flags.definition, flags.aoi)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if flags.jsonOut {
		fields := make([]fieldJSON, 0, len(l.Fields()))
		for _, f := range l.Fields() {
			fj := fieldJSON{
				Name:       f.Name,
				DataType:   f.TypeName,
				Usage:      f.Usage.String(),
				ByteOffset: f.ByteOffset,
				Size:       f.Size,
				Supported:  f.Type.Supported(),
			}
			if f.Type == layout.Bool {
				bit := f.BitIndex
				fj.BitIndex = &bit
			}
			fields = append(fields, fj)
		}
		return report.WriteJSON(out, map[string]any{
			"aoi":      def.Name,
			"revision": def.Revision,
			"size":     l.Size(),
			"fields":   fields,
		})
	}

	fmt.Fprintf(out, "AOI %s", def.Name)
	if def.Revision != "" {
		fmt.Fprintf(out, " rev %s", def.Revision)
	}
	fmt.Fprintln(out)
	report.RenderLayout(out, l)
	return nil
}
