package main

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tturner/aoiunit/internal/errors"
	"github.com/tturner/aoiunit/internal/layout"
	"github.com/tturner/aoiunit/internal/report"
	"github.com/tturner/aoiunit/internal/tagstore"
)

type editFlags struct {
	definition string
	aoi        string
	outputs    bool
	source     tagSource
}

func newEditCmd() *cobra.Command {
	flags := &editFlags{}

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Interactively edit AOI parameters in a tag snapshot",
		Long: `Open a form with every writable parameter of the instance tag, prefilled
with its current value. Confirmed changes are encoded and saved back to the
snapshot.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if flags.definition == "" {
				return missingFlagError(cmd, "--definition")
			}
			if flags.source.snapshot == "" {
				return missingFlagError(cmd, "--snapshot")
			}
			return runEdit(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.definition, "definition", "", "L5X export with the AOI definition (required)")
	cmd.Flags().StringVar(&flags.aoi, "aoi", "", "AOI name (default: first definition in the export)")
	cmd.Flags().StringVar(&flags.source.snapshot, "snapshot", "", "YAML tag snapshot to edit (required)")
	cmd.Flags().StringVar(&flags.source.tag, "tag", "", "Instance tag name in the snapshot (default AT_<aoi>)")
	cmd.Flags().BoolVar(&flags.outputs, "outputs", false, "Also offer Output parameters")

	return cmd
}

// editEntry binds one form input to a parameter.
type editEntry struct {
	field    layout.Field
	original string
	value    string
}

// editableFields returns the fields offered in the form, in layout order.
func editableFields(l *layout.Layout, withOutputs bool) []layout.Field {
	var out []layout.Field
	for _, f := range l.Fields() {
		if !f.Type.Supported() {
			continue
		}
		if f.Usage == layout.Output && !withOutputs {
			continue
		}
		out = append(out, f)
	}
	return out
}

// editTheme styles the form with the report palette.
func editTheme() *huh.Theme {
	t := huh.ThemeBase()
	t.Focused.Base = t.Focused.Base.BorderForeground(report.ColorAccent)
	t.Focused.Title = t.Focused.Title.Foreground(report.ColorAccent).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(report.ColorDim)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(report.ColorError)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(report.ColorError)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Background(report.ColorSuccess)
	t.Blurred.Title = t.Blurred.Title.Foreground(report.ColorDim)
	t.Blurred.Description = t.Blurred.Description.Foreground(report.ColorDim)
	return t
}

func buildEditForm(title string, entries []*editEntry, confirm *bool) *huh.Form {
	inputs := make([]huh.Field, 0, len(entries))
	for _, e := range entries {
		inputs = append(inputs, huh.NewInput().
			Title(e.field.Name).
			Description(fmt.Sprintf("%s %s, byte %d", e.field.Usage, e.field.TypeName, e.field.ByteOffset)).
			Key(e.field.Name).
			Value(&e.value).
			Validate(func(s string) error {
				_, err := layout.Normalize(e.field.Type, s)
				return err
			}))
	}

	return huh.NewForm(
		huh.NewGroup(inputs...).Title(title),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Write changes to the snapshot?").
				Value(confirm),
		),
	).WithTheme(editTheme())
}

// applyEdits encodes every changed entry into buf and returns the new buffer
// and the number of parameters changed.
func applyEdits(l *layout.Layout, buf []byte, entries []*editEntry) ([]byte, int, error) {
	changed := 0
	for _, e := range entries {
		want, err := layout.Normalize(e.field.Type, e.value)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", e.field.Name, err)
		}
		if want == e.original {
			continue
		}
		buf, err = l.Encode(buf, e.field.Name, e.value)
		if err != nil {
			return nil, 0, err
		}
		changed++
	}
	return buf, changed, nil
}

func runEdit(cmd *cobra.Command, flags *editFlags) error {
	def, l, err := loadLayout(flags.definition, flags.aoi)
	if err != nil {
		return err
	}
	buf, store, err := flags.source.load(cmd, def, l, true)
	if err != nil {
		return err
	}
	values, err := l.Decode(buf)
	if err != nil {
		return errors.WrapCodecError(err, "decode")
	}

	fields := editableFields(l, flags.outputs)
	if len(fields) == 0 {
		return fmt.Errorf("AOI %s has no editable parameters", def.Name)
	}
	entries := make([]*editEntry, 0, len(fields))
	for _, f := range fields {
		v := values[f.Name]
		entries = append(entries, &editEntry{field: f, original: v, value: v})
	}

	tag := flags.source.tagName(def.Name)
	confirm := true
	if err := buildEditForm(fmt.Sprintf("%s (%s)", tag, def.Name), entries, &confirm).Run(); err != nil {
		return err
	}
	if !confirm {
		fmt.Fprintln(cmd.OutOrStdout(), "No changes written")
		return nil
	}

	buf, changed, err := applyEdits(l, buf, entries)
	if err != nil {
		return errors.WrapCodecError(err, "encode")
	}
	if err := store.WriteTag(cmd.Context(), tag, buf); err != nil {
		return errors.WrapStoreError(err, tag)
	}
	if err := store.SaveSnapshot(flags.source.snapshot); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d parameter(s) changed\n%s\n", changed, tagstore.FormatHex(buf))
	return nil
}
