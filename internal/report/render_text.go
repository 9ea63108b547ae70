package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/tturner/aoiunit/internal/layout"
)

// Tokyo Night palette, also used for the edit form theme.
var (
	ColorAccent  = lipgloss.Color("#7aa2f7")
	ColorSuccess = lipgloss.Color("#9ece6a")
	ColorError   = lipgloss.Color("#f7768e")
	ColorDim     = lipgloss.Color("#565f89")
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	passStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)
	failStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	dimStyle    = lipgloss.NewStyle().Foreground(ColorDim)
)

func status(pass bool) string {
	if pass {
		return passStyle.Render("PASS")
	}
	return failStyle.Render("FAIL")
}

// WriteText prints a human readable summary of a run. Passing cases get one
// line; failing cases list every failed check.
func WriteText(w io.Writer, s *Suite) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("AOI %s (tag %s)", s.AOI, s.Tag)))
	for _, c := range s.Cases {
		fmt.Fprintf(w, "  %s  %s\n", status(c.Pass), c.Name)
		if c.Error != "" {
			fmt.Fprintf(w, "        error: %s\n", c.Error)
		}
		for _, ch := range c.Failures() {
			fmt.Fprintf(w, "        %s %s: expected %s, got %s\n",
				ch.Kind, ch.Param, ch.Expected, ch.Observed)
		}
	}

	summary := fmt.Sprintf("%d passed, %d failed", s.Passed, s.Failed)
	if s.OK() {
		fmt.Fprintln(w, passStyle.Render(summary))
	} else {
		fmt.Fprintln(w, failStyle.Render(summary))
	}
}

// RenderLayout prints the resolved position of every parameter.
func RenderLayout(w io.Writer, l *layout.Layout) {
	cols := []int{24, 8, 7, 6, 5, 5}
	row := func(style lipgloss.Style, cells ...string) {
		line := ""
		for i, c := range cells {
			line += style.Width(cols[i]).Render(c)
		}
		fmt.Fprintln(w, line)
	}

	row(headerStyle, "NAME", "TYPE", "USAGE", "BYTE", "BIT", "SIZE")
	for _, f := range l.Fields() {
		bit := "-"
		if f.Type == layout.Bool {
			bit = strconv.Itoa(f.BitIndex)
		}
		style := lipgloss.NewStyle()
		if !f.Type.Supported() {
			style = dimStyle
		}
		row(style, f.Name, f.TypeName, f.Usage.String(),
			strconv.Itoa(f.ByteOffset), bit, strconv.Itoa(f.Size))
	}
	fmt.Fprintf(w, "tag size: %d bytes\n", l.Size())

	if n := len(l.Unsupported()); n > 0 {
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf(
			"%d parameter(s) with unsupported types are not packed; offsets after them may not match the controller", n)))
	}
}

// WriteValues prints decoded values in layout order.
func WriteValues(w io.Writer, l *layout.Layout, values layout.Values) {
	for _, f := range l.Fields() {
		v, ok := values[f.Name]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%-24s %-6s %s\n", f.Name, f.Type, v)
	}
}
