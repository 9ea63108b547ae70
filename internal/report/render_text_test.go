package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tturner/aoiunit/internal/layout"
)

func TestSuiteCounts(t *testing.T) {
	s := sampleSuite()
	if s.OK() {
		t.Error("OK() = true with a failed case")
	}
	if got := s.Cases[1].Failures(); len(got) != 1 || got[0].Param != "Out" {
		t.Errorf("Failures() = %+v", got)
	}
	if got := s.Cases[0].Failures(); len(got) != 0 {
		t.Errorf("Failures() on passing case = %+v", got)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	WriteText(&buf, sampleSuite())
	output := buf.String()

	for _, want := range []string{
		"AOI AOI_Add (tag AT_AOI_Add)",
		"PASS",
		"FAIL",
		"adds",
		"expect Out: expected 0, got 7",
		"1 passed, 1 failed",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
	if strings.Contains(output, "In1") {
		t.Error("passing checks should not be listed")
	}
}

func TestRenderLayout(t *testing.T) {
	l, err := layout.Resolve([]layout.Parameter{
		{Name: "EnableIn", Type: layout.Bool, TypeName: "BOOL"},
		{Name: "In1", Type: layout.Dint, TypeName: "DINT"},
		{Name: "Label", Type: layout.Unsupported, TypeName: "STRING"},
	})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	RenderLayout(&buf, l)
	output := buf.String()

	for _, want := range []string{"NAME", "EnableIn", "In1", "Label", "STRING", "tag size: 8 bytes", "unsupported"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestWriteValues(t *testing.T) {
	l, err := layout.Resolve([]layout.Parameter{
		{Name: "B", Type: layout.Int, TypeName: "INT"},
		{Name: "A", Type: layout.Real, TypeName: "REAL"},
	})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	WriteValues(&buf, l, layout.Values{"A": "1.5", "B": "-2"})
	output := buf.String()
	if strings.Index(output, "B") > strings.Index(output, "A ") {
		t.Errorf("values not in layout order:\n%s", output)
	}
	if !strings.Contains(output, "1.5") || !strings.Contains(output, "-2") {
		t.Errorf("values missing:\n%s", output)
	}
}
