// Package l5x reads Add-On Instruction parameter declarations from Logix
// Designer L5X exports.
package l5x

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tturner/aoiunit/internal/layout"
)

// ErrDefinitionNotFound is returned when the document holds no matching
// AddOnInstructionDefinition element.
var ErrDefinitionNotFound = errors.New("add-on instruction definition not found")

// Definition is the parameter list of one AOI in declaration order.
type Definition struct {
	Name       string
	Revision   string
	Parameters []layout.Parameter
}

type xmlDefinition struct {
	Name       string         `xml:"Name,attr"`
	Revision   string         `xml:"Revision,attr"`
	Parameters *xmlParameters `xml:"Parameters"`
}

type xmlParameters struct {
	Items []xmlParameter `xml:"Parameter"`
}

type xmlParameter struct {
	Name      string `xml:"Name,attr"`
	DataType  string `xml:"DataType,attr"`
	Usage     string `xml:"Usage,attr"`
	Required  string `xml:"Required,attr"`
	Visible   string `xml:"Visible,attr"`
	Dimension string `xml:"Dimension,attr"`
}

// LoadFile parses the L5X file at path. See Parse.
func LoadFile(path, name string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open definition: %w", err)
	}
	defer f.Close()

	def, err := Parse(f, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Parse returns the AOI called name, or the first AOI in the document when
// name is empty. It accepts both a full RSLogix5000Content export and a bare
// AddOnInstructionDefinition element.
func Parse(r io.Reader, name string) (*Definition, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse L5X: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "AddOnInstructionDefinition" {
			continue
		}

		var raw xmlDefinition
		if err := dec.DecodeElement(&raw, &start); err != nil {
			return nil, fmt.Errorf("parse AddOnInstructionDefinition: %w", err)
		}
		if name != "" && !strings.EqualFold(raw.Name, name) {
			continue
		}
		return convert(raw)
	}

	if name != "" {
		return nil, fmt.Errorf("%w: %q", ErrDefinitionNotFound, name)
	}
	return nil, ErrDefinitionNotFound
}

func convert(raw xmlDefinition) (*Definition, error) {
	if raw.Parameters == nil {
		return nil, fmt.Errorf("definition %q has no Parameters element", raw.Name)
	}

	def := &Definition{
		Name:       raw.Name,
		Revision:   raw.Revision,
		Parameters: make([]layout.Parameter, 0, len(raw.Parameters.Items)),
	}
	for i, p := range raw.Parameters.Items {
		if p.Name == "" {
			return nil, fmt.Errorf("parameter %d: Name is required", i)
		}
		if p.DataType == "" {
			return nil, fmt.Errorf("parameter %q: DataType is required", p.Name)
		}

		typeName := p.DataType
		typ := layout.ParseDataType(p.DataType)
		if dim := strings.TrimSpace(p.Dimension); dim != "" && dim != "0" {
			// Arrays are not packed by the codec.
			typeName = fmt.Sprintf("%s[%s]", p.DataType, dim)
			typ = layout.Unsupported
		}

		def.Parameters = append(def.Parameters, layout.Parameter{
			Name:     p.Name,
			Type:     typ,
			TypeName: typeName,
			Usage:    layout.ParseUsage(p.Usage),
			Required: parseFlag(p.Required),
			Visible:  parseFlag(p.Visible),
		})
	}
	return def, nil
}

func parseFlag(s string) bool {
	v, err := layout.ParseBool(s)
	return err == nil && v
}
