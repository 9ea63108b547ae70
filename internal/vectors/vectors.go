// Package vectors loads AOI unit test cases from YAML.
package vectors

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tturner/aoiunit/internal/layout"
)

// Assignment is one parameter value within a test case. For input parameters
// it is the value to write; for outputs it is the expected value.
type Assignment struct {
	Param string
	Value string
}

// Assignments keeps the document order of a YAML mapping, which is the order
// inputs are written to the controller.
type Assignments []Assignment

// UnmarshalYAML decodes a mapping node pair by pair.
func (a *Assignments) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: values must be a mapping of parameter to value", node.Line)
	}
	out := make(Assignments, 0, len(node.Content)/2)
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: value for %q must be a scalar", val.Line, key.Value)
		}
		if seen[key.Value] {
			return fmt.Errorf("line %d: parameter %q listed twice", key.Line, key.Value)
		}
		seen[key.Value] = true
		out = append(out, Assignment{Param: key.Value, Value: val.Value})
	}
	*a = out
	return nil
}

// MarshalYAML writes the assignments back as an ordered mapping.
func (a Assignments) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, as := range a {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: as.Param},
			&yaml.Node{Kind: yaml.ScalarNode, Value: as.Value},
		)
	}
	return node, nil
}

// Case is one column of a truth table: a set of inputs and the outputs
// expected once they are applied.
type Case struct {
	Name   string      `yaml:"name"`
	Values Assignments `yaml:"values"`
}

// Suite is a set of test cases for one AOI instance tag.
type Suite struct {
	AOI   string `yaml:"aoi"`
	Tag   string `yaml:"tag,omitempty"`
	Cases []Case `yaml:"cases"`
}

// Load reads a suite from a YAML file.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vectors: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a suite and fills in default case names.
func Parse(data []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if len(s.Cases) == 0 {
		return nil, fmt.Errorf("no test cases")
	}
	for i := range s.Cases {
		if s.Cases[i].Name == "" {
			s.Cases[i].Name = fmt.Sprintf("test %d/%d", i+1, len(s.Cases))
		}
	}
	return &s, nil
}

// Validate checks every assignment against the resolved layout: the
// parameter must exist, have a packed type, and its value must parse.
func (s *Suite) Validate(l *layout.Layout) error {
	for _, c := range s.Cases {
		if len(c.Values) == 0 {
			return fmt.Errorf("case %q: no values", c.Name)
		}
		for _, a := range c.Values {
			f, ok := l.Lookup(a.Param)
			if !ok {
				return fmt.Errorf("case %q: %w: %q", c.Name, layout.ErrUnknownParameter, a.Param)
			}
			if !f.Type.Supported() {
				return fmt.Errorf("case %q: %w: %s is %s", c.Name, layout.ErrUnsupportedType, a.Param, f.TypeName)
			}
			if _, err := layout.Normalize(f.Type, a.Value); err != nil {
				return fmt.Errorf("case %q: %s: %w", c.Name, a.Param, err)
			}
		}
	}
	return nil
}
