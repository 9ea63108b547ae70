package tagstore

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// snapshotFile is the on-disk form of a MemoryStore.
type snapshotFile struct {
	Tags map[string]string `yaml:"tags"`
}

// ParseHex decodes a hex string, ignoring whitespace, ':' and '-' separators
// and an optional 0x prefix.
func ParseHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ':', '-':
			return -1
		}
		return r
	}, s)
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return data, nil
}

// FormatHex renders data as space separated byte pairs.
func FormatHex(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	var buf strings.Builder
	buf.Grow(len(data) * 3)
	for i, b := range data {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(hex.EncodeToString([]byte{b}))
	}
	return buf.String()
}

// LoadSnapshot reads a YAML snapshot into a new MemoryStore.
func LoadSnapshot(path string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var f snapshotFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}

	s := NewMemoryStore()
	for name, h := range f.Tags {
		raw, err := ParseHex(h)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: tag %q: %w", path, name, err)
		}
		s.tags[name] = raw
	}
	return s, nil
}

// SaveSnapshot writes the store's tags to path as YAML.
func (s *MemoryStore) SaveSnapshot(path string) error {
	s.mu.Lock()
	f := snapshotFile{Tags: make(map[string]string, len(s.tags))}
	for name, raw := range s.tags {
		f.Tags[name] = FormatHex(raw)
	}
	s.mu.Unlock()

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
