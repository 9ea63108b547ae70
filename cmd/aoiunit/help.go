package main

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tturner/aoiunit/internal/config"
	"github.com/tturner/aoiunit/internal/errors"
	"github.com/tturner/aoiunit/internal/l5x"
	"github.com/tturner/aoiunit/internal/layout"
	"github.com/tturner/aoiunit/internal/tagstore"
)

func handleHelpArg(cmd *cobra.Command, args []string) bool {
	if len(args) == 0 {
		return false
	}
	if strings.EqualFold(args[0], "help") {
		_ = cmd.Help()
		return true
	}
	return false
}

func missingFlagError(cmd *cobra.Command, flag string) error {
	_ = cmd.Help()
	return fmt.Errorf("required flag %s not set", flag)
}

// loadLayout reads an AOI definition and resolves its tag layout.
func loadLayout(path, aoi string) (*l5x.Definition, *layout.Layout, error) {
	def, err := l5x.LoadFile(path, aoi)
	if err != nil {
		return nil, nil, errors.WrapDefinitionError(err, path, aoi)
	}
	l, err := layout.Resolve(def.Parameters)
	if err != nil {
		return nil, nil, errors.WrapDefinitionError(err, path, def.Name)
	}
	return def, l, nil
}

// tagSource is the shared --hex / --snapshot --tag input of decode, encode and edit.
type tagSource struct {
	hex      string
	snapshot string
	tag      string
}

func (s *tagSource) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.hex, "hex", "", "Tag bytes as hex (spaces, ':' and '-' allowed)")
	cmd.Flags().StringVar(&s.snapshot, "snapshot", "", "YAML tag snapshot to read the tag from")
	cmd.Flags().StringVar(&s.tag, "tag", "", "Instance tag name in the snapshot (default AT_<aoi>)")
}

func (s *tagSource) tagName(aoi string) string {
	if s.tag != "" {
		return s.tag
	}
	return config.DefaultTagPrefix + aoi
}

// load returns the tag bytes and, for snapshot input, the opened store.
// With zeroMissing a missing snapshot file or tag starts out as a zeroed buffer.
func (s *tagSource) load(cmd *cobra.Command, def *l5x.Definition, l *layout.Layout, zeroMissing bool) ([]byte, *tagstore.MemoryStore, error) {
	switch {
	case s.hex != "" && s.snapshot != "":
		return nil, nil, fmt.Errorf("--hex and --snapshot are mutually exclusive")
	case s.hex != "":
		data, err := tagstore.ParseHex(s.hex)
		if err != nil {
			return nil, nil, fmt.Errorf("--hex: %w", err)
		}
		return data, nil, nil
	case s.snapshot != "":
		store, err := tagstore.LoadSnapshot(s.snapshot)
		if zeroMissing && stderrors.Is(err, fs.ErrNotExist) {
			store, err = tagstore.NewMemoryStore(), nil
		}
		if err != nil {
			return nil, nil, err
		}
		tag := s.tagName(def.Name)
		data, err := store.ReadTag(cmd.Context(), tag)
		if zeroMissing && stderrors.Is(err, tagstore.ErrTagNotFound) {
			return make([]byte, l.Size()), store, nil
		}
		if err != nil {
			return nil, nil, errors.WrapStoreError(err, tag)
		}
		return data, store, nil
	}
	return nil, nil, nil
}
