// SPDX-License-Identifier: MIT

package persist

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/katalvlaran/lexnet/core"
	"github.com/katalvlaran/lexnet/label"
)

// Sidecar file suffixes for dynamic label tables.
const (
	InputVocabSuffix  = ".in.vocab"
	OutputVocabSuffix = ".out.vocab"
)

// SaveFile writes n to path. Dynamic (non-closed) tables are written next to
// it as path+InputVocabSuffix and path+OutputVocabSuffix; a shared table is
// written once, as the input sidecar.
func SaveFile(path string, n *core.Network) error {
	if err := writeFile(path, func(f *os.File) error { return Save(f, n) }); err != nil {
		return err
	}
	if !n.Inputs().Closed() {
		if err := writeFile(path+InputVocabSuffix, func(f *os.File) error { return n.Inputs().WriteVocabulary(f) }); err != nil {
			return err
		}
	}
	if n.Outputs() != n.Inputs() && !n.Outputs().Closed() {
		if err := writeFile(path+OutputVocabSuffix, func(f *os.File) error { return n.Outputs().WriteVocabulary(f) }); err != nil {
			return err
		}
	}
	slog.Debug("persist: saved network", "path", path, "nodes", n.NodeCount(), "edges", n.EdgeCount())

	return nil
}

// LoadFile reads a network saved by SaveFile. Table names are resolved from
// the sidecars first, then from the registered closed sets. Options are
// applied after the sidecar resolver, so WithTables overrides it.
func LoadFile(path string, opts ...LoadOption) (*core.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("persist: open %q: %w", path, err)
	}
	defer f.Close()

	all := append([]LoadOption{WithResolver(SidecarResolver(path))}, opts...)
	n, err := Load(f, all...)
	if err != nil {
		return nil, fmt.Errorf("persist: load %q: %w", path, err)
	}
	slog.Debug("persist: loaded network", "path", path, "nodes", n.NodeCount(), "edges", n.EdgeCount())

	return n, nil
}

// SidecarResolver resolves tables from the vocabulary sidecars of path,
// falling back to the closed sets when a sidecar does not exist.
func SidecarResolver(path string) TableResolver {
	return func(role Role, name string) (*label.Table, error) {
		side := path + InputVocabSuffix
		if role == RoleOutput {
			side = path + OutputVocabSuffix
		}
		f, err := os.Open(side)
		if errors.Is(err, fs.ErrNotExist) {
			return ClosedSetResolver(role, name)
		}
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return label.ReadVocabulary(f, name)
	}
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("persist: create %q: %w", path, err)
	}
	if err = write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("persist: write %q: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("persist: close %q: %w", path, err)
	}
	return nil
}
