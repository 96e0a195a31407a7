package sheets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DirSource enumerates stylesheet files under one directory, filtered by
// extension, and hands back their raw contents. It is the shipped
// implementation of the registry's discovery collaborator.
type DirSource struct {
	Dir string
	Ext string // dot included, e.g. ".css"
}

// List returns the relative paths of all matching files under Dir in a
// stable order.
func (d DirSource) List() ([]string, error) {
	var names []string
	err := filepath.WalkDir(d.Dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		if !strings.EqualFold(filepath.Ext(path), d.Ext) {
			return nil
		}
		rel, err := filepath.Rel(d.Dir, path)
		if err != nil {
			return err
		}
		names = append(names, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning stylesheet directory %s: %w", d.Dir, err)
	}
	sort.Strings(names)
	return names, nil
}

// Read returns the raw contents of one discovered file.
func (d DirSource) Read(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(d.Dir, name))
	if err != nil {
		return "", fmt.Errorf("reading stylesheet %s: %w", name, err)
	}
	return string(data), nil
}
