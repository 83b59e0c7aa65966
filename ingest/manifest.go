// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Manifest describes where the results of one election are and how to read them
type Manifest struct {
	ID        string            `toml:"id" yaml:"id"`
	Name      string            `toml:"name" yaml:"name"`
	SeatTotal int               `toml:"seat_total" yaml:"seat_total"`
	Threshold float64           `toml:"threshold" yaml:"threshold"`
	National  string            `toml:"national" yaml:"national"`
	Regions   []RegionSource    `toml:"regions" yaml:"regions"`
	Aliases   map[string]string `toml:"aliases" yaml:"aliases"`

	// dir resolves relative file paths
	dir string
}

// RegionSource names a region and its results table
type RegionSource struct {
	ID   string `toml:"id" yaml:"id"`
	Name string `toml:"name" yaml:"name"`
	File string `toml:"file" yaml:"file"`
}

// LoadManifest reads a TOML (.toml) or YAML (.yaml, .yml) manifest
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &m); err != nil {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("manifest %s: unsupported format %q (use .toml or .yaml)", path, filepath.Ext(path))
	}

	m.dir = filepath.Dir(path)
	if err := m.normalize(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return &m, nil
}

// normalize fills derived fields and checks the manifest is usable
func (m *Manifest) normalize() error {
	if m.National == "" {
		return fmt.Errorf("national results file is required")
	}
	if len(m.Regions) == 0 {
		return fmt.Errorf("at least one region is required")
	}
	if m.ID == "" {
		m.ID = Slug(m.Name)
	}
	if m.ID == "" {
		return fmt.Errorf("election id or name is required")
	}

	seen := make(map[string]bool, len(m.Regions))
	for i := range m.Regions {
		r := &m.Regions[i]
		if r.ID == "" && r.Name == "" {
			return fmt.Errorf("region %d has neither id nor name", i+1)
		}
		if r.Name == "" {
			r.Name = regionDisplayName(r.ID)
		}
		if r.ID == "" {
			r.ID = r.Name
		}
		r.ID = Slug(r.ID)
		if r.File == "" {
			return fmt.Errorf("region %s has no results file", r.ID)
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate region %s", r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}

// Path resolves a manifest-relative file path
func (m *Manifest) Path(file string) string {
	if filepath.IsAbs(file) || m.dir == "" {
		return file
	}
	return filepath.Join(m.dir, file)
}
