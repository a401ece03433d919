// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package luafilter

import (
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// Manifest describes the YAML manifest of a Lua script passed to
// "extxyzctl filter --lua" (by default "<script>.manifest.yaml" next to
// the script). It carries metadata only — the script itself is read from
// the --lua path; Entry is recorded in load-error context but not used
// to locate the script.
type Manifest struct {
	Name    string `yaml:"name" json:"name" jsonschema:"required,minLength=1,maxLength=64,pattern=^[a-z](-?[a-z0-9])*$"`
	Version string `yaml:"version" json:"version" jsonschema:"required,minLength=1"`
	Entry   string `yaml:"entry" json:"entry" jsonschema:"required,minLength=1"`
}

const maxNameLength = 64

var namePattern = regexp.MustCompile(`^[a-z](-?[a-z0-9])*$`)

// ParseManifest parses and validates a filter manifest YAML document.
func ParseManifest(data []byte) (*Manifest, error) {
	if len(data) == 0 {
		return nil, oops.In("luafilter").New("manifest data is empty")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, oops.In("luafilter").Hint("invalid YAML").Wrap(err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks manifest constraints.
func (m *Manifest) Validate() error {
	if m.Name == "" || !namePattern.MatchString(m.Name) {
		return oops.In("luafilter").With("name", m.Name).New("name must start with a-z, contain only a-z, 0-9, single hyphens, and not end with a hyphen")
	}
	if len(m.Name) > maxNameLength {
		return oops.In("luafilter").With("name", m.Name).New("name must be 64 characters or less")
	}
	if m.Version == "" {
		return oops.In("luafilter").New("version is required")
	}
	if _, err := semver.StrictNewVersion(m.Version); err != nil {
		return oops.In("luafilter").With("version", m.Version).Hint("version must be valid semver (e.g., 1.0.0)").Wrap(err)
	}
	if m.Entry == "" {
		return oops.In("luafilter").New("entry is required")
	}
	return nil
}
