// Copyright (c) 2025, Foodgram Project Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package compose

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/foodgram-ops/foodgate/pkg/errors"
	"github.com/foodgram-ops/foodgate/pkg/serializer"
)

// Manifest is a typed view of a Docker Compose file, limited to the
// fields the topology checker inspects.
type Manifest struct {
	Version  string                 `yaml:"version,omitempty"`
	Services map[string]Service     `yaml:"services"`
	Volumes  map[string]*VolumeSpec `yaml:"volumes"`
}

// Service is a single Compose service declaration.
type Service struct {
	Image     string     `yaml:"image"`
	Build     *BuildSpec `yaml:"build,omitempty"`
	EnvFile   StringList `yaml:"env_file,omitempty"`
	DependsOn DependsOn  `yaml:"depends_on,omitempty"`
	Ports     []string   `yaml:"ports,omitempty"`
	Volumes   []string   `yaml:"volumes,omitempty"`
}

// BuildSpec covers both the short (string) and long (mapping) forms of
// the build key. The checker only cares whether a build is declared.
type BuildSpec struct {
	Context    string `yaml:"context,omitempty"`
	Dockerfile string `yaml:"dockerfile,omitempty"`
}

// UnmarshalYAML accepts "build: ./dir" as well as the mapping form.
func (b *BuildSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		b.Context = value.Value
		return nil
	}
	type plain BuildSpec
	return value.Decode((*plain)(b))
}

// VolumeSpec is a named volume declaration. A nil spec (bare key) is
// valid Compose syntax.
type VolumeSpec struct {
	Driver string `yaml:"driver,omitempty"`
	Name   string `yaml:"name,omitempty"`
}

// StringList accepts either a single YAML scalar or a sequence of
// scalars. Compose allows both for env_file.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*s = []string{value.Value}
		return nil
	}
	var list []string
	if err := value.Decode(&list); err != nil {
		return err
	}
	*s = list
	return nil
}

// DependsOn accepts both the short list form and the long mapping form
// (with per-dependency conditions) of depends_on.
type DependsOn []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *DependsOn) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*d = list
		return nil
	case yaml.MappingNode:
		var m map[string]yaml.Node
		if err := value.Decode(&m); err != nil {
			return err
		}
		names := make([]string, 0, len(m))
		for name := range m {
			names = append(names, name)
		}
		*d = names
		return nil
	default:
		return fmt.Errorf("depends_on must be a list or a mapping")
	}
}

// Contains reports whether name is among the dependencies.
func (d DependsOn) Contains(name string) bool {
	for _, dep := range d {
		if dep == name {
			return true
		}
	}
	return false
}

// PublishedPorts returns the host ports the service publishes. Entries
// it cannot parse are skipped.
func (s Service) PublishedPorts() []int {
	var ports []int
	for _, p := range s.Ports {
		if host, ok := parseHostPort(p); ok {
			ports = append(ports, host)
		}
	}
	return ports
}

// parseHostPort extracts the host port from "HOST:CONTAINER",
// "IP:HOST:CONTAINER", or "HOST:CONTAINER/proto" short syntax. A bare
// container port publishes an ephemeral host port and yields no match.
func parseHostPort(spec string) (int, bool) {
	spec = strings.TrimSpace(spec)
	if i := strings.IndexByte(spec, '/'); i >= 0 {
		spec = spec[:i]
	}
	parts := strings.Split(spec, ":")
	var host string
	switch len(parts) {
	case 2:
		host = parts[0]
	case 3:
		host = parts[1]
	default:
		return 0, false
	}
	// Published ranges like "9090-9091" are not used in this topology.
	n, err := strconv.Atoi(host)
	if err != nil || n < 1 || n > 65535 {
		return 0, false
	}
	return n, true
}

// Load reads and parses a Compose manifest from a local path or an
// HTTP/HTTPS URL.
func Load(path string) (*Manifest, error) {
	m, err := serializer.FromFile[Manifest](path)
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidManifest,
			"failed to read compose manifest", err, map[string]any{"path": path})
	}
	if len(m.Services) == 0 {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidManifest,
			"compose manifest declares no services", map[string]any{"path": path})
	}
	return m, nil
}

// Parse parses Compose manifest bytes.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidManifest,
			"failed to parse compose manifest", err)
	}
	if len(m.Services) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidManifest,
			"compose manifest declares no services")
	}
	return &m, nil
}
