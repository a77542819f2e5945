package publishers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// configFile is the top-level shape of a publishers file.
type configFile struct {
	Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
}

// ConfigRegistry holds the validated publisher entries of one file. It is
// immutable after LoadRegistry returns.
type ConfigRegistry struct {
	publishers []PublisherConfig
	idx        map[string]int
}

// LoadRegistry reads a YAML or JSON publishers file. ${VAR} references are
// expanded from the environment before decoding so secrets such as webhook
// tokens or AWS keys can stay out of the file. Unknown keys are rejected.
func LoadRegistry(path string) (*ConfigRegistry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	file, err := decodeConfigFile([]byte(os.ExpandEnv(string(raw))), filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	if len(file.Publishers) == 0 {
		return nil, errors.New("publishers file contains no publishers entries")
	}

	reg := &ConfigRegistry{
		publishers: make([]PublisherConfig, 0, len(file.Publishers)),
		idx:        make(map[string]int, len(file.Publishers)),
	}
	for i, entry := range file.Publishers {
		cfg := entry.normalized()
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, dup := reg.idx[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		reg.idx[cfg.ID] = len(reg.publishers)
		reg.publishers = append(reg.publishers, cfg)
	}
	return reg, nil
}

// decodeConfigFile picks the decoder from the file extension. Files without
// a known extension are tried as JSON, then YAML.
func decodeConfigFile(data []byte, ext string) (configFile, error) {
	switch strings.ToLower(ext) {
	case ".json":
		return decodeJSON(data)
	case ".yaml", ".yml":
		return decodeYAML(data)
	}
	if file, err := decodeJSON(data); err == nil {
		return file, nil
	}
	file, err := decodeYAML(data)
	if err != nil {
		return configFile{}, errors.New("format not recognized (expected YAML or JSON)")
	}
	return file, nil
}

func decodeJSON(data []byte) (configFile, error) {
	var file configFile
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return configFile{}, fmt.Errorf("json: %w", err)
	}
	return file, nil
}

func decodeYAML(data []byte) (configFile, error) {
	var file configFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return configFile{}, fmt.Errorf("yaml: %w", err)
	}
	return file, nil
}

// ByID returns the publisher config by id.
func (r *ConfigRegistry) ByID(id string) (PublisherConfig, bool) {
	if r == nil {
		return PublisherConfig{}, false
	}
	i, ok := r.idx[strings.TrimSpace(id)]
	if !ok {
		return PublisherConfig{}, false
	}
	return r.publishers[i], true
}

// All returns every configured publisher in file order.
func (r *ConfigRegistry) All() []PublisherConfig {
	if r == nil {
		return nil
	}
	return append([]PublisherConfig(nil), r.publishers...)
}

// Enabled returns the publishers that are switched on, in file order.
func (r *ConfigRegistry) Enabled() []PublisherConfig {
	var out []PublisherConfig
	for _, cfg := range r.All() {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}
