package snapshot

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a snapshot from YAML (JSON is valid YAML) and validates it.
func LoadFile(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read %s: %w", path, err)
	}
	var s Snapshot
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("snapshot: parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// WriteYAML encodes s in the format LoadFile reads.
func (s *Snapshot) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(OrDefault(s)); err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	return enc.Close()
}
