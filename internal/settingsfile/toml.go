// Package settingsfile implements the two on-disk codecs per-emulator
// settings actions read and write as a flat key/value map (§11.6): TOML
// via the third-party go-toml/v2 decoder, and a minimal line-oriented INI
// codec on the standard library. Both satisfy catalog.SettingsFile.
package settingsfile

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// TOMLCodec reads and writes a settings file as a single-level TOML table,
// flattened to map[string]string the way the emulator config files this
// targets actually use (values are scalars, never nested tables).
type TOMLCodec struct{}

// Read decodes the file at path into a flat key/value map. A missing file
// is treated as an empty settings map rather than an error, since the
// settings file may not exist until the emulator's first run.
func (TOMLCodec) Read(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("settingsfile: read %s: %w", path, err)
	}

	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("settingsfile: decode %s: %w", path, err)
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[k] = fmt.Sprintf("%v", v)
	}
	return out, nil
}

// Write encodes values as a TOML table and replaces the file at path.
func (TOMLCodec) Write(path string, values map[string]string) error {
	raw := make(map[string]interface{}, len(values))
	for k, v := range values {
		raw[k] = v
	}

	data, err := toml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("settingsfile: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("settingsfile: write %s: %w", path, err)
	}
	return nil
}
