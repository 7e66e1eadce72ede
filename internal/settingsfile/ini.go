package settingsfile

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// INICodec reads and writes a single-section INI-style file (`key=value`
// lines, `#`/`;` comments, blank lines ignored) as a flat key/value map.
// No bracketed-section support is needed: every emulator config this
// targets keeps its layout/audio keys at the top level (§11.6).
type INICodec struct{}

// Read parses path into a flat key/value map. A missing file is treated
// as an empty settings map.
func (INICodec) Read(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("settingsfile: read %s: %w", path, err)
	}
	defer f.Close()

	out := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("settingsfile: scan %s: %w", path, err)
	}
	return out, nil
}

// Write replaces path with values serialized as sorted `key=value` lines,
// so repeated writes of the same map produce byte-identical output.
func (INICodec) Write(path string, values map[string]string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(values[k])
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("settingsfile: write %s: %w", path, err)
	}
	return nil
}
