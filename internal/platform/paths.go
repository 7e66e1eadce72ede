// Package platform holds the concrete, host-touching implementations of
// the narrow interfaces the catalog actions declare (PathResolver,
// OverlaySpawner, ControllerLayoutStore): the parts of the system that
// are genuinely OS-specific rather than expressible against an injected
// abstraction.
package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/duoscreen/orchestrator/internal/catalog"
)

// EmuPathResolver resolves an emulator settings-file SourceKind to an
// absolute path under the invoking user's home directory.
type EmuPathResolver struct {
	HomeDir string
}

// NewEmuPathResolver builds a resolver rooted at the current user's home
// directory, falling back to "" (relative paths) if it cannot be
// determined.
func NewEmuPathResolver() *EmuPathResolver {
	home, _ := os.UserHomeDir()
	return &EmuPathResolver{HomeDir: home}
}

// Resolve implements catalog.PathResolver.
func (r *EmuPathResolver) Resolve(kind catalog.SourceKind, custom string) (string, error) {
	switch kind {
	case catalog.SourceCustom:
		if custom == "" {
			return "", fmt.Errorf("platform: custom settings source requires a path")
		}
		return custom, nil
	case catalog.SourceFlatpak:
		return filepath.Join(r.HomeDir, ".var", "app"), nil
	case catalog.SourceAppImage:
		return filepath.Join(r.HomeDir, ".config"), nil
	case catalog.SourceEmuDeck:
		return filepath.Join(r.HomeDir, "Emulation", "tools", "EmuDeck"), nil
	default:
		return "", fmt.Errorf("platform: unknown settings source kind %q", kind)
	}
}

var _ catalog.PathResolver = (*EmuPathResolver)(nil)
