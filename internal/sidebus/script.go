package sidebus

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed assets/screen_tracking.js.tmpl
var screenTrackingScriptTemplate string

//go:embed assets/new_window_tracking.js.tmpl
var newWindowTrackingScriptTemplate string

// renderScopeScript substitutes the scope's token into a script template
// and writes it to a fresh temp file, per §9 ("Side-channel scripts"):
// "injected scripts ... must be written to a temp file before being loaded
// by the window manager; unload on scope drop."
func renderScopeScript(template, namePrefix, token string) (path string, cleanup func(), err error) {
	rendered := strings.ReplaceAll(template, "__TOKEN__", token)

	f, err := os.CreateTemp("", namePrefix+"-*.js")
	if err != nil {
		return "", nil, fmt.Errorf("sidebus: create script temp file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(rendered); err != nil {
		os.Remove(f.Name())
		return "", nil, fmt.Errorf("sidebus: write script temp file: %w", err)
	}

	return f.Name(), func() { os.Remove(f.Name()) }, nil
}
