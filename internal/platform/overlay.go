package platform

import (
	"os/exec"
	"sync"
	"syscall"

	"github.com/duoscreen/orchestrator/internal/catalog"
)

// ProcessOverlay spawns the session overlay UI as a subprocess and closes
// it with an interrupt signal on Close.
type ProcessOverlay struct {
	Command string
	Args    []string

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewProcessOverlay constructs a spawner for the given overlay binary.
func NewProcessOverlay(command string, args []string) *ProcessOverlay {
	return &ProcessOverlay{Command: command, Args: args}
}

// Spawn implements catalog.OverlaySpawner.
func (o *ProcessOverlay) Spawn() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	cmd := exec.Command(o.Command, o.Args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	o.cmd = cmd
	return nil
}

// Close implements catalog.OverlaySpawner.
func (o *ProcessOverlay) Close() error {
	o.mu.Lock()
	cmd := o.cmd
	o.cmd = nil
	o.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		return cmd.Process.Kill()
	}
	return nil
}

var _ catalog.OverlaySpawner = (*ProcessOverlay)(nil)
