// Package supervisor implements the app-process supervisor (C8, §4.7):
// locates a launched application's process tree, reports liveness, and
// tears it down with an escalating signal sequence.
package supervisor

import (
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/duoscreen/orchestrator/internal/execctx"
)

const pollInterval = 100 * time.Millisecond

// Supervisor is the gopsutil-backed execctx.ProcessSupervisor.
// launchMarker, when set, is a Steam launch-command substring Find
// matches against every process's command line; when empty, Find falls
// back to "newest process whose create time is after the last launch
// window" (§4.7, "matching the Steam-launch marker or, for non-Steam
// apps, a recent spawn").
type Supervisor struct {
	launchMarker string

	mu           sync.Mutex
	launchedAt   time.Time
	launchedProc *exec.Cmd
}

// New constructs a Supervisor. marker is the Steam launch-command
// substring to watch for; pass "" for non-Steam apps, where Find instead
// uses the recent-spawn heuristic.
func New(marker string) *Supervisor {
	return &Supervisor{launchMarker: marker}
}

// Launch starts command directly (used by actions that spawn their own
// auxiliary process, e.g. the secondary-app launcher) and marks the spawn
// window so a subsequent Find's recent-spawn fallback has a reference
// point.
func (s *Supervisor) Launch(command string, args []string) (int, error) {
	cmd := exec.Command(command, args...)
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("supervisor: launch %s: %w", command, err)
	}

	s.mu.Lock()
	s.launchedAt = time.Now()
	s.launchedProc = cmd
	s.mu.Unlock()

	go cmd.Wait() // reap to avoid a zombie; exit status isn't consumed here

	return cmd.Process.Pid, nil
}

// MarkLaunchWindow records "now" as the reference point for Find's
// recent-spawn fallback, for the case where the target application is
// spawned by an external launcher rather than by Launch.
func (s *Supervisor) MarkLaunchWindow() {
	s.mu.Lock()
	s.launchedAt = time.Now()
	s.mu.Unlock()
}

// Find polls the system process tree until a process matching the launch
// marker (or, absent a marker, the most recently created process since
// the last launch window) is found, or timeout expires.
func (s *Supervisor) Find(timeout time.Duration) (int, error) {
	deadline := time.Now().Add(timeout)
	for {
		if pid, ok := s.findOnce(); ok {
			return pid, nil
		}
		if time.Now().After(deadline) {
			return 0, fmt.Errorf("supervisor: no matching process within %s", timeout)
		}
		time.Sleep(pollInterval)
	}
}

func (s *Supervisor) findOnce() (int, bool) {
	procs, err := process.Processes()
	if err != nil {
		return 0, false
	}

	s.mu.Lock()
	since := s.launchedAt
	s.mu.Unlock()

	if s.launchMarker != "" {
		for _, p := range procs {
			cmdline, err := p.Cmdline()
			if err != nil {
				continue
			}
			if strings.Contains(cmdline, s.launchMarker) {
				return int(p.Pid), true
			}
		}
		return 0, false
	}

	var newestPid int
	var newestCreate int64
	for _, p := range procs {
		createMs, err := p.CreateTime()
		if err != nil {
			continue
		}
		createdAt := time.UnixMilli(createMs)
		if createdAt.Before(since) {
			continue
		}
		if createMs > newestCreate {
			newestCreate = createMs
			newestPid = int(p.Pid)
		}
	}
	if newestPid == 0 {
		return 0, false
	}
	return newestPid, true
}

// IsAlive is a cheap, non-blocking liveness check.
func (s *Supervisor) IsAlive(pid int) bool {
	alive, err := process.PidExists(int32(pid))
	return err == nil && alive
}

// Wait blocks, polling, until pid is no longer alive.
func (s *Supervisor) Wait(pid int) error {
	for s.IsAlive(pid) {
		time.Sleep(pollInterval)
	}
	return nil
}

var _ execctx.ProcessSupervisor = (*Supervisor)(nil)
