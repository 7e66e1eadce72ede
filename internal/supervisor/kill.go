package supervisor

import (
	"fmt"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// killStageTimeout bounds how long each escalation stage waits for the
// tree to exit before moving to the next signal (§4.7: "waiting up to a
// fixed timeout between stages").
const killStageTimeout = 3 * time.Second

// escalation is the graceful → hang-up → hard-kill signal sequence.
var escalation = []syscall.Signal{syscall.SIGTERM, syscall.SIGHUP, syscall.SIGKILL}

// Kill escalates signals across the whole process tree rooted at pid:
// graceful, then hang-up, then hard kill, waiting up to killStageTimeout
// between stages. Returns an error if any process in the tree remains
// alive after the final stage (P8).
func (s *Supervisor) Kill(pid int) error {
	root, err := process.NewProcess(int32(pid))
	if err != nil {
		return nil // already gone
	}

	for _, sig := range escalation {
		tree := collectTree(root)
		if len(tree) == 0 {
			return nil
		}
		for _, p := range tree {
			_ = p.SendSignal(sig)
		}

		deadline := time.Now().Add(killStageTimeout)
		for time.Now().Before(deadline) {
			if !anyAlive(tree) {
				return nil
			}
			time.Sleep(pollInterval)
		}
	}

	if anyAlive(collectTree(root)) {
		return fmt.Errorf("supervisor: process tree rooted at %d survived escalated kill", pid)
	}
	return nil
}

// collectTree returns root plus every descendant, walked breadth-first.
func collectTree(root *process.Process) []*process.Process {
	tree := []*process.Process{root}
	queue := []*process.Process{root}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		children, err := p.Children()
		if err != nil {
			continue
		}
		tree = append(tree, children...)
		queue = append(queue, children...)
	}
	return tree
}

func anyAlive(tree []*process.Process) bool {
	for _, p := range tree {
		if alive, err := p.IsRunning(); err == nil && alive {
			return true
		}
	}
	return false
}
