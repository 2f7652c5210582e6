package audio

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
)

// Process is a running external audio command. It implements
// speech.Stream so synthesizers can hand it out directly.
type Process struct {
	cmd  *exec.Cmd
	ctx  context.Context
	done chan struct{}

	mu     sync.Mutex
	err    error
	killed bool
}

func startProcess(ctx context.Context, cmd *exec.Cmd) (*Process, error) {
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", cmd.Path, err)
	}

	p := &Process{cmd: cmd, ctx: ctx, done: make(chan struct{})}
	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
		close(p.done)
	}()
	return p, nil
}

// Pause suspends the process where the platform supports it
func (p *Process) Pause() error {
	return suspend(p.cmd.Process)
}

// Resume continues a suspended process
func (p *Process) Resume() error {
	return resume(p.cmd.Process)
}

// Cancel kills the process
func (p *Process) Cancel() error {
	p.mu.Lock()
	p.killed = true
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	default:
	}
	// A suspended process must run again to die on some platforms
	_ = resume(p.cmd.Process)
	return p.cmd.Process.Kill()
}

// Wait blocks until the process exited. Killed processes report nil.
func (p *Process) Wait() error {
	<-p.done

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.killed || (p.ctx != nil && p.ctx.Err() != nil) {
		return nil
	}
	if p.err != nil {
		return fmt.Errorf("%s: %w", p.cmd.Path, p.err)
	}
	return nil
}

// Done is closed when the process exited
func (p *Process) Done() <-chan struct{} {
	return p.done
}
