//go:build !unix

package audio

import (
	"errors"
	"os"
)

var errPauseUnsupported = errors.New("pausing audio is not supported on this platform")

func suspend(p *os.Process) error {
	return errPauseUnsupported
}

func resume(p *os.Process) error {
	if p == nil {
		return nil
	}
	return errPauseUnsupported
}
