package ffmpeg

import (
	"bufio"
	"context"
	"os/exec"
)

// Runner launches a decoder binary and surfaces its diagnostic stream.
type Runner interface {
	// Run starts bin with args, feeds every stderr line to onLine, waits for
	// end-of-stream and process exit, and returns the process error (nil on
	// exit code 0). Cancelling ctx kills the process.
	Run(ctx context.Context, bin string, args []string, onLine func(string)) error
}

// ExecRunner runs real processes. No shell is involved; args are passed to
// the binary as-is.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, bin string, args []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, bin, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}

	// Drain stderr to EOF before Wait so the caller never sees a line that
	// was still being written when the process went away.
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if onLine != nil {
			onLine(scanner.Text())
		}
	}

	return cmd.Wait()
}
