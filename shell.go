package rpn

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// The companion shell runs cshs commands. It is started lazily on the first
// cshs and fed one command at a time; a sentinel echo after each command
// marks completion, and output before the sentinel is forwarded to the
// diagnostics writer. A command that outruns the timeout marks the shell
// failed; further cshs calls error until the interpreter is closed.

const shellSentinel = "__rpn_sync__"

type shellState int

const (
	shellIdle shellState = iota
	shellAwaitingChild
	shellFailed
)

type companionShell struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	lines   chan string
	diag    io.Writer
	timeout time.Duration
	state   shellState
	seq     int
}

func startShell(argv []string, timeout time.Duration, diag io.Writer) (*companionShell, error) {
	if len(argv) == 0 {
		return nil, errors.New("no shell command configured")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stderr = diag
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("start shell: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("start shell: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start shell %s: %w", argv[0], err)
	}

	lines := make(chan string, 64)
	go func() {
		sc := bufio.NewScanner(stdout)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	return &companionShell{
		cmd:     cmd,
		stdin:   stdin,
		lines:   lines,
		diag:    diag,
		timeout: timeout,
	}, nil
}

// Send writes one command followed by a sentinel echo, then drains output
// until the sentinel comes back or the timeout expires.
func (s *companionShell) Send(command string) error {
	if s.state == shellFailed {
		return errors.New("companion shell is not responding")
	}
	s.seq++
	marker := fmt.Sprintf("%s %d", shellSentinel, s.seq)
	if _, err := fmt.Fprintf(s.stdin, "%s\necho %s\n", command, marker); err != nil {
		s.state = shellFailed
		return fmt.Errorf("companion shell write: %w", err)
	}
	s.state = shellAwaitingChild

	deadline := time.NewTimer(s.timeout)
	defer deadline.Stop()
	for {
		select {
		case line, ok := <-s.lines:
			if !ok {
				s.state = shellFailed
				return errors.New("companion shell exited")
			}
			if strings.TrimSpace(line) == marker {
				s.state = shellIdle
				return nil
			}
			fmt.Fprintln(s.diag, line)
		case <-deadline.C:
			s.state = shellFailed
			return fmt.Errorf("companion shell did not finish within %s", s.timeout)
		}
	}
}

// Close ends the shell's input and reaps the process. A failed shell is
// killed rather than waited on, since it may be wedged on a command. The
// line channel is drained so the reader goroutine can reach EOF and exit;
// after a timeout nothing else ever receives from it.
func (s *companionShell) Close() error {
	s.stdin.Close()
	if s.state == shellFailed && s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	for range s.lines {
	}
	return s.cmd.Wait()
}
