package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

// Runner turns probe source into the engine's stdout transcript.
type Runner interface {
	Run(ctx context.Context, source string) (string, error)
}

// Exec runs a TeX engine binary as a subprocess.
type Exec struct {
	Engine    string   // Binary name or path, e.g. "latex".
	OutputDir string   // Writable directory for .aux/.log; default os.TempDir().
	Args      []string // Extra arguments placed after -output-directory.
}

// args returns the full argument list (without the binary).
func (e *Exec) args() []string {
	dir := e.OutputDir
	if dir == "" {
		dir = os.TempDir()
	}
	return append([]string{"-output-directory=" + dir}, e.Args...)
}

// Run starts the engine, feeds it source on stdin, and returns stdout once
// the process has exited. stdout and stderr are drained concurrently with
// the stdin write so a verbose engine cannot block on a full pipe.
func (e *Exec) Run(ctx context.Context, source string) (string, error) {
	cmd := exec.CommandContext(ctx, e.Engine, e.args()...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return "", fmt.Errorf("%w: stdin: %v", ErrPipeUnavailable, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("%w: stdout: %v", ErrPipeUnavailable, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", fmt.Errorf("%w: stderr: %v", ErrPipeUnavailable, err)
	}

	if err := cmd.Start(); err != nil {
		return "", &StartError{Engine: e.Engine, Err: err}
	}

	var outBuf, errBuf bytes.Buffer

	var g errgroup.Group
	g.Go(func() error {
		if _, err := io.Copy(&outBuf, stdout); err != nil {
			return fmt.Errorf("%w: reading stdout: %v", ErrPipeUnavailable, err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := io.Copy(&errBuf, stderr); err != nil {
			return fmt.Errorf("%w: reading stderr: %v", ErrPipeUnavailable, err)
		}
		return nil
	})
	g.Go(func() error {
		_, err := io.WriteString(stdin, source)
		closeErr := stdin.Close()
		// An engine that stops reading early closes its end; what it
		// printed up to that point is still the answer.
		if err != nil && !errors.Is(err, syscall.EPIPE) && !errors.Is(err, os.ErrClosed) {
			return fmt.Errorf("%w: writing stdin: %v", ErrPipeUnavailable, err)
		}
		if closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
			return fmt.Errorf("%w: closing stdin: %v", ErrPipeUnavailable, closeErr)
		}
		return nil
	})
	pipeErr := g.Wait()

	// The exit status is deliberately ignored; see the package doc.
	waitErr := cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", fmt.Errorf("engine %q: %w", e.Engine, ctxErr)
	}
	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return "", fmt.Errorf("engine %q: %w", e.Engine, waitErr)
	}
	if pipeErr != nil {
		return "", pipeErr
	}

	if errBuf.Len() > 0 {
		return "", &StderrError{Stderr: errBuf.String()}
	}
	if !utf8.Valid(outBuf.Bytes()) {
		return "", ErrEncoding
	}
	return outBuf.String(), nil
}

// Version returns the first line of "<engine> --version".
func (e *Exec) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, e.Engine, "--version").Output()
	if err != nil {
		return "", &StartError{Engine: e.Engine, Err: err}
	}
	line, _, _ := bytes.Cut(bytes.TrimSpace(out), []byte("\n"))
	return string(line), nil
}
