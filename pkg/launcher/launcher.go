// Package launcher starts the commands of docked application icons and
// reports when they exit.
package launcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Exit statuses reported for commands that never ran.
const (
	// StatusExecFailed is the status a launched child reports when the
	// command could not be executed.
	StatusExecFailed = 111
	// StatusNotFound is the shell's status for an unknown command.
	StatusNotFound = 127
)

// Handle identifies a launched process.
type Handle int

// SavedState carries window state to restore in the launched application.
type SavedState struct {
	Workspace    int
	Hidden       bool
	Miniaturized bool
	Shaded       bool
}

// Launcher starts commands.
type Launcher interface {
	Launch(ctx context.Context, command string, state *SavedState) (Handle, error)
}

// ExitFunc receives the exit status of a launched process. It is called
// from a waiter goroutine.
type ExitFunc func(h Handle, status int)

// Exec launches commands through a shell.
type Exec struct {
	// Shell runs each command as `Shell -c command`. Defaults to /bin/sh.
	Shell string
	// OnExit is called once per launched process.
	OnExit ExitFunc
	Logger *log.Logger

	mu   sync.Mutex
	next Handle
}

// Launch starts command in the background. The context only bounds the
// start, not the lifetime of the process.
func (e *Exec) Launch(ctx context.Context, command string, state *SavedState) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	shell := e.Shell
	if shell == "" {
		shell = "/bin/sh"
	}

	cmd := exec.Command(shell, "-c", command)
	cmd.Env = append(os.Environ(), stateEnv(state)...)
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start %q: %w", command, err)
	}

	e.mu.Lock()
	e.next++
	h := e.next
	e.mu.Unlock()

	logger := e.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Debug("launched", "command", command, "pid", cmd.Process.Pid, "handle", h)

	go func() {
		status := 0
		if err := cmd.Wait(); err != nil {
			if ee, ok := err.(*exec.ExitError); ok {
				status = ee.ExitCode()
			} else {
				status = StatusExecFailed
			}
		}
		if e.OnExit != nil {
			e.OnExit(h, status)
		}
	}()
	return h, nil
}

func stateEnv(state *SavedState) []string {
	if state == nil {
		return nil
	}
	return []string{
		"DOCKWORKS_WORKSPACE=" + strconv.Itoa(state.Workspace+1),
		"DOCKWORKS_HIDDEN=" + yesNo(state.Hidden),
		"DOCKWORKS_MINIATURIZED=" + yesNo(state.Miniaturized),
		"DOCKWORKS_SHADED=" + yesNo(state.Shaded),
	}
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

// ExecFailed reports whether status means the command never ran.
func ExecFailed(status int) bool {
	return status == StatusExecFailed || status == StatusNotFound
}

// Expand substitutes %s in template with the shell-quoted text and %d with
// the shell-quoted paths, and collapses %% to %.
func Expand(template, text string, paths []string) string {
	var b strings.Builder
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '%' || i+1 == len(template) {
			b.WriteByte(c)
			continue
		}
		i++
		switch template[i] {
		case 's':
			b.WriteString(Quote(text))
		case 'd':
			quoted := make([]string, len(paths))
			for j, p := range paths {
				quoted[j] = Quote(p)
			}
			b.WriteString(strings.Join(quoted, " "))
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteByte(template[i])
		}
	}
	return b.String()
}

// Quote single-quotes s for a POSIX shell.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

var _ Launcher = (*Exec)(nil)
