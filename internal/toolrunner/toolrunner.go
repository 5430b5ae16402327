// Package toolrunner implements the worker side of spec §4.6: launching a
// job's child process, streaming its output onto the UI thread in order,
// and handling cancellation. Grounded on the teacher's exec.CommandContext
// usage in internal/git/provider.go, generalised from one-shot git
// invocations to the editor's long-running, cancellable, streamed jobs.
package toolrunner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	scerrors "github.com/standardbeagle/scite-core/internal/errors"
	"github.com/standardbeagle/scite-core/internal/jobqueue"
)

// pollInterval is the poll backoff the worker uses while waiting for a
// readable chunk, avoiding a busy loop (spec §4.6 "Backpressure").
const pollInterval = 20 * time.Millisecond

// OutputPane is the UI-thread collaborator all child output and summary
// lines are appended to. Its own rendering is out of this module's scope
// (spec §1); Runner only sequences calls onto it.
type OutputPane interface {
	Append(line string)
	EnsureVisible()
	MoveSelectionToEnd()
}

// SelectionReplacer lets a completed job with a replace-selection flag push
// its captured output back into the active document.
type SelectionReplacer interface {
	ReplaceSelection(text string)
}

// Poster marshals fn onto the UI thread, abstracting the platform-specific
// post-to-main-thread mechanism described in spec §5.
type Poster func(fn func())

// Runner drives one tool chain (spec §4.6/§5). ExecuteAll runs the chain in
// the goroutine that calls it.
type Runner struct {
	Queue    *jobqueue.Queue
	Pane     OutputPane
	Post     Poster
	Replacer SelectionReplacer

	mu      sync.Mutex
	running *exec.Cmd
}

// New returns a Runner bound to queue, posting output through post.
func New(queue *jobqueue.Queue, pane OutputPane, post Poster) *Runner {
	if post == nil {
		post = func(fn func()) { fn() }
	}
	return &Runner{Queue: queue, Pane: pane, Post: post}
}

// ExecuteAll starts from slot 0 of the queue and, on each job's completion,
// advances to the next slot if present, stopping immediately on
// cancellation (spec §4.6 `execute_all()`). It runs synchronously in the
// caller's goroutine — callers that want the "exactly one worker thread"
// behaviour of spec §5 invoke it via `go runner.ExecuteAll(ctx)`.
func (r *Runner) ExecuteAll(ctx context.Context) error {
	job, ok := r.Queue.At(0)
	if !ok {
		return nil
	}
	if r.Queue.ShowOutputPane() && r.Pane != nil {
		r.Post(func() {
			r.Pane.EnsureVisible()
			r.Pane.MoveSelectionToEnd()
		})
	}
	r.Queue.SetExecuting(true)
	defer r.Queue.SetExecuting(false)

	idx := 0
	for {
		if r.Queue.Cancelled() {
			return scerrors.NewCancelledError("execute_all")
		}
		start := time.Now()
		exit, out, err := r.runOne(ctx, job)
		duration := time.Since(start)

		if err != nil {
			var spawnErr *scerrors.ProcessSpawnError
			if asSpawnError(err, &spawnErr) {
				r.post(fmt.Sprintf(">Failed to spawn: %v", spawnErr.Underlying))
				r.Queue.SetBuilt(false)
				return spawnErr
			}
		}

		summary := scerrors.NewProcessExitError(job.Command, exit, "", 0)
		if r.Queue.TimeCommands() {
			summary.Duration = duration
		}
		if !job.Flags.Has(jobqueue.FlagQuiet) {
			r.post(summary.Summary())
		}

		if job.Flags.Has(jobqueue.FlagReplaceSelectionYes) ||
			(job.Flags.Has(jobqueue.FlagReplaceSelectionIfSuccess) && exit == 0) {
			if r.Replacer != nil {
				text := out
				r.Post(func() { r.Replacer.ReplaceSelection(text) })
			}
		}

		if exit != 0 {
			r.Queue.SetBuilt(false)
			return scerrors.NewProcessExitError(job.Command, exit, "", duration)
		}
		r.Queue.SetBuilt(true)

		next, ok := r.Queue.Advance()
		if !ok {
			break
		}
		job = next
		idx++
		_ = idx
	}
	return nil
}

func asSpawnError(err error, out **scerrors.ProcessSpawnError) bool {
	se, ok := err.(*scerrors.ProcessSpawnError)
	if ok {
		*out = se
	}
	return ok
}

func (r *Runner) post(line string) {
	if r.Pane == nil {
		return
	}
	r.Post(func() { r.Pane.Append(line) })
}

// runOne launches job's command and streams its output, returning the exit
// code and the full captured output (used for selection-replacement).
func (r *Runner) runOne(ctx context.Context, job jobqueue.Job) (int, string, error) {
	detached := job.Kind == jobqueue.SubsystemGUI || job.Kind == jobqueue.SubsystemShell

	cmd := exec.CommandContext(ctx, shellPath(), shellArgs(job.Command)...)
	if job.WorkingDir.String() != "" {
		cmd.Dir = job.WorkingDir.String()
	}
	setProcessGroup(cmd)

	if detached {
		if err := cmd.Start(); err != nil {
			return -1, "", scerrors.NewProcessSpawnError(job.Command, err)
		}
		go cmd.Wait()
		return 0, "", nil
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, "", scerrors.NewProcessSpawnError(job.Command, err)
	}
	cmd.Stderr = cmd.Stdout // stderr folded into stdout (spec §4.6)

	var stdin io.WriteCloser
	if job.Flags.Has(jobqueue.FlagHasStdin) {
		stdin, err = cmd.StdinPipe()
		if err != nil {
			return -1, "", scerrors.NewProcessSpawnError(job.Command, err)
		}
	}

	if err := cmd.Start(); err != nil {
		return -1, "", scerrors.NewProcessSpawnError(job.Command, err)
	}
	r.mu.Lock()
	r.running = cmd
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.running = nil
		r.mu.Unlock()
	}()

	// Reads below block until the child writes, so the cancel flag is
	// also polled here and the process group is killed as soon as it is set.
	stopWatch := make(chan struct{})
	defer close(stopWatch)
	go func() {
		for {
			select {
			case <-stopWatch:
				return
			case <-time.After(pollInterval):
				if r.Queue.Cancelled() {
					killProcessGroup(cmd)
					return
				}
			}
		}
	}()

	if stdin != nil {
		io.WriteString(stdin, job.StdinText)
		stdin.Close()
	}

	var captured []byte
	scanner := bufio.NewReader(stdout)
	for {
		if r.Queue.Cancelled() {
			killProcessGroup(cmd)
			break
		}
		line, err := scanner.ReadString('\n')
		if len(line) > 0 {
			captured = append(captured, line...)
			r.post(line)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			time.Sleep(pollInterval)
		}
	}

	waitErr := cmd.Wait()
	exit := exitCode(cmd, waitErr)
	return exit, string(captured), nil
}

func exitCode(cmd *exec.Cmd, waitErr error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if waitErr != nil {
		return -1
	}
	return 0
}
