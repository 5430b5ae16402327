// Package jobqueue implements Job and JobQueue, the bounded FIFO of
// external-command work and its execution flags (spec §3, §4.6), grounded
// on the original SciTE JobQueue.h.
package jobqueue

import "github.com/standardbeagle/scite-core/internal/pathmodel"

// Subsystem identifies what kind of process a Job launches (spec §3).
type Subsystem int

const (
	SubsystemCLI Subsystem = iota
	SubsystemGUI
	SubsystemShell
	SubsystemExtension
	SubsystemHelp
	SubsystemOtherHelp
	SubsystemGrep
)

// Flags is a bitset of per-job behaviour switches (spec §3).
type Flags int

const (
	FlagForceQueue Flags = 1 << iota
	FlagHasStdin
	FlagQuiet
	FlagVeryQuiet
	FlagReplaceSelectionYes
	FlagReplaceSelectionIfSuccess
	FlagGroupUndo
)

// Has reports whether f includes all bits of want.
func (f Flags) Has(want Flags) bool { return f&want == want }

// Job is one unit of external-command execution (spec §3).
type Job struct {
	Command    string
	WorkingDir pathmodel.Path
	StdinText  string
	Kind       Subsystem
	Flags      Flags
}

// Clear resets j to its zero value, mirroring Job::Clear.
func (j *Job) Clear() {
	*j = Job{}
}

// IsEmpty reports whether j carries no command.
func (j *Job) IsEmpty() bool {
	return j.Command == ""
}
