// Package debug provides component-tagged debug logging for the engine.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// EnableDebug is a build-time switch.
// go build -ldflags "-X github.com/standardbeagle/scite-core/internal/debug.EnableDebug=true"
var EnableDebug = "false"

var (
	debugOutput io.Writer
	debugMutex  sync.Mutex
)

// SetDebugOutput sets the writer debug output is sent to. Pass nil to disable.
func SetDebugOutput(w io.Writer) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	debugOutput = w
}

// IsDebugEnabled reports whether debug logging is active.
func IsDebugEnabled() bool {
	if EnableDebug == "true" {
		return true
	}
	v := os.Getenv("DEBUG")
	return v == "1" || v == "true"
}

func getDebugWriter() io.Writer {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	return debugOutput
}

// Log writes a component-tagged debug line.
func Log(component, format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	w := getDebugWriter()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[DEBUG:%s] "+format, append([]interface{}{component}, args...)...)
}

// LogProps logs PropertyStore parse/lookup activity.
func LogProps(format string, args ...interface{}) {
	Log("PROPS", format, args...)
}

// LogBuffer logs Buffer/BufferSet activity.
func LogBuffer(format string, args ...interface{}) {
	Log("BUFFER", format, args...)
}

// LogJob logs JobQueue/ToolRunner activity.
func LogJob(format string, args ...interface{}) {
	Log("JOB", format, args...)
}

// LogDirector logs Director IPC traffic.
func LogDirector(format string, args ...interface{}) {
	Log("DIRECTOR", format, args...)
}

// LogSearch logs Searcher/MatchMarker activity.
func LogSearch(format string, args ...interface{}) {
	Log("SEARCH", format, args...)
}
