//go:build windows

package director

import (
	"errors"
	"os"
)

// errUnsupported is returned on Windows, where the original uses a hidden
// window receiving WM_COPYDATA rather than named pipes (spec §9
// "Callback-heavy IPC"). That transport is platform-specific UI glue and
// out of this module's scope (spec §1 Non-goals); a real Windows build
// would provide its own PipeEndpoint here.
var errUnsupported = errors.New("director: named-pipe transport not implemented on windows")

func makeFifo(path string) error { return errUnsupported }

func openFifoNonblockRW(path string) (*os.File, error) { return nil, errUnsupported }

func openFifoNonblockWrite(path string) (*os.File, error) { return nil, errUnsupported }
