package config

import (
	"strings"

	"github.com/standardbeagle/scite-core/internal/props"
)

// ParseCLIOverlay implements the CLI surface of spec §6: each argument
// beginning with '-' or '/' is a property assignment "name=value" (folded
// into a scratch store layered above the user store for the session); a
// bare "-p" form is recorded as "p" with value "1" (SciTE's "print and
// exit" short switch); every other argument is treated as a file path.
// Returns the scratch overlay and the ordered list of file path arguments.
func ParseCLIOverlay(args []string, base *props.Store) (*props.Store, []string) {
	scratch := props.NewLayered(base, false)
	var paths []string
	for _, arg := range args {
		if len(arg) == 0 {
			continue
		}
		if arg[0] == '-' || arg[0] == '/' {
			body := arg[1:]
			key, value, ok := strings.Cut(body, "=")
			if !ok {
				key, value = body, "1"
			}
			if key != "" {
				scratch.Set(key, value)
			}
			continue
		}
		paths = append(paths, arg)
	}
	return scratch, paths
}
