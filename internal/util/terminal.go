package util

import "golang.org/x/term"

// IsTerminal reports whether the file descriptor is attached to a terminal.
// Colored log output is disabled when stderr is redirected.
func IsTerminal(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}
