//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package main

// isTerminal is always false where the terminal cannot be probed.
func isTerminal(fd uintptr) bool {
	return false
}
