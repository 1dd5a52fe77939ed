package utils

import (
	"flag"
)

// MakePath returns a string based on whether a Go package path was provided or not.
// The first non-flag argument passed to goflow is the target package.
// If no path is provided, it defaults to the package in the current directory.
func MakePath() string {
	if args := flag.Args(); len(args) >= 1 {
		return args[0]
	}
	return "."
}
