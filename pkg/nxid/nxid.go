// Package nxid handles the human readable part identifier: "PNX" followed by
// exactly seven digits.
package nxid

import "regexp"

var pattern = regexp.MustCompile(`^PNX[0-9]{7}$`)

// Valid reports whether s is a well formed part identifier.
func Valid(s string) bool {
	return pattern.MatchString(s)
}
