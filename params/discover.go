// Package params finds the parameters a shader asks for and provides the
// uniform block and sampler function that back each of them.
package params

import (
	"fmt"
	"strings"
)

// MaxParameters is the number of parameter indices a fragment may use.
const MaxParameters = 8

// Marker returns the identifier a shader uses to call parameter i.
func Marker(i int) string {
	return fmt.Sprintf("PARAMETER%d", i)
}

// Discover scans code for parameter markers. For every index in ascending
// order, the first line that contains the marker and an '=' names the
// parameter after its second whitespace separated token, unless that token
// contains a parenthesis. Indices without such a line yield nothing.
//
// The match is textual: markers inside comments count, and PARAMETER1 also
// matches PARAMETER10.
func Discover(code string) []*Parameter {
	lines := strings.Split(code, "\n")
	var out []*Parameter
	for i := 0; i < MaxParameters; i++ {
		marker := Marker(i)
		for _, line := range lines {
			if !strings.Contains(line, marker) || !strings.Contains(line, "=") {
				continue
			}
			parts := strings.Fields(line)
			if len(parts) < 2 {
				continue
			}
			name := parts[1]
			if strings.ContainsAny(name, "()") {
				continue
			}
			out = append(out, New(name, i))
			break
		}
	}
	return out
}
