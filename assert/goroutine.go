// This file is part of Framehandoff.
//
// Framehandoff is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Framehandoff is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Framehandoff.  If not, see <https://www.gnu.org/licenses/>.

// Package assert contains checks that are only compiled into the program when
// the "assertions" build tag is present. Without the build tag the checks do
// nothing.
//
// The Role type records the goroutine that first performs a role and panics
// if the role is later performed by a different goroutine. For example, the
// producer side of a frame handoff can only ever be driven by one goroutine:
//
//	var producer = assert.Role{Name: "producer"}
//
//	func submit() {
//		producer.Check()
//		...
//	}
package assert

import (
	"bytes"
	"runtime"
	"strconv"
)

// GetGoroutineID returns the ID of the goroutine calling the function. The
// value is parsed from the output of runtime.Stack() and should only be used
// for debugging purposes.
func GetGoroutineID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	b = b[:bytes.IndexByte(b, ' ')]
	n, _ := strconv.ParseUint(string(b), 10, 64)
	return n
}
