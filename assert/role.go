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

package assert

import (
	"fmt"
	"sync/atomic"
)

// Role is claimed by the first goroutine to call Check() or Verify(). The
// zero value is ready to use.
type Role struct {
	Name string
	id   atomic.Uint64
}

// Verify returns an error if the calling goroutine is not the goroutine that
// claimed the role. Verify works regardless of the "assertions" build tag.
func (r *Role) Verify() error {
	id := GetGoroutineID()
	if r.id.CompareAndSwap(0, id) {
		return nil
	}
	if o := r.id.Load(); o != id {
		return fmt.Errorf("assert: %s role claimed by goroutine %d but used by goroutine %d", r.Name, o, id)
	}
	return nil
}

// Check panics if the calling goroutine is not the goroutine that claimed the
// role. Does nothing unless the "assertions" build tag is present.
func (r *Role) Check() {
	if !enabled {
		return
	}
	if err := r.Verify(); err != nil {
		panic(err)
	}
}

// Release forgets the goroutine that claimed the role. The next call to
// Check() or Verify() will claim the role again.
func (r *Role) Release() {
	r.id.Store(0)
}
