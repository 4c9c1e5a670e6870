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

package handoff

import (
	"sync/atomic"

	"github.com/jetsetilly/framehandoff/framedata"
)

// doubleBuffer holds the two frame data slots. the slot named by submitIdx is
// the submit slot and the other slot is the render slot. the two can never be
// the same slot.
type doubleBuffer struct {
	slots [2]framedata.FrameData

	// only ever 0 or 1. changed only by swap()
	submitIdx atomic.Uint32
}

func (b *doubleBuffer) submit() *framedata.FrameData {
	return &b.slots[b.submitIdx.Load()]
}

func (b *doubleBuffer) render() *framedata.FrameData {
	return &b.slots[1-b.submitIdx.Load()]
}

// swap exchanges the submit and render slots. the frame data is not copied.
func (b *doubleBuffer) swap() {
	b.submitIdx.Store(1 - b.submitIdx.Load())
}

func (b *doubleBuffer) reset() {
	b.slots[0].Reset()
	b.slots[1].Reset()
	b.submitIdx.Store(0)
}
