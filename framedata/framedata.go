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

// Package framedata defines the data required to render a single frame. The
// FrameData type has no synchronisation of its own. Access is controlled by
// whoever owns the slot the FrameData lives in.
package framedata

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Color is a four channel color. Channel values are not limited to any range.
type Color struct {
	R float32
	G float32
	B float32
	A float32
}

func (c Color) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f, %.3f)", c.R, c.G, c.B, c.A)
}

// Clamped returns a copy of the color with every channel limited to the range
// 0.0 to 1.0.
func (c Color) Clamped() Color {
	clamp := func(v float32) float32 {
		if v < 0.0 {
			return 0.0
		}
		if v > 1.0 {
			return 1.0
		}
		return v
	}
	return Color{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}

// FrameConstants are the values that stay constant for the duration of a
// single frame.
type FrameConstants struct {
	// seconds elapsed since the program started
	SystemSeconds float32

	// seconds of simulation time. may run at a different rate to
	// SystemSeconds and may be paused
	SimulationSeconds float32
}

func (c FrameConstants) String() string {
	return fmt.Sprintf("system=%.3fs simulation=%.3fs", c.SystemSeconds, c.SimulationSeconds)
}

// FrameConstantsSize is the number of bytes returned by FrameConstants.Bytes().
// The two values are padded to the 16 byte alignment required by a std140
// uniform block.
const FrameConstantsSize = 16

// Bytes returns the constants in the layout of a std140 uniform block, in
// little-endian byte order.
func (c FrameConstants) Bytes() []byte {
	b := make([]byte, FrameConstantsSize)
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(c.SystemSeconds))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(c.SimulationSeconds))
	return b
}

// FrameData is everything the render pass for one frame requires.
type FrameData struct {
	Constants       FrameConstants
	BackBufferColor Color

	// the sequence number of the submission. the first submitted frame is
	// frame one. a value of zero means the slot has never been submitted
	Frame uint64
}

func (d FrameData) String() string {
	return fmt.Sprintf("frame %d: %s color=%s", d.Frame, d.Constants, d.BackBufferColor)
}

// Reset zeroes every field.
func (d *FrameData) Reset() {
	*d = FrameData{}
}
