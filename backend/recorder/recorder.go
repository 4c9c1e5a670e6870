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

// Package recorder implements a backend that records the operations of the
// render pass instead of drawing anything. It is used by the headless and
// performance modes and by tests.
//
// A fault can be injected into any operation with the FailOn() function. The
// next call to that operation will fail with the supplied error.
package recorder

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jetsetilly/framehandoff/backend"
	"github.com/jetsetilly/framehandoff/curated"
	"github.com/jetsetilly/framehandoff/framedata"
)

// Op identifies an operation of the backend.Backend interface.
type Op int

// List of valid Op values.
const (
	OpClearColor Op = iota
	OpClearDepth
	OpPushConstants
	OpDraw
	OpPresent
	numOps
)

func (op Op) String() string {
	switch op {
	case OpClearColor:
		return "clear color"
	case OpClearDepth:
		return "clear depth"
	case OpPushConstants:
		return "push constants"
	case OpDraw:
		return "draw"
	case OpPresent:
		return "present"
	}
	return "unknown"
}

// Call is a single recorded operation.
type Call struct {
	Op Op

	// a copy of the data passed to the operation. only the fields relevant
	// to the operation are filled in
	Color     framedata.Color
	Constants framedata.FrameConstants
	Data      framedata.FrameData
}

func (c Call) String() string {
	switch c.Op {
	case OpClearColor:
		return fmt.Sprintf("%s %s", c.Op, c.Color)
	case OpPushConstants:
		return fmt.Sprintf("%s %s", c.Op, c.Constants)
	case OpDraw:
		return fmt.Sprintf("%s %s", c.Op, c.Data)
	}
	return c.Op.String()
}

// Injected is the pattern used for errors returned by an injected fault.
const Injected = "recorder: injected fault in %s: %v"

// Recorder implements the backend.Backend interface. Drawables registered
// with the embedded Registry are drawn by DrawRegisteredDrawables().
type Recorder struct {
	backend.Registry

	crit sync.Mutex

	// maximum number of calls to keep. oldest calls are discarded first. a
	// value of zero or less means there is no limit
	maxCalls int
	calls    []Call

	// number of calls for each operation. not affected by maxCalls
	counts [numOps]int

	faults map[Op]error

	// how long PresentFrame() takes
	presentDelay time.Duration
}

// NewRecorder is the preferred method of initialisation for the Recorder
// type. The maxCalls argument limits how many calls are kept in memory. A value
// of zero or less means there is no limit.
func NewRecorder(maxCalls int) *Recorder {
	return &Recorder{
		maxCalls: maxCalls,
		faults:   make(map[Op]error),
	}
}

// FailOn causes the next call to the operation to fail with an error that
// wraps the supplied error. The fault is removed once it has been triggered.
func (rec *Recorder) FailOn(op Op, err error) {
	rec.crit.Lock()
	defer rec.crit.Unlock()
	rec.faults[op] = err
}

// SetPresentDelay sets how long PresentFrame() blocks for. Useful for
// simulating a backend that waits for the vertical retrace.
func (rec *Recorder) SetPresentDelay(d time.Duration) {
	rec.crit.Lock()
	defer rec.crit.Unlock()
	rec.presentDelay = d
}

// Calls returns a copy of the recorded calls.
func (rec *Recorder) Calls() []Call {
	rec.crit.Lock()
	defer rec.crit.Unlock()
	c := make([]Call, len(rec.calls))
	copy(c, rec.calls)
	return c
}

// Count returns the number of times the operation has been called, including
// calls that have since been discarded and calls that failed.
func (rec *Recorder) Count(op Op) int {
	rec.crit.Lock()
	defer rec.crit.Unlock()
	return rec.counts[op]
}

// Reset forgets all recorded calls and counts. Injected faults are also
// forgotten.
func (rec *Recorder) Reset() {
	rec.crit.Lock()
	defer rec.crit.Unlock()
	rec.calls = rec.calls[:0]
	rec.counts = [numOps]int{}
	clear(rec.faults)
}

func (rec *Recorder) String() string {
	rec.crit.Lock()
	defer rec.crit.Unlock()
	s := strings.Builder{}
	for _, c := range rec.calls {
		s.WriteString(c.String())
		s.WriteString("\n")
	}
	return s.String()
}

func (rec *Recorder) record(c Call) error {
	rec.crit.Lock()
	defer rec.crit.Unlock()

	rec.counts[c.Op]++

	rec.calls = append(rec.calls, c)
	if rec.maxCalls > 0 && len(rec.calls) > rec.maxCalls {
		rec.calls = rec.calls[len(rec.calls)-rec.maxCalls:]
	}

	if err, ok := rec.faults[c.Op]; ok {
		delete(rec.faults, c.Op)
		return curated.Errorf(Injected, c.Op, err)
	}

	return nil
}

// ClearColorBuffer implements the backend.Backend interface.
func (rec *Recorder) ClearColorBuffer(c framedata.Color) error {
	return rec.record(Call{Op: OpClearColor, Color: c})
}

// ClearDepthBuffer implements the backend.Backend interface.
func (rec *Recorder) ClearDepthBuffer() error {
	return rec.record(Call{Op: OpClearDepth})
}

// PushFrameConstants implements the backend.Backend interface.
func (rec *Recorder) PushFrameConstants(c framedata.FrameConstants) error {
	return rec.record(Call{Op: OpPushConstants, Constants: c})
}

// DrawRegisteredDrawables implements the backend.Backend interface.
func (rec *Recorder) DrawRegisteredDrawables(d *framedata.FrameData) error {
	if err := rec.record(Call{Op: OpDraw, Data: *d}); err != nil {
		return err
	}
	return rec.Registry.Draw(d)
}

// PresentFrame implements the backend.Backend interface.
func (rec *Recorder) PresentFrame() error {
	rec.crit.Lock()
	d := rec.presentDelay
	rec.crit.Unlock()

	if d > 0 {
		time.Sleep(d)
	}

	return rec.record(Call{Op: OpPresent})
}
