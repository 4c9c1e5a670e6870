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
	"time"

	"github.com/jetsetilly/framehandoff/curated"
	"github.com/jetsetilly/framehandoff/event"
	"github.com/jetsetilly/framehandoff/framedata"
)

// SubmitElapsedTime writes the frame constants into the submit slot. Returns
// an error matching the NotOwner pattern if the producer does not own the
// submit slot.
func (h *FrameHandoff) SubmitElapsedTime(systemSeconds float32, simulationSeconds float32) error {
	h.producer.Check()

	if !h.owns.Load() {
		return curated.Errorf(NotOwner)
	}

	h.buf.submit().Constants = framedata.FrameConstants{
		SystemSeconds:     systemSeconds,
		SimulationSeconds: simulationSeconds,
	}

	return nil
}

// SubmitBackBufferColor writes the clear color into the submit slot. The
// values are not clamped. Returns an error matching the NotOwner pattern if
// the producer does not own the submit slot.
func (h *FrameHandoff) SubmitBackBufferColor(r float32, g float32, b float32, a float32) error {
	h.producer.Check()

	if !h.owns.Load() {
		return curated.Errorf(NotOwner)
	}

	h.buf.submit().BackBufferColor = framedata.Color{R: r, G: g, B: b, A: a}

	return nil
}

// WaitUntilSubmissionAllowed blocks until the consumer has taken the
// previously submitted frame or until the timeout has elapsed. A timeout of
// event.Infinite means the function waits forever. A timeout of zero means
// the function does not wait at all.
//
// Returns nil if the producer now owns the submit slot. An error matching the
// TimedOut pattern means the consumer has not yet taken the previous frame and
// the producer can try again later. Any other error means the handoff can no
// longer continue.
//
// A timed out wait does not change ownership of the submit slot.
func (h *FrameHandoff) WaitUntilSubmissionAllowed(timeout time.Duration) error {
	h.producer.Check()

	if !h.initialised.Load() {
		return curated.Errorf(NotInitialised)
	}

	if err := h.fatalError(); err != nil {
		return err
	}

	err := h.ready.WaitOrAbort(timeout, h.fatal)
	if err != nil {
		switch {
		case curated.Is(err, event.TimedOut):
			h.stats.producerTimeouts.Add(1)
			return curated.Errorf(TimedOut, timeout)
		case curated.Is(err, event.Aborted):
			return h.fatalError()
		}
		return curated.Errorf(SyncPrimitiveError, err)
	}

	// the consumer may have become fatal after raising the ready signal
	if err := h.fatalError(); err != nil {
		return err
	}

	h.owns.Store(true)
	h.signalled = false

	return nil
}

// SignalSubmissionComplete releases the submit slot to the consumer. The slot
// is stamped with the next frame number.
//
// Calling the function a second time without a successful call to
// WaitUntilSubmissionAllowed() in between does nothing. Calling the function
// without ever having owned the submit slot is an error matching the NotOwner
// pattern. Any other error means the handoff can no longer continue.
func (h *FrameHandoff) SignalSubmissionComplete() error {
	h.producer.Check()

	if !h.initialised.Load() {
		return curated.Errorf(NotInitialised)
	}

	if !h.owns.Load() {
		if h.signalled {
			return nil
		}
		return curated.Errorf(NotOwner)
	}

	h.frame++
	h.buf.submit().Frame = h.frame

	h.owns.Store(false)
	h.signalled = true

	// count the frame before it is visible to the consumer
	h.stats.submitted.Add(1)
	h.stats.inFlight.Add(1)

	if err := h.submitted.Raise(); err != nil {
		// the frame never reached the consumer
		h.stats.submitted.Add(^uint64(0))
		h.stats.inFlight.Add(-1)
		return curated.Errorf(SyncPrimitiveError, err)
	}

	return nil
}
