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
	"github.com/jetsetilly/framehandoff/curated"
	"github.com/jetsetilly/framehandoff/event"
	"github.com/jetsetilly/framehandoff/framedata"
	"github.com/jetsetilly/framehandoff/logger"
)

// RunRenderIteration waits for the producer to submit a frame, takes
// ownership of it and renders it with the backend.
//
// An error matching the ConsumerPassError pattern means that the frame was
// not rendered correctly. The consumer can call RunRenderIteration() again.
// Any other error means the handoff can no longer continue. In that case
// the error will match the Fatal pattern and every subsequent call will
// return the same error immediately.
func (h *FrameHandoff) RunRenderIteration() error {
	h.consumer.Check()

	if !h.initialised.Load() {
		return curated.Errorf(NotInitialised)
	}

	if err := h.fatalError(); err != nil {
		return err
	}

	select {
	case <-h.stop:
		return curated.Errorf(Stopped)
	default:
	}

	// wait for submission
	timeout := h.prefs.consumerTimeout()
	if err := h.submitted.WaitOrAbort(timeout, h.stop); err != nil {
		switch {
		case curated.Is(err, event.Aborted):
			return curated.Errorf(Stopped)
		case curated.Is(err, event.TimedOut):
			return h.setFatal(curated.Errorf(ConsumerStalled, timeout))
		}
		return h.setFatal(curated.Errorf(SyncPrimitiveError, err))
	}
	h.stats.inFlight.Add(-1)

	// swap and release. the producer is free to write the new submit slot
	// from the moment the ready signal is raised
	h.buf.swap()
	if err := h.ready.Raise(); err != nil {
		return h.setFatal(curated.Errorf(SyncPrimitiveError, err))
	}

	d := h.buf.render()
	h.stats.lastRendered.Store(d.Frame)

	if err := h.renderPass(d); err != nil {
		h.stats.passErrors.Add(1)
		logger.Log(h, "handoff", err)
		return err
	}

	h.stats.rendered.Add(1)

	return nil
}

// renderPass runs each step of the backend in order. it stops at the first
// error.
func (h *FrameHandoff) renderPass(d *framedata.FrameData) error {
	if err := h.be.ClearColorBuffer(d.BackBufferColor); err != nil {
		return curated.Errorf(ConsumerPassError, "clear color buffer", err)
	}
	if err := h.be.ClearDepthBuffer(); err != nil {
		return curated.Errorf(ConsumerPassError, "clear depth buffer", err)
	}
	if err := h.be.PushFrameConstants(d.Constants); err != nil {
		return curated.Errorf(ConsumerPassError, "push frame constants", err)
	}
	if err := h.be.DrawRegisteredDrawables(d); err != nil {
		return curated.Errorf(ConsumerPassError, "draw", err)
	}
	if err := h.be.PresentFrame(); err != nil {
		return curated.Errorf(ConsumerPassError, "present", err)
	}
	return nil
}
