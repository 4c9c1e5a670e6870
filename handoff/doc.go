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

// Package handoff passes frame data from a producer goroutine to a consumer
// goroutine through a pair of frame data slots. The producer writes the next
// frame into one slot while the consumer renders the previous frame from the
// other.
//
// Exactly one goroutine acts as the producer and exactly one goroutine acts
// as the consumer. The two goroutines meet once per frame.
//
// The producer loop looks something like this:
//
//	for {
//		err := h.WaitUntilSubmissionAllowed(timeout)
//		if curated.Is(err, handoff.TimedOut) {
//			// consumer is still busy. do something else and try again
//			continue
//		}
//		if err != nil {
//			return err
//		}
//
//		h.SubmitElapsedTime(system, simulation)
//		h.SubmitBackBufferColor(r, g, b, a)
//
//		if err := h.SignalSubmissionComplete(); err != nil {
//			return err
//		}
//	}
//
// And the consumer loop:
//
//	for {
//		err := h.RunRenderIteration()
//		if curated.Is(err, handoff.ConsumerPassError) {
//			// the frame was not rendered correctly but the next one might be
//			continue
//		}
//		if err != nil {
//			return err
//		}
//	}
//
// A successful call to WaitUntilSubmissionAllowed() gives the producer
// ownership of the submit slot. SignalSubmissionComplete() gives it up again.
// The Submit*() functions return an error if the producer does not own the
// submit slot.
//
// The consumer takes ownership of the most recently submitted slot by
// swapping the slot indexes. It then allows the producer to continue,
// before running the render pass with the backend.Backend. Because the swap
// has already happened, an error in the render pass does not affect the
// handoff and is not fatal.
//
// Failure of the synchronisation primitives, or the consumer waiting longer
// than the ConsumerTimeout preference, is fatal. Once fatal, the handoff
// stays fatal until Shutdown() and Initialize() are called. The Fatal()
// channel is closed at the moment the handoff becomes fatal and any producer
// waiting in WaitUntilSubmissionAllowed() is woken with an error.
//
// When compiled with the "assertions" build tag, calling the producer
// functions from more than one goroutine (or the consumer function from more
// than one goroutine) will cause a panic.
package handoff
