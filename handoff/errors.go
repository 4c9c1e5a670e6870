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

import "github.com/jetsetilly/framehandoff/curated"

// Error patterns returned by the FrameHandoff type.
const (
	// the producer's wait timed out. the producer can try again
	TimedOut = "handoff: producer timed out after %v"

	// a signal could not be raised or waited on
	SyncPrimitiveError = "handoff: sync primitive: %v"

	// the consumer waited longer than the ConsumerTimeout preference
	ConsumerStalled = "handoff: no submission after %v"

	// an operation of the render pass failed. the first placeholder is the
	// name of the operation. the handoff can continue
	ConsumerPassError = "handoff: render pass: %s: %v"

	// the handoff can no longer continue. wraps the cause
	Fatal = "handoff: fatal: %v"

	// the consumer was woken by Stop()
	Stopped = "handoff: stopped"

	NotOwner             = "handoff: producer does not own the submit slot"
	NotInitialised       = "handoff: not initialised"
	AlreadyInitialised   = "handoff: already initialised"
	ShutdownWhileWaiting = "handoff: cannot shutdown while %d goroutines are waiting"
	ShutdownFailed       = "handoff: shutdown: %v"
)

// IsFatal returns true if the error means that the handoff can no longer
// continue.
func IsFatal(err error) bool {
	return curated.Is(err, Fatal) || curated.Is(err, SyncPrimitiveError)
}
