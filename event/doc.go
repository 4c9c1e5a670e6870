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

// Package event implements a binary, waitable flag that can be shared
// between goroutines.
//
// An Event is either signaled or unsignaled. The initial state and the reset
// policy are chosen when the Event is created:
//
//	ready := event.NewEvent(event.ResetAutomatically, event.Signaled)
//
// Raise() sets the flag. With the ResetManually policy the flag stays set,
// and every waiter succeeds, until Clear() is called. With the
// ResetAutomatically policy a successful Wait() clears the flag at the same
// moment it is observed, so each Raise() is consumed by exactly one Wait().
// Raising an Event that is already signaled does nothing.
//
// Wait() has three outcomes. A nil error means the event was signaled. An
// error matching the TimedOut pattern means the timeout elapsed first:
//
//	err := ready.Wait(10 * time.Millisecond)
//	if curated.Is(err, event.TimedOut) {
//		// try again later
//	}
//
// Any other error is a failure of the Event itself, for example because it
// has been destroyed. A timeout of Infinite waits forever and a timeout of
// zero polls the current state without blocking.
//
// A successful Wait() is never reported unless the flag was actually raised.
package event
