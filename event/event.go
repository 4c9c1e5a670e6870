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

package event

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jetsetilly/framehandoff/curated"
)

// Policy decides what happens to a signaled Event after a successful wait.
type Policy int

// List of valid Policy values.
const (
	// the event stays signaled until Clear() is called
	ResetManually Policy = iota

	// the event is cleared by the wait that observes it
	ResetAutomatically
)

func (p Policy) String() string {
	switch p {
	case ResetManually:
		return "manual"
	case ResetAutomatically:
		return "automatic"
	}
	return "unknown"
}

// State is the initial state of a new Event.
type State bool

// List of valid State values.
const (
	Unsignaled State = false
	Signaled   State = true
)

// Infinite can be used as the timeout value for Wait() and WaitOrAbort(). The
// wait will never time out.
const Infinite time.Duration = -1

// Error patterns returned by the Event type.
const (
	TimedOut  = "event: timed out after %v"
	Destroyed = "event: destroyed"
	Aborted   = "event: wait aborted"
)

// Event is a waitable flag. Must be created with NewEvent().
type Event struct {
	policy Policy

	crit      sync.Mutex
	signaled  bool
	destroyed bool

	// closed and replaced whenever the event is raised or destroyed. waiters
	// select on the channel and then check the flags again under the mutex
	changed chan struct{}

	// number of goroutines currently inside a wait function
	waiting atomic.Int32
}

// NewEvent is the preferred method of initialisation for the Event type.
func NewEvent(policy Policy, initial State) *Event {
	return &Event{
		policy:   policy,
		signaled: bool(initial),
		changed:  make(chan struct{}),
	}
}

func (ev *Event) String() string {
	ev.crit.Lock()
	defer ev.crit.Unlock()
	if ev.destroyed {
		return "destroyed"
	}
	if ev.signaled {
		return "signaled"
	}
	return "unsignaled"
}

// Policy returns the reset policy of the event.
func (ev *Event) Policy() Policy {
	return ev.policy
}

// Raise sets the event to the signaled state and wakes waiting goroutines.
// Raising an event that is already signaled does nothing. Returns an error if
// the event has been destroyed.
func (ev *Event) Raise() error {
	ev.crit.Lock()
	defer ev.crit.Unlock()

	if ev.destroyed {
		return curated.Errorf(Destroyed)
	}

	if ev.signaled {
		return nil
	}

	ev.signaled = true
	close(ev.changed)
	ev.changed = make(chan struct{})

	return nil
}

// Clear sets the event to the unsignaled state.
func (ev *Event) Clear() error {
	ev.crit.Lock()
	defer ev.crit.Unlock()

	if ev.destroyed {
		return curated.Errorf(Destroyed)
	}

	ev.signaled = false
	return nil
}

// IsSignaled returns true if the event is currently signaled. The value may be
// out of date as soon as it is returned.
func (ev *Event) IsSignaled() bool {
	ev.crit.Lock()
	defer ev.crit.Unlock()
	return ev.signaled && !ev.destroyed
}

// Waiting returns the number of goroutines currently waiting on the event.
func (ev *Event) Waiting() int {
	return int(ev.waiting.Load())
}

// Wait blocks until the event is signaled or until the timeout elapses.
//
// Returns nil if the event was signaled. Returns an error matching the
// TimedOut pattern if the timeout elapsed. Any other error indicates that
// the event could not be waited on.
func (ev *Event) Wait(timeout time.Duration) error {
	return ev.WaitOrAbort(timeout, nil)
}

// WaitOrAbort is the same as Wait() but the wait will also end if the abort
// channel is closed. In that case the returned error will match the Aborted
// pattern. A nil abort channel is allowed.
func (ev *Event) WaitOrAbort(timeout time.Duration, abort <-chan struct{}) error {
	ev.waiting.Add(1)
	defer ev.waiting.Add(-1)

	var deadline <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		deadline = t.C
	}

	for {
		ch, err := ev.consume()
		if ch == nil {
			return err
		}

		if timeout == 0 {
			return curated.Errorf(TimedOut, timeout)
		}

		select {
		case <-ch:
		case <-abort:
			return curated.Errorf(Aborted)
		case <-deadline:
			// the event may have been raised at the same moment the deadline
			// expired. check one last time before giving up
			if ch, err := ev.consume(); ch == nil {
				return err
			}
			return curated.Errorf(TimedOut, timeout)
		}
	}
}

// consume checks the state of the event. If the event is signaled or
// destroyed the returned channel is nil and the error is the result of the
// wait. Otherwise the returned channel is the one to wait on.
func (ev *Event) consume() (chan struct{}, error) {
	ev.crit.Lock()
	defer ev.crit.Unlock()

	if ev.destroyed {
		return nil, curated.Errorf(Destroyed)
	}

	if ev.signaled {
		if ev.policy == ResetAutomatically {
			ev.signaled = false
		}
		return nil, nil
	}

	return ev.changed, nil
}

// Destroy the event. Any goroutine waiting on the event is woken and will
// receive an error matching the Destroyed pattern. Calls to Raise(), Clear()
// and Wait() after an event is destroyed will also fail.
//
// Destroying an event a second time is an error.
func (ev *Event) Destroy() error {
	ev.crit.Lock()
	defer ev.crit.Unlock()

	if ev.destroyed {
		return curated.Errorf(Destroyed)
	}

	ev.destroyed = true
	ev.signaled = false
	close(ev.changed)

	return nil
}
