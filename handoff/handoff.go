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
	"sync"
	"sync/atomic"
	"time"

	"github.com/jetsetilly/framehandoff/assert"
	"github.com/jetsetilly/framehandoff/backend"
	"github.com/jetsetilly/framehandoff/curated"
	"github.com/jetsetilly/framehandoff/event"
	"github.com/jetsetilly/framehandoff/logger"
)

// the parts of event.Event used by the handoff.
type signal interface {
	Raise() error
	WaitOrAbort(timeout time.Duration, abort <-chan struct{}) error
	Waiting() int
	Destroy() error
}

func newEvent(policy event.Policy, initial event.State) (signal, error) {
	return event.NewEvent(policy, initial), nil
}

// FrameHandoff connects one producer goroutine with one consumer goroutine.
// Must be created with NewFrameHandoff() and then initialised with
// Initialize().
type FrameHandoff struct {
	be    backend.Backend
	prefs *Preferences

	// creates the two signals in Initialize()
	newSignal func(event.Policy, event.State) (signal, error)

	// raised by the producer when the submit slot is complete. consumed by
	// the consumer
	submitted signal

	// raised by the consumer after the swap. consumed by the producer.
	// initially signaled so that the producer can prepare the first frame
	// without waiting for the consumer
	ready signal

	buf doubleBuffer

	initialised atomic.Bool

	// producer state. owns is true between a successful wait and the next
	// call to SignalSubmissionComplete()
	owns      atomic.Bool
	signalled bool
	frame     uint64

	stats counters

	// crit protects the fatal and stop fields and the lifecycle functions
	crit     sync.Mutex
	fatal    chan struct{}
	fatalErr error
	stop     chan struct{}
	stopped  bool

	producer assert.Role
	consumer assert.Role
}

// NewFrameHandoff is the preferred method of initialisation for the
// FrameHandoff type. If the preferences argument is nil then default
// preferences are used.
func NewFrameHandoff(be backend.Backend, prefs *Preferences) *FrameHandoff {
	if prefs == nil {
		// a path is not used so an error is not possible
		prefs, _ = NewPreferences("")
	}

	return &FrameHandoff{
		be:        be,
		prefs:     prefs,
		newSignal: newEvent,
		fatal:     make(chan struct{}),
		stop:      make(chan struct{}),
		producer:  assert.Role{Name: "producer"},
		consumer:  assert.Role{Name: "consumer"},
	}
}

// AllowLogging implements the logger.Permission interface.
func (h *FrameHandoff) AllowLogging() bool {
	return h.prefs.Logging.Get().(bool)
}

// Preferences returns the preferences used by the handoff.
func (h *FrameHandoff) Preferences() *Preferences {
	return h.prefs
}

// Initialize creates the signals and prepares the two frame data slots. Must
// be called before the producer and consumer goroutines start.
//
// A handoff that has been shutdown can be initialised again.
func (h *FrameHandoff) Initialize() error {
	h.crit.Lock()
	defer h.crit.Unlock()

	if h.initialised.Load() {
		return curated.Errorf(AlreadyInitialised)
	}

	submitted, err := h.newSignal(event.ResetAutomatically, event.Unsignaled)
	if err != nil {
		return curated.Errorf(SyncPrimitiveError, err)
	}

	ready, err := h.newSignal(event.ResetAutomatically, event.Signaled)
	if err != nil {
		_ = submitted.Destroy()
		return curated.Errorf(SyncPrimitiveError, err)
	}

	h.submitted = submitted
	h.ready = ready
	h.buf.reset()
	h.stats.reset()
	h.owns.Store(false)
	h.signalled = false
	h.frame = 0
	h.fatal = make(chan struct{})
	h.fatalErr = nil
	h.stop = make(chan struct{})
	h.stopped = false
	h.producer.Release()
	h.consumer.Release()

	h.initialised.Store(true)
	logger.Log(h, "handoff", "initialised")

	return nil
}

// Shutdown destroys the signals and resets the two frame data slots. It is an
// error to call Shutdown() while the producer or consumer is waiting.
func (h *FrameHandoff) Shutdown() error {
	h.crit.Lock()
	defer h.crit.Unlock()

	if !h.initialised.Load() {
		return curated.Errorf(NotInitialised)
	}

	if n := h.submitted.Waiting() + h.ready.Waiting(); n > 0 {
		return curated.Errorf(ShutdownWhileWaiting, n)
	}

	errSubmitted := h.submitted.Destroy()
	errReady := h.ready.Destroy()

	h.buf.reset()
	h.owns.Store(false)
	h.initialised.Store(false)
	logger.Log(h, "handoff", "shutdown")

	switch {
	case errSubmitted != nil && errReady != nil:
		return curated.Errorf(ShutdownFailed, curated.Errorf("%v: %v", errSubmitted, errReady))
	case errSubmitted != nil:
		return curated.Errorf(ShutdownFailed, errSubmitted)
	case errReady != nil:
		return curated.Errorf(ShutdownFailed, errReady)
	}

	return nil
}

// Stop wakes the consumer if it is waiting for a submission. The waiting call
// to RunRenderIteration() returns an error matching the Stopped pattern. So
// will every subsequent call, until the handoff is initialised again.
//
// Stop is not fatal and does not affect the producer. It is the only way of
// ending a consumer that is waiting with an infinite timeout, which must
// happen before Shutdown() can succeed.
func (h *FrameHandoff) Stop() {
	h.crit.Lock()
	defer h.crit.Unlock()
	if !h.stopped {
		h.stopped = true
		close(h.stop)
	}
}

// Fatal returns a channel that is closed when the handoff becomes fatal. The
// channel is replaced by Initialize().
func (h *FrameHandoff) Fatal() <-chan struct{} {
	h.crit.Lock()
	defer h.crit.Unlock()
	return h.fatal
}

// Err returns the cause of the fatal condition or nil if the handoff is not
// fatal.
func (h *FrameHandoff) Err() error {
	h.crit.Lock()
	defer h.crit.Unlock()
	return h.fatalErr
}

// setFatal records the cause and wakes anything selecting on the Fatal()
// channel. only the first cause is kept. the returned error matches the Fatal
// pattern.
func (h *FrameHandoff) setFatal(cause error) error {
	h.crit.Lock()
	defer h.crit.Unlock()

	if h.fatalErr == nil {
		h.fatalErr = cause
		close(h.fatal)
		logger.Log(h, "handoff", curated.Errorf(Fatal, cause))
	}

	return curated.Errorf(Fatal, h.fatalErr)
}

// fatalError returns nil if the handoff is not fatal. otherwise it returns an
// error matching the Fatal pattern.
func (h *FrameHandoff) fatalError() error {
	h.crit.Lock()
	defer h.crit.Unlock()
	if h.fatalErr == nil {
		return nil
	}
	return curated.Errorf(Fatal, h.fatalErr)
}

// Stats returns the current statistics. Safe to call from any goroutine.
func (h *FrameHandoff) Stats() Stats {
	return h.stats.stats()
}

// Snapshot returns a copy of the handoff state. The copy of the frame data
// slots is only reliable when neither the producer nor the consumer is
// running.
func (h *FrameHandoff) Snapshot() Snapshot {
	s := Snapshot{
		Initialised:  h.initialised.Load(),
		SubmitSlot:   int(h.buf.submitIdx.Load()),
		Slots:        h.buf.slots,
		ProducerOwns: h.owns.Load(),
		Stats:        h.Stats(),
	}
	if err := h.Err(); err != nil {
		s.Fatal = err.Error()
	}
	return s
}
