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

package handoff_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jetsetilly/framehandoff/backend"
	"github.com/jetsetilly/framehandoff/backend/recorder"
	"github.com/jetsetilly/framehandoff/curated"
	"github.com/jetsetilly/framehandoff/event"
	"github.com/jetsetilly/framehandoff/framedata"
	"github.com/jetsetilly/framehandoff/handoff"
	"github.com/jetsetilly/framehandoff/test"
)

// upper limit on how long any of the concurrent tests should take
const patience = 10 * time.Second

func newHandoff(t *testing.T, consumerTimeout time.Duration) (*handoff.FrameHandoff, *recorder.Recorder) {
	t.Helper()

	p, err := handoff.NewPreferences("")
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, p.ConsumerTimeout.Set(consumerTimeout))
	test.DemandSuccess(t, p.Logging.Set(false))

	rec := recorder.NewRecorder(0)
	h := handoff.NewFrameHandoff(rec, p)
	test.DemandSuccess(t, h.Initialize())

	return h, rec
}

// submit a single frame from the calling goroutine
func submit(t *testing.T, h *handoff.FrameHandoff, timeout time.Duration, sys float32, sim float32, col framedata.Color) {
	t.Helper()
	test.DemandSuccess(t, h.WaitUntilSubmissionAllowed(timeout))
	test.DemandSuccess(t, h.SubmitElapsedTime(sys, sim))
	test.DemandSuccess(t, h.SubmitBackBufferColor(col.R, col.G, col.B, col.A))
	test.DemandSuccess(t, h.SignalSubmissionComplete())
}

func TestLifecycle(t *testing.T) {
	h := handoff.NewFrameHandoff(recorder.NewRecorder(0), nil)

	test.ExpectSuccess(t, curated.Is(h.WaitUntilSubmissionAllowed(0), handoff.NotInitialised))
	test.ExpectSuccess(t, curated.Is(h.SignalSubmissionComplete(), handoff.NotInitialised))
	test.ExpectSuccess(t, curated.Is(h.RunRenderIteration(), handoff.NotInitialised))
	test.ExpectSuccess(t, curated.Is(h.Shutdown(), handoff.NotInitialised))

	test.DemandSuccess(t, h.Initialize())
	test.ExpectSuccess(t, curated.Is(h.Initialize(), handoff.AlreadyInitialised))
	test.ExpectSuccess(t, h.Snapshot().Initialised)

	test.ExpectSuccess(t, h.Shutdown())
	test.ExpectFailure(t, h.Snapshot().Initialised)
	test.ExpectSuccess(t, curated.Is(h.Shutdown(), handoff.NotInitialised))

	// the handoff can be initialised again after shutdown
	test.DemandSuccess(t, h.Initialize())
	test.ExpectSuccess(t, h.WaitUntilSubmissionAllowed(0))
	test.ExpectSuccess(t, h.Shutdown())
}

func TestInitialState(t *testing.T) {
	h, _ := newHandoff(t, event.Infinite)

	s := h.Snapshot()
	test.ExpectEquality(t, s.SubmitSlot, 0)
	test.ExpectEquality(t, s.Slots[0], framedata.FrameData{})
	test.ExpectEquality(t, s.Slots[1], framedata.FrameData{})
	test.ExpectFailure(t, s.ProducerOwns)
	test.ExpectEquality(t, s.Fatal, "")

	// the ready signal starts signaled so a zero timeout wait succeeds
	test.ExpectSuccess(t, h.WaitUntilSubmissionAllowed(0))
	test.ExpectSuccess(t, h.Snapshot().ProducerOwns)
}

// the values submitted by the producer reach the backend in the expected
// order and without modification
func TestSubmissionReachesRenderPass(t *testing.T) {
	h, rec := newHandoff(t, event.Infinite)

	submit(t, h, 0, 1.5, 0.75, framedata.Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0})
	test.DemandSuccess(t, h.RunRenderIteration())

	calls := rec.Calls()
	test.DemandEquality(t, len(calls), 5)
	test.ExpectEquality(t, calls[0].Op, recorder.OpClearColor)
	test.ExpectEquality(t, calls[0].Color, framedata.Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0})
	test.ExpectEquality(t, calls[1].Op, recorder.OpClearDepth)
	test.ExpectEquality(t, calls[2].Op, recorder.OpPushConstants)
	test.ExpectEquality(t, calls[2].Constants, framedata.FrameConstants{SystemSeconds: 1.5, SimulationSeconds: 0.75})
	test.ExpectEquality(t, calls[3].Op, recorder.OpDraw)
	test.ExpectEquality(t, calls[3].Data.Frame, uint64(1))
	test.ExpectEquality(t, calls[4].Op, recorder.OpPresent)

	s := h.Stats()
	test.ExpectEquality(t, s.Submitted, uint64(1))
	test.ExpectEquality(t, s.Rendered, uint64(1))
	test.ExpectEquality(t, s.LastRendered, uint64(1))
	test.ExpectEquality(t, s.InFlight, 0)
}

// colour values are never clamped
func TestUnclampedValues(t *testing.T) {
	h, rec := newHandoff(t, event.Infinite)

	submit(t, h, 0, -1.0, 1e6, framedata.Color{R: -0.5, G: 2.0, B: 100.0, A: -1.0})
	test.DemandSuccess(t, h.RunRenderIteration())

	calls := rec.Calls()
	test.DemandEquality(t, len(calls), 5)
	test.ExpectEquality(t, calls[0].Color, framedata.Color{R: -0.5, G: 2.0, B: 100.0, A: -1.0})
	test.ExpectEquality(t, calls[2].Constants, framedata.FrameConstants{SystemSeconds: -1.0, SimulationSeconds: 1e6})
}

// a second zero timeout wait before the consumer has swapped must time out
func TestProducerTimeout(t *testing.T) {
	h, _ := newHandoff(t, event.Infinite)

	test.ExpectSuccess(t, h.WaitUntilSubmissionAllowed(0))

	err := h.WaitUntilSubmissionAllowed(0)
	test.ExpectSuccess(t, curated.Is(err, handoff.TimedOut))
	test.ExpectFailure(t, handoff.IsFatal(err))

	err = h.WaitUntilSubmissionAllowed(10 * time.Millisecond)
	test.ExpectSuccess(t, curated.Is(err, handoff.TimedOut))
	test.ExpectEquality(t, h.Stats().ProducerTimeouts, uint64(2))

	// the timeouts did not take ownership away from the producer
	test.ExpectSuccess(t, h.SubmitElapsedTime(1.0, 1.0))
	test.ExpectSuccess(t, h.SignalSubmissionComplete())
}

func TestOwnership(t *testing.T) {
	h, rec := newHandoff(t, 20*time.Millisecond)

	// the producer does not own the submit slot until it has waited
	test.ExpectSuccess(t, curated.Is(h.SubmitElapsedTime(1.0, 1.0), handoff.NotOwner))
	test.ExpectSuccess(t, curated.Is(h.SubmitBackBufferColor(1.0, 1.0, 1.0, 1.0), handoff.NotOwner))
	test.ExpectSuccess(t, curated.Is(h.SignalSubmissionComplete(), handoff.NotOwner))

	test.DemandSuccess(t, h.WaitUntilSubmissionAllowed(0))
	test.ExpectSuccess(t, h.SubmitElapsedTime(1.0, 1.0))
	test.ExpectSuccess(t, h.SignalSubmissionComplete())

	// ownership is lost after signalling
	test.ExpectSuccess(t, curated.Is(h.SubmitElapsedTime(2.0, 2.0), handoff.NotOwner))

	// a second signal without a wait is allowed but does nothing
	test.ExpectSuccess(t, h.SignalSubmissionComplete())
	test.ExpectEquality(t, h.Stats().Submitted, uint64(1))
	test.ExpectEquality(t, h.Stats().InFlight, 1)

	// the consumer sees exactly one submission
	test.ExpectSuccess(t, h.RunRenderIteration())
	test.ExpectEquality(t, rec.Count(recorder.OpPresent), 1)
	test.ExpectEquality(t, h.Stats().InFlight, 0)

	err := h.RunRenderIteration()
	test.ExpectSuccess(t, curated.Is(err, handoff.Fatal))
	test.ExpectSuccess(t, curated.Has(err, handoff.ConsumerStalled))
	test.ExpectEquality(t, rec.Count(recorder.OpPresent), 1)
}

// each raise of the ready signal allows exactly one successful wait
func TestReadyAutoReset(t *testing.T) {
	h, _ := newHandoff(t, event.Infinite)

	for i := 1; i <= 3; i++ {
		submit(t, h, 0, float32(i), float32(i), framedata.Color{})
		test.ExpectSuccess(t, curated.Is(h.WaitUntilSubmissionAllowed(0), handoff.TimedOut), i)
		test.DemandSuccess(t, h.RunRenderIteration(), i)
	}

	test.ExpectSuccess(t, h.WaitUntilSubmissionAllowed(0))
	test.ExpectSuccess(t, curated.Is(h.WaitUntilSubmissionAllowed(0), handoff.TimedOut))
}

func TestSlotsAlternate(t *testing.T) {
	h, _ := newHandoff(t, event.Infinite)

	test.ExpectEquality(t, h.Snapshot().SubmitSlot, 0)

	submit(t, h, 0, 1.0, 1.0, framedata.Color{R: 1.0})
	test.DemandSuccess(t, h.RunRenderIteration())

	s := h.Snapshot()
	test.ExpectEquality(t, s.SubmitSlot, 1)
	test.ExpectEquality(t, s.Slots[0].Frame, uint64(1))

	submit(t, h, 0, 2.0, 2.0, framedata.Color{R: 2.0})
	test.DemandSuccess(t, h.RunRenderIteration())

	s = h.Snapshot()
	test.ExpectEquality(t, s.SubmitSlot, 0)
	test.ExpectEquality(t, s.Slots[0].Frame, uint64(1))
	test.ExpectEquality(t, s.Slots[1].Frame, uint64(2))
	test.ExpectEquality(t, s.Slots[1].BackBufferColor.R, float32(2.0))
}

func TestPassError(t *testing.T) {
	h, rec := newHandoff(t, event.Infinite)

	rec.FailOn(recorder.OpPushConstants, errors.New("uniform buffer lost"))

	submit(t, h, 0, 1.0, 1.0, framedata.Color{})
	err := h.RunRenderIteration()
	test.ExpectSuccess(t, curated.Is(err, handoff.ConsumerPassError))
	test.ExpectSuccess(t, curated.Has(err, recorder.Injected))
	test.ExpectFailure(t, handoff.IsFatal(err))

	// the pass stopped at the failed step
	test.ExpectEquality(t, rec.Count(recorder.OpDraw), 0)
	test.ExpectEquality(t, rec.Count(recorder.OpPresent), 0)

	// the swap happened regardless so the producer can continue
	submit(t, h, 0, 2.0, 2.0, framedata.Color{})
	test.ExpectSuccess(t, h.RunRenderIteration())
	test.ExpectEquality(t, rec.Count(recorder.OpPresent), 1)

	s := h.Stats()
	test.ExpectEquality(t, s.PassErrors, uint64(1))
	test.ExpectEquality(t, s.Rendered, uint64(1))
	test.ExpectEquality(t, s.LastRendered, uint64(2))
	test.ExpectSuccess(t, h.Err())
}

func TestDrawableError(t *testing.T) {
	h, rec := newHandoff(t, event.Infinite)

	rec.Register(backend.DrawableFunc(func(d *framedata.FrameData) error {
		if d.Frame == 1 {
			return errors.New("bad mesh")
		}
		return nil
	}))

	submit(t, h, 0, 1.0, 1.0, framedata.Color{})
	test.ExpectSuccess(t, curated.Is(h.RunRenderIteration(), handoff.ConsumerPassError))

	submit(t, h, 0, 2.0, 2.0, framedata.Color{})
	test.ExpectSuccess(t, h.RunRenderIteration())
}

// the consumer waits with a bounded timeout and reports the timeout as fatal
func TestConsumerStalled(t *testing.T) {
	h, _ := newHandoff(t, 20*time.Millisecond)

	err := h.RunRenderIteration()
	test.ExpectSuccess(t, curated.Is(err, handoff.Fatal))
	test.ExpectSuccess(t, curated.Has(err, handoff.ConsumerStalled))
	test.ExpectSuccess(t, handoff.IsFatal(err))

	select {
	case <-h.Fatal():
	default:
		t.Errorf("fatal channel should be closed")
	}
	test.ExpectFailure(t, h.Err())
	test.ExpectInequality(t, h.Snapshot().Fatal, "")

	// the fatal state is sticky
	err = h.RunRenderIteration()
	test.ExpectSuccess(t, curated.Is(err, handoff.Fatal))

	// and the producer is told about it
	err = h.WaitUntilSubmissionAllowed(0)
	test.ExpectSuccess(t, curated.Is(err, handoff.Fatal))
	test.ExpectFailure(t, h.Snapshot().ProducerOwns)

	// shutdown and initialise clears the fatal state
	test.ExpectSuccess(t, h.Shutdown())
	test.DemandSuccess(t, h.Initialize())
	test.ExpectSuccess(t, h.Err())
	test.ExpectSuccess(t, h.WaitUntilSubmissionAllowed(0))
}

// a zero consumer timeout waits forever rather than polling. the consumer
// starting before the first submission is not fatal
func TestConsumerZeroTimeout(t *testing.T) {
	h, rec := newHandoff(t, 0)

	result := make(chan error, 1)
	go func() {
		result <- h.RunRenderIteration()
	}()

	select {
	case err := <-result:
		t.Fatalf("consumer returned before any submission: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
	test.ExpectSuccess(t, h.Err())

	submit(t, h, 0, 1.0, 1.0, framedata.Color{R: 1.0})

	select {
	case err := <-result:
		test.ExpectSuccess(t, err)
	case <-time.After(patience):
		t.Fatalf("consumer did not take the submission")
	}
	test.ExpectEquality(t, rec.Count(recorder.OpPresent), 1)
}

// a producer waiting forever is woken when the consumer becomes fatal
func TestFatalWakesProducer(t *testing.T) {
	h, _ := newHandoff(t, 50*time.Millisecond)

	result := make(chan error, 1)
	go func() {
		if err := h.WaitUntilSubmissionAllowed(0); err != nil {
			result <- err
			return
		}
		// the consumer has not swapped so this wait can only end with an error
		result <- h.WaitUntilSubmissionAllowed(event.Infinite)
	}()

	err := h.RunRenderIteration()
	test.ExpectSuccess(t, curated.Is(err, handoff.Fatal))

	select {
	case err := <-result:
		test.ExpectSuccess(t, curated.Is(err, handoff.Fatal))
	case <-time.After(patience):
		t.Fatalf("producer was not woken by fatal consumer")
	}
}

// the producer and consumer alternate without deadlock. every frame is
// rendered exactly once and in order
func TestLiveness(t *testing.T) {
	const numFrames = 500

	h, rec := newHandoff(t, event.Infinite)

	var rendered []uint64
	var mismatch atomic.Int32
	rec.Register(backend.DrawableFunc(func(d *framedata.FrameData) error {
		rendered = append(rendered, d.Frame)
		if d.Constants.SystemSeconds != float32(d.Frame) || d.BackBufferColor.G != float32(d.Frame) {
			mismatch.Add(1)
		}
		return nil
	}))

	// sample the in flight count for the duration of the test
	var badInFlight atomic.Int32
	sampling := make(chan bool)
	sampled := make(chan bool)
	go func() {
		defer close(sampled)
		for {
			select {
			case <-sampling:
				return
			default:
			}
			if n := h.Stats().InFlight; n < 0 || n > 1 {
				badInFlight.Add(1)
			}
		}
	}()

	produced := make(chan error, 1)
	go func() {
		for i := 1; i <= numFrames; i++ {
			if err := h.WaitUntilSubmissionAllowed(event.Infinite); err != nil {
				produced <- err
				return
			}
			if err := h.SubmitElapsedTime(float32(i), float32(i)/2); err != nil {
				produced <- err
				return
			}
			if err := h.SubmitBackBufferColor(0, float32(i), 0, 1); err != nil {
				produced <- err
				return
			}
			if err := h.SignalSubmissionComplete(); err != nil {
				produced <- err
				return
			}
		}
		produced <- nil
	}()

	consumed := make(chan error, 1)
	go func() {
		for i := 1; i <= numFrames; i++ {
			if err := h.RunRenderIteration(); err != nil {
				consumed <- err
				return
			}
		}
		consumed <- nil
	}()

	timeout := time.After(patience)
	for _, ch := range []chan error{produced, consumed} {
		select {
		case err := <-ch:
			test.DemandSuccess(t, err)
		case <-timeout:
			t.Fatalf("deadlock: %s", h.Stats())
		}
	}

	close(sampling)
	<-sampled

	test.ExpectEquality(t, badInFlight.Load(), int32(0))
	test.ExpectEquality(t, mismatch.Load(), int32(0))
	test.DemandEquality(t, len(rendered), numFrames)
	for i, f := range rendered {
		if !test.ExpectEquality(t, f, uint64(i+1)) {
			break
		}
	}

	s := h.Stats()
	test.ExpectEquality(t, s.Submitted, uint64(numFrames))
	test.ExpectEquality(t, s.Rendered, uint64(numFrames))
	test.ExpectEquality(t, s.InFlight, 0)
	test.ExpectEquality(t, s.ProducerTimeouts, uint64(0))

	test.ExpectSuccess(t, h.Shutdown())
}

// a producer using short timeouts makes progress with a slow consumer
func TestSlowConsumer(t *testing.T) {
	const numFrames = 20

	h, rec := newHandoff(t, event.Infinite)
	rec.SetPresentDelay(2 * time.Millisecond)

	produced := make(chan error, 1)
	go func() {
		var simulation float32
		for i := 1; i <= numFrames; {
			err := h.WaitUntilSubmissionAllowed(100 * time.Microsecond)
			if curated.Is(err, handoff.TimedOut) {
				// carry on with the simulation while the consumer is busy
				simulation += 0.001
				continue
			}
			if err != nil {
				produced <- err
				return
			}
			if err := h.SubmitElapsedTime(float32(i), simulation); err != nil {
				produced <- err
				return
			}
			if err := h.SignalSubmissionComplete(); err != nil {
				produced <- err
				return
			}
			i++
		}
		produced <- nil
	}()

	for i := 1; i <= numFrames; i++ {
		test.DemandSuccess(t, h.RunRenderIteration(), fmt.Sprintf("frame %d", i))
	}

	select {
	case err := <-produced:
		test.DemandSuccess(t, err)
	case <-time.After(patience):
		t.Fatalf("producer did not finish")
	}

	test.ExpectEquality(t, rec.Count(recorder.OpPresent), numFrames)
	test.ExpectEquality(t, h.Stats().LastRendered, uint64(numFrames))
}

func TestPreferences(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "prefs.toml")

	p, err := handoff.NewPreferences(fn)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p.ConsumerTimeout.Get().(time.Duration), event.Infinite)
	test.ExpectEquality(t, p.Logging.Get().(bool), true)

	test.ExpectSuccess(t, p.ConsumerTimeout.Set("250ms"))
	test.ExpectSuccess(t, p.Logging.Set(false))
	test.DemandSuccess(t, p.Save())

	q, err := handoff.NewPreferences(fn)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, q.ConsumerTimeout.Get().(time.Duration), 250*time.Millisecond)
	test.ExpectEquality(t, q.Logging.Get().(bool), false)

	q.SetDefaults()
	test.ExpectEquality(t, q.ConsumerTimeout.Get().(time.Duration), event.Infinite)

	// the handoff uses the logging preference for permission to log
	h := handoff.NewFrameHandoff(recorder.NewRecorder(0), p)
	test.ExpectFailure(t, h.AllowLogging())
}
