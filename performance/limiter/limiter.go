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

// Package limiter provides a rough and ready way of limiting events to a fixed
// rate.
//
// A new FpsLimiter can be created with (error handling removed for clarity):
//
//	fps, _ := limiter.NewFPSLimiter(60)
//	defer fps.End()
//
// Operations can then be stalled with the Wait() function. For example:
//
//	for {
//		fps.Wait()
//		submitFrame()
//	}
//
// A limit of zero means there is no limit and Wait() returns immediately.
package limiter

import (
	"fmt"
	"sync/atomic"
	"time"
)

// this is a really rough attempt at frame rate limiting. probably only any
// good if base performance of the machine is well above the required rate.

// FpsLimiter will trigger every frames per second.
type FpsLimiter struct {
	framesPerSecond atomic.Int32
	secondsPerFrame atomic.Int64 // time.Duration

	tick chan bool
	quit chan bool
	done chan bool
}

// NewFPSLimiter is the preferred method of initialisation for FpsLimiter type.
func NewFPSLimiter(framesPerSecond int) (*FpsLimiter, error) {
	lim := &FpsLimiter{
		tick: make(chan bool),
		quit: make(chan bool),
		done: make(chan bool),
	}

	if err := lim.SetLimit(framesPerSecond); err != nil {
		return nil, err
	}

	// run ticker concurrently
	go func() {
		defer close(lim.done)

		spf := time.Duration(lim.secondsPerFrame.Load())
		adjustedSecondPerFrame := spf
		t := time.Now()
		for {
			select {
			case lim.tick <- true:
			case <-lim.quit:
				return
			}

			// the limit may have changed since the last tick
			if nspf := time.Duration(lim.secondsPerFrame.Load()); nspf != spf {
				spf = nspf
				adjustedSecondPerFrame = spf
			}

			if spf <= 0 {
				t = time.Now()
				continue
			}

			time.Sleep(adjustedSecondPerFrame)
			nt := time.Now()
			adjustedSecondPerFrame -= nt.Sub(t) - spf

			// don't let the adjustment run away if the ticks are not being
			// collected for a while
			if adjustedSecondPerFrame < 0 {
				adjustedSecondPerFrame = 0
			} else if adjustedSecondPerFrame > spf*2 {
				adjustedSecondPerFrame = spf * 2
			}
			t = nt
		}
	}()

	return lim, nil
}

// SetLimit changes the limit at which the FpsLimiter waits. A value of zero
// removes the limit.
func (lim *FpsLimiter) SetLimit(framesPerSecond int) error {
	if framesPerSecond < 0 {
		return fmt.Errorf("limiter: frames per second cannot be negative (%d)", framesPerSecond)
	}

	lim.framesPerSecond.Store(int32(framesPerSecond))
	if framesPerSecond == 0 {
		lim.secondsPerFrame.Store(0)
	} else {
		lim.secondsPerFrame.Store(int64(time.Second / time.Duration(framesPerSecond)))
	}

	return nil
}

// Limit returns the current limit. A value of zero means there is no limit.
func (lim *FpsLimiter) Limit() int {
	return int(lim.framesPerSecond.Load())
}

// Wait will block until trigger.
func (lim *FpsLimiter) Wait() {
	if lim.framesPerSecond.Load() == 0 {
		return
	}
	select {
	case <-lim.tick:
	case <-lim.done:
	}
}

// End stops the ticker goroutine. Wait() will no longer block after End() has
// been called. End must only be called once.
func (lim *FpsLimiter) End() {
	close(lim.quit)
	<-lim.done
}
