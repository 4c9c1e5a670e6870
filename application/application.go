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

package application

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/jetsetilly/framehandoff/curated"
	"github.com/jetsetilly/framehandoff/handoff"
	"github.com/jetsetilly/framehandoff/logger"
	"github.com/jetsetilly/framehandoff/performance/limiter"
	"github.com/jetsetilly/framehandoff/prefs"
)

// Submitter is the producer side of a frame handoff. It is implemented by
// handoff.FrameHandoff.
type Submitter interface {
	WaitUntilSubmissionAllowed(timeout time.Duration) error
	SubmitElapsedTime(systemSeconds float32, simulationSeconds float32) error
	SubmitBackBufferColor(r float32, g float32, b float32, a float32) error
	SignalSubmissionComplete() error
}

// Producer is the pattern used for errors returned by the Submitter.
const Producer = "application: %v"

// the largest amount of system time the simulation will try to catch up on in
// a single step. a longer gap, because the process was suspended for example,
// is forgotten
const maxCatchUp = 0.25

// Application drives a Submitter from a simulation clock.
type Application struct {
	sub   Submitter
	prefs *Preferences
	lim   *limiter.FpsLimiter

	now   func() time.Time
	start time.Time
	last  time.Time

	// the following are only touched by the goroutine calling Step()
	simulation  float64
	accumulator float64

	paused atomic.Bool

	// statistics are read from other goroutines
	submitted      atomic.Uint64
	timeouts       atomic.Uint64
	updates        atomic.Uint64
	simulationBits atomic.Uint64
}

// NewApplication is the preferred method of initialisation for the
// Application type. If the preferences argument is nil then default
// preferences are used.
func NewApplication(sub Submitter, p *Preferences) (*Application, error) {
	if p == nil {
		var err error
		p, err = NewPreferences("")
		if err != nil {
			return nil, err
		}
	}

	app := &Application{
		sub:   sub,
		prefs: p,
		now:   time.Now,
	}

	var err error
	app.lim, err = limiter.NewFPSLimiter(p.FrameRate.Get().(int))
	if err != nil {
		return nil, curated.Errorf(Producer, err)
	}

	p.FrameRate.SetHookPost(app.setFrameRate)

	app.start = app.now()
	app.last = app.start

	return app, nil
}

func (app *Application) setFrameRate(v prefs.Value) error {
	return app.lim.SetLimit(v.(int))
}

// AllowLogging implements the logger.Permission interface.
func (app *Application) AllowLogging() bool {
	return app.prefs.Logging.Get().(bool)
}

// End stops the frame rate limiter. The Application should not be used after
// End() has been called.
func (app *Application) End() {
	app.lim.End()
}

// SetPaused stops or restarts the simulation clock. Frames continue to be
// submitted while the simulation is paused.
func (app *Application) SetPaused(paused bool) {
	app.paused.Store(paused)
	if paused {
		logger.Log(app, "application", "simulation paused")
	} else {
		logger.Log(app, "application", "simulation resumed")
	}
}

// Paused returns true if the simulation clock is stopped.
func (app *Application) Paused() bool {
	return app.paused.Load()
}

// Run the application until the context is cancelled or until the Submitter
// returns an error. Cancelling the context is not an error.
func (app *Application) Run(ctx context.Context) error {
	logger.Log(app, "application", "started")
	defer logger.Log(app, "application", "stopped")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		submitted, err := app.Step()
		if err != nil {
			logger.Log(app, "application", err)
			return err
		}

		if submitted {
			app.lim.Wait()
		}
	}
}

// Step updates the simulation and then tries to submit a frame. Returns true
// if a frame was submitted.
//
// If the consumer is not ready for a new frame within the WaitTimeout
// preference then the function returns false and no error.
func (app *Application) Step() (bool, error) {
	app.update()

	err := app.sub.WaitUntilSubmissionAllowed(app.prefs.WaitTimeout.Get().(time.Duration))
	if err != nil {
		if curated.Is(err, handoff.TimedOut) {
			app.timeouts.Add(1)
			return false, nil
		}
		return false, curated.Errorf(Producer, err)
	}

	system := float32(app.last.Sub(app.start).Seconds())
	simulation := float32(app.simulation)

	if err := app.sub.SubmitElapsedTime(system, simulation); err != nil {
		return false, curated.Errorf(Producer, err)
	}

	r, g, b, a := BackBufferColor(app.simulation)
	if err := app.sub.SubmitBackBufferColor(r, g, b, a); err != nil {
		return false, curated.Errorf(Producer, err)
	}

	if err := app.sub.SignalSubmissionComplete(); err != nil {
		return false, curated.Errorf(Producer, err)
	}

	app.submitted.Add(1)

	return true, nil
}

// update advances the simulation by as many fixed steps as the elapsed
// system time allows.
func (app *Application) update() {
	now := app.now()
	elapsed := now.Sub(app.last).Seconds()
	app.last = now

	if app.paused.Load() {
		return
	}

	app.accumulator += math.Min(elapsed, maxCatchUp) * app.prefs.SimulationRate.Get().(float64)

	step := 1.0 / float64(app.prefs.UpdateRate.Get().(int))
	for app.accumulator >= step {
		app.simulation += step
		app.accumulator -= step
		app.updates.Add(1)
	}

	app.simulationBits.Store(math.Float64bits(app.simulation))
}

// BackBufferColor returns the colour to clear the back buffer with at the
// specified simulation time. The colour cycles smoothly through the hues.
func BackBufferColor(simulationSeconds float64) (float32, float32, float32, float32) {
	const third = 2.0 * math.Pi / 3.0
	r := 0.5 + 0.5*math.Sin(simulationSeconds)
	g := 0.5 + 0.5*math.Sin(simulationSeconds+third)
	b := 0.5 + 0.5*math.Sin(simulationSeconds+2*third)
	return float32(r), float32(g), float32(b), 1.0
}

// Stats is a summary of the application activity.
type Stats struct {
	Submitted         uint64
	Timeouts          uint64
	Updates           uint64
	SimulationSeconds float64
}

func (s Stats) String() string {
	return fmt.Sprintf("submitted=%d timeouts=%d updates=%d simulation=%.3fs",
		s.Submitted, s.Timeouts, s.Updates, s.SimulationSeconds)
}

// Stats returns the current statistics. Safe to call from any goroutine.
func (app *Application) Stats() Stats {
	return Stats{
		Submitted:         app.submitted.Load(),
		Timeouts:          app.timeouts.Load(),
		Updates:           app.updates.Load(),
		SimulationSeconds: math.Float64frombits(app.simulationBits.Load()),
	}
}
