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

package performance

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jetsetilly/framehandoff/application"
	"github.com/jetsetilly/framehandoff/backend/recorder"
	"github.com/jetsetilly/framehandoff/curated"
	"github.com/jetsetilly/framehandoff/handoff"
)

// Config for the Check() function.
type Config struct {
	// length of the measurement period
	Duration time.Duration

	// time allowed for the frame rate to settle down before the measurement
	// period begins. defaults to two seconds
	LeadTime time.Duration

	// maximum number of frames submitted per second. zero means no limit
	FPS int

	// how long the consumer takes to present each frame
	PresentDelay time.Duration

	// the beginning of the filename of every profile file. defaults to
	// "performance"
	ProfileHeader string
}

// the recorder only needs to keep enough calls for a single frame
const recordedCalls = 5

// Check the performance of the frame handoff, using a headless consumer.
//
// The handoff will run for the specified duration and will create a cpu
// profile, memory profile, a trace (or a combination of those) as defined by
// the Profile argument.
func Check(output io.Writer, profile Profile, cfg Config) error {
	if cfg.Duration <= 0 {
		return fmt.Errorf("performance: duration must be positive")
	}
	if cfg.LeadTime <= 0 {
		cfg.LeadTime = 2 * time.Second
	}
	if cfg.ProfileHeader == "" {
		cfg.ProfileHeader = "performance"
	}

	rec := recorder.NewRecorder(recordedCalls)
	rec.SetPresentDelay(cfg.PresentDelay)

	h := handoff.NewFrameHandoff(rec, nil)
	err := h.Initialize()
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}

	prefs, err := application.NewPreferences("")
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}
	err = prefs.FrameRate.Set(cfg.FPS)
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}

	app, err := application.NewApplication(h, prefs)
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}
	defer app.End()

	var startFrame uint64
	var endFrame uint64

	runner := func() error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		produced := make(chan error, 1)
		go func() {
			produced <- app.Run(ctx)
		}()

		consumed := make(chan error, 1)
		go func() {
			for {
				err := h.RunRenderIteration()
				if err != nil {
					if curated.Is(err, handoff.ConsumerPassError) {
						continue
					}
					if curated.Is(err, handoff.Stopped) {
						err = nil
					}
					consumed <- err
					return
				}
			}
		}()

		// force a leadtime to allow framerate to settle down and then start
		// the timer for the specified duration
		leadTime := time.NewTimer(cfg.LeadTime)
		defer leadTime.Stop()

		var timesUp <-chan time.Time

		var runErr error
		var producerDone bool
		var consumerDone bool

	measuring:
		for {
			select {
			case <-leadTime.C:
				startFrame = h.Stats().Rendered
				t := time.NewTimer(cfg.Duration)
				defer t.Stop()
				timesUp = t.C
			case <-timesUp:
				endFrame = h.Stats().Rendered
				break measuring
			case runErr = <-produced:
				producerDone = true
				break measuring
			case runErr = <-consumed:
				consumerDone = true
				break measuring
			}
		}

		// stop the producer first so that the consumer is not woken while
		// the producer is still submitting
		cancel()
		if !producerDone {
			if err := <-produced; err != nil && runErr == nil {
				runErr = err
			}
		}
		h.Stop()
		if !consumerDone {
			if err := <-consumed; err != nil && runErr == nil {
				runErr = err
			}
		}

		return runErr
	}

	// launch runner directly or through the profiler, depending on supplied
	// arguments
	err = RunProfiler(profile, cfg.ProfileHeader, runner)
	if err != nil {
		_ = h.Shutdown()
		return fmt.Errorf("performance: %w", err)
	}

	err = h.Shutdown()
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}

	// calculate performance
	numFrames := endFrame - startFrame
	fps, accuracy := CalcFPS(cfg.FPS, numFrames, cfg.Duration.Seconds())
	output.Write([]byte(fmt.Sprintf("%.2f fps (%d frames in %.2f seconds) %.1f%%\n", fps, numFrames, cfg.Duration.Seconds(), accuracy)))

	return nil
}
