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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/framehandoff/application"
	"github.com/jetsetilly/framehandoff/backend/recorder"
	"github.com/jetsetilly/framehandoff/curated"
	"github.com/jetsetilly/framehandoff/easyterm"
	"github.com/jetsetilly/framehandoff/handoff"
	"github.com/jetsetilly/framehandoff/logger"
	"github.com/jetsetilly/framehandoff/modalflag"
	"github.com/jetsetilly/framehandoff/performance"
)

// the recorder in headless mode only needs to keep the calls for the most
// recent frame
const headlessRecordedCalls = 5

func headless(md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()

	frames := md.AddUint64("frames", 0, "number of frames to render (0 runs until q is pressed)")
	fps := md.AddInt("fps", 60, "maximum number of frames submitted per second (0 is unlimited)")
	present := md.AddDuration("present", 0, "simulated time taken to present each frame")
	memvizFile := md.AddString("memviz", "", "write graphviz dump of the final handoff state to file")
	log := md.AddBool("log", false, "echo log to stdout")
	override := md.AddString("prefs", "", "preferences (key::value; key::value)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	if *log {
		logger.SetEcho(os.Stdout, false)
		defer logger.SetEcho(nil, false)
	}

	pref, pop, err := loadPreferences(*override)
	if err != nil {
		return err
	}
	defer pop()

	err = applyFlags(md, map[string]func() error{
		"fps": func() error { return pref.application.FrameRate.Set(*fps) },
	})
	if err != nil {
		return err
	}

	rec := recorder.NewRecorder(headlessRecordedCalls)
	rec.SetPresentDelay(*present)

	h := handoff.NewFrameHandoff(rec, pref.handoff)
	err = h.Initialize()
	if err != nil {
		return err
	}

	app, err := application.NewApplication(h, pref.application)
	if err != nil {
		_ = h.Shutdown()
		return err
	}
	defer app.End()

	// keypresses are only available if stdin is a terminal
	var keys <-chan byte
	var term easyterm.Terminal
	if err := term.Initialise(os.Stdin, os.Stdout); err != nil {
		logger.Logf(logger.Allow, "headless", "keyboard not available: %v", err)
	} else {
		defer term.CleanUp()
		if err := term.CBreakMode(); err != nil {
			_ = h.Shutdown()
			return err
		}
		keys = term.KeyPresses()
		term.Print("press q to quit\n")
	}

	sync.state <- stateRequest{req: reqNoIntSig}
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	defer signal.Stop(intChan)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	produced := make(chan error, 1)
	go func() {
		produced <- app.Run(ctx)
	}()

	// the consumer runs until it is stopped or until the requested number of
	// frames have been rendered
	consumed := make(chan error, 1)
	done := make(chan struct{})
	go func() {
		reached := false
		for {
			err := h.RunRenderIteration()
			if err != nil && !curated.Is(err, handoff.ConsumerPassError) {
				if curated.Is(err, handoff.Stopped) {
					err = nil
				}
				consumed <- err
				return
			}
			if !reached && *frames > 0 && h.Stats().Rendered >= *frames {
				reached = true
				close(done)
			}
		}
	}()

	startTime := time.Now()

	var runErr error
	consumerDone := false
	producerDone := false

	func() {
		for {
			select {
			case k, ok := <-keys:
				if !ok {
					keys = nil
					continue
				}
				if easyterm.IsQuit(k) {
					return
				}
			case <-intChan:
				return
			case <-done:
				return
			case runErr = <-produced:
				producerDone = true
				return
			case runErr = <-consumed:
				consumerDone = true
				return
			}
		}
	}()

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

	elapsed := time.Since(startTime)
	st := h.Stats()
	achieved, _ := performance.CalcFPS(0, st.Rendered, elapsed.Seconds())
	fmt.Printf("%d frames rendered in %.2f seconds (%.2f fps)\n", st.Rendered, elapsed.Seconds(), achieved)
	fmt.Println(st)
	fmt.Println(app.Stats())

	if *memvizFile != "" {
		if err := writeMemviz(*memvizFile, h.Snapshot()); err != nil && runErr == nil {
			runErr = err
		}
	}

	if err := h.Shutdown(); err != nil && runErr == nil {
		runErr = err
	}

	return runErr
}

// writeMemviz writes a graphviz representation of the snapshot to the file.
func writeMemviz(filename string, snapshot handoff.Snapshot) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	memviz.Map(f, &snapshot)
	return f.Close()
}

func perform(md *modalflag.Modes) error {
	md.NewMode()

	duration := md.AddDuration("duration", 5*time.Second, "measurement duration (note: there is a 2s lead time)")
	fps := md.AddInt("fps", 0, "maximum number of frames submitted per second (0 is unlimited)")
	present := md.AddDuration("present", 0, "simulated time taken to present each frame")
	profile := md.AddString("profile", "none", "run performance check with profiling: comma separated CPU, MEM, TRACE or ALL")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	prf, err := performance.ParseProfileString(*profile)
	if err != nil {
		return err
	}

	return performance.Check(md.Output, prf, performance.Config{
		Duration:     *duration,
		FPS:          *fps,
		PresentDelay: *present,
	})
}
