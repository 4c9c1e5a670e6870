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

	"github.com/jetsetilly/framehandoff/application"
	"github.com/jetsetilly/framehandoff/gui/sdlgl"
	"github.com/jetsetilly/framehandoff/handoff"
	"github.com/jetsetilly/framehandoff/logger"
	"github.com/jetsetilly/framehandoff/modalflag"
	"github.com/jetsetilly/framehandoff/prefs"
	"github.com/jetsetilly/framehandoff/resources"
	"github.com/jetsetilly/framehandoff/statsview"
)

// the preferences shared by the RUN and HEADLESS modes. every group is stored
// in the same file
type preferences struct {
	path string

	handoff     *handoff.Preferences
	application *application.Preferences
}

// loadPreferences from the default preferences file. the override string is
// pushed onto the command line stack and the returned function pops it.
func loadPreferences(override string) (*preferences, func(), error) {
	prefs.PushCommandLineStack(override)
	pop := func() {
		if unused := prefs.PopCommandLineStack(); unused != "" {
			logger.Logf(logger.Allow, "prefs", "unused command line preferences: %s", unused)
		}
	}

	pth, err := resources.JoinPath(prefs.DefaultPrefsFile)
	if err != nil {
		pop()
		return nil, nil, err
	}

	p := &preferences{path: pth}

	p.handoff, err = handoff.NewPreferences(pth)
	if err != nil {
		pop()
		return nil, nil, err
	}

	p.application, err = application.NewPreferences(pth)
	if err != nil {
		pop()
		return nil, nil, err
	}

	return p, pop, nil
}

// applyFlags calls the function for every flag that was set on the command
// line. flags that were not set leave the preference value unchanged.
func applyFlags(md *modalflag.Modes, apply map[string]func() error) error {
	var err error
	md.Visit(func(flag string) {
		if err != nil {
			return
		}
		if f, ok := apply[flag]; ok {
			err = f()
		}
	})
	return err
}

func run(md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()

	fps := md.AddInt("fps", 60, "maximum number of frames submitted per second (0 is unlimited)")
	vsync := md.AddBool("vsync", true, "synchronise presentation with the monitor")
	overlay := md.AddBool("overlay", false, "show statistics overlay")
	log := md.AddBool("log", false, "echo log to stdout")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	rate := md.AddFloat64("rate", 1.0, "speed of the simulation relative to system time")
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

	if *stats {
		stop := statsview.Launch(os.Stdout)
		defer stop()
	}

	pref, pop, err := loadPreferences(*override)
	if err != nil {
		return err
	}
	defer pop()

	guiPrefs, err := sdlgl.NewPreferences(pref.path)
	if err != nil {
		return err
	}

	err = applyFlags(md, map[string]func() error{
		"fps":     func() error { return pref.application.FrameRate.Set(*fps) },
		"rate":    func() error { return pref.application.SimulationRate.Set(*rate) },
		"vsync":   func() error { return guiPrefs.VSync.Set(*vsync) },
		"overlay": func() error { return guiPrefs.Overlay.Set(*overlay) },
	})
	if err != nil {
		return err
	}

	// create gui
	sync.creator <- func() (GuiCreator, error) {
		return sdlgl.NewSdlGL(guiPrefs)
	}

	// wait for creator result
	var scr *sdlgl.SdlGL
	select {
	case g := <-sync.creation:
		scr = g.(*sdlgl.SdlGL)
	case err := <-sync.creationError:
		return err
	}

	h := handoff.NewFrameHandoff(scr, pref.handoff)
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

	// this mode handles the interrupt signal itself so that the handoff can
	// be shutdown cleanly
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

	scr.SetConsumer(h)

	var runErr error
	select {
	case <-scr.Quit():
		runErr = h.Err()
	case <-intChan:
	case <-h.Fatal():
		runErr = h.Err()
	case runErr = <-produced:
		produced = nil
	}

	// stop the producer first and then the consumer
	cancel()
	if produced != nil {
		if err := <-produced; err != nil && runErr == nil {
			runErr = err
		}
	}
	h.Stop()
	<-scr.Released()

	fmt.Println(h.Stats())
	fmt.Println(app.Stats())

	if err := h.Shutdown(); err != nil && runErr == nil {
		runErr = err
	}

	return runErr
}
