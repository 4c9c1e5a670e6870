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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/framehandoff/handoff"
	"github.com/jetsetilly/framehandoff/modalflag"
	"github.com/jetsetilly/framehandoff/test"
)

func TestApplyFlags(t *testing.T) {
	md := &modalflag.Modes{Output: &test.CompareWriter{}}
	md.NewArgs([]string{"-fps", "30"})
	fps := md.AddInt("fps", 60, "")
	md.AddBool("vsync", true, "")

	p, err := md.Parse()
	test.DemandEquality(t, p, modalflag.ParseContinue)
	test.DemandSuccess(t, err)

	var applied []string
	err = applyFlags(md, map[string]func() error{
		"fps": func() error {
			applied = append(applied, "fps")
			return nil
		},
		"vsync": func() error {
			applied = append(applied, "vsync")
			return nil
		},
	})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, *fps, 30)

	// only flags that were set are applied
	test.DemandEquality(t, len(applied), 1)
	test.ExpectEquality(t, applied[0], "fps")
}

func TestLoadPreferences(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	pref, pop, err := loadPreferences("application.framerate::25")
	test.DemandSuccess(t, err)
	defer pop()

	test.ExpectEquality(t, pref.application.FrameRate.Get().(int), 25)
	test.ExpectEquality(t, pref.handoff.Logging.Get().(bool), true)
}

func TestWriteMemviz(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "handoff.dot")

	var snapshot handoff.Snapshot
	snapshot.Initialised = true
	snapshot.Slots[0].Frame = 10

	test.DemandSuccess(t, writeMemviz(fn, snapshot))

	b, err := os.ReadFile(fn)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, strings.Contains(string(b), "digraph"))
}

func TestHeadless(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dump := filepath.Join(t.TempDir(), "handoff.dot")

	sync := &mainSync{
		state: make(chan stateRequest, 1),
	}

	md := &modalflag.Modes{Output: &test.CompareWriter{}}
	md.NewArgs([]string{"-frames", "10", "-fps", "0", "-memviz", dump})
	test.DemandSuccess(t, headless(md, sync))

	req := <-sync.state
	test.ExpectEquality(t, req.req, reqNoIntSig)

	_, err := os.Stat(dump)
	test.ExpectSuccess(t, err)
}

func TestPerformBadProfile(t *testing.T) {
	md := &modalflag.Modes{Output: &test.CompareWriter{}}
	md.NewArgs([]string{"-profile", "gpu"})
	test.ExpectFailure(t, perform(md))
}
