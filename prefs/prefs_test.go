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

package prefs_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jetsetilly/framehandoff/prefs"
	"github.com/jetsetilly/framehandoff/test"
)

func getTmpPrefFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "framehandoff_prefs_test.toml")
}

func readTmpFile(t *testing.T, fn string) string {
	t.Helper()
	data, err := os.ReadFile(fn)
	test.DemandSuccess(t, err)
	return string(data)
}

func TestBool(t *testing.T) {
	var v prefs.Bool
	test.ExpectEquality(t, v.Get().(bool), false)

	test.ExpectSuccess(t, v.Set(true))
	test.ExpectEquality(t, v.String(), "true")
	test.ExpectSuccess(t, v.Set("foo"))
	test.ExpectEquality(t, v.Get().(bool), false)
	test.ExpectSuccess(t, v.Set("TRUE"))
	test.ExpectEquality(t, v.Get().(bool), true)

	test.ExpectFailure(t, v.Set(1))
}

func TestInt(t *testing.T) {
	var v prefs.Int
	test.ExpectSuccess(t, v.Set(10))
	test.ExpectEquality(t, v.Get().(int), 10)
	test.ExpectSuccess(t, v.Set("99"))
	test.ExpectEquality(t, v.Get().(int), 99)

	test.ExpectFailure(t, v.Set("---"))
	test.ExpectFailure(t, v.Set(1.0))
}

func TestFloat(t *testing.T) {
	var v prefs.Float
	test.ExpectSuccess(t, v.Set(0.5))
	test.ExpectEquality(t, v.String(), "0.500")
	test.ExpectSuccess(t, v.Set("1.25"))
	test.ExpectEquality(t, v.Get().(float64), 1.25)
	test.ExpectFailure(t, v.Set("x"))
}

func TestDuration(t *testing.T) {
	var v prefs.Duration
	test.ExpectEquality(t, v.Get().(time.Duration), 0)

	test.ExpectSuccess(t, v.Set(250*time.Millisecond))
	test.ExpectEquality(t, v.String(), "250ms")

	test.ExpectSuccess(t, v.Set("2s"))
	test.ExpectEquality(t, v.Get().(time.Duration), 2*time.Second)

	// negative durations are allowed
	test.ExpectSuccess(t, v.Set("-1ns"))
	test.ExpectEquality(t, v.Get().(time.Duration), -1)

	test.ExpectFailure(t, v.Set("soon"))
	test.ExpectFailure(t, v.Set(10))

	test.ExpectSuccess(t, v.Reset())
	test.ExpectEquality(t, v.Get().(time.Duration), 0)
}

func TestHooks(t *testing.T) {
	var v prefs.Int

	var post int
	v.SetHookPost(func(nv prefs.Value) error {
		post = nv.(int)
		return nil
	})
	test.ExpectSuccess(t, v.Set(5))
	test.ExpectEquality(t, post, 5)

	// an error in the pre hook prevents the value from changing
	v.SetHookPre(func(nv prefs.Value) error {
		if nv.(int) < 0 {
			return errors.New("negative")
		}
		return nil
	})
	test.ExpectFailure(t, v.Set(-1))
	test.ExpectEquality(t, v.Get().(int), 5)
	test.ExpectEquality(t, post, 5)
}

func TestDiskRoundTrip(t *testing.T) {
	fn := getTmpPrefFile(t)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var logging prefs.Bool
	var timeout prefs.Duration
	var rate prefs.Float
	var title prefs.String
	test.ExpectSuccess(t, dsk.Add("handoff.logging", &logging))
	test.ExpectSuccess(t, dsk.Add("handoff.consumer.timeout", &timeout))
	test.ExpectSuccess(t, dsk.Add("application.rate", &rate))
	test.ExpectSuccess(t, dsk.Add("title", &title))

	test.ExpectSuccess(t, logging.Set(true))
	test.ExpectSuccess(t, timeout.Set(500*time.Millisecond))
	test.ExpectSuccess(t, rate.Set(0.5))
	test.ExpectSuccess(t, title.Set("frame handoff"))

	test.DemandSuccess(t, dsk.Save())

	data := readTmpFile(t, fn)
	test.ExpectSuccess(t, strings.HasPrefix(data, prefs.WarningBoilerPlate))
	test.ExpectSuccess(t, strings.Contains(data, `logging = "true"`))
	test.ExpectSuccess(t, strings.Contains(data, `timeout = "500ms"`))

	// reset values and load them back from the file
	test.ExpectSuccess(t, dsk.Reset())
	test.ExpectEquality(t, logging.Get().(bool), false)
	test.ExpectEquality(t, timeout.Get().(time.Duration), 0)

	test.DemandSuccess(t, dsk.Load())
	test.ExpectEquality(t, logging.Get().(bool), true)
	test.ExpectEquality(t, timeout.Get().(time.Duration), 500*time.Millisecond)
	test.ExpectEquality(t, rate.Get().(float64), 0.5)
	test.ExpectEquality(t, title.String(), "frame handoff")
}

// keys several levels deep create every table on the way down
func TestDiskNestedTables(t *testing.T) {
	fn := getTmpPrefFile(t)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var deep prefs.Int
	var shallow prefs.Int
	test.ExpectSuccess(t, dsk.Add("gui.window.size.width", &deep))
	test.ExpectSuccess(t, dsk.Add("gui.vsync", &shallow))
	test.ExpectSuccess(t, deep.Set(640))
	test.ExpectSuccess(t, shallow.Set(1))
	test.DemandSuccess(t, dsk.Save())

	data := readTmpFile(t, fn)
	test.ExpectSuccess(t, strings.Contains(data, "[gui.window.size]"))
	test.ExpectSuccess(t, strings.Contains(data, `width = "640"`))

	test.ExpectSuccess(t, dsk.Reset())
	test.DemandSuccess(t, dsk.Load())
	test.ExpectEquality(t, deep.Get().(int), 640)
	test.ExpectEquality(t, shallow.Get().(int), 1)
}

// two disk instances can share a file without losing each other's values
func TestDiskSharedFile(t *testing.T) {
	fn := getTmpPrefFile(t)

	dskA, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)
	dskB, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var a prefs.Int
	var b prefs.Int
	test.ExpectSuccess(t, dskA.Add("a.value", &a))
	test.ExpectSuccess(t, dskB.Add("b.value", &b))

	test.ExpectSuccess(t, a.Set(1))
	test.ExpectSuccess(t, b.Set(2))
	test.DemandSuccess(t, dskA.Save())
	test.DemandSuccess(t, dskB.Save())

	var c prefs.Int
	dskC, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, dskC.Add("a.value", &c))
	test.DemandSuccess(t, dskC.Load())
	test.ExpectEquality(t, c.Get().(int), 1)
}

func TestDiskMissingFile(t *testing.T) {
	dsk, err := prefs.NewDisk(getTmpPrefFile(t))
	test.DemandSuccess(t, err)

	var v prefs.Int
	test.ExpectSuccess(t, v.Set(3))
	test.ExpectSuccess(t, dsk.Add("value", &v))

	// missing file is fine and the value is unchanged
	test.ExpectSuccess(t, dsk.Load())
	test.ExpectEquality(t, v.Get().(int), 3)
}

func TestDiskKeys(t *testing.T) {
	_, err := prefs.NewDisk("")
	test.ExpectFailure(t, err)

	dsk, err := prefs.NewDisk(getTmpPrefFile(t))
	test.DemandSuccess(t, err)

	var v prefs.Int
	test.ExpectFailure(t, dsk.Add("", &v))
	test.ExpectFailure(t, dsk.Add("a..b", &v))
	test.ExpectSuccess(t, dsk.Add("a.b", &v))
	test.ExpectFailure(t, dsk.Add("a.b", &v))
}

func TestDiskCommandLine(t *testing.T) {
	fn := getTmpPrefFile(t)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v prefs.Int
	test.ExpectSuccess(t, dsk.Add("handoff.value", &v))
	test.ExpectSuccess(t, v.Set(1))
	test.DemandSuccess(t, dsk.Save())

	// the command line overrides the value in the file
	prefs.PushCommandLineStack("handoff.value::7; unused::true")
	test.DemandSuccess(t, dsk.Load())
	test.ExpectEquality(t, v.Get().(int), 7)

	// the used value has been removed from the command line group
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "unused::true")
}
