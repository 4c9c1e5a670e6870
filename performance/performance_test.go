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

package performance_test

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/jetsetilly/framehandoff/performance"
	"github.com/jetsetilly/framehandoff/test"
)

func TestCalcFPS(t *testing.T) {
	fps, accuracy := performance.CalcFPS(60, 120, 2.0)
	test.ExpectEquality(t, fps, 60.0)
	test.ExpectEquality(t, accuracy, 100.0)

	fps, accuracy = performance.CalcFPS(60, 60, 2.0)
	test.ExpectEquality(t, fps, 30.0)
	test.ExpectEquality(t, accuracy, 50.0)

	// no target frame rate
	fps, accuracy = performance.CalcFPS(0, 500, 2.0)
	test.ExpectEquality(t, fps, 250.0)
	test.ExpectEquality(t, accuracy, 100.0)

	fps, _ = performance.CalcFPS(60, 500, 0)
	test.ExpectEquality(t, fps, 0.0)
}

func TestParseProfileString(t *testing.T) {
	p, err := performance.ParseProfileString("none")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, performance.ProfileNone)

	p, err = performance.ParseProfileString("CPU, trace")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, performance.ProfileCPU|performance.ProfileTrace)
	test.ExpectEquality(t, p.String(), "cpu,trace")

	p, err = performance.ParseProfileString("all")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, performance.ProfileAll)

	_, err = performance.ParseProfileString("cpu,gpu")
	test.ExpectFailure(t, err)
}

func TestRunProfiler(t *testing.T) {
	header := filepath.Join(t.TempDir(), "test")

	var ran bool
	err := performance.RunProfiler(performance.ProfileCPU|performance.ProfileMem, header, func() error {
		ran = true
		return nil
	})
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, ran)

	_, err = os.Stat(header + "_cpu.profile")
	test.ExpectSuccess(t, err)
	_, err = os.Stat(header + "_mem.profile")
	test.ExpectSuccess(t, err)
	_, err = os.Stat(header + "_trace.profile")
	test.ExpectFailure(t, err)

	// errors from the run function are returned unchanged
	runErr := errors.New("run failed")
	err = performance.RunProfiler(performance.ProfileNone, header, func() error {
		return runErr
	})
	test.ExpectEquality(t, err, runErr)
}

func TestCheck(t *testing.T) {
	out := &test.CompareWriter{}

	err := performance.Check(out, performance.ProfileNone, performance.Config{
		Duration: 200 * time.Millisecond,
		LeadTime: 50 * time.Millisecond,
		FPS:      0,
	})
	test.DemandSuccess(t, err)

	re := regexp.MustCompile(`^[0-9.]+ fps \(([0-9]+) frames in 0.20 seconds\) 100.0%\n$`)
	m := re.FindStringSubmatch(out.String())
	test.DemandEquality(t, len(m), 2)
	test.ExpectInequality(t, m[1], "0")
}

func TestCheckDuration(t *testing.T) {
	err := performance.Check(&test.CompareWriter{}, performance.ProfileNone, performance.Config{})
	test.ExpectFailure(t, err)
}
