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
	"testing"

	"github.com/jetsetilly/framehandoff/prefs"
	"github.com/jetsetilly/framehandoff/test"
)

func TestCommandLineParsing(t *testing.T) {
	// popping an empty stack is harmless
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "")

	// each pushed string and the group it leaves behind when nothing is used.
	// entries without a :: separator are ignored and the remainder is
	// sorted by key
	for _, c := range []struct {
		pushed    string
		remaining string
	}{
		{"handoff.logging::false", "handoff.logging::false"},
		{"  handoff.logging::   false  ", "handoff.logging::false"},
		{"sdlgl.vsync::true; application.framerate::30", "application.framerate::30; sdlgl.vsync::true"},
		{"sdlgl.vsync", ""},
		{"sdlgl.vsync;application.framerate::30", "application.framerate::30"},
		{"", ""},
	} {
		prefs.PushCommandLineStack(c.pushed)
		test.ExpectEquality(t, prefs.PopCommandLineStack(), c.remaining, c.pushed)
	}
	test.ExpectEquality(t, prefs.SizeCommandLineStack(), 0)
}

func TestCommandLineGet(t *testing.T) {
	prefs.PushCommandLineStack("handoff.consumer.timeout::1s;sdlgl.overlay")

	// a malformed entry never becomes a key
	ok, _ := prefs.GetCommandLinePref("sdlgl.overlay")
	test.ExpectFailure(t, ok)

	// a value can only be used once
	ok, v := prefs.GetCommandLinePref("handoff.consumer.timeout")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v.(string), "1s")
	ok, _ = prefs.GetCommandLinePref("handoff.consumer.timeout")
	test.ExpectFailure(t, ok)

	test.ExpectEquality(t, prefs.PopCommandLineStack(), "")
}

func TestCommandLineStack(t *testing.T) {
	prefs.PushCommandLineStack("application.framerate::60")
	prefs.PushCommandLineStack("application.framerate::0")
	test.ExpectEquality(t, prefs.SizeCommandLineStack(), 2)

	// only the top group is consulted
	ok, v := prefs.GetCommandLinePref("application.framerate")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v.(string), "0")
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "")

	// the group underneath is untouched
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "application.framerate::60")
	test.ExpectEquality(t, prefs.SizeCommandLineStack(), 0)
}
