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

package test

import "testing"

// demand stops the test immediately if ok is false. the Demand functions are
// for values that later steps of a test rely on. for example, a wait that must
// succeed before anything can be submitted to a handoff.
func demand(t *testing.T, ok bool, format string, args ...any) {
	t.Helper()
	if !ok {
		t.Fatalf(format, args...)
	}
}

// DemandEquality is the fatal version of ExpectEquality().
func DemandEquality[T comparable](t *testing.T, v T, expectedValue T, tags ...any) {
	t.Helper()
	demand(t, v == expectedValue, "%sdemanded equality for %T: '%v' is not '%v'", id(tags...), v, v, expectedValue)
}

// DemandSuccess is the fatal version of ExpectSuccess(). The same rules about
// what counts as success apply.
func DemandSuccess(t *testing.T, v any, tags ...any) {
	t.Helper()
	demand(t, expect(t, v, tags...), "%sdemanded success for %T", id(tags...), v)
}

// DemandFailure is the fatal version of ExpectFailure().
func DemandFailure(t *testing.T, v any, tags ...any) {
	t.Helper()
	demand(t, !expect(t, v, tags...), "%sdemanded failure for %T", id(tags...), v)
}

// DemandImplements stops the test if instance does not satisfy the type of
// implements. Useful for checking that a stub can stand in for a real
// backend.
func DemandImplements[T comparable](t *testing.T, instance any, implements T, tags ...any) bool {
	t.Helper()
	_, ok := instance.(T)
	demand(t, ok, "%s%T does not implement %T", id(tags...), instance, implements)
	return ok
}
