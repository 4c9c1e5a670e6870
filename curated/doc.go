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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. It takes a pattern
// string and placeholder values, in the same way as fmt.Errorf(). The pattern
// is remembered and used to identify the error later on:
//
//	const TimedOut = "event: timed out after %v"
//
//	err := curated.Errorf(TimedOut, timeout)
//
//	if curated.Is(err, TimedOut) {
//		// retry
//	}
//
// The Has() function is similar but checks if a pattern occurs anywhere in the
// chain of curated errors. In the following, Is() would fail because the
// outermost pattern is "fatal: %v" but Has() will succeed.
//
//	f := curated.Errorf("fatal: %v", err)
//
//	if curated.Has(f, TimedOut) {
//		fmt.Println("true")
//	}
//
// The IsAny() function answers whether the error was created by
// curated.Errorf() at all. We can think of curated errors as 'expected' errors
// and uncurated errors as 'unexpected' ones.
//
// Patterns are best stored as named const strings in the package that returns
// them, so that callers can check errors with Is() and Has() without having to
// know the wording of the message.
//
// The Error() function normalises the error chain so that adjacent duplicate
// parts are removed. Parts are separated by the sub-string ": ". This means
// that wrapping an error with the same prefix does not produce stuttering
// messages:
//
//	handoff: handoff: not initialised
//
// is printed as:
//
//	handoff: not initialised
package curated
