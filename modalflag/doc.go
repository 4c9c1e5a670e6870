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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It handles program modes and allows a different set of flags for
// each mode.
//
// Unlike flag.FlagSet, the arguments are given to NewArgs() and Parse() is
// called with no arguments:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "HEADLESS", "PERFORMANCE")
//	p, err := md.Parse()
//	switch p {
//	case modalflag.ParseHelp:
//		return
//	case modalflag.ParseError:
//		return err
//	}
//
// After Parse(), Mode() returns the selected mode. The first sub-mode in the
// list is the default and is selected when the first argument is not a listed
// mode. Comparisons are case insensitive.
//
// Each mode then starts a new layer of flags with NewMode() and calls Parse()
// again:
//
//	switch md.Mode() {
//	case "HEADLESS":
//		md.NewMode()
//		frames := md.AddUint64("frames", 0, "number of frames to run for")
//		p, err := md.Parse()
//		...
//	}
//
// Modes can be nested as deep as required. Path() returns every mode
// encountered so far, separated by a slash.
//
// Requesting -help prints the flags and sub-modes of the current layer to the
// Output writer and Parse() returns ParseHelp.
package modalflag
