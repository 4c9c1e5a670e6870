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

// Package prefs holds preference values and saves them to disk.
//
// The value types (Bool, Int, Float, String and Duration) are safe to read
// and write from more than one goroutine. Each type supports callback hooks
// that are run either side of setting a new value.
//
// Packages that have preferences should collect them into a Preferences
// type, adding each value to a Disk instance with a dotted key:
//
//	dsk, err := prefs.NewDisk(pth)
//	err = dsk.Add("handoff.consumer.timeout", &p.ConsumerTimeout)
//	err = dsk.Load()
//
// Values can also be set on the command line. See PushCommandLineStack() for
// details.
package prefs
