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

// Package application is the producer side of a frame handoff. It runs a
// simulation with a fixed update step and, whenever the consumer allows it,
// submits the elapsed time and a back buffer colour for the next frame.
//
// The simulation keeps running while the consumer is busy. The application
// waits for the consumer with a short timeout and, if the wait times out,
// carries on updating the simulation before trying again.
//
// The application will usually be run in its own goroutine with Run(). The
// Step() function runs a single iteration of the loop and is useful when the
// caller wants to control the number of submitted frames.
package application
