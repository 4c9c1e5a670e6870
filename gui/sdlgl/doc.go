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

// Package sdlgl is a render backend that presents frames in an SDL window
// using OpenGL 3.2 (core profile).
//
// The SdlGL type implements the backend.Backend interface. Every method of
// that interface, and the Service() function, must be called from the main
// thread because that is where the GL context is current.
//
// The backend keeps a list of registered drawables. When created, the list
// contains the two built-in meshes and, if the Overlay preference is set, a
// dear imgui window showing handoff statistics and the tail of the central
// log.
//
// The render loop itself is driven by the Service() function. A consumer
// (normally an instance of handoff.FrameHandoff that was created with the
// SdlGL instance as its backend) is given to the SdlGL with SetConsumer().
// From then on each call to Service() runs one render iteration.
package sdlgl
