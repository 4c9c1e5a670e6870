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

// Package backend defines the operations a render backend must provide for
// the render pass of a single frame.
//
// The operations are always called in the same order, once each per frame:
//
//	ClearColorBuffer()
//	ClearDepthBuffer()
//	PushFrameConstants()
//	DrawRegisteredDrawables()
//	PresentFrame()
//
// They are always called from the same goroutine. A backend that requires a
// specific OS thread (OpenGL for example) should make sure the render loop
// runs on that thread.
package backend

import (
	"sync"

	"github.com/jetsetilly/framehandoff/framedata"
)

// Backend is implemented by anything that can turn a FrameData instance into
// a presented frame.
type Backend interface {
	ClearColorBuffer(c framedata.Color) error
	ClearDepthBuffer() error
	PushFrameConstants(c framedata.FrameConstants) error
	DrawRegisteredDrawables(d *framedata.FrameData) error
	PresentFrame() error
}

// Drawable is implemented by anything that can be drawn during the render
// pass. The FrameData must not be retained after Draw() returns.
type Drawable interface {
	Draw(d *framedata.FrameData) error
}

// DrawableFunc allows a plain function to be used as a Drawable. Note that a
// DrawableFunc cannot be removed from a Registry with Unregister().
type DrawableFunc func(d *framedata.FrameData) error

// Draw implements the Drawable interface.
func (f DrawableFunc) Draw(d *framedata.FrameData) error {
	return f(d)
}

// Registry is a list of Drawable instances. Backends can embed a Registry and
// call Draw() from their DrawRegisteredDrawables() implementation. The zero
// value is ready to use.
//
// Drawables can be registered from any goroutine.
type Registry struct {
	crit      sync.Mutex
	drawables []Drawable
}

// Register adds a Drawable to the end of the list. Drawables are drawn in the
// order they were registered.
func (r *Registry) Register(d Drawable) {
	r.crit.Lock()
	defer r.crit.Unlock()
	r.drawables = append(r.drawables, d)
}

// Unregister removes the Drawable from the list. Does nothing if the Drawable
// is not in the list.
func (r *Registry) Unregister(d Drawable) {
	r.crit.Lock()
	defer r.crit.Unlock()
	if _, ok := d.(DrawableFunc); ok {
		return
	}
	for i := range r.drawables {
		if _, ok := r.drawables[i].(DrawableFunc); ok {
			continue
		}
		if r.drawables[i] == d {
			r.drawables = append(r.drawables[:i], r.drawables[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered drawables.
func (r *Registry) Len() int {
	r.crit.Lock()
	defer r.crit.Unlock()
	return len(r.drawables)
}

// Draw calls the Draw() function of every registered Drawable. Drawing stops
// at the first error.
func (r *Registry) Draw(d *framedata.FrameData) error {
	r.crit.Lock()
	l := make([]Drawable, len(r.drawables))
	copy(l, r.drawables)
	r.crit.Unlock()

	for _, dr := range l {
		if err := dr.Draw(d); err != nil {
			return err
		}
	}
	return nil
}
