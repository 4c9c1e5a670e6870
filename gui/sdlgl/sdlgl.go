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

package sdlgl

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-gl/gl/v3.2-core/gl"
	"github.com/jetsetilly/framehandoff/backend"
	"github.com/jetsetilly/framehandoff/curated"
	"github.com/jetsetilly/framehandoff/framedata"
	"github.com/jetsetilly/framehandoff/handoff"
	"github.com/jetsetilly/framehandoff/logger"
)

// GLError is the pattern for errors reported by OpenGL during the render pass.
const GLError = "sdlgl: %s: gl error %#x"

// how long Service() sleeps when there is no consumer
const idleService = 5 * time.Millisecond

// Consumer is the render loop driven by the Service() function. It is
// satisfied by handoff.FrameHandoff.
type Consumer interface {
	RunRenderIteration() error
	Stats() handoff.Stats
}

// SdlGL is an SDL window with an OpenGL context. It implements the
// backend.Backend interface.
type SdlGL struct {
	prefs *Preferences
	plt   *platform

	// the uniform buffer containing the frame constants
	ubo uint32

	drawables backend.Registry
	meshes    []*meshDrawable
	overlay   *overlay

	// consumers are passed to the main thread through the channel. the
	// consumer field is only accessed by the main thread
	consumerChan chan Consumer
	consumer     Consumer

	// a value is sent when the main thread stops using the consumer
	released chan struct{}

	quit     chan struct{}
	quitOnce sync.Once
}

// NewSdlGL is the preferred method of initialisation for the SdlGL type. It
// must be called from the main thread. A nil Preferences instance means
// default values are used.
func NewSdlGL(p *Preferences) (*SdlGL, error) {
	if p == nil {
		var err error
		p, err = NewPreferences("")
		if err != nil {
			return nil, fmt.Errorf("sdlgl: %w", err)
		}
	}

	sg := &SdlGL{
		prefs:        p,
		consumerChan: make(chan Consumer, 1),
		released:     make(chan struct{}, 1),
		quit:         make(chan struct{}),
	}

	var err error

	sg.plt, err = newPlatform(int32(p.WindowWidth.Get().(int)), int32(p.WindowHeight.Get().(int)))
	if err != nil {
		return nil, fmt.Errorf("sdlgl: %w", err)
	}

	err = gl.Init()
	if err != nil {
		_ = sg.plt.destroy()
		return nil, fmt.Errorf("sdlgl: %w", err)
	}

	logger.Logf(logger.Allow, "sdlgl", "vendor: %s", gl.GoStr(gl.GetString(gl.VENDOR)))
	logger.Logf(logger.Allow, "sdlgl", "renderer: %s", gl.GoStr(gl.GetString(gl.RENDERER)))
	logger.Logf(logger.Allow, "sdlgl", "driver: %s", gl.GoStr(gl.GetString(gl.VERSION)))

	sg.plt.setVSync(p.VSync.Get().(bool))

	gl.GenBuffers(1, &sg.ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, sg.ubo)
	gl.BufferData(gl.UNIFORM_BUFFER, framedata.FrameConstantsSize, nil, gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, frameConstantsBinding, sg.ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)

	if p.Meshes.Get().(bool) {
		for _, m := range []struct {
			name string
			g    geometry
			frag string
		}{
			{"square", squareGeometry, squareFragmentShader},
			{"shape", shapeGeometry, shapeFragmentShader},
		} {
			md, err := newMeshDrawable(m.name, m.g, m.frag)
			if err != nil {
				sg.Destroy(io.Discard)
				return nil, err
			}
			sg.meshes = append(sg.meshes, md)
			sg.drawables.Register(md)
		}
	}

	if p.Overlay.Get().(bool) {
		sg.overlay, err = newOverlay(sg.plt, sg.consumerStats)
		if err != nil {
			sg.Destroy(io.Discard)
			return nil, err
		}
		sg.drawables.Register(sg.overlay)
	}

	if err := glError("initialisation"); err != nil {
		sg.Destroy(io.Discard)
		return nil, err
	}

	return sg, nil
}

// Register adds a drawable to the list of drawables drawn during every render
// pass. Drawables are drawn after the built-in meshes and before the overlay
// if they are registered after the SdlGL instance has been created.
//
// The Draw() function of the drawable will be called on the main thread.
func (sg *SdlGL) Register(d backend.Drawable) {
	sg.drawables.Register(d)
}

// Unregister removes a drawable from the list.
func (sg *SdlGL) Unregister(d backend.Drawable) {
	sg.drawables.Unregister(d)
}

// SetConsumer gives the consumer to the main thread. Can be called from any
// goroutine. The Service() function will call RunRenderIteration() on the
// consumer until it returns a handoff.Stopped or a fatal error.
func (sg *SdlGL) SetConsumer(c Consumer) {
	sg.consumerChan <- c
}

// Released returns a channel that receives a value when the main thread stops
// calling the consumer, either because the consumer returned handoff.Stopped
// or because it failed. After that it is safe to call Shutdown() on the
// handoff.
func (sg *SdlGL) Released() <-chan struct{} {
	return sg.released
}

func (sg *SdlGL) releaseConsumer() {
	sg.consumer = nil
	select {
	case sg.released <- struct{}{}:
	default:
	}
}

// Quit returns a channel that is closed when the user closes the window or
// when the consumer stops with a fatal error.
func (sg *SdlGL) Quit() <-chan struct{} {
	return sg.quit
}

func (sg *SdlGL) requestQuit() {
	sg.quitOnce.Do(func() {
		close(sg.quit)
	})
}

func (sg *SdlGL) consumerStats() (handoff.Stats, bool) {
	if sg.consumer == nil {
		return handoff.Stats{}, false
	}
	return sg.consumer.Stats(), true
}

// Service should be called repeatedly from the main thread. It services SDL
// events and runs one render iteration of the consumer, if there is one.
func (sg *SdlGL) Service() {
	if sg.plt.pollEvents() {
		sg.requestQuit()
	}

	select {
	case c := <-sg.consumerChan:
		sg.consumer = c
	default:
	}

	if sg.consumer == nil {
		time.Sleep(idleService)
		return
	}

	err := sg.consumer.RunRenderIteration()
	if err == nil {
		return
	}

	switch {
	case curated.Is(err, handoff.ConsumerPassError):
		// the handoff continues after a failed pass
	case curated.Is(err, handoff.Stopped):
		sg.releaseConsumer()
	default:
		logger.Log(logger.Allow, "sdlgl", err)
		sg.releaseConsumer()
		sg.requestQuit()
	}
}

// Destroy releases all GL and SDL resources. Errors are written to the output.
func (sg *SdlGL) Destroy(output io.Writer) {
	if sg.overlay != nil {
		sg.drawables.Unregister(sg.overlay)
		sg.overlay.destroy()
		sg.overlay = nil
	}

	for _, md := range sg.meshes {
		sg.drawables.Unregister(md)
		md.destroy()
	}
	sg.meshes = nil

	if sg.ubo != 0 {
		gl.DeleteBuffers(1, &sg.ubo)
		sg.ubo = 0
	}

	if sg.plt != nil {
		if err := sg.plt.destroy(); err != nil {
			fmt.Fprintf(output, "sdlgl: %v\n", err)
		}
		sg.plt = nil
	}
}

// ClearColorBuffer implements the backend.Backend interface. The color is
// clamped to the range supported by the framebuffer.
func (sg *SdlGL) ClearColorBuffer(c framedata.Color) error {
	fb := sg.plt.framebufferSize()
	gl.Viewport(0, 0, int32(fb[0]), int32(fb[1]))

	c = c.Clamped()
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	return glError("clear color buffer")
}

// ClearDepthBuffer implements the backend.Backend interface.
func (sg *SdlGL) ClearDepthBuffer() error {
	gl.DepthMask(true)
	gl.ClearDepth(1.0)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
	return glError("clear depth buffer")
}

// PushFrameConstants implements the backend.Backend interface.
func (sg *SdlGL) PushFrameConstants(c framedata.FrameConstants) error {
	b := c.Bytes()
	gl.BindBuffer(gl.UNIFORM_BUFFER, sg.ubo)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, len(b), gl.Ptr(b))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	return glError("push frame constants")
}

// DrawRegisteredDrawables implements the backend.Backend interface.
func (sg *SdlGL) DrawRegisteredDrawables(d *framedata.FrameData) error {
	return sg.drawables.Draw(d)
}

// PresentFrame implements the backend.Backend interface.
func (sg *SdlGL) PresentFrame() error {
	sg.plt.swap()
	return glError("present")
}

// glError returns an error if OpenGL has recorded an error since the last
// call. The step names the part of the render pass that was running.
func glError(step string) error {
	if e := gl.GetError(); e != gl.NO_ERROR {
		return curated.Errorf(GLError, step, e)
	}
	return nil
}
