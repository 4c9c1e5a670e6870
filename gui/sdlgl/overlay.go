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
	"strings"
	"time"

	"github.com/inkyblackness/imgui-go/v4"
	"github.com/jetsetilly/framehandoff/framedata"
	"github.com/jetsetilly/framehandoff/handoff"
	"github.com/jetsetilly/framehandoff/logger"
)

// number of log entries shown in the overlay
const overlayLogLines = 8

// rateMeter measures the number of events per second, updated once every
// period.
type rateMeter struct {
	period time.Duration
	start  time.Time
	count  int
	rate   float32
}

// tick records an event at time t. Returns the most recent rate.
func (m *rateMeter) tick(t time.Time) float32 {
	if m.start.IsZero() {
		m.start = t
		return m.rate
	}
	m.count++
	if d := t.Sub(m.start); d >= m.period {
		m.rate = float32(float64(m.count) / d.Seconds())
		m.count = 0
		m.start = t
	}
	return m.rate
}

// overlay is a dear imgui window drawn on top of the meshes. it implements
// the backend.Drawable interface.
type overlay struct {
	plt *platform

	context *imgui.Context
	io      imgui.IO
	rnd     *imguiRenderer

	// the source of the handoff statistics. the second return value is false
	// if no statistics are available
	stats func() (handoff.Stats, bool)

	fps  rateMeter
	last time.Time

	logTail strings.Builder
}

func newOverlay(plt *platform, stats func() (handoff.Stats, bool)) (*overlay, error) {
	ov := &overlay{
		plt:     plt,
		context: imgui.CreateContext(nil),
		stats:   stats,
		fps:     rateMeter{period: time.Second},
	}

	ov.io = imgui.CurrentIO()
	ov.io.SetIniFilename("")

	var err error
	ov.rnd, err = newImguiRenderer(ov.io)
	if err != nil {
		ov.context.Destroy()
		return nil, err
	}

	return ov, nil
}

func (ov *overlay) destroy() {
	ov.rnd.destroy(ov.io)
	ov.context.Destroy()
}

// Draw implements the backend.Drawable interface.
func (ov *overlay) Draw(d *framedata.FrameData) error {
	now := time.Now()
	fps := ov.fps.tick(now)

	displaySize := ov.plt.displaySize()
	ov.io.SetDisplaySize(imgui.Vec2{X: displaySize[0], Y: displaySize[1]})
	if ov.last.IsZero() {
		ov.io.SetDeltaTime(1.0 / 60.0)
	} else {
		ov.io.SetDeltaTime(float32(now.Sub(ov.last).Seconds()))
	}
	ov.last = now

	imgui.NewFrame()

	imgui.SetNextWindowPosV(imgui.Vec2{X: 10, Y: 10}, imgui.ConditionAlways, imgui.Vec2{})
	imgui.SetNextWindowBgAlpha(0.6)
	flags := imgui.WindowFlagsNoDecoration | imgui.WindowFlagsAlwaysAutoResize |
		imgui.WindowFlagsNoSavedSettings | imgui.WindowFlagsNoInputs
	if imgui.BeginV("##overlay", nil, flags) {
		imgui.Text(fmt.Sprintf("frame %d  %.1f fps", d.Frame, fps))
		imgui.Text(fmt.Sprintf("system %.2fs  simulation %.2fs", d.Constants.SystemSeconds, d.Constants.SimulationSeconds))
		imgui.Text(fmt.Sprintf("back buffer %s", d.BackBufferColor))

		if st, ok := ov.stats(); ok {
			imgui.Separator()
			imgui.Text(fmt.Sprintf("submitted %d  rendered %d", st.Submitted, st.Rendered))
			imgui.Text(fmt.Sprintf("producer timeouts %d  pass errors %d", st.ProducerTimeouts, st.PassErrors))
		}

		ov.logTail.Reset()
		logger.Tail(&ov.logTail, overlayLogLines)
		if ov.logTail.Len() > 0 {
			imgui.Separator()
			imgui.Text(strings.TrimRight(ov.logTail.String(), "\n"))
		}
	}
	imgui.End()

	imgui.Render()
	ov.rnd.render(displaySize, ov.plt.framebufferSize(), imgui.RenderedDrawData())

	return glError("overlay")
}
