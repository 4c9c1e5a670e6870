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

	"github.com/jetsetilly/framehandoff/prefs"
)

// Preferences for the sdlgl backend.
type Preferences struct {
	dsk *prefs.Disk

	// synchronise buffer swaps with the vertical retrace of the monitor
	VSync prefs.Bool

	// show the statistics overlay
	Overlay prefs.Bool

	// draw the two built-in meshes
	Meshes prefs.Bool

	// initial size of the window
	WindowWidth  prefs.Int
	WindowHeight prefs.Int
}

func (p *Preferences) String() string {
	if p.dsk == nil {
		return ""
	}
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. An empty path means the preferences are not backed by a
// file.
func NewPreferences(path string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	p.WindowWidth.SetHookPre(positiveSize)
	p.WindowHeight.SetHookPre(positiveSize)

	if path == "" {
		return p, nil
	}

	var err error

	p.dsk, err = prefs.NewDisk(path)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("sdlgl.vsync", &p.VSync)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("sdlgl.overlay", &p.Overlay)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("sdlgl.meshes", &p.Meshes)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("sdlgl.window.width", &p.WindowWidth)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("sdlgl.window.height", &p.WindowHeight)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Load()
	if err != nil {
		return nil, err
	}

	return p, nil
}

func positiveSize(v prefs.Value) error {
	if v.(int) <= 0 {
		return fmt.Errorf("sdlgl: window size must be positive")
	}
	return nil
}

// SetDefaults reverts all settings to default values.
func (p *Preferences) SetDefaults() {
	_ = p.VSync.Set(true)
	_ = p.Overlay.Set(false)
	_ = p.Meshes.Set(true)
	_ = p.WindowWidth.Set(800)
	_ = p.WindowHeight.Set(600)
}

// Load preferences from disk.
func (p *Preferences) Load() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Load()
}

// Save current preferences to disk.
func (p *Preferences) Save() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Save()
}
