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

package application

import (
	"fmt"
	"time"

	"github.com/jetsetilly/framehandoff/prefs"
)

// Preferences for the Application type.
type Preferences struct {
	dsk *prefs.Disk

	// number of fixed simulation updates per second
	UpdateRate prefs.Int

	// speed of the simulation relative to system time. a value of 1.0 means
	// simulation time and system time advance at the same rate
	SimulationRate prefs.Float

	// maximum number of frames submitted per second. zero means no limit
	FrameRate prefs.Int

	// how long the application waits for the consumer before carrying on
	// with the simulation
	WaitTimeout prefs.Duration

	Logging prefs.Bool
}

func (p *Preferences) String() string {
	if p.dsk == nil {
		return ""
	}
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Values are loaded from the file at the supplied path. An
// empty path means the preferences are not backed by a file.
func NewPreferences(path string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	p.UpdateRate.SetHookPre(func(v prefs.Value) error {
		if v.(int) <= 0 {
			return fmt.Errorf("application: update rate must be positive")
		}
		return nil
	})
	p.FrameRate.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 0 {
			return fmt.Errorf("application: frame rate cannot be negative")
		}
		return nil
	})
	p.SimulationRate.SetHookPre(func(v prefs.Value) error {
		if v.(float64) < 0 {
			return fmt.Errorf("application: simulation rate cannot be negative")
		}
		return nil
	})

	if path == "" {
		return p, nil
	}

	var err error

	p.dsk, err = prefs.NewDisk(path)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("application.updaterate", &p.UpdateRate)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("application.simulationrate", &p.SimulationRate)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("application.framerate", &p.FrameRate)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("application.waittimeout", &p.WaitTimeout)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("application.logging", &p.Logging)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Load()
	if err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all application settings to default values.
func (p *Preferences) SetDefaults() {
	// errors are not possible for these values
	_ = p.UpdateRate.Set(60)
	_ = p.SimulationRate.Set(1.0)
	_ = p.FrameRate.Set(60)
	_ = p.WaitTimeout.Set(time.Millisecond)
	_ = p.Logging.Set(true)
}

// Load application preferences from disk.
func (p *Preferences) Load() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Load()
}

// Save current application preferences to disk.
func (p *Preferences) Save() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Save()
}
