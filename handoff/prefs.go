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

package handoff

import (
	"time"

	"github.com/jetsetilly/framehandoff/event"
	"github.com/jetsetilly/framehandoff/prefs"
)

// Preferences for the FrameHandoff type.
type Preferences struct {
	dsk *prefs.Disk

	// how long the consumer waits for a submission before the handoff is
	// considered fatal. zero or a negative value means the consumer waits
	// forever
	ConsumerTimeout prefs.Duration

	// the timeout used by producers that do not have a better idea of how
	// long they should wait for the consumer
	ProducerTimeout prefs.Duration

	// whether the handoff adds entries to the central log
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

	if path == "" {
		return p, nil
	}

	var err error

	p.dsk, err = prefs.NewDisk(path)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("handoff.consumer.timeout", &p.ConsumerTimeout)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("handoff.producer.timeout", &p.ProducerTimeout)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("handoff.logging", &p.Logging)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Load()
	if err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all handoff settings to default values.
func (p *Preferences) SetDefaults() {
	// errors are not possible for these values
	_ = p.ConsumerTimeout.Set(event.Infinite)
	_ = p.ProducerTimeout.Set(20 * time.Millisecond)
	_ = p.Logging.Set(true)
}

// Load handoff preferences from disk.
func (p *Preferences) Load() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Load()
}

// Save current handoff preferences to disk.
func (p *Preferences) Save() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Save()
}

// consumerTimeout returns the ConsumerTimeout value. Zero and any negative
// value are treated as event.Infinite. A consumer never polls.
func (p *Preferences) consumerTimeout() time.Duration {
	t := p.ConsumerTimeout.Get().(time.Duration)
	if t <= 0 {
		return event.Infinite
	}
	return t
}
