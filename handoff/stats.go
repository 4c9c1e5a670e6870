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
	"fmt"
	"sync/atomic"

	"github.com/jetsetilly/framehandoff/framedata"
)

// Stats is a summary of the handoff activity since the last call to
// Initialize().
type Stats struct {
	// number of calls to SignalSubmissionComplete() that released a frame to
	// the consumer
	Submitted uint64

	// number of render passes that completed without error
	Rendered uint64

	// number of producer waits that timed out
	ProducerTimeouts uint64

	// number of render passes that stopped because of a backend error
	PassErrors uint64

	// number of frames that have been submitted but not yet taken by the
	// consumer. never more than one
	InFlight int

	// frame number of the most recent frame taken by the consumer
	LastRendered uint64
}

func (s Stats) String() string {
	return fmt.Sprintf("submitted=%d rendered=%d timeouts=%d pass errors=%d in flight=%d last=%d",
		s.Submitted, s.Rendered, s.ProducerTimeouts, s.PassErrors, s.InFlight, s.LastRendered)
}

// counters are updated by both goroutines.
type counters struct {
	submitted        atomic.Uint64
	rendered         atomic.Uint64
	producerTimeouts atomic.Uint64
	passErrors       atomic.Uint64
	inFlight         atomic.Int32
	lastRendered     atomic.Uint64
}

func (c *counters) reset() {
	c.submitted.Store(0)
	c.rendered.Store(0)
	c.producerTimeouts.Store(0)
	c.passErrors.Store(0)
	c.inFlight.Store(0)
	c.lastRendered.Store(0)
}

func (c *counters) stats() Stats {
	return Stats{
		Submitted:        c.submitted.Load(),
		Rendered:         c.rendered.Load(),
		ProducerTimeouts: c.producerTimeouts.Load(),
		PassErrors:       c.passErrors.Load(),
		InFlight:         int(c.inFlight.Load()),
		LastRendered:     c.lastRendered.Load(),
	}
}

// Snapshot is a plain copy of the handoff state.
type Snapshot struct {
	Initialised  bool
	SubmitSlot   int
	Slots        [2]framedata.FrameData
	ProducerOwns bool
	Stats        Stats
	Fatal        string
}
