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

package limiter_test

import (
	"testing"
	"time"

	"github.com/jetsetilly/framehandoff/performance/limiter"
	"github.com/jetsetilly/framehandoff/test"
)

func TestLimit(t *testing.T) {
	lim, err := limiter.NewFPSLimiter(100)
	test.DemandSuccess(t, err)
	defer lim.End()

	test.ExpectEquality(t, lim.Limit(), 100)

	// the first tick is immediate. the following ten ticks take at least
	// most of 100ms
	lim.Wait()
	start := time.Now()
	for i := 0; i < 10; i++ {
		lim.Wait()
	}
	test.ExpectSuccess(t, time.Since(start) >= 50*time.Millisecond)
}

func TestUnlimited(t *testing.T) {
	lim, err := limiter.NewFPSLimiter(0)
	test.DemandSuccess(t, err)
	defer lim.End()

	start := time.Now()
	for i := 0; i < 1000; i++ {
		lim.Wait()
	}
	test.ExpectSuccess(t, time.Since(start) < time.Second)
}

func TestSetLimit(t *testing.T) {
	lim, err := limiter.NewFPSLimiter(10)
	test.DemandSuccess(t, err)
	defer lim.End()

	test.ExpectFailure(t, lim.SetLimit(-1))
	test.ExpectEquality(t, lim.Limit(), 10)

	test.ExpectSuccess(t, lim.SetLimit(0))
	test.ExpectEquality(t, lim.Limit(), 0)

	_, err = limiter.NewFPSLimiter(-60)
	test.ExpectFailure(t, err)
}

func TestEnd(t *testing.T) {
	lim, err := limiter.NewFPSLimiter(1)
	test.DemandSuccess(t, err)

	lim.Wait()
	lim.End()

	// wait no longer blocks after the limiter has ended
	done := make(chan bool)
	go func() {
		lim.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("wait blocked after end")
	}
}
