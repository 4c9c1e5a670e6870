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

package logger

// Permission is satisfied by anything that can say whether it is currently
// allowed to add entries to the log. The handoff and the application both
// answer from their Logging preference.
type Permission interface {
	AllowLogging() bool
}

// fixed is a Permission that never changes its answer.
type fixed bool

func (f fixed) AllowLogging() bool {
	return bool(f)
}

// Allow is the Permission for log entries that should always be made.
var Allow Permission = fixed(true)
