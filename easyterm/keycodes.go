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

package easyterm

// list of ASCII codes for non-alphanumeric characters
const (
	KeyInterrupt = 3  // end-of-text character
	KeySuspend   = 26 // substitute character
	KeyEsc       = 27
	KeyTab       = 9
	KeyCarriage  = 13
	KeyBackspace = 127
)

// IsQuit returns true if the key should end an interactive run. The keys are
// 'q', 'Q', escape and the interrupt key (which in cbreak mode is still
// handled by the terminal but may arrive in raw mode).
func IsQuit(b byte) bool {
	switch b {
	case 'q', 'Q', KeyEsc, KeyInterrupt:
		return true
	}
	return false
}
