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

// Package resources prepares paths to the files used by framehandoff, such as
// the preferences file.
//
// The JoinPath() function returns the path to the resource specified in the
// arguments, prepended with the base resource path. It creates any
// directories as required but does not otherwise touch or create files.
//
// If a directory named ".framehandoff" exists in the current working
// directory then that is the base path. Otherwise the base path is in the
// user's configuration directory. On modern Linux systems this will be
// something like:
//
//	/home/user/.config/framehandoff/
package resources
