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

package resources_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/framehandoff/resources"
	"github.com/jetsetilly/framehandoff/test"
)

func TestLocalPath(t *testing.T) {
	wd, err := os.Getwd()
	test.DemandSuccess(t, err)

	tmp := t.TempDir()
	test.DemandSuccess(t, os.Chdir(tmp))
	defer os.Chdir(wd)

	test.DemandSuccess(t, os.Mkdir(".framehandoff", 0o700))

	pth, err := resources.JoinPath("foo", "bar")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, filepath.Join(".framehandoff", "foo", "bar"))

	// the directory of the final path element has been created
	fi, err := os.Stat(filepath.Join(".framehandoff", "foo"))
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, fi.IsDir())

	// the file itself has not been created
	_, err = os.Stat(pth)
	test.ExpectFailure(t, err)

	// base path is not added twice
	pth, err = resources.JoinPath(".framehandoff", "baz")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, filepath.Join(".framehandoff", "baz"))
}
