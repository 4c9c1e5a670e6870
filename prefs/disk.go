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

package prefs

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// WarningBoilerPlate is written to the top of every preferences file.
const WarningBoilerPlate = "# preferences file for framehandoff. edit with care"

// DefaultPrefsFile is the name of the file shared by every Preferences type in
// the program. The full path should be resolved with resources.JoinPath().
const DefaultPrefsFile = "preferences.toml"

// Disk associates preference values with keys and saves them to a TOML file.
// Keys are dot separated and each part of the key except the last becomes a
// TOML table. For example, the key "handoff.consumer.timeout" is saved as:
//
//	[handoff.consumer]
//	timeout = "0s"
//
// Values are always saved as strings.
//
// Keys in the file that have not been added to the Disk instance are
// preserved when the file is saved. This means that more than one Disk
// instance can share the same file.
type Disk struct {
	path    string
	entries map[string]pref
}

// NewDisk is the preferred method of initialisation for the Disk type.
func NewDisk(path string) (*Disk, error) {
	if path == "" {
		return nil, fmt.Errorf("prefs: disk path is empty")
	}
	return &Disk{
		path:    path,
		entries: make(map[string]pref),
	}, nil
}

func (dsk *Disk) String() string {
	keys := dsk.keys()
	s := strings.Builder{}
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s :: %s\n", k, dsk.entries[k]))
	}
	return s.String()
}

// Add preference value to the disk instance with the specified key.
func (dsk *Disk) Add(key string, p pref) error {
	key = strings.TrimSpace(key)
	for _, part := range strings.Split(key, ".") {
		if part == "" {
			return fmt.Errorf("prefs: invalid key %q", key)
		}
	}
	if _, ok := dsk.entries[key]; ok {
		return fmt.Errorf("prefs: key %q already added", key)
	}
	dsk.entries[key] = p
	return nil
}

// Reset all preference values to their zero value. Note that this is not
// necessarily the default value the owner of the preference would choose.
func (dsk *Disk) Reset() error {
	for _, k := range dsk.keys() {
		if err := dsk.entries[k].Reset(); err != nil {
			return fmt.Errorf("prefs: %s: %w", k, err)
		}
	}
	return nil
}

// Save current preference values to disk.
func (dsk *Disk) Save() error {
	// values already in the file that have not been added to this disk
	// instance are carried through to the new file
	flat, err := dsk.read()
	if err != nil {
		return err
	}

	for k, p := range dsk.entries {
		flat[k] = p.String()
	}

	var buf bytes.Buffer
	buf.WriteString(WarningBoilerPlate)
	buf.WriteString("\n")

	if err := toml.NewEncoder(&buf).Encode(nest(flat)); err != nil {
		return fmt.Errorf("prefs: %w", err)
	}

	if err := os.WriteFile(dsk.path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("prefs: %w", err)
	}

	return nil
}

// Load preference values from disk. A missing file is not an error and leaves
// the preference values unchanged.
//
// After loading, any value for a key in the top group of the command line
// stack will override the value loaded from disk.
func (dsk *Disk) Load() error {
	flat, err := dsk.read()
	if err != nil {
		return err
	}

	for _, k := range dsk.keys() {
		p := dsk.entries[k]
		if v, ok := flat[k]; ok {
			if err := p.Set(v); err != nil {
				return fmt.Errorf("prefs: %s: %w", k, err)
			}
		}
		if ok, v := GetCommandLinePref(k); ok {
			if err := p.Set(v); err != nil {
				return fmt.Errorf("prefs: %s: %w", k, err)
			}
		}
	}

	return nil
}

// read the file into a flat map of dotted keys to string values.
func (dsk *Disk) read() (map[string]string, error) {
	flat := make(map[string]string)

	var tree map[string]any
	_, err := toml.DecodeFile(dsk.path, &tree)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return flat, nil
		}
		return nil, fmt.Errorf("prefs: %w", err)
	}

	flatten("", tree, flat)
	return flat, nil
}

func (dsk *Disk) keys() []string {
	keys := make([]string, 0, len(dsk.entries))
	for k := range dsk.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// flatten converts a tree of TOML tables into dotted keys.
func flatten(prefix string, tree map[string]any, flat map[string]string) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch v := v.(type) {
		case map[string]any:
			flatten(key, v, flat)
		default:
			flat[key] = fmt.Sprintf("%v", v)
		}
	}
}

// nest converts dotted keys into a tree suitable for encoding as TOML tables.
// a key that is also used as a table (eg. "a" and "a.b") cannot be
// represented in TOML. the value is dropped in favour of the table.
func nest(flat map[string]string) map[string]any {
	tree := make(map[string]any)

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}

	// sorting by length means tables are always created before a shorter key
	// could claim the same name
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) == len(keys[j]) {
			return keys[i] > keys[j]
		}
		return len(keys[i]) > len(keys[j])
	})

	for _, k := range keys {
		parts := strings.Split(k, ".")
		t := tree
		ok := true
		for _, p := range parts[:len(parts)-1] {
			switch n := t[p].(type) {
			case map[string]any:
				t = n
			case nil:
				m := make(map[string]any)
				t[p] = m
				t = m
			default:
				ok = false
			}
			if !ok {
				break
			}
		}
		if !ok {
			continue
		}
		leaf := parts[len(parts)-1]
		if _, isTable := t[leaf].(map[string]any); isTable {
			continue
		}
		t[leaf] = flat[k]
	}

	return tree
}
