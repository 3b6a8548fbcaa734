// Package skiplist persists the set of catalog entries the crawler should
// not revisit. The list lives in a JSON file so interrupted runs resume
// where they left off.
package skiplist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// defaultEntries seeds a fresh skip list. These are catalog sections known
// to be fully captured already.
var defaultEntries = []string{
	"", "Socket Head Screws", "Rounded Head Screws", "Hex Head Screws",
	"Flat Head Screws", "Tapping Screws", "Shoulder Screws", "Set Screws",
	"Wood Screws", "Thumb Screws", "Carriage Bolts", "12-Point Screws",
	"Captive Panel Screws", "Drywall Screws", "Fastener Assortments", "Studs",
	"Square Head Screws", "Elevator Bolts", "Hanger Bolts", "T-Bolts",
	"Plow Bolts", "Pentagon Head Screws", "Hold-Down Bolts", "Jack Screws",
	"Joint Clamps for Wood", "Binding Barrels and Screws", "Threaded Rods",
	"Standoffs", "Standoff Caps", "Single-End Studs", "Thread Adapters",
	"Rivet Nuts", "Weld Nuts", "Anchors", "Spring Plungers", "Captive Pins",
	"Screw Nails", "Nails", "Anchor Toggles", "Rivets", "Antislip Fluid",
	"Tapping Screw Installation Tools", "Hanger Bolt Driver Bits",
	"Anchor Installation Tools", "Magnets", "Setup Studs", "T-Slot Bolts",
	"Drill Bushing Lock Screws",
}

// SkipList is an ordered set of names backed by a JSON file. It is not safe
// for concurrent use; the crawl is sequential.
type SkipList struct {
	path    string
	entries []string
	index   map[string]struct{}
}

// Load reads the skip list from path. A missing file seeds the default
// entries and writes them out.
func Load(path string) (*SkipList, error) {
	sl := &SkipList{path: path, index: make(map[string]struct{})}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &sl.entries); err != nil {
			return nil, fmt.Errorf("failed to parse skip list %s: %w", path, err)
		}
	case os.IsNotExist(err):
		sl.entries = append(sl.entries, defaultEntries...)
		if err := sl.Save(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("failed to read skip list %s: %w", path, err)
	}

	for _, e := range sl.entries {
		sl.index[e] = struct{}{}
	}
	return sl, nil
}

func (sl *SkipList) Contains(name string) bool {
	_, ok := sl.index[name]
	return ok
}

// Add appends the name and persists immediately, so a crash never repeats
// finished work. Adding an existing name is a no-op.
func (sl *SkipList) Add(name string) error {
	if sl.Contains(name) {
		return nil
	}
	sl.entries = append(sl.entries, name)
	sl.index[name] = struct{}{}
	return sl.Save()
}

func (sl *SkipList) Len() int {
	return len(sl.entries)
}

// Save writes the list back to its file, creating the directory if needed.
func (sl *SkipList) Save() error {
	if err := os.MkdirAll(filepath.Dir(sl.path), 0755); err != nil {
		return fmt.Errorf("failed to create skip list directory: %w", err)
	}
	data, err := json.MarshalIndent(sl.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal skip list: %w", err)
	}
	if err := os.WriteFile(sl.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write skip list %s: %w", sl.path, err)
	}
	return nil
}
