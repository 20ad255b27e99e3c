package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DotBrainsName is the per-directory registry of brains a project has
// been attached to.
const DotBrainsName = ".brains"

// BrainRef is one entry in a .brains registry.
type BrainRef struct {
	Name    string `json:"name"`
	Default bool   `json:"default"`
}

// DotBrains is the parsed .brains file for one directory. A missing file
// reads as an empty registry; mutations write the file back.
type DotBrains struct {
	dir    string
	Brains []*BrainRef
}

type dotBrainsDoc struct {
	Brains []*BrainRef `json:"brains"`
}

// LoadDotBrains reads the registry from dir. A missing file is an empty
// registry; an unparseable file is an error so a hand-damaged registry is
// never silently replaced.
func LoadDotBrains(dir string) (*DotBrains, error) {
	d := &DotBrains{dir: dir}
	data, err := os.ReadFile(d.path())
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return nil, fmt.Errorf("reading %s: %w", d.path(), err)
	}
	var doc dotBrainsDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", d.path(), err)
	}
	d.Brains = doc.Brains
	return d, nil
}

func (d *DotBrains) path() string {
	return filepath.Join(d.dir, DotBrainsName)
}

// Find returns the entry for a brain name, if any.
func (d *DotBrains) Find(name string) *BrainRef {
	for _, b := range d.Brains {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// Default returns the entry marked default, if any.
func (d *DotBrains) Default() *BrainRef {
	for _, b := range d.Brains {
		if b.Default {
			return b
		}
	}
	return nil
}

// Add registers a brain and makes it the directory's default.
func (d *DotBrains) Add(name string) error {
	if ref := d.Find(name); ref != nil {
		return d.SetDefault(name)
	}
	d.Brains = append(d.Brains, &BrainRef{Name: name})
	return d.SetDefault(name)
}

// SetDefault marks the named brain as the directory's default.
func (d *DotBrains) SetDefault(name string) error {
	ref := d.Find(name)
	if ref == nil {
		return fmt.Errorf("brain %q is not registered in %s", name, d.path())
	}
	for _, b := range d.Brains {
		b.Default = false
	}
	ref.Default = true
	return d.save()
}

func (d *DotBrains) save() error {
	data, err := json.MarshalIndent(dotBrainsDoc{Brains: d.Brains}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", DotBrainsName, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(d.path(), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", d.path(), err)
	}
	return nil
}
