package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
)

// Store holds every profile plus the active-profile pointer. It is loaded
// once per invocation and written back atomically after each mutation.
// Construct independent stores freely in tests; there is no process-wide
// singleton.
type Store struct {
	path     string
	profiles map[string]*Profile
	order    []string
	active   string
}

// storeFile is the persisted shape of the store.
type storeFile struct {
	Profiles map[string]*Profile `json:"profiles"`
	Active   string              `json:"active,omitempty"`
	Order    []string            `json:"profileOrder,omitempty"`
}

// DefaultDir returns the platform-appropriate config directory for brainctl.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "brainctl"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "brainctl"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "brainctl"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "brainctl"), nil
	default:
		return filepath.Join(home, ".config", "brainctl"), nil
	}
}

// DefaultPath returns the full path to the store file.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the store from path, or from DefaultPath when path is empty.
// A missing file yields an empty store and no error so first runs behave
// normally. A file that exists but does not parse yields a *CorruptError;
// the file is left exactly as it was.
func Load(path string) (*Store, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	s := &Store{path: path, profiles: make(map[string]*Profile)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var doc storeFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptError{Path: path, Err: err}
	}

	if doc.Profiles != nil {
		s.profiles = doc.Profiles
	}
	s.active = doc.Active
	s.order = reconcileOrder(doc.Order, s.profiles)
	return s, nil
}

// reconcileOrder drops ordered names that no longer exist and appends, in
// name order, any profiles the order list is missing (hand-edited files).
func reconcileOrder(order []string, profiles map[string]*Profile) []string {
	out := make([]string, 0, len(profiles))
	for _, name := range order {
		if _, ok := profiles[name]; ok && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	missing := make([]string, 0)
	for name := range profiles {
		if !slices.Contains(out, name) {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return append(out, missing...)
}

// Path returns the location of the store file.
func (s *Store) Path() string { return s.path }

// Profile returns a copy of the named profile, if present.
func (s *Store) Profile(name string) (*Profile, bool) {
	p, ok := s.profiles[name]
	if !ok {
		return nil, false
	}
	return p.clone(), true
}

// ListProfiles returns every profile name in first-creation order, plus
// the active profile name (empty when none is active).
func (s *Store) ListProfiles() (names []string, active string) {
	return slices.Clone(s.order), s.active
}

// SetProfile creates the named profile if absent, otherwise merges fields
// into the existing profile. Fields not given are untouched; an empty
// fields map leaves an existing profile exactly as it was. The store file
// is replaced atomically, or not at all.
func (s *Store) SetProfile(name string, fields map[string]string) error {
	if name == "" {
		return fmt.Errorf("profile name must not be empty")
	}

	merged := &Profile{}
	if cur, ok := s.profiles[name]; ok {
		merged = cur.clone()
	}
	if err := merged.apply(fields); err != nil {
		return err
	}

	next := s.snapshot()
	next.Profiles[name] = merged
	if !slices.Contains(next.Order, name) {
		next.Order = append(next.Order, name)
	}
	if err := s.persist(next); err != nil {
		return err
	}
	s.install(next)
	return nil
}

// Activate sets the active-profile pointer. The named profile must exist;
// the pointer is never allowed to dangle.
func (s *Store) Activate(name string) error {
	if _, ok := s.profiles[name]; !ok {
		return &NotFoundError{Name: name}
	}
	next := s.snapshot()
	next.Active = name
	if err := s.persist(next); err != nil {
		return err
	}
	s.install(next)
	return nil
}

// DeleteProfile removes the named profile. If it was active, the active
// pointer is cleared; no other profile is auto-selected, so resolution
// falls back to the default profile name.
func (s *Store) DeleteProfile(name string) error {
	if _, ok := s.profiles[name]; !ok {
		return &NotFoundError{Name: name}
	}
	next := s.snapshot()
	delete(next.Profiles, name)
	next.Order = slices.DeleteFunc(next.Order, func(n string) bool { return n == name })
	if next.Active == name {
		next.Active = ""
	}
	if err := s.persist(next); err != nil {
		return err
	}
	s.install(next)
	return nil
}

// snapshot copies the store state into a storeFile that mutations can
// stage against. Profiles being replaced must be cloned by the caller.
func (s *Store) snapshot() storeFile {
	doc := storeFile{
		Profiles: make(map[string]*Profile, len(s.profiles)),
		Active:   s.active,
		Order:    slices.Clone(s.order),
	}
	for name, p := range s.profiles {
		doc.Profiles[name] = p
	}
	return doc
}

func (s *Store) install(doc storeFile) {
	s.profiles = doc.Profiles
	s.active = doc.Active
	s.order = doc.Order
}

// persist writes doc to a temp file in the store's directory and renames
// it over the store path. The rename is the only step that changes what a
// concurrent Load observes, so an interrupted write never leaves a
// half-written store behind.
func (s *Store) persist(doc storeFile) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &PersistenceError{Path: s.path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &PersistenceError{Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}
	// The store holds access keys; keep it private to the user.
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}
	return nil
}
