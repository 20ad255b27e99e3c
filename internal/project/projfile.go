package project

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultManifestName is the manifest file looked up when a command is
// given a project directory instead of a file.
const DefaultManifestName = "brain.bproj"

// MaxFileSize is the server's per-file upload cap.
const MaxFileSize = 640 * 1024

// TooLargeError reports a project file over the upload cap.
type TooLargeError struct {
	Path string
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("file %s exceeds the %d KB upload limit", e.Path, MaxFileSize/1024)
}

// Training holds the manifest's training section.
type Training struct {
	Simulator string `json:"simulator,omitempty"`
	Command   string `json:"command,omitempty"`
}

// Manifest is a parsed brain.bproj file. Files holds glob patterns
// relative to the manifest's directory; ** recursion is supported.
type Manifest struct {
	path string

	Files    []string
	Training Training

	// Extra keeps manifest keys this CLI version does not recognize.
	Extra map[string]json.RawMessage
}

type manifestDoc struct {
	Files    []string  `json:"files"`
	Training *Training `json:"training,omitempty"`
}

// UnmarshalJSON decodes the known keys and stashes everything else in
// Extra untouched.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["files"]; ok {
		delete(raw, "files")
		if err := json.Unmarshal(v, &m.Files); err != nil {
			return fmt.Errorf("field files: %w", err)
		}
	}
	if v, ok := raw["training"]; ok {
		delete(raw, "training")
		if err := json.Unmarshal(v, &m.Training); err != nil {
			return fmt.Errorf("field training: %w", err)
		}
	}
	if len(raw) > 0 {
		m.Extra = raw
	}
	return nil
}

// MarshalJSON emits the known fields plus any preserved Extra fields.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+2)
	for k, v := range m.Extra {
		out[k] = v
	}
	out["files"] = m.Files
	if m.Training != (Training{}) {
		out["training"] = m.Training
	}
	return json.Marshal(out)
}

// Load reads a manifest file.
func Load(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}
	m := &Manifest{path: abs}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parsing project file %s: %w", abs, err)
	}
	return m, nil
}

// LoadDir reads the default manifest from a project directory.
func LoadDir(dir string) (*Manifest, error) {
	return Load(filepath.Join(dir, DefaultManifestName))
}

// FromFileOrDir loads a manifest given either its path or a directory
// containing one.
func FromFileOrDir(path string) (*Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return Load(path)
}

// New creates an in-memory manifest rooted at dir with the stock file
// patterns. Save persists it.
func New(dir string) (*Manifest, error) {
	abs, err := filepath.Abs(filepath.Join(dir, DefaultManifestName))
	if err != nil {
		return nil, err
	}
	return &Manifest{path: abs, Files: []string{"*.ink"}}, nil
}

// Path returns the manifest's file path.
func (m *Manifest) Path() string { return m.path }

// Dir returns the project directory the manifest's patterns are
// relative to.
func (m *Manifest) Dir() string { return filepath.Dir(m.path) }

// Save writes the manifest back to its path.
func (m *Manifest) Save() error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling project file: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("writing project file: %w", err)
	}
	return nil
}

// Validate checks each pattern parses and stays inside the project
// directory.
func (m *Manifest) Validate() error {
	for _, pattern := range m.Files {
		if strings.Contains(pattern, "..") {
			return fmt.Errorf("pattern %q reaches outside the project directory", pattern)
		}
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid file pattern %q", pattern)
		}
	}
	return nil
}

// Collect expands the manifest's patterns into a deduplicated
// path -> contents map, paths relative to the project directory. The
// manifest itself is always included. A literal pattern that matches no
// file is an error; a glob that matches nothing is not.
func (m *Manifest) Collect() (map[string][]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	root := os.DirFS(m.Dir())
	matched := make(map[string]bool)
	for _, pattern := range m.Files {
		pattern = filepath.ToSlash(pattern)
		matches, err := doublestar.Glob(root, pattern)
		if err != nil {
			return nil, fmt.Errorf("expanding pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 && isLiteral(pattern) {
			return nil, fmt.Errorf("project file %q not found", pattern)
		}
		for _, match := range matches {
			matched[match] = true
		}
	}
	matched[filepath.Base(m.path)] = true

	names := make([]string, 0, len(matched))
	for name := range matched {
		names = append(names, name)
	}
	sort.Strings(names)

	files := make(map[string][]byte, len(names))
	for _, name := range names {
		info, err := fs.Stat(root, name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		if info.IsDir() {
			continue
		}
		if info.Size() > MaxFileSize {
			return nil, &TooLargeError{Path: name}
		}
		data, err := fs.ReadFile(root, name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		files[name] = data
	}
	return files, nil
}

func isLiteral(pattern string) bool {
	return !strings.ContainsAny(pattern, "*?[{")
}
