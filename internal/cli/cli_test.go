package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/brainctl/brainctl/internal/api"
	"github.com/brainctl/brainctl/internal/config"
)

// resetFlags resets the global flag variables to their zero values.
func resetFlags() {
	flagProfile = ""
	flagAccessKey = ""
	flagUsername = ""
	flagWorkspaceID = ""
	flagTenantID = ""
	flagURL = ""
	flagGatewayURL = ""
	flagProxy = ""
	flagNoColor = false
	flagOutput = "table"
	flagTimeout = 30 * time.Second
	flagBrain = ""
	flagProject = ""
	flagPullAll = false
}

// --- settingsOverrides tests ---

func TestSettingsOverrides_NoFlags(t *testing.T) {
	resetFlags()
	m := settingsOverrides()
	if len(m) != 0 {
		t.Errorf("settingsOverrides() with no flags = %v, want empty map", m)
	}
}

func TestSettingsOverrides_AllFlags(t *testing.T) {
	resetFlags()
	defer resetFlags()

	flagAccessKey = "key"
	flagUsername = "user"
	flagWorkspaceID = "ws"
	flagTenantID = "tenant"
	flagURL = "https://example.test"
	flagGatewayURL = "wss://example.test"
	flagProxy = "http://proxy:3128"
	flagNoColor = true

	want := map[string]string{
		config.KeyAccessKey:   "key",
		config.KeyUsername:    "user",
		config.KeyWorkspaceID: "ws",
		config.KeyTenantID:    "tenant",
		config.KeyURL:         "https://example.test",
		config.KeyGatewayURL:  "wss://example.test",
		config.KeyProxy:       "http://proxy:3128",
		config.KeyUseColor:    "false",
	}
	got := settingsOverrides()
	if len(got) != len(want) {
		t.Fatalf("settingsOverrides() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("settingsOverrides()[%q] = %q, want %q", k, got[k], v)
		}
	}
}

// --- profileOverride tests ---

func TestProfileOverride_FlagWinsOverEnv(t *testing.T) {
	resetFlags()
	defer resetFlags()
	t.Setenv(config.EnvProfileVar, "from-env")

	flagProfile = "from-flag"
	if got := profileOverride(); got != "from-flag" {
		t.Errorf("profileOverride() = %q, want %q", got, "from-flag")
	}

	flagProfile = ""
	if got := profileOverride(); got != "from-env" {
		t.Errorf("profileOverride() = %q, want %q", got, "from-env")
	}
}

// --- exit code mapping tests ---

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"auth error", &api.AuthError{Message: "bad key"}, ExitAuthError},
		{"missing credentials", &credsError{missing: []string{"accesskey"}}, ExitAuthError},
		{"server error", &api.ServerError{Status: 500, Message: "boom"}, ExitAPIError},
		{"wrapped server error", errors.Join(errors.New("outer"), &api.ServerError{Status: 502}), ExitAPIError},
		{"plain error", errors.New("something"), ExitRuntimeError},
		{"config corrupt", &config.CorruptError{Path: "/tmp/x"}, ExitRuntimeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestNewClient_MissingSettings(t *testing.T) {
	resetFlags()
	s := &config.Settings{Missing: []string{"accesskey", "username"}}
	_, err := newClient(s)
	if err == nil {
		t.Fatal("newClient() with missing settings returned nil error")
	}
	var creds *credsError
	if !errors.As(err, &creds) {
		t.Fatalf("newClient() error = %T, want *credsError", err)
	}
	if !strings.Contains(err.Error(), "accesskey") {
		t.Errorf("error %q does not name the missing setting", err)
	}
}

// --- brain name resolution tests ---

func TestResolveBrainName_ExplicitWins(t *testing.T) {
	got, err := resolveBrainName("explicit", t.TempDir())
	if err != nil {
		t.Fatalf("resolveBrainName() error: %v", err)
	}
	if got != "explicit" {
		t.Errorf("resolveBrainName() = %q, want %q", got, "explicit")
	}
}

func TestResolveBrainName_DotBrainsDefault(t *testing.T) {
	dir := t.TempDir()
	content := `{"brains": [{"name": "alpha", "default": false}, {"name": "beta", "default": true}]}`
	if err := os.WriteFile(filepath.Join(dir, ".brains"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := resolveBrainName("", dir)
	if err != nil {
		t.Fatalf("resolveBrainName() error: %v", err)
	}
	if got != "beta" {
		t.Errorf("resolveBrainName() = %q, want %q", got, "beta")
	}
}

func TestResolveBrainName_NoDefault(t *testing.T) {
	if _, err := resolveBrainName("", t.TempDir()); err == nil {
		t.Fatal("resolveBrainName() with no flag and no .brains returned nil error")
	}
}

// --- document projection tests ---

func TestProfileListTable(t *testing.T) {
	doc := profileList{Profiles: []profileRow{
		{Name: "default", URL: "https://a.test", Active: false},
		{Name: "staging", URL: "https://b.test", Active: true},
	}}

	header, rows := doc.Table()
	if len(header) != 3 || header[0] != "NAME" {
		t.Fatalf("header = %v", header)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %v", rows)
	}
	if rows[0][2] != "" || rows[1][2] != "*" {
		t.Errorf("active markers = %q, %q; want \"\", \"*\"", rows[0][2], rows[1][2])
	}
}

func TestSettingsView_MasksAccessKey(t *testing.T) {
	s := &config.Settings{
		Profile:   "default",
		AccessKey: "0123456789abcdef",
		URL:       "https://a.test",
		Sources: map[string]config.Source{
			config.KeyAccessKey: config.SourceProfile,
		},
	}
	doc := settingsView(s)
	for _, row := range doc.Settings {
		if row.Key == config.KeyAccessKey {
			if strings.Contains(row.Value, "0123456789ab") {
				t.Errorf("access key not masked: %q", row.Value)
			}
			if !strings.HasSuffix(row.Value, "cdef") {
				t.Errorf("masked key %q should keep the tail for identification", row.Value)
			}
			return
		}
	}
	t.Fatal("settingsView() has no accesskey row")
}

func TestSimsView_StableOrder(t *testing.T) {
	doc := simsView(map[string]api.Simulator{
		"walker": {Instances: 2, State: "running"},
		"cart":   {Instances: 1, State: "idle"},
	})
	if len(doc.Simulators) != 2 {
		t.Fatalf("simulators = %v", doc.Simulators)
	}
	if doc.Simulators[0].Name != "cart" || doc.Simulators[1].Name != "walker" {
		t.Errorf("order = %q, %q; want sorted by name", doc.Simulators[0].Name, doc.Simulators[1].Name)
	}
}

// --- writeFiles tests ---

func TestWriteFiles_SkipsExistingWithoutOverwrite(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "keep.ink")
	if err := os.WriteFile(existing, []byte("local edits"), 0o644); err != nil {
		t.Fatal(err)
	}

	files := map[string][]byte{
		"keep.ink": []byte("server copy"),
		"new.ink":  []byte("fresh"),
	}
	written, skipped, err := writeFiles(dir, files, false)
	if err != nil {
		t.Fatalf("writeFiles() error: %v", err)
	}
	if written != 1 || skipped != 1 {
		t.Errorf("written = %d, skipped = %d; want 1, 1", written, skipped)
	}

	data, err := os.ReadFile(existing)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "local edits" {
		t.Errorf("existing file overwritten without --all: %q", data)
	}
}

func TestWriteFiles_OverwriteAndSubdirs(t *testing.T) {
	dir := t.TempDir()
	files := map[string][]byte{
		"sub/dir/model.ink": []byte("nested"),
		"top.ink":           []byte("flat"),
	}
	written, skipped, err := writeFiles(dir, files, true)
	if err != nil {
		t.Fatalf("writeFiles() error: %v", err)
	}
	if written != 2 || skipped != 0 {
		t.Errorf("written = %d, skipped = %d; want 2, 0", written, skipped)
	}

	data, err := os.ReadFile(filepath.Join(dir, "sub", "dir", "model.ink"))
	if err != nil {
		t.Fatalf("nested file not written: %v", err)
	}
	if string(data) != "nested" {
		t.Errorf("nested file = %q, want %q", data, "nested")
	}
}

func TestWriteFiles_RejectsEscapingNames(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "proj")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		file string
	}{
		{"parent traversal", "../evil.txt"},
		{"nested traversal", "sub/../../evil.txt"},
		{"absolute path", "/tmp/evil.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := map[string][]byte{
				tt.file:    []byte("payload"),
				"safe.ink": []byte("fine"),
			}
			if _, _, err := writeFiles(dir, files, true); err == nil {
				t.Fatalf("writeFiles() accepted server name %q", tt.file)
			}
			if _, err := os.Stat(filepath.Join(parent, "evil.txt")); err == nil {
				t.Fatalf("file name %q was written outside the destination directory", tt.file)
			}
		})
	}
}
