package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPick(t *testing.T) {
	tests := []struct {
		name                     string
		flag, env, stored, deflt string
		want                     string
		wantSrc                  Source
	}{
		{"flag wins", "C", "B", "A", "D", "C", SourceFlag},
		{"env beats stored", "", "B", "A", "D", "B", SourceEnv},
		{"stored beats default", "", "", "A", "D", "A", SourceProfile},
		{"default last", "", "", "", "D", "D", SourceDefault},
		{"nothing", "", "", "", "", "", SourceUnset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, src := pick(tt.flag, tt.env, tt.stored, tt.deflt)
			if got != tt.want || src != tt.wantSrc {
				t.Errorf("pick(%q, %q, %q, %q) = (%q, %q), want (%q, %q)",
					tt.flag, tt.env, tt.stored, tt.deflt, got, src, tt.want, tt.wantSrc)
			}
		})
	}
}

func TestPickBool(t *testing.T) {
	tests := []struct {
		name              string
		flag, env, stored string
		fallback          bool
		want              bool
		wantSrc           Source
	}{
		{"flag wins", "false", "true", "true", true, false, SourceFlag},
		{"env next", "", "false", "true", true, false, SourceEnv},
		{"stored next", "", "", "false", true, false, SourceProfile},
		{"fallback", "", "", "", true, true, SourceDefault},
		{"unparseable env falls through", "", "maybe", "false", true, false, SourceProfile},
		{"unparseable everywhere", "nope", "maybe", "dunno", true, true, SourceDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, src := pickBool(tt.flag, tt.env, tt.stored, tt.fallback)
			if got != tt.want || src != tt.wantSrc {
				t.Errorf("pickBool(%q, %q, %q, %v) = (%v, %q), want (%v, %q)",
					tt.flag, tt.env, tt.stored, tt.fallback, got, src, tt.want, tt.wantSrc)
			}
		})
	}
}

func TestResolve_Precedence(t *testing.T) {
	s := tempStore(t)
	if err := s.SetProfile("p", map[string]string{KeyURL: "https://a"}); err != nil {
		t.Fatal(err)
	}

	flags := map[string]string{KeyURL: "https://c"}
	env := map[string]string{KeyURL: "https://b"}

	if got := s.Resolve("p", flags, env); got.URL != "https://c" {
		t.Errorf("URL with flag = %q, want %q", got.URL, "https://c")
	}
	if got := s.Resolve("p", nil, env); got.URL != "https://b" {
		t.Errorf("URL with env = %q, want %q", got.URL, "https://b")
	}
	if got := s.Resolve("p", nil, nil); got.URL != "https://a" {
		t.Errorf("URL from profile = %q, want %q", got.URL, "https://a")
	}

	if err := s.DeleteProfile("p"); err != nil {
		t.Fatal(err)
	}
	got := s.Resolve("p", nil, nil)
	if got.URL != DefaultURL {
		t.Errorf("URL with all tiers empty = %q, want built-in default %q", got.URL, DefaultURL)
	}
	if got.Sources[KeyURL] != SourceDefault {
		t.Errorf("URL source = %q, want %q", got.Sources[KeyURL], SourceDefault)
	}
}

func TestResolve_ProfileSelection(t *testing.T) {
	s := tempStore(t)
	if err := s.SetProfile("active-one", map[string]string{KeyUsername: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Activate("active-one"); err != nil {
		t.Fatal(err)
	}

	if got := s.Resolve("", nil, nil); got.Profile != "active-one" {
		t.Errorf("Profile = %q, want active profile", got.Profile)
	}
	if got := s.Resolve("other", nil, nil); got.Profile != "other" {
		t.Errorf("Profile = %q, want override to win over active", got.Profile)
	}
}

func TestResolve_UnknownProfile(t *testing.T) {
	s := tempStore(t)
	got := s.Resolve("never-created", nil, nil)
	if got.Profile != "never-created" {
		t.Errorf("Profile = %q, want %q", got.Profile, "never-created")
	}
	// An unknown profile resolves as empty, not as an error, so that
	// first-time configuration can proceed.
	if got.URL != DefaultURL {
		t.Errorf("URL = %q, want default", got.URL)
	}
	want := map[string]bool{KeyAccessKey: true, KeyUsername: true, KeyWorkspaceID: true}
	if len(got.Missing) != len(want) {
		t.Fatalf("Missing = %v, want the three required settings", got.Missing)
	}
	for _, key := range got.Missing {
		if !want[key] {
			t.Errorf("unexpected missing key %q", key)
		}
	}
}

func TestResolve_MissingShrinksAsTiersFill(t *testing.T) {
	s := tempStore(t)
	if err := s.SetProfile("p", map[string]string{KeyAccessKey: "k"}); err != nil {
		t.Fatal(err)
	}

	got := s.Resolve("p", map[string]string{KeyUsername: "u"}, map[string]string{KeyWorkspaceID: "w"})
	if len(got.Missing) != 0 {
		t.Errorf("Missing = %v, want none", got.Missing)
	}
	if got.Sources[KeyAccessKey] != SourceProfile {
		t.Errorf("accesskey source = %q, want profile", got.Sources[KeyAccessKey])
	}
	if got.Sources[KeyUsername] != SourceFlag {
		t.Errorf("username source = %q, want flag", got.Sources[KeyUsername])
	}
	if got.Sources[KeyWorkspaceID] != SourceEnv {
		t.Errorf("workspace_id source = %q, want env", got.Sources[KeyWorkspaceID])
	}
}

func TestResolve_URLSchemeFixup(t *testing.T) {
	s := tempStore(t)
	if err := s.SetProfile("p", map[string]string{KeyURL: "api.example.com"}); err != nil {
		t.Fatal(err)
	}
	got := s.Resolve("p", nil, nil)
	if got.URL != "https://api.example.com" {
		t.Errorf("URL = %q, want https scheme assumed", got.URL)
	}
	if got.GatewayURL != "wss://api.example.com" {
		t.Errorf("GatewayURL = %q, want derived wss URL", got.GatewayURL)
	}
}

func TestResolve_GatewayDerivation(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]string
		wantGW  string
		wantSrc Source
	}{
		{
			"derived from http",
			map[string]string{KeyURL: "http://localhost:8080"},
			"ws://localhost:8080", SourceDefault,
		},
		{
			"explicit gateway not overridden",
			map[string]string{KeyURL: "https://api.example.com", KeyGatewayURL: "wss://gw.example.com"},
			"wss://gw.example.com", SourceProfile,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tempStore(t)
			if err := s.SetProfile("p", tt.fields); err != nil {
				t.Fatal(err)
			}
			got := s.Resolve("p", nil, nil)
			if got.GatewayURL != tt.wantGW {
				t.Errorf("GatewayURL = %q, want %q", got.GatewayURL, tt.wantGW)
			}
			if got.Sources[KeyGatewayURL] != tt.wantSrc {
				t.Errorf("gateway source = %q, want %q", got.Sources[KeyGatewayURL], tt.wantSrc)
			}
		})
	}
}

func TestResolve_UseColor(t *testing.T) {
	s := tempStore(t)
	if err := s.SetProfile("p", map[string]string{KeyUseColor: "false"}); err != nil {
		t.Fatal(err)
	}

	if got := s.Resolve("p", nil, nil); got.UseColor {
		t.Error("UseColor = true, want stored false")
	}
	env := map[string]string{KeyUseColor: "true"}
	if got := s.Resolve("p", nil, env); !got.UseColor {
		t.Error("UseColor = false, want env true to win over profile")
	}
	flags := map[string]string{KeyUseColor: "false"}
	if got := s.Resolve("p", flags, env); got.UseColor {
		t.Error("UseColor = true, want flag false to win over env")
	}
}

func TestEnvSettings(t *testing.T) {
	for key, name := range envVars {
		orig, had := os.LookupEnv(name)
		os.Unsetenv(name)
		defer func(name, orig string, had bool) {
			if had {
				os.Setenv(name, orig)
			} else {
				os.Unsetenv(name)
			}
		}(name, orig, had)
		_ = key
	}

	os.Setenv("BRAINCTL_URL", "https://env.example.com")
	os.Setenv("BRAINCTL_ACCESSKEY", "env-key")

	env := EnvSettings()
	if env[KeyURL] != "https://env.example.com" {
		t.Errorf("env[url] = %q, want %q", env[KeyURL], "https://env.example.com")
	}
	if env[KeyAccessKey] != "env-key" {
		t.Errorf("env[accesskey] = %q, want %q", env[KeyAccessKey], "env-key")
	}
	if _, ok := env[KeyUsername]; ok {
		t.Error("unset variable should not appear in env map")
	}
}

func TestResolve_DoesNotTouchStore(t *testing.T) {
	s := tempStore(t)
	if err := s.SetProfile("p", map[string]string{KeyURL: "https://a"}); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}

	_ = s.Resolve("p", map[string]string{KeyURL: "https://flag"}, nil)

	after, err := os.ReadFile(filepath.Clean(s.Path()))
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("Resolve modified the persisted store")
	}
}
