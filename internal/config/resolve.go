package config

import (
	"os"
	"strconv"
	"strings"
)

// DefaultProfileName is used when neither an override nor the store's
// active pointer selects a profile.
const DefaultProfileName = "default"

// DefaultURL is the BRAIN API server used when no tier sets url.
const DefaultURL = "https://api.brainhub.dev"

// EnvProfileVar selects the profile when --profile is not given. It is
// the profile-selection tier, not a per-setting value.
const EnvProfileVar = "BRAINCTL_PROFILE"

// envVars maps setting keys to the environment variables that override
// them. Adding a recognized setting means adding it here, to the Profile
// fields, and to the resolve switch below.
var envVars = map[string]string{
	KeyAccessKey:   "BRAINCTL_ACCESSKEY",
	KeyUsername:    "BRAINCTL_USERNAME",
	KeyWorkspaceID: "BRAINCTL_WORKSPACE_ID",
	KeyTenantID:    "BRAINCTL_TENANT_ID",
	KeyURL:         "BRAINCTL_URL",
	KeyGatewayURL:  "BRAINCTL_GATEWAY_URL",
	KeyProxy:       "BRAINCTL_PROXY",
	KeyUseColor:    "BRAINCTL_USE_COLOR",
}

// requiredKeys have no built-in default. When unresolved they are listed
// in Settings.Missing; commands decide whether that is fatal.
var requiredKeys = []string{KeyAccessKey, KeyUsername, KeyWorkspaceID}

// Source identifies which precedence tier supplied a resolved value.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceProfile Source = "profile"
	SourceDefault Source = "default"
	SourceUnset   Source = ""
)

// Settings is the effective, read-only configuration for one invocation.
// It is derived fresh by Resolve and never persisted.
type Settings struct {
	Profile string

	AccessKey   string
	Username    string
	WorkspaceID string
	TenantID    string
	URL         string
	GatewayURL  string
	Proxy       string
	UseColor    bool

	// Missing lists required settings that no tier defined.
	Missing []string
	// Sources records, per setting key, the tier each value came from.
	Sources map[string]Source
}

// EnvSettings reads the per-setting environment overrides into a map
// keyed by setting name. Resolve takes the map rather than reading the
// process environment itself so it stays a pure function.
func EnvSettings() map[string]string {
	env := make(map[string]string)
	for key, name := range envVars {
		if v := os.Getenv(name); v != "" {
			env[key] = v
		}
	}
	return env
}

// Resolve produces the effective settings for one invocation.
//
// The profile is profileOverride when given, else the store's active
// profile, else DefaultProfileName. A name with no store entry resolves
// as an empty profile so first-time configuration can proceed. Both maps
// are keyed by setting name; flags should contain only flags the user
// actually set.
func (s *Store) Resolve(profileOverride string, flags, env map[string]string) *Settings {
	name := profileOverride
	if name == "" {
		name = s.active
	}
	if name == "" {
		name = DefaultProfileName
	}

	prof := s.profiles[name]
	if prof == nil {
		prof = &Profile{}
	}

	out := &Settings{Profile: name, Sources: make(map[string]Source)}

	set := func(key string, dst *string, stored, fallback string) {
		v, src := pick(flags[key], env[key], stored, fallback)
		*dst = v
		out.Sources[key] = src
	}

	set(KeyAccessKey, &out.AccessKey, prof.AccessKey, "")
	set(KeyUsername, &out.Username, prof.Username, "")
	set(KeyWorkspaceID, &out.WorkspaceID, prof.WorkspaceID, "")
	set(KeyTenantID, &out.TenantID, prof.TenantID, "")
	set(KeyProxy, &out.Proxy, prof.Proxy, "")
	set(KeyURL, &out.URL, prof.URL, DefaultURL)
	out.URL = normalizeURL(out.URL)

	set(KeyGatewayURL, &out.GatewayURL, prof.GatewayURL, "")
	if out.GatewayURL == "" {
		out.GatewayURL = gatewayFromURL(out.URL)
		out.Sources[KeyGatewayURL] = SourceDefault
	}

	storedColor := ""
	if prof.UseColor != nil {
		storedColor = strconv.FormatBool(*prof.UseColor)
	}
	out.UseColor, out.Sources[KeyUseColor] = pickBool(flags[KeyUseColor], env[KeyUseColor], storedColor, true)

	for _, key := range requiredKeys {
		if out.Sources[key] == SourceUnset {
			out.Missing = append(out.Missing, key)
		}
	}
	return out
}

// pick returns the highest-priority value among the four precedence
// tiers. It is pure; callers pass every tier explicitly.
func pick(flag, env, stored, fallback string) (string, Source) {
	switch {
	case flag != "":
		return flag, SourceFlag
	case env != "":
		return env, SourceEnv
	case stored != "":
		return stored, SourceProfile
	case fallback != "":
		return fallback, SourceDefault
	}
	return "", SourceUnset
}

// pickBool is pick for boolean settings. A tier holding a value that does
// not parse as a bool is treated as unset and falls through.
func pickBool(flag, env, stored string, fallback bool) (bool, Source) {
	if flag != "" {
		if v, err := strconv.ParseBool(flag); err == nil {
			return v, SourceFlag
		}
	}
	if env != "" {
		if v, err := strconv.ParseBool(env); err == nil {
			return v, SourceEnv
		}
	}
	if stored != "" {
		if v, err := strconv.ParseBool(stored); err == nil {
			return v, SourceProfile
		}
	}
	return fallback, SourceDefault
}

// normalizeURL assumes https when the user left the scheme off.
func normalizeURL(u string) string {
	if u == "" || strings.Contains(u, "://") {
		return u
	}
	return "https://" + u
}

// gatewayFromURL derives the websocket gateway from the API URL.
func gatewayFromURL(u string) string {
	switch {
	case strings.HasPrefix(u, "https://"):
		return "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		return "ws://" + strings.TrimPrefix(u, "http://")
	}
	return ""
}
