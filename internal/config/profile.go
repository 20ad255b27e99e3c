package config

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Setting keys as written in the store file and accepted by profile
// updates. These are the key names historical config files use, so
// existing files keep parsing.
const (
	KeyAccessKey   = "accesskey"
	KeyUsername    = "username"
	KeyWorkspaceID = "workspace_id"
	KeyTenantID    = "tenant_id"
	KeyURL         = "url"
	KeyGatewayURL  = "gateway_url"
	KeyProxy       = "proxy"
	KeyUseColor    = "use_color"
)

// Profile is a named bundle of connection settings. All fields are
// optional; unset fields fall through to lower precedence tiers during
// Resolve. Names are case-sensitive and compared exactly.
type Profile struct {
	AccessKey   string
	Username    string
	WorkspaceID string
	TenantID    string
	URL         string
	GatewayURL  string
	Proxy       string
	UseColor    *bool

	// Extra holds fields this CLI version does not recognize, kept
	// verbatim so settings written by a newer CLI survive a round trip.
	Extra map[string]json.RawMessage
}

// UnmarshalJSON decodes the known keys and stashes everything else in
// Extra untouched.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	str := func(key string, dst *string) error {
		v, ok := raw[key]
		if !ok {
			return nil
		}
		delete(raw, key)
		return json.Unmarshal(v, dst)
	}

	if err := str(KeyAccessKey, &p.AccessKey); err != nil {
		return fmt.Errorf("field %s: %w", KeyAccessKey, err)
	}
	if err := str(KeyUsername, &p.Username); err != nil {
		return fmt.Errorf("field %s: %w", KeyUsername, err)
	}
	if err := str(KeyWorkspaceID, &p.WorkspaceID); err != nil {
		return fmt.Errorf("field %s: %w", KeyWorkspaceID, err)
	}
	if err := str(KeyTenantID, &p.TenantID); err != nil {
		return fmt.Errorf("field %s: %w", KeyTenantID, err)
	}
	if err := str(KeyURL, &p.URL); err != nil {
		return fmt.Errorf("field %s: %w", KeyURL, err)
	}
	if err := str(KeyGatewayURL, &p.GatewayURL); err != nil {
		return fmt.Errorf("field %s: %w", KeyGatewayURL, err)
	}
	if err := str(KeyProxy, &p.Proxy); err != nil {
		return fmt.Errorf("field %s: %w", KeyProxy, err)
	}

	if v, ok := raw[KeyUseColor]; ok {
		delete(raw, KeyUseColor)
		var b bool
		if err := json.Unmarshal(v, &b); err != nil {
			return fmt.Errorf("field %s: %w", KeyUseColor, err)
		}
		p.UseColor = &b
	}

	if len(raw) > 0 {
		p.Extra = raw
	}
	return nil
}

// MarshalJSON emits the set known fields plus any preserved Extra fields.
func (p *Profile) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+8)
	for k, v := range p.Extra {
		out[k] = v
	}
	if p.AccessKey != "" {
		out[KeyAccessKey] = p.AccessKey
	}
	if p.Username != "" {
		out[KeyUsername] = p.Username
	}
	if p.WorkspaceID != "" {
		out[KeyWorkspaceID] = p.WorkspaceID
	}
	if p.TenantID != "" {
		out[KeyTenantID] = p.TenantID
	}
	if p.URL != "" {
		out[KeyURL] = p.URL
	}
	if p.GatewayURL != "" {
		out[KeyGatewayURL] = p.GatewayURL
	}
	if p.Proxy != "" {
		out[KeyProxy] = p.Proxy
	}
	if p.UseColor != nil {
		out[KeyUseColor] = *p.UseColor
	}
	return json.Marshal(out)
}

func (p *Profile) clone() *Profile {
	c := *p
	if p.UseColor != nil {
		b := *p.UseColor
		c.UseColor = &b
	}
	if p.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(p.Extra))
		for k, v := range p.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}

// apply merges the given fields into the profile. Fields not present in
// the map are left untouched. Unrecognized keys are kept in Extra rather
// than rejected, matching what older store files allowed.
func (p *Profile) apply(fields map[string]string) error {
	for key, value := range fields {
		switch key {
		case KeyAccessKey:
			p.AccessKey = value
		case KeyUsername:
			p.Username = value
		case KeyWorkspaceID:
			p.WorkspaceID = value
		case KeyTenantID:
			p.TenantID = value
		case KeyURL:
			p.URL = value
		case KeyGatewayURL:
			p.GatewayURL = value
		case KeyProxy:
			p.Proxy = value
		case KeyUseColor:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("%s must be true or false: %w", KeyUseColor, err)
			}
			p.UseColor = &b
		default:
			raw, err := json.Marshal(value)
			if err != nil {
				return fmt.Errorf("field %s: %w", key, err)
			}
			if p.Extra == nil {
				p.Extra = make(map[string]json.RawMessage)
			}
			p.Extra[key] = raw
		}
	}
	return nil
}
