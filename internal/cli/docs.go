package cli

import (
	"fmt"
	"sort"

	"github.com/brainctl/brainctl/internal/api"
	"github.com/brainctl/brainctl/internal/config"
	"github.com/brainctl/brainctl/internal/output"
)

// Renderable command results. Each type pairs its JSON shape with the
// tabular projection output.TableWriter uses.

type profileRow struct {
	Name   string `json:"name"`
	URL    string `json:"url,omitempty"`
	Active bool   `json:"active"`
}

type profileList struct {
	Profiles []profileRow `json:"profiles"`
}

func (d profileList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(d.Profiles))
	for _, p := range d.Profiles {
		marker := ""
		if p.Active {
			marker = "*"
		}
		rows = append(rows, []string{p.Name, p.URL, marker})
	}
	return []string{"NAME", "URL", "ACTIVE"}, rows
}

type settingRow struct {
	Key    string        `json:"key"`
	Value  string        `json:"value,omitempty"`
	Source config.Source `json:"source,omitempty"`
}

type settingsDoc struct {
	Profile  string       `json:"profile"`
	Settings []settingRow `json:"settings"`
	Missing  []string     `json:"missing,omitempty"`
}

func (d settingsDoc) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(d.Settings))
	for _, s := range d.Settings {
		rows = append(rows, []string{s.Key, s.Value, string(s.Source)})
	}
	return []string{"SETTING", "VALUE", "SOURCE"}, rows
}

// settingsView projects effective settings into a document, masking the
// access key so a profile can be shown without exposing the secret.
func settingsView(s *config.Settings) settingsDoc {
	return settingsDoc{
		Profile: s.Profile,
		Settings: []settingRow{
			{Key: config.KeyAccessKey, Value: output.Mask(s.AccessKey), Source: s.Sources[config.KeyAccessKey]},
			{Key: config.KeyUsername, Value: s.Username, Source: s.Sources[config.KeyUsername]},
			{Key: config.KeyWorkspaceID, Value: s.WorkspaceID, Source: s.Sources[config.KeyWorkspaceID]},
			{Key: config.KeyTenantID, Value: s.TenantID, Source: s.Sources[config.KeyTenantID]},
			{Key: config.KeyURL, Value: s.URL, Source: s.Sources[config.KeyURL]},
			{Key: config.KeyGatewayURL, Value: s.GatewayURL, Source: s.Sources[config.KeyGatewayURL]},
			{Key: config.KeyProxy, Value: s.Proxy, Source: s.Sources[config.KeyProxy]},
			{Key: config.KeyUseColor, Value: fmt.Sprintf("%t", s.UseColor), Source: s.Sources[config.KeyUseColor]},
		},
		Missing: s.Missing,
	}
}

type brainList struct {
	Brains []api.BrainInfo `json:"brains"`
}

func (d brainList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(d.Brains))
	for _, b := range d.Brains {
		rows = append(rows, []string{b.Name, b.State})
	}
	return []string{"NAME", "STATE"}, rows
}

type statusDoc struct {
	api.BrainStatus
}

func (d statusDoc) Table() ([]string, [][]string) {
	return []string{"NAME", "STATE", "EPISODE", "ITERATION", "SCORE"},
		[][]string{{
			d.Name,
			d.State,
			fmt.Sprintf("%d", d.Episode),
			fmt.Sprintf("%d", d.Iteration),
			fmt.Sprintf("%g", d.Score),
		}}
}

type simRow struct {
	Name      string `json:"name"`
	Instances int    `json:"instances"`
	State     string `json:"state"`
}

type simList struct {
	Simulators []simRow `json:"simulators"`
}

func (d simList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(d.Simulators))
	for _, s := range d.Simulators {
		rows = append(rows, []string{s.Name, fmt.Sprintf("%d", s.Instances), s.State})
	}
	return []string{"NAME", "INSTANCES", "STATE"}, rows
}

// simsView sorts the server's simulator map into a stable document.
func simsView(sims map[string]api.Simulator) simList {
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	sort.Strings(names)

	doc := simList{Simulators: make([]simRow, 0, len(names))}
	for _, name := range names {
		doc.Simulators = append(doc.Simulators, simRow{
			Name:      name,
			Instances: sims[name].Instances,
			State:     sims[name].State,
		})
	}
	return doc
}
