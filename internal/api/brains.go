package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// BrainInfo is one entry in the user's brain list.
type BrainInfo struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

// BrainStatus is the training status of one brain.
type BrainStatus struct {
	Name      string  `json:"name"`
	State     string  `json:"state"`
	Episode   int     `json:"episode"`
	Iteration int     `json:"iteration"`
	Score     float64 `json:"score"`
}

// Simulator describes one simulator connected to a brain.
type Simulator struct {
	Instances int    `json:"instances"`
	State     string `json:"state"`
}

// TrainingInfo is returned by the training control endpoints.
type TrainingInfo struct {
	State               string `json:"state"`
	SimulatorConnectURL string `json:"simulator_connect_url,omitempty"`
}

func (c *Client) userPath(parts ...string) string {
	p := "/v1/" + url.PathEscape(c.username)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

// Validate checks the access key and returns the username it belongs to.
// It is the only call that does not require a configured username.
func (c *Client) Validate(ctx context.Context) (string, error) {
	body, _, err := c.do(ctx, http.MethodPost, "/v1/validate", nil, "", "")
	if err != nil {
		return "", err
	}
	var resp struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parsing validate response: %w", err)
	}
	if resp.Username == "" {
		return "", fmt.Errorf("server did not return a username for the access key")
	}
	return resp.Username, nil
}

// ListBrains returns the brains owned by the current user.
func (c *Client) ListBrains(ctx context.Context) ([]BrainInfo, error) {
	body, _, err := c.do(ctx, http.MethodGet, c.userPath(), nil, "", "")
	if err != nil {
		return nil, err
	}
	var resp struct {
		Brains []BrainInfo `json:"brains"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing brain list: %w", err)
	}
	return resp.Brains, nil
}

// CreateBrain creates a brain, optionally seeding it with project files.
func (c *Client) CreateBrain(ctx context.Context, name string, proj *ProjectPayload) (*BrainInfo, error) {
	var payload []byte
	var contentType string
	var err error

	if proj != nil {
		payload, contentType, err = encodeProjectPayload(projectMeta{Name: name, Project: proj.Manifest}, proj.Files)
		if err != nil {
			return nil, err
		}
	} else {
		payload, err = json.Marshal(map[string]string{"name": name})
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		contentType = "application/json"
	}

	body, _, err := c.do(ctx, http.MethodPost, c.userPath("brains"), payload, contentType, "")
	if err != nil {
		return nil, err
	}
	var info BrainInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("parsing create response: %w", err)
	}
	return &info, nil
}

// DeleteBrain removes a brain and all its versions.
func (c *Client) DeleteBrain(ctx context.Context, name string) error {
	_, _, err := c.do(ctx, http.MethodDelete, c.userPath(name), nil, "", "")
	return err
}

// EditBrain pushes the project files to an existing brain, creating a new
// brain version. Returns the file names the server accepted.
func (c *Client) EditBrain(ctx context.Context, name string, proj *ProjectPayload) ([]string, error) {
	payload, contentType, err := encodeProjectPayload(projectMeta{Name: name, Project: proj.Manifest}, proj.Files)
	if err != nil {
		return nil, err
	}
	body, _, err := c.do(ctx, http.MethodPut, c.userPath(name), payload, contentType, "")
	if err != nil {
		return nil, err
	}
	var resp struct {
		Files []string `json:"files"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing push response: %w", err)
	}
	return resp.Files, nil
}

// GetBrainFiles downloads the brain's project files as a name -> contents
// map (a multipart/mixed response).
func (c *Client) GetBrainFiles(ctx context.Context, name string) (map[string][]byte, error) {
	body, header, err := c.do(ctx, http.MethodGet, c.userPath(name), nil, "", "multipart/mixed")
	if err != nil {
		return nil, err
	}
	return decodeFilesPayload(header.Get("Content-Type"), body)
}

// GetBrainStatus returns the training status of a brain.
func (c *Client) GetBrainStatus(ctx context.Context, name string) (*BrainStatus, error) {
	body, _, err := c.do(ctx, http.MethodGet, c.userPath(name, "status"), nil, "", "")
	if err != nil {
		return nil, err
	}
	var status BrainStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("parsing status response: %w", err)
	}
	if status.Name == "" {
		status.Name = name
	}
	return &status, nil
}

// StartTraining begins training on a brain.
func (c *Client) StartTraining(ctx context.Context, name string) (*TrainingInfo, error) {
	return c.trainingControl(ctx, c.userPath(name, "train"))
}

// StopTraining stops training on a brain.
func (c *Client) StopTraining(ctx context.Context, name string) (*TrainingInfo, error) {
	return c.trainingControl(ctx, c.userPath(name, "stop"))
}

// ResumeTraining resumes training on the latest brain version.
func (c *Client) ResumeTraining(ctx context.Context, name string) (*TrainingInfo, error) {
	return c.trainingControl(ctx, c.userPath(name, "resume"))
}

func (c *Client) trainingControl(ctx context.Context, path string) (*TrainingInfo, error) {
	body, _, err := c.do(ctx, http.MethodPut, path, nil, "", "")
	if err != nil {
		return nil, err
	}
	var info TrainingInfo
	if len(body) > 0 {
		if err := json.Unmarshal(body, &info); err != nil {
			return nil, fmt.Errorf("parsing training response: %w", err)
		}
	}
	return &info, nil
}

// ListSimulators returns the simulators connected to a brain, keyed by
// simulator name.
func (c *Client) ListSimulators(ctx context.Context, name string) (map[string]Simulator, error) {
	body, _, err := c.do(ctx, http.MethodGet, c.userPath(name, "sims"), nil, "", "")
	if err != nil {
		return nil, err
	}
	sims := make(map[string]Simulator)
	if err := json.Unmarshal(body, &sims); err != nil {
		return nil, fmt.Errorf("parsing simulator list: %w", err)
	}
	return sims, nil
}

// GetSimulatorLogs fetches a snapshot of a simulator's log lines.
func (c *Client) GetSimulatorLogs(ctx context.Context, name string, version int, sim string) ([]string, error) {
	path := fmt.Sprintf("%s/%d/sims/%s/logs", c.userPath(name), version, url.PathEscape(sim))
	body, _, err := c.do(ctx, http.MethodGet, path, nil, "", "")
	if err != nil {
		return nil, err
	}
	var resp struct {
		Logs []string `json:"logs"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing logs response: %w", err)
	}
	return resp.Logs, nil
}
