package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"sort"
)

// ProjectPayload is a project manifest plus the file contents to upload.
type ProjectPayload struct {
	// Manifest is the project descriptor sent in the JSON part.
	Manifest any
	// Files maps project-relative paths to contents.
	Files map[string][]byte
}

// projectMeta is the JSON descriptor part of a create/push request.
type projectMeta struct {
	Name    string `json:"name"`
	Project any    `json:"project,omitempty"`
}

// encodeProjectPayload builds the multipart/mixed body for create and
// push: one "project" part holding the JSON descriptor, then one part per
// file carrying its project-relative path in a Content-Filename header.
func encodeProjectPayload(meta projectMeta, files map[string][]byte) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Type", "application/json")
	header.Set("Content-Disposition", `form-data; name="project"`)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("creating project part: %w", err)
	}
	if err := json.NewEncoder(part).Encode(meta); err != nil {
		return nil, "", fmt.Errorf("encoding project descriptor: %w", err)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", "application/octet-stream")
		header.Set("Content-Disposition", `form-data; name="file"`)
		header.Set("Content-Filename", name)
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("creating part for %s: %w", name, err)
		}
		if _, err := part.Write(files[name]); err != nil {
			return nil, "", fmt.Errorf("writing part for %s: %w", name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalizing payload: %w", err)
	}
	return buf.Bytes(), "multipart/mixed; boundary=" + w.Boundary(), nil
}

// decodeFilesPayload parses a multipart/mixed download into a
// path -> contents map, keyed by each part's Content-Filename header.
func decodeFilesPayload(contentType string, body []byte) (map[string][]byte, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("parsing response content type: %w", err)
	}
	if mediaType != "multipart/mixed" && mediaType != "multipart/form-data" {
		return nil, fmt.Errorf("unexpected response content type %s", mediaType)
	}

	files := make(map[string][]byte)
	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading multipart response: %w", err)
		}
		name := part.Header.Get("Content-Filename")
		if name == "" {
			name = part.FileName()
		}
		data, err := io.ReadAll(part)
		if err != nil {
			return nil, fmt.Errorf("reading part %s: %w", name, err)
		}
		if name != "" {
			files[name] = data
		}
	}
	return files, nil
}
