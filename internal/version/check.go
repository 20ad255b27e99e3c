package version

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultIndexURL is the release index queried by "version --check" and
// "diagnose".
const DefaultIndexURL = "https://releases.brainhub.dev/brainctl/latest.json"

const checkTimeout = 10 * time.Second

// CheckLatest fetches the release index and reports the newest published
// release and whether it is newer than this build. It is only called by
// explicit user request, never on the normal command path.
func CheckLatest(ctx context.Context, indexURL string) (latest string, newer bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, indexURL, nil)
	if err != nil {
		return "", false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "brainctl/"+Version)

	client := &http.Client{Timeout: checkTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("fetching release index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("release index returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("reading release index: %w", err)
	}
	var doc struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", false, fmt.Errorf("parsing release index: %w", err)
	}
	if doc.Version == "" {
		return "", false, fmt.Errorf("release index has no version field")
	}
	return doc.Version, isNewer(doc.Version, Version), nil
}

// isNewer reports whether candidate is a later release than current.
// Versions compare segment by segment; numeric segments compare as
// numbers, anything else as strings.
func isNewer(candidate, current string) bool {
	a := strings.Split(strings.TrimPrefix(candidate, "v"), ".")
	b := strings.Split(strings.TrimPrefix(current, "v"), ".")

	for i := 0; i < len(a) || i < len(b); i++ {
		var as, bs string
		if i < len(a) {
			as = a[i]
		}
		if i < len(b) {
			bs = b[i]
		}
		if as == bs {
			continue
		}

		an, aerr := strconv.Atoi(as)
		bn, berr := strconv.Atoi(bs)
		if aerr == nil && berr == nil {
			return an > bn
		}
		return as > bs
	}
	return false
}
