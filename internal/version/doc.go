// Package version holds the brainctl release string and the update
// self-check against the release index.
package version
