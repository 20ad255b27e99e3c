package version

// Version is the brainctl release, overridable at build time with
// -ldflags "-X github.com/brainctl/brainctl/internal/version.Version=...".
var Version = "0.3.0"
