package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/brainctl/brainctl/internal/api"
	"github.com/brainctl/brainctl/internal/config"
	"github.com/brainctl/brainctl/internal/output"
	"github.com/brainctl/brainctl/internal/version"
)

// Exit codes returned by Run.
const (
	ExitSuccess      = 0
	ExitAPIError     = 1
	ExitUsageError   = 2
	ExitAuthError    = 3
	ExitRuntimeError = 4
)

// Global flags, resolved into settings via the precedence chain
// flag > environment > profile > default.
var (
	flagProfile     string
	flagAccessKey   string
	flagUsername    string
	flagWorkspaceID string
	flagTenantID    string
	flagURL         string
	flagGatewayURL  string
	flagProxy       string
	flagNoColor     bool
	flagOutput      string
	flagTimeout     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "brainctl",
	Short: "Command-line client for the BRAIN training service",
	Long:  "Brainctl manages configuration profiles and creates, pushes, trains, and monitors BRAINs on a remote training service.",
}

// Run executes the root command and returns an exit code.
func Run() int {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagProfile, "profile", "", "Configuration profile to use")
	pf.StringVar(&flagAccessKey, "accesskey", "", "Access key override")
	pf.StringVar(&flagUsername, "username", "", "Username override")
	pf.StringVar(&flagWorkspaceID, "workspace-id", "", "Workspace ID override")
	pf.StringVar(&flagTenantID, "tenant-id", "", "Tenant ID override")
	pf.StringVar(&flagURL, "url", "", "API server URL override")
	pf.StringVar(&flagGatewayURL, "gateway-url", "", "Websocket gateway URL override")
	pf.StringVar(&flagProxy, "proxy", "", "Proxy server for API requests")
	pf.BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	pf.StringVar(&flagOutput, "output", "table", "Output format (table, json, yaml)")
	pf.DurationVar(&flagTimeout, "timeout", 30*time.Second, "API request timeout")

	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(simsCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// fail prints the error and records its exit code. It returns nil so
// cobra does not append a usage message to runtime failures.
func fail(err error) error {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	exitCode = exitCodeFor(err)
	return nil
}

// exitCodeFor maps an error to the process exit code.
func exitCodeFor(err error) int {
	var srv *api.ServerError
	var creds *credsError
	switch {
	case api.IsAuth(err), errors.As(err, &creds):
		return ExitAuthError
	case errors.As(err, &srv):
		return ExitAPIError
	default:
		return ExitRuntimeError
	}
}

// credsError reports required settings that resolved to nothing.
type credsError struct {
	missing []string
}

func (e *credsError) Error() string {
	return fmt.Sprintf("missing required settings: %s (run \"brainctl configure\" or pass the matching flags)",
		strings.Join(e.missing, ", "))
}

// profileOverride returns the profile the user selected for this
// invocation, from the flag or from BRAINCTL_PROFILE.
func profileOverride() string {
	if flagProfile != "" {
		return flagProfile
	}
	return os.Getenv(config.EnvProfileVar)
}

// settingsOverrides collects the per-setting global flags the user set,
// keyed by setting name, for the flag tier of Resolve.
func settingsOverrides() map[string]string {
	m := make(map[string]string)
	if flagAccessKey != "" {
		m[config.KeyAccessKey] = flagAccessKey
	}
	if flagUsername != "" {
		m[config.KeyUsername] = flagUsername
	}
	if flagWorkspaceID != "" {
		m[config.KeyWorkspaceID] = flagWorkspaceID
	}
	if flagTenantID != "" {
		m[config.KeyTenantID] = flagTenantID
	}
	if flagURL != "" {
		m[config.KeyURL] = flagURL
	}
	if flagGatewayURL != "" {
		m[config.KeyGatewayURL] = flagGatewayURL
	}
	if flagProxy != "" {
		m[config.KeyProxy] = flagProxy
	}
	if flagNoColor {
		m[config.KeyUseColor] = "false"
	}
	return m
}

// resolveSettings loads the store and resolves effective settings for
// this invocation.
func resolveSettings() (*config.Store, *config.Settings, error) {
	store, err := config.Load("")
	if err != nil {
		return nil, nil, err
	}
	s := store.Resolve(profileOverride(), settingsOverrides(), config.EnvSettings())
	return store, s, nil
}

// newClient builds an API client, failing when the settings a client
// needs are unresolved.
func newClient(s *config.Settings) (*api.Client, error) {
	if len(s.Missing) > 0 {
		return nil, &credsError{missing: s.Missing}
	}
	return api.New(s, version.Version, flagTimeout)
}

// writeDoc renders a command result in the user's chosen format.
func writeDoc(s *config.Settings, doc output.Document) error {
	w, err := output.Get(flagOutput, s.UseColor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitUsageError
		return nil
	}
	return w.Write(os.Stdout, doc)
}
