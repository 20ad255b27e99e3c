package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brainctl/brainctl/internal/config"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage configuration profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles and show which one is active",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, s, err := resolveSettings()
		if err != nil {
			return fail(err)
		}

		names, active := store.ListProfiles()
		doc := profileList{Profiles: make([]profileRow, 0, len(names))}
		for _, name := range names {
			row := profileRow{Name: name, Active: name == active}
			if p, ok := store.Profile(name); ok {
				row.URL = p.URL
			}
			doc.Profiles = append(doc.Profiles, row)
		}
		return writeDoc(s, doc)
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show the effective settings for a profile",
	Long:  "Resolve and print the settings the given profile (default: the one this invocation would use) yields, with the precedence tier each value came from.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.Load("")
		if err != nil {
			return fail(err)
		}
		override := profileOverride()
		if len(args) == 1 {
			override = args[0]
		}
		s := store.Resolve(override, settingsOverrides(), config.EnvSettings())
		return writeDoc(s, settingsView(s))
	},
}

var flagSwitchURL string

var profileSwitchCmd = &cobra.Command{
	Use:   "switch <name>",
	Short: "Make a profile the active one",
	Long:  "Activate the named profile. An unknown name is an error unless --url is given, in which case the profile is created first.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		store, err := config.Load("")
		if err != nil {
			return fail(err)
		}

		_, exists := store.Profile(name)
		if !exists && flagSwitchURL == "" {
			return fail(fmt.Errorf("profile %q does not exist; pass --url to create it", name))
		}
		if flagSwitchURL != "" {
			if err := store.SetProfile(name, map[string]string{config.KeyURL: flagSwitchURL}); err != nil {
				return fail(err)
			}
		}
		if err := store.Activate(name); err != nil {
			return fail(err)
		}

		s := store.Resolve(name, nil, nil)
		fmt.Fprintf(os.Stdout, "Active profile is now %q (%s)\n", name, s.URL)
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		store, err := config.Load("")
		if err != nil {
			return fail(err)
		}
		_, active := store.ListProfiles()
		if err := store.DeleteProfile(name); err != nil {
			return fail(err)
		}
		fmt.Fprintf(os.Stdout, "Deleted profile %q\n", name)
		if active == name {
			fmt.Fprintf(os.Stdout, "No profile is active; commands will use %q until one is activated\n",
				config.DefaultProfileName)
		}
		return nil
	},
}

func init() {
	profileSwitchCmd.Flags().StringVar(&flagSwitchURL, "url", "", "API server URL for the profile (creates the profile when new)")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSwitchCmd)
	profileCmd.AddCommand(profileDeleteCmd)
}
