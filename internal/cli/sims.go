package cli

import (
	"github.com/spf13/cobra"
)

var simsCmd = &cobra.Command{
	Use:   "sims",
	Short: "Inspect simulators connected to a brain",
}

var simsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a brain's simulators",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, s, err := resolveSettings()
		if err != nil {
			return fail(err)
		}
		client, err := newClient(s)
		if err != nil {
			return fail(err)
		}
		brain, err := resolveBrainName(flagBrain, projectDir())
		if err != nil {
			return fail(err)
		}
		sims, err := client.ListSimulators(cmd.Context(), brain)
		if err != nil {
			return fail(err)
		}
		return writeDoc(s, simsView(sims))
	},
}

func init() {
	simsListCmd.Flags().StringVar(&flagBrain, "brain", "", "Brain to inspect (default: the project directory's default brain)")
	simsListCmd.Flags().StringVar(&flagProject, "project", "", "Project directory")
	simsCmd.AddCommand(simsListCmd)
}
