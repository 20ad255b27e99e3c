package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brainctl/brainctl/internal/api"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Control and inspect training",
}

// trainTarget resolves the client and brain a train subcommand
// operates on.
func trainTarget() (*api.Client, string, error) {
	_, s, err := resolveSettings()
	if err != nil {
		return nil, "", err
	}
	client, err := newClient(s)
	if err != nil {
		return nil, "", err
	}
	brain, err := resolveBrainName(flagBrain, projectDir())
	if err != nil {
		return nil, "", err
	}
	return client, brain, nil
}

var trainStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start training a brain",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, brain, err := trainTarget()
		if err != nil {
			return fail(err)
		}
		info, err := client.StartTraining(cmd.Context(), brain)
		if err != nil {
			return fail(err)
		}
		fmt.Fprintf(os.Stdout, "Training started on brain %q (state: %s)\n", brain, info.State)
		if info.SimulatorConnectURL != "" {
			fmt.Fprintf(os.Stdout, "Connect simulators to %s\n", info.SimulatorConnectURL)
		}
		return nil
	},
}

var trainStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop training a brain",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, brain, err := trainTarget()
		if err != nil {
			return fail(err)
		}
		info, err := client.StopTraining(cmd.Context(), brain)
		if err != nil {
			return fail(err)
		}
		fmt.Fprintf(os.Stdout, "Training stopped on brain %q (state: %s)\n", brain, info.State)
		return nil
	},
}

var trainResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume training the latest brain version",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, brain, err := trainTarget()
		if err != nil {
			return fail(err)
		}
		info, err := client.ResumeTraining(cmd.Context(), brain)
		if err != nil {
			return fail(err)
		}
		fmt.Fprintf(os.Stdout, "Training resumed on brain %q (state: %s)\n", brain, info.State)
		return nil
	},
}

var trainStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show a brain's training status",
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
		status, err := client.GetBrainStatus(cmd.Context(), brain)
		if err != nil {
			return fail(err)
		}
		return writeDoc(s, statusDoc{BrainStatus: *status})
	},
}

func init() {
	for _, cmd := range []*cobra.Command{trainStartCmd, trainStopCmd, trainResumeCmd, trainStatusCmd} {
		cmd.Flags().StringVar(&flagBrain, "brain", "", "Brain to operate on (default: the project directory's default brain)")
		cmd.Flags().StringVar(&flagProject, "project", "", "Project directory")
		trainCmd.AddCommand(cmd)
	}
}
