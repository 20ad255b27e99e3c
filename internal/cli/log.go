package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/brainctl/brainctl/internal/logs"
)

var (
	flagLogVersion int
	flagLogSim     string
	flagLogFollow  bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Print simulator logs",
	Long:  "Fetch a snapshot of a simulator's logs, or stream them live with --follow until interrupted or the server closes the stream.",
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

		if flagLogFollow {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			streamURL := client.LogStreamURL(brain, flagLogVersion, flagLogSim)
			err := logs.Follow(ctx, streamURL, s.AccessKey, s.Proxy, os.Stdout)
			if err != nil && !errors.Is(err, context.Canceled) {
				return fail(err)
			}
			return nil
		}

		lines, err := client.GetSimulatorLogs(cmd.Context(), brain, flagLogVersion, flagLogSim)
		if err != nil {
			return fail(err)
		}
		for _, line := range lines {
			fmt.Fprintln(os.Stdout, line)
		}
		return nil
	},
}

func init() {
	logCmd.Flags().StringVar(&flagBrain, "brain", "", "Brain to read logs from (default: the project directory's default brain)")
	logCmd.Flags().StringVar(&flagProject, "project", "", "Project directory")
	logCmd.Flags().IntVar(&flagLogVersion, "version", 1, "Brain version to read logs from")
	logCmd.Flags().StringVar(&flagLogSim, "sim", "1", "Simulator to read logs from")
	logCmd.Flags().BoolVar(&flagLogFollow, "follow", false, "Stream logs live over the gateway websocket")
}
