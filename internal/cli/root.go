package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "posturectl",
		Short:        "Evaluate posture rules offline against recorded landmarks",
		SilenceUsage: true,
	}

	cmd.AddCommand(evaluateCmd(), thresholdsCmd())
	return cmd
}
