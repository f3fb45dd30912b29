package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"jobshell/internal/jobs"
)

// suspendHelperCmd is the child process started by the suspend builtin.
var suspendHelperCmd = &cobra.Command{
	Use:          "suspend-helper PID DURATION",
	Short:        "Stop a process, wait, then resume it",
	Hidden:       true,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, err := strconv.Atoi(args[0])
		if err != nil || pid <= 0 {
			return fmt.Errorf("invalid pid %q", args[0])
		}
		d, err := time.ParseDuration(args[1])
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return jobs.Suspend(ctx, pid, d, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(suspendHelperCmd)
}
