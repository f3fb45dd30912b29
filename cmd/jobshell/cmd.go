package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"jobshell/internal/config"
	"jobshell/internal/logutil"
	"jobshell/internal/shell"
)

var (
	cfgPath string
	debug   bool
)

// rootCmd runs the interactive shell.
var rootCmd = &cobra.Command{
	Use:          "jobshell",
	Short:        "An interactive shell with job control",
	Long:         `Runs programs in the foreground or, with a trailing &, in the background, and tracks background jobs with the procs, kill and suspend builtins.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fs := afero.NewOsFs()

		cfg, err := config.Load(fs, cfgPath)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		if debug {
			cfg.Debug = true
		}

		logFile, err := logutil.SetOutputFile(fs, cfg.LogFile)
		if err != nil {
			return fmt.Errorf("error opening log: %w", err)
		}
		if logFile != nil {
			defer logFile.Close()
		}

		exe, err := os.Executable()
		if err != nil {
			return err
		}

		s, err := shell.New(cfg,
			shell.WithFs(fs),
			shell.WithIO(os.Stdin, cmd.OutOrStdout(), cmd.ErrOrStderr()),
			shell.WithSuspendHelper([]string{exe, suspendHelperCmd.Name()}),
		)
		if err != nil {
			return fmt.Errorf("error initializing shell: %w", err)
		}

		mediator := shell.NewSignalMediator(cmd.OutOrStdout())
		mediator.Install()
		defer mediator.Stop()

		return s.Run()
	},
}

func main() {
	cobra.CheckErr(rootCmd.ExecuteContext(context.Background()))
}

func init() {
	rootCmd.Flags().StringVar(&cfgPath, "config", "config.yml", "config file path")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "print the pid and name of every launched program to stderr")
}
