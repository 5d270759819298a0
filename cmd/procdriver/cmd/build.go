package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mensylisir/procdriver/pkg/driver"
)

var buildOpts struct {
	tag    string
	extra  []string
	noSpin bool
}

func init() {
	buildCmd.Flags().StringVarP(&buildOpts.tag, "tag", "t", "", "Tag the built image")
	buildCmd.Flags().StringArrayVar(&buildOpts.extra, "build-arg-raw", nil, "Extra raw argument passed to the runtime build (repeatable)")
	buildCmd.Flags().BoolVar(&buildOpts.noSpin, "no-progress", false, "Do not show build progress")
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build DIR",
	Short: "Build an image from a build context directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDriver(cmd.Context())
		if err != nil {
			return err
		}
		opts := &driver.BuildOptions{Tag: buildOpts.tag, ExtraArgs: buildOpts.extra}
		if !buildOpts.noSpin {
			bar, onLine := newSpinner("Building " + args[0])
			defer bar.Finish()
			opts.OnOutputLine = onLine
		}
		id, err := d.Build(cmd.Context(), args[0], opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}
