package cmd

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/mensylisir/procdriver/pkg/driver"
	"github.com/mensylisir/procdriver/pkg/logger"
)

var inspectFormat string

func init() {
	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", "", "Print only this field, as a path like HostConfig.Privileged")
	rootCmd.AddCommand(stateCmd, psCmd, startCmd, stopCmd, rmCmd, inspectCmd)
}

var stateCmd = &cobra.Command{
	Use:   "state ID",
	Short: "Print whether a container is running, stopped or not created",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDriver(cmd.Context())
		if err != nil {
			return err
		}
		s, err := d.State(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), colorState(s))
		return nil
	},
}

var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "List all containers with their state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDriver(cmd.Context())
		if err != nil {
			return err
		}
		all, err := d.AllContainers(cmd.Context())
		if err != nil {
			return err
		}
		running, err := d.RunningContainers(cmd.Context())
		if err != nil {
			return err
		}
		if len(all) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No containers found.")
			return nil
		}

		up := make(map[string]bool, len(running))
		for _, id := range running {
			up[id] = true
		}
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"CONTAINER ID", "STATE"})
		table.SetBorder(false)
		for _, id := range all {
			state := driver.Stopped
			if up[id] {
				state = driver.Running
			}
			table.Append([]string{id, colorState(state)})
		}
		table.Render()
		return nil
	},
}

var startCmd = &cobra.Command{
	Use:   "start ID",
	Short: "Start a container unless it is already running",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDriver(cmd.Context())
		if err != nil {
			return err
		}
		return d.Start(cmd.Context(), args[0])
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop ID",
	Short: "Stop a running container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDriver(cmd.Context())
		if err != nil {
			return err
		}
		return d.Stop(cmd.Context(), args[0])
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Remove a container and its anonymous volumes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDriver(cmd.Context())
		if err != nil {
			return err
		}
		return d.Remove(cmd.Context(), args[0])
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect ID",
	Short: "Print the inspection record of a container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDriver(cmd.Context())
		if err != nil {
			return err
		}
		rec, err := d.Inspect(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if inspectFormat == "" {
			fmt.Fprintln(cmd.OutOrStdout(), string(rec.Raw()))
			return nil
		}
		v := rec.Get(inspectFormat)
		if !v.Exists() {
			logger.Warn("field %s not present in inspection record", inspectFormat)
		}
		fmt.Fprintln(cmd.OutOrStdout(), v.String())
		return nil
	},
}
