package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rmiCmd, bridgeIPCmd, runtimeVersionCmd)
}

var rmiCmd = &cobra.Command{
	Use:   "rmi ID",
	Short: "Remove an image, leaving it in place if a container uses it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDriver(cmd.Context())
		if err != nil {
			return err
		}
		removed, err := d.RemoveImage(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if removed {
			fmt.Fprintln(cmd.OutOrStdout(), "removed")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("in use"))
		}
		return nil
	},
}

var bridgeIPCmd = &cobra.Command{
	Use:   "bridge-ip",
	Short: "Print the IPv4 address of the runtime bridge interface",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDriver(cmd.Context())
		if err != nil {
			return err
		}
		ip, err := d.BridgeNetworkAddress(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ip)
		return nil
	},
}

var runtimeVersionCmd = &cobra.Command{
	Use:   "runtime-version",
	Short: "Print the container runtime server version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDriver(cmd.Context())
		if err != nil {
			return err
		}
		v, err := d.RuntimeVersion(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v.String())
		return nil
	},
}
