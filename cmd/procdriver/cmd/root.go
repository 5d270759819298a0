package cmd

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mensylisir/procdriver/pkg/config"
	"github.com/mensylisir/procdriver/pkg/connector"
	"github.com/mensylisir/procdriver/pkg/driver"
	"github.com/mensylisir/procdriver/pkg/logger"
)

var (
	verboseFlag bool
	cfgFile     string

	cfg  *config.Config
	conn connector.Connector
	drv  *driver.Driver
)

var rootCmd = &cobra.Command{
	Use:   "procdriver",
	Short: "procdriver drives a container runtime CLI on a local or remote host.",
	Long: `procdriver runs container runtime commands (docker by default) through a
local or SSH executor and reports the parsed results.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return err
			}
		} else {
			cfg = config.Default()
		}
		l, err := logger.NewLoggerWithWriter(cfg.LoggerOptions(verboseFlag), cmd.ErrOrStderr())
		if err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		logger.ReplaceGlobal(l)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if drv != nil {
			drv.Close()
			drv = nil
		}
		if conn != nil {
			_ = conn.Close()
			conn = nil
		}
		_ = logger.SyncGlobal()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to the procdriver YAML configuration")
}

// newDriver connects the configured executor and returns a driver bound to it.
// The runtime version is checked when runtime.minVersion is set.
func newDriver(ctx context.Context) (*driver.Driver, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	c, err := connector.New(ctx, cfg.Executor.Type, cfg.ConnectionCfg())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to set up %s executor", cfg.Executor.Type)
	}
	conn = c
	logger.Get().With("target", c.Target()).Debugf("executor ready")

	d := driver.New(c, cfg.DriverOptions())
	drv = d
	if cfg.Runtime.MinVersion != "" {
		if err := d.CheckRuntimeVersion(ctx, cfg.Runtime.MinVersion); err != nil {
			return nil, err
		}
	}
	return d, nil
}
