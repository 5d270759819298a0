package cmd

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mensylisir/procdriver/pkg/driver"
)

var createOpts struct {
	name       string
	env        []string
	links      []string
	ports      []string
	volumes    []string
	expose     []int
	privileged bool
	detach     bool
	hostname   string
	extra      []string
	noSpin     bool
}

func init() {
	f := createCmd.Flags()
	f.SetInterspersed(false)
	f.StringVar(&createOpts.name, "name", "", "Container name (default: procdriver-<random>)")
	f.StringArrayVarP(&createOpts.env, "env", "e", nil, "Environment variable KEY=VALUE (repeatable)")
	f.StringArrayVar(&createOpts.links, "link", nil, "Link to another container as ALIAS:TARGET (repeatable)")
	f.StringArrayVarP(&createOpts.ports, "publish", "p", nil, "Port mapping passed verbatim, e.g. 8080:80 (repeatable)")
	f.StringArrayVar(&createOpts.volumes, "volume", nil, "Volume mapping passed verbatim (repeatable)")
	f.IntSliceVar(&createOpts.expose, "expose", nil, "Port to expose (repeatable)")
	f.BoolVar(&createOpts.privileged, "privileged", false, "Run the container privileged")
	f.BoolVarP(&createOpts.detach, "detach", "d", true, "Run the container in the background")
	f.StringVar(&createOpts.hostname, "hostname", "", "Container hostname")
	f.StringArrayVar(&createOpts.extra, "raw-arg", nil, "Extra raw argument inserted before the image (repeatable)")
	f.BoolVar(&createOpts.noSpin, "no-progress", false, "Do not show progress")
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create [flags] IMAGE [COMMAND...]",
	Short: "Create and run a container",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := specFromFlags(args)
		if err != nil {
			return err
		}
		if err := spec.Validate(); err != nil {
			return err
		}
		d, err := newDriver(cmd.Context())
		if err != nil {
			return err
		}

		opts := &driver.CreateOptions{}
		if !createOpts.noSpin {
			bar, onLine := newSpinner("Creating " + spec.Name)
			defer bar.Finish()
			opts.OnOutputLine = onLine
		}
		id, err := d.Create(cmd.Context(), spec, opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

func specFromFlags(args []string) (*driver.ContainerSpec, error) {
	env, err := splitPairs(createOpts.env, "=")
	if err != nil {
		return nil, errors.Wrap(err, "--env")
	}
	links, err := splitPairs(createOpts.links, ":")
	if err != nil {
		return nil, errors.Wrap(err, "--link")
	}
	name := createOpts.name
	if name == "" {
		name = generatedName()
	}
	return &driver.ContainerSpec{
		Image:      args[0],
		Name:       name,
		Links:      links,
		Ports:      createOpts.ports,
		Volumes:    createOpts.volumes,
		Cmd:        args[1:],
		Env:        env,
		Expose:     createOpts.expose,
		Privileged: createOpts.privileged,
		Detach:     createOpts.detach,
		Hostname:   createOpts.hostname,
		ExtraArgs:  createOpts.extra,
	}, nil
}

// splitPairs turns "k<sep>v" items into a map. The first sep splits.
func splitPairs(items []string, sep string) (map[string]string, error) {
	if len(items) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(items))
	for _, item := range items {
		k, v, ok := strings.Cut(item, sep)
		if !ok || k == "" {
			return nil, errors.Errorf("%q is not in KEY%sVALUE form", item, sep)
		}
		out[k] = v
	}
	return out, nil
}

func generatedName() string {
	return "procdriver-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
