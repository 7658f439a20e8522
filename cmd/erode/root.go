package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	billy "gopkg.in/src-d/go-billy.v4"

	"erosim/internal/app"
	"erosim/internal/sims/erosion"
)

// configFlags are shared by every subcommand that builds a world.
type configFlags struct {
	path string
	set  []string
}

func (f *configFlags) bind(fs *pflag.FlagSet) {
	fs.StringVarP(&f.path, "config", "c", "", "TOML config file, defaults apply when empty")
	fs.StringArrayVar(&f.set, "set", nil, "parameter override as key=value, repeatable")
}

// load decodes the config file from fsys, then applies the overrides.
func (f *configFlags) load(fsys billy.Filesystem) (erosion.Config, error) {
	cfg := erosion.DefaultConfig()
	if f.path != "" {
		file, err := fsys.Open(f.path)
		if err != nil {
			return cfg, err
		}
		cfg, err = erosion.DecodeConfig(file)
		err = multierr.Append(err, file.Close())
		if err != nil {
			return cfg, err
		}
	}
	overrides, err := app.ParseOverrides(f.set)
	if err != nil {
		return cfg, err
	}
	cfg.Apply(overrides)
	return cfg, cfg.Validate()
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "erode",
		Short:         "Erode procedurally generated terrain",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logrus.SetOutput(cmd.ErrOrStderr())
			logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every pass")
	root.SetOut(os.Stdout)
	root.AddCommand(newRunCmd(), newSweepCmd(), newParamsCmd())
	return root
}
