package main

import (
	"fmt"
	"image/png"
	"io"
	"path"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	billy "gopkg.in/src-d/go-billy.v4"
	"gopkg.in/src-d/go-billy.v4/osfs"

	"erosim/internal/render"
	"erosim/internal/sims/erosion"
	"erosim/pkg/core"
)

type runOptions struct {
	iterations int
	every      int
	out        string
	image      bool
}

func newRunCmd() *cobra.Command {
	var (
		flags configFlags
		opts  runOptions
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Erode one terrain and dump the map after each iteration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(osfs.New("."))
			if err != nil {
				return err
			}
			var out billy.Filesystem
			if opts.out != "" {
				out = osfs.New(opts.out)
			}
			return run(cmd.OutOrStdout(), out, cfg, opts)
		},
	}
	flags.bind(cmd.Flags())
	cmd.Flags().IntVarP(&opts.iterations, "iterations", "n", 10, "number of steps to run")
	cmd.Flags().IntVar(&opts.every, "every", 1, "dump every n-th iteration")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "directory for map dumps, empty skips dumping")
	cmd.Flags().BoolVar(&opts.image, "png", false, "also write a height map image per dump")
	return cmd
}

// run steps a world built from cfg and writes dumps into out when it is set.
// Iteration zero is the freshly generated terrain.
func run(w io.Writer, out billy.Filesystem, cfg erosion.Config, opts runOptions) error {
	world, err := erosion.NewWithConfig(cfg)
	if err != nil {
		return err
	}
	every := max(1, opts.every)

	dump := func() error {
		if out == nil || world.Iteration()%every != 0 {
			return nil
		}
		return writeDump(out, world, opts.image)
	}
	if err := dump(); err != nil {
		return err
	}
	for i := 0; i < opts.iterations; i++ {
		world.Step()
		for _, st := range world.LastStats() {
			logrus.WithFields(logrus.Fields{
				"iteration": world.Iteration(),
				"pass":      st.Pass,
				"eroded":    st.Eroded,
				"deposited": st.Deposited,
			}).Debug("pass done")
		}
		if err := dump(); err != nil {
			return err
		}
	}

	height := world.Map().GenerateField()
	_, err = fmt.Fprintf(w, "seed %d: %d iterations, height [%.4g, %.4g], total %.6g\n",
		world.Seed(), world.Iteration(), height.Min(), height.Max(), height.Sum())
	return err
}

func dumpDir(iteration int) string { return fmt.Sprintf("iteration-%03d", iteration) }

// writeDump stores the map, and optionally a height image, under the
// directory of the current iteration.
func writeDump(fsys billy.Filesystem, world *erosion.World, withImage bool) error {
	dir := dumpDir(world.Iteration())
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := writeFile(fsys, path.Join(dir, "map.txt"), func(f io.Writer) error {
		return core.WriteMap(f, world.Map())
	}); err != nil {
		return err
	}
	if !withImage {
		return nil
	}
	view := world.View()
	world.SetView(erosion.ViewHeight)
	defer world.SetView(view)
	size := world.Size()
	img := render.Image(size.W, size.H, world.Cells(), world.Palette())
	return writeFile(fsys, path.Join(dir, "height.png"), func(f io.Writer) error {
		return png.Encode(f, img)
	})
}

func writeFile(fsys billy.Filesystem, name string, fill func(io.Writer) error) (err error) {
	f, err := fsys.Create(name)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	return fill(f)
}
