package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/src-d/go-billy.v4/osfs"

	"erosim/internal/sims/erosion"
)

type sweepOptions struct {
	seedStart int64
	count     int
	steps     int
	workers   int
	top       int
}

type sweepResult struct {
	seed      int64
	eroded    float64
	deposited float64
	relief    float64
	converged bool
	err       error
}

func (r sweepResult) String() string {
	return fmt.Sprintf("seed=%d eroded=%.4f deposited=%.4f relief=%.4f converged=%t",
		r.seed, r.eroded, r.deposited, r.relief, r.converged)
}

func newSweepCmd() *cobra.Command {
	var (
		flags configFlags
		opts  sweepOptions
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Erode many seeds in parallel and rank them by eroded volume",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(osfs.New("."))
			if err != nil {
				return err
			}
			return sweep(cmd.Context(), cmd.OutOrStdout(), cfg, opts)
		},
	}
	flags.bind(cmd.Flags())
	cmd.Flags().Int64Var(&opts.seedStart, "seed-start", 1, "first seed of the sweep")
	cmd.Flags().IntVar(&opts.count, "count", 16, "number of consecutive seeds")
	cmd.Flags().IntVar(&opts.steps, "steps", 5, "steps to run per seed")
	cmd.Flags().IntVar(&opts.workers, "workers", runtime.NumCPU(), "number of worker goroutines")
	cmd.Flags().IntVar(&opts.top, "top", 5, "number of ranked seeds to print")
	return cmd
}

func sweep(ctx context.Context, w io.Writer, base erosion.Config, opts sweepOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	workers := max(1, opts.workers)
	fmt.Fprintf(w, "Sweeping %d seeds (%d workers, %d steps)\n", opts.count, workers, opts.steps)

	jobs := make(chan int64)
	results := make(chan sweepResult)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seed := range jobs {
				results <- runSeed(base, seed, opts.steps)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		defer close(jobs)
		for i := 0; i < opts.count; i++ {
			select {
			case jobs <- opts.seedStart + int64(i):
			case <-ctx.Done():
				return
			}
		}
	}()

	start := time.Now()
	var all []sweepResult
	for res := range results {
		if res.err != nil {
			logrus.WithError(res.err).WithField("seed", res.seed).Warn("seed failed")
			continue
		}
		logrus.WithField("seed", res.seed).Debug(res.String())
		all = append(all, res)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].eroded != all[j].eroded {
			return all[i].eroded > all[j].eroded
		}
		return all[i].seed < all[j].seed
	})
	fmt.Fprintf(w, "Completed %d seeds in %s\n", len(all), time.Since(start).Round(time.Millisecond))

	top := min(len(all), max(0, opts.top))
	for i := 0; i < top; i++ {
		fmt.Fprintf(w, "%d. %s\n", i+1, all[i])
	}
	return nil
}

func runSeed(base erosion.Config, seed int64, steps int) sweepResult {
	cfg := base
	cfg.Seed = seed
	cfg.Passes = append([]erosion.Pass(nil), base.Passes...)
	res := sweepResult{seed: seed, converged: true}

	world, err := erosion.NewWithConfig(cfg)
	if err != nil {
		res.err = err
		return res
	}
	world.SetLogger(logrus.WithField("seed", seed))
	for i := 0; i < steps; i++ {
		world.Step()
		for _, st := range world.LastStats() {
			res.eroded += st.Eroded
			res.deposited += st.Deposited
			res.converged = res.converged && st.Converged
		}
	}
	height := world.Map().GenerateField().Values()
	res.relief = floats.Max(height) - floats.Min(height)
	return res
}
