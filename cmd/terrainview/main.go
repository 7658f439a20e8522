//go:build ebiten

package main

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"erosim/internal/app"
	"erosim/internal/core"
	_ "erosim/internal/sims/erosion"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(pflag.CommandLine)
	pflag.Parse()

	factory, ok := core.Sims()[cfg.Sim]
	if !ok {
		logrus.Fatalf("unknown sim %q, have %v", cfg.Sim, core.Names())
	}
	overrides, err := cfg.Overrides()
	if err != nil {
		logrus.Fatal(err)
	}

	sim := factory(overrides)
	sim.Reset(cfg.Seed)

	game := app.New(sim, cfg)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("erosim: " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logrus.Fatal(err)
	}
}
