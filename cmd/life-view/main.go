//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"hashlife/internal/app"
	"hashlife/pkg/life"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if cfg.StepLog > life.MaxStepLog {
		log.Fatalf("step exponent %d out of range (max %d)", cfg.StepLog, life.MaxStepLog)
	}

	build := func() (*life.Universe, error) {
		var (
			u   *life.Universe
			err error
		)
		if cfg.Pattern == "" {
			u = life.New()
		} else if u, err = life.LoadFile(cfg.Pattern); err != nil {
			return nil, err
		}
		if err := u.SetStepLog2(uint8(cfg.StepLog)); err != nil {
			return nil, err
		}
		return u, nil
	}

	game, err := app.New(build, cfg)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowTitle("life-view")
	ebiten.SetWindowSize(cfg.W*cfg.Scale, cfg.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
