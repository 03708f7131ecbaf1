package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"hashlife/pkg/life"
	"hashlife/pkg/raster"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "life",
		Short:         "HashLife universe driver",
		Long:          "Load Life patterns, advance them by power-of-two generation counts and export the results.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(newInfoCmd(), newRunCmd(), newRenderCmd())
	return root
}

func newInfoCmd() *cobra.Command {
	var stats bool
	cmd := &cobra.Command{
		Use:   "info PATTERN",
		Short: "Print a pattern's population, extent and engine counters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := life.LoadFile(args[0])
			if err != nil {
				return err
			}
			printSummary(cmd, u)
			if stats {
				printStats(cmd, u)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&stats, "stats", false, "include arena and cache counters")
	return cmd
}

func newRunCmd() *cobra.Command {
	var (
		stepLog uint8
		steps   int
		out     string
		stats   bool
	)
	cmd := &cobra.Command{
		Use:   "run PATTERN",
		Short: "Advance a pattern and report or export the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := advance(args[0], stepLog, steps)
			if err != nil {
				return err
			}
			printSummary(cmd, u)
			if stats {
				printStats(cmd, u)
			}
			if out != "" {
				return export(u, out)
			}
			return nil
		},
	}
	cmd.Flags().Uint8VarP(&stepLog, "step-log", "k", 0, "step exponent: each step advances 2^k generations")
	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "number of steps to run")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the result as .rle or .mc")
	cmd.Flags().BoolVar(&stats, "stats", false, "include arena and cache counters")
	return cmd
}

func newRenderCmd() *cobra.Command {
	var (
		stepLog uint8
		steps   int
		out     string
		zoom    uint8
		pad     int64
	)
	cmd := &cobra.Command{
		Use:   "render PATTERN",
		Short: "Rasterize a pattern to PNG, optionally after advancing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := advance(args[0], stepLog, steps)
			if err != nil {
				return err
			}
			box, ok := u.BoundingBox()
			if !ok {
				return errors.New("nothing to render: universe is empty")
			}
			f, err := os.Create(out)
			if err != nil {
				return errors.Wrapf(err, "create %s", out)
			}
			defer f.Close()
			opts := raster.Options{Zoom: zoom, Pad: pad}
			if err := raster.WritePNG(f, u, box, opts); err != nil {
				return err
			}
			logrus.Debugf("rendered %s at zoom %d", out, zoom)
			return errors.Wrapf(f.Close(), "close %s", out)
		},
	}
	cmd.Flags().Uint8VarP(&stepLog, "step-log", "k", 0, "step exponent: each step advances 2^k generations")
	cmd.Flags().IntVarP(&steps, "steps", "n", 0, "number of steps to run before rendering")
	cmd.Flags().StringVarP(&out, "out", "o", "life.png", "output PNG path")
	cmd.Flags().Uint8VarP(&zoom, "zoom", "z", 0, "block exponent: one pixel per 2^z x 2^z cells")
	cmd.Flags().Int64Var(&pad, "pad", 2, "margin cells around the bounding box")
	return cmd
}

func advance(path string, stepLog uint8, steps int) (*life.Universe, error) {
	u, err := life.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := u.SetStepLog2(stepLog); err != nil {
		return nil, err
	}
	for i := 0; i < steps; i++ {
		if err := u.Step(); err != nil {
			return nil, err
		}
		logrus.Debugf("step %d/%d: generation %s, population %d", i+1, steps, u.Generation(), u.Population())
	}
	return u, nil
}

func export(u *life.Universe, out string) error {
	f, err := os.Create(out)
	if err != nil {
		return errors.Wrapf(err, "create %s", out)
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(out)) {
	case ".mc":
		err = u.WriteMacrocell(f)
	case ".rle":
		err = u.WriteRLE(f)
	default:
		return errors.Errorf("unknown output format %q, want .rle or .mc", filepath.Ext(out))
	}
	if err != nil {
		return err
	}
	return errors.Wrapf(f.Close(), "close %s", out)
}

func printSummary(cmd *cobra.Command, u *life.Universe) {
	fmt.Fprintf(cmd.OutOrStdout(), "generation: %s\n", u.Generation())
	fmt.Fprintf(cmd.OutOrStdout(), "population: %d\n", u.Population())
	if box, ok := u.BoundingBox(); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "bounds:     (%d, %d) .. (%d, %d)\n", box.XMin, box.YMin, box.XMax, box.YMax)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "bounds:     empty")
	}
}

func printStats(cmd *cobra.Command, u *life.Universe) {
	st := u.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "nodes:      %d (intern hits %d, misses %d)\n", st.Nodes, st.InternHits, st.InternMisses)
	fmt.Fprintf(cmd.OutOrStdout(), "cache:      %d entries (hits %d, misses %d)\n", st.CacheEntries, st.CacheHits, st.CacheMisses)
}
