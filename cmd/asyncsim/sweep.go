package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"asyncsim/sweep"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	runs      = 10
	firstSeed = int64(0)
	parallel  = 0
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "run the simulation for a range of seeds and summarize the results",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("first-seed") {
			firstSeed = cfg.Seed
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		results, err := sweep.Run(ctx, cfg, sweep.Seeds(firstSeed, runs), parallel, l)
		if err != nil && ctx.Err() != nil {
			return err
		}
		if err != nil {
			l.Warnf("Some runs failed: %v", err)
		}
		return writeSummary(sweep.Summarize(results))
	},
}

func init() {
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&runs, "runs", runs, "number of simulations")
	sweepCmd.Flags().Int64Var(&firstSeed, "first-seed", firstSeed, "seed of the first simulation, defaults to --seed")
	sweepCmd.Flags().IntVar(&parallel, "parallel", parallel, "maximum number of concurrent simulations, 0 uses one per CPU")
	sweepCmd.Flags().BoolVar(&outputJSON, "json", false, "print the summary as JSON")
}

func writeSummary(s sweep.Summary) error {
	if outputJSON {
		bz, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(bz))
		return nil
	}
	p := message.NewPrinter(language.English)
	p.Printf("Runs:\t%d (%d failed)\n", s.Runs, s.Failed)
	for _, name := range s.StateNames() {
		p.Printf("  %v:\t%d\n", name, s.States[name])
	}
	p.Printf("Steps:\tmean %.1f, median %.0f, min %.0f, max %.0f\n", s.Steps.Mean, s.Steps.Median, s.Steps.Min, s.Steps.Max)
	p.Printf("Mean delay:\t%.2f\n", s.MeanDelay.Mean)
	p.Printf("Faults:\tmean %.2f, max %.0f\n", s.Faults.Mean, s.Faults.Max)
	if s.StronglyConnectedAt.N > 0 {
		p.Printf("Strongly connected:\t%d runs, mean step %.1f\n", s.StronglyConnectedAt.N, s.StronglyConnectedAt.Mean)
	}
	values := maps.Keys(s.Unanimous)
	slices.Sort(values)
	for _, value := range values {
		p.Printf("Unanimous %v:\t%d runs\n", value, s.Unanimous[value])
	}
	_, err := p.Printf("Properties held:\t%d runs\n", s.PropertiesHeld)
	return err
}
