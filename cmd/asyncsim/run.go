package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"asyncsim"
	"asyncsim/simGrpc"
	"asyncsim/simulator"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	outputJSON = false
	remote     = ""
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "run a single simulation and print its final report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var report simulator.FinalReport
		if remote != "" {
			client, err := simGrpc.Dial(remote)
			if err != nil {
				return err
			}
			defer client.Close()
			report, err = client.Run(ctx, cfg)
			if err != nil {
				return err
			}
		} else {
			// A failed simulation still has a report worth printing
			report, err = asyncsim.Run(ctx, cfg, asyncsim.WithLogger(l))
			if err != nil {
				l.Errorf("Simulation failed: %v", err)
			}
		}
		return writeReport(report)
	},
}

func init() {
	addConfigFlags(runCmd)
	runCmd.Flags().BoolVar(&outputJSON, "json", false, "print the report as JSON")
	runCmd.Flags().StringVar(&remote, "remote", "", "run the simulation on the server at this address")
}

func writeReport(report simulator.FinalReport) error {
	if outputJSON {
		bz, err := report.JSON()
		if err != nil {
			return err
		}
		fmt.Println(string(bz))
		return nil
	}
	fmt.Print(report)
	p := message.NewPrinter(language.English)
	_, err := p.Printf("Delivered %d of %d messages in %d steps\n", report.Delivered, report.Created, report.Steps)
	return err
}
