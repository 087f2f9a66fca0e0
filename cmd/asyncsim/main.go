package main

import (
	"log"
	"os"

	"asyncsim/logging"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "asyncsim",
	Short:        "asyncsim simulates message passing protocols in the random asynchronous model",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		l = logging.NewLogger(logging.Config{Level: level, Out: os.Stderr, NoColor: noColor, File: logFile})
		return nil
	},
}

var (
	l                 = logging.NewDefaultLogger()
	logLevel, logFile = "", ""
	noColor           = false
)

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(defaultsCmd)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "minimum level of the logged messages: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write the log to this file, rotated when it grows large")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored log output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
