package main

import (
	"encoding/json"
	"fmt"

	"asyncsim/config"

	"github.com/spf13/cobra"
)

var defaultsJSON = false

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "print the default configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			bz  []byte
			err error
		)
		if defaultsJSON {
			bz, err = json.MarshalIndent(config.Default(), "", "  ")
		} else {
			bz, err = config.Default().YAML()
		}
		if err != nil {
			return err
		}
		fmt.Println(string(bz))
		return nil
	},
}

func init() {
	defaultsCmd.Flags().BoolVar(&defaultsJSON, "json", false, "print the configuration as JSON")
}
