// Copyright (c) 2022-2024 Daguflow Inc.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	quiet   bool

	version = "0.0.0"
)

func main() {
	cmd := &cobra.Command{
		Use:   "wfengine",
		Short: "Reproducible, content-addressed workflow engine.",
		Long:  `Build and evaluate content-addressed, memoized workflows.`,
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.config/wfengine/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	cmd.AddCommand(storeCmd())
	cmd.AddCommand(runCmd())
	cmd.AddCommand(diffCmd())
	cmd.AddCommand(versionCmd())

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the wfengine version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}
