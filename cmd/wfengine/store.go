package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dagucloud/wfengine/internal/engcfg"
	"github.com/dagucloud/wfengine/internal/store"
)

func storeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect and maintain the content-addressed store",
	}
	cmd.AddCommand(storeInitCmd())
	cmd.AddCommand(storeGCCmd())
	return cmd
}

func storeInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Create (or validate) a store at the given directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := engcfg.Load(cfgFile)
			if err != nil {
				return err
			}
			dir := cfg.StoreDir
			if len(args) == 1 {
				dir = args[0]
			}
			s, err := store.Init(dir)
			if err != nil {
				return err
			}
			if !quiet {
				fmt.Printf("store ready at %s\n", s.Base())
			}
			return nil
		},
	}
}

func storeGCCmd() *cobra.Command {
	var retentionHours int
	var keep []string

	cmd := &cobra.Command{
		Use:   "gc [dir]",
		Short: "Remove cache entries no longer referenced and past the retention window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := engcfg.Load(cfgFile)
			if err != nil {
				return err
			}
			dir := cfg.StoreDir
			if len(args) == 1 {
				dir = args[0]
			}
			if retentionHours == 0 {
				retentionHours = cfg.GCRetentionHours
			}

			s, err := store.Init(dir)
			if err != nil {
				return err
			}
			removed, err := s.GC(context.Background(), keep, time.Duration(retentionHours)*time.Hour)
			if err != nil {
				return err
			}
			if !quiet {
				fmt.Printf("removed %d cache entries\n", len(removed))
				for _, h := range removed {
					fmt.Println(h)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&retentionHours, "retention-hours", 0, "override the configured retention window")
	cmd.Flags().StringArrayVar(&keep, "keep", nil, "identity to keep regardless of age (repeatable)")
	return cmd
}
