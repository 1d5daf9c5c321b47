package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dagucloud/wfengine/internal/allocator"
	"github.com/dagucloud/wfengine/internal/engcfg"
	"github.com/dagucloud/wfengine/internal/scheduler"
	"github.com/dagucloud/wfengine/internal/store"
	"github.com/dagucloud/wfengine/internal/wflog"
	"github.com/dagucloud/wfengine/pkg/wf"
)

// testCommand and testCommandFail are the demo primitives' commands: one
// that always succeeds and one that always fails, used to build a small
// illustrative chain for `wfengine run`.
const (
	testCommand     = "true"
	testCommandFail = "false"
)

func runCmd() *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "run [dir]",
		Short: "Build a small demo workflow chain against a store",
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

			np, mem := cfg.AllocatorNP, cfg.AllocatorMem
			if np == 0 || mem == 0 {
				dnp, dmem, err := allocator.DetectHostTotals(context.Background())
				if err != nil {
					return err
				}
				if np == 0 {
					np = dnp
				}
				if mem == 0 {
					mem = dmem
				}
			}
			alloc := allocator.New(np, mem)
			defer alloc.Close()

			runID := uuid.New()
			ctx := wflog.WithRunID(context.Background(), runID)
			sc := scheduler.New(s, alloc, wflog.NewSlogAdapter(ctx))

			leaf := demoStep(s, "leaf", testCommand)
			second := demoStep(s, "second", testCommand, leaf)
			root := second
			if fail {
				root = demoStep(s, "root", testCommandFail, leaf)
			}

			traces, err := sc.Run(ctx, root)
			if err != nil {
				return err
			}
			if !quiet {
				fmt.Printf("run %s\n", runID)
			}
			printTraceTable(traces)
			return nil
		},
	}
	cmd.Flags().BoolVar(&fail, "fail", false, "make the demo's final step fail, to illustrate a Run{Err} trace")
	return cmd
}

// demoStep builds a Path workflow whose primitive shells out to name
// (expected to be "true" or "false") and, on success, writes a marker
// file to its build directory.
func demoStep(s *store.Store, id, name string, dep ...wf.Path) wf.Path {
	var p wf.Path
	args := make([]wf.Expression, 0, len(dep)+1)
	args = append(args, wf.String(name))
	for _, d := range dep {
		args = append(args, wf.Dep(d))
	}

	prim := wf.NewPrim(id, "v1", 1, 64, func(ctx context.Context, env wf.Env) (any, error) {
		cmd := exec.CommandContext(ctx, name)
		cmd.Stdout = env.Stdout
		cmd.Stderr = env.Stderr
		if err := cmd.Run(); err != nil {
			return nil, err
		}
		return nil, os.WriteFile(s.BuildPath(p), []byte(id+"\n"), 0o644)
	})

	expr := wf.Expression(prim)
	for _, a := range args {
		expr = wf.Apply(expr, a)
	}
	p = wf.NewPath(expr)
	return p
}

func printTraceTable(traces map[string]scheduler.Trace) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TASK\tSTATUS\tDETAIL")
	for id, t := range traces {
		switch {
		case t.Skipped:
			detail := t.Reason.String()
			if t.Reason == scheduler.AllocationError {
				detail = t.AllocMsg
			}
			fmt.Fprintf(w, "%s\tskipped\t%s\n", id, detail)
		case t.Outcome.Ok():
			fmt.Fprintf(w, "%s\tok\t%s\n", id, time.Unix(0, t.End).Sub(time.Unix(0, t.Start)))
		default:
			fmt.Fprintf(w, "%s\tfailed\t%s\n", id, t.Outcome.Err)
		}
	}
	w.Flush()
}
