package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dagucloud/wfengine/internal/store"
	"github.com/dagucloud/wfengine/pkg/wf"
)

// diffCmd demonstrates the supplemented description-diff feature
// (SPEC_FULL §5.1): since workflows are Go values rather than a
// serialised DSL the CLI can parse from argv, diff compares the demo
// chain's two built-in variants (a successful final step vs a failing
// one) so the wf.Describe/Equal/String surface has somewhere to run end
// to end from the command line.
func diffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show why the demo chain's success and failure variants hash differently",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &store.Store{}
			leaf := demoStep(s, "leaf", testCommand)
			a := demoStep(s, "root", testCommand, leaf)
			b := demoStep(s, "root", testCommandFail, leaf)

			da, db := wf.Describe(a), wf.Describe(b)
			if da.Equal(db) {
				fmt.Println("identical")
				return nil
			}
			fmt.Printf("a (%s): %s\n", a.Identity(), da.String())
			fmt.Printf("b (%s): %s\n", b.Identity(), db.String())
			return nil
		},
	}
}
