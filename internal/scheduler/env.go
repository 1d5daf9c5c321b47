package scheduler

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/dagucloud/wfengine/internal/applog"
	"github.com/dagucloud/wfengine/internal/store"
	"github.com/dagucloud/wfengine/pkg/wf"
)

// buildEnv constructs the wf.Env a Prim's Impl runs with: stream handles
// captured to the store's stdout/stderr files for Path tasks (nil
// writers - io.Discard - for Value tasks, which have none), logging
// hooks routed through applog, the granted resource, and a TempFile
// scoped under the task's tmp directory.
func buildEnv(ctx context.Context, s *store.Store, w wf.Workflow, res wf.Resource, stdout, stderr *os.File) wf.Env {
	var counter int64
	var out, errOut io.Writer = io.Discard, io.Discard
	if stdout != nil {
		out = stdout
	}
	if stderr != nil {
		errOut = stderr
	}
	return wf.Env{
		Stdout:   out,
		Stderr:   errOut,
		Debug:    func(msg string, args ...any) { applog.Debug(ctx, msg, args...) },
		Info:     func(msg string, args ...any) { applog.Info(ctx, msg, args...) },
		Error:    func(msg string, args ...any) { applog.Error(ctx, msg, args...) },
		Resource: res,
		TempFile: func() (wf.ScopedFile, error) {
			if err := os.MkdirAll(s.TmpPath(w), 0o755); err != nil {
				return nil, err
			}
			n := atomic.AddInt64(&counter, 1)
			p := filepath.Join(s.TmpPath(w), fmt.Sprintf("tmp-%d", n))
			return os.Create(p)
		},
	}
}
