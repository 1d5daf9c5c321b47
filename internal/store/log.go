package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// dailyLogMu guards appends to the current day's log file so concurrent
// tasks sharing a store don't interleave partial lines.
var dailyLogMu sync.Mutex

// AppendLog appends a line to today's log file under logs/, creating it
// if this is the first write of the day. Callers supply an already
// formatted line; AppendLog only owns file naming and the trailing
// newline.
func (s *Store) AppendLog(now time.Time, line string) error {
	dailyLogMu.Lock()
	defer dailyLogMu.Unlock()

	p := filepath.Join(s.base, "logs", now.UTC().Format("2006-01-02")+".log")
	f, err := os.OpenFile(p, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintln(f, line)
	return err
}
