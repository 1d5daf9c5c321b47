package store

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dagucloud/wfengine/pkg/wf"
)

// EventTag distinguishes history line kinds. "C" marks the run that
// created a cache entry; "U" marks every subsequent run that found the
// entry already present and reused it.
type EventTag string

const (
	EventCreated EventTag = "C"
	EventUsed    EventTag = "U"
)

// HistoryEntry is one line of a workflow's provenance log: when, and
// whether the run created the entry or reused it.
type HistoryEntry struct {
	Time time.Time
	Tag  EventTag
}

// RecordCreated appends a "C" entry for w at t. Per I5, history is
// append-only: no prior line for w is ever modified. Extract has no
// independent history - calling this for an Extract is a programming
// error.
func (s *Store) RecordCreated(w wf.Workflow, t time.Time) error {
	if w.Kind() == wf.KindExtract {
		panic("store: RecordCreated called on an Extract workflow")
	}
	return s.appendHistory(w, EventCreated, t)
}

// RecordUsed appends a "U" entry for w at t.
func (s *Store) RecordUsed(w wf.Workflow, t time.Time) error {
	if w.Kind() == wf.KindExtract {
		panic("store: RecordUsed called on an Extract workflow")
	}
	return s.appendHistory(w, EventUsed, t)
}

func (s *Store) appendHistory(w wf.Workflow, tag EventTag, t time.Time) error {
	f, err := os.OpenFile(s.HistoryPath(w), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "%s: %s\n", FormatTime(t), tag)
	return err
}

// History returns w's full provenance log, oldest entry first.
func (s *Store) History(w wf.Workflow) ([]HistoryEntry, error) {
	f, err := os.Open(s.HistoryPath(w))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []HistoryEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		ts, tag, ok := strings.Cut(line, ": ")
		if !ok {
			return nil, fmt.Errorf("store: malformed history line %q for %s", line, w.Identity())
		}
		t, err := ParseTime(ts)
		if err != nil {
			return nil, err
		}
		entries = append(entries, HistoryEntry{Time: t, Tag: EventTag(tag)})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
