package jobs

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Record is a process launched by the shell.
type Record struct {
	Command []string
	Pid     int
	Status  Status
}

// Name is the program the record was launched with.
func (r *Record) Name() string {
	if len(r.Command) == 0 {
		return ""
	}
	return r.Command[0]
}

// Table holds tracked processes in launch order. It is not safe for
// concurrent use; the shell loop is its only user.
type Table struct {
	records  []*Record
	resolver Resolver
}

// NewTable returns an empty table that polls statuses with resolver.
func NewTable(resolver Resolver) *Table {
	return &Table{resolver: resolver}
}

// Add tracks a newly launched process, assuming it is running.
func (t *Table) Add(command []string, pid int) *Record {
	return t.AddObserved(command, pid, Running)
}

// AddObserved tracks a process whose last known status is prev. A record for
// the same pid left over from an earlier launch is dropped first.
func (t *Table) AddObserved(command []string, pid int, prev Status) *Record {
	if i := t.index(pid); i >= 0 {
		t.records = append(t.records[:i], t.records[i+1:]...)
	}

	rec := &Record{
		Command: append([]string(nil), command...),
		Pid:     pid,
		Status:  t.resolver.Resolve(pid, prev),
	}
	t.records = append(t.records, rec)
	return rec
}

// Len returns the number of tracked processes.
func (t *Table) Len() int {
	return len(t.records)
}

// Lookup returns the record for pid, if tracked.
func (t *Table) Lookup(pid int) (*Record, bool) {
	if i := t.index(pid); i >= 0 {
		return t.records[i], true
	}
	return nil, false
}

// Records returns a snapshot of the table in launch order.
func (t *Table) Records() []Record {
	out := make([]Record, 0, len(t.records))
	for _, rec := range t.records {
		out = append(out, *rec)
	}
	return out
}

// Each calls fn for every record in launch order.
func (t *Table) Each(fn func(rec *Record)) {
	for _, rec := range t.records {
		fn(rec)
	}
}

// RefreshAll polls every record once.
func (t *Table) RefreshAll() {
	t.Each(func(rec *Record) {
		rec.Status = t.resolver.Resolve(rec.Pid, rec.Status)
	})
}

// RemoveTerminated drops terminated records and returns how many were
// removed. Surviving records keep their order.
func (t *Table) RemoveTerminated() int {
	kept := t.records[:0]
	for _, rec := range t.records {
		if rec.Status != Terminated {
			kept = append(kept, rec)
		}
	}
	removed := len(t.records) - len(kept)
	for i := len(kept); i < len(t.records); i++ {
		t.records[i] = nil
	}
	t.records = kept
	return removed
}

// Print writes the table without polling.
func (t *Table) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 4, ' ', 0)
	fmt.Fprintln(tw, "PID\tCOMMAND\tSTATUS")
	for _, rec := range t.records {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", rec.Pid, rec.Name(), rec.Status.colored())
	}
	return tw.Flush()
}

func (t *Table) index(pid int) int {
	for i, rec := range t.records {
		if rec.Pid == pid {
			return i
		}
	}
	return -1
}
