package jobs

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOS queues status changes per pid and reports each one once, the way
// wait4 does.
type fakeOS struct {
	pending map[int][]Status
}

func newFakeOS() *fakeOS {
	return &fakeOS{pending: make(map[int][]Status)}
}

func (f *fakeOS) change(pid int, status Status) {
	f.pending[pid] = append(f.pending[pid], status)
}

func (f *fakeOS) Resolve(pid int, prev Status) Status {
	queue := f.pending[pid]
	if len(queue) == 0 {
		return prev
	}
	f.pending[pid] = queue[1:]
	return queue[0]
}

func statuses(table *Table) map[int]Status {
	out := make(map[int]Status)
	table.Each(func(rec *Record) {
		out[rec.Pid] = rec.Status
	})
	return out
}

func pids(table *Table) []int {
	var out []int
	for _, rec := range table.Records() {
		out = append(out, rec.Pid)
	}
	return out
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "RUNNING", Running.String())
	assert.Equal(t, "SUSPENDED", Suspended.String())
	assert.Equal(t, "TERMINATED", Terminated.String())
	assert.Equal(t, "UNKNOWN", Status(42).String())
}

func TestAdd(t *testing.T) {
	os := newFakeOS()
	table := NewTable(os)

	command := []string{"sleep", "100"}
	rec := table.Add(command, 10)
	command[0] = "changed"

	assert.Equal(t, Running, rec.Status)
	assert.Equal(t, "sleep", rec.Name())
	assert.Equal(t, 1, table.Len())

	os.change(11, Terminated)
	rec = table.Add([]string{"false"}, 11)
	assert.Equal(t, Terminated, rec.Status)

	rec = table.AddObserved([]string{"vi"}, 12, Suspended)
	assert.Equal(t, Suspended, rec.Status)

	assert.Equal(t, []int{10, 11, 12}, pids(table))
}

func TestAddReplacesStalePid(t *testing.T) {
	table := NewTable(newFakeOS())
	table.Add([]string{"a"}, 1)
	table.AddObserved([]string{"b"}, 2, Terminated)
	table.Add([]string{"c"}, 3)
	table.Add([]string{"d"}, 2)

	assert.Equal(t, []int{1, 3, 2}, pids(table))
	rec, ok := table.Lookup(2)
	require.True(t, ok)
	assert.Equal(t, "d", rec.Name())
	assert.Equal(t, Running, rec.Status)

	_, ok = table.Lookup(4)
	assert.False(t, ok)
}

func TestRefreshAllIsIdempotent(t *testing.T) {
	os := newFakeOS()
	table := NewTable(os)
	for pid := 1; pid <= 4; pid++ {
		table.Add([]string{"job"}, pid)
	}

	os.change(2, Suspended)
	os.change(3, Terminated)
	os.change(4, Suspended)
	os.change(4, Running)

	table.RefreshAll()
	first := statuses(table)
	assert.Equal(t, map[int]Status{1: Running, 2: Suspended, 3: Terminated, 4: Suspended}, first)

	table.RefreshAll()
	second := statuses(table)
	assert.Equal(t, map[int]Status{1: Running, 2: Suspended, 3: Terminated, 4: Running}, second)

	table.RefreshAll()
	assert.Equal(t, second, statuses(table))
}

func TestRemoveTerminated(t *testing.T) {
	os := newFakeOS()
	table := NewTable(os)
	for pid := 1; pid <= 6; pid++ {
		table.Add([]string{"job"}, pid)
	}
	for _, pid := range []int{1, 3, 4, 6} {
		os.change(pid, Terminated)
	}

	table.RefreshAll()
	assert.Equal(t, 4, table.RemoveTerminated())
	assert.Equal(t, []int{2, 5}, pids(table))
	table.Each(func(rec *Record) {
		assert.NotEqual(t, Terminated, rec.Status)
	})

	assert.Equal(t, 0, table.RemoveTerminated())
	assert.Equal(t, []int{2, 5}, pids(table))

	os.change(2, Terminated)
	os.change(5, Terminated)
	table.RefreshAll()
	assert.Equal(t, 2, table.RemoveTerminated())
	assert.Equal(t, 0, table.Len())
}

func TestRecordsIsSnapshot(t *testing.T) {
	table := NewTable(newFakeOS())
	table.Add([]string{"sleep"}, 1)

	snapshot := table.Records()
	snapshot[0].Status = Terminated

	rec, _ := table.Lookup(1)
	assert.Equal(t, Running, rec.Status)
}

func TestTablePrint(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	table := NewTable(newFakeOS())
	table.Add([]string{"sleep", "100"}, 101)
	table.AddObserved([]string{"yes"}, 2024, Suspended)
	table.AddObserved([]string{"/bin/true"}, 7, Terminated)

	var buf bytes.Buffer
	require.NoError(t, table.Print(&buf))

	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
	)
	g.Assert(t, "procs", buf.Bytes())
}
