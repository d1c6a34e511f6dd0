package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/mattn/go-isatty"

	"pwcards/internal/model"
)

// table prints rows aligned with a header on a terminal, and as plain
// tab-separated lines without a header when piped.
type table struct {
	w      io.Writer
	tw     *tabwriter.Writer
	header []any
	pretty bool
	wrote  bool
}

func newTable(header ...any) *table {
	pretty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	t := &table{w: os.Stdout, header: header, pretty: pretty}
	if pretty {
		t.tw = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		t.w = t.tw
	}
	return t
}

func (t *table) row(cols ...any) {
	if t.pretty && !t.wrote {
		t.line(t.header)
	}
	t.wrote = true
	t.line(cols)
}

func (t *table) line(cols []any) {
	for i, c := range cols {
		if i > 0 {
			fmt.Fprint(t.w, "\t")
		}
		fmt.Fprint(t.w, c)
	}
	fmt.Fprintln(t.w)
}

func (t *table) flush() {
	if t.tw != nil {
		t.tw.Flush()
	}
}

func printEntries(entries []model.PasswordEntry) {
	t := newTable("ID", "NAME", "USERNAME", "URL")
	for _, e := range entries {
		t.row(e.ID, e.Name, e.Username, e.URL)
	}
	t.flush()
}

func printOperations(ops []*model.Operation) {
	t := newTable("#", "OPERATION", "ENTRY", "STARTED", "STATUS", "DURATION", "MESSAGE")
	for _, op := range ops {
		duration := ""
		if op.FinishedAt != nil {
			duration = op.FinishedAt.Sub(op.StartedAt).Truncate(time.Millisecond).String()
		}
		t.row(op.ID, op.Operation, op.EntryID, op.StartedAt.Local().Format("2006-01-02 15:04:05"), op.Status, duration, op.Message)
	}
	t.flush()
}
