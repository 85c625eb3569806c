// ABOUTME: Dump command printing ruler ticks without the interactive UI
// ABOUTME: Formats tick rows on the worker pool and writes them as a table or JSON

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/bytedance/sonic"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tickruler/pool"
	"tickruler/ruler"
	"tickruler/timeline"
)

const (
	dumpChunkSize     = 256       // Ticks formatted per pool task
	defaultTermWidth  = 80        // Table width when stdout is not a terminal
	maxDumpRows       = 1_000_000 // Largest slice a single dump prints
	tableFixedColumns = 36        // Width taken by the index, value, tier and line columns
)

var errUnknownFormat = errors.New("unknown output format")

// DumpOptions contains the dump command flags
type DumpOptions struct {
	Format  string
	From    int
	To      int
	Workers int
}

// TickRow is one dumped tick
type TickRow struct {
	Index    int     `json:"index"`
	Value    int     `json:"value"`
	Tier     string  `json:"tier"`
	LineSize float64 `json:"line_size"`
	Label    string  `json:"label,omitempty"`
	Time     string  `json:"time,omitempty"`
}

func newDumpCmd(opts *RunOptions) *cobra.Command {
	dump := &DumpOptions{}

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the ruler ticks, tiers and labels",
		Long: `Print every tick of the configured ruler, or a slice of it, with its tier,
line size and label. Timeline rulers add the wall-clock time of each tick.

Examples:
  tickruler dump                              # Table of all ticks
  tickruler dump --from 40 --to 60            # Ticks 40 through 60
  tickruler dump --timeline --format json     # Timeline ticks as JSON`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDump(cmd, opts, dump)
		},
	}

	cmd.Flags().StringVarP(&dump.Format, "format", "f", "table",
		"Output format (table, json)")
	cmd.Flags().IntVar(&dump.From, "from", 0,
		"First tick index")
	cmd.Flags().IntVar(&dump.To, "to", -1,
		"Last tick index (default: last tick)")
	cmd.Flags().IntVar(&dump.Workers, "workers", 0,
		"Formatting workers (default: one per CPU)")

	return cmd
}

// runDump executes the dump command
func runDump(cmd *cobra.Command, opts *RunOptions, dump *DumpOptions) error {
	if opts.DebugLog {
		if err := SetupDebugLog(debugLogFile); err != nil {
			return err
		}
	}

	if dump.Format != "table" && dump.Format != "json" {
		return fmt.Errorf("%w: %q", errUnknownFormat, dump.Format)
	}

	settings, err := LoadSettings(cmd, opts, time.Now())
	if err != nil {
		return err
	}

	ctrl, src, err := NewController(settings)
	if err != nil {
		return err
	}

	from, to, err := dumpBounds(dump.From, dump.To, ctrl.Metrics().MaxIndex())
	if err != nil {
		return err
	}

	workers := pool.NewWorkerPool(dump.Workers, dumpChunkSize)
	defer workers.Close()

	rows := pool.Map(workers, to-from+1, dumpChunkSize, func(i int) TickRow {
		return tickRow(ctrl, src, from+i)
	})

	debugf("[DUMP] %d rows (%d..%d) on %d workers", len(rows), from, to, workers.Workers())

	if dump.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), rows)
	}

	return writeTable(cmd.OutOrStdout(), rows, tableWidth(cmd.OutOrStdout()))
}

// dumpBounds validates the requested index slice against the ruler
func dumpBounds(from, to, maxIndex int) (int, int, error) {
	if to < 0 || to > maxIndex {
		to = maxIndex
	}

	if from < 0 {
		from = 0
	}

	if from > to {
		return 0, 0, fmt.Errorf("--from %d is past --to %d", from, to)
	}

	if to-from+1 > maxDumpRows {
		return 0, 0, fmt.Errorf("refusing to dump %d rows, narrow --from/--to (max %d)", to-from+1, maxDumpRows)
	}

	return from, to, nil
}

// tickRow describes one tick. It only reads the controller, so rows can be built concurrently.
func tickRow(ctrl *ruler.Controller, src *timeline.Source, index int) TickRow {
	row := TickRow{
		Index:    index,
		Value:    ctrl.Metrics().ValueAt(index),
		Tier:     ctrl.TickTier(index).String(),
		LineSize: ctrl.LineSize(index),
	}

	if label, ok := ctrl.DisplayText(index); ok {
		row.Label = label
	}

	if src != nil {
		row.Time = timeline.CurrentTimeLabel(src.TimeAt(index), src.Location())
	}

	return row
}

// writeJSON writes rows as a JSON array
func writeJSON(w io.Writer, rows []TickRow) error {
	if rows == nil {
		rows = []TickRow{}
	}

	data, err := sonic.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to encode ticks: %w", err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write ticks: %w", err)
	}

	return nil
}

// writeTable writes rows as aligned columns, fitting labels into width cells
func writeTable(w io.Writer, rows []TickRow, width int) error {
	labelWidth := max(width-tableFixedColumns, 8)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "#\tValue\tTier\tLine\tLabel"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if _, err := fmt.Fprintln(tw, "---\t-----\t----\t----\t-----"); err != nil {
		return fmt.Errorf("failed to write separator: %w", err)
	}

	for _, r := range rows {
		label := r.Label
		if r.Time != "" {
			label = r.Time
		}

		label = runewidth.Truncate(label, labelWidth, "…")

		if _, err := fmt.Fprintf(tw, "%d\t%d\t%s\t%.0f\t%s\n", r.Index, r.Value, r.Tier, r.LineSize, label); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r.Index, err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush table: %w", err)
	}

	return nil
}

// tableWidth returns the terminal width for a terminal writer and a fixed width otherwise
func tableWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !isTTY(f) {
		return defaultTermWidth
	}

	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultTermWidth
	}

	return width
}
