package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	stemcompare "github.com/tphakala/go-stem-compare"
)

const (
	barWidth       = 64
	etaAge         = 60
	percentTotal   = 100
	dirPermissions = 0o755
	csvFloatBits   = 32
)

// envLookup reads flag defaults from the environment, falling back when a
// variable is unset or malformed.
type envLookup func(string) string

func (e envLookup) Str(key, fallback string) string {
	if v := e(key); v != "" {
		return v
	}
	return fallback
}

func (e envLookup) Int(key string, fallback int) int {
	if v := e(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func (e envLookup) Bool(key string, fallback bool) bool {
	if v := e(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func (e envLookup) Duration(key string, fallback time.Duration) time.Duration {
	if v := e(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// progressRenderer draws one progress bar per worker. A new bar group is
// started whenever the phase or source of the incoming events changes.
type progressRenderer struct {
	out      io.Writer
	progress *mpb.Progress
	group    string
	phase    stemcompare.Phase
	bars     []*mpb.Bar
	finished []bool
	updated  []time.Time
}

func newProgressRenderer(out io.Writer) *progressRenderer {
	return &progressRenderer{out: out}
}

// Update renders a progress snapshot.
func (r *progressRenderer) Update(e stemcompare.ProgressEvent) {
	group := e.Phase.String() + ":" + e.Source
	if r.progress == nil || group != r.group {
		r.Close()
		r.start(group, e)
	}

	now := time.Now()
	for i, w := range e.Workers {
		if i >= len(r.bars) || r.finished[i] {
			continue
		}
		bar := r.bars[i]

		switch w.State {
		case stemcompare.WorkerPending:
		case stemcompare.WorkerRunning:
			if r.phase == stemcompare.PhaseSpectrogram {
				bar.EwmaSetCurrent(w.Progress, now.Sub(r.updated[i]))
			} else {
				bar.SetCurrent(w.Progress)
			}
			r.updated[i] = now
		case stemcompare.WorkerDone:
			bar.SetCurrent(w.Progress)
			bar.SetTotal(-1, true)
			r.finished[i] = true
		default:
			bar.Abort(false)
			r.finished[i] = true
		}
	}
}

// Close stops the current bar group and waits for it to render.
func (r *progressRenderer) Close() {
	if r.progress == nil {
		return
	}
	for i, bar := range r.bars {
		if !r.finished[i] {
			bar.Abort(false)
		}
	}
	r.progress.Wait()
	r.progress = nil
	r.bars = nil
}

func (r *progressRenderer) start(group string, e stemcompare.ProgressEvent) {
	r.group = group
	r.phase = e.Phase
	r.progress = mpb.New(mpb.WithOutput(r.out), mpb.WithWidth(barWidth))
	r.bars = make([]*mpb.Bar, len(e.Workers))
	r.finished = make([]bool, len(e.Workers))
	r.updated = make([]time.Time, len(e.Workers))

	now := time.Now()
	for i, w := range e.Workers {
		r.updated[i] = now
		if e.Phase == stemcompare.PhaseSpectrogram {
			r.bars[i] = r.progress.AddBar(percentTotal,
				mpb.PrependDecorators(
					decor.Name("Spectrogram "+w.Label, decor.WCSyncSpaceR),
				),
				mpb.AppendDecorators(
					decor.OnAbort(decor.Percentage(), "failed"),
					decor.EwmaETA(decor.ET_STYLE_GO, etaAge),
				),
			)
			continue
		}
		r.bars[i] = r.progress.AddBar(0,
			mpb.PrependDecorators(
				decor.Name("Decoding "+w.Label, decor.WCSyncSpaceR),
				decor.CurrentNoUnit("%d samples"),
			),
			mpb.AppendDecorators(
				decor.OnAbort(decor.Elapsed(decor.ET_STYLE_GO), "failed"),
			),
		)
	}
}

// printReport writes the results table.
func printReport(w io.Writer, report *stemcompare.Report) {
	fmt.Fprintf(w, "Reference: %s\n", report.Reference)
	fmt.Fprintf(w, "Candidate: %s\n\n", report.Candidate)
	fmt.Fprintf(w, "%-8s %16s %16s\n", "Stem", "Time error", "Freq error")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 42))
	for _, r := range report.Stems {
		fmt.Fprintf(w, "%-8s %16.6g %16.6g\n", r.Stem.Label(), r.Time.Mean, r.Freq.Mean)
	}
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 42))
	fmt.Fprintf(w, "%-8s %16.6g %16.6g\n", "Total", report.TimeMean, report.FreqMean)
}

// writeCSV exports the per-stem error curves and a summary to dir.
func writeCSV(dir string, report *stemcompare.Report) error {
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("failed to create CSV directory: %w", err)
	}

	for _, r := range report.Stems {
		if err := writeProfile(filepath.Join(dir, "time_"+r.Stem.String()+".csv"), "frame", r.Time.Errors); err != nil {
			return err
		}
		if err := writeProfile(filepath.Join(dir, "freq_"+r.Stem.String()+".csv"), "bin", r.Freq.Errors); err != nil {
			return err
		}
	}

	rows := [][]string{{"stem", "time_error", "freq_error"}}
	for _, r := range report.Stems {
		rows = append(rows, []string{r.Stem.String(), formatFloat(r.Time.Mean), formatFloat(r.Freq.Mean)})
	}
	rows = append(rows, []string{"total", formatFloat(report.TimeMean), formatFloat(report.FreqMean)})

	return writeRows(filepath.Join(dir, "summary.csv"), rows)
}

func writeProfile(path, indexName string, values []float32) error {
	rows := make([][]string, 0, len(values)+1)
	rows = append(rows, []string{indexName, "error"})
	for i, v := range values {
		rows = append(rows, []string{strconv.Itoa(i), formatFloat(v)})
	}
	return writeRows(path, rows)
}

func writeRows(path string, rows [][]string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, csvFloatBits)
}
