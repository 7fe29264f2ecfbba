package stemcompare

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tphakala/go-stem-compare/internal/codec"
	"github.com/tphakala/go-stem-compare/internal/fanout"
)

// StemSet holds the four decoded stems of one directory in stem order.
type StemSet struct {
	Dir string

	// Original is set when the directory carries the OriginalMarker file.
	Original bool

	Buffers [StemCount]SampleBuffer
}

// Buffer returns the decoded samples of s.
func (ss *StemSet) Buffer(s Stem) SampleBuffer {
	return ss.Buffers[s]
}

// Samples returns the interleaved samples of every stem in stem order.
func (ss *StemSet) Samples() [][]float32 {
	out := make([][]float32, StemCount)
	for i := range StemCount {
		out[i] = ss.Buffers[i].Samples
	}
	return out
}

// ImportDirectory locates the four stem files in dir and decodes them in
// parallel, one worker per file. Either all four stems decode or an error is
// returned; partial sets are never returned.
func ImportDirectory(ctx context.Context, dir string, cfg *Config) (*StemSet, error) {
	c, err := resolve(cfg)
	if err != nil {
		return nil, err
	}

	paths, original, err := scanStemDir(dir)
	if err != nil {
		return nil, err
	}

	reg := c.registry()
	jobs := make([]fanout.Job[codec.SampleBuffer], StemCount)
	labels := make([]string, StemCount)
	for _, s := range Stems() {
		path := paths[s]
		labels[s] = s.Label()
		jobs[s] = func(ctx context.Context, report func(int64)) (codec.SampleBuffer, error) {
			return codec.DecodeFile(ctx, reg, path, report)
		}
	}

	outcomes := fanout.Run(ctx, jobs, c.fanoutOptions(PhaseDecode, dir, labels))

	set := &StemSet{Dir: dir, Original: original}
	var errs []error
	for _, s := range Stems() {
		o := outcomes[s]
		if o.Err != nil {
			errs = append(errs, &StemError{Stem: s, Path: paths[s], Err: o.Err})
			continue
		}
		set.Buffers[s] = o.Value
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return set, nil
}

// scanStemDir returns the stem file paths of dir in stem order and whether
// the directory is flagged as ground truth.
func scanStemDir(dir string) (paths [StemCount]string, original bool, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return paths, false, fmt.Errorf("%w: %w", ErrDirectoryAccess, err)
	}

	var found [StemCount]bool
	for _, e := range entries {
		name := e.Name()
		if name == OriginalMarker {
			original = true
			continue
		}
		if e.IsDir() {
			continue
		}
		if s, ok := stemForFile(name); ok {
			found[s] = true
			paths[s] = filepath.Join(dir, name)
		}
	}

	var missing []string
	count := 0
	for _, s := range Stems() {
		if found[s] {
			count++
			continue
		}
		missing = append(missing, s.FileName())
	}
	if count < StemCount {
		return paths, original, &MissingStemsError{Dir: dir, Found: count, Missing: missing}
	}

	return paths, original, nil
}
