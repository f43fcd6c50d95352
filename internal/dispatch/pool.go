// Package dispatch runs homogeneous per-entity passes either inline or as
// contiguous index batches on a bounded set of goroutines.
package dispatch

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultSerialThreshold is the entity count below which a pass runs inline.
const DefaultSerialThreshold = 10

// Range is a half-open index interval [Start, End).
type Range struct {
	Start, End int
}

func (r Range) Len() int { return r.End - r.Start }

// BatchError records a fault recovered from one batch. The entities of that
// batch simply did not update this frame.
type BatchError struct {
	Pass  string
	Batch int
	Range Range
	Cause any
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s batch %d [%d,%d): %v", e.Pass, e.Batch, e.Range.Start, e.Range.End, e.Cause)
}

// Partition splits total indices into contiguous ranges of ceil(total/parts)
// each. The last range may be shorter. Returns nil for total <= 0.
func Partition(total, parts int) []Range {
	if total <= 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	size := (total + parts - 1) / parts
	out := make([]Range, 0, parts)
	for start := 0; start < total; start += size {
		end := min(start+size, total)
		out = append(out, Range{Start: start, End: end})
	}
	return out
}

// Pool is a fixed-size batch executor shared by the parallel passes. It holds
// no goroutines between calls; each ForEach joins every batch before it returns.
//
// Callers must guarantee that fn(i) writes only state owned by index i.
// Contiguous disjoint ranges then never write the same entity, so no lock is
// taken around fn.
type Pool struct {
	workers   int
	threshold int
	log       *zap.Logger
}

// NewPool creates a pool. workers <= 0 uses GOMAXPROCS; threshold <= 0 uses
// DefaultSerialThreshold.
func NewPool(workers, threshold int, log *zap.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if threshold <= 0 {
		threshold = DefaultSerialThreshold
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool{workers: workers, threshold: threshold, log: log}
}

func (p *Pool) Workers() int         { return p.workers }
func (p *Pool) SerialThreshold() int { return p.threshold }

// Serial reports whether a pass over total entities runs inline.
func (p *Pool) Serial(total int) bool {
	return total < p.threshold
}

// ForEach calls fn for every index in [0,total). Below the serial threshold it
// runs on the calling goroutine; otherwise it runs one task per partition and
// waits for all of them. A panicking batch is logged and reported, never
// propagated, and does not stop its siblings.
func (p *Pool) ForEach(pass string, total int, fn func(i int)) []*BatchError {
	if total <= 0 {
		return nil
	}
	if p.Serial(total) {
		if err := p.run(pass, 0, Range{0, total}, fn); err != nil {
			return []*BatchError{err}
		}
		return nil
	}

	ranges := Partition(total, p.workers)
	faults := make([]*BatchError, len(ranges))
	var g errgroup.Group
	g.SetLimit(p.workers)
	for b, r := range ranges {
		b, r := b, r
		g.Go(func() error {
			faults[b] = p.run(pass, b, r, fn)
			return nil
		})
	}
	_ = g.Wait()

	var out []*BatchError
	for _, f := range faults {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}

func (p *Pool) run(pass string, batch int, r Range, fn func(int)) (fault *BatchError) {
	defer func() {
		if v := recover(); v != nil {
			fault = &BatchError{Pass: pass, Batch: batch, Range: r, Cause: v}
			p.log.Error("batch failed",
				zap.String("pass", pass),
				zap.Int("batch", batch),
				zap.Int("start", r.Start),
				zap.Int("end", r.End),
				zap.Any("error", v),
			)
		}
	}()
	for i := r.Start; i < r.End; i++ {
		fn(i)
	}
	return nil
}
