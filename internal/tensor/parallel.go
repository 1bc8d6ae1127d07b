package tensor

import (
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// DefaultParallelThreshold is the row count below which Parallel runs
// serially. Goroutine overhead dominates for small batches.
const DefaultParallelThreshold = 64

// Parallel is a Backend that splits batch rows into contiguous chunks and
// processes them on separate goroutines. Each output row depends only on
// the matching input row, so results equal those of Gonum.
type Parallel struct {
	workers   int
	threshold int
}

// NewParallel returns a Parallel backend. workers <= 0 uses runtime.NumCPU
// and threshold <= 0 uses DefaultParallelThreshold.
func NewParallel(workers, threshold int) *Parallel {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if threshold <= 0 {
		threshold = DefaultParallelThreshold
	}
	return &Parallel{workers: workers, threshold: threshold}
}

// Workers returns the maximum number of goroutines used per call.
func (p *Parallel) Workers() int { return p.workers }

// run calls fn over [0, n) split into at most p.workers chunks.
func (p *Parallel) run(n int, fn func(lo, hi int)) {
	if n < p.threshold || p.workers == 1 {
		fn(0, n)
		return
	}

	numWorkers := min(n, p.workers)
	chunkSize := (n + numWorkers - 1) / numWorkers

	var g errgroup.Group
	for start := 0; start < n; start += chunkSize {
		lo, hi := start, min(start+chunkSize, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	// Workers never fail; Wait only joins them.
	_ = g.Wait()
}

// MatMul returns a·b, computing each row block independently.
func (p *Parallel) MatMul(a, b *mat.Dense) *mat.Dense {
	m, k := a.Dims()
	_, n := b.Dims()
	if m < p.threshold {
		return Gonum{}.MatMul(a, b)
	}

	out := mat.NewDense(m, n, nil)
	p.run(m, func(lo, hi int) {
		dst := out.Slice(lo, hi, 0, n).(*mat.Dense)
		dst.Mul(a.Slice(lo, hi, 0, k), b)
	})
	return out
}

// AddRowVector broadcasts v over the rows of m.
func (p *Parallel) AddRowVector(m *mat.Dense, v []float64) *mat.Dense {
	out := mat.DenseCopyOf(m)
	p.run(rows(out), func(lo, hi int) { addRowVector(out, v, lo, hi) })
	return out
}

// AddColVector adds c[i] to row i.
func (p *Parallel) AddColVector(m *mat.Dense, c []float64) *mat.Dense {
	out := mat.DenseCopyOf(m)
	p.run(rows(out), func(lo, hi int) { addColVector(out, c, lo, hi) })
	return out
}

// MulColVector scales row i by c[i].
func (p *Parallel) MulColVector(m *mat.Dense, c []float64) *mat.Dense {
	out := mat.DenseCopyOf(m)
	p.run(rows(out), func(lo, hi int) { mulColVector(out, c, lo, hi) })
	return out
}

// Apply maps fn over m. fn must be safe for concurrent use.
func (p *Parallel) Apply(m *mat.Dense, fn func(float64) float64) *mat.Dense {
	out := mat.DenseCopyOf(m)
	p.run(rows(out), func(lo, hi int) { apply(out, fn, lo, hi) })
	return out
}

// RowMax returns the per-row maximum.
func (p *Parallel) RowMax(m *mat.Dense) []float64 {
	out := make([]float64, rows(m))
	p.run(len(out), func(lo, hi int) { rowMax(m, out, lo, hi) })
	return out
}

// RowSum returns the per-row sum.
func (p *Parallel) RowSum(m *mat.Dense) []float64 {
	out := make([]float64, rows(m))
	p.run(len(out), func(lo, hi int) { rowSum(m, out, lo, hi) })
	return out
}
