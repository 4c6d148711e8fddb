// Package status holds lock-free runtime counters for the audio engine and coordinator
package status

import (
	"fmt"
	"io"
	"sync/atomic"
)

// Registry is the central metrics facade
// Owners cache pointers at construction; hot paths write directly to atomics
type Registry struct {
	Bools  *MetricMap[atomic.Bool]
	Ints   *MetricMap[atomic.Int64]
	Floats *MetricMap[AtomicFloat]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:  NewMetricMap[atomic.Bool](),
		Ints:   NewMetricMap[atomic.Int64](),
		Floats: NewMetricMap[AtomicFloat](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count()
}

// WriteTo prints every metric as "key value", ints then floats then bools
func (r *Registry) WriteTo(w io.Writer) (int64, error) {
	var n int64
	var err error
	emit := func(key string, val any) {
		if err != nil {
			return
		}
		var c int
		c, err = fmt.Fprintf(w, "%s %v\n", key, val)
		n += int64(c)
	}

	r.Ints.Range(func(k string, p *atomic.Int64) { emit(k, p.Load()) })
	r.Floats.Range(func(k string, p *AtomicFloat) { emit(k, p.Get()) })
	r.Bools.Range(func(k string, p *atomic.Bool) { emit(k, p.Load()) })
	return n, err
}
