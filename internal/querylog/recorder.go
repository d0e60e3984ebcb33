// Package querylog records the database activity of a single admin request.
//
// A Recorder is created per request and carried in the request context.
// The pgx tracer in this package finds it there and counts every query
// the request executes; with verbose logging on it also keeps the SQL,
// elapsed time and calling function of each query.
package querylog

import (
	"context"
	"sync"
	"time"

	"github.com/kube-rca/perfcheckup/internal/model"
)

// MemorySampler - 최대 메모리 측정 인터페이스
type MemorySampler interface {
	PeakMB() float64
}

type recorderKey struct{}

// Recorder - 요청 단위 쿼리/메모리 측정값
type Recorder struct {
	mu      sync.Mutex
	verbose bool
	memory  MemorySampler
	count   int
	entries []model.QueryLogEntry
}

func NewRecorder(verbose bool, memory MemorySampler) *Recorder {
	return &Recorder{verbose: verbose, memory: memory}
}

func NewContext(ctx context.Context, rec *Recorder) context.Context {
	return context.WithValue(ctx, recorderKey{}, rec)
}

// FromContext returns the request recorder, or nil outside an instrumented request.
func FromContext(ctx context.Context) *Recorder {
	rec, _ := ctx.Value(recorderKey{}).(*Recorder)
	return rec
}

// Record counts one executed query.
func (r *Recorder) Record(sql string, elapsed time.Duration, caller string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.count++
	if r.verbose {
		r.entries = append(r.entries, model.QueryLogEntry{
			SQL:     sql,
			Elapsed: elapsed.Seconds(),
			Caller:  caller,
		})
	}
}

func (r *Recorder) QueryCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// QueryLog returns a copy of the verbose query log. ok is false when
// verbose logging is disabled for this request.
func (r *Recorder) QueryLog() (entries []model.QueryLogEntry, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.verbose {
		return nil, false
	}
	entries = make([]model.QueryLogEntry, len(r.entries))
	copy(entries, r.entries)
	return entries, true
}

func (r *Recorder) VerboseQueries() bool {
	return r.verbose
}

func (r *Recorder) PeakMemoryMB() float64 {
	if r.memory == nil {
		return 0
	}
	return r.memory.PeakMB()
}

// Status returns the live counters of this request.
func (r *Recorder) Status() model.CheckupStatus {
	return model.CheckupStatus{
		QueryCount:     r.QueryCount(),
		PeakMemoryMB:   r.PeakMemoryMB(),
		VerboseQueries: r.verbose,
	}
}
