package querylog

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedMemory float64

func (f fixedMemory) PeakMB() float64 { return float64(f) }

func runQuery(ctx context.Context, tracer *Tracer, sql string) {
	ctx = tracer.TraceQueryStart(ctx, nil, pgx.TraceQueryStartData{SQL: sql})
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})
}

func TestTracerCountsQueriesOfInstrumentedRequest(t *testing.T) {
	rec := NewRecorder(false, fixedMemory(12.5))
	ctx := NewContext(context.Background(), rec)
	tracer := &Tracer{}

	runQuery(ctx, tracer, "SELECT 1")
	runQuery(ctx, tracer, "SELECT 2")

	assert.Equal(t, 2, rec.QueryCount())
	entries, ok := rec.QueryLog()
	assert.False(t, ok)
	assert.Nil(t, entries)
	assert.Equal(t, 12.5, rec.PeakMemoryMB())
}

func TestTracerKeepsVerboseLog(t *testing.T) {
	rec := NewRecorder(true, nil)
	ctx := NewContext(context.Background(), rec)

	runQuery(ctx, &Tracer{}, "  SELECT id FROM users  ")

	entries, ok := rec.QueryLog()
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, "SELECT id FROM users", entries[0].SQL)
	assert.GreaterOrEqual(t, entries[0].Elapsed, 0.0)
	assert.Contains(t, entries[0].Caller, "querylog.runQuery")
}

func TestTracerIgnoresUninstrumentedContext(t *testing.T) {
	tracer := &Tracer{}
	ctx := context.Background()
	assert.Equal(t, ctx, tracer.TraceQueryStart(ctx, nil, pgx.TraceQueryStartData{SQL: "SELECT 1"}))
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})
}

func TestRecorderStatus(t *testing.T) {
	rec := NewRecorder(true, fixedMemory(40))
	rec.Record("SELECT 1", 150*time.Millisecond, "")

	status := rec.Status()
	assert.Equal(t, 1, status.QueryCount)
	assert.Equal(t, 40.0, status.PeakMemoryMB)
	assert.True(t, status.VerboseQueries)
}
