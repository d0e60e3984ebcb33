package querylog

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

type queryStartKey struct{}

type queryStart struct {
	at     time.Time
	sql    string
	caller string
}

// Tracer - pgx.QueryTracer 구현체
//
// pgxpool.Config.ConnConfig.Tracer에 설치하면 요청 context에 Recorder가 있는 쿼리만 기록합니다.
type Tracer struct{}

var _ pgx.QueryTracer = (*Tracer)(nil)

func (t *Tracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	rec := FromContext(ctx)
	if rec == nil {
		return ctx
	}

	start := queryStart{at: time.Now(), sql: data.SQL}
	if rec.VerboseQueries() {
		start.caller = callerOutsideDriver()
	}
	return context.WithValue(ctx, queryStartKey{}, start)
}

func (t *Tracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, _ pgx.TraceQueryEndData) {
	rec := FromContext(ctx)
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if rec == nil || !ok {
		return
	}
	rec.Record(strings.TrimSpace(start.sql), time.Since(start.at), start.caller)
}

// callerOutsideDriver returns the first frame above TraceQueryStart that
// is not inside pgx.
func callerOutsideDriver() string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.Function, "github.com/jackc/") {
			return fmt.Sprintf("%s (%s:%d)", frame.Function, shortFile(frame.File), frame.Line)
		}
		if !more {
			return ""
		}
	}
}

func shortFile(path string) string {
	if idx := strings.LastIndex(path, "/internal/"); idx >= 0 {
		return path[idx+1:]
	}
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
