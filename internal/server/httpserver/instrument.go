package httpserver

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/Anubhav-singhx/cicd-platform/internal/server/httpserver/handler"
	"github.com/Anubhav-singhx/cicd-platform/internal/telemetry/metric"
)

// Instrument records each request in m. routeOf maps a request to its
// route label; nil labels everything as unmatched.
//
// The request is recorded from a deferred call, so it is counted exactly
// once whether the handler returns, panics or the client disconnects. A
// panic before any header was written is recorded as 500 and re-raised.
func Instrument(m *metric.HTTPMetrics, routeOf func(*http.Request) string) Middleware {
	if routeOf == nil {
		routeOf = func(*http.Request) string { return handler.UnmatchedRoute }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tracker := m.Begin(r.Method)
			rw := wrapResponseWriter(w)

			defer func() {
				status := rw.Status()
				p := recover()
				if p != nil && !rw.wroteHeader {
					status = http.StatusInternalServerError
				}
				tracker.Finish(routeOf(r), status)
				if p != nil {
					panic(withStack(p))
				}
			}()

			next.ServeHTTP(rw, r)
		})
	}
}

// stackedPanic carries a panic value with the stack of the goroutine that
// raised it, so re-panicking keeps the origin visible to Recover.
type stackedPanic struct {
	value any
	stack []byte
}

func (p *stackedPanic) String() string {
	return fmt.Sprint(p.value)
}

// withStack attaches the current stack to p. http.ErrAbortHandler is
// returned as is because net/http compares it by identity.
func withStack(p any) any {
	if _, ok := p.(*stackedPanic); ok || p == http.ErrAbortHandler {
		return p
	}
	return &stackedPanic{value: p, stack: debug.Stack()}
}

// unwrapPanic returns the original panic value and its stack, capturing
// the current stack if none was attached.
func unwrapPanic(p any) (any, []byte) {
	if sp, ok := p.(*stackedPanic); ok {
		return sp.value, sp.stack
	}
	return p, debug.Stack()
}
