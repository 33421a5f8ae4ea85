package tracing

import (
	"inboxflow/internal/core/domain/logging"
	"net/http"

	"github.com/google/uuid"
)

const TRACE_ID_HEADER = "X-Trace-ID"

// SetTraceIDToContext attaches a trace ID to the request context and echoes it back.
// A valid UUID sent by the client is reused, anything else is replaced.
func SetTraceIDToContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TRACE_ID_HEADER)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.NewString()
		}
		w.Header().Set(TRACE_ID_HEADER, traceID)
		next.ServeHTTP(w, r.WithContext(logging.WithTraceID(r.Context(), traceID)))
	})
}
