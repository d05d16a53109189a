package observability

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// Audit emits a structured audit event for a security-relevant action.
// Attrs are alternating key/value pairs, slog style.
func Audit(r *http.Request, event string, attrs ...any) {
	logger := NewLogger()
	fields := make([]any, 0, len(attrs)+6)
	fields = append(fields,
		"audit_event", event,
		"request_id", middleware.GetReqID(r.Context()),
		"remote_addr", r.RemoteAddr,
	)
	fields = append(fields, attrs...)
	logger.InfoContext(r.Context(), "audit", fields...)
}
