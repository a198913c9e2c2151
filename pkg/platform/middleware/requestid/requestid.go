// Package requestid assigns each request a correlation ID used across
// logs and audit events. Inbound X-Request-ID headers are honored so IDs
// survive proxies; otherwise a fresh UUID is generated.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"statlab/pkg/requestcontext"
)

// Header is the canonical request ID header.
const Header = "X-Request-ID"

// Middleware injects a request ID into the context and echoes it on the
// response so clients can correlate failures with server logs.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(Header, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
