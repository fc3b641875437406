package observability

import (
	"net/http"
	"strings"
)

// RequestIDHeader carries the correlation id echoed on every response and
// attached to published events.
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 128

// RequestIDFromRequest returns the caller supplied request id, or "" when it
// is absent, oversized or contains non printable characters.
func RequestIDFromRequest(r *http.Request) string {
	id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
	if len(id) > maxRequestIDLength {
		return ""
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return ""
		}
	}
	return id
}
