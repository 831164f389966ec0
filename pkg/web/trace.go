package web

import (
	"log/slog"
	"net/http"
	"strings"
)

// EchoPayload mirrors a TRACE request back to the client.
type EchoPayload struct {
	Method      string            `json:"metodo"`
	URI         string            `json:"uri"`
	Headers     map[string]string `json:"headers"`
	Description string            `json:"descripcion"`
}

// NewEchoPayload builds the echo of r. Each header maps to its first value.
// Host is included because net/http moves it out of r.Header. The URI excludes the query string.
func NewEchoPayload(r *http.Request, description string) EchoPayload {
	headers := make(map[string]string, len(r.Header)+1)
	for name, values := range r.Header {
		if len(values) > 0 {
			headers[name] = values[0]
		}
	}
	if _, ok := headers["Host"]; !ok && r.Host != "" {
		headers["Host"] = r.Host
	}
	return EchoPayload{
		Method:      r.Method,
		URI:         r.URL.EscapedPath(),
		Headers:     headers,
		Description: description,
	}
}

// TraceEcho short-circuits every TRACE request, whatever its path, with its echo payload.
// The method is matched case-insensitively. Other methods pass through to next.
func TraceEcho(logger *slog.Logger, description string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.EqualFold(r.Method, http.MethodTrace) {
				next.ServeHTTP(w, r)
				return
			}
			logger.DebugContext(r.Context(), "Echoing TRACE request", "uri", r.URL.Path)
			writeJSON(w, logger, http.StatusOK, ContentTypeJSONUTF8, NewEchoPayload(r, description))
		})
	}
}
