package httpx

import (
	"io"
	"net/http"
)

// healthHandler answers liveness/readiness probes. HEAD gets headers
// only; GET gets a fixed JSON body.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	// A failed write means the probe already disconnected.
	_, _ = io.WriteString(w, `{"status":"ok"}`)
}
