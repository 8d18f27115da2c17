package web

import (
	"net/http"
	"strings"
)

func isHTMX(r *http.Request) bool {
	return strings.ToLower(r.Header.Get("HX-Request")) == "true"
}

// triggerEvent asks htmx to dispatch a client-side event once the response is
// processed.
func triggerEvent(w http.ResponseWriter, event string) {
	w.Header().Set("HX-Trigger", event)
}

func formBool(r *http.Request, name string) bool {
	switch strings.ToLower(strings.TrimSpace(r.FormValue(name))) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
