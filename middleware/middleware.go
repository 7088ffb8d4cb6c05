package middleware

import (
	"fmt"
	"io"
	"net/http"

	"task-manager/tasks-service/logging"

	"github.com/gorilla/handlers"
)

// AccessLog writes one line per request to out.
func AccessLog(out io.Writer, next http.Handler) http.Handler {
	return handlers.CustomLoggingHandler(out, next, formatAccessLog)
}

func formatAccessLog(w io.Writer, p handlers.LogFormatterParams) {
	fmt.Fprintf(w, "Event ID: HTTP_REQUEST, Description: %s %s from %s completed with %d (%d bytes)\n",
		p.Request.Method, p.URL.RequestURI(), p.Request.RemoteAddr, p.StatusCode, p.Size)
}

// CORS allows the configured origins with credentials. A "*" entry allows any
// origin, echoing it back since browsers refuse a wildcard on credentialed responses.
func CORS(origins []string) func(http.Handler) http.Handler {
	originOption := handlers.AllowedOrigins(origins)
	for _, origin := range origins {
		if origin == "*" {
			originOption = handlers.AllowedOriginValidator(func(string) bool { return true })
			break
		}
	}

	return handlers.CORS(
		originOption,
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With"}),
		handlers.AllowCredentials(),
	)
}

// Recover turns a panicking handler into a 500 and logs the stack.
func Recover(next http.Handler) http.Handler {
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(logging.Logger),
		handlers.PrintRecoveryStack(true),
	)(next)
}
