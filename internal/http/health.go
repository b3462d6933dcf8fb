package httpapi

import (
	"log/slog"
	"net/http"
	"sort"

	"backoffice/pkg/platform/httputil"
)

// HealthResponse lists each dependency as "up" or "down".
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck, logger *slog.Logger) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		resp := HealthResponse{Status: "up", Checks: map[string]string{}}
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				logger.WarnContext(ctx, "health check failed", "dependency", name, "error", err)
				resp.Checks[name] = "down"
				resp.Status = "down"
				continue
			}
			resp.Checks[name] = "up"
		}
		status := http.StatusOK
		if resp.Status != "up" {
			status = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, status, resp)
	}
}
