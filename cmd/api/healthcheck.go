package main

import (
	"context"
	"net/http"
	"time"
)

// @Summary Health check
// @Description Reports the build version and the state of the database and cache.
// @Tags System
// @Produce json
// @Success 200 {object} object{status=string,system_info=object{environment=string,version=string},dependencies=map[string]string}
// @Failure 503 {object} object{status=string,dependencies=map[string]string}
// @Router /healthcheck [get]
func (app *application) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status, code := "available", http.StatusOK
	dependencies := make(map[string]string, len(app.healthChecks))

	for name, check := range app.healthChecks {
		if err := check(ctx); err != nil {
			app.logger.Warn("health check failed", "dependency", name, "error", err)
			dependencies[name] = "unavailable"
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		dependencies[name] = "ok"
	}

	env := envelope{
		"status": status,
		"system_info": map[string]string{
			"environment": app.config.env,
			"version":     version,
		},
		"dependencies": dependencies,
	}

	err := app.writeJSON(w, code, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
