package app

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	httpresponse "reservio/pkg/http"
)

type healthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
	Mongo   string `json:"mongo,omitempty"`
	Redis   string `json:"redis,omitempty"`
}

// healthHandler reports liveness only.
func (a *Application) healthHandler(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	_ = httpresponse.WriteJSON(w, http.StatusOK, healthStatus{Status: "ok"})
}

// readyHandler pings the backing stores. Redis is optional, so a
// missing cache never fails readiness.
func (a *Application) readyHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := healthStatus{Status: "ready"}
	code := http.StatusOK

	if a.cfg.Client.Mongo != nil {
		if err := a.cfg.Client.Mongo.Ping(ctx, nil); err != nil {
			status.Status = "degraded"
			status.Mongo = "unreachable"
			code = http.StatusServiceUnavailable
		} else {
			status.Mongo = "ok"
		}
	}

	if a.cfg.Client.Redis != nil {
		if err := a.cfg.Client.Redis.Ping(ctx).Err(); err != nil {
			status.Redis = "unreachable"
		} else {
			status.Redis = "ok"
		}
	}

	_ = httpresponse.WriteJSON(w, code, status)
}
