package handler

import (
	"net/http"

	"github.com/firstlabs/accounts/internal/ctxkeys"
)

type healthResponse struct {
	Status string `json:"status"`
	Name   string `json:"name,omitempty"`
	Env    string `json:"env,omitempty"`
}

// Health reports liveness plus the public app identity from the sanitized
// config.
func Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if cfg := ctxkeys.Config(r.Context()); cfg != nil {
		resp.Name = cfg.AppName
		resp.Env = cfg.AppEnv
	}
	respondJSON(w, http.StatusOK, resp)
}
