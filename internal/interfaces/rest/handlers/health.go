package handlers

import (
	"net/http"

	"github.com/avigneau/helloasso-bridge/internal/interfaces/rest"
)

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
