package handlers

import (
	"io"
	"net"
	"net/http"
	"strings"
)

// Webhook receives provider notifications. The answer status is decided
// entirely by the processor: 2xx acknowledges the delivery, anything
// else makes the provider redeliver later.
func (h *Handlers) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.logger.Warn("failed to read notification body", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	result := h.webhookService.Process(r.Context(), clientIP(r), body)
	w.WriteHeader(result.Status)
}

// clientIP extracts the peer address the notification came from. The
// authenticity check compares it against the provider's published
// address, so only the directly connected peer counts; forwarding
// headers are spoofable and ignored.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
