package handlers

import (
	"net/http"

	"github.com/avigneau/helloasso-bridge/internal/domain"
	"github.com/avigneau/helloasso-bridge/internal/interfaces/rest"
)

type tierResponse struct {
	ID            int     `json:"id"`
	Amount        float64 `json:"amount"`
	Name          string  `json:"name"`
	DonationExtra bool    `json:"donation_extra"`
	Extension     bool    `json:"extension"`
}

// Tiers lists the tiers the caller may pay for. all=true returns the
// unfiltered catalog for the settings screen.
func (h *Handlers) Tiers(w http.ResponseWriter, r *http.Request) {
	var (
		tiers []domain.PricingTier
		err   error
	)
	if r.URL.Query().Get("all") == "true" {
		tiers, err = h.catalogService.AllTiers(r.Context())
	} else {
		loggedIn := r.URL.Query().Get("logged_in") == "true"
		tiers, err = h.catalogService.PayableTiers(r.Context(), loggedIn)
	}
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	resp := make([]tierResponse, 0, len(tiers))
	for _, t := range tiers {
		resp = append(resp, tierResponse{
			ID:            t.ID,
			Amount:        t.Amount,
			Name:          t.Name,
			DonationExtra: t.DonationExtra,
			Extension:     t.Extension,
		})
	}
	rest.WriteJSON(w, http.StatusOK, resp)
}
