package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/avigneau/helloasso-bridge/internal/application"
	"github.com/avigneau/helloasso-bridge/internal/application/services"
	"github.com/avigneau/helloasso-bridge/internal/interfaces/rest"
)

type checkoutRequest struct {
	TierID      int          `json:"tier_id"`
	AmountCents int64        `json:"amount_cents"`
	LoggedIn    bool         `json:"logged_in"`
	MemberID    int          `json:"member_id"`
	Payer       payerRequest `json:"payer"`
}

type payerRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	City        string `json:"city"`
	ZipCode     string `json:"zip_code"`
	CompanyName string `json:"company_name"`
}

type checkoutResponse struct {
	IntentID    int64  `json:"intent_id"`
	RedirectURL string `json:"redirect_url"`
}

// Checkout creates a provider checkout intent and returns the URL the
// payer must be redirected to.
func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteBadRequest(w, "invalid request body")
		return
	}
	if req.TierID <= 0 || req.AmountCents <= 0 {
		rest.WriteBadRequest(w, "tier_id and amount_cents are required")
		return
	}

	cmd := services.CheckoutCommand{
		TierID:      req.TierID,
		AmountCents: req.AmountCents,
		LoggedIn:    req.LoggedIn,
		MemberID:    req.MemberID,
		Payer: application.Payer{
			FirstName:   req.Payer.FirstName,
			LastName:    req.Payer.LastName,
			Email:       req.Payer.Email,
			Address:     req.Payer.Address,
			City:        req.Payer.City,
			ZipCode:     req.Payer.ZipCode,
			CompanyName: req.Payer.CompanyName,
		},
	}

	intent, err := h.checkoutService.CreateCheckout(r.Context(), cmd)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, checkoutResponse{
		IntentID:    intent.ID,
		RedirectURL: intent.RedirectURL,
	})
}
