package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/avigneau/helloasso-bridge/internal/application/services"
	"github.com/avigneau/helloasso-bridge/internal/interfaces/rest"
)

type settingsPayload struct {
	TestMode         bool   `json:"test_mode"`
	OrganizationSlug string `json:"organization_slug"`
	ClientID         string `json:"client_id"`
	ClientSecret     string `json:"client_secret"`
	InactiveTierIDs  []int  `json:"inactive_tier_ids"`
	Complete         bool   `json:"complete"`
}

// GetSettings returns the stored organization settings.
func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.Current(r.Context())
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	complete, _ := settings.Complete()
	rest.WriteJSON(w, http.StatusOK, settingsPayload{
		TestMode:         settings.TestMode,
		OrganizationSlug: settings.OrganizationSlug,
		ClientID:         settings.ClientID,
		ClientSecret:     settings.ClientSecret,
		InactiveTierIDs:  settings.InactiveTierIDs,
		Complete:         complete,
	})
}

// PutSettings stores an operator-submitted settings update. Rejected
// input comes back as 422 with per-field reasons and the echoed values.
func (h *Handlers) PutSettings(w http.ResponseWriter, r *http.Request) {
	var payload settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		rest.WriteBadRequest(w, "invalid request body")
		return
	}

	result, err := h.settingsService.Store(r.Context(), services.SettingsInput{
		TestMode:         payload.TestMode,
		OrganizationSlug: payload.OrganizationSlug,
		ClientID:         payload.ClientID,
		ClientSecret:     payload.ClientSecret,
		InactiveTierIDs:  payload.InactiveTierIDs,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	if !result.Stored {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"success":      false,
			"field_errors": result.FieldErrors,
			"submitted":    result.Rejected,
		})
		return
	}

	complete, _ := result.Settings.Complete()
	rest.WriteJSON(w, http.StatusOK, settingsPayload{
		TestMode:         result.Settings.TestMode,
		OrganizationSlug: result.Settings.OrganizationSlug,
		ClientID:         result.Settings.ClientID,
		ClientSecret:     result.Settings.ClientSecret,
		InactiveTierIDs:  result.Settings.InactiveTierIDs,
		Complete:         complete,
	})
}

type organizationResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	City string `json:"city,omitempty"`
	URL  string `json:"url,omitempty"`
}

// VerifyOrganization checks the stored credentials against the provider
// and returns the organization they resolve to.
func (h *Handlers) VerifyOrganization(w http.ResponseWriter, r *http.Request) {
	org, err := h.settingsService.VerifyOrganization(r.Context())
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, organizationResponse{
		Name: org.Name,
		Slug: org.Slug,
		City: org.City,
		URL:  org.URL,
	})
}
