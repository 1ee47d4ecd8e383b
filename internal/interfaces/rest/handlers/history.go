package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/avigneau/helloasso-bridge/internal/domain"
	"github.com/avigneau/helloasso-bridge/internal/interfaces/rest"
)

type historyEntryResponse struct {
	ID          int64     `json:"id"`
	ReceivedAt  time.Time `json:"received_at"`
	CheckoutID  string    `json:"checkout_id"`
	AmountCents int64     `json:"amount_cents"`
	OrderID     string    `json:"order_id,omitempty"`
	RawRequest  string    `json:"raw_request"`
	State       string    `json:"state"`
	Duplicate   bool      `json:"duplicate"`
}

type historyResponse struct {
	Entries  []historyEntryResponse `json:"entries"`
	Total    int64                  `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
}

// History lists received notifications, newest first by default.
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	filter := domain.HistoryFilter{
		OrderBy:    q.Get("order"),
		Descending: q.Get("desc") != "false",
		Page:       page,
		PageSize:   pageSize,
	}.Normalize()

	entries, total, err := h.historyService.List(r.Context(), filter)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	resp := historyResponse{
		Entries:  make([]historyEntryResponse, 0, len(entries)),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, historyEntryResponse{
			ID:          e.ID,
			ReceivedAt:  e.ReceivedAt,
			CheckoutID:  e.CheckoutID,
			AmountCents: e.AmountCents,
			OrderID:     e.OrderID,
			RawRequest:  e.RawRequest,
			State:       e.State.String(),
			Duplicate:   e.Duplicate,
		})
	}

	rest.WriteJSON(w, http.StatusOK, resp)
}
