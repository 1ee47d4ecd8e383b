package services

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/avigneau/helloasso-bridge/internal/application"
	"github.com/avigneau/helloasso-bridge/internal/domain"
)

// WebhookResult is the outcome of one notification delivery. Status is
// the HTTP status to answer with: non-2xx makes the provider redeliver
// later, which is the retry mechanism for transient failures.
type WebhookResult struct {
	Status   int
	State    domain.ProcessingState
	Recorded bool
	EntryID  int64

	// Err names the failure behind a non-2xx Status. Informational:
	// the HTTP answer is already decided by Status.
	Err error
}

// WebhookService turns provider notifications into host accounting
// records. Every relevant notification is persisted before any
// processing so no delivery is ever lost, and per-checkout locking
// guarantees at most one accounting record per payment.
type WebhookService struct {
	history       application.HistoryStore
	contributions application.ContributionService
	settings      application.SettingsStore
	sourceIPFor   func(sandbox bool) string
	extension     string
	logger        *slog.Logger
	now           func() time.Time
}

func NewWebhookService(
	history application.HistoryStore,
	contributions application.ContributionService,
	settings application.SettingsStore,
	sourceIPFor func(sandbox bool) string,
	extension string,
	logger *slog.Logger,
) *WebhookService {
	return &WebhookService{
		history:       history,
		contributions: contributions,
		settings:      settings,
		sourceIPFor:   sourceIPFor,
		extension:     extension,
		logger:        logger,
		now:           time.Now,
	}
}

// Process handles one delivery. It never returns an error: every
// failure mode maps to a response status and, where a ledger entry
// exists, a recorded state. Panics aside, the request worker always
// answers the provider.
func (s *WebhookService) Process(ctx context.Context, sourceIP string, body []byte) WebhookResult {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load settings for notification", "error", err)
		return WebhookResult{Status: http.StatusInternalServerError}
	}

	if expected := s.sourceIPFor(settings.TestMode); sourceIP != expected {
		rejection := domain.NewAuthenticityFailureError(sourceIP)
		s.logger.Error("notification from unauthorized source rejected",
			"error", rejection,
			"expected_ip", expected)
		return WebhookResult{Status: http.StatusForbidden, Err: rejection}
	}

	n, err := domain.DecodeNotification(body)
	if err != nil {
		s.logger.Warn("undecodable notification body", "error", err)
		return WebhookResult{Status: http.StatusBadRequest}
	}

	if !n.Relevant() {
		s.logger.Debug("ignoring irrelevant notification",
			"event_type", n.EventType,
			"state", n.Data.State)
		return WebhookResult{Status: http.StatusOK}
	}

	entry := domain.NewHistoryEntry(n, body, s.now())
	id, err := s.history.Append(ctx, entry)
	if err != nil {
		// Nothing recorded; a non-2xx answer makes the provider retry.
		s.logger.Error("failed to record notification", "error", err,
			"checkout_id", entry.CheckoutID)
		return WebhookResult{Status: http.StatusInternalServerError}
	}

	result := WebhookResult{Status: http.StatusOK, Recorded: true, EntryID: id}

	err = s.history.WithCheckoutLock(ctx, entry.CheckoutID, func(ctx context.Context, tx application.HistoryTx) error {
		processed, err := tx.ExistsProcessed(ctx, entry.CheckoutID)
		if err != nil {
			return err
		}
		if processed {
			s.logger.Warn("checkout already processed, skipping",
				"checkout_id", entry.CheckoutID, "entry_id", id)
			result.State = domain.StateAlreadyDone
			return tx.SetState(ctx, id, domain.StateAlreadyDone)
		}

		if !n.Settled() {
			pending := domain.NewSettlementPendingError(n.Data.CashOutState)
			s.logger.Warn("payment authorized but funds not yet transferred",
				"checkout_id", entry.CheckoutID,
				"error", pending)
			result.Status = http.StatusInternalServerError
			result.State = domain.StateIncomplete
			result.Err = pending
			return tx.SetState(ctx, id, domain.StateIncomplete)
		}

		if n.Anonymous() {
			// No member to attach the contribution to; the payment stays
			// in the ledger with no accounting record.
			s.logger.Debug("anonymous payment, no accounting record created",
				"checkout_id", entry.CheckoutID)
			return nil
		}

		contribution := domain.ContributionFromNotification(n, s.extension)

		if err := s.contributions.Validate(ctx, contribution); err != nil {
			if verr, ok := application.IsValidationError(err); ok {
				err = domain.NewValidationFailureError(verr.Messages)
			}
			s.logger.Error("accounting record rejected",
				"checkout_id", entry.CheckoutID, "error", err)
			result.Status = http.StatusInternalServerError
			result.State = domain.StateError
			result.Err = err
			return tx.SetState(ctx, id, domain.StateError)
		}

		if err := s.contributions.Create(ctx, contribution); err != nil {
			s.logger.Error("failed to create accounting record",
				"checkout_id", entry.CheckoutID, "error", err)
			result.Status = http.StatusInternalServerError
			result.State = domain.StateError
			result.Err = err
			return tx.SetState(ctx, id, domain.StateError)
		}

		result.State = domain.StateProcessed
		return tx.MarkProcessed(ctx, id, entry.CheckoutID)
	})

	switch {
	case err == nil:
		return result
	case errors.Is(err, application.ErrCheckoutAlreadyProcessed):
		// Lost the race to a writer outside our lock. The locked
		// transaction rolled back, so the state is set on the pool.
		s.logger.Warn("checkout processed concurrently, skipping",
			"checkout_id", entry.CheckoutID, "entry_id", id)
		if serr := s.history.SetState(ctx, id, domain.StateAlreadyDone); serr != nil {
			s.logger.Error("failed to record duplicate state", "error", serr, "entry_id", id)
		}
		return WebhookResult{Status: http.StatusOK, State: domain.StateAlreadyDone, Recorded: true, EntryID: id}
	default:
		s.logger.Error("notification processing failed", "error", err,
			"checkout_id", entry.CheckoutID, "entry_id", id)
		if serr := s.history.SetState(ctx, id, domain.StateError); serr != nil {
			s.logger.Error("failed to record error state", "error", serr, "entry_id", id)
		}
		return WebhookResult{Status: http.StatusInternalServerError, State: domain.StateError, Recorded: true, EntryID: id, Err: err}
	}
}
