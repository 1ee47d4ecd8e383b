package application

import "errors"

// ErrCheckoutAlreadyProcessed is returned by HistoryTx.MarkProcessed
// when another entry for the same checkout id already reached PROCESSED.
// The store enforces this with a uniqueness constraint so two concurrent
// deliveries cannot both commit.
var ErrCheckoutAlreadyProcessed = errors.New("checkout already processed")

// ValidationError carries the host application's rule violations for a
// rejected accounting record.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return "contribution rejected by host validation"
	}
	return "contribution rejected: " + e.Messages[0]
}

// IsValidationError checks whether err is a host validation rejection.
func IsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	ok := errors.As(err, &verr)
	return verr, ok
}
