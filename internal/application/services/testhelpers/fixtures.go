package testhelpers

import (
	"fmt"

	"github.com/avigneau/helloasso-bridge/internal/domain"
)

// TestSourceIP is the address notifications are expected from in tests.
const TestSourceIP = "203.0.113.10"

// SourceIPFor ignores the mode and always expects TestSourceIP.
func SourceIPFor(sandbox bool) string {
	return TestSourceIP
}

// CompleteSettings returns settings that pass the completeness check.
func CompleteSettings() domain.Settings {
	return domain.Settings{
		TestMode:         true,
		OrganizationSlug: "my-asso",
		ClientID:         "client-id",
		ClientSecret:     "client-secret",
	}
}

// NotificationFields are the knobs tests turn when building a payload.
type NotificationFields struct {
	EventType    string
	State        string
	CashOutState string
	CheckoutID   string
	OrderID      string
	Amount       int64
	ItemID       int
	MemberID     int  // 0 leaves the field out
	NoItemID     bool // leave item_id out entirely
}

// DefaultNotificationFields is a settled, member-attached payment.
func DefaultNotificationFields() NotificationFields {
	return NotificationFields{
		EventType:    domain.EventTypePayment,
		State:        domain.PaymentStateAuthorized,
		CashOutState: domain.CashOutTransfered,
		CheckoutID:   "12345",
		OrderID:      "777",
		Amount:       2500,
		ItemID:       4,
		MemberID:     42,
	}
}

// NotificationBody renders the provider's JSON for the given fields.
func NotificationBody(f NotificationFields) []byte {
	metadata := ""
	if !f.NoItemID {
		metadata = fmt.Sprintf(`"item_id": %d, "item_name": "annual"`, f.ItemID)
		if f.MemberID > 0 {
			metadata += fmt.Sprintf(`, "member_id": "%d"`, f.MemberID)
		}
	}
	return fmt.Appendf(nil, `{
		"eventType": %q,
		"data": {
			"id": %s,
			"state": %q,
			"cashOutState": %q,
			"amount": %d,
			"order": {"id": %s}
		},
		"metadata": {%s}
	}`, f.EventType, f.CheckoutID, f.State, f.CashOutState, f.Amount, f.OrderID, metadata)
}
