package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Provider event and state literals, as delivered on the wire.
const (
	EventTypePayment       = "Payment"
	PaymentStateAuthorized = "Authorized"
	CashOutTransfered      = "Transfered"
)

// FlexString decodes a JSON value that may arrive as a string or a
// number. Checkout and order identifiers come back as integers from the
// provider but as strings when replayed from stored payloads.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier is neither string nor number: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

// FlexInt decodes an integer that may be quoted. Metadata round-trips
// through HTML forms, so numeric fields often arrive as strings.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	s := string(data)
	if len(data) > 1 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", s, err)
	}
	*f = FlexInt(v)
	return nil
}

// Notification is an inbound webhook payload. It is untrusted until the
// source address has passed the authenticity gate; decoding fails closed
// on malformed identifiers rather than guessing.
type Notification struct {
	EventType string               `json:"eventType"`
	Data      NotificationData     `json:"data"`
	Metadata  NotificationMetadata `json:"metadata"`
}

type NotificationData struct {
	ID           FlexString        `json:"id"`
	State        string            `json:"state"`
	CashOutState string            `json:"cashOutState"`
	Amount       int64             `json:"amount"`
	Order        NotificationOrder `json:"order"`
}

type NotificationOrder struct {
	ID FlexString `json:"id"`
}

type NotificationMetadata struct {
	ItemID   *FlexInt `json:"item_id"`
	MemberID *FlexInt `json:"member_id"`
	ItemName string   `json:"item_name"`
}

// DecodeNotification parses a raw webhook body.
func DecodeNotification(raw []byte) (*Notification, error) {
	var n Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("decode notification: %w", err)
	}
	return &n, nil
}

// Relevant reports whether the notification is one we process: an
// authorized payment event carrying a tier id. Everything else is
// acknowledged and dropped so the provider does not retry.
func (n *Notification) Relevant() bool {
	return n.EventType == EventTypePayment &&
		n.Data.State == PaymentStateAuthorized &&
		n.Metadata.ItemID != nil &&
		n.Data.ID != ""
}

// Settled reports whether the provider has moved the funds to the
// organization's account.
func (n *Notification) Settled() bool {
	return n.Data.CashOutState == CashOutTransfered
}

// Anonymous reports whether the payer could not be matched to a member.
// Anonymous contributions are not recorded in the host application.
func (n *Notification) Anonymous() bool {
	return n.Metadata.MemberID == nil
}
